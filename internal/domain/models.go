package domain

import "time"

// UserType is the profile chosen during onboarding.
type UserType string

const (
	UserTypeUnset       UserType = ""
	UserTypeClient      UserType = "client"
	UserTypeTransporter UserType = "transporter"
)

// Valid reports whether t is one of the selectable profiles.
func (t UserType) Valid() bool {
	return t == UserTypeClient || t == UserTypeTransporter
}

// User is the authenticated identity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Type      UserType  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is a transport request created by a client.
type Order struct {
	ID              string      `json:"id"`
	ClientID        string      `json:"clientId"`
	PickupAddress   string      `json:"pickupAddress"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Date            string      `json:"date"` // DD/MM/YYYY
	Time            string      `json:"time"` // HH:MM
	Description     string      `json:"description"`
	Amount          int64       `json:"amount"` // minor currency units
	Status          OrderStatus `json:"status"`
	DriverID        *string     `json:"driverId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Clone returns a copy that shares no pointers with o.
func (o Order) Clone() Order {
	if o.DriverID != nil {
		id := *o.DriverID
		o.DriverID = &id
	}
	return o
}

// Location is a geographic point.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Driver is a truck operator assigned to an order.
type Driver struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	TruckType   string    `json:"truckType"`
	License     string    `json:"license"`
	Rating      float64   `json:"rating"`
	IsAvailable bool      `json:"isAvailable"`
	Location    *Location `json:"location,omitempty"`
}
