package store

import (
	"encoding/json"
	"fmt"

	"github.com/jask/truckfinder/internal/domain"
)

// stateVersion is written with every record; older records are read as-is.
const stateVersion = 1

// persistedState is the subset of Session that survives a restart.
type persistedState struct {
	User       *domain.User    `json:"user"`
	UserType   domain.UserType `json:"userType"`
	Orders     []domain.Order  `json:"orders"`
	IsDarkMode bool            `json:"isDarkMode"`
}

type envelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

func encodeState(s Session) ([]byte, error) {
	orders := s.Orders
	if orders == nil {
		orders = []domain.Order{}
	}
	return json.Marshal(envelope{
		State: persistedState{
			User:       s.User,
			UserType:   s.UserType,
			Orders:     orders,
			IsDarkMode: s.DarkModeEnabled,
		},
		Version: stateVersion,
	})
}

// decodeState rejects records that would break session invariants, so a
// damaged record is treated the same as a missing one.
func decodeState(data []byte) (persistedState, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return persistedState{}, err
	}
	if env.Version > stateVersion {
		return persistedState{}, fmt.Errorf("unsupported version %d", env.Version)
	}
	p := env.State
	if p.UserType != domain.UserTypeUnset && !p.UserType.Valid() {
		return persistedState{}, fmt.Errorf("unknown user type %q", p.UserType)
	}
	seen := make(map[string]bool, len(p.Orders))
	for _, o := range p.Orders {
		if o.ID == "" || seen[o.ID] {
			return persistedState{}, fmt.Errorf("bad or repeated order id %q", o.ID)
		}
		if !o.Status.Valid() {
			return persistedState{}, fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
		}
		seen[o.ID] = true
	}
	return p, nil
}

func copySession(s Session) Session {
	out := s
	out.User = copyUser(s.User)
	out.OrderDraft = copyOrder(s.OrderDraft)
	out.DriverData = copyDriver(s.DriverData)
	out.Orders = copyOrders(s.Orders)
	return out
}

func copyOrders(in []domain.Order) []domain.Order {
	if in == nil {
		return nil
	}
	out := make([]domain.Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Email != nil {
		e := *u.Email
		c.Email = &e
	}
	return &c
}

func copyOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	c := o.Clone()
	return &c
}

func copyDriver(d *domain.Driver) *domain.Driver {
	if d == nil {
		return nil
	}
	c := *d
	if d.Location != nil {
		loc := *d.Location
		c.Location = &loc
	}
	return &c
}
