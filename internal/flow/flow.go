// Package flow drives the onboarding wizard.
//
// Each step validates its input, writes the result into the session store,
// waits on the backend and returns the Transition to the next screen. The
// output of one step is the input of the next: SubmitPhone returns
// VerificationParams, which ConfirmCode and ResendCode take back.
//
// Validation failures return a *ValidationError before anything is written.
// If ctx is cancelled while the backend call is in flight the step returns
// ctx.Err() and skips every write that would have followed the call.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/truckfinder/internal/domain"
	"github.com/jask/truckfinder/internal/format"
	"github.com/jask/truckfinder/internal/store"
)

// Route names a screen.
type Route string

const (
	RouteWelcome                Route = "Welcome"
	RouteLogin                  Route = "Login"
	RouteVerification           Route = "Verification"
	RouteProfileChoice          Route = "ProfileChoice"
	RouteClientName             Route = "ClientName"
	RouteCreateOrder            Route = "CreateOrder"
	RouteSearchTrucks           Route = "SearchTrucks"
	RouteTransporterApplication Route = "TransporterApplication"
)

// VerificationParams is carried from Login into Verification.
type VerificationParams struct {
	PhoneNumber string
}

// SearchTrucksParams is carried from CreateOrder into SearchTrucks.
type SearchTrucksParams struct {
	Order domain.Order
}

// Transition asks the router to show Route. Params is nil or one of the
// *Params types above.
type Transition struct {
	Route  Route
	Params any
}

// ErrWrongStep is returned when an action is not available on the current route.
var ErrWrongStep = errors.New("flow: action not available on this step")

// ValidationError is a user-correctable input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

const (
	minPhoneDigits = 9
	minNameLength  = 2

	// DefaultAmount is the placeholder price of a new order, in minor units.
	DefaultAmount int64 = 2500
	// placeholder client id for orders created before a user exists
	anonymousClientID = "temp_client"
)

// OrderForm is the raw input of the create-order screen.
type OrderForm struct {
	PickupAddress   string
	DeliveryAddress string
	Date            string
	Time            string
	Description     string
}

// Controller tracks the current route and runs each step against the store.
type Controller struct {
	store   *store.Store
	backend Backend
	now     func() time.Time
	newID   func() string

	mu      sync.Mutex
	route   Route
	history []Route
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for createdAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator sets the generator used for user and order ids.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

// New returns a controller positioned on the welcome screen.
func New(st *store.Store, backend Backend, opts ...Option) *Controller {
	c := &Controller{
		store:   st,
		backend: backend,
		now:     time.Now,
		newID:   timeOrderedID,
		route:   RouteWelcome,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// timeOrderedID returns a UUIDv7, falling back to a random UUID.
func timeOrderedID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Route returns the current route.
func (c *Controller) Route() Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

// Start leaves the welcome screen.
func (c *Controller) Start() (Transition, error) {
	if err := c.advance(RouteWelcome, RouteLogin); err != nil {
		return Transition{}, err
	}
	return Transition{Route: RouteLogin}, nil
}

// SubmitPhone validates the phone number, stores it and requests a code.
func (c *Controller) SubmitPhone(ctx context.Context, raw string) (Transition, error) {
	if err := c.expect(RouteLogin); err != nil {
		return Transition{}, err
	}
	phone := format.Phone(raw)
	if strings.TrimSpace(phone) == "" {
		return Transition{}, invalid("phoneNumber", "Please enter your phone number")
	}
	if len(format.Digits(phone)) < minPhoneDigits {
		return Transition{}, invalid("phoneNumber", "Invalid phone number")
	}
	c.store.SetPhoneNumber(phone)
	if err := call(ctx, "send code", func() error { return c.backend.SendCode(ctx, phone) }); err != nil {
		return Transition{}, err
	}
	if err := c.advance(RouteLogin, RouteVerification); err != nil {
		return Transition{}, err
	}
	return Transition{Route: RouteVerification, Params: VerificationParams{PhoneNumber: phone}}, nil
}

// ResendCode requests another code. Entered digits and the route are unchanged.
func (c *Controller) ResendCode(ctx context.Context, p VerificationParams) error {
	if err := c.expect(RouteVerification); err != nil {
		return err
	}
	return call(ctx, "resend code", func() error { return c.backend.SendCode(ctx, p.PhoneNumber) })
}

// ConfirmCode stores the entered code, verifies it and signs the user in.
func (c *Controller) ConfirmCode(ctx context.Context, p VerificationParams, code CodeEntry) (Transition, error) {
	if err := c.expect(RouteVerification); err != nil {
		return Transition{}, err
	}
	if !code.Complete() {
		return Transition{}, invalid("verificationCode", "Please enter the complete code")
	}
	joined := code.Code()
	c.store.SetVerificationCode(joined)
	if err := call(ctx, "verify code", func() error { return c.backend.VerifyCode(ctx, p.PhoneNumber, joined) }); err != nil {
		return Transition{}, err
	}
	if err := c.advance(RouteVerification, RouteProfileChoice); err != nil {
		return Transition{}, err
	}
	c.store.SetUser(&domain.User{
		ID:        c.newID(),
		Phone:     p.PhoneNumber,
		Type:      c.store.Snapshot().UserType,
		CreatedAt: c.now(),
	})
	return Transition{Route: RouteProfileChoice}, nil
}

// ChooseProfile records the user type. The choice is write-once per session.
func (c *Controller) ChooseProfile(t domain.UserType) (Transition, error) {
	if err := c.expect(RouteProfileChoice); err != nil {
		return Transition{}, err
	}
	if !t.Valid() {
		return Transition{}, invalid("userType", "Please choose client or transporter")
	}
	if err := c.store.SetUserType(t); err != nil {
		return Transition{}, err
	}
	next := RouteClientName
	if t == domain.UserTypeTransporter {
		next = RouteTransporterApplication
	}
	if err := c.advance(RouteProfileChoice, next); err != nil {
		return Transition{}, err
	}
	return Transition{Route: next}, nil
}

// SubmitName validates and saves the client's name.
func (c *Controller) SubmitName(ctx context.Context, name string) (Transition, error) {
	if err := c.expect(RouteClientName); err != nil {
		return Transition{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Transition{}, invalid("clientName", "Please enter your full name")
	}
	if len([]rune(name)) < minNameLength {
		return Transition{}, invalid("clientName", "Name must be at least 2 characters")
	}
	c.store.SetClientName(name)
	if err := call(ctx, "save name", func() error { return c.backend.SaveName(ctx, name) }); err != nil {
		return Transition{}, err
	}
	if err := c.advance(RouteClientName, RouteCreateOrder); err != nil {
		return Transition{}, err
	}
	if u := c.store.Snapshot().User; u != nil {
		u.Name = name
		c.store.SetUser(u)
	}
	return Transition{Route: RouteCreateOrder}, nil
}

// ValidateOrder checks the required order fields in screen order.
func ValidateOrder(f OrderForm) error {
	switch {
	case strings.TrimSpace(f.PickupAddress) == "":
		return invalid("pickupAddress", "Please enter the pickup address")
	case strings.TrimSpace(f.DeliveryAddress) == "":
		return invalid("deliveryAddress", "Please enter the delivery address")
	case strings.TrimSpace(f.Date) == "":
		return invalid("date", "Please select the date")
	case strings.TrimSpace(f.Time) == "":
		return invalid("time", "Please select the time")
	}
	return nil
}

// SubmitOrder builds a pending order from the form, creates it and commits
// it as the current draft and to the order list.
func (c *Controller) SubmitOrder(ctx context.Context, f OrderForm) (Transition, error) {
	if err := c.expect(RouteCreateOrder); err != nil {
		return Transition{}, err
	}
	if err := ValidateOrder(f); err != nil {
		return Transition{}, err
	}
	clientID := anonymousClientID
	if u := c.store.Snapshot().User; u != nil && u.ID != "" {
		clientID = u.ID
	}
	order := domain.Order{
		ID:              "order_" + c.newID(),
		ClientID:        clientID,
		PickupAddress:   f.PickupAddress,
		DeliveryAddress: f.DeliveryAddress,
		Date:            f.Date,
		Time:            f.Time,
		Description:     f.Description,
		Amount:          DefaultAmount,
		Status:          domain.StatusPending,
		CreatedAt:       c.now(),
	}
	if err := call(ctx, "create order", func() error { return c.backend.CreateOrder(ctx, order) }); err != nil {
		return Transition{}, err
	}
	if err := c.store.AddOrder(order); err != nil {
		return Transition{}, err
	}
	c.store.SetOrderDraft(&order)
	if err := c.advance(RouteCreateOrder, RouteSearchTrucks); err != nil {
		return Transition{}, err
	}
	return Transition{Route: RouteSearchTrucks, Params: SearchTrucksParams{Order: order}}, nil
}

// CanGoBack reports whether Back is available on the current route.
func (c *Controller) CanGoBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canGoBackLocked()
}

func (c *Controller) canGoBackLocked() bool {
	// no way back past code verification
	return len(c.history) > 0 && c.route != RouteProfileChoice
}

// Back returns to the previous route.
func (c *Controller) Back() (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canGoBackLocked() {
		return Transition{}, fmt.Errorf("%w: back from %s", ErrWrongStep, c.route)
	}
	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.route = prev
	return Transition{Route: prev}, nil
}

// call runs a backend request. A context cancelled during the request wins
// over a backend that ignored it.
func call(ctx context.Context, what string, fn func() error) error {
	if err := fn(); err != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			return cerr
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return ctx.Err()
}

func (c *Controller) expect(r Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.route != r {
		return fmt.Errorf("%w: on %s, want %s", ErrWrongStep, c.route, r)
	}
	return nil
}

// advance moves from -> to if the controller is still on from.
func (c *Controller) advance(from, to Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.route != from {
		return fmt.Errorf("%w: on %s, want %s", ErrWrongStep, c.route, from)
	}
	c.history = append(c.history, from)
	c.route = to
	return nil
}
