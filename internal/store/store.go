// Package store holds the session state shared by every onboarding screen.
//
// A Store is the only writer of session fields. Each action runs under the
// store's mutex and, once the in-memory change is applied, writes the
// persisted subset (user, user type, orders, dark mode) to storage. A failed
// write is logged and kept in PersistErr; it never rolls the change back.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jask/truckfinder/internal/domain"
	"github.com/jask/truckfinder/internal/storage"
)

// DefaultKey is the storage key the session is persisted under.
const DefaultKey = "truck-finder-storage"

var (
	ErrDuplicateOrder    = errors.New("store: order already exists")
	ErrOrderNotFound     = errors.New("store: order not found")
	ErrInvalidOrder      = errors.New("store: invalid order")
	ErrInvalidTransition = errors.New("store: invalid status transition")
	ErrUserTypeLocked    = errors.New("store: user type already chosen")
)

// Session is a copy of the store's state.
type Session struct {
	User             *domain.User
	UserType         domain.UserType
	PhoneNumber      string
	VerificationCode string
	ClientName       string
	OrderDraft       *domain.Order
	DriverData       *domain.Driver
	Orders           []domain.Order
	DarkModeEnabled  bool
}

// OrderPatch lists the fields UpdateOrder merges; nil fields are left alone.
// An empty DriverID clears the assignment.
type OrderPatch struct {
	PickupAddress   *string
	DeliveryAddress *string
	Date            *string
	Time            *string
	Description     *string
	Amount          *int64
	Status          *domain.OrderStatus
	DriverID        *string
}

// Store is the session state container.
type Store struct {
	mu         sync.Mutex
	s          Session
	storage    storage.Storage
	key        string
	logger     *log.Logger
	timeout    time.Duration
	darkMode   bool
	persistErr error
	// typeChosen is set once SetUserType succeeds in this process
	typeChosen bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDarkModeDefault sets darkModeEnabled for a first run with nothing persisted.
func WithDarkModeDefault(dark bool) Option {
	return func(s *Store) { s.darkMode = dark }
}

// WithWriteTimeout bounds each storage write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a store with default state. st may be nil, in which case
// nothing is persisted.
func New(st storage.Storage, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		storage: st,
		key:     key,
		logger:  log.New(os.Stderr, "store: ", log.LstdFlags),
		timeout: 2 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	s.s = s.defaults()
	return s
}

// Load returns a store populated from storage. Missing, unreadable or
// malformed state yields the defaults; the failure is only logged.
func Load(ctx context.Context, st storage.Storage, key string, opts ...Option) *Store {
	s := New(st, key, opts...)
	if st == nil {
		return s
	}
	data, err := st.GetItem(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return s
	}
	if err != nil {
		s.logger.Printf("warn: read %s: %v; using defaults", s.key, err)
		return s
	}
	p, err := decodeState(data)
	if err != nil {
		s.logger.Printf("warn: decode %s: %v; using defaults", s.key, err)
		return s
	}
	s.s.User = p.User
	s.s.UserType = p.UserType
	s.s.Orders = p.Orders
	s.s.DarkModeEnabled = p.IsDarkMode
	return s
}

func (s *Store) defaults() Session {
	return Session{DarkModeEnabled: s.darkMode}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.s)
}

// Orders returns a copy of the committed orders.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrders(s.s.Orders)
}

// Order looks an order up by id.
func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.s.Orders[i].Clone(), true
	}
	return domain.Order{}, false
}

// PersistErr returns the last write failure, or nil if the last write succeeded.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

func (s *Store) SetUser(u *domain.User) {
	s.mutate(func(st *Session) bool {
		st.User = copyUser(u)
		return true
	})
}

// SetUserType records the chosen profile. Once chosen in this process the
// type cannot be changed, and a type of any origin cannot be cleared; use
// Reset to start over. A type restored by Load may still be replaced once.
func (s *Store) SetUserType(t domain.UserType) error {
	if t != domain.UserTypeUnset && !t.Valid() {
		return fmt.Errorf("store: unknown user type %q", t)
	}
	var err error
	s.mutate(func(st *Session) bool {
		switch {
		case t == domain.UserTypeUnset:
			if st.UserType != domain.UserTypeUnset {
				err = fmt.Errorf("%w: %s", ErrUserTypeLocked, st.UserType)
			}
			return false
		case st.UserType == t:
			s.typeChosen = true
			return false
		case s.typeChosen:
			err = fmt.Errorf("%w: %s", ErrUserTypeLocked, st.UserType)
			return false
		}
		st.UserType = t
		if st.User != nil {
			st.User.Type = t
		}
		s.typeChosen = true
		return true
	})
	return err
}

func (s *Store) SetPhoneNumber(phone string) {
	s.mutate(func(st *Session) bool {
		st.PhoneNumber = phone
		return true
	})
}

func (s *Store) SetVerificationCode(code string) {
	s.mutate(func(st *Session) bool {
		st.VerificationCode = code
		return true
	})
}

func (s *Store) SetClientName(name string) {
	s.mutate(func(st *Session) bool {
		st.ClientName = name
		return true
	})
}

func (s *Store) SetOrderDraft(o *domain.Order) {
	s.mutate(func(st *Session) bool {
		st.OrderDraft = copyOrder(o)
		return true
	})
}

func (s *Store) SetDriverData(d *domain.Driver) {
	s.mutate(func(st *Session) bool {
		st.DriverData = copyDriver(d)
		return true
	})
}

// AddOrder appends o. Ids are unique: a repeated id is rejected.
func (s *Store) AddOrder(o domain.Order) error {
	if o.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidOrder)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidOrder, o.Status)
	}
	var err error
	s.mutate(func(st *Session) bool {
		if s.indexOf(o.ID) >= 0 {
			err = fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
			return false
		}
		st.Orders = append(st.Orders, o.Clone())
		return true
	})
	return err
}

// UpdateOrder merges patch into the order with the given id.
func (s *Store) UpdateOrder(id string, patch OrderPatch) error {
	var err error
	s.mutate(func(st *Session) bool {
		i := s.indexOf(id)
		if i < 0 {
			err = fmt.Errorf("%w: %s", ErrOrderNotFound, id)
			return false
		}
		next := st.Orders[i].Clone()
		if patch.Status != nil {
			if terr := domain.CanTransition(next.Status, *patch.Status); terr != nil {
				err = fmt.Errorf("%w: %v", ErrInvalidTransition, terr)
				return false
			}
			next.Status = *patch.Status
		}
		applyPatch(&next, patch)
		st.Orders[i] = next
		return true
	})
	return err
}

// ToggleTheme flips dark mode and returns the new value.
func (s *Store) ToggleTheme() bool {
	var dark bool
	s.mutate(func(st *Session) bool {
		st.DarkModeEnabled = !st.DarkModeEnabled
		dark = st.DarkModeEnabled
		return true
	})
	return dark
}

// Reset clears identity and onboarding fields. Orders and dark mode are kept.
func (s *Store) Reset() {
	s.mutate(func(st *Session) bool {
		s.typeChosen = false
		st.User = nil
		st.UserType = domain.UserTypeUnset
		st.PhoneNumber = ""
		st.VerificationCode = ""
		st.ClientName = ""
		st.OrderDraft = nil
		st.DriverData = nil
		return true
	})
}

// mutate applies fn and, if it reports a change, persists while still
// holding the lock so writes reach storage in mutation order.
func (s *Store) mutate(fn func(*Session) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn(&s.s) {
		s.persistLocked()
	}
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	data, err := encodeState(s.s)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err = s.storage.SetItem(ctx, s.key, data)
		cancel()
	}
	if err != nil {
		s.logger.Printf("warn: persist %s: %v", s.key, err)
	}
	s.persistErr = err
}

func (s *Store) indexOf(id string) int {
	for i := range s.s.Orders {
		if s.s.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(o *domain.Order, p OrderPatch) {
	if p.PickupAddress != nil {
		o.PickupAddress = *p.PickupAddress
	}
	if p.DeliveryAddress != nil {
		o.DeliveryAddress = *p.DeliveryAddress
	}
	if p.Date != nil {
		o.Date = *p.Date
	}
	if p.Time != nil {
		o.Time = *p.Time
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Amount != nil {
		o.Amount = *p.Amount
	}
	if p.DriverID != nil {
		if *p.DriverID == "" {
			o.DriverID = nil
		} else {
			id := *p.DriverID
			o.DriverID = &id
		}
	}
}
