package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/truckfinder/internal/domain"
	"github.com/jask/truckfinder/internal/storage"
)

type memStorage struct {
	mu      sync.Mutex
	items   map[string][]byte
	writes  int
	failGet error
	failSet error
}

func newMem() *memStorage { return &memStorage{items: map[string][]byte{}} }

func (m *memStorage) GetItem(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	v, ok := m.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memStorage) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.writes++
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

var quiet = WithLogger(log.New(io.Discard, "", 0))

var fixedTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleOrder(id string) domain.Order {
	return domain.Order{
		ID:              id,
		ClientID:        "client-1",
		PickupAddress:   "Av. 24 de Julho 100",
		DeliveryAddress: "Rua da Beira 12",
		Date:            "01/02/2025",
		Time:            "08:30",
		Description:     "cement bags",
		Amount:          2500,
		Status:          domain.StatusPending,
		CreatedAt:       fixedTime,
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(newMem(), "", quiet)
	snap := s.Snapshot()
	require.Nil(t, snap.User)
	require.Equal(t, domain.UserTypeUnset, snap.UserType)
	require.Empty(t, snap.PhoneNumber)
	require.Empty(t, snap.Orders)
	require.False(t, snap.DarkModeEnabled)

	dark := New(nil, "", quiet, WithDarkModeDefault(true))
	require.True(t, dark.Snapshot().DarkModeEnabled)
}

func TestSettersReplaceFields(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	s.SetPhoneNumber("84 123 4567")
	s.SetVerificationCode("123456")
	s.SetClientName("Ana Silva")
	s.SetUser(&domain.User{ID: "u1", Phone: "84 123 4567", CreatedAt: fixedTime})
	o := sampleOrder("order_1")
	s.SetOrderDraft(&o)
	s.SetDriverData(&domain.Driver{ID: "d1", Name: "Rui", Location: &domain.Location{Latitude: -25.9, Longitude: 32.6}})

	snap := s.Snapshot()
	require.Equal(t, "84 123 4567", snap.PhoneNumber)
	require.Equal(t, "123456", snap.VerificationCode)
	require.Equal(t, "Ana Silva", snap.ClientName)
	require.Equal(t, "u1", snap.User.ID)
	require.Equal(t, "order_1", snap.OrderDraft.ID)
	require.Equal(t, "d1", snap.DriverData.ID)

	// snapshots are copies
	snap.User.Name = "changed"
	snap.DriverData.Location.Latitude = 0
	again := s.Snapshot()
	require.Empty(t, again.User.Name)
	require.Equal(t, -25.9, again.DriverData.Location.Latitude)

	s.SetOrderDraft(nil)
	s.SetDriverData(nil)
	require.Nil(t, s.Snapshot().OrderDraft)
	require.Nil(t, s.Snapshot().DriverData)
}

func TestSetUserTypeWriteOnce(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	s.SetUser(&domain.User{ID: "u1"})

	require.NoError(t, s.SetUserType(domain.UserTypeClient))
	require.Equal(t, domain.UserTypeClient, s.Snapshot().User.Type)
	require.NoError(t, s.SetUserType(domain.UserTypeClient))

	err := s.SetUserType(domain.UserTypeTransporter)
	require.ErrorIs(t, err, ErrUserTypeLocked)
	require.ErrorIs(t, s.SetUserType(domain.UserTypeUnset), ErrUserTypeLocked)
	require.Equal(t, domain.UserTypeClient, s.Snapshot().UserType)

	require.Error(t, New(nil, "", quiet).SetUserType("admin"))

	s.Reset()
	require.NoError(t, s.SetUserType(domain.UserTypeTransporter))
}

func TestAddOrderAndLookup(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	require.NoError(t, s.AddOrder(sampleOrder("order_1")))
	require.NoError(t, s.AddOrder(sampleOrder("order_2")))

	got, ok := s.Order("order_2")
	require.True(t, ok)
	require.Equal(t, sampleOrder("order_2"), got)

	ids := []string{}
	for _, o := range s.Orders() {
		ids = append(ids, o.ID)
	}
	require.Equal(t, []string{"order_1", "order_2"}, ids)

	_, ok = s.Order("missing")
	require.False(t, ok)
}

func TestAddOrderRejectsDuplicateAndInvalid(t *testing.T) {
	mem := newMem()
	s := New(mem, DefaultKey, quiet)
	require.NoError(t, s.AddOrder(sampleOrder("order_1")))
	writes := mem.writes

	dup := sampleOrder("order_1")
	dup.Description = "other"
	err := s.AddOrder(dup)
	require.ErrorIs(t, err, ErrDuplicateOrder)
	require.Len(t, s.Orders(), 1)
	require.Equal(t, "cement bags", s.Orders()[0].Description)
	require.Equal(t, writes, mem.writes, "rejected add must not persist")

	require.ErrorIs(t, s.AddOrder(domain.Order{Status: domain.StatusPending}), ErrInvalidOrder)
	bad := sampleOrder("order_3")
	bad.Status = "lost"
	require.ErrorIs(t, s.AddOrder(bad), ErrInvalidOrder)
}

func TestUpdateOrderMissingID(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	require.NoError(t, s.AddOrder(sampleOrder("order_1")))
	before := s.Orders()

	desc := "x"
	err := s.UpdateOrder("missing-id", OrderPatch{Description: &desc})
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.Equal(t, before, s.Orders())
}

func TestUpdateOrderMergesFields(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	require.NoError(t, s.AddOrder(sampleOrder("order_1")))

	accepted := domain.StatusAccepted
	driver := "driver-7"
	amount := int64(3100)
	require.NoError(t, s.UpdateOrder("order_1", OrderPatch{Status: &accepted, DriverID: &driver, Amount: &amount}))

	got, _ := s.Order("order_1")
	require.Equal(t, domain.StatusAccepted, got.Status)
	require.Equal(t, "driver-7", *got.DriverID)
	require.Equal(t, int64(3100), got.Amount)
	require.Equal(t, "Av. 24 de Julho 100", got.PickupAddress)

	unassign := ""
	require.NoError(t, s.UpdateOrder("order_1", OrderPatch{DriverID: &unassign}))
	got, _ = s.Order("order_1")
	require.Nil(t, got.DriverID)
}

func TestUpdateOrderStatusMachine(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	require.NoError(t, s.AddOrder(sampleOrder("order_1")))

	completed := domain.StatusCompleted
	desc := "should not apply"
	err := s.UpdateOrder("order_1", OrderPatch{Status: &completed, Description: &desc})
	require.ErrorIs(t, err, ErrInvalidTransition)
	got, _ := s.Order("order_1")
	require.Equal(t, domain.StatusPending, got.Status)
	require.Equal(t, "cement bags", got.Description)

	for _, st := range []domain.OrderStatus{domain.StatusAccepted, domain.StatusInProgress, domain.StatusCompleted} {
		st := st
		require.NoError(t, s.UpdateOrder("order_1", OrderPatch{Status: &st}))
	}
	cancelled := domain.StatusCancelled
	require.ErrorIs(t, s.UpdateOrder("order_1", OrderPatch{Status: &cancelled}), ErrInvalidTransition)
}

func TestToggleThemeRoundTrip(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	orig := s.Snapshot().DarkModeEnabled
	require.Equal(t, !orig, s.ToggleTheme())
	require.Equal(t, orig, s.ToggleTheme())
	require.Equal(t, orig, s.Snapshot().DarkModeEnabled)
}

func TestResetThenReloadKeepsOrdersAndTheme(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	s := Load(ctx, fs, DefaultKey, quiet)
	s.SetUser(&domain.User{ID: "u1", Name: "Ana", Phone: "84 123 4567", CreatedAt: fixedTime})
	require.NoError(t, s.SetUserType(domain.UserTypeClient))
	s.SetPhoneNumber("84 123 4567")
	s.SetVerificationCode("123456")
	s.SetClientName("Ana")
	require.NoError(t, s.AddOrder(sampleOrder("order_1")))
	s.ToggleTheme()
	orders := s.Orders()

	s.Reset()
	snap := s.Snapshot()
	require.Nil(t, snap.User)
	require.Equal(t, domain.UserTypeUnset, snap.UserType)
	require.Empty(t, snap.PhoneNumber)
	require.Empty(t, snap.VerificationCode)
	require.Empty(t, snap.ClientName)

	reloaded := Load(ctx, fs, DefaultKey, quiet).Snapshot()
	require.Equal(t, orders, reloaded.Orders)
	require.True(t, reloaded.DarkModeEnabled)
	require.Nil(t, reloaded.User)
	require.Equal(t, domain.UserTypeUnset, reloaded.UserType)
	require.Empty(t, reloaded.PhoneNumber)
	require.Empty(t, reloaded.VerificationCode)
	require.Empty(t, reloaded.ClientName)
}

func TestTransientFieldsNotPersisted(t *testing.T) {
	ctx := context.Background()
	mem := newMem()
	s := New(mem, DefaultKey, quiet)
	s.SetUser(&domain.User{ID: "u1", Phone: "84 123 4567", CreatedAt: fixedTime})
	s.SetPhoneNumber("84 123 4567")
	s.SetVerificationCode("654321")
	s.SetClientName("Ana")

	raw, err := mem.GetItem(ctx, DefaultKey)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "654321")
	require.NotContains(t, string(raw), "verificationCode")
	require.NotContains(t, string(raw), "clientName")

	reloaded := Load(ctx, mem, DefaultKey, quiet).Snapshot()
	require.Equal(t, "u1", reloaded.User.ID)
	require.Empty(t, reloaded.PhoneNumber)
	require.Empty(t, reloaded.VerificationCode)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	cases := map[string][]byte{
		"malformed json":  []byte(`{"state": {`),
		"wrong shape":     []byte(`[1,2,3]`),
		"future version":  []byte(`{"state":{"orders":[]},"version":99}`),
		"bad user type":   []byte(`{"state":{"userType":"admin"},"version":1}`),
		"duplicate order": []byte(`{"state":{"orders":[{"id":"a","status":"pending"},{"id":"a","status":"pending"}]},"version":1}`),
		"bad status":      []byte(`{"state":{"orders":[{"id":"a","status":"lost"}]},"version":1}`),
	}
	for name, payload := range cases {
		payload := payload
		t.Run(name, func(t *testing.T) {
			mem := newMem()
			mem.items[DefaultKey] = payload
			snap := Load(ctx, mem, DefaultKey, quiet, WithDarkModeDefault(true)).Snapshot()
			require.Empty(t, snap.Orders)
			require.Equal(t, domain.UserTypeUnset, snap.UserType)
			require.True(t, snap.DarkModeEnabled)
		})
	}

	mem := newMem()
	mem.failGet = errors.New("disk on fire")
	snap := Load(ctx, mem, DefaultKey, quiet).Snapshot()
	require.Empty(t, snap.Orders)
}

func TestLoadAcceptsUnversionedRecord(t *testing.T) {
	mem := newMem()
	mem.items[DefaultKey] = []byte(`{"state":{"user":null,"userType":null,"orders":[{"id":"order_1","status":"accepted"}],"isDarkMode":true},"version":0}`)
	snap := Load(context.Background(), mem, DefaultKey, quiet).Snapshot()
	require.Len(t, snap.Orders, 1)
	require.Equal(t, domain.StatusAccepted, snap.Orders[0].Status)
	require.True(t, snap.DarkModeEnabled)
	require.Equal(t, domain.UserTypeUnset, snap.UserType)
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	mem := newMem()
	mem.failSet = errors.New("read-only filesystem")
	s := New(mem, DefaultKey, quiet)

	require.NoError(t, s.AddOrder(sampleOrder("order_1")))
	require.Len(t, s.Orders(), 1)
	require.Error(t, s.PersistErr())

	mem.mu.Lock()
	mem.failSet = nil
	mem.mu.Unlock()
	s.ToggleTheme()
	require.NoError(t, s.PersistErr())
}

func TestConcurrentAddOrder(t *testing.T) {
	s := New(newMem(), DefaultKey, quiet)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AddOrder(sampleOrder(fmt.Sprintf("order_%d", i)))
			_ = s.AddOrder(sampleOrder("order_shared"))
		}(i)
	}
	wg.Wait()
	require.Len(t, s.Orders(), 51)
}

func TestUserTypeLockLastsOneProcess(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	first := Load(ctx, fs, DefaultKey, quiet)
	require.NoError(t, first.SetUserType(domain.UserTypeClient))

	second := Load(ctx, fs, DefaultKey, quiet)
	require.Equal(t, domain.UserTypeClient, second.Snapshot().UserType)
	require.ErrorIs(t, second.SetUserType(domain.UserTypeUnset), ErrUserTypeLocked)

	require.NoError(t, second.SetUserType(domain.UserTypeTransporter))
	require.Equal(t, domain.UserTypeTransporter, second.Snapshot().UserType)
	require.ErrorIs(t, second.SetUserType(domain.UserTypeClient), ErrUserTypeLocked)

	// picking the restored type again also locks it
	third := Load(ctx, fs, DefaultKey, quiet)
	require.NoError(t, third.SetUserType(domain.UserTypeTransporter))
	require.ErrorIs(t, third.SetUserType(domain.UserTypeClient), ErrUserTypeLocked)
}

// blockingStorage holds every write until its context ends.
type blockingStorage struct{ *memStorage }

func (b *blockingStorage) SetItem(ctx context.Context, _ string, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestWriteTimeoutBoundsPersist(t *testing.T) {
	st := &blockingStorage{newMem()}
	s := New(st, DefaultKey, quiet, WithWriteTimeout(10*time.Millisecond))

	start := time.Now()
	s.SetClientName("Ana")
	require.Less(t, time.Since(start), time.Second)
	require.ErrorIs(t, s.PersistErr(), context.DeadlineExceeded)
	require.Equal(t, "Ana", s.Snapshot().ClientName)
}
