package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/truckfinder/internal/storage"
)

func openTestDB(t *testing.T) *KVStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	// second run is a no-op
	require.NoError(t, RunMigrations(dbPath))

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKVStore(db)
}

func TestKVStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	kv := openTestDB(t)

	_, err := kv.GetItem(ctx, "truck-finder-storage")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.SetItem(ctx, "truck-finder-storage", []byte(`{"v":1}`)))
	require.NoError(t, kv.SetItem(ctx, "truck-finder-storage", []byte(`{"v":2}`)))
	got, err := kv.GetItem(ctx, "truck-finder-storage")
	require.NoError(t, err)
	require.Equal(t, `{"v":2}`, string(got))

	require.NoError(t, kv.RemoveItem(ctx, "truck-finder-storage"))
	_, err = kv.GetItem(ctx, "truck-finder-storage")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKVStoreRejectsEmptyKey(t *testing.T) {
	kv := openTestDB(t)
	require.Error(t, kv.SetItem(context.Background(), "", []byte("x")))
}
