package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "state")
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	_, err = s.GetItem(ctx, "truck-finder-storage")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetItem(ctx, "truck-finder-storage", []byte(`{"a":1}`)))
	got, err := s.GetItem(ctx, "truck-finder-storage")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, s.SetItem(ctx, "truck-finder-storage", []byte(`{"a":2}`)))
	got, err = s.GetItem(ctx, "truck-finder-storage")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":2}`, string(got))

	_, err = os.Stat(filepath.Join(dir, "truck-finder-storage.json.tmp"))
	require.True(t, os.IsNotExist(err), "temp file should be renamed away")

	require.NoError(t, s.RemoveItem(ctx, "truck-finder-storage"))
	require.NoError(t, s.RemoveItem(ctx, "truck-finder-storage"))
	_, err = s.GetItem(ctx, "truck-finder-storage")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorageKeyEscaping(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.SetItem(ctx, "../escape/me", []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = s.GetItem(ctx, "")
	require.Error(t, err)
}

func TestFileStorageHonoursContext(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.SetItem(ctx, "k", []byte("v")), context.Canceled)
}
