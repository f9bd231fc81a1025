package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TRUCKFINDER_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, c.Storage.Driver)
	require.Equal(t, filepath.Join(home, ".local", "share", "truckfinder", "truckfinder.db"), c.Storage.Path)
	require.Equal(t, "truck-finder-storage", c.Storage.Key)
	require.Equal(t, 2*time.Second, c.Storage.WriteTimeout)
	require.Equal(t, time.Second, c.Flow.LatencyUnit)
	require.False(t, c.UI.DarkMode)
	require.Equal(t, "+258", c.UI.CountryCode)
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
driver = "file"
path = "/tmp/tf"

[flow]
latency_unit = "250ms"

[ui]
dark_mode = true
`), 0o644))
	t.Setenv("TRUCKFINDER_CONFIG", path)
	t.Setenv("TRUCKFINDER_STORAGE_KEY", "other-key")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverFile, c.Storage.Driver)
	require.Equal(t, "/tmp/tf", c.Storage.Path)
	require.Equal(t, "other-key", c.Storage.Key)
	require.Equal(t, 250*time.Millisecond, c.Flow.LatencyUnit)
	require.True(t, c.UI.DarkMode)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	isolate(t)
	t.Setenv("TRUCKFINDER_STORAGE_DRIVER", "redis")

	_, err := Load()
	require.ErrorContains(t, err, "storage.driver")
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("TRUCKFINDER_CONFIG", path)

	want := Config{
		Storage: StorageConfig{Driver: DriverFile, Path: "/var/lib/tf", Key: "k", WriteTimeout: 3 * time.Second},
		Flow:    FlowConfig{LatencyUnit: 50 * time.Millisecond},
		UI:      UIConfig{DarkMode: true, CountryCode: "+351"},
	}
	require.NoError(t, Save(want))
	require.FileExists(t, path)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	ok := Config{Storage: StorageConfig{Driver: DriverSQLite, Path: "x.db", Key: "k", WriteTimeout: time.Second}}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Storage.Key = ""
	require.Error(t, bad.Validate())

	bad = ok
	bad.Storage.WriteTimeout = 0
	require.Error(t, bad.Validate())

	bad = ok
	bad.Flow.LatencyUnit = -time.Second
	require.Error(t, bad.Validate())
}
