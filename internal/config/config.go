package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Flow    FlowConfig
	UI      UIConfig
}

// StorageConfig selects where the session record lives.
type StorageConfig struct {
	Driver string
	// Path is the sqlite database file, or the directory for the file driver.
	Path         string
	Key          string
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// FlowConfig holds onboarding settings.
type FlowConfig struct {
	LatencyUnit time.Duration `mapstructure:"latency_unit"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// DarkMode is only the first-run preference; the saved session wins.
	DarkMode    bool   `mapstructure:"dark_mode"`
	CountryCode string `mapstructure:"country_code"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "truckfinder")
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv("TRUCKFINDER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "truckfinder", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix TRUCKFINDER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", filepath.Join(dataDir(), "truckfinder.db"))
	v.SetDefault("storage.key", "truck-finder-storage")
	v.SetDefault("storage.write_timeout", "2s")
	v.SetDefault("flow.latency_unit", "1s")
	v.SetDefault("ui.dark_mode", false)
	v.SetDefault("ui.country_code", "+258")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("TRUCKFINDER_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "truckfinder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRUCKFINDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the program cannot start with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("config: unknown storage.driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverFile)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("config: storage.path is empty")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("config: storage.key is empty")
	}
	if c.Storage.WriteTimeout <= 0 {
		return fmt.Errorf("config: storage.write_timeout must be positive")
	}
	if c.Flow.LatencyUnit < 0 {
		return fmt.Errorf("config: flow.latency_unit must not be negative")
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.driver", cfg.Storage.Driver)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.key", cfg.Storage.Key)
	v.Set("storage.write_timeout", cfg.Storage.WriteTimeout.String())
	v.Set("flow.latency_unit", cfg.Flow.LatencyUnit.String())
	v.Set("ui.dark_mode", cfg.UI.DarkMode)
	v.Set("ui.country_code", cfg.UI.CountryCode)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
