package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store driver names.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Driver is either "sqlite" or "mongo".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file used by the sqlite driver.
	Path string `mapstructure:"path" yaml:"path"`

	// MongoURI is the connection string for the mongo driver. When empty it
	// is looked up in the system keyring.
	MongoURI string `mapstructure:"mongo_uri" yaml:"mongo_uri"`

	// Database is the MongoDB database name.
	Database string `mapstructure:"database" yaml:"database"`

	// TimeoutSec bounds every single document store call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the per-call store deadline.
func (c StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// LocalConfig configures the client-local key-value storage.
type LocalConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CacheConfig configures the fetched-data cache.
type CacheConfig struct {
	TTLSec int `mapstructure:"ttl_sec" yaml:"ttl_sec"`
}

// TTL returns the cache expiration as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// LogConfig holds logger settings.
type LogConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	UserID string      `mapstructure:"user_id" yaml:"user_id"`
	Store  StoreConfig `mapstructure:"store" yaml:"store"`
	Local  LocalConfig `mapstructure:"local" yaml:"local"`
	Cache  CacheConfig `mapstructure:"cache" yaml:"cache"`
	Log    LogConfig   `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/contenthub, or the working directory when the
// home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "contenthub")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/contenthub/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		Store: StoreConfig{
			Driver:     DriverSQLite,
			Path:       filepath.Join(dir, "hub.db"),
			Database:   "contenthub",
			TimeoutSec: 10,
		},
		Local: LocalConfig{
			Path: filepath.Join(dir, "local.db"),
		},
		Cache: CacheConfig{TTLSec: 60},
		Log:   LogConfig{Mode: "dev"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("contenthub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("user_id", "")
	v.SetDefault("store.driver", defaults.Store.Driver)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.database", defaults.Store.Database)
	v.SetDefault("store.timeout_sec", defaults.Store.TimeoutSec)
	v.SetDefault("local.path", defaults.Local.Path)
	v.SetDefault("cache.ttl_sec", defaults.Cache.TTLSec)
	v.SetDefault("log.mode", defaults.Log.Mode)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.Store.TimeoutSec <= 0 {
		cfg.Store.TimeoutSec = defaults.Store.TimeoutSec
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("user_id", cfg.UserID)
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.mongo_uri", cfg.Store.MongoURI)
	v.Set("store.database", cfg.Store.Database)
	v.Set("store.timeout_sec", cfg.Store.TimeoutSec)
	v.Set("local.path", cfg.Local.Path)
	v.Set("cache.ttl_sec", cfg.Cache.TTLSec)
	v.Set("log.mode", cfg.Log.Mode)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
