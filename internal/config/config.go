// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"

	"github.com/okian/hobbyseeds/internal/adapters/logstore"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the log store: memory, badger, redis, sqlite, postgres.
	StoreBackend string `koanf:"store_backend"`

	// StorageKey is the key the hobby log is stored under.
	StorageKey string `koanf:"storage_key"`

	BadgerDir     string `koanf:"badger_dir"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	SQLitePath    string `koanf:"sqlite_path"`
	PostgresDSN   string `koanf:"postgres_dsn"`

	// CatalogDir overrides the bundled catalogs when set.
	CatalogDir string `koanf:"catalog_dir"`

	// QueueSize bounds the log mutation queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets how many append request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// ResultsPerPage is how many hobbies a diagnosis shows by default.
	ResultsPerPage int `koanf:"results_per_page"`

	// RandomSeed makes hobby draws reproducible. Zero seeds from entropy.
	RandomSeed uint64 `koanf:"random_seed"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		StoreBackend:      logstore.BackendBadger,
		StorageKey:        logstore.DefaultKey,
		BadgerDir:         "data/hobbylog",
		RedisAddr:         "localhost:6379",
		SQLitePath:        "data/hobbyseeds.db",
		QueueSize:         256,
		DedupeSize:        4096,
		ResultsPerPage:    4,
		ShutdownTimeoutMS: 10_000,
	}
}

// Validate checks that the configuration can start the service.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("%w: storage_key must not be empty", ErrInvalidConfig)
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.DedupeSize <= 0 {
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	}
	if c.ResultsPerPage <= 0 || c.ResultsPerPage > 50 {
		return fmt.Errorf("%w: results_per_page must be between 1 and 50", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validateBackend() error {
	var missing string
	switch c.StoreBackend {
	case logstore.BackendMemory:
	case logstore.BackendBadger:
		if c.BadgerDir == "" {
			missing = "badger_dir"
		}
	case logstore.BackendRedis:
		if c.RedisAddr == "" {
			missing = "redis_addr"
		}
	case logstore.BackendSQLite:
		if c.SQLitePath == "" {
			missing = "sqlite_path"
		}
	case logstore.BackendPostgres:
		if c.PostgresDSN == "" {
			missing = "postgres_dsn"
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if missing != "" {
		return fmt.Errorf("%w: %s is required for store_backend %q", ErrInvalidConfig, missing, c.StoreBackend)
	}
	return nil
}

// LogStore returns the log store settings.
func (c *Config) LogStore() logstore.Config {
	return logstore.Config{
		Backend:   c.StoreBackend,
		Key:       c.StorageKey,
		BadgerDir: c.BadgerDir,
		Redis: logstore.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
	}
}
