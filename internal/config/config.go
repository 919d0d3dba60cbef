// Package config defines the service configuration and how it is loaded.
//
// Precedence (low → high):
//  1. defaults from New
//  2. YAML file named by CONFIG_FILE, if set
//  3. variables from a .env file in the working directory, if present
//  4. process environment (PORT, MONGO_URI, DB_PATH, ...)
//
// Process environment wins over .env: godotenv never overwrites a variable
// that is already set.
package config

import (
	"fmt"
	"time"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config contains process configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// StoreDriver selects the backend: "sqlite" or "mongo".
	StoreDriver string `koanf:"store_driver"`

	// DBPath is the SQLite database file (or ":memory:").
	DBPath string `koanf:"db_path"`

	// MongoURI and MongoDatabase locate the MongoDB store.
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, receives a copy of the log with size-based rotation.
	LogFile string `koanf:"log_file"`

	// RequestTimeout bounds each request, including its store call.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// ShutdownTimeout bounds the drain of in-flight requests on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config filled with defaults.
func New() *Config {
	return &Config{
		Port:            3000,
		StoreDriver:     DriverSQLite,
		DBPath:          "data/exercise.db",
		MongoDatabase:   "exercise_tracker",
		LogLevel:        "info",
		LogFormat:       "text",
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Addr is the listen address for net/http.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks field ranges and driver-specific requirements.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: mongo_uri is required for the mongo driver", ErrInvalidConfig)
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("%w: mongo_database must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}

	return nil
}
