package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names the environment variable holding an optional YAML path.
const ConfigFileEnv = "CONFIG_FILE"

// envKeys maps environment variable names to koanf keys. Only these
// variables are read, so unrelated environment never leaks into Config.
var envKeys = map[string]string{
	"PORT":             "port",
	"STORE_DRIVER":     "store_driver",
	"DB_PATH":          "db_path",
	"MONGO_URI":        "mongo_uri",
	"MONGO_DATABASE":   "mongo_database",
	"LOG_LEVEL":        "log_level",
	"LOG_FORMAT":       "log_format",
	"LOG_FILE":         "log_file",
	"REQUEST_TIMEOUT":  "request_timeout",
	"SHUTDOWN_TIMEOUT": "shutdown_timeout",
}

// Load builds a Config from defaults, an optional YAML file, .env and the
// environment, then validates it.
func Load(dotenvPaths ...string) (*Config, error) {
	if err := loadDotEnv(dotenvPaths...); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Returning "" as the key drops the variable; empty values count as unset.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return envKeys[strings.ToUpper(key)], value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %v", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads .env style files into the process environment. With no
// paths it tries ".env" and silently skips it when missing.
func loadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("%w: loading dotenv: %v", ErrLoadConfig, err)
	}
	return nil
}
