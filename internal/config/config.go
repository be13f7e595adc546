// Package config loads importer configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. FFCV_ADDR.
const EnvPrefix = "FFCV_"

// FileEnvVar names the env var pointing at an optional YAML config file.
const FileEnvVar = "FFCV_IMPORT_CONFIG"

// Config contains process configuration.
type Config struct {
	// CalendarURL is the federation calendar page for the configured
	// team/season. Must be set before an import can run.
	CalendarURL string `koanf:"calendar_url"`

	// DatabasePath is the SQLite calendar database file.
	DatabasePath string `koanf:"database_path"`

	// Addr configures the HTTP listen address for serve mode.
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// FetchTimeoutSeconds bounds one calendar page fetch.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DatabasePath:        "calendar.db",
		Addr:                ":8080",
		LogLevel:            "info",
		FetchTimeoutSeconds: 30,
	}
}

// Load builds a Config by layering defaults, an optional YAML file named
// by FFCV_IMPORT_CONFIG, and FFCV_-prefixed environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// FFCV_CALENDAR_URL -> calendar_url, etc. Underscores are preserved
	// to match the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DatabasePath == "" {
		return nil, errors.New("database_path must not be empty")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, errors.New("fetch_timeout_seconds must be positive")
	}
	return &cfg, nil
}
