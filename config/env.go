// Package config loads process settings from the environment and game
// balance from YAML.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Env is the process configuration.
type Env struct {
	Store            string        `env:"CARDS_STORE" envDefault:"memory"`
	SQLitePath       string        `env:"CARDS_SQLITE_PATH" envDefault:"action-cards.sqlite"`
	BalancePath      string        `env:"CARDS_BALANCE_PATH"`
	DefaultTimeLimit time.Duration `env:"CARDS_DEFAULT_TIME_LIMIT" envDefault:"5m"`
	LogLevel         string        `env:"CARDS_LOG_LEVEL" envDefault:"info"`
	OTelEnabled      bool          `env:"CARDS_OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint     string        `env:"CARDS_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses and validates Env.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return Env{}, fmt.Errorf("CARDS_SQLITE_PATH is required for the sqlite store")
		}
	default:
		return Env{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if cfg.DefaultTimeLimit <= 0 {
		return Env{}, fmt.Errorf("CARDS_DEFAULT_TIME_LIMIT must be positive")
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return Env{}, err
	}
	return cfg, nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
