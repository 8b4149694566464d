// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"basic-calculator/internal/engine"
)

// MinInterval is the smallest non-zero session idle timeout or sweep interval.
const MinInterval = time.Second

type Config struct {
	HTTPAddr string

	MaxDisplayLength   int
	MaxSessions        int
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration

	ShutdownTimeout time.Duration
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		HTTPAddr:           ":8080",
		MaxDisplayLength:   engine.DefaultMaxDisplayLength,
		MaxSessions:        1000,
		SessionIdleTimeout: 30 * time.Minute,
		SweepInterval:      time.Minute,
		ShutdownTimeout:    5 * time.Second,
	}
}

// LoadDotEnv loads variables from the given files (".env" when none) if they
// exist. Existing process environment variables are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		cfg.HTTPAddr = v
	}

	var err error
	if cfg.MaxDisplayLength, err = intVar(lookup, "CALC_MAX_DISPLAY_LENGTH", cfg.MaxDisplayLength); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions, err = intVar(lookup, "CALC_MAX_SESSIONS", cfg.MaxSessions); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTimeout, err = durationVar(lookup, "CALC_SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationVar(lookup, "CALC_SESSION_SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationVar(lookup, "SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine or store cannot honour.
func (c Config) Validate() error {
	if c.MaxDisplayLength < engine.MinMaxDisplayLength {
		return fmt.Errorf("CALC_MAX_DISPLAY_LENGTH: must be at least %d, got %d", engine.MinMaxDisplayLength, c.MaxDisplayLength)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("CALC_MAX_SESSIONS: must not be negative, got %d", c.MaxSessions)
	}
	if err := checkInterval("CALC_SESSION_IDLE_TIMEOUT", c.SessionIdleTimeout); err != nil {
		return err
	}
	if err := checkInterval("CALC_SESSION_SWEEP_INTERVAL", c.SweepInterval); err != nil {
		return err
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT: must not be negative, got %s", c.ShutdownTimeout)
	}
	return nil
}

// checkInterval accepts zero (disabled) or a duration of at least MinInterval.
func checkInterval(name string, d time.Duration) error {
	if d != 0 && d < MinInterval {
		return fmt.Errorf("%s: must be 0 or at least %s, got %s", name, MinInterval, d)
	}
	return nil
}

func intVar(lookup func(string) (string, bool), name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	// Decimal only: "08" is 8, not an invalid octal literal.
	n, err := strconv.Atoi(strings.TrimSpace(cast.ToString(v)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func durationVar(lookup func(string) (string, bool), name string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	// A unit is required: a bare "30" would otherwise mean 30ns.
	d, err := time.ParseDuration(strings.TrimSpace(cast.ToString(v)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
