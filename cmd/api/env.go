package main

import (
	"fmt"

	"basic-calculator/internal/config"
)

// loadConfig loads .env when present and then reads the process environment.
// Existing process environment variables are not overridden.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
