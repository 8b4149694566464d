package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"basic-calculator/internal/calculator"
	"basic-calculator/internal/observability"
	"basic-calculator/internal/session"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context, store *session.Store) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	if err := calculator.RegisterSessionGauge(prometheus.DefaultRegisterer, store); err != nil {
		return nil, err
	}

	return shutdown, nil
}
