package calculator

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"basic-calculator/internal/session"
)

// Metric instruments, initialized once via InitMetrics().
var (
	commandCounter   metric.Int64Counter
	commandHistogram metric.Float64Histogram
	errorCounter     metric.Int64Counter
	displayErrors    metric.Int64Counter
	resultGauge      metric.Float64Gauge
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	commandCounter, err = meter.Int64Counter("calculator.commands.total",
		metric.WithDescription("Total number of calculator key commands applied"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return fmt.Errorf("creating command counter: %w", err)
	}

	commandHistogram, err = meter.Float64Histogram("calculator.command.duration",
		metric.WithDescription("Duration of calculator commands in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating command histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	displayErrors, err = meter.Int64Counter("calculator.display_errors.total",
		metric.WithDescription("Transitions that ended with the error marker on the display"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating display error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The last result produced by equals"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

// RegisterSessionGauge exposes the live session count on reg as
// calculator_active_sessions. Registering the same gauge twice is not an error.
func RegisterSessionGauge(reg prometheus.Registerer, store *session.Store) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calculator",
		Name:      "active_sessions",
		Help:      "Number of calculator sessions currently held in memory.",
	}, func() float64 {
		return float64(store.Len())
	})

	if err := reg.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return fmt.Errorf("registering session gauge: %w", err)
	}
	return nil
}
