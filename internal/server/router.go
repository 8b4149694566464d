package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"basic-calculator/internal/calculator"
	"basic-calculator/internal/handlers"
	"basic-calculator/internal/observability"
)

// NewRouter wires the middleware stack, the calculator API, and the health
// and metrics endpoints.
func NewRouter(api *calculator.API) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, api)

	return r
}
