package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"basic-calculator/internal/engine"
	"basic-calculator/internal/handlers"
	"basic-calculator/internal/observability"
	"basic-calculator/internal/session"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// API serves calculator sessions over HTTP.
type API struct {
	store            *session.Store
	maxDisplayLength int
}

// NewAPI returns handlers backed by store. maxDisplayLength applies to the
// throwaway engines used by Evaluate; zero keeps the engine default.
func NewAPI(store *session.Store, maxDisplayLength int) *API {
	return &API{store: store, maxDisplayLength: maxDisplayLength}
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.create")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, err := a.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "session limit reached", err, http.StatusServiceUnavailable, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, StateResponse{SessionID: sess.ID, Snapshot: sess.Snapshot()})
}

// GetSession handles GET /calculator/sessions/{id}
func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.get")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := a.lookup(w, r, span, logger, "get")
	if !ok {
		return
	}

	handlers.WriteJSON(w, http.StatusOK, StateResponse{SessionID: sess.ID, Snapshot: sess.Snapshot()})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (a *API) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.delete")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	id := chi.URLParam(r, "id")
	if err := a.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	logger.Info("calculator session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: key commands
// ---------------------------------------------------------------------------

// Digit handles POST /calculator/sessions/{id}/digit
func (a *API) Digit(w http.ResponseWriter, r *http.Request) {
	a.handleCommand(w, r, "digit", func(r *http.Request) ([]engine.Key, error) {
		var req DigitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		k, err := engine.ParseKey(req.Digit)
		if err != nil {
			return nil, err
		}
		if k.Kind != engine.KeyDigit {
			return nil, fmt.Errorf("%w: %q is not a digit", engine.ErrUnknownKey, req.Digit)
		}
		return []engine.Key{k}, nil
	})
}

// Decimal handles POST /calculator/sessions/{id}/decimal
func (a *API) Decimal(w http.ResponseWriter, r *http.Request) {
	a.handleCommand(w, r, "decimal", fixedKey(engine.DecimalKey()))
}

// Operator handles POST /calculator/sessions/{id}/operator
func (a *API) Operator(w http.ResponseWriter, r *http.Request) {
	a.handleCommand(w, r, "operator", func(r *http.Request) ([]engine.Key, error) {
		var req OperatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		op, err := engine.ParseOperator(req.Operator)
		if err != nil {
			return nil, err
		}
		return []engine.Key{engine.OperatorKey(op)}, nil
	})
}

// Equals handles POST /calculator/sessions/{id}/equals
func (a *API) Equals(w http.ResponseWriter, r *http.Request) {
	a.handleCommand(w, r, "equals", fixedKey(engine.EqualsKey()))
}

// Clear handles POST /calculator/sessions/{id}/clear
func (a *API) Clear(w http.ResponseWriter, r *http.Request) {
	a.handleCommand(w, r, "clear", fixedKey(engine.ClearKey()))
}

// Keys handles POST /calculator/sessions/{id}/keys and applies a batch of keys
// in order, one child span per key.
func (a *API) Keys(w http.ResponseWriter, r *http.Request) {
	a.handleCommand(w, r, "keys", decodeKeys)
}

var errInvalidBody = errors.New("invalid request body")

func fixedKey(k engine.Key) func(*http.Request) ([]engine.Key, error) {
	return func(*http.Request) ([]engine.Key, error) {
		return []engine.Key{k}, nil
	}
}

func decodeKeys(r *http.Request) ([]engine.Key, error) {
	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, engine.ErrUnknownKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if len(req.Keys) == 0 {
		return nil, fmt.Errorf("%w: no keys provided", errInvalidBody)
	}
	return req.Keys, nil
}

// handleCommand is the shared implementation for all session commands: it
// resolves the session, decodes the keys, applies them to the session's engine under a child span
// per key, records metrics, and writes the resulting state.
func (a *API) handleCommand(w http.ResponseWriter, r *http.Request, opName string, parse func(*http.Request) ([]engine.Key, error)) {
	ctx, span := tracer.Start(r.Context(), fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.command", opName),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := a.lookup(w, r.WithContext(ctx), span, logger, opName)
	if !ok {
		return
	}

	keys, err := parse(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, inputErrorMessage(err), err, http.StatusBadRequest, w)
		return
	}

	var steps []KeyResult
	snap := sess.Do(func(e *engine.Engine) {
		steps = applyKeys(ctx, span, logger, e, keys)
	})

	span.SetAttributes(
		attribute.String("calculator.display", snap.Display),
		attribute.String("calculator.mode", string(snap.Mode)),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator command applied",
		zap.String("operation", opName),
		zap.String("session_id", sess.ID),
		zap.Int("keys", len(keys)),
		zap.String("display", snap.Display),
		zap.String("mode", string(snap.Mode)),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	if opName == "keys" {
		handlers.WriteJSON(w, http.StatusOK, KeysResponse{SessionID: sess.ID, Steps: steps, Snapshot: snap})
		return
	}
	handlers.WriteJSON(w, http.StatusOK, StateResponse{SessionID: sess.ID, Snapshot: snap})
}

// ---------------------------------------------------------------------------
// Handler: one-shot evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It presses the keys on a fresh
// engine and returns every intermediate readout. Nothing is stored.
func (a *API) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	keys, err := decodeKeys(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", inputErrorMessage(err), err, http.StatusBadRequest, w)
		return
	}

	var opts []engine.Option
	if a.maxDisplayLength > 0 {
		opts = append(opts, engine.WithMaxDisplayLength(a.maxDisplayLength))
	}
	e := engine.New(opts...)

	steps := applyKeys(ctx, span, logger, e, keys)
	snap := e.Snapshot()

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.String("display", snap.Display),
		attribute.Int("total_keys", len(keys)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("one-shot evaluation completed",
		zap.Int("keys", len(keys)),
		zap.String("display", snap.Display),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, KeysResponse{Steps: steps, Snapshot: snap})
}

// applyKeys presses keys on e in order, one child span per key.
func applyKeys(ctx context.Context, parent trace.Span, logger *zap.Logger, e *engine.Engine, keys []engine.Key) []KeyResult {
	results := make([]KeyResult, 0, len(keys))

	for i, k := range keys {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, k.Command()),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.label", k.String()),
				attribute.String("calculator.display.before", e.Display()),
			),
		)

		wasError := e.Mode() == engine.ModeError
		start := time.Now()
		e.Press(k)
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6 // ms

		attrs := metric.WithAttributes(attribute.String("command", k.Command()))
		commandCounter.Add(ctx, 1, attrs)
		commandHistogram.Record(ctx, elapsed, attrs)

		mode := e.Mode()
		switch {
		case mode == engine.ModeError && !wasError:
			displayErrors.Add(ctx, 1, attrs)
			keySpan.AddEvent("display.error")
			parent.AddEvent("display.error", trace.WithAttributes(attribute.Int("calculator.key.index", i)))
			logger.Warn("calculator entered error state",
				zap.Int("key_index", i),
				zap.String("key", k.String()),
			)
		case k.Kind == engine.KeyEquals && mode != engine.ModeError:
			if v, err := strconv.ParseFloat(e.Display(), 64); err == nil {
				resultGauge.Record(ctx, v)
			}
		}

		keySpan.SetAttributes(
			attribute.String("calculator.display.after", e.Display()),
			attribute.String("calculator.mode", string(mode)),
		)
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()

		logger.Debug("calculator key applied",
			zap.Int("key_index", i),
			zap.String("key", k.String()),
			zap.String("command", k.Command()),
			zap.String("display", e.Display()),
			zap.String("expression", e.Expression()),
			zap.String("mode", string(mode)),
		)

		results = append(results, KeyResult{
			Key:        k.String(),
			Display:    e.Display(),
			Expression: e.Expression(),
			Mode:       mode,
		})
	}

	return results
}

// lookup resolves the {id} URL parameter, writing a 404 when it is unknown.
func (a *API) lookup(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName string) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	sess, err := a.store.Get(id)
	if err != nil {
		observability.RecordError(r.Context(), span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	return sess, true
}

func inputErrorMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrUnknownOperator):
		return "unknown operator"
	case errors.Is(err, engine.ErrUnknownKey):
		return "unknown key"
	default:
		return "invalid request body"
	}
}
