// Package observability provides production-grade observability features
// for eventchain: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds dispatch context to a logger.
// Returns a new logger with dispatch_id and event fields.
func EnrichLogger(logger *slog.Logger, dispatchID, event string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("dispatch_id", dispatchID),
		slog.String("event", event),
	)
}

// LogDispatchStart logs the start of an event dispatch.
func LogDispatchStart(logger *slog.Logger, dispatchID, event string, listeners int) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch starting",
		slog.String("dispatch_id", dispatchID),
		slog.String("event", event),
		slog.Int("listeners", listeners),
	)
}

// LogDispatchComplete logs successful dispatch completion.
func LogDispatchComplete(logger *slog.Logger, dispatchID, event string, durationMs float64, records int) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch completed",
		slog.String("dispatch_id", dispatchID),
		slog.String("event", event),
		slog.Float64("duration_ms", durationMs),
		slog.Int("records", records),
	)
}

// LogDispatchError logs dispatch failure.
func LogDispatchError(logger *slog.Logger, dispatchID, event string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("dispatch failed",
		slog.String("dispatch_id", dispatchID),
		slog.String("event", event),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNoListeners logs a dispatch of an event without subscribers.
func LogNoListeners(logger *slog.Logger, dispatchID, event string) {
	if logger == nil {
		return
	}
	logger.Debug("no listeners",
		slog.String("dispatch_id", dispatchID),
		slog.String("event", event),
	)
}

// LogActionStart logs action invocation start.
func LogActionStart(logger *slog.Logger, actionName string) {
	if logger == nil {
		return
	}
	logger.Debug("action starting",
		slog.String("action", actionName),
	)
}

// LogActionComplete logs successful action completion.
func LogActionComplete(logger *slog.Logger, actionName string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("action completed",
		slog.String("action", actionName),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogActionError logs action invocation failure.
func LogActionError(logger *slog.Logger, actionName string, err error) {
	if logger == nil {
		return
	}
	logger.Error("action failed",
		slog.String("action", actionName),
		slog.String("error", err.Error()),
	)
}

// LogFanOut logs a split action fanning out into per-element dispatches.
func LogFanOut(logger *slog.Logger, event string, width int) {
	if logger == nil {
		return
	}
	logger.Debug("fan-out",
		slog.String("event", event),
		slog.Int("width", width),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
