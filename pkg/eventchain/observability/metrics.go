package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records eventchain metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordActionInvocation records one action invocation with its
	// duration and error status.
	RecordActionInvocation(ctx context.Context, actionName string, duration time.Duration, err error)

	// RecordDispatch records one dispatch level completion.
	RecordDispatch(ctx context.Context, event string, success bool, duration time.Duration)

	// RecordFanOut records the width of a split fan-out.
	RecordFanOut(ctx context.Context, event string, width int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	actionInvocations metric.Int64Counter
	actionLatency     metric.Float64Histogram
	actionErrors      metric.Int64Counter
	dispatches        metric.Int64Counter
	dispatchLatency   metric.Float64Histogram
	fanOutWidth       metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventchain")

	actionInvocations, err := meter.Int64Counter("eventchain.action.invocations",
		metric.WithDescription("Number of action invocations"),
	)
	if err != nil {
		return nil, err
	}

	actionLatency, err := meter.Float64Histogram("eventchain.action.latency_ms",
		metric.WithDescription("Action invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	actionErrors, err := meter.Int64Counter("eventchain.action.errors",
		metric.WithDescription("Number of action invocation errors"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("eventchain.dispatch.count",
		metric.WithDescription("Number of dispatches, nested dispatches included"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("eventchain.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	fanOutWidth, err := meter.Int64Histogram("eventchain.dispatch.fanout_width",
		metric.WithDescription("Number of per-element dispatches produced by a split"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		actionInvocations: actionInvocations,
		actionLatency:     actionLatency,
		actionErrors:      actionErrors,
		dispatches:        dispatches,
		dispatchLatency:   dispatchLatency,
		fanOutWidth:       fanOutWidth,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordActionInvocation records an action invocation.
func (m *otelMetrics) RecordActionInvocation(ctx context.Context, actionName string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("action", actionName),
	}

	m.actionInvocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.actionLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.actionErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordDispatch records a dispatch level.
func (m *otelMetrics) RecordDispatch(ctx context.Context, event string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("event", event),
		attribute.Bool("success", success),
	}
	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordFanOut records a split fan-out width.
func (m *otelMetrics) RecordFanOut(ctx context.Context, event string, width int) {
	attrs := []attribute.KeyValue{
		attribute.String("event", event),
	}
	m.fanOutWidth.Record(ctx, int64(width), metric.WithAttributes(attrs...))
}
