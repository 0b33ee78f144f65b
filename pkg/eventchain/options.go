package eventchain

import (
	"log/slog"

	"github.com/randalmurphal/eventchain/pkg/eventchain/actionlog"
	"github.com/randalmurphal/eventchain/pkg/eventchain/observability"
)

// config holds Director construction settings.
type config struct {
	maxConcurrentActions int
	maxLogEntries        int
	depthFirst           bool
	flattenResults       bool

	logger           *slog.Logger
	metricsEnabled   bool
	tracingEnabled   bool
	sink             actionlog.Sink
	sinkErrorHandler func(error)
}

// defaultConfig returns the default Director settings.
func defaultConfig() config {
	return config{
		maxConcurrentActions: 100,
		maxLogEntries:        1_000_000,
	}
}

// observer bundles the ambient observability surface of a Director.
type observer struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	tracing bool
}

func newObserver(cfg config) observer {
	o := observer{
		logger:  cfg.logger,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	if cfg.metricsEnabled {
		o.metrics = observability.NewMetricsRecorder()
	}
	if cfg.tracingEnabled {
		o.spans = observability.NewSpanManager()
		o.tracing = true
	}
	return o
}

// Option configures a Director.
type Option func(*config)

// WithMaxConcurrentActions bounds concurrently in-flight dispatches.
// Default: 100
//
// The bound is shared across the whole call tree: a nested dispatch
// needs its own permit while its parent still holds one. Values smaller
// than the graph's recursion depth therefore starve — see Dispatch.
// Non-positive values are ignored.
func WithMaxConcurrentActions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxConcurrentActions = n
		}
	}
}

// WithMaxLogEntries caps the bounded message log.
// Default: 1,000,000
//
// Non-positive values are ignored.
func WithMaxLogEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLogEntries = n
		}
	}
}

// WithDepthFirst selects depth-first execution: each subscriber's
// recursive dispatches complete before the next subscriber is invoked.
// Default: false (breadth-first)
func WithDepthFirst(enabled bool) Option {
	return func(c *config) {
		c.depthFirst = enabled
	}
}

// WithFlattenedResults makes every dispatch level flatten its records
// before returning them (see Flatten).
// Default: false (nested tree)
func WithFlattenedResults(enabled bool) Option {
	return func(c *config) {
		c.flattenResults = enabled
	}
}

// WithObservabilityLogger sets a structured logger for dispatch and
// action lifecycle events. This is separate from the Director's bounded
// message log, which is always kept.
// Default: no structured logging
func WithObservabilityLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics via the global meter
// provider.
// Default: false
func WithMetrics(enabled bool) Option {
	return func(c *config) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry tracing via the global tracer
// provider. Nested dispatch spans nest under their parent dispatch span.
// Default: false
func WithTracing(enabled bool) Option {
	return func(c *config) {
		c.tracingEnabled = enabled
	}
}

// WithLogSink tees every bounded-log entry to a persistent sink (see
// actionlog.SQLiteSink). The in-memory bound still applies to the log
// itself; the sink keeps full history.
// Default: no sink
func WithLogSink(sink actionlog.Sink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithLogSinkErrorHandler sets a callback for sink append failures.
// Default: failures are dropped
func WithLogSinkErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.sinkErrorHandler = fn
	}
}
