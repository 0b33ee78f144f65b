package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("eventchain")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartDispatchSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with correct name and attributes", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartDispatchSpan(ctx, "start", "dispatch-123")
		require.NotNil(t, span)

		// End the span to flush it to the exporter
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "eventchain.dispatch", s.Name)

		var event, dispatchID string
		for _, attr := range s.Attributes {
			switch attr.Key {
			case "event":
				event = attr.Value.AsString()
			case "dispatch.id":
				dispatchID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "start", event)
		assert.Equal(t, "dispatch-123", dispatchID)
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		newCtx, span := sm.StartDispatchSpan(ctx, "start", "dispatch-456")

		assert.NotEqual(t, ctx, newCtx)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
	})
}

func TestStartActionSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with action name suffix", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartActionSpan(ctx, "Summarize")
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "eventchain.action.Summarize", s.Name)

		var actionName string
		for _, attr := range s.Attributes {
			if attr.Key == "action" {
				actionName = attr.Value.AsString()
			}
		}
		assert.Equal(t, "Summarize", actionName)
	})

	t.Run("child spans have correct parent", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		ctx, dispatchSpan := sm.StartDispatchSpan(ctx, "start", "dispatch-1")
		_, actionSpan := sm.StartActionSpan(ctx, "Fetch")

		actionSpan.End()
		dispatchSpan.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		// InMemoryExporter returns spans in end order; action ended first.
		child := spans[0]
		parent := spans[1]
		assert.Equal(t, parent.SpanContext.SpanID(), child.Parent.SpanID())
	})

	t.Run("nested dispatch spans nest", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		ctx, outer := sm.StartDispatchSpan(ctx, "start", "dispatch-1")
		_, inner := sm.StartDispatchSpan(ctx, "A", "dispatch-1")

		inner.End()
		outer.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)
		assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("records error and sets error status", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartDispatchSpan(context.Background(), "start", "dispatch-1")
		sm.EndSpanWithError(span, errors.New("boom"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, codes.Error, s.Status.Code)
		assert.Equal(t, "boom", s.Status.Description)
		require.Len(t, s.Events, 1)
		assert.Equal(t, "exception", s.Events[0].Name)
	})

	t.Run("sets ok status on success", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartDispatchSpan(context.Background(), "start", "dispatch-1")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("nil span does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, errors.New("err"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("adds event to recording span", func(t *testing.T) {
		exporter.Reset()

		ctx, span := sm.StartDispatchSpan(context.Background(), "start", "dispatch-1")
		sm.AddSpanEvent(ctx, "fan_out")
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Events, 1)
		assert.Equal(t, "fan_out", spans[0].Events[0].Name)
	})

	t.Run("no-op without a recording span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "orphan_event")
		})
	})
}

// Compile-time check that the OTel manager satisfies the interface.
var _ SpanManager = (*otelSpanManager)(nil)
