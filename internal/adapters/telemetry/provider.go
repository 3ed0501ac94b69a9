// Package telemetry configures OpenTelemetry tracing for resolutions.
package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry owns the tracer provider of the process and the span summary fed by it.
type Telemetry struct {
	provider *sdktrace.TracerProvider
	stats    *SpanStats
}

// New creates a tracer provider that reports to a SpanStats and to any extra
// processors.
func New(processors ...sdktrace.SpanProcessor) *Telemetry {
	stats := NewSpanStats()
	opts := []sdktrace.TracerProviderOption{sdktrace.WithSpanProcessor(stats)}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return &Telemetry{
		provider: sdktrace.NewTracerProvider(opts...),
		stats:    stats,
	}
}

// Provider returns the tracer provider.
func (t *Telemetry) Provider() trace.TracerProvider {
	return t.provider
}

// Stats returns the summary of resolution spans.
func (t *Telemetry) Stats() *SpanStats {
	return t.stats
}

// Shutdown flushes and stops every processor.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
