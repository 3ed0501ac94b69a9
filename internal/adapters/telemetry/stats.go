package telemetry

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ResolveSpanPrefix starts the name of every class resolution span.
const ResolveSpanPrefix = "resolve "

// Summary aggregates finished resolution spans.
type Summary struct {
	Resolutions int
	CacheHits   int
	Failures    int
	Time        time.Duration
}

// SpanStats implements sdktrace.SpanProcessor and summarizes resolution spans.
type SpanStats struct {
	mu      sync.Mutex
	summary Summary
}

var _ sdktrace.SpanProcessor = (*SpanStats)(nil)

// NewSpanStats returns an empty SpanStats.
func NewSpanStats() *SpanStats {
	return &SpanStats{}
}

// OnStart does nothing.
func (s *SpanStats) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd records a finished resolution span.
func (s *SpanStats) OnEnd(span sdktrace.ReadOnlySpan) {
	if !strings.HasPrefix(span.Name(), ResolveSpanPrefix) {
		return
	}

	hit := false
	for _, kv := range span.Attributes() {
		if kv.Key == "cache.hit" && kv.Value.Type() == attribute.BOOL {
			hit = kv.Value.AsBool()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary.Resolutions++
	if hit {
		s.summary.CacheHits++
	}
	if span.Status().Code == codes.Error {
		s.summary.Failures++
	}
	s.summary.Time += span.EndTime().Sub(span.StartTime())
}

// Summary returns the spans recorded so far.
func (s *SpanStats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Reset forgets every recorded span.
func (s *SpanStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = Summary{}
}

// ForceFlush does nothing.
func (s *SpanStats) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (s *SpanStats) Shutdown(context.Context) error {
	return nil
}
