package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ComputeMeta describes one cache-miss computation for telemetry purposes.
type ComputeMeta struct {
	Namespace string // Cache namespace: "context" or "response" (required)
	Category  string // TTL category or resource kind (optional)
	Resource  string // Kubernetes coordinates, e.g. "default/Pod/nginx-1" (optional)
	Degraded  bool   // Whether the underlying resource shows a warning/error condition
}

// SpanName returns the deterministic span name for this computation.
// Format: cache.compute.<namespace>
func (m ComputeMeta) SpanName() string {
	return "cache.compute." + m.Namespace
}

// Tracer wraps OpenTelemetry tracing with cache-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a cache-miss computation.
	StartSpan(ctx context.Context, meta ComputeMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with computation metadata as attributes.
// Query text is never attached: spans carry coordinates and categories only.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ComputeMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.namespace", meta.Namespace),
		attribute.Bool("cache.compute.error", false), // Will be updated in EndSpan if error
	}

	if meta.Category != "" {
		attrs = append(attrs, attribute.String("cache.category", meta.Category))
	}
	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("cache.resource", meta.Resource))
	}
	if meta.Degraded {
		attrs = append(attrs, attribute.Bool("cache.degraded", true))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("cache.compute.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ComputeMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
