package observe

import (
	"context"
	"time"
)

// ComputeFunc is the signature of a cache-miss computation. It matches
// cache.ComputeFunc so a wrapped function can be handed straight to the
// cache loader.
type ComputeFunc func(ctx context.Context) (any, error)

// Middleware instruments cache activity with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: WrapCompute() returns a thread-safe ComputeFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped functions are recorded and propagated unchanged.
//   - Ownership: Computed values pass through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// WrapCompute wraps a cache-miss computation with a span, a duration
// metric, and a completion log entry.
func (m *Middleware) WrapCompute(meta ComputeMeta, fn ComputeFunc) ComputeFunc {
	return func(ctx context.Context) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result, err := fn(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordCompute(ctx, meta, duration, err)

		logger := m.logger.WithComponent("cache.loader")
		fields := []Field{
			{Key: "namespace", Value: meta.Namespace},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if meta.Category != "" {
			fields = append(fields, Field{Key: "category", Value: meta.Category})
		}
		if meta.Resource != "" {
			fields = append(fields, Field{Key: "resource", Value: meta.Resource})
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "insight computation failed", fields...)
		} else {
			logger.Debug(ctx, "insight computed", fields...)
		}

		return result, err
	}
}

// ObserveLookup records a cache probe outcome.
func (m *Middleware) ObserveLookup(ctx context.Context, namespace string, hit bool) {
	m.metrics.RecordLookup(ctx, namespace, hit)
}

// ObserveInvalidation records an invalidation sweep and logs it.
func (m *Middleware) ObserveInvalidation(ctx context.Context, namespace string, removed int) {
	m.metrics.RecordInvalidation(ctx, namespace, removed)
	m.logger.WithComponent("cache").Debug(ctx, "cache invalidated",
		Field{Key: "namespace", Value: namespace},
		Field{Key: "removed", Value: removed},
	)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
