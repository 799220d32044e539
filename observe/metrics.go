package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a cache probe and its outcome.
	RecordLookup(ctx context.Context, namespace string, hit bool)

	// RecordCompute records a cache-miss computation with duration and error status.
	RecordCompute(ctx context.Context, meta ComputeMeta, duration time.Duration, err error)

	// RecordInvalidation records an invalidation sweep and how many entries it removed.
	RecordInvalidation(ctx context.Context, namespace string, removed int)
}

// KeyCountFunc reports the current number of cached keys; it backs the
// observable key-count gauge and must be cheap to call.
type KeyCountFunc func() int64

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	lookupCount   metric.Int64Counter
	hitCount      metric.Int64Counter
	missCount     metric.Int64Counter
	invalidations metric.Int64Counter
	computeErrors metric.Int64Counter
	computeHist   metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	lookupCount, err := meter.Int64Counter(
		"cache.lookups",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	hitCount, err := meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	missCount, err := meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"cache.invalidations",
		metric.WithDescription("Total number of entries removed by invalidation sweeps"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	computeErrors, err := meter.Int64Counter(
		"cache.compute.errors",
		metric.WithDescription("Total number of failed cache-miss computations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	computeHist, err := meter.Float64Histogram(
		"cache.compute.duration_ms",
		metric.WithDescription("Cache-miss computation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		lookupCount:   lookupCount,
		hitCount:      hitCount,
		missCount:     missCount,
		invalidations: invalidations,
		computeErrors: computeErrors,
		computeHist:   computeHist,
	}, nil
}

// RegisterKeyCountGauge registers an observable gauge reporting the current
// key count, fed by fn on every metrics collection.
func RegisterKeyCountGauge(meter metric.Meter, fn KeyCountFunc) error {
	_, err := meter.Int64ObservableGauge(
		"cache.keys",
		metric.WithDescription("Current number of cached keys"),
		metric.WithUnit("{key}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(fn())
			return nil
		}),
	)
	return err
}

// RecordLookup records a cache probe outcome.
func (m *metricsImpl) RecordLookup(ctx context.Context, namespace string, hit bool) {
	opt := metric.WithAttributes(attribute.String("cache.namespace", namespace))

	m.lookupCount.Add(ctx, 1, opt)
	if hit {
		m.hitCount.Add(ctx, 1, opt)
	} else {
		m.missCount.Add(ctx, 1, opt)
	}
}

// RecordCompute records metrics for a cache-miss computation.
func (m *metricsImpl) RecordCompute(ctx context.Context, meta ComputeMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.namespace", meta.Namespace),
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("cache.category", meta.Category))
	}

	opt := metric.WithAttributes(attrs...)

	if err != nil {
		m.computeErrors.Add(ctx, 1, opt)
	}

	m.computeHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordInvalidation records an invalidation sweep.
func (m *metricsImpl) RecordInvalidation(ctx context.Context, namespace string, removed int) {
	m.invalidations.Add(ctx, int64(removed),
		metric.WithAttributes(attribute.String("cache.namespace", namespace)))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordLookup(ctx context.Context, namespace string, hit bool) {}
func (m *noopMetrics) RecordCompute(ctx context.Context, meta ComputeMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordInvalidation(ctx context.Context, namespace string, removed int) {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
