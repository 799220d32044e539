package observe

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeMetrics records calls for assertions.
type fakeMetrics struct {
	mu            sync.Mutex
	lookups       int
	hits          int
	computes      int
	computeErrs   int
	invalidations int
	removed       int
}

func (f *fakeMetrics) RecordLookup(_ context.Context, _ string, hit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if hit {
		f.hits++
	}
}

func (f *fakeMetrics) RecordCompute(_ context.Context, _ ComputeMeta, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.computes++
	if err != nil {
		f.computeErrs++
	}
}

func (f *fakeMetrics) RecordInvalidation(_ context.Context, _ string, removed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
	f.removed += removed
}

var _ Metrics = (*fakeMetrics)(nil)

func newTestMiddleware(metrics Metrics, logWriter *bytes.Buffer) *Middleware {
	logger := NewLoggerWithWriter("debug", logWriter)
	return NewMiddleware(newNoopTracer(), metrics, logger)
}

func TestMiddleware_WrapComputeSuccess(t *testing.T) {
	metrics := &fakeMetrics{}
	var buf bytes.Buffer
	mw := newTestMiddleware(metrics, &buf)

	meta := ComputeMeta{Namespace: "response", Category: "knowledge"}
	fn := mw.WrapCompute(meta, func(ctx context.Context) (any, error) {
		return "answer", nil
	})

	result, err := fn(context.Background())
	if err != nil {
		t.Fatalf("wrapped compute failed: %v", err)
	}
	if result != "answer" {
		t.Errorf("result = %v, want answer", result)
	}
	if metrics.computes != 1 {
		t.Errorf("computes = %d, want 1", metrics.computes)
	}
	if metrics.computeErrs != 0 {
		t.Errorf("computeErrs = %d, want 0", metrics.computeErrs)
	}
	if buf.Len() == 0 {
		t.Error("expected a completion log entry")
	}
}

func TestMiddleware_WrapComputePropagatesError(t *testing.T) {
	metrics := &fakeMetrics{}
	var buf bytes.Buffer
	mw := newTestMiddleware(metrics, &buf)

	boom := errors.New("provider unavailable")
	fn := mw.WrapCompute(ComputeMeta{Namespace: "context"}, func(ctx context.Context) (any, error) {
		return nil, boom
	})

	_, err := fn(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected the compute error unchanged, got %v", err)
	}
	if metrics.computeErrs != 1 {
		t.Errorf("computeErrs = %d, want 1", metrics.computeErrs)
	}
}

func TestMiddleware_ObserveLookup(t *testing.T) {
	metrics := &fakeMetrics{}
	var buf bytes.Buffer
	mw := newTestMiddleware(metrics, &buf)

	mw.ObserveLookup(context.Background(), "context", true)
	mw.ObserveLookup(context.Background(), "context", false)

	if metrics.lookups != 2 || metrics.hits != 1 {
		t.Errorf("lookups = %d hits = %d, want 2 and 1", metrics.lookups, metrics.hits)
	}
}

func TestMiddleware_ObserveInvalidation(t *testing.T) {
	metrics := &fakeMetrics{}
	var buf bytes.Buffer
	mw := newTestMiddleware(metrics, &buf)

	mw.ObserveInvalidation(context.Background(), "context", 4)

	if metrics.invalidations != 1 || metrics.removed != 4 {
		t.Errorf("invalidations = %d removed = %d, want 1 and 4", metrics.invalidations, metrics.removed)
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "kubeinsights-test"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver failed: %v", err)
	}
	if mw == nil {
		t.Fatal("expected non-nil middleware")
	}

	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver, got %v", err)
	}
}
