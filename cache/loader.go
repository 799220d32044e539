package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces a value on a cache miss, typically by calling the
// AI provider. The context carries the caller's deadline; the cache itself
// never imposes one.
type ComputeFunc func(ctx context.Context) (any, error)

// Guard wraps the upstream computation with protection such as timeouts,
// retries, rate limits, or a circuit breaker. resilience.Executor satisfies
// this interface.
type Guard interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// Loader composes get-on-miss-compute-then-set on top of a Manager.
// Concurrent misses for the same key are collapsed into a single
// computation via singleflight, so a hover storm over one resource costs
// one provider call.
//
// Compute errors are returned to every waiting caller and are never
// cached.
type Loader struct {
	manager *Manager
	guard   Guard
	group   singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithGuard wraps every computation with the given guard.
func WithGuard(g Guard) LoaderOption {
	return func(l *Loader) {
		l.guard = g
	}
}

// NewLoader creates a Loader over the given Manager.
func NewLoader(m *Manager, opts ...LoaderOption) *Loader {
	l := &Loader{manager: m}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetOrComputeContext returns the cached context snapshot for a resource,
// computing and caching it on a miss. The TTL is resolved from the resource
// kind via the strategy table.
func (l *Loader) GetOrComputeContext(ctx context.Context, namespace, kind, name string, fn ComputeFunc) (any, error) {
	key, err := BuildContextKey(namespace, kind, name)
	if err != nil {
		return nil, err
	}

	if value, ok := l.manager.contexts.Get(key); ok {
		return value, nil
	}

	return l.compute(ctx, key, fn, func(value any) {
		_ = l.manager.CacheContext(namespace, kind, name, value, 0)
	})
}

// GetOrComputeContextTTL is GetOrComputeContext with an explicit TTL that
// wins over the strategy table.
func (l *Loader) GetOrComputeContextTTL(ctx context.Context, namespace, kind, name string, ttl time.Duration, fn ComputeFunc) (any, error) {
	key, err := BuildContextKey(namespace, kind, name)
	if err != nil {
		return nil, err
	}

	if value, ok := l.manager.contexts.Get(key); ok {
		return value, nil
	}

	return l.compute(ctx, key, fn, func(value any) {
		_ = l.manager.CacheContext(namespace, kind, name, value, ttl)
	})
}

// GetOrComputeResponse returns the cached AI response for a query against a
// given context fingerprint, computing and caching it on a miss. The TTL is
// resolved from the query category; degraded halves it.
func (l *Loader) GetOrComputeResponse(ctx context.Context, query, contextFingerprint, category string, degraded bool, fn ComputeFunc) (any, error) {
	key := BuildResponseKey(query, contextFingerprint)

	if value, ok := l.manager.responses.Get(key); ok {
		return value, nil
	}

	return l.compute(ctx, key, fn, func(value any) {
		l.manager.CacheResponseForCategory(query, contextFingerprint, value, category, degraded)
	})
}

// compute runs fn once per in-flight key, stores a successful result via
// store, and fans the outcome out to every collapsed caller. A caller that
// lost the singleflight race still gets the winner's value without a second
// cache probe.
func (l *Loader) compute(ctx context.Context, key string, fn ComputeFunc, store func(any)) (any, error) {
	value, err, _ := l.group.Do(key, func() (any, error) {
		result, err := l.run(ctx, fn)
		if err != nil {
			return nil, err
		}
		store(result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (l *Loader) run(ctx context.Context, fn ComputeFunc) (any, error) {
	if l.guard == nil {
		return fn(ctx)
	}

	var result any
	err := l.guard.Execute(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
