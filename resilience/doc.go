// Package resilience guards calls to upstream AI providers.
//
// A cache miss on the response namespace turns into a provider call, and
// provider calls are slow, billed, and occasionally down. The patterns in
// this package wrap that call so a struggling provider degrades the
// assistant instead of taking it out:
//
//   - CircuitBreaker: stops calling a provider that keeps failing, probing
//     it again after a cool-down.
//
//   - Retry: bounded re-attempts with exponential, linear, or constant
//     backoff for transient provider errors.
//
//   - RateLimiter: token bucket capping provider calls, which caps spend.
//
//   - Timeout: a per-call deadline so a hung provider releases the
//     terminal promptly.
//
// Executor composes the patterns into a single guard:
//
//	guard := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Rate:  2, // provider calls per second
//	        Burst: 5,
//	    })),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 200 * time.Millisecond,
//	    })),
//	    resilience.WithTimeout(15*time.Second),
//	)
//
//	err := guard.Execute(ctx, func(ctx context.Context) error {
//	    return callProvider(ctx)
//	})
//
// Executor satisfies the cache package's Guard interface, so it plugs into
// cache.NewLoader via cache.WithGuard.
package resilience
