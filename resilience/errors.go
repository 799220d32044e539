package resilience

import "errors"

// Sentinel errors returned by the guard patterns.
var (
	// ErrCircuitOpen is returned while the circuit breaker is refusing
	// calls to a failing provider.
	ErrCircuitOpen = errors.New("resilience: circuit open")

	// ErrRateLimited is returned when the token bucket is exhausted and
	// waiting is disabled or expired.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when a provider call exceeds its deadline.
	ErrTimeout = errors.New("resilience: call timed out")
)
