package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy selects how retry delays grow.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear grows the delay by InitialDelay per attempt.
	BackoffLinear
	// BackoffConstant keeps the delay fixed.
	BackoffConstant
)

// RetryConfig configures a Retry.
type RetryConfig struct {
	// MaxAttempts counts the initial call too. Default: 3.
	MaxAttempts int

	// InitialDelay precedes the first retry. Default: 100ms.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts. Default: 30s.
	MaxDelay time.Duration

	// Multiplier drives exponential backoff. Default: 2.0.
	Multiplier float64

	// Strategy selects the backoff curve. Default: BackoffExponential.
	Strategy BackoffStrategy

	// Jitter adds up to 25% random spread to each delay. Default false;
	// enable it when many terminals share one provider.
	Jitter bool

	// RetryIf decides whether an error is worth another attempt.
	// Default: every non-nil error is.
	RetryIf func(err error) bool

	// OnRetry, if set, observes each retry before its delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-attempts failed provider calls with backoff.
type Retry struct {
	cfg RetryConfig
}

// NewRetry creates a retry handler with defaults applied.
func NewRetry(cfg RetryConfig) *Retry {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = func(err error) bool { return err != nil }
	}
	return &Retry{cfg: cfg}
}

// Execute runs op until it succeeds, a non-retryable error occurs, the
// attempts are exhausted, or ctx is cancelled. The last error wins.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.cfg.RetryIf(err) || attempt >= r.cfg.MaxAttempts {
			break
		}

		delay := r.delayFor(attempt)
		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

func (r *Retry) delayFor(attempt int) time.Duration {
	var delay time.Duration
	switch r.cfg.Strategy {
	case BackoffConstant:
		delay = r.cfg.InitialDelay
	case BackoffLinear:
		delay = r.cfg.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		delay = time.Duration(float64(r.cfg.InitialDelay) * math.Pow(r.cfg.Multiplier, float64(attempt-1)))
	}

	if delay > r.cfg.MaxDelay {
		delay = r.cfg.MaxDelay
	}

	if r.cfg.Jitter && delay > 0 {
		// #nosec G404 -- timing spread, not cryptography.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}
	return delay
}

// Config returns the effective configuration after defaults.
func (r *Retry) Config() RetryConfig {
	return r.cfg
}
