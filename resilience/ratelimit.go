package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Rate is the sustained number of calls per second. Default: 1.
	Rate float64

	// Burst is the bucket capacity. Default: 5.
	Burst int

	// WaitOnLimit blocks for a token instead of failing fast.
	// Default: false.
	WaitOnLimit bool

	// MaxWait bounds the blocking when WaitOnLimit is set. Default: 1s.
	MaxWait time.Duration

	// Clock replaces the time source. Nil means time.Now.
	Clock func() time.Time
}

// RateLimiter is a token bucket bounding provider calls. Bounding the
// call rate bounds the API bill.
type RateLimiter struct {
	cfg RateLimiterConfig

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a rate limiter with a full bucket.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &RateLimiter{
		cfg:    cfg,
		tokens: float64(cfg.Burst),
		last:   cfg.Clock(),
	}
}

// Allow reports whether one call may proceed, consuming a token if so.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN reports whether n calls may proceed, consuming n tokens if so.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens < float64(n) {
		return false
	}
	rl.tokens -= float64(n)
	return true
}

// Wait blocks until a token is available, MaxWait elapses, or ctx is
// cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if rl.AllowN(1) {
		return nil
	}

	rl.mu.Lock()
	needed := 1 - rl.tokens
	wait := time.Duration(needed / rl.cfg.Rate * float64(time.Second))
	rl.mu.Unlock()

	if wait > rl.cfg.MaxWait {
		wait = rl.cfg.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		if rl.AllowN(1) {
			return nil
		}
		return ErrRateLimited
	}
}

// Execute runs op if the limiter admits it, otherwise returns
// ErrRateLimited (or blocks first when WaitOnLimit is set).
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.cfg.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.Allow() {
		return ErrRateLimited
	}
	return op(ctx)
}

// Tokens returns the current token count after refill.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket to capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.cfg.Burst)
	rl.last = rl.cfg.Clock()
}

func (rl *RateLimiter) refillLocked() {
	now := rl.cfg.Clock()
	elapsed := now.Sub(rl.last)
	rl.last = now

	rl.tokens += elapsed.Seconds() * rl.cfg.Rate
	if rl.tokens > float64(rl.cfg.Burst) {
		rl.tokens = float64(rl.cfg.Burst)
	}
}
