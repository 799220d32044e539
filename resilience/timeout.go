package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures a Timeout.
type TimeoutConfig struct {
	// Timeout is the per-call deadline. Default: 30s.
	Timeout time.Duration
}

// Timeout bounds each provider call with a deadline. The wrapped
// operation must honor ctx cancellation; provider SDK calls do.
type Timeout struct {
	cfg TimeoutConfig
}

// NewTimeout creates a timeout wrapper.
func NewTimeout(cfg TimeoutConfig) *Timeout {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Timeout{cfg: cfg}
}

// Execute runs op under a deadline derived from ctx. A deadline hit is
// reported as ErrTimeout; a cancellation of the parent ctx passes
// through unchanged.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	err := op(callCtx)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return ErrTimeout
	}
	return err
}

// Config returns the effective configuration after defaults.
func (t *Timeout) Config() TimeoutConfig {
	return t.cfg
}

// ExecuteWithTimeout runs op once under the given deadline.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Execute(ctx, op)
}
