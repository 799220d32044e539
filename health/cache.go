package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/kubeinsights/cache"
)

// CacheCheckerConfig configures a CacheChecker.
type CacheCheckerConfig struct {
	// Manager is the cache manager to watch. Required.
	Manager *cache.Manager

	// MinHitRate is the combined hit rate below which the cache is
	// degraded. Default: 0.1.
	MinHitRate float64

	// WarmupLookups is how many lookups must be observed before the
	// hit rate is judged; a cold cache always misses. Default: 100.
	WarmupLookups uint64

	// MaxKeys marks the cache unhealthy when the combined key count
	// exceeds it. Zero disables the cap check.
	MaxKeys int
}

// CacheChecker judges the cache manager by its statistics.
type CacheChecker struct {
	cfg CacheCheckerConfig
}

var _ Checker = (*CacheChecker)(nil)

// NewCacheChecker creates a cache checker with defaults applied.
func NewCacheChecker(cfg CacheCheckerConfig) *CacheChecker {
	if cfg.MinHitRate <= 0 {
		cfg.MinHitRate = 0.1
	}
	if cfg.WarmupLookups == 0 {
		cfg.WarmupLookups = 100
	}
	return &CacheChecker{cfg: cfg}
}

func (c *CacheChecker) Name() string { return "cache" }

// Check inspects the manager's statistics. The full stats snapshot
// rides along in Details for the stats endpoint and dashboards.
func (c *CacheChecker) Check(ctx context.Context) Result {
	stats := c.cfg.Manager.Stats()
	combined := stats.Combined

	details := map[string]any{
		"keys":       combined.Keys,
		"hits":       combined.Hits,
		"misses":     combined.Misses,
		"evictions":  combined.Evictions,
		"size_bytes": combined.SizeBytes,
		"hit_rate":   combined.HitRate(),
	}

	if c.cfg.MaxKeys > 0 && combined.Keys > c.cfg.MaxKeys {
		msg := fmt.Sprintf("key count %d exceeds cap %d", combined.Keys, c.cfg.MaxKeys)
		return Unhealthy(msg, nil).WithDetails(details)
	}

	if combined.Lookups() >= c.cfg.WarmupLookups && combined.HitRate() < c.cfg.MinHitRate {
		msg := fmt.Sprintf("hit rate %.2f below %.2f", combined.HitRate(), c.cfg.MinHitRate)
		return Degraded(msg).WithDetails(details)
	}

	return Healthy("cache ok").WithDetails(details)
}
