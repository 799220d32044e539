package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/kubeinsights/cache"
	"github.com/jonwraymond/kubeinsights/observe"
	"github.com/jonwraymond/kubeinsights/resilience"
)

// Duration accepts Go duration strings ("30s", "5m") or bare numbers of
// seconds in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := value.Decode(&seconds); err != nil {
		return fmt.Errorf("config: invalid duration %q", value.Value)
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// CategoryConfig overrides the TTL policy for one resource category.
type CategoryConfig struct {
	TTL      Duration `yaml:"ttl"`
	Priority string   `yaml:"priority"` // low|medium|high|critical, empty means medium
}

// CacheSection configures the cache manager.
type CacheSection struct {
	DefaultTTL Duration                  `yaml:"default_ttl"`
	MaxKeys    int                       `yaml:"max_keys"`
	Categories map[string]CategoryConfig `yaml:"categories"`
}

// RetrySection configures retry for provider calls.
type RetrySection struct {
	MaxAttempts  int      `yaml:"max_attempts"`
	InitialDelay Duration `yaml:"initial_delay"`
	MaxDelay     Duration `yaml:"max_delay"`
	Jitter       bool     `yaml:"jitter"`
}

// CircuitSection configures the provider circuit breaker.
type CircuitSection struct {
	MaxFailures  int      `yaml:"max_failures"`
	ResetTimeout Duration `yaml:"reset_timeout"`
}

// RateLimitSection configures the provider call budget.
type RateLimitSection struct {
	Rate        float64  `yaml:"rate"`
	Burst       int      `yaml:"burst"`
	WaitOnLimit bool     `yaml:"wait_on_limit"`
	MaxWait     Duration `yaml:"max_wait"`
}

// GuardSection configures the resilience executor wrapped around the
// AI provider call on cache misses. A zero section disables the
// corresponding pattern.
type GuardSection struct {
	Timeout   Duration          `yaml:"timeout"`
	Retry     *RetrySection     `yaml:"retry"`
	Circuit   *CircuitSection   `yaml:"circuit"`
	RateLimit *RateLimitSection `yaml:"rate_limit"`
}

// ObserveSection configures logging, metrics, and tracing.
type ObserveSection struct {
	ServiceName string  `yaml:"service_name"`
	Version     string  `yaml:"version"`
	LogLevel    string  `yaml:"log_level"` // debug|info|warn|error
	Tracing     bool    `yaml:"tracing"`
	TracingExp  string  `yaml:"tracing_exporter"` // otlp|jaeger|stdout|none
	SamplePct   float64 `yaml:"sample_pct"`
	Metrics     bool    `yaml:"metrics"`
	MetricsExp  string  `yaml:"metrics_exporter"` // otlp|prometheus|stdout|none
}

// Config is the root of the YAML file.
type Config struct {
	Cache   CacheSection   `yaml:"cache"`
	Guard   GuardSection   `yaml:"guard"`
	Observe ObserveSection `yaml:"observe"`
}

// Load reads, env-expands, parses, and validates a YAML config file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator.
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse env-expands raw YAML, decodes it rejecting unknown fields, and
// validates the result.
func Parse(raw []byte) (Config, error) {
	expanded, err := expandEnvStrict(string(raw))
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Cache.DefaultTTL < 0 {
		return fmt.Errorf("cache.default_ttl must not be negative")
	}
	if c.Cache.MaxKeys < 0 {
		return fmt.Errorf("cache.max_keys must not be negative")
	}
	for category, override := range c.Cache.Categories {
		if override.TTL <= 0 {
			return fmt.Errorf("cache.categories.%s: ttl is required", category)
		}
		if _, err := parsePriority(override.Priority); err != nil {
			return fmt.Errorf("cache.categories.%s: %w", category, err)
		}
	}

	if c.Observe.SamplePct < 0 || c.Observe.SamplePct > 1 {
		return fmt.Errorf("observe.sample_pct must be in [0, 1]")
	}
	switch c.Observe.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("observe.log_level: unknown level %q", c.Observe.LogLevel)
	}

	if r := c.Guard.Retry; r != nil && r.MaxAttempts < 0 {
		return fmt.Errorf("guard.retry.max_attempts must not be negative")
	}
	if rl := c.Guard.RateLimit; rl != nil && rl.Rate < 0 {
		return fmt.Errorf("guard.rate_limit.rate must not be negative")
	}
	return nil
}

// CacheConfig converts the cache section for cache.NewManager.
func (c *Config) CacheConfig() cache.Config {
	out := cache.Config{
		DefaultTTL: c.Cache.DefaultTTL.Std(),
		MaxKeys:    c.Cache.MaxKeys,
	}
	if len(c.Cache.Categories) > 0 {
		out.CategoryOverrides = make(map[string]cache.Policy, len(c.Cache.Categories))
		for category, override := range c.Cache.Categories {
			priority, _ := parsePriority(override.Priority) // validated in Parse
			out.CategoryOverrides[category] = cache.Policy{
				TTL:      override.TTL.Std(),
				Priority: priority,
			}
		}
	}
	return out
}

// GuardExecutor builds the resilience executor described by the guard
// section. Patterns left unconfigured are omitted; a fully empty
// section yields a pass-through executor.
func (c *Config) GuardExecutor() *resilience.Executor {
	var opts []resilience.ExecutorOption

	if rl := c.Guard.RateLimit; rl != nil {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        rl.Rate,
			Burst:       rl.Burst,
			WaitOnLimit: rl.WaitOnLimit,
			MaxWait:     rl.MaxWait.Std(),
		})))
	}
	if cb := c.Guard.Circuit; cb != nil {
		opts = append(opts, resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  cb.MaxFailures,
			ResetTimeout: cb.ResetTimeout.Std(),
		})))
	}
	if r := c.Guard.Retry; r != nil {
		opts = append(opts, resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  r.MaxAttempts,
			InitialDelay: r.InitialDelay.Std(),
			MaxDelay:     r.MaxDelay.Std(),
			Jitter:       r.Jitter,
		})))
	}
	if c.Guard.Timeout > 0 {
		opts = append(opts, resilience.WithTimeout(c.Guard.Timeout.Std()))
	}

	return resilience.NewExecutor(opts...)
}

// ObserveConfig converts the observe section for observe.NewObserver.
func (c *Config) ObserveConfig() observe.Config {
	serviceName := c.Observe.ServiceName
	if serviceName == "" {
		serviceName = "kubeinsights"
	}
	logLevel := c.Observe.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	return observe.Config{
		ServiceName: serviceName,
		Version:     c.Observe.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing,
			Exporter:  c.Observe.TracingExp,
			SamplePct: c.Observe.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics,
			Exporter: c.Observe.MetricsExp,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   logLevel,
		},
	}
}

func parsePriority(s string) (cache.Priority, error) {
	switch strings.ToLower(s) {
	case "", "medium":
		return cache.PriorityMedium, nil
	case "low":
		return cache.PriorityLow, nil
	case "high":
		return cache.PriorityHigh, nil
	case "critical":
		return cache.PriorityCritical, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}
