package cache

import (
	"strings"
	"time"
)

// Priority orders entries for eviction when a key cap is configured.
// Higher priority entries survive longer. Priority never affects
// expiration.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "medium"
	}
}

// Policy pairs a time-to-live with an eviction priority for a category.
type Policy struct {
	TTL      time.Duration
	Priority Priority
}

// DefaultTTL applies to categories absent from the strategy table.
const DefaultTTL = 5 * time.Minute

// MinResponseTTL is the floor applied when a degraded resource condition
// halves a response TTL.
const MinResponseTTL = 30 * time.Second

// StrategyConfig configures a Strategy at construction time.
type StrategyConfig struct {
	// DefaultTTL replaces the built-in default for unrecognized categories.
	// Zero keeps the built-in default.
	DefaultTTL time.Duration

	// Overrides replaces or extends the built-in category table.
	Overrides map[string]Policy
}

// Strategy maps resource kinds and query categories to TTL policies.
// Categories are bucketed by volatility: live resource state expires
// quickly, near-static informational answers are kept for hours.
//
// Contract:
// - Read-only after construction; safe for concurrent use.
// - PolicyFor never errors: unknown categories fall back to the default.
type Strategy struct {
	defaultPolicy Policy
	table         map[string]Policy
}

// builtinTable is the default volatility bucketing.
func builtinTable() map[string]Policy {
	return map[string]Policy{
		// Volatile: live state that changes between glances.
		"pods":   {TTL: 30 * time.Second, Priority: PriorityLow},
		"events": {TTL: 30 * time.Second, Priority: PriorityLow},
		"logs":   {TTL: 60 * time.Second, Priority: PriorityLow},

		// Moderately stable workload and networking objects.
		"replicasets":  {TTL: 180 * time.Second, Priority: PriorityMedium},
		"ingresses":    {TTL: 180 * time.Second, Priority: PriorityMedium},
		"deployments":  {TTL: 300 * time.Second, Priority: PriorityMedium},
		"services":     {TTL: 300 * time.Second, Priority: PriorityMedium},
		"statefulsets": {TTL: 300 * time.Second, Priority: PriorityMedium},
		"daemonsets":   {TTL: 300 * time.Second, Priority: PriorityMedium},

		// Stable configuration and topology.
		"configmaps":        {TTL: 600 * time.Second, Priority: PriorityHigh},
		"secrets":           {TTL: 600 * time.Second, Priority: PriorityHigh},
		"namespaces":        {TTL: 600 * time.Second, Priority: PriorityHigh},
		"nodes":             {TTL: 600 * time.Second, Priority: PriorityHigh},
		"persistentvolumes": {TTL: 600 * time.Second, Priority: PriorityHigh},

		// Near-static: cluster metadata and generated answers.
		"cluster-info": {TTL: 1800 * time.Second, Priority: PriorityCritical},
		"manifest":     {TTL: 3600 * time.Second, Priority: PriorityHigh},
		"knowledge":    {TTL: 7200 * time.Second, Priority: PriorityCritical},
	}
}

// NewStrategy creates a Strategy from the built-in table plus the given
// overrides.
func NewStrategy(cfg StrategyConfig) *Strategy {
	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	table := builtinTable()
	for category, policy := range cfg.Overrides {
		table[normalizeCategory(category)] = policy
	}

	return &Strategy{
		defaultPolicy: Policy{TTL: defaultTTL, Priority: PriorityMedium},
		table:         table,
	}
}

// DefaultStrategy returns a Strategy with only the built-in table.
func DefaultStrategy() *Strategy {
	return NewStrategy(StrategyConfig{})
}

// PolicyFor resolves the TTL policy for a resource kind or query category.
// Matching is case-insensitive and tolerates singular Kubernetes kind names
// ("Pod" resolves to the "pods" bucket). Unrecognized categories return the
// default policy; this never fails.
func (s *Strategy) PolicyFor(category string) Policy {
	normalized := normalizeCategory(category)
	if policy, ok := s.table[normalized]; ok {
		return policy
	}
	if policy, ok := s.table[normalized+"s"]; ok {
		return policy
	}
	return s.defaultPolicy
}

// ResponsePolicyFor resolves the TTL policy for a response entry. When the
// underlying resource currently shows a warning or error condition, the TTL
// is halved to bias toward freshness, floored at MinResponseTTL.
func (s *Strategy) ResponsePolicyFor(category string, degraded bool) Policy {
	policy := s.PolicyFor(category)
	if degraded {
		policy.TTL /= 2
		if policy.TTL < MinResponseTTL {
			policy.TTL = MinResponseTTL
		}
	}
	return policy
}

// DefaultPolicy returns the policy applied to unrecognized categories.
func (s *Strategy) DefaultPolicy() Policy {
	return s.defaultPolicy
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
