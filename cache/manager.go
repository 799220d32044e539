package cache

import (
	"sync"
	"time"
)

// Config configures a Manager at construction time. The zero value is
// usable: built-in TTL defaults, unbounded stores, real clock.
type Config struct {
	// DefaultTTL replaces the built-in default TTL for unrecognized
	// categories. Zero keeps the built-in default.
	DefaultTTL time.Duration

	// CategoryOverrides replaces or extends the built-in TTL table.
	CategoryOverrides map[string]Policy

	// MaxKeys bounds each namespace store. Zero means unbounded; entries
	// are then bounded only by TTL expiry.
	MaxKeys int

	// Clock replaces the stores' time source; nil means time.Now.
	Clock func() time.Time
}

// Manager composes key derivation, the TTL strategy table, and two
// namespace stores into the cache facade the tooltip and context-menu
// services call.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: the Manager exclusively owns its stores for its lifetime.
//   Callers must not retain store references across a ResetDefault.
type Manager struct {
	contexts  *Store
	responses *Store
	strategy  *Strategy
}

// NewManager creates a Manager. This is the composition-root constructor;
// hosts that want a process-wide instance use Default instead.
func NewManager(cfg Config) *Manager {
	opts := []StoreOption{}
	if cfg.Clock != nil {
		opts = append(opts, WithClock(cfg.Clock))
	}
	if cfg.MaxKeys > 0 {
		opts = append(opts, WithMaxKeys(cfg.MaxKeys))
	}

	return &Manager{
		contexts:  NewStore(opts...),
		responses: NewStore(opts...),
		strategy: NewStrategy(StrategyConfig{
			DefaultTTL: cfg.DefaultTTL,
			Overrides:  cfg.CategoryOverrides,
		}),
	}
}

// Strategy returns the manager's TTL strategy table.
func (m *Manager) Strategy() *Strategy {
	return m.strategy
}

// CacheContext stores a resource context snapshot under the hierarchical
// context key. A positive ttlOverride wins over the strategy table;
// otherwise the TTL is resolved from the resource kind, or the default
// policy when kind is empty.
func (m *Manager) CacheContext(namespace, kind, name string, value any, ttlOverride time.Duration) error {
	key, err := BuildContextKey(namespace, kind, name)
	if err != nil {
		return err
	}

	policy := m.contextPolicy(kind)
	ttl := ttlOverride
	if ttl <= 0 {
		ttl = policy.TTL
	}

	m.contexts.SetWithPriority(key, value, ttl, policy.Priority)
	return nil
}

// GetContext retrieves a live context snapshot. The boolean reports a hit;
// the error reports invalid key coordinates only, never a miss.
func (m *Manager) GetContext(namespace, kind, name string) (any, bool, error) {
	key, err := BuildContextKey(namespace, kind, name)
	if err != nil {
		return nil, false, err
	}

	value, ok := m.contexts.Get(key)
	return value, ok, nil
}

// CacheResponse stores an AI response record keyed by normalized query and
// context fingerprint. A positive ttlOverride wins over the default policy.
func (m *Manager) CacheResponse(query, contextFingerprint string, value any, ttlOverride time.Duration) {
	policy := m.strategy.DefaultPolicy()
	ttl := ttlOverride
	if ttl <= 0 {
		ttl = policy.TTL
	}

	key := BuildResponseKey(query, contextFingerprint)
	m.responses.SetWithPriority(key, value, ttl, policy.Priority)
}

// CacheResponseForCategory stores an AI response with its TTL resolved from
// the query category. The degraded flag halves the TTL when the underlying
// resource shows a warning or error condition.
func (m *Manager) CacheResponseForCategory(query, contextFingerprint string, value any, category string, degraded bool) {
	policy := m.strategy.ResponsePolicyFor(category, degraded)
	key := BuildResponseKey(query, contextFingerprint)
	m.responses.SetWithPriority(key, value, policy.TTL, policy.Priority)
}

// GetResponse retrieves a live cached AI response. Lookups are
// case/whitespace-insensitive on the query text.
func (m *Manager) GetResponse(query, contextFingerprint string) (any, bool) {
	return m.responses.Get(BuildResponseKey(query, contextFingerprint))
}

// InvalidateResource removes every context entry at or below the given
// granularity: namespace alone sweeps the whole namespace, namespace+kind
// sweeps the kind, all three remove a single resource subtree. Response
// entries are deliberately untouched; a conversational answer is not stale
// just because one pod flapped. Returns the number of entries removed.
func (m *Manager) InvalidateResource(namespace, kind, name string) (int, error) {
	key, err := BuildContextKey(namespace, kind, name)
	if err != nil {
		return 0, err
	}

	removed := 0
	if m.contexts.Delete(key) {
		removed++
	}
	// The trailing separator keeps the sweep on segment boundaries, so
	// invalidating "ns1" does not touch "ns10".
	removed += m.contexts.DeleteByPrefix(key + KeySeparator)
	return removed, nil
}

// OnResourceChanged is the hook the host plugin wires to its watch/poll
// resource-change notifier. Invalid coordinates mean there is nothing
// cached to invalidate, so the error is intentionally swallowed.
func (m *Manager) OnResourceChanged(namespace, kind, name string) {
	_, _ = m.InvalidateResource(namespace, kind, name)
}

// InvalidateAllResponses removes every response entry, for use when the
// AI provider or model changes. Returns the number removed.
func (m *Manager) InvalidateAllResponses() int {
	return m.responses.DeleteByPrefix(ResponsePrefix + KeySeparator)
}

// Flush empties both namespaces and resets all counters.
func (m *Manager) Flush() {
	m.contexts.Flush()
	m.responses.Flush()
}

// ManagerStats breaks statistics down per namespace plus a combined rollup
// for dashboards that want a single figure.
type ManagerStats struct {
	Context  Stats `json:"context"`
	Response Stats `json:"response"`
	Combined Stats `json:"combined"`
}

// Stats returns a snapshot of the statistics for both namespaces.
func (m *Manager) Stats() ManagerStats {
	ctx := m.contexts.Stats()
	resp := m.responses.Stats()

	return ManagerStats{
		Context:  ctx,
		Response: resp,
		Combined: Stats{
			Hits:      ctx.Hits + resp.Hits,
			Misses:    ctx.Misses + resp.Misses,
			Evictions: ctx.Evictions + resp.Evictions,
			Keys:      ctx.Keys + resp.Keys,
			SizeBytes: ctx.SizeBytes + resp.SizeBytes,
		},
	}
}

func (m *Manager) contextPolicy(kind string) Policy {
	if kind == "" {
		return m.strategy.DefaultPolicy()
	}
	return m.strategy.PolicyFor(kind)
}

// Process-wide default instance. Hosts that wire the Manager through their
// own composition root should prefer NewManager; the default exists for
// plugin environments without one.
var (
	defaultMu      sync.Mutex
	defaultManager *Manager
	defaultConfig  Config
)

// SetDefaultConfig sets the configuration used when Default lazily
// constructs the process-wide Manager. It has no effect on an already
// constructed instance; call ResetDefault first to apply it.
func SetDefaultConfig(cfg Config) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultConfig = cfg
}

// Default returns the process-wide Manager, constructing it on first use.
// Callers must re-fetch it rather than caching the pointer across a
// ResetDefault boundary.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager == nil {
		defaultManager = NewManager(defaultConfig)
	}
	return defaultManager
}

// ResetDefault discards the process-wide Manager. The next Default call
// creates a fresh instance with empty state. Intended for test isolation.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = nil
}
