package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// entryOverhead approximates the fixed per-entry bookkeeping cost in bytes.
const entryOverhead = 96

type entry struct {
	value      any
	insertedAt time.Time
	expiresAt  time.Time
	priority   Priority
	size       int64
}

func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Stats is a point-in-time snapshot of store counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Keys      int    `json:"keys"`
	SizeBytes int64  `json:"size_bytes"`
}

// Lookups returns the total number of Get calls observed.
func (s Stats) Lookups() uint64 {
	return s.Hits + s.Misses
}

// HitRate returns hits / (hits + misses) in [0, 1], or 0 when no lookups
// have been performed.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Store is an in-memory key-value store with per-entry expiration, access
// statistics, and prefix-based invalidation.
//
// Contract:
// - Concurrency: safe for concurrent use; a single mutex serializes all
//   operations, including the counter updates performed by Get.
// - Expiration: lazy. Expired entries are never returned; they are removed
//   when read, overwritten, swept, or flushed.
// - Errors: no operation fails. A Set with zero or negative TTL stores an
//   already-expired entry rather than rejecting the call.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	hits      uint64
	misses    uint64
	evictions uint64
	sizeBytes int64
	maxKeys   int
	now       func() time.Time
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithClock replaces the store's time source. Tests use this to simulate
// TTL expiry without sleeping.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxKeys bounds the number of live keys. When the bound is reached,
// Set evicts an expired entry if one exists, otherwise the lowest-priority
// entry, oldest-inserted among ties. Zero means unbounded.
func WithMaxKeys(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxKeys = n
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores a value with PriorityMedium. See SetWithPriority.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.SetWithPriority(key, value, ttl, PriorityMedium)
}

// SetWithPriority stores a value with the given TTL and eviction priority.
// An existing entry for the same key is overwritten and its expiration
// clock reset. A zero or negative TTL stores the entry already expired, so
// the next Get is a miss.
func (s *Store) SetWithPriority(key string, value any, ttl time.Duration, priority Priority) {
	now := s.now()
	e := &entry{
		value:      value,
		insertedAt: now,
		expiresAt:  now.Add(ttl),
		priority:   priority,
		size:       approxSize(key, value),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.sizeBytes -= old.size
	} else if s.maxKeys > 0 && len(s.entries) >= s.maxKeys {
		s.evictOneLocked(now)
	}

	s.entries[key] = e
	s.sizeBytes += e.size
}

// evictOneLocked removes a single entry to make room: the first expired
// entry found, otherwise the lowest-priority entry with the oldest insert
// time. Caller must hold mu.
func (s *Store) evictOneLocked(now time.Time) {
	var victim string
	var victimEntry *entry

	for key, e := range s.entries {
		if e.expired(now) {
			victim, victimEntry = key, e
			break
		}
		if victimEntry == nil ||
			e.priority < victimEntry.priority ||
			(e.priority == victimEntry.priority && e.insertedAt.Before(victimEntry.insertedAt)) {
			victim, victimEntry = key, e
		}
	}

	if victimEntry != nil {
		s.removeLocked(victim, victimEntry)
		s.evictions++
	}
}

// Get retrieves a live value. Absent and expired keys both count as misses;
// expired entries are removed on read and never returned.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if e.expired(s.now()) {
		s.removeLocked(key, e)
		s.misses++
		return nil, false
	}

	s.hits++
	return e.value, true
}

// Delete removes a key. Returns whether an entry was actually removed.
// Does not touch the hit/miss counters.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.removeLocked(key, e)
	return true
}

// DeleteByPrefix removes all keys starting with prefix and returns the
// count removed. This backs hierarchical invalidation; the expected working
// set is small enough that a linear scan is acceptable.
func (s *Store) DeleteByPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) {
			s.removeLocked(key, e)
			removed++
		}
	}
	return removed
}

// Flush removes all entries and resets every counter to zero. A flushed
// store is indistinguishable from a freshly constructed one.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)
	s.hits = 0
	s.misses = 0
	s.evictions = 0
	s.sizeBytes = 0
}

// Len returns the number of stored keys, including not-yet-swept expired
// entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns a snapshot of the store counters. Cheap enough to poll
// from a live dashboard.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Keys:      len(s.entries),
		SizeBytes: s.sizeBytes,
	}
}

// StartSweeper launches a background goroutine that periodically removes
// expired entries, bounding memory held by never-read entries. The sweeper
// stops when ctx is cancelled. Correctness never depends on it: lazy
// expiration on Get is authoritative.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if e.expired(now) {
			s.removeLocked(key, e)
			s.evictions++
		}
	}
}

// removeLocked deletes an entry and adjusts the size estimate. Caller must
// hold mu.
func (s *Store) removeLocked(key string, e *entry) {
	delete(s.entries, key)
	s.sizeBytes -= e.size
}

// approxSize estimates the memory footprint of an entry. Strings and byte
// slices are measured directly; other values fall back to their JSON
// encoding length. The estimate feeds Stats.SizeBytes only.
func approxSize(key string, value any) int64 {
	n := int64(len(key)) + entryOverhead
	switch v := value.(type) {
	case nil:
	case string:
		n += int64(len(v))
	case []byte:
		n += int64(len(v))
	default:
		if b, err := json.Marshal(v); err == nil {
			n += int64(len(b))
		}
	}
	return n
}
