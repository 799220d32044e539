package cache

import (
	"fmt"
	"testing"
	"time"
)

// BenchmarkStore_Get_Hit measures cache hit performance.
func BenchmarkStore_Get_Hit(b *testing.B) {
	s := NewStore()
	s.Set("key", "value", time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get("key")
	}
}

// BenchmarkStore_Get_Miss measures cache miss performance.
func BenchmarkStore_Get_Miss(b *testing.B) {
	s := NewStore()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get("missing")
	}
}

// BenchmarkStore_Set measures write performance.
func BenchmarkStore_Set(b *testing.B) {
	s := NewStore()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(fmt.Sprintf("key-%d", i), "value", time.Hour)
	}
}

// BenchmarkStore_DeleteByPrefix measures invalidation sweep cost at a
// session-sized working set.
func BenchmarkStore_DeleteByPrefix(b *testing.B) {
	s := NewStore()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		for j := 0; j < 200; j++ {
			s.Set(fmt.Sprintf("context:ns%d:Pod:p%d", j%4, j), "v", time.Hour)
		}
		b.StartTimer()
		s.DeleteByPrefix("context:ns1:")
	}
}

// BenchmarkBuildContextKey measures hierarchical key derivation.
func BenchmarkBuildContextKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = BuildContextKey("default", "Pod", "nginx-1")
	}
}

// BenchmarkBuildResponseKey measures query normalization plus hashing.
func BenchmarkBuildResponseKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = BuildResponseKey("Why is my pod crashing?", "ctx-fingerprint")
	}
}

// BenchmarkManager_GetContext_Hit measures the full facade hit path.
func BenchmarkManager_GetContext_Hit(b *testing.B) {
	m := NewManager(Config{})
	if err := m.CacheContext("default", "Pod", "nginx-1", "snapshot", time.Hour); err != nil {
		b.Fatalf("CacheContext failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = m.GetContext("default", "Pod", "nginx-1")
	}
}

// BenchmarkStore_Stats measures the dashboard polling path.
func BenchmarkStore_Stats(b *testing.B) {
	s := NewStore()
	for i := 0; i < 200; i++ {
		s.Set(fmt.Sprintf("key-%d", i), "v", time.Hour)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Stats()
	}
}
