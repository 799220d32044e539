// Package cache provides TTL-based caching for Kubernetes resource context
// and AI assistant responses.
//
// It provides hierarchical key derivation with prefix-based invalidation,
// a volatility-bucketed TTL strategy table, a concurrency-safe in-memory
// store with hit/miss statistics, and a Manager facade composing the two
// logical namespaces ("context" and "response").
package cache
