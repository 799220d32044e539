package cache

import "errors"

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	// ErrInvalidKey is returned when key construction inputs violate the
	// hierarchy constraints (empty namespace, name without kind, or a
	// segment containing reserved characters).
	ErrInvalidKey = errors.New("cache: key is invalid")

	// ErrKeyTooLong is returned when a constructed key exceeds MaxKeyLength.
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)
