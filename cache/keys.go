package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Namespace prefixes for the two logical cache namespaces.
const (
	ContextPrefix  = "context"
	ResponsePrefix = "response"
)

// KeySeparator delimits the segments of a hierarchical context key.
const KeySeparator = ":"

// BuildContextKey derives a hierarchical cache key for a Kubernetes
// resource context entry.
//
// Format: context:<namespace>[:<kind>[:<name>]]
//
// Namespace is required. Kind and name are optional, but name is only
// meaningful when kind is also supplied; violating that returns
// ErrInvalidKey. The result is usable both as an exact key and, with a
// trailing separator appended, as a prefix for bulk invalidation.
//
// Determinism: the key is a pure function of its inputs.
func BuildContextKey(namespace, kind, name string) (string, error) {
	if strings.TrimSpace(namespace) == "" {
		return "", fmt.Errorf("%w: namespace is required", ErrInvalidKey)
	}
	if name != "" && kind == "" {
		return "", fmt.Errorf("%w: name %q supplied without kind", ErrInvalidKey, name)
	}

	segments := []string{ContextPrefix, namespace}
	if kind != "" {
		segments = append(segments, kind)
	}
	if name != "" {
		segments = append(segments, name)
	}

	for _, seg := range segments[1:] {
		if err := validateSegment(seg); err != nil {
			return "", err
		}
	}

	key := strings.Join(segments, KeySeparator)
	if len(key) > MaxKeyLength {
		return "", ErrKeyTooLong
	}
	return key, nil
}

// validateSegment rejects segments that would break the hierarchy encoding.
func validateSegment(seg string) error {
	if strings.Contains(seg, KeySeparator) {
		return fmt.Errorf("%w: segment %q contains %q", ErrInvalidKey, seg, KeySeparator)
	}
	if strings.ContainsAny(seg, " \t\n\r") {
		return fmt.Errorf("%w: segment %q contains whitespace", ErrInvalidKey, seg)
	}
	return nil
}

// BuildResponseKey derives a cache key for an AI response entry.
//
// Format: response:<hash>
//
// The query is normalized (trimmed, lowercased, internal whitespace runs
// collapsed) before hashing, so cosmetically different but semantically
// identical queries intentionally collide. The context fingerprint is mixed
// into the digest so the same question against different cluster states
// produces different keys. The hash is SHA-256 rendered as lowercase hex,
// giving a fixed-length key regardless of input length.
func BuildResponseKey(query, contextFingerprint string) string {
	normalized := NormalizeQuery(query)

	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(contextFingerprint))

	return ResponsePrefix + KeySeparator + hex.EncodeToString(h.Sum(nil))
}

// NormalizeQuery canonicalizes free-form query text: leading/trailing
// whitespace is trimmed, internal whitespace runs collapse to a single
// space, and the result is lowercased.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Fingerprint computes a short deterministic digest of an arbitrary value,
// suitable for use as a context fingerprint in BuildResponseKey. Values are
// canonicalized (map keys sorted) before hashing so logically equal inputs
// produce equal fingerprints regardless of map iteration order.
func Fingerprint(v any) (string, error) {
	canonical, err := canonicalize(v)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize value: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:8]), nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
