// Package determinism provides the hashing and ordering helpers that keep
// pricing results reproducible across runs.
package determinism

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// ContentHash is a SHA-256 digest of canonical content
type ContentHash [32]byte

// ComputeHash hashes raw bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// HashJSON hashes the JSON encoding of v. Map keys are encoded in sorted
// order, so equal values always produce equal hashes.
func HashJSON(v any) (ContentHash, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return ContentHash{}, err
	}
	return ComputeHash(raw), nil
}

// Hex returns the full hex digest
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer with a shortened digest
func (h ContentHash) String() string {
	return h.Hex()[:12]
}

// IsZero reports whether h was never computed
func (h ContentHash) IsZero() bool {
	return h == ContentHash{}
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
