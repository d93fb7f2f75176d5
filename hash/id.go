package hash

import (
	"github.com/cespare/xxhash/v2"
)

// ContentID generates a 64-bit fingerprint of a decoded artifact using
// xxHash64. IDs are stable across processes and platforms, which makes
// them usable for deduplicating carved regions between captures.
func ContentID(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ContentIDString is ContentID for string keys, avoiding a []byte
// conversion on the caller's side.
func ContentIDString(data string) uint64 {
	return xxhash.Sum64String(data)
}
