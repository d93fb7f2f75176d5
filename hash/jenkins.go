package hash

import (
	"encoding/binary"
	"fmt"
)

// Golden ratio of 2^64, the arbitrary seed of the lookup8 mix state.
const goldenRatio uint64 = 0x9E3779B97F4A7C13

// mix64 is the reversible lookup8 mixing step over three 64-bit lanes.
func mix64(a, b, c uint64) (uint64, uint64, uint64) {
	a = (a - b - c) ^ (c >> 43)
	b = (b - c - a) ^ (a << 9)
	c = (c - a - b) ^ (b >> 8)
	a = (a - b - c) ^ (c >> 38)
	b = (b - c - a) ^ (a << 23)
	c = (c - a - b) ^ (b >> 5)
	a = (a - b - c) ^ (c >> 35)
	b = (b - c - a) ^ (a << 49)
	c = (c - a - b) ^ (b >> 11)
	a = (a - b - c) ^ (c >> 12)
	b = (b - c - a) ^ (a << 18)
	c = (c - a - b) ^ (b >> 22)

	return a, b, c
}

// Lookup8 hashes a variable-length key into a 64-bit value using Bob
// Jenkins' lookup8 hash as deployed in the ESXi kernel. level is the
// previous hash when chaining keys, or an arbitrary seed.
//
// Reference: http://burtleburtle.net/bob/c/lookup8.c
func Lookup8(key []byte, level uint64) uint64 {
	a, b, c := level, level, goldenRatio

	rest := key
	for len(rest) >= 24 {
		a += binary.LittleEndian.Uint64(rest)
		b += binary.LittleEndian.Uint64(rest[8:])
		c += binary.LittleEndian.Uint64(rest[16:])
		a, b, c = mix64(a, b, c)
		rest = rest[24:]
	}

	// The key length lands in the low byte of c, so the up to 23 tail
	// bytes fill a, then b, then the lanes of c above the length.
	c += uint64(len(key))
	for shift, by := range rest {
		switch {
		case shift < 8:
			a += uint64(by) << (shift * 8)
		case shift < 16:
			b += uint64(by) << ((shift - 8) * 8)
		default:
			c += uint64(by) << ((shift - 15) * 8)
		}
	}

	_, _, c = mix64(a, b, c)

	return c
}

// Lookup8Quads hashes a key made up of little-endian 64-bit quadwords.
// This is the HashFunc_HashQuads flavor found in ESXi kernel dumps: the
// final mix folds in the number of quadwords rather than the byte length,
// so it disagrees with Lookup8 even on 24-byte-aligned keys. The key
// length must be a multiple of 8.
func Lookup8Quads(key []byte, level uint64) (uint64, error) {
	if len(key)%8 != 0 {
		return 0, fmt.Errorf("quad key length %d is not a multiple of 8", len(key))
	}

	num := len(key) / 8
	a, b, c := level, level, goldenRatio

	rest := key
	remaining := num
	for remaining > 2 {
		a += binary.LittleEndian.Uint64(rest)
		b += binary.LittleEndian.Uint64(rest[8:])
		c += binary.LittleEndian.Uint64(rest[16:])
		a, b, c = mix64(a, b, c)
		rest = rest[24:]
		remaining -= 3
	}

	c += uint64(num)
	switch remaining {
	case 2:
		a += binary.LittleEndian.Uint64(rest)
		b += binary.LittleEndian.Uint64(rest[8:])
	case 1:
		a += binary.LittleEndian.Uint64(rest)
	}

	_, _, c = mix64(a, b, c)

	return c, nil
}
