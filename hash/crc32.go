// Package hash provides checksum and fingerprint helpers for carved
// artifacts: chainable CRC32 over arbitrary reversed polynomials, the
// 64-bit Jenkins lookup8 hash family found in ESXi kernel structures, and
// xxHash64 content IDs for deduplication.
package hash

import (
	"hash/crc32"
	"sync"
)

// Reversed polynomials for the common CRC32 variants.
const (
	// PolyIEEE is the polynomial used by zlib, gzip and PNG.
	PolyIEEE = crc32.IEEE
	// PolyCastagnoli is the CRC32C polynomial (iSCSI, btrfs, ext4).
	PolyCastagnoli = crc32.Castagnoli
)

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// polyTables caches generated tables for non-standard polynomials.
var polyTables sync.Map // uint32 -> *crc32.Table

func tableFor(polynomial uint32) *crc32.Table {
	switch polynomial {
	case crc32.IEEE:
		return crc32.IEEETable
	case crc32.Castagnoli:
		return castagnoliTable
	}

	if t, ok := polyTables.Load(polynomial); ok {
		return t.(*crc32.Table)
	}

	t, _ := polyTables.LoadOrStore(polynomial, crc32.MakeTable(polynomial))

	return t.(*crc32.Table)
}

// CRC32 returns the IEEE CRC32 of data continued from value. Feeding a
// previous result back in as value chains the checksum across split
// buffers, so CRC32(b, CRC32(a, 0)) equals the checksum of a followed by b.
func CRC32(data []byte, value uint32) uint32 {
	return crc32.Update(value, crc32.IEEETable, data)
}

// CRC32C returns the Castagnoli CRC32 of data continued from value.
func CRC32C(data []byte, value uint32) uint32 {
	return crc32.Update(value, castagnoliTable, data)
}

// CRC32Poly returns the CRC32 of data for the given reversed polynomial,
// continued from value. Tables are generated on first use of a polynomial
// and cached for the life of the process.
func CRC32Poly(data []byte, value uint32, polynomial uint32) uint32 {
	return crc32.Update(value, tableFor(polynomial), data)
}
