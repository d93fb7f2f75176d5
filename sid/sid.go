// Package sid renders binary Windows security identifiers as
// S-R-A-S1-S2 strings.
//
// The on-disk layout is:
//
//	typedef struct _SID {
//	    BYTE  Revision;
//	    BYTE  SubAuthorityCount;
//	    CHAR  IdentifierAuthority[6];
//	    DWORD SubAuthority[SubAuthorityCount];
//	} SID;
//
// The identifier authority is always big-endian. Sub-authorities are
// little-endian in registry values and security descriptors, but other
// stores flip some or all of them, which ParseEndian covers.
package sid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// headerLen covers the revision, the sub-authority count and the 48-bit
// identifier authority.
const headerLen = 8

// ErrTruncated indicates the buffer ends before the encoded SID does.
var ErrTruncated = errors.New("truncated sid")

// Parse renders a binary SID with little-endian sub-authorities, the
// common on-disk layout.
func Parse(data []byte) (string, error) {
	return ParseEndian(data, binary.LittleEndian, false)
}

// ParseEndian renders a binary SID with the given sub-authority byte
// order. Some stores, such as Active Directory replication metadata,
// keep the final sub-authority in the opposite byte order from the
// rest; swapLast handles that layout.
func ParseEndian(data []byte, order binary.ByteOrder, swapLast bool) (string, error) {
	if len(data) < headerLen {
		return "", fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, headerLen, len(data))
	}

	revision := data[0]
	count := int(data[1])
	authority := uint64(binary.BigEndian.Uint16(data[2:4]))<<32 | uint64(binary.BigEndian.Uint32(data[4:8]))

	need := headerLen + 4*count
	if len(data) < need {
		return "", fmt.Errorf("%w: %d sub-authorities need %d bytes, have %d", ErrTruncated, count, need, len(data))
	}

	var sb strings.Builder
	sb.WriteString("S-")
	sb.WriteString(strconv.FormatUint(uint64(revision), 10))
	sb.WriteByte('-')
	if authority < 1<<32 {
		sb.WriteString(strconv.FormatUint(authority, 10))
	} else {
		// Authorities above 32 bits render as hex per MS-DTYP.
		fmt.Fprintf(&sb, "0x%012X", authority)
	}

	for i := range count {
		sub := order.Uint32(data[headerLen+4*i:])
		if swapLast && i == count-1 {
			sub = bits.ReverseBytes32(sub)
		}
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatUint(uint64(sub), 10))
	}

	return sb.String(), nil
}
