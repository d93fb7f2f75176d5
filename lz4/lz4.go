// Package lz4 implements a portable decoder for raw LZ4 block data.
//
// A block is header-less: there is no frame magic, no checksum and no
// embedded output size. The caller either knows the decoded size up front
// (Decompress) or lets the decoder run until the input is exhausted
// (DecompressAll). Inputs produced by any conformant LZ4 block encoder are
// accepted; the decoder never writes beyond the expected output size and
// never reads back-references before the start of the output.
//
// The package is deliberately free of third-party imports. It is the
// fallback implementation the backend registry uses when the native binding
// is not compiled in, and the reference for cross-validating that binding.
package lz4

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/blockdec/blockdec/errs"
	"github.com/blockdec/blockdec/internal/backref"
	"github.com/blockdec/blockdec/internal/pool"
)

const (
	// minMatch is the implicit minimum back-reference length; the wire
	// format stores match lengths with this offset subtracted.
	minMatch = 4

	// lengthExt in a token nibble signals that continuation bytes follow,
	// each adding its value to the run length until a byte below 0xFF.
	lengthExt = 0xF

	// maxRunLength caps extension-encoded lengths. No legitimate block
	// encodes a single run anywhere near this large.
	maxRunLength = 1<<31 - 1000
)

// Decompress decodes a raw LZ4 block with a known output size.
//
// The output buffer is preallocated to exactly dstLen bytes and the decoded
// stream must fill it exactly: a literal run or match that would overflow
// it, or a stream that ends short of it, fails with a format error. The
// input must be fully consumed.
//
// Parameters:
//   - src: the complete compressed block.
//   - dstLen: the exact decoded size.
//
// Returns:
//   - []byte: the decoded bytes, of length dstLen.
//   - error: an errs.ErrCorruptData-class error describing the failure.
func Decompress(src []byte, dstLen int) ([]byte, error) {
	if dstLen < 0 {
		return nil, fmt.Errorf("%w: negative expected size %d", errs.ErrSizeMismatch, dstLen)
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", errs.ErrInputOverrun)
	}

	dst := make([]byte, dstLen)

	var inPos, outPos int
	for inPos < len(src) {
		token := src[inPos]
		inPos++

		litLen, next, err := readLength(src, inPos, int(token>>4))
		if err != nil {
			return nil, fmt.Errorf("literal length: %w", err)
		}
		inPos = next

		if litLen > 0 {
			if litLen > len(src)-inPos {
				return nil, fmt.Errorf("%w: literal run of %d exceeds input", errs.ErrInputOverrun, litLen)
			}
			if litLen > dstLen-outPos {
				return nil, fmt.Errorf("%w: literal run of %d at offset %d", errs.ErrOutputOverrun, litLen, outPos)
			}
			copy(dst[outPos:], src[inPos:inPos+litLen])
			inPos += litLen
			outPos += litLen
		}

		dist, matchLen, next, err := readMatch(src, inPos, token)
		if err != nil {
			return nil, err
		}
		if next < 0 {
			break // legal literal-only tail
		}
		inPos = next

		if err := backref.Copy(dst, outPos, dist, matchLen); err != nil {
			return nil, fmt.Errorf("match at offset %d: %w", outPos, err)
		}
		outPos += matchLen
	}

	if outPos != dstLen {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrSizeMismatch, outPos, dstLen)
	}

	return dst, nil
}

// DecompressAll decodes a raw LZ4 block of unknown output size, consuming
// the input until exhausted and growing the output as the stream dictates.
//
// Parameters:
//   - src: the complete compressed block.
//
// Returns:
//   - []byte: the decoded bytes.
//   - error: an errs.ErrCorruptData-class error describing the failure.
func DecompressAll(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", errs.ErrInputOverrun)
	}

	bb := pool.GetDecodeBuffer()
	defer pool.PutDecodeBuffer(bb)

	dst := bb.B[:0]

	inPos := 0
	for inPos < len(src) {
		token := src[inPos]
		inPos++

		litLen, next, err := readLength(src, inPos, int(token>>4))
		if err != nil {
			bb.B = dst
			return nil, fmt.Errorf("literal length: %w", err)
		}
		inPos = next

		if litLen > 0 {
			if litLen > len(src)-inPos {
				bb.B = dst
				return nil, fmt.Errorf("%w: literal run of %d exceeds input", errs.ErrInputOverrun, litLen)
			}
			dst = append(dst, src[inPos:inPos+litLen]...)
			inPos += litLen
		}

		dist, matchLen, next, err := readMatch(src, inPos, token)
		if err != nil {
			bb.B = dst
			return nil, err
		}
		if next < 0 {
			break
		}
		inPos = next

		dst, err = backref.Append(dst, dist, matchLen)
		if err != nil {
			bb.B = dst
			return nil, fmt.Errorf("match at offset %d: %w", len(dst), err)
		}
	}

	bb.B = dst

	return bb.CopyBytes(), nil
}

// DecompressReader slurps r and decodes it as a raw LZ4 block with a known
// output size. It is a convenience wrapper with no decode logic of its own;
// read failures surface as errs.ErrShortRead.
func DecompressReader(r io.Reader, dstLen int) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrShortRead, err)
	}

	return Decompress(src, dstLen)
}

// readMatch decodes the back-reference that follows a literal run: a 2-byte
// little-endian distance and the token's low-nibble length with extension
// bytes, plus the fixed minimum. A stream may legally end right after a
// literal run; that case returns next < 0 with no error. A single dangling
// byte, or stream end under a token whose match nibble is set, is a format
// error.
func readMatch(src []byte, pos int, token byte) (dist, matchLen, next int, err error) {
	switch len(src) - pos {
	case 0:
		if token&0x0F != 0 {
			return 0, 0, 0, fmt.Errorf("%w: stream ends with a pending match", errs.ErrInputOverrun)
		}

		return 0, 0, -1, nil
	case 1:
		return 0, 0, 0, fmt.Errorf("%w: truncated match distance", errs.ErrInputOverrun)
	}

	dist = int(binary.LittleEndian.Uint16(src[pos : pos+2]))
	pos += 2
	if dist == 0 {
		return 0, 0, 0, fmt.Errorf("%w: zero match distance", errs.ErrInvalidStream)
	}

	matchLen, pos, err = readLength(src, pos, int(token&0x0F))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("match length: %w", err)
	}

	return dist, matchLen + minMatch, pos, nil
}

// readLength decodes the shared run-length scheme: nibble values below 15
// stand alone; 15 accumulates continuation bytes, each adding its value,
// until a byte below 0xFF ends the run.
func readLength(src []byte, pos, nibble int) (length, next int, err error) {
	length = nibble
	if nibble != lengthExt {
		return length, pos, nil
	}

	for {
		if pos >= len(src) {
			return 0, 0, errs.ErrInputOverrun
		}

		b := src[pos]
		pos++
		length += int(b)
		if length > maxRunLength {
			return 0, 0, errs.ErrLengthOverflow
		}
		if b != 0xFF {
			return length, pos, nil
		}
	}
}
