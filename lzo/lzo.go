// Package lzo implements a portable decoder for raw LZO1X streams.
//
// LZO1X is self-terminating: every stream ends with a reserved end-marker
// opcode, so the decoder can recover the exact compressed extent even when
// the payload is embedded in a larger buffer. That makes DecompressN the
// workhorse for carving filesystem and container formats that splice LZO
// regions back to back without recording their compressed sizes.
//
// The opcode grammar follows the reference lzo1x_decompress implementation.
// The first byte of a stream is irregular: values above 17 encode an
// initial literal run of (value - 17) bytes and must be followed by a match
// opcode, while 17 itself is an ordinary instruction so that a stream
// consisting of just the end marker decodes to empty output.
package lzo

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/blockdec/blockdec/errs"
	"github.com/blockdec/blockdec/internal/backref"
	"github.com/blockdec/blockdec/internal/pool"
)

const (
	// maxRunLength caps zero-chain length accumulation. No legitimate
	// stream encodes a single run anywhere near this large.
	maxRunLength = 1<<31 - 1000

	// endMarkerDist is the reserved long-match distance that terminates a
	// stream instead of copying.
	endMarkerDist = 1 << 14
)

// Decompress decodes an LZO1X stream with a known output size.
//
// Decoding always runs to the stream's end marker. The output is capped at
// dstLen bytes while decoding and must measure exactly dstLen at the
// marker, and the marker must close out src exactly; all violations are
// format errors. Use DecompressN for payloads with trailing data.
//
// Parameters:
//   - src: buffer holding the complete stream, end marker included.
//   - dstLen: the exact decoded size.
//
// Returns:
//   - []byte: the decoded bytes, of length dstLen.
//   - error: an errs.ErrCorruptData-class error describing the failure.
func Decompress(src []byte, dstLen int) ([]byte, error) {
	if dstLen < 0 {
		return nil, fmt.Errorf("%w: negative expected size %d", errs.ErrSizeMismatch, dstLen)
	}

	cur := &sliceSource{buf: src}

	dst, err := decode(cur, make([]byte, 0, dstLen), dstLen)
	if err != nil {
		return nil, err
	}
	if len(dst) != dstLen {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrSizeMismatch, len(dst), dstLen)
	}
	if cur.pos != len(src) {
		return nil, fmt.Errorf("%w: %d trailing bytes after end marker", errs.ErrInvalidStream, len(src)-cur.pos)
	}

	return dst, nil
}

// DecompressN decodes an LZO1X stream of unknown output size from the start
// of src and reports how many input bytes the stream occupied.
//
// Trailing bytes after the end marker are ignored, so src may be a larger
// carve buffer; src[consumed:] is exactly the unread remainder.
//
// Parameters:
//   - src: buffer beginning with a complete stream; may carry trailing data.
//
// Returns:
//   - []byte: the decoded bytes.
//   - int: the number of src bytes consumed, end marker included.
//   - error: an errs.ErrCorruptData-class error describing the failure.
func DecompressN(src []byte) ([]byte, int, error) {
	cur := &sliceSource{buf: src}

	bb := pool.GetDecodeBuffer()
	defer pool.PutDecodeBuffer(bb)

	dst, err := decode(cur, bb.B[:0], -1)
	bb.B = dst
	if err != nil {
		return nil, 0, err
	}

	return bb.CopyBytes(), cur.pos, nil
}

// DecompressStream decodes an LZO1X stream of unknown output size from r,
// reading exactly one byte at a time and stopping at the end marker. The
// reader is left positioned on the byte following the marker, so callers
// can resume parsing an enclosing container directly.
//
// A source that ends before the marker fails with errs.ErrShortRead.
func DecompressStream(r io.ByteReader) ([]byte, error) {
	bb := pool.GetDecodeBuffer()
	defer pool.PutDecodeBuffer(bb)

	dst, err := decode(&readerSource{r: r}, bb.B[:0], -1)
	bb.B = dst
	if err != nil {
		return nil, err
	}

	return bb.CopyBytes(), nil
}

// DecompressWithHeader decodes a stream prefixed with the 5-byte metadata
// header some containers carry: a magic byte (0xF0 or 0xF1) followed by the
// little-endian uint32 decoded size. The payload must decode to exactly
// that size.
func DecompressWithHeader(src []byte) ([]byte, error) {
	if len(src) < 5 {
		return nil, fmt.Errorf("%w: truncated stream header", errs.ErrInputOverrun)
	}
	if src[0] != 0xF0 && src[0] != 0xF1 {
		return nil, fmt.Errorf("%w: bad stream magic 0x%02X", errs.ErrInvalidStream, src[0])
	}

	return Decompress(src[5:], int(binary.LittleEndian.Uint32(src[1:5])))
}

// decode runs the opcode loop against src, appending to dst until the end
// marker. limit caps the output size; negative means unbounded. The match
// branches mirror the reference decoder: the opcode's leading bits select
// the encoding family, and most families fold the next opcode's trailing
// literal count into their low two bits.
func decode(src byteSource, dst []byte, limit int) ([]byte, error) {
	val, err := src.next()
	if err != nil {
		return dst, err
	}

	if val > 17 {
		run := int(val) - 17
		if dst, err = appendLiterals(src, dst, run, limit); err != nil {
			return dst, err
		}
		if val, err = src.next(); err != nil {
			return dst, err
		}
		if val < 16 {
			return dst, fmt.Errorf("%w: opcode 0x%02X after initial literal run", errs.ErrInvalidStream, val)
		}
	}

	state := 0

loop:
	for {
		var length, dist int

		switch {
		case val > 63:
			// 2-byte op: 3-8 byte match within 2kB.
			length = int(val>>5) - 1
			b, err := src.next()
			if err != nil {
				return dst, err
			}
			dist = (int(b) << 3) + ((int(val) >> 2) & 7) + 1

		case val > 31:
			// Match within 16kB, length extensible.
			if length, err = extendLength(src, int(val), 31); err != nil {
				return dst, err
			}
			b1, b2, err := next2(src)
			if err != nil {
				return dst, err
			}
			val = b1
			dist = (int(b2) << 6) + (int(val) >> 2) + 1

		case val > 15:
			// Match within 16kB-48kB, or the end marker.
			if length, err = extendLength(src, int(val), 7); err != nil {
				return dst, err
			}
			dist = endMarkerDist + ((int(val) & 8) << 11)
			b1, b2, err := next2(src)
			if err != nil {
				return dst, err
			}
			val = b1
			dist += (int(b2) << 6) + (int(val) >> 2)
			if dist == endMarkerDist {
				if length != 1 {
					return dst, fmt.Errorf("%w: malformed end marker", errs.ErrInvalidStream)
				}

				break loop
			}

		case state == 0:
			// Literal run of at least 4 bytes, then either the next
			// opcode or an implied short match within 2-3kB.
			if length, err = extendLength(src, int(val), 15); err != nil {
				return dst, err
			}
			if dst, err = appendLiterals(src, dst, length+3, limit); err != nil {
				return dst, err
			}
			if val, err = src.next(); err != nil {
				return dst, err
			}
			if val > 15 {
				continue
			}
			length = 1
			b, err := src.next()
			if err != nil {
				return dst, err
			}
			dist = (1 << 11) + (int(b) << 2) + (int(val) >> 2) + 1

		default:
			// Short match within 1kB, only legal right after an op that
			// carried trailing literals.
			length = 0
			b, err := src.next()
			if err != nil {
				return dst, err
			}
			dist = (int(b) << 2) + (int(val) >> 2) + 1
		}

		if limit >= 0 && length+2 > limit-len(dst) {
			return dst, fmt.Errorf("%w: match of %d at offset %d", errs.ErrOutputOverrun, length+2, len(dst))
		}
		if dst, err = backref.Append(dst, dist, length+2); err != nil {
			return dst, fmt.Errorf("match at offset %d: %w", len(dst), err)
		}

		state = int(val) & 3
		if state > 0 {
			if dst, err = appendLiterals(src, dst, state, limit); err != nil {
				return dst, err
			}
		}

		if val, err = src.next(); err != nil {
			return dst, err
		}
	}

	return dst, nil
}

// appendLiterals copies n raw input bytes through to the output, honoring
// the output cap.
func appendLiterals(src byteSource, dst []byte, n, limit int) ([]byte, error) {
	if limit >= 0 && n > limit-len(dst) {
		return dst, fmt.Errorf("%w: literal run of %d at offset %d", errs.ErrOutputOverrun, n, len(dst))
	}

	lit, err := src.take(n)
	if err != nil {
		return dst, err
	}

	return append(dst, lit...), nil
}

// extendLength decodes the run-length scheme shared by the literal and long
// match opcodes: a non-zero masked value stands alone, a zero accumulates
// 255 per zero continuation byte until a non-zero byte closes the run.
func extendLength(src byteSource, val, mask int) (int, error) {
	length := val & mask
	if length != 0 {
		return length, nil
	}

	for {
		b, err := src.next()
		if err != nil {
			return 0, err
		}
		if b != 0 {
			return length + mask + int(b), nil
		}
		if length >= maxRunLength {
			return 0, fmt.Errorf("%w: unterminated length extension", errs.ErrLengthOverflow)
		}
		length += 255
	}
}
