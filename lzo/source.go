package lzo

import (
	"fmt"
	"io"

	"github.com/blockdec/blockdec/errs"
)

// byteSource supplies the opcode stream one byte at a time. The two
// implementations classify premature end differently: a fixed buffer that
// runs out is corrupt input, while a reader that runs out is a short read
// of an otherwise unknown source.
type byteSource interface {
	next() (byte, error)
	take(n int) ([]byte, error)
}

// sliceSource cursors over a fixed buffer; pos doubles as the consumed
// count once decoding stops.
type sliceSource struct {
	buf []byte
	pos int
}

func (s *sliceSource) next() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, fmt.Errorf("%w: opcode stream truncated at %d", errs.ErrInputOverrun, s.pos)
	}

	b := s.buf[s.pos]
	s.pos++

	return b, nil
}

func (s *sliceSource) take(n int) ([]byte, error) {
	if n > len(s.buf)-s.pos {
		return nil, fmt.Errorf("%w: literal run of %d exceeds input", errs.ErrInputOverrun, n)
	}

	view := s.buf[s.pos : s.pos+n]
	s.pos += n

	return view, nil
}

// readerSource adapts an io.ByteReader. It never reads ahead of what the
// decoder asked for, which is what lets DecompressStream leave the reader
// positioned right after the end marker.
type readerSource struct {
	r       io.ByteReader
	scratch []byte
}

func (s *readerSource) next() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrShortRead, err)
	}

	return b, nil
}

func (s *readerSource) take(n int) ([]byte, error) {
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}

	buf := s.scratch[:n]
	for i := range buf {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: literal run cut short: %w", errs.ErrShortRead, err)
		}
		buf[i] = b
	}

	return buf, nil
}

// next2 reads the two-byte tail shared by the wide-distance match opcodes.
func next2(src byteSource) (byte, byte, error) {
	b1, err := src.next()
	if err != nil {
		return 0, 0, err
	}

	b2, err := src.next()
	if err != nil {
		return 0, 0, err
	}

	return b1, b2, nil
}
