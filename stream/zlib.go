package stream

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Zlib provides random access over a raw zlib stream. Deflate streams
// cannot be entered mid-way, so reads behind the current inflate position
// rewind and re-inflate from the start; forward reads only inflate the
// gap. Sequential access is therefore cheap and random access works but
// costs re-inflation.
//
// A mutex serializes access, so Zlib is safe for concurrent use.
type Zlib struct {
	mu   sync.Mutex
	src  io.ReaderAt
	size int64
	zr   io.ReadCloser
	pos  int64 // decompressed offset the inflater sits at
}

// NewZlib wraps the raw zlib stream read from src. size is the
// decompressed size, or -1 when unknown; with an unknown size reads run
// until the deflate stream ends. The zlib header is validated here.
func NewZlib(src io.ReaderAt, size int64) (*Zlib, error) {
	if size < -1 {
		return nil, fmt.Errorf("size must be -1 or non-negative, got %d", size)
	}

	z := &Zlib{src: src, size: size}
	if err := z.rewind(); err != nil {
		return nil, err
	}

	return z, nil
}

// Size returns the decompressed size, or -1 when it was not given.
func (z *Zlib) Size() int64 {
	return z.size
}

// Reader returns a fresh sequential reader. With an unknown size the
// reader runs until the deflate stream ends.
func (z *Zlib) Reader() *io.SectionReader {
	size := z.size
	if size < 0 {
		size = math.MaxInt64
	}

	return io.NewSectionReader(z, 0, size)
}

func (z *Zlib) rewind() error {
	raw := io.NewSectionReader(z.src, 0, math.MaxInt64)

	if z.zr == nil {
		zr, err := zlib.NewReader(raw)
		if err != nil {
			return err
		}
		z.zr = zr
	} else if err := z.zr.(zlib.Resetter).Reset(raw, nil); err != nil {
		return err
	}

	z.pos = 0

	return nil
}

// ReadAt implements io.ReaderAt.
func (z *Zlib) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative read offset %d", off)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	eof := false
	if z.size >= 0 {
		if off >= z.size {
			return 0, io.EOF
		}
		if rem := z.size - off; int64(len(p)) > rem {
			p = p[:rem]
			eof = true
		}
	}

	if off < z.pos {
		if err := z.rewind(); err != nil {
			return 0, err
		}
	}
	if off > z.pos {
		skipped, err := io.CopyN(io.Discard, z.zr, off-z.pos)
		z.pos += skipped
		if err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}

			return 0, err
		}
	}

	n, err := io.ReadFull(z.zr, p)
	z.pos += int64(n)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if eof && err == nil {
		err = io.EOF
	}

	return n, err
}
