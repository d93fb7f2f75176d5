package stream

import (
	"fmt"
	"io"
	"slices"
	"sort"
)

type overlay struct {
	off  int64
	data []byte
}

// Overlay patches byte ranges over a backing source without copying it,
// which keeps fixups over large images cheap. Overlays must not overlap.
//
// Add all overlays before reading: Add is not safe to call concurrently
// with ReadAt, but a fully configured Overlay is safe for concurrent
// reads.
type Overlay struct {
	src      io.ReaderAt
	size     int64
	overlays []overlay // sorted by offset
}

// NewOverlay wraps src with the given logical size. Reads clamp to size
// even when an overlay extends past it.
func NewOverlay(src io.ReaderAt, size int64) (*Overlay, error) {
	if size < 0 {
		return nil, fmt.Errorf("size must not be negative, got %d", size)
	}

	return &Overlay{src: src, size: size}, nil
}

// Add patches data over the range starting at off. Adding an empty
// overlay is a no-op; adding one that overlaps an existing overlay is an
// error. The data is copied.
func (o *Overlay) Add(off int64, data []byte) error {
	if off < 0 {
		return fmt.Errorf("overlay offset must not be negative, got %d", off)
	}
	if len(data) == 0 {
		return nil
	}

	end := off + int64(len(data))
	for _, ov := range o.overlays {
		if ov.off < end && off < ov.off+int64(len(ov.data)) {
			return fmt.Errorf("overlay [%d, %d) overlaps existing overlay [%d, %d)",
				off, end, ov.off, ov.off+int64(len(ov.data)))
		}
	}

	idx := sort.Search(len(o.overlays), func(i int) bool { return o.overlays[i].off > off })
	o.overlays = slices.Insert(o.overlays, idx, overlay{off: off, data: slices.Clone(data)})

	return nil
}

// Size returns the logical size of the stream in bytes.
func (o *Overlay) Size() int64 {
	return o.size
}

// Reader returns a fresh sequential reader over the whole stream.
func (o *Overlay) Reader() *io.SectionReader {
	return io.NewSectionReader(o, 0, o.size)
}

// ReadAt implements io.ReaderAt, serving overlaid ranges from their
// patch data and everything else from the backing source.
func (o *Overlay) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative read offset %d", off)
	}
	if off >= o.size {
		return 0, io.EOF
	}

	eof := false
	if rem := o.size - off; int64(len(p)) > rem {
		p = p[:rem]
		eof = true
	}

	idx := sort.Search(len(o.overlays), func(i int) bool { return o.overlays[i].off > off })

	n := 0
	for n < len(p) {
		for idx < len(o.overlays) && o.overlays[idx].off <= off {
			idx++
		}

		if idx > 0 {
			prev := o.overlays[idx-1]
			if end := prev.off + int64(len(prev.data)); off < end {
				chunk := min(int64(len(p)-n), end-off)
				copy(p[n:n+int(chunk)], prev.data[off-prev.off:])
				n += int(chunk)
				off += chunk

				continue
			}
		}

		chunk := int64(len(p) - n)
		if idx < len(o.overlays) {
			chunk = min(chunk, o.overlays[idx].off-off)
		}

		rn, err := o.src.ReadAt(p[n:n+int(chunk)], off)
		n += rn
		off += int64(rn)
		if err != nil {
			return n, err
		}
	}

	if eof {
		return n, io.EOF
	}

	return n, nil
}
