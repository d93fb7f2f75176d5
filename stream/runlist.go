// Package stream assembles logical byte streams from the fragmented,
// patched or compressed regions met while carving disk images.
//
// Every type implements io.ReaderAt, so random access needs no seeking
// state. Sequential access comes from wrapping with io.NewSectionReader,
// which every type also hands out through its Reader method.
package stream

import (
	"fmt"
	"io"
	"slices"
	"sort"
)

// Run describes one extent of a Runlist in block units.
type Run struct {
	// Offset is the starting block on the backing source. Ignored for
	// sparse runs.
	Offset int64
	// Count is the number of consecutive blocks.
	Count int64
	// Sparse marks a hole that reads as zero bytes without touching the
	// backing source.
	Sparse bool
}

// Runlist presents the blocks described by a list of runs as one
// contiguous stream, the way filesystems store file data as extents.
// The logical size may be smaller than the runs' total to cut slack off
// the final block. Runlist is safe for concurrent use.
type Runlist struct {
	src       io.ReaderAt
	runs      []Run
	starts    []int64 // logical byte offset of each run
	size      int64
	blockSize int64
}

// NewRunlist maps the given runs over src. size is the logical stream
// size in bytes and blockSize the size of one block.
func NewRunlist(src io.ReaderAt, runs []Run, size, blockSize int64) (*Runlist, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %d", blockSize)
	}
	if size < 0 {
		return nil, fmt.Errorf("size must not be negative, got %d", size)
	}

	starts := make([]int64, len(runs))
	var offset int64
	for i, run := range runs {
		if run.Count <= 0 {
			return nil, fmt.Errorf("run %d: block count must be positive, got %d", i, run.Count)
		}
		if !run.Sparse && run.Offset < 0 {
			return nil, fmt.Errorf("run %d: block offset must not be negative, got %d", i, run.Offset)
		}

		starts[i] = offset
		offset += run.Count * blockSize
	}

	return &Runlist{
		src:       src,
		runs:      slices.Clone(runs),
		starts:    starts,
		size:      size,
		blockSize: blockSize,
	}, nil
}

// Size returns the logical size of the stream in bytes.
func (r *Runlist) Size() int64 {
	return r.size
}

// Reader returns a fresh sequential reader over the whole stream.
func (r *Runlist) Reader() *io.SectionReader {
	return io.NewSectionReader(r, 0, r.size)
}

// ReadAt implements io.ReaderAt. Reads that cross run boundaries stitch
// the runs together; reads beyond the mapped runs but within the logical
// size return io.ErrUnexpectedEOF.
func (r *Runlist) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative read offset %d", off)
	}
	if off >= r.size {
		return 0, io.EOF
	}

	eof := false
	if rem := r.size - off; int64(len(p)) > rem {
		p = p[:rem]
		eof = true
	}

	idx := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > off }) - 1

	n := 0
	for n < len(p) {
		if idx >= len(r.runs) {
			return n, io.ErrUnexpectedEOF
		}

		run := r.runs[idx]
		runPos := off - r.starts[idx]
		runRemaining := run.Count*r.blockSize - runPos
		if runRemaining <= 0 {
			// Offset sits past the final run but inside the logical size.
			idx++
			continue
		}
		chunk := min(int64(len(p)-n), runRemaining)

		if run.Sparse {
			clear(p[n : n+int(chunk)])
		} else {
			rn, err := r.src.ReadAt(p[n:n+int(chunk)], run.Offset*r.blockSize+runPos)
			if err != nil {
				return n + rn, err
			}
		}

		n += int(chunk)
		off += chunk
		idx++
	}

	if eof {
		return n, io.EOF
	}

	return n, nil
}
