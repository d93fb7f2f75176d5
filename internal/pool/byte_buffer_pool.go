// Package pool provides pooled growable byte buffers for the unknown-size
// decode paths, where output length is only known once the stream's own
// terminator is reached.
package pool

import (
	"io"
	"sync"
)

const (
	// DecodeBufferDefaultSize is the initial capacity of buffers handed out
	// by the decode pool. Most compressed blobs found inside artifacts
	// expand to well under this.
	DecodeBufferDefaultSize = 64 * 1024

	// DecodeBufferMaxThreshold is the largest capacity the pool retains.
	// Buffers grown past it by a pathological input are dropped instead of
	// pinned in the pool.
	DecodeBufferMaxThreshold = 8 * 1024 * 1024
)

// ByteBuffer is a growable byte buffer. The underlying slice B is exported
// so decode loops can append to it directly and store the grown slice back.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// CopyBytes returns a freshly allocated copy of the buffer contents.
// Decoders use it to detach results before the buffer goes back to the pool.
func (bb *ByteBuffer) CopyBytes() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// Reset empties the buffer while keeping its capacity for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes in the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the buffer capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures the buffer can hold n more bytes without reallocating.
//
// Small buffers grow by DecodeBufferDefaultSize to limit reallocation churn;
// larger ones grow by a quarter of their capacity to balance memory against
// copy cost.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := DecodeBufferDefaultSize
	if cap(bb.B) > 4*DecodeBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	grown := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(grown, bb.B)
	bb.B = grown
}

// Write appends data to the buffer. It never fails; the error return
// satisfies io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the buffer contents to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool, discarding
// buffers whose capacity grew past maxThreshold.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize
// initial capacity and retaining them up to maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var decodePool = NewByteBufferPool(DecodeBufferDefaultSize, DecodeBufferMaxThreshold)

// GetDecodeBuffer retrieves a ByteBuffer from the shared decode pool.
func GetDecodeBuffer() *ByteBuffer {
	return decodePool.Get()
}

// PutDecodeBuffer returns a ByteBuffer to the shared decode pool.
func PutDecodeBuffer(bb *ByteBuffer) {
	decodePool.Put(bb)
}
