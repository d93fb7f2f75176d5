//go:build !purego

package compress

import (
	"errors"
	"fmt"

	pierrec "github.com/pierrec/lz4/v4"

	"github.com/blockdec/blockdec/errs"
)

func init() {
	nativeLZ4Backend = pierrecLZ4{}
}

// pierrecLZ4 binds the accelerated block decoder. The wrapper normalizes
// the binding's edge cases so it stays drop-in interchangeable with the
// portable decoder: empty input is rejected up front, the decoded size is
// checked against the expectation, and failures surface under the shared
// error taxonomy.
type pierrecLZ4 struct{}

var _ LZ4Backend = pierrecLZ4{}

func (pierrecLZ4) Name() string {
	return "pierrec-lz4"
}

func (pierrecLZ4) Decompress(src []byte, dstLen int) ([]byte, error) {
	if dstLen < 0 {
		return nil, fmt.Errorf("%w: negative expected size %d", errs.ErrSizeMismatch, dstLen)
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", errs.ErrInputOverrun)
	}

	dst := make([]byte, dstLen)

	n, err := pierrec.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
	}
	if n != dstLen {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrSizeMismatch, n, dstLen)
	}

	return dst, nil
}

// DecompressAll discovers the output size by retrying with doubled buffers.
// The binding reports a too-small destination as a distinct error value, so
// the loop grows until the block fits or the size exceeds what any valid
// block could expand to.
func (pierrecLZ4) DecompressAll(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", errs.ErrInputOverrun)
	}

	maxSize := maxBlockExpansion(len(src))

	for bufSize := len(src) * 4; ; bufSize *= 2 {
		if bufSize > maxSize {
			bufSize = maxSize
		}

		dst := make([]byte, bufSize)

		n, err := pierrec.UncompressBlock(src, dst)
		if err == nil {
			return dst[:n], nil
		}
		if !errors.Is(err, pierrec.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
		}
		if bufSize == maxSize {
			return nil, fmt.Errorf("%w: output exceeds maximum block expansion", errs.ErrLengthOverflow)
		}
	}
}

// maxBlockExpansion bounds how large a block's output can legitimately get:
// each length-extension byte accounts for at most 255 output bytes.
func maxBlockExpansion(n int) int {
	const hardCap = 1 << 30
	if n >= hardCap/255 {
		return hardCap
	}

	return n*255 + 64
}
