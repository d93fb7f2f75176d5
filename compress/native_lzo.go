//go:build !purego

package compress

import (
	"bytes"
	"fmt"
	"io"

	rasky "github.com/rasky/go-lzo"

	"github.com/blockdec/blockdec/errs"
)

func init() {
	nativeLZOBackend = raskyLZO{}
}

// raskyLZO binds the ported minilzo decoder for known-size streams. The
// binding buffers its reader internally and cannot say where a stream
// ended, so the operations that promise a consumed count or a positioned
// reader refuse native service rather than guess; the registry routes those
// to the portable decoder under auto mode.
type raskyLZO struct{}

var _ LZOBackend = raskyLZO{}

func (raskyLZO) Name() string {
	return "rasky-lzo"
}

func (raskyLZO) Decompress(src []byte, dstLen int) ([]byte, error) {
	if dstLen < 0 {
		return nil, fmt.Errorf("%w: negative expected size %d", errs.ErrSizeMismatch, dstLen)
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", errs.ErrInputOverrun)
	}

	out, err := rasky.Decompress1X(bytes.NewReader(src), len(src), dstLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
	}
	if len(out) != dstLen {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrSizeMismatch, len(out), dstLen)
	}

	return out, nil
}

func (raskyLZO) DecompressN(src []byte) ([]byte, int, error) {
	return nil, 0, fmt.Errorf("%w: consumed-count reporting requires the portable decoder", errs.ErrNativeUnavailable)
}

func (raskyLZO) DecompressStream(r io.ByteReader) ([]byte, error) {
	return nil, fmt.Errorf("%w: positioned reads require the portable decoder", errs.ErrNativeUnavailable)
}
