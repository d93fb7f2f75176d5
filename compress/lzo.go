package compress

import (
	"io"

	"github.com/blockdec/blockdec/lzo"
)

// PortableLZO serves LZO1X requests with the pure Go decoder. It is
// stateless; the zero value is ready to use.
type PortableLZO struct{}

var _ LZOBackend = PortableLZO{}

// NewPortableLZO creates a portable LZO backend.
func NewPortableLZO() PortableLZO {
	return PortableLZO{}
}

func (PortableLZO) Name() string {
	return "portable-lzo"
}

func (PortableLZO) Decompress(src []byte, dstLen int) ([]byte, error) {
	return lzo.Decompress(src, dstLen)
}

func (PortableLZO) DecompressN(src []byte) ([]byte, int, error) {
	return lzo.DecompressN(src)
}

func (PortableLZO) DecompressStream(r io.ByteReader) ([]byte, error) {
	return lzo.DecompressStream(r)
}
