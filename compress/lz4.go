package compress

import (
	"github.com/blockdec/blockdec/lz4"
)

// PortableLZ4 serves LZ4 requests with the pure Go block decoder. It is
// stateless; the zero value is ready to use.
type PortableLZ4 struct{}

var _ LZ4Backend = PortableLZ4{}

// NewPortableLZ4 creates a portable LZ4 backend.
func NewPortableLZ4() PortableLZ4 {
	return PortableLZ4{}
}

func (PortableLZ4) Name() string {
	return "portable-lz4"
}

func (PortableLZ4) Decompress(src []byte, dstLen int) ([]byte, error) {
	return lz4.Decompress(src, dstLen)
}

func (PortableLZ4) DecompressAll(src []byte) ([]byte, error) {
	return lz4.DecompressAll(src)
}
