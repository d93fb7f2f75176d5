package lzo

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	rasky "github.com/rasky/go-lzo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockdec/blockdec/errs"
)

// zeroBlock decodes to 512 zero bytes: an initial one-byte literal run, a
// length-extended match at distance 1, and the end marker.
var zeroBlock = []byte{0x12, 0x00, 0x20, 0x00, 0xDF, 0x00, 0x00, 0x11, 0x00, 0x00}

// endMarkerOnly is the shortest valid stream.
var endMarkerOnly = []byte{0x11, 0x00, 0x00}

func TestDecompress(t *testing.T) {
	tests := []struct {
		name   string
		src    []byte
		dstLen int
		want   []byte
	}{
		{
			name:   "end marker only",
			src:    endMarkerOnly,
			dstLen: 0,
			want:   []byte{},
		},
		{
			name:   "zero page",
			src:    zeroBlock,
			dstLen: 512,
			want:   make([]byte, 512),
		},
		{
			name:   "plain literal run",
			src:    []byte{0x01, 'a', 'b', 'c', 'd', 0x11, 0x00, 0x00},
			dstLen: 4,
			want:   []byte("abcd"),
		},
		{
			name:   "short initial run",
			src:    []byte{0x13, 'a', 'b', 0x11, 0x00, 0x00},
			dstLen: 2,
			want:   []byte("ab"),
		},
		{
			name:   "overlapping short match",
			src:    []byte{0x13, 'a', 'b', 0x44, 0x00, 0x11, 0x00, 0x00},
			dstLen: 5,
			want:   []byte("ababa"),
		},
		{
			name:   "trailing literals drive next opcode",
			src:    []byte{0x13, 'a', 'b', 0x46, 0x00, 'x', 'y', 0x04, 0x00, 0x11, 0x00, 0x00},
			dstLen: 9,
			want:   []byte("ababaxyxy"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompress(tt.src, tt.dstLen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecompress_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     []byte
		dstLen  int
		wantErr error
	}{
		{
			name:    "empty input",
			src:     nil,
			dstLen:  0,
			wantErr: errs.ErrInputOverrun,
		},
		{
			name:    "negative size",
			src:     endMarkerOnly,
			dstLen:  -1,
			wantErr: errs.ErrSizeMismatch,
		},
		{
			name:    "truncated literal run",
			src:     []byte{0x01, 'a', 'b'},
			dstLen:  4,
			wantErr: errs.ErrInputOverrun,
		},
		{
			name:    "truncated mid opcode",
			src:     []byte{0x01, 'a', 'b', 'c', 'd', 0x44},
			dstLen:  8,
			wantErr: errs.ErrInputOverrun,
		},
		{
			name:    "missing end marker",
			src:     []byte{0x13, 'a', 'b', 0x44, 0x00},
			dstLen:  5,
			wantErr: errs.ErrInputOverrun,
		},
		{
			name:    "match before any output",
			src:     []byte{0x21, 0x00, 0x00},
			dstLen:  3,
			wantErr: errs.ErrLookBehindUnderrun,
		},
		{
			name:    "invalid opcode after initial run",
			src:     []byte{0x13, 'a', 'b', 0x05, 0x00},
			dstLen:  4,
			wantErr: errs.ErrInvalidStream,
		},
		{
			name:    "malformed end marker length",
			src:     []byte{0x01, 'a', 'b', 'c', 'd', 0x12, 0x00, 0x00},
			dstLen:  4,
			wantErr: errs.ErrInvalidStream,
		},
		{
			name:    "output smaller than stream",
			src:     []byte{0x01, 'a', 'b', 'c', 'd', 0x11, 0x00, 0x00},
			dstLen:  3,
			wantErr: errs.ErrOutputOverrun,
		},
		{
			name:    "output larger than stream",
			src:     []byte{0x01, 'a', 'b', 'c', 'd', 0x11, 0x00, 0x00},
			dstLen:  5,
			wantErr: errs.ErrSizeMismatch,
		},
		{
			name:    "trailing bytes after end marker",
			src:     []byte{0x01, 'a', 'b', 'c', 'd', 0x11, 0x00, 0x00, 0xFF},
			dstLen:  4,
			wantErr: errs.ErrInvalidStream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompress(tt.src, tt.dstLen)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, errs.ErrCorruptData)
			assert.Nil(t, got)
		})
	}
}

func TestDecompress_LengthExtensionCap(t *testing.T) {
	// A literal run whose zero-extension chain accumulates past the cap;
	// no legitimate stream gets anywhere near it.
	src := append([]byte{0x00}, bytes.Repeat([]byte{0x00}, maxRunLength/255+2)...)

	_, err := Decompress(src, 64)
	require.ErrorIs(t, err, errs.ErrLengthOverflow)
	require.ErrorIs(t, err, errs.ErrCorruptData)
}

func TestDecompressN(t *testing.T) {
	t.Run("end marker only consumes exactly the marker", func(t *testing.T) {
		got, consumed, err := DecompressN(endMarkerOnly)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, len(endMarkerOnly), consumed)
	})

	t.Run("stops at end marker inside carve buffer", func(t *testing.T) {
		trailer := []byte{0xAA, 0xBB, 0xCC, 0xDD}
		buf := append(append([]byte{}, zeroBlock...), trailer...)

		got, consumed, err := DecompressN(buf)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 512), got)
		assert.Equal(t, len(zeroBlock), consumed)
		assert.Equal(t, trailer, buf[consumed:])
	})

	t.Run("propagates format errors", func(t *testing.T) {
		_, _, err := DecompressN([]byte{0x21, 0x00, 0x00})
		require.ErrorIs(t, err, errs.ErrLookBehindUnderrun)
	})
}

func TestDecompressStream(t *testing.T) {
	t.Run("leaves reader after end marker", func(t *testing.T) {
		trailer := []byte{0x10, 0x20, 0x30}
		r := bytes.NewReader(append(append([]byte{}, zeroBlock...), trailer...))

		got, err := DecompressStream(r)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 512), got)

		rest := make([]byte, r.Len())
		_, err = r.Read(rest)
		require.NoError(t, err)
		assert.Equal(t, trailer, rest)
	})

	t.Run("short source", func(t *testing.T) {
		r := bytes.NewReader([]byte{0x01, 'a', 'b'})

		_, err := DecompressStream(r)
		require.ErrorIs(t, err, errs.ErrShortRead)
		require.NotErrorIs(t, err, errs.ErrCorruptData)
	})

	t.Run("corrupt stream is still a format error", func(t *testing.T) {
		r := bytes.NewReader([]byte{0x21, 0x00, 0x00})

		_, err := DecompressStream(r)
		require.ErrorIs(t, err, errs.ErrCorruptData)
	})
}

func TestDecompressWithHeader(t *testing.T) {
	payload := []byte{0x01, 'a', 'b', 'c', 'd', 0x11, 0x00, 0x00}

	header := func(magic byte, size uint32) []byte {
		buf := []byte{magic, byte(size), byte(size >> 8), byte(size >> 16), byte(size >> 24)}

		return append(buf, payload...)
	}

	t.Run("valid header", func(t *testing.T) {
		got, err := DecompressWithHeader(header(0xF0, 4))
		require.NoError(t, err)
		assert.Equal(t, []byte("abcd"), got)
	})

	t.Run("alternate magic", func(t *testing.T) {
		got, err := DecompressWithHeader(header(0xF1, 4))
		require.NoError(t, err)
		assert.Equal(t, []byte("abcd"), got)
	})

	t.Run("bad magic", func(t *testing.T) {
		_, err := DecompressWithHeader(header(0xF2, 4))
		require.ErrorIs(t, err, errs.ErrInvalidStream)
	})

	t.Run("size disagrees with stream", func(t *testing.T) {
		_, err := DecompressWithHeader(header(0xF0, 6))
		require.ErrorIs(t, err, errs.ErrSizeMismatch)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := DecompressWithHeader([]byte{0xF0, 0x04})
		require.ErrorIs(t, err, errs.ErrInputOverrun)
	})
}

func TestDecompress_RoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	random := make([]byte, 8192)
	_, _ = rnd.Read(random)

	tests := []struct {
		name  string
		plain []byte
	}{
		{name: "repeated phrase", plain: []byte(strings.Repeat("carve early, carve often. ", 128))},
		{name: "zero page", plain: make([]byte, 4096)},
		{name: "single byte", plain: []byte{0x42}},
		{name: "short text", plain: []byte("abc")},
		{name: "incompressible", plain: random},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := rasky.Compress1X(tt.plain)

			got, err := Decompress(comp, len(tt.plain))
			require.NoError(t, err)
			assert.Equal(t, tt.plain, got)

			all, consumed, err := DecompressN(comp)
			require.NoError(t, err)
			assert.Equal(t, tt.plain, all)
			assert.Equal(t, len(comp), consumed)

			streamed, err := DecompressStream(bytes.NewReader(comp))
			require.NoError(t, err)
			assert.Equal(t, tt.plain, streamed)
		})
	}
}
