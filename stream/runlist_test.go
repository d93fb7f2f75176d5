package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bandedBacking() *bytes.Reader {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0x01}, 512))
	buf.Write(bytes.Repeat([]byte{0x02}, 512))
	buf.Write(bytes.Repeat([]byte{0x03}, 512))

	return bytes.NewReader(buf.Bytes())
}

func TestRunlist(t *testing.T) {
	rl, err := NewRunlist(bandedBacking(), []Run{
		{Offset: 0, Count: 32},
		{Offset: 32, Count: 16},
		{Offset: 48, Count: 48},
	}, 1536, 16)
	require.NoError(t, err)
	require.Equal(t, int64(1536), rl.Size())

	t.Run("sequential reads stitch runs", func(t *testing.T) {
		r := rl.Reader()

		head := make([]byte, 32)
		_, err := io.ReadFull(r, head)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{0x01}, 32), head)

		next := make([]byte, 512)
		_, err = io.ReadFull(r, next)
		require.NoError(t, err)
		assert.Equal(t, append(bytes.Repeat([]byte{0x01}, 480), bytes.Repeat([]byte{0x02}, 32)...), next)
	})

	t.Run("read at the tail", func(t *testing.T) {
		got := make([]byte, 768)
		n, err := rl.ReadAt(got, 1536-768)
		require.NoError(t, err)
		require.Equal(t, 768, n)
		assert.Equal(t, append(bytes.Repeat([]byte{0x02}, 256), bytes.Repeat([]byte{0x03}, 512)...), got)
	})

	t.Run("single read across every run", func(t *testing.T) {
		whole := make([]byte, 1536)
		n, err := rl.ReadAt(whole, 0)
		require.NoError(t, err)
		require.Equal(t, 1536, n)

		streamed, err := io.ReadAll(rl.Reader())
		require.NoError(t, err)
		assert.Equal(t, streamed, whole)
	})

	t.Run("eof past the size", func(t *testing.T) {
		n, err := rl.ReadAt(make([]byte, 1), 1536)
		assert.Zero(t, n)
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestRunlist_ReordersBlocks(t *testing.T) {
	backing := bytes.NewReader([]byte("aaaabbbbcccc"))

	rl, err := NewRunlist(backing, []Run{
		{Offset: 2, Count: 1},
		{Offset: 0, Count: 1},
	}, 8, 4)
	require.NoError(t, err)

	got, err := io.ReadAll(rl.Reader())
	require.NoError(t, err)
	assert.Equal(t, []byte("ccccaaaa"), got)
}

func TestRunlist_SparseRun(t *testing.T) {
	backing := bytes.NewReader([]byte("aaaabbbb"))

	rl, err := NewRunlist(backing, []Run{
		{Offset: 1, Count: 1},
		{Count: 2, Sparse: true},
		{Offset: 0, Count: 1},
	}, 16, 4)
	require.NoError(t, err)

	got, err := io.ReadAll(rl.Reader())
	require.NoError(t, err)
	assert.Equal(t, []byte("bbbb\x00\x00\x00\x00\x00\x00\x00\x00aaaa"), got)
}

func TestRunlist_SlackTruncatesFinalRun(t *testing.T) {
	rl, err := NewRunlist(bandedBacking(), []Run{{Offset: 0, Count: 4}}, 50, 16)
	require.NoError(t, err)

	got := make([]byte, 64)
	n, err := rl.ReadAt(got, 0)
	assert.Equal(t, 50, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, bytes.Repeat([]byte{0x01}, 50), got[:n])
}

func TestRunlist_SizeBeyondRuns(t *testing.T) {
	rl, err := NewRunlist(bandedBacking(), []Run{{Offset: 0, Count: 2}}, 64, 16)
	require.NoError(t, err)

	t.Run("mapped region still reads", func(t *testing.T) {
		n, err := rl.ReadAt(make([]byte, 32), 0)
		require.NoError(t, err)
		assert.Equal(t, 32, n)
	})

	t.Run("unmapped hole fails", func(t *testing.T) {
		_, err := rl.ReadAt(make([]byte, 8), 40)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestNewRunlist_Validation(t *testing.T) {
	backing := bytes.NewReader([]byte("data"))

	_, err := NewRunlist(backing, []Run{{Offset: 0, Count: 1}}, 4, 0)
	assert.ErrorContains(t, err, "block size")

	_, err = NewRunlist(backing, []Run{{Offset: 0, Count: 1}}, -1, 4)
	assert.ErrorContains(t, err, "size")

	_, err = NewRunlist(backing, []Run{{Offset: 0, Count: 0}}, 4, 4)
	assert.ErrorContains(t, err, "block count")

	_, err = NewRunlist(backing, []Run{{Offset: -2, Count: 1}}, 4, 4)
	assert.ErrorContains(t, err, "block offset")
}
