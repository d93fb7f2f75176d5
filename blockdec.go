// Package blockdec decodes the header-less compression formats found inside
// forensic artifacts: raw LZ4 blocks and LZO1X streams.
//
// Filesystem journals, kernel crash dumps, hibernation files and container
// images routinely embed compressed regions with no frame header, no
// checksum and often no recorded size. Blockdec decodes those regions with
// strict bounds checking, recovers the compressed extent of self-terminating
// streams so callers can carve adjacent data, and cross-validates a pure Go
// decoder against native bindings so results never depend on which
// implementation happened to run.
//
// # Core Features
//
//   - Raw LZ4 block decoding with known or unknown output size
//   - LZO1X stream decoding with consumed-byte reporting for carving
//   - Byte-identical portable and native backends, selectable per request
//   - Strict size validation: expected sizes must match exactly
//   - One shared error taxonomy across codecs and backends
//
// # Basic Usage
//
// Decoding a block whose size is recorded elsewhere in the artifact:
//
//	import "github.com/blockdec/blockdec"
//
//	page, err := blockdec.LZ4Decompress(block, 4096)
//	if err != nil {
//	    return fmt.Errorf("decode page: %w", err)
//	}
//
// Carving an LZO1X stream embedded in a larger buffer:
//
//	data, n, err := blockdec.LZOCarve(buf)
//	if err != nil {
//	    return err
//	}
//	rest := buf[n:] // the bytes after the stream's end marker
//
// # Package Structure
//
// This package provides top-level wrappers around the process-wide backend
// registry, simplifying the most common use cases. For explicit backend
// control, registry injection, or cross-validation, use the compress
// package directly; the lz4 and lzo packages expose the portable decoders
// on their own.
package blockdec

import (
	"io"

	"github.com/blockdec/blockdec/compress"
)

// LZ4Decompress decodes a raw LZ4 block whose output size is known exactly,
// using the default backend registry.
//
// Parameters:
//   - src: the complete compressed block.
//   - dstLen: the exact decoded size.
//
// Returns:
//   - []byte: the decoded bytes, of length dstLen.
//   - error: an errs.ErrCorruptData-class error describing the failure.
func LZ4Decompress(src []byte, dstLen int) ([]byte, error) {
	return compress.Default().DecompressLZ4(src, dstLen)
}

// LZ4DecompressAll decodes a raw LZ4 block of unknown output size, using
// the default backend registry.
func LZ4DecompressAll(src []byte) ([]byte, error) {
	return compress.Default().DecompressLZ4All(src)
}

// LZODecompress decodes an LZO1X stream whose output size is known exactly,
// using the default backend registry.
//
// Parameters:
//   - src: buffer holding the complete stream, end marker included.
//   - dstLen: the exact decoded size.
//
// Returns:
//   - []byte: the decoded bytes, of length dstLen.
//   - error: an errs.ErrCorruptData-class error describing the failure.
func LZODecompress(src []byte, dstLen int) ([]byte, error) {
	return compress.Default().DecompressLZO(src, dstLen)
}

// LZOCarve decodes an LZO1X stream of unknown output size from the start of
// src and reports how many input bytes it occupied, so src[consumed:] is
// exactly the data following the stream.
func LZOCarve(src []byte) (data []byte, consumed int, err error) {
	return compress.Default().CarveLZO(src)
}

// LZODecompressStream decodes an LZO1X stream from r, reading no further
// than the stream's end marker.
func LZODecompressStream(r io.ByteReader) ([]byte, error) {
	return compress.Default().DecompressLZOStream(r)
}
