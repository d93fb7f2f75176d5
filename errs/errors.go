// Package errs defines the sentinel errors shared by the blockdec decoders
// and the backend registry.
//
// Errors form two levels: class sentinels (ErrCorruptData, ErrShortRead,
// ErrNativeUnavailable) and members derived from them, so callers can match
// with errors.Is at either granularity:
//
//	if errors.Is(err, errs.ErrCorruptData) { ... }     // any format error
//	if errors.Is(err, errs.ErrSizeMismatch) { ... }    // one specific cause
package errs

import (
	"errors"
	"fmt"
)

// Class sentinels.
var (
	// ErrCorruptData indicates malformed or corrupt compressed input:
	// invalid opcodes, out-of-range distances, truncated buffers, or a
	// decoded size that does not match the expected one. Compressed data
	// cannot self-heal; retrying the same input will fail the same way.
	ErrCorruptData = errors.New("corrupt compressed data")

	// ErrShortRead indicates that a caller-supplied byte source ended
	// before the stream's own terminator was reached. It is the
	// stream-sourced counterpart of ErrInputOverrun.
	ErrShortRead = errors.New("compressed stream ended before terminator")

	// ErrNativeUnavailable indicates that the native backend was
	// explicitly required but is not compiled in or cannot serve the
	// requested operation.
	ErrNativeUnavailable = errors.New("native backend unavailable")

	// ErrUnknownCodec indicates a codec the registry does not carry.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Members of the ErrCorruptData class.
var (
	// ErrInputOverrun indicates the compressed buffer ended mid-stream.
	ErrInputOverrun = fmt.Errorf("%w: input overrun", ErrCorruptData)

	// ErrOutputOverrun indicates a write past the expected output size.
	ErrOutputOverrun = fmt.Errorf("%w: output overrun", ErrCorruptData)

	// ErrLookBehindUnderrun indicates a back-reference before the start
	// of the produced output.
	ErrLookBehindUnderrun = fmt.Errorf("%w: lookbehind underrun", ErrCorruptData)

	// ErrSizeMismatch indicates the stream terminated with an output
	// length different from the expected one. Exact match is required;
	// short output is never returned as a truncation.
	ErrSizeMismatch = fmt.Errorf("%w: decoded size mismatch", ErrCorruptData)

	// ErrInvalidStream indicates an opcode sequence the format grammar
	// does not allow.
	ErrInvalidStream = fmt.Errorf("%w: invalid opcode stream", ErrCorruptData)

	// ErrLengthOverflow indicates a run-length extension beyond the
	// supported maximum.
	ErrLengthOverflow = fmt.Errorf("%w: length encoding overflow", ErrCorruptData)
)
