// Package compress routes LZ4 and LZO1X decode requests to a portable or
// native backend.
//
// Forensic images carry compressed regions in places where trusting a
// single decoder implementation is uncomfortable: kernel crash dumps,
// filesystem journals, hibernation files. This package keeps two
// implementations of every codec side by side - a pure Go decoder that is
// always present, and a native binding compiled in by default - and makes
// them drop-in interchangeable so results can be cross-checked.
//
// # Overview
//
// Decoding happens in two layers:
//
//  1. **Decoders**: the lz4 and lzo packages implement the wire formats.
//  2. **Routing**: this package picks which implementation serves a request.
//
// The portable decoders are the reference semantics. The native bindings
// must match them byte for byte on every valid input and fail with the
// same error classes on corrupt input. That equivalence is the load-bearing
// guarantee of the package; nothing a caller can observe reveals which
// backend ran.
//
// # Architecture
//
// Each codec is served through a small backend interface:
//
//	type LZ4Backend interface {
//	    Name() string
//	    Decompress(src []byte, dstLen int) ([]byte, error)
//	    DecompressAll(src []byte) ([]byte, error)
//	}
//
//	type LZOBackend interface {
//	    Name() string
//	    Decompress(src []byte, dstLen int) ([]byte, error)
//	    DecompressN(src []byte) ([]byte, int, error)
//	    DecompressStream(r io.ByteReader) ([]byte, error)
//	}
//
// A Registry holds one portable and at most one native backend per codec
// and resolves requests under a backend mode.
//
// # Backend Modes
//
// | Mode     | Behavior                                                |
// |----------|---------------------------------------------------------|
// | auto     | Prefer native, fall back to portable silently           |
// | native   | Fail with errs.ErrNativeUnavailable when not compiled in|
// | portable | Always run the pure Go decoder                          |
//
// Use auto for production decoding, native when acceleration is a hard
// requirement, and portable to pin the reference side of a
// cross-validation run.
//
// # Build-Time Selection
//
// The native bindings register themselves at init from files guarded by a
// build tag. Building with -tags purego strips them entirely; every mode
// except native then runs the portable decoders. Availability never alters
// the decode contract - it only changes which implementation fulfills it.
//
//	compress.NativeAvailable(format.CodecLZ4)   // true in default builds
//	compress.NativeAvailable(format.CodecLZO1X) // true in default builds
//
// # Process-Wide Default
//
// Default returns a lazily built registry shared by the whole process. Its
// mode honors the BLOCKDEC_BACKEND environment variable ("auto", "native"
// or "portable"); unrecognized values are ignored. The first use wins and
// the selection is immutable afterward, so concurrent first calls are
// harmless.
//
//	data, err := compress.Default().DecompressLZ4(block, 4096)
//
// # Cross-Validation
//
// Registries are cheap and independent, so a validation pass can hold both
// shapes at once:
//
//	ref, _ := compress.NewRegistry(compress.WithoutNative())
//	fast, _ := compress.NewRegistry()
//
//	want, err1 := ref.DecompressLZ4(block, size)
//	got, err2 := fast.DecompressLZ4(block, size)
//	// want and got must be identical whenever err1 and err2 are nil
//
// # Known Limitations
//
// The native LZO binding cannot report how many input bytes a stream
// consumed, so CarveLZO and DecompressLZOStream always run portable under
// auto mode and refuse service under native mode. Known-size LZO decoding
// is unaffected.
//
// # Thread Safety
//
// Registries are immutable after construction and safe for concurrent use.
// The backends themselves are stateless.
//
// # Error Handling
//
// All decode failures carry the errs package taxonomy: format errors wrap
// errs.ErrCorruptData, exhausted stream sources wrap errs.ErrShortRead, and
// an explicitly required but missing native backend wraps
// errs.ErrNativeUnavailable. Native binding errors are folded into the same
// classes so callers never branch on backend-specific error values.
//
// # Advanced Usage
//
// Tests inject replacement backends to exercise routing without real
// codecs:
//
//	reg, _ := compress.NewRegistry(
//	    compress.WithNativeLZ4(fakeBackend),
//	    compress.WithDefaultMode(format.BackendNative),
//	)
//
// See the decode_demo example for a walkthrough of modes and carving.
package compress
