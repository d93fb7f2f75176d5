package compress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/blockdec/blockdec/errs"
	"github.com/blockdec/blockdec/format"
	"github.com/blockdec/blockdec/internal/options"
)

// BackendEnv is the environment variable consulted by Default to pick the
// process-wide backend mode. Recognized values are "auto", "native" and
// "portable"; anything else is ignored.
const BackendEnv = "BLOCKDEC_BACKEND"

// LZ4Backend decodes raw LZ4 block data.
//
// Implementations must be safe for concurrent use and must match the
// portable decoder byte for byte on valid input.
type LZ4Backend interface {
	// Name identifies the backend in errors and diagnostics.
	Name() string

	// Decompress decodes a block whose output size is known exactly.
	Decompress(src []byte, dstLen int) ([]byte, error)

	// DecompressAll decodes a block of unknown output size.
	DecompressAll(src []byte) ([]byte, error)
}

// LZOBackend decodes LZO1X streams.
//
// Implementations must be safe for concurrent use and must match the
// portable decoder byte for byte on valid input.
type LZOBackend interface {
	// Name identifies the backend in errors and diagnostics.
	Name() string

	// Decompress decodes a stream whose output size is known exactly.
	Decompress(src []byte, dstLen int) ([]byte, error)

	// DecompressN decodes a stream of unknown output size and reports the
	// number of input bytes it occupied.
	DecompressN(src []byte) ([]byte, int, error)

	// DecompressStream decodes from a reader, leaving it positioned after
	// the end marker.
	DecompressStream(r io.ByteReader) ([]byte, error)
}

// Registered by init in the build-tagged native bindings; nil when the
// purego tag compiles them out.
var (
	nativeLZ4Backend LZ4Backend
	nativeLZOBackend LZOBackend
)

// Registry resolves decode requests to a backend under a configurable
// default mode. The zero value is not usable; construct with NewRegistry.
//
// A registry is immutable after construction and safe for concurrent use.
type Registry struct {
	lz4Portable LZ4Backend
	lz4Native   LZ4Backend
	lzoPortable LZOBackend
	lzoNative   LZOBackend
	mode        format.BackendMode
}

// Option configures a Registry under construction.
type Option = options.Option[*Registry]

// NewRegistry builds a registry holding the portable decoders plus whatever
// native bindings this build registered.
//
// Parameters:
//   - opts: optional configuration, applied in order.
//
// Returns:
//   - *Registry: the constructed registry.
//   - error: the first option that failed.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		lz4Portable: NewPortableLZ4(),
		lz4Native:   nativeLZ4Backend,
		lzoPortable: NewPortableLZO(),
		lzoNative:   nativeLZOBackend,
		mode:        format.BackendAuto,
	}

	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// WithoutNative strips the native bindings, leaving a registry that always
// resolves to the portable decoders. Cross-validation tests use this to
// pin the reference side of an equivalence check.
func WithoutNative() Option {
	return options.NoError(func(r *Registry) {
		r.lz4Native = nil
		r.lzoNative = nil
	})
}

// WithNativeLZ4 replaces the native LZ4 backend. Passing nil disables it.
func WithNativeLZ4(b LZ4Backend) Option {
	return options.NoError(func(r *Registry) {
		r.lz4Native = b
	})
}

// WithNativeLZO replaces the native LZO backend. Passing nil disables it.
func WithNativeLZO(b LZOBackend) Option {
	return options.NoError(func(r *Registry) {
		r.lzoNative = b
	})
}

// WithDefaultMode sets the mode the Decompress* dispatch methods run under.
func WithDefaultMode(mode format.BackendMode) Option {
	return options.New(func(r *Registry) error {
		if !mode.IsValid() {
			return fmt.Errorf("invalid backend mode: %d", mode)
		}
		r.mode = mode

		return nil
	})
}

// Mode returns the registry's default backend mode.
func (r *Registry) Mode() format.BackendMode {
	return r.mode
}

// NativeAvailable reports whether this registry holds a native backend for
// the codec.
func (r *Registry) NativeAvailable(codec format.CodecType) bool {
	switch codec {
	case format.CodecLZ4:
		return r.lz4Native != nil
	case format.CodecLZO1X:
		return r.lzoNative != nil
	default:
		return false
	}
}

// LZ4 returns the backend serving LZ4 requests under mode.
func (r *Registry) LZ4(mode format.BackendMode) (LZ4Backend, error) {
	switch mode {
	case format.BackendAuto:
		if r.lz4Native != nil {
			return r.lz4Native, nil
		}

		return r.lz4Portable, nil
	case format.BackendNative:
		if r.lz4Native == nil {
			return nil, fmt.Errorf("%w: no native LZ4 backend in this build", errs.ErrNativeUnavailable)
		}

		return r.lz4Native, nil
	case format.BackendPortable:
		return r.lz4Portable, nil
	default:
		return nil, fmt.Errorf("invalid backend mode: %d", mode)
	}
}

// LZO returns the backend serving LZO1X requests under mode.
func (r *Registry) LZO(mode format.BackendMode) (LZOBackend, error) {
	switch mode {
	case format.BackendAuto:
		if r.lzoNative != nil {
			return r.lzoNative, nil
		}

		return r.lzoPortable, nil
	case format.BackendNative:
		if r.lzoNative == nil {
			return nil, fmt.Errorf("%w: no native LZO backend in this build", errs.ErrNativeUnavailable)
		}

		return r.lzoNative, nil
	case format.BackendPortable:
		return r.lzoPortable, nil
	default:
		return nil, fmt.Errorf("invalid backend mode: %d", mode)
	}
}

// DecompressLZ4 decodes an LZ4 block of known output size under the
// registry's default mode.
func (r *Registry) DecompressLZ4(src []byte, dstLen int) ([]byte, error) {
	b, err := r.LZ4(r.mode)
	if err != nil {
		return nil, err
	}

	return b.Decompress(src, dstLen)
}

// DecompressLZ4All decodes an LZ4 block of unknown output size under the
// registry's default mode.
func (r *Registry) DecompressLZ4All(src []byte) ([]byte, error) {
	b, err := r.LZ4(r.mode)
	if err != nil {
		return nil, err
	}

	return b.DecompressAll(src)
}

// DecompressLZO decodes an LZO1X stream of known output size under the
// registry's default mode.
func (r *Registry) DecompressLZO(src []byte, dstLen int) ([]byte, error) {
	b, err := r.LZO(r.mode)
	if err != nil {
		return nil, err
	}

	return b.Decompress(src, dstLen)
}

// CarveLZO decodes an LZO1X stream of unknown size from the start of src
// and reports the consumed byte count. Consumed-count reporting needs the
// portable decoder, so auto mode resolves portable here; requiring native
// fails with errs.ErrNativeUnavailable.
func (r *Registry) CarveLZO(src []byte) ([]byte, int, error) {
	if r.mode == format.BackendNative {
		b, err := r.LZO(format.BackendNative)
		if err != nil {
			return nil, 0, err
		}

		return b.DecompressN(src)
	}

	return r.lzoPortable.DecompressN(src)
}

// Decompress decodes src as codec with a known output size under the
// registry's default mode. Container parsers use it when the codec comes
// from an artifact's own header field rather than from static knowledge.
//
// Parameters:
//   - codec: the codec identifier, typically read from a container header.
//   - src: the complete compressed block or stream.
//   - dstLen: the exact decoded size.
//
// Returns:
//   - []byte: the decoded bytes, of length dstLen.
//   - error: errs.ErrUnknownCodec for a codec the registry does not carry,
//     otherwise the codec's own decode error.
func (r *Registry) Decompress(codec format.CodecType, src []byte, dstLen int) ([]byte, error) {
	switch codec {
	case format.CodecLZ4:
		return r.DecompressLZ4(src, dstLen)
	case format.CodecLZO1X:
		return r.DecompressLZO(src, dstLen)
	default:
		return nil, fmt.Errorf("%w: 0x%02X", errs.ErrUnknownCodec, uint8(codec))
	}
}

// DecompressLZOStream decodes an LZO1X stream from rd, leaving the reader
// positioned after the end marker. Like CarveLZO, positioned reads need the
// portable decoder, so auto mode resolves portable here.
func (r *Registry) DecompressLZOStream(rd io.ByteReader) ([]byte, error) {
	if r.mode == format.BackendNative {
		b, err := r.LZO(format.BackendNative)
		if err != nil {
			return nil, err
		}

		return b.DecompressStream(rd)
	}

	return r.lzoPortable.DecompressStream(rd)
}

var defaultRegistry = sync.OnceValue(newDefaultRegistry)

// Default returns the process-wide registry, built once on first use. Its
// mode comes from BackendEnv when set to a recognized value and is auto
// otherwise.
func Default() *Registry {
	return defaultRegistry()
}

func newDefaultRegistry() *Registry {
	mode := format.BackendAuto
	if v := os.Getenv(BackendEnv); v != "" {
		if m, err := format.ParseBackendMode(v); err == nil {
			mode = m
		}
	}

	r, err := NewRegistry(WithDefaultMode(mode))
	if err != nil {
		r, _ = NewRegistry()
	}

	return r
}

// NativeAvailable reports whether this build carries a native backend for
// the codec.
func NativeAvailable(codec format.CodecType) bool {
	return Default().NativeAvailable(codec)
}
