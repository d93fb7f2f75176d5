package format

import "fmt"

type (
	CodecType   uint8
	BackendMode uint8
)

const (
	CodecLZ4   CodecType = 0x1 // CodecLZ4 identifies the raw LZ4 block format.
	CodecLZO1X CodecType = 0x2 // CodecLZO1X identifies the LZO1X byte stream format.

	BackendAuto     BackendMode = 0x1 // BackendAuto prefers the native backend, falling back to portable.
	BackendNative   BackendMode = 0x2 // BackendNative requires the native backend and fails when absent.
	BackendPortable BackendMode = 0x3 // BackendPortable forces the portable implementation.
)

func (c CodecType) String() string {
	switch c {
	case CodecLZ4:
		return "LZ4"
	case CodecLZO1X:
		return "LZO1X"
	default:
		return "Unknown"
	}
}

// IsValid returns true if c is a known codec.
func (c CodecType) IsValid() bool {
	return c == CodecLZ4 || c == CodecLZO1X
}

func (m BackendMode) String() string {
	switch m {
	case BackendAuto:
		return "auto"
	case BackendNative:
		return "native"
	case BackendPortable:
		return "portable"
	default:
		return "unknown"
	}
}

// IsValid returns true if m is a known backend mode.
func (m BackendMode) IsValid() bool {
	return m == BackendAuto || m == BackendNative || m == BackendPortable
}

// ParseBackendMode parses a backend mode name as used in the
// BLOCKDEC_BACKEND environment variable.
func ParseBackendMode(s string) (BackendMode, error) {
	switch s {
	case "auto":
		return BackendAuto, nil
	case "native":
		return BackendNative, nil
	case "portable":
		return BackendPortable, nil
	default:
		return 0, fmt.Errorf("invalid backend mode %q", s)
	}
}
