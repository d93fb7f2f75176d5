// Package backref implements the bounds-checked back-reference copies shared
// by the block decoders.
//
// A back-reference copies bytes the decoder already produced, from dist bytes
// behind the current write position. When dist < length the source and
// destination regions overlap and the copy self-expands: each copied byte may
// itself be a source for a later byte. Such copies must proceed forward one
// byte at a time; a block-copy primitive would read stale bytes and silently
// corrupt the output.
package backref

import "github.com/blockdec/blockdec/errs"

// Copy copies length bytes from dist bytes behind pos into dst[pos:].
// dst must be preallocated; a copy that would write past len(dst) fails
// with errs.ErrOutputOverrun.
func Copy(dst []byte, pos, dist, length int) error {
	if dist <= 0 || dist > pos {
		return errs.ErrLookBehindUnderrun
	}
	if length > len(dst)-pos {
		return errs.ErrOutputOverrun
	}

	src := pos - dist
	if dist >= length {
		copy(dst[pos:pos+length], dst[src:src+length])
		return nil
	}

	// Overlapping regions self-expand.
	for i := range length {
		dst[pos+i] = dst[src+i]
	}

	return nil
}

// Append appends length bytes copied from dist bytes behind the end of dst,
// growing it as needed, and returns the extended slice.
func Append(dst []byte, dist, length int) ([]byte, error) {
	if dist <= 0 || dist > len(dst) {
		return nil, errs.ErrLookBehindUnderrun
	}

	src := len(dst) - dist
	if dist >= length {
		return append(dst, dst[src:src+length]...), nil
	}

	for i := range length {
		dst = append(dst, dst[src+i])
	}

	return dst, nil
}
