//go:build purego

package compress

// The purego build carries no native bindings. nativeLZ4Backend and
// nativeLZOBackend stay nil, so registries resolve every request to the
// portable decoders: auto mode falls back silently and native mode fails
// with errs.ErrNativeUnavailable.
