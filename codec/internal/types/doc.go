// Package types defines the compiled type structures the codec walks.
//
// CompiledType holds precomputed layout information (wire size, Go field
// offsets, enum discriminants) so encoding and decoding never consult the
// schema on the hot path.
//
// This package is internal to the codec.
package types
