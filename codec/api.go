package codec

import (
	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/schema"
)

var (
	defaultCompiler = NewCompiler()
	defaultEncoder  = NewEncoderWithCompiler(defaultCompiler)
	defaultDecoder  = NewDecoderWithCompiler(defaultCompiler)
)

// DefaultCompiler returns the compiler shared by the package-level helpers.
func DefaultCompiler() *Compiler {
	return defaultCompiler
}

// Encode appends the encoding of v to w.
func Encode(w *binary.Writer, v any) error {
	return defaultEncoder.Encode(w, v)
}

// Decode reads one value from r into ptr.
func Decode(r *binary.Reader, ptr any) error {
	return defaultDecoder.Decode(r, ptr)
}

// Size returns the encoded size of v's type.
func Size(v any) (int, error) {
	return defaultEncoder.Size(v)
}

// Marshal encodes v into a new byte slice.
func Marshal(v any) ([]byte, error) {
	return defaultEncoder.Marshal(v)
}

// Unmarshal decodes data, which must hold exactly one value, into ptr.
func Unmarshal(data []byte, ptr any) error {
	return defaultDecoder.Unmarshal(data, ptr)
}

// SchemaSize returns the encoded size of any value described by t.
func SchemaSize(t schema.Type) (int, error) {
	return defaultCompiler.SchemaSize(t)
}
