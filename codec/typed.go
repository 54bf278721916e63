package codec

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

// Codec is a compiled codec for values of type T.
type Codec[T any] struct {
	ct *CompiledType
}

// For returns the codec for T using its inferred or declared schema.
func For[T any]() (*Codec[T], error) {
	return NewCodec[T](defaultCompiler, nil)
}

// ForSchema returns a codec binding s to T.
func ForSchema[T any](s schema.Type) (*Codec[T], error) {
	return NewCodec[T](defaultCompiler, s)
}

// NewCodec compiles T with c. A nil schema is inferred from T.
func NewCodec[T any](c *Compiler, s schema.Type) (*Codec[T], error) {
	goType := reflect.TypeFor[T]()
	var (
		ct  *CompiledType
		err error
	)
	if s == nil {
		ct, err = c.CompileType(goType)
	} else {
		ct, err = c.Compile(s, goType)
	}
	if err != nil {
		return nil, err
	}
	return &Codec[T]{ct: ct}, nil
}

// Schema returns the schema the codec was compiled from.
func (c *Codec[T]) Schema() schema.Type {
	return c.ct.Schema
}

// Size returns the encoded size of every T.
func (c *Codec[T]) Size() int {
	return c.ct.Size
}

// Compiled exposes the compiled layout.
func (c *Codec[T]) Compiled() *CompiledType {
	return c.ct
}

// Encode appends v to w.
func (c *Codec[T]) Encode(w *binary.Writer, v T) error {
	return EncodeCompiled(w, c.ct, unsafe.Pointer(&v))
}

// Decode reads one T from r. On failure the zero value is returned.
func (c *Codec[T]) Decode(r *binary.Reader) (T, error) {
	var v T
	if err := DecodeCompiled(r, c.ct, unsafe.Pointer(&v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Marshal encodes v into a new slice of exactly Size bytes.
func (c *Codec[T]) Marshal(v T) ([]byte, error) {
	w := binary.NewWriterSize(c.ct.Size)
	if err := c.Encode(w, v); err != nil {
		return nil, err
	}
	return w.Finish()
}

// Unmarshal decodes data, which must be exactly Size bytes long.
func (c *Codec[T]) Unmarshal(data []byte) (T, error) {
	if len(data) > c.ct.Size {
		var zero T
		return zero, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			GoType(c.ct.GoType.String()).
			Detail("%d trailing bytes after %d-byte value", len(data)-c.ct.Size, c.ct.Size).
			Build()
	}
	return c.Decode(binary.NewReader(data))
}
