package codec

import (
	"reflect"

	"github.com/wippyai/fixcodec/binary"
)

// Marshaler is implemented by values that encode themselves.
// MarshalFixed must always write exactly FixedSize bytes.
type Marshaler interface {
	MarshalFixed(w *binary.Writer)
}

// Unmarshaler is implemented by pointers to values that decode themselves.
// UnmarshalFixed must consume exactly FixedSize bytes on success.
type Unmarshaler interface {
	UnmarshalFixed(r *binary.Reader) error
}

// Sizer reports the encoded size of a self-encoding type. It is called on
// the zero value at compile time.
type Sizer interface {
	FixedSize() int
}

var (
	marshalerType   = reflect.TypeFor[Marshaler]()
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
	sizerType       = reflect.TypeFor[Sizer]()
)

// isCustom reports whether goType provides its own fixed codec.
func isCustom(goType reflect.Type) bool {
	return goType.Implements(marshalerType) &&
		goType.Implements(sizerType) &&
		reflect.PointerTo(goType).Implements(unmarshalerType)
}
