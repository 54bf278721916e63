package schema

import "math"

// Type is a structural description of a fixed-layout value.
// Implementations: Primitive, *Record, *Tuple, *Enum, *Array, *Custom, *Union.
type Type interface {
	isType()
}

// Describer is implemented by Go types that declare their own schema.
// The method is called on the zero value and must not depend on state.
type Describer interface {
	FixedSchema() Type
}

// Primitive is a scalar with a fixed little-endian width.
type Primitive uint8

const (
	// Invalid is the zero Primitive; an Enum whose Tag is Invalid has no tag type.
	Invalid Primitive = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
)

var primitiveNames = [...]string{
	Invalid: "invalid",
	I8:      "i8",
	U8:      "u8",
	I16:     "i16",
	U16:     "u16",
	I32:     "i32",
	U32:     "u32",
	I64:     "i64",
	U64:     "u64",
	F32:     "f32",
	F64:     "f64",
}

func (Primitive) isType() {}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// Size returns the encoded width in bytes.
func (p Primitive) Size() int {
	switch p {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether p is one of the eight integer primitives.
func (p Primitive) IsInteger() bool {
	return p >= I8 && p <= U64
}

// IsSigned reports whether p is a signed integer.
func (p Primitive) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

// Fits reports whether v is representable in integer primitive p.
// Discriminants are int64, so U64 accepts only 0..MaxInt64.
func (p Primitive) Fits(v int64) bool {
	switch p {
	case I8:
		return v >= math.MinInt8 && v <= math.MaxInt8
	case U8:
		return v >= 0 && v <= math.MaxUint8
	case I16:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case U16:
		return v >= 0 && v <= math.MaxUint16
	case I32:
		return v >= math.MinInt32 && v <= math.MaxInt32
	case U32:
		return v >= 0 && v <= math.MaxUint32
	case I64:
		return true
	case U64:
		return v >= 0
	}
	return false
}

// Field is a named member of a Record.
type Field struct {
	Type Type
	Name string
}

// Record is a product with named fields encoded in declared order.
// A Record with no fields is the unit type.
type Record struct {
	Name   string
	Fields []Field
}

func (*Record) isType() {}

// Unit returns an empty record: encodes to zero bytes.
func Unit() *Record {
	return &Record{Name: "unit"}
}

// Tuple is a product with positional fields encoded in declared order.
type Tuple struct {
	Types []Type
}

func (*Tuple) isType() {}

// Variant is one case of an Enum.
type Variant struct {
	// Payload must be nil; it exists so converted schemas can report
	// payload-bearing cases instead of silently dropping them.
	Payload  Type
	Name     string
	Value    int64
	Implicit bool
}

// Enum is a tag-only sum type. Each variant is written as its discriminant
// using Tag's encoding, so every value has the same width.
type Enum struct {
	Name     string
	Variants []Variant
	Tag      Primitive
}

func (*Enum) isType() {}

// Case returns a variant with an explicit discriminant.
func Case(name string, value int64) Variant {
	return Variant{Name: name, Value: value}
}

// Array is a fixed-length sequence of Len elements with no padding.
type Array struct {
	Elem Type
	Len  int
}

func (*Array) isType() {}

// Custom is a leaf encoded by the Go type itself through MarshalFixed and
// UnmarshalFixed. Size is the byte count those methods always produce.
type Custom struct {
	Name string
	Size int
}

func (*Custom) isType() {}

// Union is a shape mixing named and positional members. No fixed
// encoding exists for it; Validate always rejects it.
type Union struct {
	Name    string
	Members []Field
}

func (*Union) isType() {}
