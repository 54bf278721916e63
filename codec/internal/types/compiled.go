package types

import (
	"reflect"

	"github.com/wippyai/fixcodec/schema"
)

type CompiledType struct {
	GoType   reflect.Type
	Schema   schema.Type
	ElemType *CompiledType
	Fields   []Field
	Variants []Variant
	Size     int
	Len      int
	GoSize   uintptr
	Kind     Kind
	// Flat is set when values can be copied as raw memory.
	Flat bool
	// Tag is the primitive kind an enum discriminant is written as.
	Tag Kind
}

type Field struct {
	Type       *CompiledType
	Name       string
	SchemaName string
	GoOffset   uintptr
	WireOffset int
}

type Variant struct {
	Name  string
	Value int64
}

func (ct *CompiledType) IsPrimitive() bool {
	return ct.Kind.IsPrimitive()
}

// IsFlat reports whether the encoded bytes equal the Go memory image on a
// little-endian host: primitives, and products of flat types with no Go
// padding. Enums and custom codecs are never flat.
func (ct *CompiledType) IsFlat() bool {
	switch ct.Kind {
	case KindRecord, KindTuple:
		if uintptr(ct.Size) != ct.GoSize {
			return false
		}
		for _, f := range ct.Fields {
			if !f.Type.IsFlat() || uintptr(f.WireOffset) != f.GoOffset {
				return false
			}
		}
		return true
	case KindArray:
		return ct.ElemType.IsFlat() && uintptr(ct.Size) == ct.GoSize
	case KindEnum, KindCustom:
		return false
	default:
		return ct.IsPrimitive() && uintptr(ct.Size) == ct.GoSize
	}
}

// Lookup returns the index of the first variant whose discriminant is v.
func (ct *CompiledType) Lookup(v int64) int {
	for i := range ct.Variants {
		if ct.Variants[i].Value == v {
			return i
		}
	}
	return -1
}
