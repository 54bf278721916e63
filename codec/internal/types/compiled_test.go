package types

import (
	"reflect"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindI8, "i8"},
		{KindU64, "u64"},
		{KindF64, "f64"},
		{KindRecord, "record"},
		{KindEnum, "enum"},
		{KindArray, "array"},
		{KindCustom, "custom"},
		{Kind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindWidth(t *testing.T) {
	widths := map[Kind]int{
		KindI8: 1, KindU8: 1, KindI16: 2, KindU16: 2,
		KindI32: 4, KindU32: 4, KindF32: 4,
		KindI64: 8, KindU64: 8, KindF64: 8,
		KindRecord: 0, KindEnum: 0,
	}
	for k, want := range widths {
		if got := k.Width(); got != want {
			t.Errorf("%s width = %d, want %d", k, got, want)
		}
		if k.IsPrimitive() != (want > 0) {
			t.Errorf("%s IsPrimitive = %v", k, k.IsPrimitive())
		}
	}
}

func primitive(kind Kind, goType reflect.Type) *CompiledType {
	return &CompiledType{Kind: kind, GoType: goType, GoSize: goType.Size(), Size: kind.Width()}
}

func TestIsFlat(t *testing.T) {
	u8 := primitive(KindU8, reflect.TypeOf(uint8(0)))
	u32 := primitive(KindU32, reflect.TypeOf(uint32(0)))

	packed := &CompiledType{
		Kind:   KindRecord,
		Size:   8,
		GoSize: 8,
		Fields: []Field{
			{Type: u32, GoOffset: 0, WireOffset: 0},
			{Type: u32, GoOffset: 4, WireOffset: 4},
		},
	}
	padded := &CompiledType{
		Kind:   KindRecord,
		Size:   5,
		GoSize: 8,
		Fields: []Field{
			{Type: u8, GoOffset: 0, WireOffset: 0},
			{Type: u32, GoOffset: 4, WireOffset: 1},
		},
	}
	enum := &CompiledType{Kind: KindEnum, Size: 1, GoSize: 1, Tag: KindU8}

	tests := []struct {
		name string
		ct   *CompiledType
		want bool
	}{
		{"primitive", u32, true},
		{"packed record", packed, true},
		{"padded record", padded, false},
		{"enum", enum, false},
		{"array of primitives", &CompiledType{Kind: KindArray, ElemType: u8, Len: 16, Size: 16, GoSize: 16}, true},
		{"array of enums", &CompiledType{Kind: KindArray, ElemType: enum, Len: 2, Size: 2, GoSize: 2}, false},
		{"custom", &CompiledType{Kind: KindCustom, Size: 4, GoSize: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ct.IsFlat(); got != tt.want {
				t.Errorf("IsFlat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	ct := &CompiledType{
		Kind:     KindEnum,
		Variants: []Variant{{Name: "First", Value: 1}, {Name: "Second", Value: 2}, {Name: "Neg", Value: -5}},
	}
	if got := ct.Lookup(2); got != 1 {
		t.Errorf("Lookup(2) = %d, want 1", got)
	}
	if got := ct.Lookup(-5); got != 2 {
		t.Errorf("Lookup(-5) = %d, want 2", got)
	}
	if got := ct.Lookup(9); got != -1 {
		t.Errorf("Lookup(9) = %d, want -1", got)
	}
}
