package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/wippyai/fixcodec/errors"
)

func TestPrimitiveSize(t *testing.T) {
	tests := []struct {
		p    Primitive
		size int
		name string
	}{
		{I8, 1, "i8"}, {U8, 1, "u8"},
		{I16, 2, "i16"}, {U16, 2, "u16"},
		{I32, 4, "i32"}, {U32, 4, "u32"}, {F32, 4, "f32"},
		{I64, 8, "i64"}, {U64, 8, "u64"}, {F64, 8, "f64"},
		{Invalid, 0, "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.p.Size())
			assert.Equal(t, tt.name, tt.p.String())
		})
	}
	assert.Equal(t, "unknown", Primitive(200).String())
}

func TestPrimitiveFits(t *testing.T) {
	tests := []struct {
		p    Primitive
		v    int64
		fits bool
	}{
		{I8, -128, true},
		{I8, 128, false},
		{U8, 255, true},
		{U8, -1, false},
		{I16, math.MinInt16 - 1, false},
		{U16, math.MaxUint16, true},
		{I32, math.MaxInt32 + 1, false},
		{U32, math.MaxUint32, true},
		{U32, math.MaxUint32 + 1, false},
		{I64, math.MinInt64, true},
		{U64, math.MaxInt64, true},
		{U64, -1, false},
		{F32, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fits, tt.p.Fits(tt.v), "%s.Fits(%d)", tt.p, tt.v)
	}
}

func TestValidateAccepts(t *testing.T) {
	valid := []Type{
		U32,
		Unit(),
		&Tuple{},
		&Record{Name: "Point", Fields: []Field{{Name: "x", Type: I32}, {Name: "y", Type: I32}}},
		&Tuple{Types: []Type{U8, F64}},
		&Array{Len: 0, Elem: U8},
		&Array{Len: 64, Elem: &Array{Len: 3, Elem: U16}},
		&Enum{Name: "Level", Tag: I8, Variants: []Variant{Case("Low", -1), Case("High", 127)}},
		&Enum{Name: "Empty", Tag: U16},
		&Custom{Name: "uuid", Size: 16},
	}
	for _, typ := range valid {
		t.Run(String(typ), func(t *testing.T) {
			assert.NoError(t, Validate(typ))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"enum without tag", &Enum{Name: "E", Variants: []Variant{Case("A", 1)}}, "declares no tag type"},
		{"float tag", &Enum{Name: "E", Tag: F32, Variants: []Variant{Case("A", 1)}}, "not an integer"},
		{"payload", &Enum{Tag: U8, Variants: []Variant{{Name: "A", Value: 1, Payload: U32}}}, "carries a payload"},
		{"implicit discriminant", &Enum{Tag: U8, Variants: []Variant{{Name: "A", Implicit: true}}}, "no explicit discriminant"},
		{"out of range", &Enum{Tag: U8, Variants: []Variant{Case("A", 256)}}, "does not fit in u8"},
		{"negative unsigned", &Enum{Tag: U16, Variants: []Variant{Case("A", -1)}}, "does not fit in u16"},
		{"duplicate discriminant", &Enum{Tag: I8, Variants: []Variant{Case("A", 1), Case("B", 1)}}, "already used by"},
		{"duplicate variant", &Enum{Tag: I8, Variants: []Variant{Case("A", 1), Case("A", 2)}}, "duplicate variant name"},
		{"union", &Union{Name: "Mixed"}, "union Mixed"},
		{"duplicate field", &Record{Fields: []Field{{Name: "a", Type: U8}, {Name: "a", Type: U8}}}, "duplicate field"},
		{"unnamed field", &Record{Fields: []Field{{Type: U8}}}, "without a name"},
		{"nil field type", &Record{Fields: []Field{{Name: "a"}}}, "missing type"},
		{"negative length", &Array{Len: -1, Elem: U8}, "negative array length"},
		{"bad primitive", Primitive(99), "unknown primitive"},
		{"negative custom size", &Custom{Name: "c", Size: -1}, "negative size"},
		{"nested union", &Tuple{Types: []Type{U8, &Union{}}}, "union <anonymous>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.typ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.ErrorIs(t, err, errors.ErrInvalidSchema)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	typ := &Record{Name: "Bad", Fields: []Field{
		{Name: "kind", Type: &Enum{Tag: I8, Variants: []Variant{
			{Name: "A", Implicit: true},
			{Name: "B", Value: 1, Payload: U8},
			Case("C", 300),
		}}},
		{Name: "pad", Type: &Array{Len: -2, Elem: U8}},
	}}

	errs := multierr.Errors(Validate(typ))
	require.Len(t, errs, 4)

	var first *errors.Error
	require.ErrorAs(t, errs[0], &first)
	assert.Equal(t, []string{"kind", "A"}, first.Path)
	assert.Equal(t, errors.PhaseValidate, first.Phase)
}

func TestValidateRejectsCycles(t *testing.T) {
	self := &Array{Len: 2}
	self.Elem = self

	outer := &Record{Name: "outer"}
	inner := &Tuple{Types: []Type{U8, outer}}
	outer.Fields = []Field{{Name: "in", Type: inner}}

	tests := []struct {
		name string
		typ  Type
		path []string
	}{
		{"self array", self, []string{"[elem]"}},
		{"record through tuple", outer, []string{"in", "[1]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.typ)
			require.ErrorIs(t, err, errors.ErrInvalidSchema)
			assert.Contains(t, err.Error(), "contains itself")

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.path, e.Path)
		})
	}

	t.Run("shared subtree is not a cycle", func(t *testing.T) {
		shared := &Array{Len: 2, Elem: U16}
		assert.NoError(t, Validate(&Tuple{Types: []Type{shared, shared}}))
	})
}

func TestString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{U16, "u16"},
		{Unit(), "record unit {}"},
		{&Tuple{Types: []Type{U8, I64}}, "(u8, i64)"},
		{&Array{Len: 4, Elem: U8}, "[u8; 4]"},
		{
			&Record{Name: "Header", Fields: []Field{{Name: "version", Type: U16}, {Name: "flags", Type: &Array{Len: 4, Elem: U8}}}},
			"record Header { version: u16, flags: [u8; 4] }",
		},
		{
			&Enum{Name: "Level", Tag: I8, Variants: []Variant{Case("Low", 1), Case("High", 2)}},
			"enum Level: i8 { Low = 1, High = 2 }",
		},
		{&Custom{Name: "uuid", Size: 16}, "custom uuid<16>"},
		{&Union{}, "union <anonymous>"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, String(tt.typ))
	}
}
