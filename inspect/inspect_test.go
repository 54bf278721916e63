package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

var level = &schema.Enum{
	Name:     "Level",
	Tag:      schema.I8,
	Variants: []schema.Variant{schema.Case("Low", 1), schema.Case("High", 2)},
}

var header = &schema.Record{
	Name: "Header",
	Fields: []schema.Field{
		{Name: "version", Type: schema.U16},
		{Name: "level", Type: level},
		{Name: "flags", Type: &schema.Array{Elem: schema.U8, Len: 3}},
		{Name: "pos", Type: &schema.Tuple{Types: []schema.Type{schema.I32, schema.F32}}},
		{Name: "id", Type: &schema.Custom{Name: "uuid", Size: 2}},
	},
}

func TestLayout(t *testing.T) {
	entries, err := Layout(header)
	require.NoError(t, err)

	want := []Entry{
		{Path: "version", Type: "u16", Offset: 0, Size: 2},
		{Path: "level", Type: "enum Level: i8 { Low = 1, High = 2 }", Offset: 2, Size: 1},
		{Path: "flags", Type: "[u8; 3]", Offset: 3, Size: 3},
		{Path: "pos[0]", Type: "i32", Offset: 6, Size: 4},
		{Path: "pos[1]", Type: "f32", Offset: 10, Size: 4},
		{Path: "id", Type: "custom uuid<2>", Offset: 14, Size: 2},
	}
	assert.Equal(t, want, entries)
}

func TestDump(t *testing.T) {
	data := []byte{
		0x07, 0x00, // version
		0x02,             // level
		0x01, 0x02, 0xFF, // flags
		0xFE, 0xFF, 0xFF, 0xFF, // -2
		0x00, 0x00, 0xC0, 0x3F, // 1.5
		0xAB, 0xCD, // id
	}
	entries, err := Dump(header, data)
	require.NoError(t, err)

	values := make(map[string]string)
	for _, e := range entries {
		values[e.Path] = e.Value
	}
	assert.Equal(t, map[string]string{
		"version": "7",
		"level":   "High (2)",
		"flags":   "[1 2 255]",
		"pos[0]":  "-2",
		"pos[1]":  "1.5",
		"id":      "abcd",
	}, values)
}

func TestDumpErrors(t *testing.T) {
	t.Run("invalid variant", func(t *testing.T) {
		_, err := Dump(header, []byte{0x07, 0x00, 0x09})
		require.ErrorIs(t, err, errors.ErrInvalidVariant)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, []string{"level"}, e.Path)
	})

	t.Run("short array", func(t *testing.T) {
		_, err := Dump(header, []byte{0x07, 0x00, 0x01, 0x01})
		require.ErrorIs(t, err, errors.ErrOverflow)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, []string{"flags"}, e.Path)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Dump(schema.U8, []byte{1, 2})
		assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidData})
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := Layout(&schema.Array{Elem: schema.U8, Len: -1})
		assert.ErrorIs(t, err, errors.ErrInvalidSchema)
	})
}

func TestNestedArrays(t *testing.T) {
	grid := &schema.Array{Len: 2, Elem: &schema.Array{Len: 2, Elem: schema.I16}}
	entries, err := Dump(grid, []byte{1, 0, 2, 0, 3, 0, 0xFF, 0xFF})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "[0]", entries[0].Path)
	assert.Equal(t, "[1 2]", entries[0].Value)
	assert.Equal(t, "[1]", entries[1].Path)
	assert.Equal(t, "[3 -1]", entries[1].Value)
	assert.Equal(t, 4, entries[1].Offset)
}

func TestUnitHasNoLeaves(t *testing.T) {
	entries, err := Dump(schema.Unit(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLimits(t *testing.T) {
	t.Run("oversized primitive array", func(t *testing.T) {
		huge := &schema.Array{Len: 1 << 62, Elem: schema.F64}
		_, err := Dump(huge, nil)
		require.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnsupported})
		assert.Contains(t, err.Error(), "exceeds limit")

		_, err = Layout(huge)
		assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnsupported})
	})

	t.Run("too many values", func(t *testing.T) {
		wide := &schema.Array{Len: MaxVisits, Elem: &schema.Tuple{Types: []schema.Type{schema.U8}}}
		_, err := Layout(wide)
		require.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnsupported})
		assert.Contains(t, err.Error(), "more than")
	})

	t.Run("zero-size elements", func(t *testing.T) {
		empties := &schema.Array{Len: 1 << 40, Elem: schema.Unit()}
		_, err := Layout(empties)
		assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnsupported})
	})
}
