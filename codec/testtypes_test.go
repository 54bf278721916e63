package codec

import (
	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

type allInts struct {
	A int8
	B uint8
	C int16
	D uint16
	E int32
	F uint32
	G int64
	H uint64
}

type vec3 struct {
	X, Y, Z float32
}

type telemetry struct {
	ID     uint64
	Temp   float32
	Coords [3]float64
	Flags  [4]uint8
	Pos    vec3
	Note   string `fixed:"-"`
	hidden int
}

type empty struct{}

type Ordinal int8

const (
	First  Ordinal = 1
	Second Ordinal = 2
	Last   Ordinal = -1
)

var ordinalSchema = &schema.Enum{
	Name: "Ordinal",
	Tag:  schema.I8,
	Variants: []schema.Variant{
		schema.Case("First", 1),
		schema.Case("Second", 2),
		schema.Case("Last", -1),
	},
}

func (Ordinal) FixedSchema() schema.Type { return ordinalSchema }

// Wide is narrow in memory but written as a u32 tag.
type Wide uint8

var wideSchema = &schema.Enum{
	Name:     "Wide",
	Tag:      schema.U32,
	Variants: []schema.Variant{schema.Case("Low", 1), schema.Case("High", 200)},
}

func (*Wide) FixedSchema() schema.Type { return wideSchema }

type message struct {
	Kind Ordinal
	Body [3]uint16
}

type route struct {
	Hops [3]Ordinal
}

type wrapper[T any] struct {
	Inner T
}

type pair[A, B any] struct {
	First  A
	Second B
}

// bigEndianU32 encodes itself most significant byte first.
type bigEndianU32 uint32

func (v bigEndianU32) MarshalFixed(w *binary.Writer) {
	w.WriteBytes([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func (bigEndianU32) FixedSize() int { return 4 }

func (v *bigEndianU32) UnmarshalFixed(r *binary.Reader) error {
	var b [4]byte
	if err := r.ReadBytes(b[:]); err != nil {
		return err
	}
	*v = bigEndianU32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
	return nil
}

type stamped struct {
	Seq  uint16
	When bigEndianU32
}

// liar reports one byte but writes two.
type liar struct{ V uint8 }

func (l liar) MarshalFixed(w *binary.Writer) {
	w.WriteU8(l.V)
	w.WriteU8(0)
}

func (liar) FixedSize() int { return 1 }

func (l *liar) UnmarshalFixed(r *binary.Reader) error {
	v, err := r.ReadU8()
	l.V = v
	return err
}

// picky rejects non-zero payloads on decode.
type picky struct{ V uint8 }

func (p picky) MarshalFixed(w *binary.Writer) { w.WriteU8(p.V) }

func (picky) FixedSize() int { return 1 }

func (p *picky) UnmarshalFixed(r *binary.Reader) error {
	v, err := r.ReadU8()
	if err != nil {
		return err
	}
	if v > 100 {
		return errors.InvalidData(errors.PhaseDecode, nil, "picky value above 100")
	}
	p.V = v
	return nil
}

// swapped carries tags that name the other field.
type swapped struct {
	A uint8 `fixed:"b"`
	B uint8 `fixed:"a"`
}

// caseTwins differ only in letter case.
type caseTwins struct {
	ID uint32
	Id uint32
}
