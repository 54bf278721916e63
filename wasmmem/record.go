package wasmmem

import (
	"math"

	"github.com/wippyai/fixcodec/codec"
	"github.com/wippyai/fixcodec/errors"
)

// Store encodes v at offset.
func Store[T any](m *Memory, offset uint32, v T) error {
	c, err := codec.For[T]()
	if err != nil {
		return err
	}
	data, err := c.Marshal(v)
	if err != nil {
		return err
	}
	return m.Write(offset, data)
}

// Load decodes a T stored at offset.
func Load[T any](m *Memory, offset uint32) (T, error) {
	var zero T
	c, err := codec.For[T]()
	if err != nil {
		return zero, err
	}
	view, err := m.Read(offset, uint32(c.Size()))
	if err != nil {
		return zero, err
	}
	return c.Unmarshal(view)
}

// Slot returns the address of element i in a dense array of T at base.
func Slot[T any](base uint32, i int) (uint32, error) {
	size, err := codec.SizeOf[T]()
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errors.InvalidData(errors.PhaseStorage, nil, "negative slot index")
	}
	off := uint64(base) + uint64(i)*uint64(size)
	if off > math.MaxUint32 {
		return 0, errors.Overflow(errors.PhaseStorage, nil, size, int(off), 0)
	}
	return uint32(off), nil
}

// Region is a dense array of Len records of type T starting at Base.
type Region[T any] struct {
	mem  *Memory
	Base uint32
	Len  int
}

// NewRegion checks that n records of T fit in m at base.
func NewRegion[T any](m *Memory, base uint32, n int) (*Region[T], error) {
	if n < 0 {
		return nil, errors.InvalidData(errors.PhaseStorage, nil, "negative region length")
	}
	end, err := Slot[T](base, n)
	if err != nil {
		return nil, err
	}
	if size := m.Size(); end > size {
		remaining := 0
		if base < size {
			remaining = int(size - base)
		}
		return nil, errors.Overflow(errors.PhaseStorage, nil, int(end-base), int(base), remaining)
	}
	return &Region[T]{mem: m, Base: base, Len: n}, nil
}

func (r *Region[T]) slot(i int) (uint32, error) {
	if i < 0 || i >= r.Len {
		return 0, errors.New(errors.PhaseStorage, errors.KindOverflow).
			Detail("index %d out of range [0, %d)", i, r.Len).
			Build()
	}
	return Slot[T](r.Base, i)
}

// Get decodes record i.
func (r *Region[T]) Get(i int) (T, error) {
	off, err := r.slot(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return Load[T](r.mem, off)
}

// Set encodes v as record i.
func (r *Region[T]) Set(i int, v T) error {
	off, err := r.slot(i)
	if err != nil {
		return err
	}
	return Store(r.mem, off, v)
}
