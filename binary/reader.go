package binary

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/fixcodec/errors"
)

// Reader is a bounds-checked little-endian cursor over a borrowed byte slice.
// It never mutates the slice. A failed read leaves the cursor unchanged.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Len returns the length of the whole buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Bytes returns the whole underlying buffer.
func (r *Reader) Bytes() []byte {
	return r.data
}

// At returns a new Reader over the same buffer positioned at offset.
// The receiver's cursor is not touched.
func (r *Reader) At(offset int) (*Reader, error) {
	if offset < 0 || offset > len(r.data) {
		return nil, errors.New(errors.PhaseDecode, errors.KindOverflow).
			Value(offset).
			Detail("offset %d outside buffer of %d bytes", offset, len(r.data)).
			Build()
	}
	return &Reader{data: r.data, pos: offset}, nil
}

// take returns the next n bytes and advances, or fails without moving.
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.data)-r.pos < n {
		return nil, errors.Overflow(errors.PhaseDecode, nil, n, r.pos, len(r.data)-r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Next returns a view of the next n bytes without copying.
func (r *Reader) Next(n int) ([]byte, error) {
	return r.take(n)
}

// ReadBytes fills dst from the buffer. Either all of dst is filled or
// nothing is consumed.
func (r *Reader) ReadBytes(dst []byte) error {
	b, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadI16 reads a little-endian int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI64 reads a little-endian int64.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE-754 float32. The bit pattern is preserved.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE-754 float64. The bit pattern is preserved.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}
