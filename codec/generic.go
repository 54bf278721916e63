package codec

import (
	"github.com/wippyai/fixcodec/binary"
)

// Write appends v to w.
func Write[T any](w *binary.Writer, v T) error {
	c, err := For[T]()
	if err != nil {
		return err
	}
	return c.Encode(w, v)
}

// Read decodes one T from r.
func Read[T any](r *binary.Reader) (T, error) {
	c, err := For[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Decode(r)
}

// WriteAt writes v at an absolute offset of w, zero-padding w up to
// offset when it is shorter. The append position of w is unchanged.
func WriteAt[T any](w *binary.Writer, v T, offset int) error {
	c, err := For[T]()
	if err != nil {
		return err
	}
	scratch, err := c.Marshal(v)
	if err != nil {
		return err
	}
	w.WriteBytesAt(scratch, offset)
	return w.Err()
}

// ReadAt decodes one T at an absolute offset of r's buffer. The cursor
// of r is not moved.
func ReadAt[T any](r *binary.Reader, offset int) (T, error) {
	sub, err := r.At(offset)
	if err != nil {
		var zero T
		return zero, err
	}
	return Read[T](sub)
}

// SizeOf returns the encoded size of T.
func SizeOf[T any]() (int, error) {
	c, err := For[T]()
	if err != nil {
		return 0, err
	}
	return c.Size(), nil
}

// MustSizeOf is like SizeOf but panics if T has no fixed layout.
func MustSizeOf[T any]() int {
	n, err := SizeOf[T]()
	if err != nil {
		panic(err)
	}
	return n
}
