package binary

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/fixcodec/errors"
)

// Options configures a Writer.
type Options struct {
	// Capacity preallocates the buffer.
	Capacity int
	// Limit caps the buffer length in bytes. Zero means unbounded.
	Limit int
}

// DefaultOptions returns an unbounded writer configuration.
func DefaultOptions() Options {
	return Options{Capacity: 64}
}

// Writer is a little-endian encoder over an owned, growable buffer.
//
// Sequential writes go to the append position. WriteBytesAt writes at an
// absolute offset and never moves the append position, so a later
// sequential write may overwrite bytes placed there.
//
// A Writer with a Limit drops any write that would grow past it and
// latches ErrCapacity, reported by Err and Finish. WriteBytesAt with a
// negative offset latches ErrOverflow the same way. Once an error is
// latched every later write is dropped. An unbounded Writer fed valid
// offsets never fails.
type Writer struct {
	buf   []byte
	err   error
	pos   int
	limit int
}

// NewWriter creates an unbounded Writer.
func NewWriter() *Writer {
	return NewWriterWithOptions(DefaultOptions())
}

// NewWriterSize creates an unbounded Writer with the given initial capacity.
func NewWriterSize(capacity int) *Writer {
	return NewWriterWithOptions(Options{Capacity: capacity})
}

// NewWriterWithOptions creates a Writer from opts.
func NewWriterWithOptions(opts Options) *Writer {
	c := opts.Capacity
	if c < 0 {
		c = 0
	}
	if opts.Limit > 0 && c > opts.Limit {
		c = opts.Limit
	}
	return &Writer{buf: make([]byte, 0, c), limit: opts.Limit}
}

// Bytes returns the written bytes. The slice aliases the buffer until the
// next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the buffer extent, including zero padding from WriteBytesAt.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Position returns the append position.
func (w *Writer) Position() int {
	return w.pos
}

// Err returns the latched error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Finish hands the buffer to the caller and resets the writer to empty.
func (w *Writer) Finish() ([]byte, error) {
	b, err := w.buf, w.err
	w.buf, w.pos, w.err = nil, 0, nil
	return b, err
}

// Reset empties the writer, keeping the allocated capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.pos = 0
	w.err = nil
}

// span makes buf[off:off+n] addressable, zero-filling any new bytes.
func (w *Writer) span(off, n int) []byte {
	if w.err != nil {
		return nil
	}
	end := off + n
	if end > len(w.buf) {
		if w.limit > 0 && end > w.limit {
			w.err = errors.Capacity(w.limit, end)
			return nil
		}
		if end > cap(w.buf) {
			grown := make([]byte, len(w.buf), max(end, 2*cap(w.buf)))
			copy(grown, w.buf)
			w.buf = grown
		}
		clear(w.buf[len(w.buf):end])
		w.buf = w.buf[:end]
	}
	return w.buf[off:end]
}

// next reserves n bytes at the append position.
func (w *Writer) next(n int) []byte {
	b := w.span(w.pos, n)
	if b != nil {
		w.pos += n
	}
	return b
}

// WriteBytes writes p at the append position.
func (w *Writer) WriteBytes(p []byte) {
	if b := w.next(len(p)); b != nil {
		copy(b, p)
	}
}

// WriteBytesAt writes p at an absolute offset, zero-padding the buffer up
// to offset when it is shorter. The append position is unchanged.
func (w *Writer) WriteBytesAt(p []byte, offset int) {
	if offset < 0 {
		if w.err == nil {
			w.err = errors.New(errors.PhaseEncode, errors.KindOverflow).
				Value(offset).
				Detail("negative write offset %d", offset).
				Build()
		}
		return
	}
	if b := w.span(offset, len(p)); b != nil {
		copy(b, p)
	}
}

// WriteU8 writes one unsigned byte.
func (w *Writer) WriteU8(v uint8) {
	if b := w.next(1); b != nil {
		b[0] = v
	}
}

// WriteI8 writes one signed byte.
func (w *Writer) WriteI8(v int8) {
	w.WriteU8(uint8(v))
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	if b := w.next(2); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
}

// WriteI16 writes a little-endian int16.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	if b := w.next(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

// WriteI32 writes a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	if b := w.next(8); b != nil {
		binary.LittleEndian.PutUint64(b, v)
	}
}

// WriteI64 writes a little-endian int64.
func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteF32 writes the IEEE-754 bits of v.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes the IEEE-754 bits of v.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}
