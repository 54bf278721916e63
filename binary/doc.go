// Package binary provides the cursor primitives every fixed-layout codec is
// built on: a Reader that decodes little-endian integers and floats from a
// borrowed buffer, and a Writer that appends them to an owned one.
//
// Reads are bounds checked and atomic with respect to the cursor: a read
// that needs more bytes than remain returns an errors.ErrOverflow match and
// leaves Position unchanged.
package binary
