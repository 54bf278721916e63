// Package codec generates fixed-layout binary codecs for Go types.
//
// A codec is compiled once per (schema, Go type) pair and cached. Encoding
// and decoding walk the compiled form using precomputed field offsets, so
// the schema is never consulted on the hot path.
//
// # Wire Format
//
// The encoding is little-endian and carries no metadata:
//
//	Type            Encoding
//	──────────────────────────────────────────────
//	i8..u64         natural width, two's complement
//	f32/f64         IEEE-754 bits, preserved exactly
//	record/tuple    fields in declared order, no padding
//	[N]T            N elements in index order
//	enum            the discriminant, in the tag's width
//	unit            nothing
//
// Every value of a type encodes to the same number of bytes, reported by
// Size and checked for custom codecs at compile time.
//
// # Schemas
//
// Schemas come from three places:
//
//	type Point struct { X, Y int32 }           // inferred: record { X: i32, Y: i32 }
//
//	type Level int8                            // declared via schema.Describer
//	func (Level) FixedSchema() schema.Type { return levelEnum }
//
//	codec.ForSchema[Pair](&schema.Tuple{...})  // bound explicitly
//
// Struct fields are named by the `fixed` tag or their Go name; `fixed:"-"`
// skips a field. Record fields bind by tag, case-insensitive name or
// kebab-case, tuples bind positionally.
//
// # Usage
//
//	c, err := codec.For[Header]()
//	data, err := c.Marshal(h)
//	h, err = c.Unmarshal(data)
//
// Generic helpers cover cursor-based use:
//
//	w := binary.NewWriter()
//	codec.Write(w, h)
//	codec.WriteAt(w, uint16(7), 10)      // zero-pads, append position unchanged
//	h, err := codec.ReadAt[Header](r, 0) // reader cursor unchanged
//
// # Errors
//
// Decoding fails with errors.ErrOverflow when the input is short and with
// errors.ErrInvalidVariant when an enum tag matches no discriminant. Both
// carry the field path of the failing value.
package codec
