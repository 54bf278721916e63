// Package layout computes the packed wire layout of schema types.
//
// # Layout Rules
//
// Fixed layouts carry no alignment padding:
//   - Primitives: natural width (i8/u8=1, i16/u16=2, i32/u32/f32=4, i64/u64/f64=8)
//   - Records and tuples: fields back to back, size is the sum
//   - Arrays: Len elements back to back, size is Len times the element size
//   - Enums: the width of the tag type, whatever the variant
//
// # Usage
//
//	info := layout.NewCalculator().Calculate(schemaType)
//	// info.Size, info.Offsets available
//
// This package is internal to the codec.
package layout
