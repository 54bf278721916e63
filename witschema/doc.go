// Package witschema derives fixed-layout schemas from WebAssembly
// Interface Types.
//
// Only WIT types whose encoding is a fixed number of bytes convert:
//
//	WIT                  schema
//	──────────────────────────────────────────────
//	u8..u64, s8..s64     matching Primitive
//	f32, f64             F32, F64
//	record               Record, same field order
//	tuple                Tuple
//	enum                 Enum, discriminant = case index
//	variant (no data)    Enum, discriminant = case index
//
// The tag of a converted enum is u8, u16 or u32 depending on the case
// count. bool, char, string, list, option, result, flags and resource
// handles are rejected with errors.KindUnsupported.
package witschema
