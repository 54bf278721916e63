// Package schema describes the shape of fixed-layout values.
//
// A schema is a tree of Primitive, Record, Tuple, Enum and Array nodes.
// Every valid schema has a statically known encoded size: primitives have
// their natural width, products are the sum of their fields, arrays are
// Len times the element size and enums are the width of their tag.
//
//	header := &schema.Record{Name: "Header", Fields: []schema.Field{
//		{Name: "version", Type: schema.U16},
//		{Name: "level", Type: &schema.Enum{Name: "Level", Tag: schema.I8, Variants: []schema.Variant{
//			schema.Case("Low", 1),
//			schema.Case("High", 2),
//		}}},
//	}}
//
// Validate reports schemas that cannot be encoded: enums without an
// integer tag, payload-bearing or implicitly numbered variants,
// discriminants outside the tag range and unions.
package schema
