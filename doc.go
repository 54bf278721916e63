// Package fixcodec is a fixed-layout binary serialization framework.
//
// Every value of a type encodes to the same number of bytes, little-endian,
// with no tags, lengths or padding. Structs, arrays, enums and generic
// types compose from the primitive integer and float widths.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	fixcodec/
//	├── binary/          Reader and Writer cursors over byte buffers
//	├── schema/          Type descriptions (record, tuple, enum, array) and validation
//	├── codec/           Compiles schemas against Go types; Encode, Decode, Size
//	├── errors/          Structured error types with field paths
//	├── inspect/         Schema-driven layout and dump without a Go type
//	├── witschema/       Schemas from WebAssembly Interface Types
//	├── wasmmem/         Records in wazero linear memory
//	├── recordfile/      Append-only files of fixed-size records
//	├── kvstore/         Fixed-layout keys and values in badger
//	└── cmd/fixlayout/   Layout inspector for WIT types
//
// # Quick Start
//
//	type Header struct {
//	    Version uint16
//	    Flags   [4]uint8
//	    Length  uint32
//	}
//
//	c, err := codec.For[Header]()
//	data, err := c.Marshal(Header{Version: 2, Length: 512}) // 10 bytes
//	h, err := c.Unmarshal(data)
//
// Enums declare their discriminants through a schema:
//
//	type Level int8
//
//	var levelSchema = &schema.Enum{
//	    Name:     "Level",
//	    Tag:      schema.I8,
//	    Variants: []schema.Variant{schema.Case("Low", 1), schema.Case("High", 2)},
//	}
//
//	func (Level) FixedSchema() schema.Type { return levelSchema }
//
// # Thread Safety
//
// Compilers and compiled codecs are safe for concurrent use. Reader and
// Writer are single-owner cursors; many Readers may share one immutable
// buffer.
package fixcodec
