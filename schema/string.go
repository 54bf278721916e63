package schema

import (
	"strconv"
	"strings"
)

// String renders t in a compact, Rust-like notation, for diagnostics:
//
//	record Header { version: u16, flags: [u8; 4] }
//	enum Level: i8 { Low = 1, High = 2 }
func String(t Type) string {
	var b strings.Builder
	write(&b, t)
	return b.String()
}

func write(b *strings.Builder, t Type) {
	switch typ := t.(type) {
	case nil:
		b.WriteString("<nil>")
	case Primitive:
		b.WriteString(typ.String())
	case *Record:
		b.WriteString("record")
		if typ.Name != "" {
			b.WriteByte(' ')
			b.WriteString(typ.Name)
		}
		if len(typ.Fields) == 0 {
			b.WriteString(" {}")
			return
		}
		b.WriteString(" { ")
		for i, f := range typ.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			write(b, f.Type)
		}
		b.WriteString(" }")
	case *Tuple:
		b.WriteByte('(')
		for i, elem := range typ.Types {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, elem)
		}
		b.WriteByte(')')
	case *Enum:
		b.WriteString("enum")
		if typ.Name != "" {
			b.WriteByte(' ')
			b.WriteString(typ.Name)
		}
		b.WriteString(": ")
		b.WriteString(typ.Tag.String())
		b.WriteString(" {")
		for i, v := range typ.Variants {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(v.Name)
			if v.Payload != nil {
				b.WriteByte('(')
				write(b, v.Payload)
				b.WriteByte(')')
			}
			if !v.Implicit {
				b.WriteString(" = ")
				b.WriteString(strconv.FormatInt(v.Value, 10))
			}
		}
		b.WriteString(" }")
	case *Array:
		b.WriteByte('[')
		write(b, typ.Elem)
		b.WriteString("; ")
		b.WriteString(strconv.Itoa(typ.Len))
		b.WriteByte(']')
	case *Custom:
		b.WriteString("custom ")
		b.WriteString(displayName(typ.Name, "<anonymous>"))
		b.WriteByte('<')
		b.WriteString(strconv.Itoa(typ.Size))
		b.WriteByte('>')
	case *Union:
		b.WriteString("union ")
		b.WriteString(displayName(typ.Name, "<anonymous>"))
	default:
		b.WriteString("<unknown>")
	}
}
