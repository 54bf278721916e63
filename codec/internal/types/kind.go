package types

type Kind uint8

const (
	KindI8 Kind = iota
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindF32
	KindF64
	KindRecord
	KindTuple
	KindEnum
	KindArray
	KindCustom
)

var kindNames = [...]string{
	KindI8:     "i8",
	KindU8:     "u8",
	KindI16:    "i16",
	KindU16:    "u16",
	KindI32:    "i32",
	KindU32:    "u32",
	KindI64:    "i64",
	KindU64:    "u64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindRecord: "record",
	KindTuple:  "tuple",
	KindEnum:   "enum",
	KindArray:  "array",
	KindCustom: "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k <= KindF64
}

// Width returns the encoded size of a primitive kind, 0 otherwise.
func (k Kind) Width() int {
	switch k {
	case KindI8, KindU8:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindF32:
		return 4
	case KindI64, KindU64, KindF64:
		return 8
	default:
		return 0
	}
}
