package codec

import (
	"github.com/wippyai/fixcodec/codec/internal/types"
)

type TypeKind = types.Kind

const (
	KindI8     = types.KindI8
	KindU8     = types.KindU8
	KindI16    = types.KindI16
	KindU16    = types.KindU16
	KindI32    = types.KindI32
	KindU32    = types.KindU32
	KindI64    = types.KindI64
	KindU64    = types.KindU64
	KindF32    = types.KindF32
	KindF64    = types.KindF64
	KindRecord = types.KindRecord
	KindTuple  = types.KindTuple
	KindEnum   = types.KindEnum
	KindArray  = types.KindArray
	KindCustom = types.KindCustom
)

type CompiledType = types.CompiledType
type CompiledField = types.Field
type CompiledVariant = types.Variant
