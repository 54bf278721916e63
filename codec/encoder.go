package codec

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

// hostLittleEndian enables raw memory copies of flat types.
var hostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

type Encoder struct {
	compiler *Compiler
}

func NewEncoder() *Encoder {
	return &Encoder{compiler: defaultCompiler}
}

func NewEncoderWithCompiler(c *Compiler) *Encoder {
	return &Encoder{compiler: c}
}

// Encode appends v to w. v may be a value or a non-nil pointer to one.
// An undeclared enum value fails with ErrInvalidVariant; bytes written
// before the failure stay in w.
func (e *Encoder) Encode(w *binary.Writer, v any) error {
	ptr, goType, err := valuePointer(v)
	if err != nil {
		return err
	}
	ct, err := e.compiler.CompileType(goType)
	if err != nil {
		return err
	}
	return EncodeCompiled(w, ct, ptr)
}

// Size returns the encoded size of v's type.
func (e *Encoder) Size(v any) (int, error) {
	if v == nil {
		return 0, errors.NilPointer(errors.PhaseCompile, nil, "<nil>")
	}
	goType := reflect.TypeOf(v)
	if goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}
	ct, err := e.compiler.CompileType(goType)
	if err != nil {
		return 0, err
	}
	return ct.Size, nil
}

// Marshal encodes v into a new buffer of exactly its encoded size.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	ptr, goType, err := valuePointer(v)
	if err != nil {
		return nil, err
	}
	ct, err := e.compiler.CompileType(goType)
	if err != nil {
		return nil, err
	}
	w := binary.NewWriterSize(ct.Size)
	if err := EncodeCompiled(w, ct, ptr); err != nil {
		return nil, err
	}
	return w.Finish()
}

func valuePointer(v any) (unsafe.Pointer, reflect.Type, error) {
	if v == nil {
		return nil, nil, errors.NilPointer(errors.PhaseEncode, nil, "<nil>")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, errors.NilPointer(errors.PhaseEncode, nil, rv.Type().String())
		}
		return rv.UnsafePointer(), rv.Type().Elem(), nil
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p.UnsafePointer(), rv.Type(), nil
}

// EncodeCompiled writes the value of type ct stored at ptr. It reports a
// capacity error latched by w.
func EncodeCompiled(w *binary.Writer, ct *CompiledType, ptr unsafe.Pointer) error {
	if err := encodeValue(w, ct, ptr); err != nil {
		return annotate(err, ct)
	}
	return w.Err()
}

func encodeValue(w *binary.Writer, ct *CompiledType, ptr unsafe.Pointer) error {
	if ct.Flat {
		w.WriteBytes(unsafe.Slice((*byte)(ptr), ct.Size))
		return nil
	}

	switch ct.Kind {
	case KindI8:
		w.WriteI8(*(*int8)(ptr))
	case KindU8:
		w.WriteU8(*(*uint8)(ptr))
	case KindI16:
		w.WriteI16(*(*int16)(ptr))
	case KindU16:
		w.WriteU16(*(*uint16)(ptr))
	case KindI32:
		w.WriteI32(*(*int32)(ptr))
	case KindU32:
		w.WriteU32(*(*uint32)(ptr))
	case KindI64:
		w.WriteI64(*(*int64)(ptr))
	case KindU64:
		w.WriteU64(*(*uint64)(ptr))
	case KindF32:
		w.WriteF32(*(*float32)(ptr))
	case KindF64:
		w.WriteF64(*(*float64)(ptr))

	case KindRecord, KindTuple:
		for i := range ct.Fields {
			f := &ct.Fields[i]
			if err := encodeValue(w, f.Type, unsafe.Add(ptr, f.GoOffset)); err != nil {
				return withPath(err, fieldSegment(ct, i))
			}
		}

	case KindArray:
		elemSize := ct.ElemType.GoSize
		for i := 0; i < ct.Len; i++ {
			if err := encodeValue(w, ct.ElemType, unsafe.Add(ptr, uintptr(i)*elemSize)); err != nil {
				return withPath(err, indexSegment(i))
			}
		}

	case KindEnum:
		return encodeEnum(w, ct, ptr)

	case KindCustom:
		before := w.Position()
		reflect.NewAt(ct.GoType, ptr).Elem().Interface().(Marshaler).MarshalFixed(w)
		if w.Err() == nil && w.Position()-before != ct.Size {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				GoType(ct.GoType.String()).
				Detail("MarshalFixed wrote %d bytes, FixedSize reports %d", w.Position()-before, ct.Size).
				Build()
		}

	default:
		return errors.Unsupported(errors.PhaseEncode, nil, "type kind "+ct.Kind.String())
	}
	return nil
}

func encodeEnum(w *binary.Writer, ct *CompiledType, ptr unsafe.Pointer) error {
	v, ok := loadInt(ct.GoType.Kind(), ptr)
	if !ok || ct.Lookup(v) < 0 {
		var shown any = v
		if !ok {
			shown = uint64(v)
		}
		return errors.InvalidVariant(errors.PhaseEncode, nil, shown, schema.String(ct.Schema))
	}
	writeTag(w, ct.Tag, v)
	return nil
}

// loadInt reads a Go integer of the given kind. ok is false for uint64
// values beyond the int64 range.
func loadInt(kind reflect.Kind, ptr unsafe.Pointer) (int64, bool) {
	switch kind {
	case reflect.Int8:
		return int64(*(*int8)(ptr)), true
	case reflect.Int16:
		return int64(*(*int16)(ptr)), true
	case reflect.Int32:
		return int64(*(*int32)(ptr)), true
	case reflect.Int64:
		return *(*int64)(ptr), true
	case reflect.Int:
		return int64(*(*int)(ptr)), true
	case reflect.Uint8:
		return int64(*(*uint8)(ptr)), true
	case reflect.Uint16:
		return int64(*(*uint16)(ptr)), true
	case reflect.Uint32:
		return int64(*(*uint32)(ptr)), true
	case reflect.Uint64:
		u := *(*uint64)(ptr)
		return int64(u), u <= 1<<63-1
	case reflect.Uint:
		u := uint64(*(*uint)(ptr))
		return int64(u), u <= 1<<63-1
	}
	return 0, false
}

func writeTag(w *binary.Writer, tag TypeKind, v int64) {
	switch tag {
	case KindI8:
		w.WriteI8(int8(v))
	case KindU8:
		w.WriteU8(uint8(v))
	case KindI16:
		w.WriteI16(int16(v))
	case KindU16:
		w.WriteU16(uint16(v))
	case KindI32:
		w.WriteI32(int32(v))
	case KindU32:
		w.WriteU32(uint32(v))
	case KindI64:
		w.WriteI64(v)
	default:
		w.WriteU64(uint64(v))
	}
}

func fieldSegment(ct *CompiledType, i int) string {
	if ct.Kind == KindRecord {
		return ct.Fields[i].SchemaName
	}
	return indexSegment(i)
}

// withPath prefixes the path of an error raised below a field.
func withPath(err error, seg string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append([]string{seg}, e.Path...)
	}
	return err
}

func annotate(err error, ct *CompiledType) error {
	if e, ok := err.(*errors.Error); ok && e.GoType == "" {
		e.GoType = ct.GoType.String()
	}
	return err
}
