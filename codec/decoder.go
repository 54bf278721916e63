package codec

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

type Decoder struct {
	compiler *Compiler
}

func NewDecoder() *Decoder {
	return &Decoder{compiler: defaultCompiler}
}

func NewDecoderWithCompiler(c *Compiler) *Decoder {
	return &Decoder{compiler: c}
}

// Decode reads one value into the non-nil pointer ptr. On failure *ptr is
// left untouched; the reader keeps whatever the failing read consumed.
func (d *Decoder) Decode(r *binary.Reader, ptr any) error {
	target, ct, err := d.target(ptr)
	if err != nil {
		return err
	}
	return d.decodeInto(r, ct, target)
}

// Unmarshal decodes data, which must hold exactly one encoded value.
func (d *Decoder) Unmarshal(data []byte, ptr any) error {
	target, ct, err := d.target(ptr)
	if err != nil {
		return err
	}
	if len(data) > ct.Size {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			GoType(ct.GoType.String()).
			Detail("%d trailing bytes after %d-byte value", len(data)-ct.Size, ct.Size).
			Build()
	}
	return d.decodeInto(binary.NewReader(data), ct, target)
}

func (d *Decoder) target(ptr any) (reflect.Value, *CompiledType, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, nil, errors.NilPointer(errors.PhaseDecode, nil, fmt.Sprintf("%T", ptr))
	}
	ct, err := d.compiler.CompileType(rv.Type().Elem())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, ct, nil
}

func (d *Decoder) decodeInto(r *binary.Reader, ct *CompiledType, target reflect.Value) error {
	tmp := reflect.New(ct.GoType)
	if err := DecodeCompiled(r, ct, tmp.UnsafePointer()); err != nil {
		return err
	}
	target.Elem().Set(tmp.Elem())
	return nil
}

// DecodeCompiled reads a value of type ct into the memory at ptr. On
// failure the memory may be partially written.
func DecodeCompiled(r *binary.Reader, ct *CompiledType, ptr unsafe.Pointer) error {
	if err := decodeValue(r, ct, ptr); err != nil {
		return annotate(err, ct)
	}
	return nil
}

func decodeValue(r *binary.Reader, ct *CompiledType, ptr unsafe.Pointer) error {
	if ct.Flat {
		return r.ReadBytes(unsafe.Slice((*byte)(ptr), ct.Size))
	}

	switch ct.Kind {
	case KindI8:
		v, err := r.ReadI8()
		if err != nil {
			return err
		}
		*(*int8)(ptr) = v
	case KindU8:
		v, err := r.ReadU8()
		if err != nil {
			return err
		}
		*(*uint8)(ptr) = v
	case KindI16:
		v, err := r.ReadI16()
		if err != nil {
			return err
		}
		*(*int16)(ptr) = v
	case KindU16:
		v, err := r.ReadU16()
		if err != nil {
			return err
		}
		*(*uint16)(ptr) = v
	case KindI32:
		v, err := r.ReadI32()
		if err != nil {
			return err
		}
		*(*int32)(ptr) = v
	case KindU32:
		v, err := r.ReadU32()
		if err != nil {
			return err
		}
		*(*uint32)(ptr) = v
	case KindI64:
		v, err := r.ReadI64()
		if err != nil {
			return err
		}
		*(*int64)(ptr) = v
	case KindU64:
		v, err := r.ReadU64()
		if err != nil {
			return err
		}
		*(*uint64)(ptr) = v
	case KindF32:
		v, err := r.ReadF32()
		if err != nil {
			return err
		}
		*(*float32)(ptr) = v
	case KindF64:
		v, err := r.ReadF64()
		if err != nil {
			return err
		}
		*(*float64)(ptr) = v

	case KindRecord, KindTuple:
		for i := range ct.Fields {
			f := &ct.Fields[i]
			if err := decodeValue(r, f.Type, unsafe.Add(ptr, f.GoOffset)); err != nil {
				return withPath(err, fieldSegment(ct, i))
			}
		}

	case KindArray:
		elemSize := ct.ElemType.GoSize
		for i := 0; i < ct.Len; i++ {
			if err := decodeValue(r, ct.ElemType, unsafe.Add(ptr, uintptr(i)*elemSize)); err != nil {
				return withPath(err, indexSegment(i))
			}
		}

	case KindEnum:
		return decodeEnum(r, ct, ptr)

	case KindCustom:
		before := r.Position()
		u := reflect.NewAt(ct.GoType, ptr).Interface().(Unmarshaler)
		if err := u.UnmarshalFixed(r); err != nil {
			return customError(err, ct)
		}
		if r.Position()-before != ct.Size {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				GoType(ct.GoType.String()).
				Detail("UnmarshalFixed consumed %d bytes, FixedSize reports %d", r.Position()-before, ct.Size).
				Build()
		}

	default:
		return errors.Unsupported(errors.PhaseDecode, nil, "type kind "+ct.Kind.String())
	}
	return nil
}

// decodeEnum reads the tag and accepts the first variant, in declared
// order, whose discriminant equals it. The tag stays consumed on failure.
func decodeEnum(r *binary.Reader, ct *CompiledType, ptr unsafe.Pointer) error {
	v, err := readTag(r, ct.Tag)
	if err != nil {
		return err
	}
	if ct.Lookup(v) < 0 {
		var shown any = v
		if ct.Tag == KindU64 && v < 0 {
			shown = uint64(v)
		}
		return errors.InvalidVariant(errors.PhaseDecode, nil, shown, schema.String(ct.Schema))
	}
	storeInt(ct.GoType.Kind(), ptr, v)
	return nil
}

func readTag(r *binary.Reader, tag TypeKind) (int64, error) {
	switch tag {
	case KindI8:
		v, err := r.ReadI8()
		return int64(v), err
	case KindU8:
		v, err := r.ReadU8()
		return int64(v), err
	case KindI16:
		v, err := r.ReadI16()
		return int64(v), err
	case KindU16:
		v, err := r.ReadU16()
		return int64(v), err
	case KindI32:
		v, err := r.ReadI32()
		return int64(v), err
	case KindU32:
		v, err := r.ReadU32()
		return int64(v), err
	case KindI64:
		return r.ReadI64()
	default:
		v, err := r.ReadU64()
		return int64(v), err
	}
}

func storeInt(kind reflect.Kind, ptr unsafe.Pointer, v int64) {
	switch kind {
	case reflect.Int8:
		*(*int8)(ptr) = int8(v)
	case reflect.Int16:
		*(*int16)(ptr) = int16(v)
	case reflect.Int32:
		*(*int32)(ptr) = int32(v)
	case reflect.Int64:
		*(*int64)(ptr) = v
	case reflect.Int:
		*(*int)(ptr) = int(v)
	case reflect.Uint8:
		*(*uint8)(ptr) = uint8(v)
	case reflect.Uint16:
		*(*uint16)(ptr) = uint16(v)
	case reflect.Uint32:
		*(*uint32)(ptr) = uint32(v)
	case reflect.Uint64:
		*(*uint64)(ptr) = uint64(v)
	case reflect.Uint:
		*(*uint)(ptr) = uint(v)
	}
}

// customError returns a private copy so path prefixes never touch an
// error value the custom decoder may share.
func customError(err error, ct *CompiledType) error {
	if e, ok := err.(*errors.Error); ok {
		cp := *e
		cp.Path = append([]string(nil), e.Path...)
		if cp.GoType == "" {
			cp.GoType = ct.GoType.String()
		}
		return &cp
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		GoType(ct.GoType.String()).
		Cause(err).
		Detail("UnmarshalFixed failed").
		Build()
}
