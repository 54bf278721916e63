package inspect

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/codec"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

// Limits applied by Layout and Dump. Schemas beyond them are rejected
// before anything is read or allocated.
var (
	MaxSize   = codec.DefaultOptions().MaxSize
	MaxVisits = 1 << 20
)

// Entry describes one leaf of an encoded value.
type Entry struct {
	Path   string
	Type   string
	Value  string
	Offset int
	Size   int
}

// Layout lists the leaves of t with their wire offsets. Arrays of
// primitives are reported as a single entry.
func Layout(t schema.Type) ([]Entry, error) {
	if _, err := checkSize(t); err != nil {
		return nil, err
	}
	w := &walker{}
	if err := w.walk(t, nil); err != nil {
		return nil, err
	}
	return w.entries, nil
}

// Dump decodes data against t and renders every leaf. data must hold
// exactly one value.
func Dump(t schema.Type, data []byte) ([]Entry, error) {
	if _, err := checkSize(t); err != nil {
		return nil, err
	}
	w := &walker{r: binary.NewReader(data)}
	if err := w.walk(t, nil); err != nil {
		return nil, err
	}
	if rest := w.r.Remaining(); rest > 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			SchemaType(schema.String(t)).
			Detail("%d trailing bytes after %d-byte value", rest, w.offset).
			Build()
	}
	return w.entries, nil
}

// checkSize validates t and returns its encoded size, rejecting sizes
// above MaxSize.
func checkSize(t schema.Type) (int, error) {
	size, err := codec.SchemaSize(t)
	if err != nil {
		return 0, err
	}
	if MaxSize > 0 && size > MaxSize {
		return 0, errors.New(errors.PhaseValidate, errors.KindUnsupported).
			SchemaType(schema.String(t)).
			Detail("encoded size %d exceeds limit %d", size, MaxSize).
			Build()
	}
	return size, nil
}

// walker reads values when r is set and only tracks offsets otherwise.
type walker struct {
	r       *binary.Reader
	entries []Entry
	offset  int
	visits  int
}

func (w *walker) emit(path []string, t schema.Type, size int, value string) {
	w.entries = append(w.entries, Entry{
		Path:   errors.JoinPath(path),
		Type:   schema.String(t),
		Value:  value,
		Offset: w.offset,
		Size:   size,
	})
	w.offset += size
}

func (w *walker) walk(t schema.Type, path []string) error {
	w.visits++
	if MaxVisits > 0 && w.visits > MaxVisits {
		return errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Path(path...).
			Detail("schema has more than %d values", MaxVisits).
			Build()
	}

	switch typ := t.(type) {
	case schema.Primitive:
		value, err := w.primitive(typ)
		if err != nil {
			return at(err, path)
		}
		w.emit(path, typ, typ.Size(), value)

	case *schema.Record:
		for _, f := range typ.Fields {
			if err := w.walk(f.Type, appendPath(path, f.Name)); err != nil {
				return err
			}
		}

	case *schema.Tuple:
		for i, elem := range typ.Types {
			if err := w.walk(elem, appendPath(path, index(i))); err != nil {
				return err
			}
		}

	case *schema.Array:
		if p, ok := typ.Elem.(schema.Primitive); ok {
			return w.primitiveArray(typ, p, path)
		}
		for i := 0; i < typ.Len; i++ {
			if err := w.walk(typ.Elem, appendPath(path, index(i))); err != nil {
				return err
			}
		}

	case *schema.Enum:
		value, err := w.enum(typ)
		if err != nil {
			return at(err, path)
		}
		w.emit(path, typ, typ.Tag.Size(), value)

	case *schema.Custom:
		var value string
		if w.r != nil {
			b, err := w.r.Next(typ.Size)
			if err != nil {
				return at(err, path)
			}
			value = hex.EncodeToString(b)
		}
		w.emit(path, typ, typ.Size, value)

	default:
		return errors.Unsupported(errors.PhaseDecode, path, "schema type "+schema.String(t))
	}
	return nil
}

func (w *walker) primitiveArray(a *schema.Array, p schema.Primitive, path []string) error {
	size := a.Len * p.Size()
	if w.r == nil {
		w.emit(path, a, size, "")
		return nil
	}

	// Check the whole span first so a short input consumes nothing.
	if w.r.Remaining() < size {
		return at(errors.Overflow(errors.PhaseDecode, nil, size, w.r.Position(), w.r.Remaining()), path)
	}
	values := make([]string, a.Len)
	for i := range values {
		v, err := w.primitive(p)
		if err != nil {
			return at(err, appendPath(path, index(i)))
		}
		values[i] = v
	}
	w.emit(path, a, size, "["+strings.Join(values, " ")+"]")
	return nil
}

func (w *walker) primitive(p schema.Primitive) (string, error) {
	if w.r == nil {
		return "", nil
	}
	switch p {
	case schema.I8:
		v, err := w.r.ReadI8()
		return strconv.FormatInt(int64(v), 10), err
	case schema.U8:
		v, err := w.r.ReadU8()
		return strconv.FormatUint(uint64(v), 10), err
	case schema.I16:
		v, err := w.r.ReadI16()
		return strconv.FormatInt(int64(v), 10), err
	case schema.U16:
		v, err := w.r.ReadU16()
		return strconv.FormatUint(uint64(v), 10), err
	case schema.I32:
		v, err := w.r.ReadI32()
		return strconv.FormatInt(int64(v), 10), err
	case schema.U32:
		v, err := w.r.ReadU32()
		return strconv.FormatUint(uint64(v), 10), err
	case schema.I64:
		v, err := w.r.ReadI64()
		return strconv.FormatInt(v, 10), err
	case schema.U64:
		v, err := w.r.ReadU64()
		return strconv.FormatUint(v, 10), err
	case schema.F32:
		v, err := w.r.ReadF32()
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	default:
		v, err := w.r.ReadF64()
		return strconv.FormatFloat(v, 'g', -1, 64), err
	}
}

// enum renders the matching variant as "Name (value)".
func (w *walker) enum(e *schema.Enum) (string, error) {
	if w.r == nil {
		return "", nil
	}

	var tag int64
	switch e.Tag {
	case schema.I8:
		v, err := w.r.ReadI8()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	case schema.U8:
		v, err := w.r.ReadU8()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	case schema.I16:
		v, err := w.r.ReadI16()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	case schema.U16:
		v, err := w.r.ReadU16()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	case schema.I32:
		v, err := w.r.ReadI32()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	case schema.U32:
		v, err := w.r.ReadU32()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	case schema.I64:
		v, err := w.r.ReadI64()
		if err != nil {
			return "", err
		}
		tag = v
	default:
		v, err := w.r.ReadU64()
		if err != nil {
			return "", err
		}
		tag = int64(v)
	}

	for _, v := range e.Variants {
		if v.Value == tag {
			return v.Name + " (" + strconv.FormatInt(tag, 10) + ")", nil
		}
	}
	return "", errors.InvalidVariant(errors.PhaseDecode, nil, tag, schema.String(e))
}

// at sets the path of a fresh reader error.
func at(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = path
	}
	return err
}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
