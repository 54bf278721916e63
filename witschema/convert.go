package witschema

import (
	"strconv"
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/fixcodec/codec"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

// Converter maps WIT types to fixed-layout schemas. Conversions of a
// *wit.TypeDef are cached so the same definition always yields the same
// schema value, which keeps codec caches warm.
type Converter struct {
	cache sync.Map // *wit.TypeDef -> schema.Type
}

func NewConverter() *Converter {
	return &Converter{}
}

var defaultConverter = NewConverter()

// FromWIT converts t with the package-level converter.
func FromWIT(t wit.Type) (schema.Type, error) {
	return defaultConverter.Convert(t)
}

// Bind converts t and compiles it for T with the default compiler.
func Bind[T any](t wit.Type) (*codec.Codec[T], error) {
	s, err := FromWIT(t)
	if err != nil {
		return nil, err
	}
	return codec.ForSchema[T](s)
}

// Convert returns the fixed schema for t. The result is validated, so a
// variant carrying payloads fails here rather than at compile time.
func (c *Converter) Convert(t wit.Type) (schema.Type, error) {
	s, err := c.convert(t, nil)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Converter) convert(t wit.Type, path []string) (schema.Type, error) {
	switch typ := t.(type) {
	case wit.U8:
		return schema.U8, nil
	case wit.S8:
		return schema.I8, nil
	case wit.U16:
		return schema.U16, nil
	case wit.S16:
		return schema.I16, nil
	case wit.U32:
		return schema.U32, nil
	case wit.S32:
		return schema.I32, nil
	case wit.U64:
		return schema.U64, nil
	case wit.S64:
		return schema.I64, nil
	case wit.F32:
		return schema.F32, nil
	case wit.F64:
		return schema.F64, nil
	case *wit.TypeDef:
		return c.convertTypeDef(typ, path)
	case nil:
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Path(path...).
			Detail("WIT type cannot be nil").
			Build()
	default:
		return nil, errors.Unsupported(errors.PhaseCompile, path, "WIT type "+witName(t)+" has no fixed layout")
	}
}

func (c *Converter) convertTypeDef(td *wit.TypeDef, path []string) (schema.Type, error) {
	if cached, ok := c.cache.Load(td); ok {
		return cached.(schema.Type), nil
	}

	var name string
	if td.Name != nil {
		name = *td.Name
	}

	var (
		s   schema.Type
		err error
	)
	switch kind := td.Kind.(type) {
	case *wit.Record:
		s, err = c.convertRecord(name, kind, path)
	case *wit.Tuple:
		s, err = c.convertTuple(kind, path)
	case *wit.Enum:
		s = convertEnum(name, kind)
	case *wit.Variant:
		s, err = c.convertVariant(name, kind, path)
	case wit.Type:
		s, err = c.convert(kind, path)
	default:
		err = errors.Unsupported(errors.PhaseCompile, path, "WIT "+witName(td)+" has no fixed layout")
	}
	if err != nil {
		return nil, err
	}

	actual, _ := c.cache.LoadOrStore(td, s)
	return actual.(schema.Type), nil
}

func (c *Converter) convertRecord(name string, r *wit.Record, path []string) (schema.Type, error) {
	fields := make([]schema.Field, len(r.Fields))
	for i, f := range r.Fields {
		ft, err := c.convert(f.Type, append(append([]string{}, path...), f.Name))
		if err != nil {
			return nil, err
		}
		fields[i] = schema.Field{Name: f.Name, Type: ft}
	}
	return &schema.Record{Name: name, Fields: fields}, nil
}

func (c *Converter) convertTuple(t *wit.Tuple, path []string) (schema.Type, error) {
	types := make([]schema.Type, len(t.Types))
	for i, elem := range t.Types {
		et, err := c.convert(elem, append(append([]string{}, path...), "["+strconv.Itoa(i)+"]"))
		if err != nil {
			return nil, err
		}
		types[i] = et
	}
	return &schema.Tuple{Types: types}, nil
}

func convertEnum(name string, e *wit.Enum) schema.Type {
	variants := make([]schema.Variant, len(e.Cases))
	for i, cs := range e.Cases {
		variants[i] = schema.Case(cs.Name, int64(i))
	}
	return &schema.Enum{Name: name, Tag: discriminantTag(len(e.Cases)), Variants: variants}
}

// convertVariant keeps payload types on the result so validation can name
// the offending case.
func (c *Converter) convertVariant(name string, v *wit.Variant, path []string) (schema.Type, error) {
	variants := make([]schema.Variant, len(v.Cases))
	for i, cs := range v.Cases {
		variants[i] = schema.Case(cs.Name, int64(i))
		if cs.Type == nil {
			continue
		}
		pt, err := c.convert(cs.Type, append(append([]string{}, path...), cs.Name))
		if err != nil {
			return nil, err
		}
		variants[i].Payload = pt
	}
	return &schema.Enum{Name: name, Tag: discriminantTag(len(v.Cases)), Variants: variants}, nil
}

// discriminantTag picks the narrowest unsigned tag holding numCases
// indices, as the canonical ABI does.
func discriminantTag(numCases int) schema.Primitive {
	switch {
	case numCases <= 1<<8:
		return schema.U8
	case numCases <= 1<<16:
		return schema.U16
	default:
		return schema.U32
	}
}
