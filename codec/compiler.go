package codec

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/codec/internal/layout"
	"github.com/wippyai/fixcodec/errors"
	"github.com/wippyai/fixcodec/schema"
)

// Options configures a Compiler.
type Options struct {
	// Tag is the struct tag holding schema field names. A value of "-"
	// excludes the field.
	Tag string
	// MaxSize rejects types whose encoded size exceeds it. Zero disables
	// the check.
	MaxSize int
}

// DefaultOptions returns the options used by NewCompiler.
func DefaultOptions() Options {
	return Options{
		Tag:     "fixed",
		MaxSize: 1 << 30,
	}
}

// Compiler binds schemas to Go types and caches the result. It is safe
// for concurrent use.
type Compiler struct {
	layout   *layout.Calculator
	cache    sync.Map // cacheKey -> *CompiledType
	byType   sync.Map // reflect.Type -> *CompiledType
	inferred sync.Map // reflect.Type -> schema.Type
	bindings sync.Map // *schema.Record -> inferredBinding
	opts     Options
}

// inferredBinding remembers which struct field each inferred record field
// came from, so the record binds back by index instead of by name.
type inferredBinding struct {
	goType reflect.Type
	index  []int
}

type cacheKey struct {
	goType reflect.Type
	schema schema.Type
}

func NewCompiler() *Compiler {
	return NewCompilerWithOptions(DefaultOptions())
}

func NewCompilerWithOptions(opts Options) *Compiler {
	if opts.Tag == "" {
		opts.Tag = DefaultOptions().Tag
	}
	return &Compiler{
		layout: layout.NewCalculator(),
		opts:   opts,
	}
}

// Compile binds t to goType. Composite schemas are cached by pointer
// identity, so reuse the same schema value across calls.
func (c *Compiler) Compile(t schema.Type, goType reflect.Type) (*CompiledType, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	if t == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidSchema).
			GoType(goType.String()).
			Detail("schema cannot be nil").
			Build()
	}

	key := cacheKey{goType: goType, schema: t}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*CompiledType), nil
	}

	if err := schema.Validate(t); err != nil {
		return nil, err
	}

	ct, err := c.compile(t, goType, nil)
	if err != nil {
		return nil, err
	}

	if c.opts.MaxSize > 0 && ct.Size > c.opts.MaxSize {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			GoType(goType.String()).
			Detail("encoded size %d exceeds limit %d", ct.Size, c.opts.MaxSize).
			Build()
	}

	actual, loaded := c.cache.LoadOrStore(key, ct)
	if !loaded {
		Logger().Debug("compiled fixed codec",
			zap.Stringer("go_type", goType),
			zap.Stringer("kind", ct.Kind),
			zap.Int("size", ct.Size),
			zap.Bool("flat", ct.Flat))
	}
	return actual.(*CompiledType), nil
}

// CompileType infers the schema of goType and compiles it.
func (c *Compiler) CompileType(goType reflect.Type) (*CompiledType, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	if cached, ok := c.byType.Load(goType); ok {
		return cached.(*CompiledType), nil
	}

	t, err := c.Infer(goType)
	if err != nil {
		return nil, err
	}
	ct, err := c.Compile(t, goType)
	if err != nil {
		return nil, err
	}

	c.byType.Store(goType, ct)
	return ct, nil
}

// SchemaSize validates t and returns its encoded size without binding it
// to a Go type.
func (c *Compiler) SchemaSize(t schema.Type) (int, error) {
	if err := schema.Validate(t); err != nil {
		return 0, err
	}
	return c.layout.Calculate(t).Size, nil
}

// Infer returns the schema goType declares or implies:
//   - types implementing schema.Describer return their declared schema
//   - types implementing Marshaler, Sizer and (by pointer) Unmarshaler
//     become a schema.Custom leaf
//   - structs become a Record of their exported fields in declaration order
//   - arrays become an Array
//   - sized integer and float kinds become the matching Primitive
//
// int, uint and uintptr are rejected: their width depends on the platform.
func (c *Compiler) Infer(goType reflect.Type) (schema.Type, error) {
	return c.infer(goType, nil)
}

var describerType = reflect.TypeFor[schema.Describer]()

func (c *Compiler) infer(goType reflect.Type, path []string) (schema.Type, error) {
	if cached, ok := c.inferred.Load(goType); ok {
		return cached.(schema.Type), nil
	}

	t, err := c.inferUncached(goType, path)
	if err != nil {
		return nil, err
	}

	// Keep the first schema so identity-keyed caches stay stable.
	actual, _ := c.inferred.LoadOrStore(goType, t)
	return actual.(schema.Type), nil
}

func (c *Compiler) inferUncached(goType reflect.Type, path []string) (schema.Type, error) {
	if t, ok := describe(goType); ok {
		if t == nil {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidSchema).
				Path(path...).
				GoType(goType.String()).
				Detail("FixedSchema returned nil").
				Build()
		}
		return t, nil
	}

	if isCustom(goType) {
		size := reflect.Zero(goType).Interface().(Sizer).FixedSize()
		return &schema.Custom{Name: goType.String(), Size: size}, nil
	}

	switch goType.Kind() {
	case reflect.Int8:
		return schema.I8, nil
	case reflect.Uint8:
		return schema.U8, nil
	case reflect.Int16:
		return schema.I16, nil
	case reflect.Uint16:
		return schema.U16, nil
	case reflect.Int32:
		return schema.I32, nil
	case reflect.Uint32:
		return schema.U32, nil
	case reflect.Int64:
		return schema.I64, nil
	case reflect.Uint64:
		return schema.U64, nil
	case reflect.Float32:
		return schema.F32, nil
	case reflect.Float64:
		return schema.F64, nil
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(goType.String()).
			Detail("%s has a platform-dependent width, use a sized integer", goType.Kind()).
			Build()
	case reflect.Array:
		elem, err := c.infer(goType.Elem(), appendPath(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		return &schema.Array{Len: goType.Len(), Elem: elem}, nil
	case reflect.Struct:
		return c.inferStruct(goType, path)
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(goType.String()).
			Detail("%s values have no fixed layout", goType.Kind()).
			Build()
	}
}

func describe(goType reflect.Type) (schema.Type, bool) {
	if goType.Implements(describerType) {
		return reflect.Zero(goType).Interface().(schema.Describer).FixedSchema(), true
	}
	if reflect.PointerTo(goType).Implements(describerType) {
		return reflect.New(goType).Interface().(schema.Describer).FixedSchema(), true
	}
	return nil, false
}

func (c *Compiler) inferStruct(goType reflect.Type, path []string) (schema.Type, error) {
	fields := make([]schema.Field, 0, goType.NumField())
	index := make([]int, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		f := goType.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tag, ok := f.Tag.Lookup(c.opts.Tag); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		ft, err := c.infer(f.Type, appendPath(path, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.Field{Name: name, Type: ft})
		index = append(index, i)
	}
	r := &schema.Record{Name: goType.Name(), Fields: fields}
	c.bindings.Store(r, inferredBinding{goType: goType, index: index})
	return r, nil
}

func (c *Compiler) compile(t schema.Type, goType reflect.Type, path []string) (*CompiledType, error) {
	switch typ := t.(type) {
	case schema.Primitive:
		return c.compilePrimitive(typ, goType, path)
	case *schema.Record:
		return c.compileRecord(typ, goType, path)
	case *schema.Tuple:
		return c.compileTuple(typ, goType, path)
	case *schema.Enum:
		return c.compileEnum(typ, goType, path)
	case *schema.Array:
		return c.compileArray(typ, goType, path)
	case *schema.Custom:
		return c.compileCustom(typ, goType, path)
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported schema type: %T", t).
			Build()
	}
}

// primitiveKind maps a schema primitive to its compiled kind and the Go
// kind that may hold it.
func primitiveKind(p schema.Primitive) (TypeKind, reflect.Kind) {
	switch p {
	case schema.I8:
		return KindI8, reflect.Int8
	case schema.U8:
		return KindU8, reflect.Uint8
	case schema.I16:
		return KindI16, reflect.Int16
	case schema.U16:
		return KindU16, reflect.Uint16
	case schema.I32:
		return KindI32, reflect.Int32
	case schema.U32:
		return KindU32, reflect.Uint32
	case schema.I64:
		return KindI64, reflect.Int64
	case schema.U64:
		return KindU64, reflect.Uint64
	case schema.F32:
		return KindF32, reflect.Float32
	default:
		return KindF64, reflect.Float64
	}
}

func (c *Compiler) compilePrimitive(p schema.Primitive, goType reflect.Type, path []string) (*CompiledType, error) {
	kind, goKind := primitiveKind(p)
	if goType.Kind() != goKind {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), p.String())
	}

	return &CompiledType{
		GoType: goType,
		Schema: p,
		GoSize: goType.Size(),
		Size:   p.Size(),
		Kind:   kind,
		Flat:   hostLittleEndian,
	}, nil
}

func (c *Compiler) compileRecord(r *schema.Record, goType reflect.Type, path []string) (*CompiledType, error) {
	if goType.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "struct")
	}

	goFields, err := c.bindRecord(r, goType, path)
	if err != nil {
		return nil, err
	}

	info := c.layout.Calculate(r)
	fields := make([]CompiledField, 0, len(r.Fields))

	for i, sf := range r.Fields {
		goField := goFields[i]
		fieldType, err := c.compile(sf.Type, goField.Type, appendPath(path, sf.Name))
		if err != nil {
			return nil, err
		}

		fields = append(fields, CompiledField{
			Type:       fieldType,
			Name:       goField.Name,
			SchemaName: sf.Name,
			GoOffset:   goField.Offset,
			WireOffset: info.Offsets[i],
		})
	}

	ct := &CompiledType{
		GoType: goType,
		Schema: r,
		Fields: fields,
		Size:   info.Size,
		GoSize: goType.Size(),
		Kind:   KindRecord,
	}
	ct.Flat = hostLittleEndian && ct.IsFlat()
	return ct, nil
}

// bindRecord resolves the Go field of every record field. Records inferred
// from goType bind by struct index. Other records bind by name, and every
// Go field may be bound at most once.
func (c *Compiler) bindRecord(r *schema.Record, goType reflect.Type, path []string) ([]reflect.StructField, error) {
	out := make([]reflect.StructField, len(r.Fields))

	if b, ok := c.bindings.Load(r); ok {
		if b := b.(inferredBinding); b.goType == goType {
			for i, idx := range b.index {
				out[i] = goType.Field(idx)
			}
			return out, nil
		}
	}

	boundBy := make(map[int]string, len(r.Fields))
	for i, sf := range r.Fields {
		idx, found := c.findGoField(goType, sf.Name)
		if !found {
			return nil, errors.FieldMissing(errors.PhaseCompile, path, sf.Name)
		}
		if prev, dup := boundBy[idx]; dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidSchema).
				Path(appendPath(path, sf.Name)...).
				GoType(goType.String()).
				Detail("fields %q and %q both bind to %s", prev, sf.Name, goType.Field(idx).Name).
				Build()
		}
		boundBy[idx] = sf.Name
		out[i] = goType.Field(idx)
	}
	return out, nil
}

// findGoField returns the index of the struct field bound to name. Each rule
// is tried over all fields before the next: struct tag, exact Go name,
// case-insensitive name, kebab-case.
func (c *Compiler) findGoField(goType reflect.Type, name string) (int, bool) {
	candidates := make([]int, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag, ok := field.Tag.Lookup(c.opts.Tag); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName == name {
				return i, true
			}
		}
		candidates = append(candidates, i)
	}

	rules := []func(reflect.StructField) bool{
		func(f reflect.StructField) bool { return f.Name == name },
		func(f reflect.StructField) bool { return strings.EqualFold(f.Name, name) },
		func(f reflect.StructField) bool { return toKebabCase(f.Name) == name },
	}
	for _, match := range rules {
		for _, i := range candidates {
			if match(goType.Field(i)) {
				return i, true
			}
		}
	}
	return -1, false
}

func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// exportedFields lists the struct fields a tuple binds to positionally.
func (c *Compiler) exportedFields(goType reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		f := goType.Field(i)
		if !f.IsExported() || f.Tag.Get(c.opts.Tag) == "-" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func (c *Compiler) compileTuple(t *schema.Tuple, goType reflect.Type, path []string) (*CompiledType, error) {
	var goFields []reflect.StructField
	switch goType.Kind() {
	case reflect.Struct:
		goFields = c.exportedFields(goType)
		if len(goFields) != len(t.Types) {
			return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
				Path(path...).
				GoType(goType.String()).
				Detail("tuple has %d elements but struct has %d exported fields", len(t.Types), len(goFields)).
				Build()
		}
	case reflect.Array:
		if goType.Len() != len(t.Types) {
			return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
				Path(path...).
				GoType(goType.String()).
				Detail("tuple has %d elements but array has %d", len(t.Types), goType.Len()).
				Build()
		}
	default:
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "struct or array")
	}

	info := c.layout.Calculate(t)
	fields := make([]CompiledField, 0, len(t.Types))

	for i, elem := range t.Types {
		var elemGoType reflect.Type
		var goOffset uintptr
		var name string

		if goFields != nil {
			elemGoType = goFields[i].Type
			goOffset = goFields[i].Offset
			name = goFields[i].Name
		} else {
			elemGoType = goType.Elem()
			goOffset = uintptr(i) * elemGoType.Size()
		}

		elemType, err := c.compile(elem, elemGoType, appendPath(path, indexSegment(i)))
		if err != nil {
			return nil, err
		}

		fields = append(fields, CompiledField{
			Type:       elemType,
			Name:       name,
			GoOffset:   goOffset,
			WireOffset: info.Offsets[i],
		})
	}

	ct := &CompiledType{
		GoType: goType,
		Schema: t,
		Fields: fields,
		Size:   info.Size,
		GoSize: goType.Size(),
		Kind:   KindTuple,
	}
	ct.Flat = hostLittleEndian && ct.IsFlat()
	return ct, nil
}

func (c *Compiler) compileEnum(e *schema.Enum, goType reflect.Type, path []string) (*CompiledType, error) {
	if !isGoInteger(goType.Kind()) {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "integer")
	}

	variants := make([]CompiledVariant, len(e.Variants))
	for i, v := range e.Variants {
		if !goIntFits(goType, v.Value) {
			return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
				Path(appendPath(path, v.Name)...).
				GoType(goType.String()).
				SchemaType(schema.String(e)).
				Detail("discriminant %d does not fit in %s", v.Value, goType).
				Build()
		}
		variants[i] = CompiledVariant{Name: v.Name, Value: v.Value}
	}

	tag, _ := primitiveKind(e.Tag)
	return &CompiledType{
		GoType:   goType,
		Schema:   e,
		Variants: variants,
		Size:     e.Tag.Size(),
		GoSize:   goType.Size(),
		Kind:     KindEnum,
		Tag:      tag,
	}, nil
}

func isGoInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func goIntFits(goType reflect.Type, v int64) bool {
	bits := goType.Bits()
	switch goType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if bits == 64 {
			return true
		}
		limit := int64(1) << (bits - 1)
		return v >= -limit && v < limit
	default:
		if v < 0 {
			return false
		}
		return bits == 64 || v < int64(1)<<bits
	}
}

func (c *Compiler) compileArray(a *schema.Array, goType reflect.Type, path []string) (*CompiledType, error) {
	if goType.Kind() != reflect.Array {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), schema.String(a))
	}
	if goType.Len() != a.Len {
		return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			Path(path...).
			GoType(goType.String()).
			SchemaType(schema.String(a)).
			Detail("array length %d, schema length %d", goType.Len(), a.Len).
			Build()
	}

	elemType, err := c.compile(a.Elem, goType.Elem(), appendPath(path, "[elem]"))
	if err != nil {
		return nil, err
	}

	ct := &CompiledType{
		GoType:   goType,
		Schema:   a,
		ElemType: elemType,
		Len:      a.Len,
		Size:     c.layout.Calculate(a).Size,
		GoSize:   goType.Size(),
		Kind:     KindArray,
	}
	ct.Flat = hostLittleEndian && ct.IsFlat()
	return ct, nil
}

// compileCustom checks the size law of a self-encoding type on its zero
// value in both directions.
func (c *Compiler) compileCustom(cu *schema.Custom, goType reflect.Type, path []string) (*CompiledType, error) {
	if !isCustom(goType) {
		return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			Path(path...).
			GoType(goType.String()).
			SchemaType(schema.String(cu)).
			Detail("type must implement MarshalFixed, FixedSize and (on its pointer) UnmarshalFixed").
			Build()
	}

	zero := reflect.Zero(goType).Interface()
	size := zero.(Sizer).FixedSize()
	if size != cu.Size {
		return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			Path(path...).
			GoType(goType.String()).
			SchemaType(schema.String(cu)).
			Detail("FixedSize reports %d bytes", size).
			Build()
	}

	w := binary.NewWriterSize(size)
	zero.(Marshaler).MarshalFixed(w)
	if w.Len() != size {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
			Path(path...).
			GoType(goType.String()).
			Detail("MarshalFixed wrote %d bytes for the zero value, FixedSize reports %d", w.Len(), size).
			Build()
	}

	r := binary.NewReader(w.Bytes())
	if err := reflect.New(goType).Interface().(Unmarshaler).UnmarshalFixed(r); err != nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
			Path(path...).
			GoType(goType.String()).
			Cause(err).
			Detail("UnmarshalFixed rejects the encoded zero value").
			Build()
	}
	if r.Position() != size {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
			Path(path...).
			GoType(goType.String()).
			Detail("UnmarshalFixed consumed %d bytes, FixedSize reports %d", r.Position(), size).
			Build()
	}

	return &CompiledType{
		GoType: goType,
		Schema: cu,
		Size:   size,
		GoSize: goType.Size(),
		Kind:   KindCustom,
	}, nil
}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
