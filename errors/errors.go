package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile  Phase = "compile"  // schema binding and codec generation
	PhaseValidate Phase = "validate" // schema validation
	PhaseEncode   Phase = "encode"   // Go value to bytes
	PhaseDecode   Phase = "decode"   // bytes to Go value
	PhaseStorage  Phase = "storage"  // record files and key-value tables
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow       Kind = "overflow"
	KindInvalidVariant Kind = "invalid_variant"
	KindCapacity       Kind = "capacity"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
	KindInvalidSchema  Kind = "invalid_schema"
	KindInvalidData    Kind = "invalid_data"
	KindFieldMissing   Kind = "field_missing"
	KindNilPointer     Kind = "nil_pointer"
	KindNotFound       Kind = "not_found"
)

// Sentinels match errors of their kind raised in any phase.
var (
	ErrOverflow       = &Error{Kind: KindOverflow}
	ErrInvalidVariant = &Error{Kind: KindInvalidVariant}
	ErrCapacity       = &Error{Kind: KindCapacity}
	ErrInvalidSchema  = &Error{Kind: KindInvalidSchema}
	ErrNotFound       = &Error{Kind: KindNotFound}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	SchemaType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(JoinPath(e.Path))
	}

	if e.GoType != "" || e.SchemaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SchemaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", schema type ")
			b.WriteString(e.SchemaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("schema type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SchemaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches every phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// JoinPath renders a field path, attaching index segments ("[3]") to
// the preceding segment.
func JoinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SchemaType sets the schema type name
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Overflow reports a read that needs more bytes than remain in the buffer.
func Overflow(phase Phase, path []string, need, offset, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes at offset %d, %d remaining", need, offset, remaining),
		Value:  need,
	}
}

// InvalidVariant reports a tag value that matches no declared discriminant.
func InvalidVariant(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindInvalidVariant,
		Path:       path,
		SchemaType: enumType,
		Detail:     fmt.Sprintf("no variant with discriminant %v", value),
		Value:      value,
	}
}

// Capacity reports a write past the limit of a bounded buffer.
func Capacity(limit, need int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("buffer limit %d bytes exceeded, need %d", limit, need),
		Value:  need,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		SchemaType: schemaType,
	}
}

// Unsupported creates an unsupported-type error
func Unsupported(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		Detail: what + " not supported",
	}
}

// InvalidSchema reports a schema rejected by validation.
func InvalidSchema(path []string, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidSchema,
		Path:   path,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, key any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, key),
		Value:  key,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
