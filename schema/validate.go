package schema

import (
	"strconv"

	"go.uber.org/multierr"

	"github.com/wippyai/fixcodec/errors"
)

// Validate checks t and everything it contains, reporting every problem
// found rather than the first. The returned error combines *errors.Error
// values of kind invalid_schema; use multierr.Errors to list them.
//
// A schema that contains itself has no fixed size and is rejected.
func Validate(t Type) error {
	v := &validator{active: make(map[Type]struct{})}
	return v.validate(t, nil)
}

// validator tracks the composite schemas on the current path.
type validator struct {
	active map[Type]struct{}
}

func (v *validator) validate(t Type, path []string) error {
	switch t.(type) {
	case *Record, *Tuple, *Array:
		if _, cyclic := v.active[t]; cyclic {
			return errors.InvalidSchema(path, "%s contains itself", kindName(t))
		}
		v.active[t] = struct{}{}
		defer delete(v.active, t)
	}

	switch typ := t.(type) {
	case nil:
		return errors.InvalidSchema(path, "missing type")
	case Primitive:
		if typ.Size() == 0 {
			return errors.InvalidSchema(path, "unknown primitive %d", uint8(typ))
		}
		return nil
	case *Record:
		return v.validateRecord(typ, path)
	case *Tuple:
		var err error
		for i, elem := range typ.Types {
			err = multierr.Append(err, v.validate(elem, appendPath(path, "["+strconv.Itoa(i)+"]")))
		}
		return err
	case *Enum:
		return validateEnum(typ, path)
	case *Array:
		var err error
		if typ.Len < 0 {
			err = errors.InvalidSchema(path, "negative array length %d", typ.Len)
		}
		return multierr.Append(err, v.validate(typ.Elem, appendPath(path, "[elem]")))
	case *Custom:
		if typ.Size < 0 {
			return errors.InvalidSchema(path, "custom %s has negative size %d", displayName(typ.Name, "<anonymous>"), typ.Size)
		}
		return nil
	case *Union:
		return errors.InvalidSchema(path, "union %s: shapes mixing named and positional members have no fixed layout", displayName(typ.Name, "<anonymous>"))
	default:
		return errors.InvalidSchema(path, "unknown schema type %T", t)
	}
}

func (v *validator) validateRecord(r *Record, path []string) error {
	var err error
	seen := make(map[string]struct{}, len(r.Fields))
	for _, f := range r.Fields {
		if f.Name == "" {
			err = multierr.Append(err, errors.InvalidSchema(path, "record field without a name"))
		} else if _, dup := seen[f.Name]; dup {
			err = multierr.Append(err, errors.InvalidSchema(path, "duplicate field %q", f.Name))
		}
		seen[f.Name] = struct{}{}
		err = multierr.Append(err, v.validate(f.Type, appendPath(path, f.Name)))
	}
	return err
}

func validateEnum(e *Enum, path []string) error {
	var err error
	name := displayName(e.Name, "enum")

	switch {
	case e.Tag == Invalid:
		err = errors.InvalidSchema(path, "%s declares no tag type", name)
	case !e.Tag.IsInteger():
		err = errors.InvalidSchema(path, "%s tag type %s is not an integer", name, e.Tag)
	}

	names := make(map[string]struct{}, len(e.Variants))
	values := make(map[int64]string, len(e.Variants))
	for _, v := range e.Variants {
		vpath := appendPath(path, v.Name)
		if _, dup := names[v.Name]; dup {
			err = multierr.Append(err, errors.InvalidSchema(vpath, "duplicate variant name %q", v.Name))
		}
		names[v.Name] = struct{}{}

		if v.Payload != nil {
			err = multierr.Append(err, errors.InvalidSchema(vpath, "variant %q carries a payload; only tag-only variants are supported", v.Name))
		}
		if v.Implicit {
			err = multierr.Append(err, errors.InvalidSchema(vpath, "variant %q has no explicit discriminant", v.Name))
			continue
		}
		if e.Tag.IsInteger() && !e.Tag.Fits(v.Value) {
			err = multierr.Append(err, errors.InvalidSchema(vpath, "discriminant %d of %q does not fit in %s", v.Value, v.Name, e.Tag))
		}
		if other, dup := values[v.Value]; dup {
			err = multierr.Append(err, errors.InvalidSchema(vpath, "discriminant %d of %q already used by %q", v.Value, v.Name, other))
		} else {
			values[v.Value] = v.Name
		}
	}
	return err
}

func kindName(t Type) string {
	switch t.(type) {
	case *Record:
		return "record"
	case *Tuple:
		return "tuple"
	default:
		return "array"
	}
}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
