package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseCompile,
				Kind:       KindTypeMismatch,
				Path:       []string{"header", "flags", "[2]"},
				GoType:     "string",
				SchemaType: "u32",
				Detail:     "cannot bind",
			},
			contains: []string{"[compile]", "type_mismatch", "header.flags[2]", "string", "u32", "cannot bind"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOverflow,
			},
			contains: []string{"[decode]", "overflow"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseStorage,
				Kind:   KindInvalidData,
				Detail: "short file",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[storage]", "invalid_data", "short file", "caused by", "underlying error"},
		},
		{
			name:     "sentinel without phase",
			err:      ErrInvalidVariant,
			contains: []string{"invalid_variant"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindOverflow,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindOverflow}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindOverflow}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidVariant}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrOverflow) {
		t.Error("errors.Is should match the phase-less sentinel")
	}
	if errors.Is(err, ErrInvalidVariant) {
		t.Error("errors.Is should not match a sentinel of another kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("user", "name").
		GoType("string").
		SchemaType("u32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "u32", "string").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" || err.SchemaType != "u32" {
		t.Errorf("GoType=%v SchemaType=%v", err.GoType, err.SchemaType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected u32, got string" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseDecode, []string{"val"}, 4, 10, 3)
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if !strings.Contains(err.Detail, "need 4 bytes at offset 10, 3 remaining") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("InvalidVariant", func(t *testing.T) {
		err := InvalidVariant(PhaseDecode, []string{"status"}, int64(9), "enum<i8>")
		if err.Kind != KindInvalidVariant {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidVariant)
		}
		if err.Value != int64(9) {
			t.Errorf("Value = %v, want 9", err.Value)
		}
	})

	t.Run("Capacity", func(t *testing.T) {
		err := Capacity(16, 20)
		if !errors.Is(err, ErrCapacity) {
			t.Errorf("Capacity should match ErrCapacity")
		}
		if err.Phase != PhaseEncode {
			t.Errorf("Phase = %v, want encode", err.Phase)
		}
	})

	t.Run("InvalidSchema", func(t *testing.T) {
		err := InvalidSchema([]string{"Color", "Red"}, "variant %q has no discriminant", "Red")
		if err.Phase != PhaseValidate || err.Kind != KindInvalidSchema {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Error(), `"Red"`) {
			t.Errorf("message %q should quote the variant", err.Error())
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseCompile, nil, "string fields")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("FieldMissing", func(t *testing.T) {
		err := FieldMissing(PhaseCompile, []string{"record"}, "name")
		if err.Kind != KindFieldMissing {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFieldMissing)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseDecode, nil, "*Header")
		if err.Kind != KindNilPointer || err.GoType != "*Header" {
			t.Errorf("got %v %v", err.Kind, err.GoType)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseStorage, "record", 7)
		if !errors.Is(err, ErrNotFound) {
			t.Error("NotFound should match ErrNotFound")
		}
	})
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a.b"},
		{[]string{"grid", "[1]", "[2]", "x"}, "grid[1][2].x"},
	}
	for _, tt := range tests {
		if got := JoinPath(tt.path); got != tt.want {
			t.Errorf("JoinPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsAs(t *testing.T) {
	err := Wrap(PhaseStorage, KindInvalidData, Overflow(PhaseDecode, nil, 4, 0, 1), "record 3")
	if !Is(err, ErrOverflow) {
		t.Error("Is should follow the cause chain")
	}
	var e *Error
	if !As(err, &e) || e.Kind != KindInvalidData {
		t.Errorf("As = %v", e)
	}
}
