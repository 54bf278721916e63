// Package errors provides structured error types for fixcodec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/schema type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
//		Path("header", "version").
//		GoType("string").
//		SchemaType("u16").
//		Detail("cannot bind string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseDecode, path, 4, 10, 3)
//	err := errors.InvalidVariant(errors.PhaseDecode, path, 9, "enum<i8>")
//
// Decoding has two run-time failure kinds: KindOverflow (not enough bytes)
// and KindInvalidVariant (unknown enum tag). Match them with the sentinels:
//
//	if errors.Is(err, errors.ErrOverflow) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
