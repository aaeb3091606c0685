// Package errors provides structured error types for the native bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the call path, managed/native type names and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
//		Path("JavaArrayTests", "combine_bytes", "arg0").
//		ManagedType("int32").
//		NativeType("byte[]").
//		Detail("argument does not match declaration").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseBorrow, path, 10, 5)
//	err := errors.Unresolved("JavaArrayTests.combine_bytes([B)J")
//
// The three contract errors of the bridge have sentinels that match on Kind
// regardless of Phase:
//
//	if errors.Is(err, bridgeerrors.ErrOutOfBounds) { ... }
//	if errors.Is(err, bridgeerrors.ErrEncoding) { ... }
//	if errors.Is(err, bridgeerrors.ErrUnresolved) { ... }
package errors
