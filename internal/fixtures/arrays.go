// Package fixtures provides the reference native libraries: an arrays
// library that packs, unpacks and fills arrays, and a greeting library that
// echoes strings and ints. Each is available as Go bodies and as a
// WebAssembly module, together with the managed-side scenarios that drive
// them.
package fixtures

import (
	"context"

	"github.com/wippyai/native-bridge/codec"
	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// ArraysClass declares the array natives.
const ArraysClass = "java_to_rust_arrays.JavaArrayTests"

var (
	CombineBytes = signature.MustNew(ArraysClass, "combine_bytes", signature.I64, signature.ByteArray).AsStatic()
	BreakBytes   = signature.MustNew(ArraysClass, "break_bytes", signature.ByteArray, signature.I64).AsStatic()
	FillWithOnes = signature.MustNew(ArraysClass, "fillWithOnes", signature.I64, signature.ByteArray, signature.I32).AsStatic()
	FillWithTrue = signature.MustNew(ArraysClass, "fillWithTrue", signature.I64, signature.BoolArray, signature.I32).AsStatic()
)

// ArraysSignatures returns the declarations of the arrays library.
func ArraysSignatures() []signature.Signature {
	return []signature.Signature{CombineBytes, BreakBytes, FillWithOnes, FillWithTrue}
}

// RegisterArrays binds the Go bodies of the arrays library.
func RegisterArrays(r dispatch.Registrar) error {
	bodies := []struct {
		sig signature.Signature
		fn  dispatch.Func
	}{
		{CombineBytes, combineBytes},
		{BreakBytes, breakBytes},
		{FillWithOnes, fillWithOnes},
		{FillWithTrue, fillWithTrue},
	}
	for _, b := range bodies {
		if err := r.Register(b.sig, b.fn); err != nil {
			return err
		}
	}
	return nil
}

// combineBytes packs exactly 8 elements, least-significant first.
func combineBytes(_ context.Context, call *dispatch.Call) (any, error) {
	n, err := call.Len(0)
	if err != nil {
		return nil, err
	}
	if n != 8 {
		return nil, errors.LengthMismatch(errors.PhaseBorrow, []string{CombineBytes.SimpleClass(), CombineBytes.Name, "arg0"}, 8, n)
	}
	view, err := call.Bytes(0, n)
	if err != nil {
		return nil, err
	}
	raw, err := view.Region(0, n)
	if err != nil {
		return nil, err
	}
	return codec.CombineBytes(raw)
}

func breakBytes(_ context.Context, call *dispatch.Call) (any, error) {
	n, err := call.Int64(0)
	if err != nil {
		return nil, err
	}
	return codec.SplitBytes(n), nil
}

func fillWithOnes(_ context.Context, call *dispatch.Call) (any, error) {
	n, err := call.Int32(1)
	if err != nil {
		return nil, err
	}
	view, err := call.Bytes(0, int(n))
	if err != nil {
		return nil, err
	}
	if err := view.Fill(1); err != nil {
		return nil, err
	}
	return int64(0), nil
}

func fillWithTrue(_ context.Context, call *dispatch.Call) (any, error) {
	n, err := call.Int32(1)
	if err != nil {
		return nil, err
	}
	view, err := call.Bools(0, int(n))
	if err != nil {
		return nil, err
	}
	if err := view.Fill(true); err != nil {
		return nil, err
	}
	return int64(0), nil
}
