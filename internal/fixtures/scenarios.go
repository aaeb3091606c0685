package fixtures

import (
	"context"
	"fmt"
	"slices"

	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/codec"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// Invoker calls a native method. *dispatch.Dispatcher implements it.
type Invoker interface {
	Invoke(ctx context.Context, sig signature.Signature, args ...any) (any, error)
}

// Combined is what combine_bytes returns for eight 1 bytes.
const Combined int64 = 72340172838076673

// Scenario is a managed-side program exercising one fixture library.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, inv Invoker) error
}

// Scenarios returns every scenario in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "arrays", Run: RunArrays},
		{Name: "greeting", Run: RunGreeting},
	}
}

// RunArrays packs and unpacks a long, then fills fresh byte and boolean
// arrays through their natives, checking each step.
func RunArrays(ctx context.Context, inv Invoker) error {
	bytes := array.ByteArrayOf(1, 1, 1, 1, 1, 1, 1, 1)

	out, err := inv.Invoke(ctx, CombineBytes, bytes)
	if err != nil {
		return err
	}
	combo, ok := out.(int64)
	if !ok || combo != Combined {
		return failed(CombineBytes, "expected %d got %v", Combined, out)
	}

	out, err = inv.Invoke(ctx, BreakBytes, combo)
	if err != nil {
		return err
	}
	broken, ok := out.(*array.ByteArray)
	if !ok || broken == nil || !slices.Equal(broken.Values(), bytes.Values()) {
		return failed(BreakBytes, "expected %v got %v", bytes.Values(), describe(out))
	}

	arr := array.NewByteArray(5)
	for i := range arr.Len() {
		if arr.At(i) != 0 {
			return failed(FillWithOnes, "array not initialized to 0 at index %d", i)
		}
	}
	if _, err := inv.Invoke(ctx, FillWithOnes, arr, int32(arr.Len())); err != nil {
		return err
	}
	for i := range arr.Len() {
		if arr.At(i) != 1 {
			return failed(FillWithOnes, "native did not set element %d to 1", i)
		}
	}

	flags := array.NewBoolArray(5)
	for i := range flags.Len() {
		if flags.At(i) {
			return failed(FillWithTrue, "array not initialized to false at index %d", i)
		}
	}
	if _, err := inv.Invoke(ctx, FillWithTrue, flags, int32(arr.Len())); err != nil {
		return err
	}
	for i := range flags.Len() {
		if !flags.At(i) {
			return failed(FillWithTrue, "native did not set element %d to true", i)
		}
	}
	return nil
}

// RunGreeting round-trips a name and two ints.
func RunGreeting(ctx context.Context, inv Invoker) error {
	name := codec.MustManagedString("duchess")
	out, err := inv.Invoke(ctx, BaseGreeting, name)
	if err != nil {
		return err
	}
	if got, ok := out.(codec.ManagedString); !ok || !got.Equal(name) {
		return failed(BaseGreeting, "expected %q got %v", name.String(), describe(out))
	}

	out, err = inv.Invoke(ctx, GetInt)
	if err != nil {
		return err
	}
	if out != int32(0) {
		return failed(GetInt, "expected 0 got %v", out)
	}

	out, err = inv.Invoke(ctx, EchoInt, int32(32))
	if err != nil {
		return err
	}
	if out != int32(32) {
		return failed(EchoInt, "expected 32 got %v", out)
	}
	return nil
}

func failed(sig signature.Signature, format string, args ...any) error {
	return errors.InvalidData(errors.PhaseRuntime, []string{sig.SimpleClass(), sig.Name}, fmt.Sprintf(format, args...))
}

func describe(v any) any {
	switch v := v.(type) {
	case *array.ByteArray:
		if v == nil {
			return "null"
		}
		return v.Values()
	case codec.ManagedString:
		if v == nil {
			return "null"
		}
		return fmt.Sprintf("%q", v.String())
	}
	return v
}
