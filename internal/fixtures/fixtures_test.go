package fixtures_test

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/codec"
	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/fixtures"
	"github.com/wippyai/native-bridge/wasmlib"
)

// backends returns a dispatcher per implementation of the fixture
// libraries.
func backends(t *testing.T) map[string]*dispatch.Dispatcher {
	t.Helper()
	ctx := context.Background()

	goReg := dispatch.NewRegistry()
	if err := fixtures.RegisterArrays(goReg); err != nil {
		t.Fatal(err)
	}
	if err := fixtures.RegisterGreeting(goReg); err != nil {
		t.Fatal(err)
	}

	loader, err := wasmlib.NewLoader(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = loader.Close(ctx) })

	wasmReg := dispatch.NewRegistry()
	arrays, err := loader.Load(ctx, "native_fn_arrays", fixtures.ArraysWASM())
	if err != nil {
		t.Fatal(err)
	}
	if err := arrays.Bind(wasmReg, fixtures.ArraysSignatures()...); err != nil {
		t.Fatal(err)
	}
	greeting, err := loader.Load(ctx, "native_fn_callable_from_java", fixtures.GreetingWASM())
	if err != nil {
		t.Fatal(err)
	}
	if err := greeting.Bind(wasmReg, fixtures.GreetingSignatures()...); err != nil {
		t.Fatal(err)
	}

	return map[string]*dispatch.Dispatcher{
		"go":   dispatch.New(goReg),
		"wasm": dispatch.New(wasmReg),
	}
}

func TestScenarios(t *testing.T) {
	for name, d := range backends(t) {
		for _, sc := range fixtures.Scenarios() {
			t.Run(name+"/"+sc.Name, func(t *testing.T) {
				if err := sc.Run(context.Background(), d); err != nil {
					t.Fatal(err)
				}
			})
		}
	}
}

func TestScenarioUnbound(t *testing.T) {
	reg := dispatch.NewRegistry()
	if err := reg.Declare(fixtures.ArraysSignatures()...); err != nil {
		t.Fatal(err)
	}
	err := fixtures.RunArrays(context.Background(), dispatch.New(reg))
	if !errors.Is(err, errors.ErrUnresolved) {
		t.Errorf("err = %v, want unresolved", err)
	}
}

// The two backends agree on results and on failures.
func TestBackendsAgree(t *testing.T) {
	ctx := context.Background()
	bs := backends(t)
	goD, wasmD := bs["go"], bs["wasm"]

	r := rand.New(rand.NewPCG(5, 6))
	for range 32 {
		n := int64(r.Uint64())
		a, err := goD.Invoke(ctx, fixtures.BreakBytes, n)
		if err != nil {
			t.Fatal(err)
		}
		b, err := wasmD.Invoke(ctx, fixtures.BreakBytes, n)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(a.(*array.ByteArray).Values(), b.(*array.ByteArray).Values()) {
			t.Fatalf("break_bytes(%d) differs", n)
		}
	}

	failures := []struct {
		name string
		args []any
	}{
		{"short array", []any{array.NewByteArray(2), int32(3)}},
		{"negative length", []any{array.NewByteArray(2), int32(-2)}},
	}
	for _, f := range failures {
		t.Run(f.name, func(t *testing.T) {
			for name, d := range bs {
				_, err := d.Invoke(ctx, fixtures.FillWithOnes, f.args...)
				if !errors.Is(err, errors.ErrOutOfBounds) {
					t.Errorf("%s: err = %v, want out of bounds", name, err)
				}
			}
		})
	}

	for name, d := range bs {
		for _, arr := range []*array.ByteArray{array.ByteArrayOf(1, 2, 3), array.NewByteArray(10)} {
			_, err := d.Invoke(ctx, fixtures.CombineBytes, arr)
			if !errors.Is(err, errors.ErrOutOfBounds) {
				t.Errorf("%s: combine over %d elements: err = %v", name, arr.Len(), err)
			}
		}
	}
}

func TestGoGreetingNullName(t *testing.T) {
	reg := dispatch.NewRegistry()
	if err := fixtures.RegisterGreeting(reg); err != nil {
		t.Fatal(err)
	}
	out, err := dispatch.New(reg).Invoke(context.Background(), fixtures.BaseGreeting, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := out.(codec.ManagedString); !ok || got != nil {
		t.Errorf("base_greeting(null) = %#v, want null", out)
	}
}
