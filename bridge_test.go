package nativebridge_test

import (
	"context"
	"path/filepath"
	"testing"

	nativebridge "github.com/wippyai/native-bridge"
	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/fixtures"
	"github.com/wippyai/native-bridge/manifest"
	"github.com/wippyai/native-bridge/signature"
)

func newBridge(t *testing.T) *nativebridge.Bridge {
	t.Helper()
	ctx := context.Background()
	b, err := nativebridge.New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = b.Close(ctx) })
	return b
}

func TestLoadManifestRunsScenarios(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	libs := []struct {
		file string
		wasm []byte
	}{
		{"arrays.yaml", fixtures.ArraysWASM()},
		{"greeting.yaml", fixtures.GreetingWASM()},
	}
	for _, lib := range libs {
		m, err := manifest.Load(filepath.Join("manifest", "testdata", lib.file))
		if err != nil {
			t.Fatal(err)
		}
		if err := b.LoadManifest(ctx, m, lib.wasm); err != nil {
			t.Fatalf("%s: %v", lib.file, err)
		}
	}

	if err := fixtures.RunArrays(ctx, b); err != nil {
		t.Error(err)
	}
	if err := fixtures.RunGreeting(ctx, b); err != nil {
		t.Error(err)
	}
}

func TestDeclaredButUnbound(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	m, err := manifest.Load(filepath.Join("manifest", "testdata", "greeting.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.LoadManifest(ctx, m, nil); err != nil {
		t.Fatal(err)
	}

	_, err = b.Invoke(ctx, fixtures.EchoInt, int32(1))
	if !errors.Is(err, errors.ErrUnresolved) {
		t.Errorf("err = %v, want unresolved", err)
	}
	if n := len(b.Registry().Unbound()); n != 3 {
		t.Errorf("Unbound() = %d, want 3", n)
	}
}

func TestRegisterGoBody(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	sig := signature.MustNew("demo.Sum", "sum", signature.I64, signature.ByteArray, signature.I32).AsStatic()
	err := b.Register(sig, func(_ context.Context, call *dispatch.Call) (any, error) {
		n, err := call.Int32(1)
		if err != nil {
			return nil, err
		}
		view, err := call.Bytes(0, int(n))
		if err != nil {
			return nil, err
		}
		vals, err := view.Region(0, view.Len())
		if err != nil {
			return nil, err
		}
		var sum int64
		for _, v := range vals {
			sum += int64(v)
		}
		return sum, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := b.Invoke(ctx, sig, array.ByteArrayOf(1, 2, 3, 4), int32(3))
	if err != nil {
		t.Fatal(err)
	}
	if out != int64(6) {
		t.Errorf("sum = %v", out)
	}

	_, err = b.Invoke(ctx, sig, array.ByteArrayOf(1), int32(2))
	if !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("err = %v, want out of bounds", err)
	}
}

func TestNilBridge(t *testing.T) {
	var b *nativebridge.Bridge
	if _, err := b.Invoke(context.Background(), fixtures.GetInt); err == nil {
		t.Error("nil bridge should fail")
	}
}
