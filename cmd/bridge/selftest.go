package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/internal/fixtures"
	"github.com/wippyai/native-bridge/manifest"
	"github.com/wippyai/native-bridge/signature"
	"github.com/wippyai/native-bridge/wasmlib"
)

// fixtureLib describes one fixture library in both forms.
type fixtureLib struct {
	name     string
	sigs     []signature.Signature
	wasm     func() []byte
	register func(dispatch.Registrar) error
}

var fixtureLibs = []fixtureLib{
	{"native_fn_arrays", fixtures.ArraysSignatures(), fixtures.ArraysWASM, fixtures.RegisterArrays},
	{"native_fn_callable_from_java", fixtures.GreetingSignatures(), fixtures.GreetingWASM, fixtures.RegisterGreeting},
}

func runSelftest(ctx context.Context, out *printer, cfg *wasmlib.Config) error {
	goReg := dispatch.NewRegistry()
	for _, lib := range fixtureLibs {
		if err := lib.register(goReg); err != nil {
			return err
		}
	}

	loader, err := wasmlib.NewLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer loader.Close(ctx)

	wasmReg := dispatch.NewRegistry()
	for _, lib := range fixtureLibs {
		l, err := loader.Load(ctx, lib.name, lib.wasm())
		if err != nil {
			return err
		}
		if err := l.Bind(wasmReg, lib.sigs...); err != nil {
			return err
		}
	}

	backends := []struct {
		name string
		d    *dispatch.Dispatcher
	}{
		{"go", dispatch.New(goReg)},
		{"wasm", dispatch.New(wasmReg)},
	}

	fmt.Fprintf(out.w, "%s\n\n", out.title("selftest"))
	failed := 0
	for _, b := range backends {
		for _, sc := range fixtures.Scenarios() {
			err := sc.Run(ctx, b.d)
			if err != nil {
				failed++
			}
			out.scenario(b.name, sc.Name, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d scenario(s) failed", failed)
	}
	return nil
}

// emitFixtures writes each fixture library and its manifest to dir.
func emitFixtures(out *printer, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, lib := range fixtureLibs {
		m, err := manifest.FromSignatures(lib.name, lib.sigs)
		if err != nil {
			return err
		}
		m.Wasm = lib.name + ".wasm"
		data, err := m.Marshal()
		if err != nil {
			return err
		}

		wasmPath := filepath.Join(dir, m.Wasm)
		manifestPath := filepath.Join(dir, lib.name+".yaml")
		if err := os.WriteFile(wasmPath, lib.wasm(), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out.w, "%s %s, %s\n", out.ok("wrote"), manifestPath, wasmPath)
	}
	return nil
}
