package nativebridge

import (
	"context"

	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/manifest"
	"github.com/wippyai/native-bridge/signature"
	"github.com/wippyai/native-bridge/wasmlib"
)

// Bridge owns a registry, its dispatcher and a library loader.
type Bridge struct {
	reg    *dispatch.Registry
	d      *dispatch.Dispatcher
	loader *wasmlib.Loader
}

// New creates a bridge. A nil cfg uses wasmlib defaults.
func New(ctx context.Context, cfg *wasmlib.Config) (*Bridge, error) {
	loader, err := wasmlib.NewLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	reg := dispatch.NewRegistry()
	return &Bridge{reg: reg, d: dispatch.New(reg), loader: loader}, nil
}

// Registry returns the bridge's registration table.
func (b *Bridge) Registry() *dispatch.Registry { return b.reg }

// Declare records methods without binding them.
func (b *Bridge) Declare(sigs ...signature.Signature) error {
	return b.reg.Declare(sigs...)
}

// Register binds a Go body to sig.
func (b *Bridge) Register(sig signature.Signature, fn dispatch.Func) error {
	return b.reg.Register(sig, fn)
}

// LoadLibrary loads a WebAssembly library and binds sigs from it.
func (b *Bridge) LoadLibrary(ctx context.Context, name string, wasm []byte, sigs ...signature.Signature) error {
	lib, err := b.loader.Load(ctx, name, wasm)
	if err != nil {
		return err
	}
	return lib.Bind(b.reg, sigs...)
}

// LoadManifest declares every method in m and, when wasm is non-nil, binds
// them from it under the manifest's library name.
func (b *Bridge) LoadManifest(ctx context.Context, m *manifest.Manifest, wasm []byte) error {
	sigs, err := m.Signatures()
	if err != nil {
		return err
	}
	if err := b.reg.Declare(sigs...); err != nil {
		return err
	}
	if wasm == nil {
		return nil
	}
	return b.LoadLibrary(ctx, m.Library, wasm, sigs...)
}

// Invoke calls sig with managed arguments.
func (b *Bridge) Invoke(ctx context.Context, sig signature.Signature, args ...any) (any, error) {
	if b == nil {
		return nil, errors.NotInitialized(errors.PhaseDispatch, "bridge")
	}
	return b.d.Invoke(ctx, sig, args...)
}

// Close unloads every library.
func (b *Bridge) Close(ctx context.Context) error {
	return b.loader.Close(ctx)
}
