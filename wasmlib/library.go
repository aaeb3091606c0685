package wasmlib

import (
	"context"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

var reallocParams = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}

// Library is an instantiated native library.
type Library struct {
	mod      api.Module
	compiled wazero.CompiledModule
	mem      guestMemory
	alloc    allocator
	name     string
	mu       sync.Mutex
	closed   bool
}

func newLibrary(name string, mod api.Module, compiled wazero.CompiledModule, cfg Config) (*Library, error) {
	mem := mod.ExportedMemory(cfg.MemoryExport)
	if mem == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindMissingSymbol).
			Path(name).
			Value(cfg.MemoryExport).
			Detail("library exports no memory %q", cfg.MemoryExport).
			Build()
	}

	fn := mod.ExportedFunction(cfg.AllocExport)
	if fn == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindMissingSymbol).
			Path(name).
			Value(cfg.AllocExport).
			Detail("library exports no allocator %q", cfg.AllocExport).
			Build()
	}
	def := fn.Definition()
	if !slices.Equal(def.ParamTypes(), reallocParams) ||
		!slices.Equal(def.ResultTypes(), []api.ValueType{api.ValueTypeI32}) {
		return nil, errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
			Path(name, cfg.AllocExport).
			NativeType(typeNames(def.ParamTypes()) + " -> " + typeNames(def.ResultTypes())).
			Detail("allocator must be (i32, i32, i32, i32) -> (i32)").
			Build()
	}

	return &Library{
		mod:      mod,
		compiled: compiled,
		mem:      guestMemory{mem: mem},
		alloc:    allocator{fn: fn},
		name:     name,
	}, nil
}

// Name returns the name the library was loaded under.
func (l *Library) Name() string { return l.name }

// Bind resolves each signature to an export and registers it with reg.
// Exports are looked up by JNI short symbol, then by long symbol. Every
// signature without an export is reported in one *errors.MissingSymbolsError
// and left unbound; the others are still registered.
func (l *Library) Bind(reg dispatch.Registrar, sigs ...signature.Signature) error {
	var missing []errors.MissingSymbol

	for _, sig := range sigs {
		fn, symbol := l.lookup(sig)
		if fn == nil {
			missing = append(missing, errors.MissingSymbol{
				Library: l.name,
				Method:  sig.Key(),
				Symbol:  sig.Symbol(),
			})
			continue
		}

		nf, err := l.newNativeFunc(sig, fn, symbol)
		if err != nil {
			return err
		}
		if err := reg.Register(sig, nf); err != nil {
			return err
		}
		Logger().Debug("native method bound",
			zap.String("library", l.name),
			zap.String("method", sig.Key()),
			zap.String("symbol", symbol))
	}

	if len(missing) > 0 {
		return &errors.MissingSymbolsError{Symbols: missing}
	}
	return nil
}

// Has reports whether the library exports an implementation of sig.
func (l *Library) Has(sig signature.Signature) bool {
	fn, _ := l.lookup(sig)
	return fn != nil
}

func (l *Library) lookup(sig signature.Signature) (api.Function, string) {
	for _, symbol := range []string{sig.Symbol(), sig.LongSymbol()} {
		if fn := l.mod.ExportedFunction(symbol); fn != nil {
			return fn, symbol
		}
	}
	return nil, ""
}

// Close releases the instance. Methods bound from it fail afterwards.
func (l *Library) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	err := l.mod.Close(ctx)
	if cerr := l.compiled.Close(ctx); err == nil {
		err = cerr
	}
	return err
}

func (l *Library) newNativeFunc(sig signature.Signature, fn api.Function, symbol string) (*nativeFunc, error) {
	lw := lower(sig)
	def := fn.Definition()
	if !slices.Equal(def.ParamTypes(), lw.params) || !slices.Equal(def.ResultTypes(), lw.results) {
		return nil, errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
			Path(l.name, symbol).
			ManagedType(typeNames(lw.params) + " -> " + typeNames(lw.results)).
			NativeType(typeNames(def.ParamTypes()) + " -> " + typeNames(def.ResultTypes())).
			Detail("export does not match %s", sig.Descriptor()).
			Build()
	}

	nf := &nativeFunc{lib: l, fn: fn, sig: sig, lw: lw}
	if post := l.mod.ExportedFunction(PostReturnPrefix + symbol); post != nil {
		pd := post.Definition()
		if !slices.Equal(pd.ParamTypes(), lw.results) || len(pd.ResultTypes()) != 0 {
			return nil, errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
				Path(l.name, PostReturnPrefix+symbol).
				NativeType(typeNames(pd.ParamTypes()) + " -> " + typeNames(pd.ResultTypes())).
				Detail("post-return must take the results %s and return nothing", typeNames(lw.results)).
				Build()
		}
		nf.post = post
	}
	return nf, nil
}
