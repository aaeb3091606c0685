package wasmlib

import (
	"context"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/errors"
)

// Loader compiles and instantiates native libraries in a shared wazero
// runtime.
type Loader struct {
	runtime wazero.Runtime
	libs    map[string]*Library
	cfg     Config
	mu      sync.Mutex
	closed  bool
}

// NewLoader creates a loader. A nil cfg uses defaults.
func NewLoader(ctx context.Context, cfg *Config) (*Loader, error) {
	c := cfg.withDefaults()

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	_, err := runtime.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(throwBounds),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export(ThrowBounds).
		Instantiate(ctx)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Load("instantiate host module "+HostModule, err)
	}

	return &Loader{
		runtime: runtime,
		libs:    make(map[string]*Library),
		cfg:     c,
	}, nil
}

// Load compiles and instantiates wasm as the library name.
func (l *Loader) Load(ctx context.Context, name string, wasm []byte) (*Library, error) {
	if name == "" || name == HostModule {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(name).
			Detail("invalid library name %q", name).
			Build()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, errors.NotInitialized(errors.PhaseLoad, "loader")
	}
	if _, exists := l.libs[name]; exists {
		return nil, errors.New(errors.PhaseLoad, errors.KindDuplicate).
			Path(name).
			Detail("library %s already loaded", name).
			Build()
	}

	compiled, err := l.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile "+name, err)
	}

	mod, err := l.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Load("instantiate "+name, err)
	}

	lib, err := newLibrary(name, mod, compiled, l.cfg)
	if err != nil {
		_ = mod.Close(ctx)
		_ = compiled.Close(ctx)
		return nil, err
	}
	l.libs[name] = lib

	Logger().Debug("library loaded",
		zap.String("library", name),
		zap.Int("bytes", len(wasm)),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return lib, nil
}

// Library returns a loaded library by name.
func (l *Loader) Library(name string) (*Library, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lib, ok := l.libs[name]
	return lib, ok
}

// Libraries returns the names of loaded libraries, sorted.
func (l *Loader) Libraries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedKeys(l.libs)
}

// Close closes every library and the runtime. Invoking a method of a closed
// library fails.
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var err error
	for _, name := range sortedKeys(l.libs) {
		err = multierr.Append(err, l.libs[name].Close(ctx))
	}
	err = multierr.Append(err, l.runtime.Close(ctx))
	return err
}

func sortedKeys(m map[string]*Library) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type callStateKey struct{}

// callState carries a failure raised by a host import back across the
// guest frame.
type callState struct {
	path    []string
	pending *errors.Error
}

func throwBounds(ctx context.Context, _ api.Module, stack []uint64) {
	declared := int(api.DecodeI32(stack[0]))
	capacity := int(api.DecodeI32(stack[1]))

	var path []string
	st, _ := ctx.Value(callStateKey{}).(*callState)
	if st != nil {
		path = st.path
	}
	err := errors.LengthExceeded(errors.PhaseBorrow, path, declared, capacity)
	if declared >= 0 && declared <= capacity {
		err = errors.LengthMismatch(errors.PhaseBorrow, path, declared, capacity)
	}
	if st != nil {
		st.pending = err
	}
	panic(err)
}
