package dispatch

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// Impl is the body of a native method.
type Impl interface {
	Invoke(ctx context.Context, call *Call) (any, error)
}

// Func adapts a plain function to Impl.
type Func func(ctx context.Context, call *Call) (any, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, call *Call) (any, error) {
	return f(ctx, call)
}

// Registrar accepts native method bindings. Registry implements it; native
// libraries bind into any Registrar.
type Registrar interface {
	Register(sig signature.Signature, impl Impl) error
}

// Registry maps method keys to their declarations and bound bodies. It is
// filled at load time and read on every invocation.
type Registry struct {
	declared map[string]signature.Signature
	bound    map[string]Impl
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		declared: make(map[string]signature.Signature),
		bound:    make(map[string]Impl),
	}
}

// Declare records signatures managed code calls, without a body. Invoking
// a declared method before something is bound to it fails with
// errors.ErrUnresolved.
func (r *Registry) Declare(sigs ...signature.Signature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sig := range sigs {
		if err := r.declareLocked(sig); err != nil {
			return err
		}
	}
	return nil
}

// Register binds impl to sig, declaring sig if needed. A key can be bound
// once.
func (r *Registry) Register(sig signature.Signature, impl Impl) error {
	if impl == nil {
		return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Path(sig.Class, sig.Name).
			Detail("implementation cannot be nil").
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.declareLocked(sig); err != nil {
		return err
	}
	key := sig.Key()
	if _, exists := r.bound[key]; exists {
		return errors.New(errors.PhaseRegister, errors.KindDuplicate).
			Path(sig.Class, sig.Name).
			Value(key).
			Detail("%s already bound", key).
			Build()
	}
	r.bound[key] = impl

	Logger().Debug("native method bound",
		zap.String("method", key),
		zap.String("descriptor", sig.Descriptor()))
	return nil
}

// RegisterFunc binds a plain function.
func (r *Registry) RegisterFunc(sig signature.Signature, fn func(ctx context.Context, call *Call) (any, error)) error {
	if fn == nil {
		return r.Register(sig, nil)
	}
	return r.Register(sig, Func(fn))
}

func (r *Registry) declareLocked(sig signature.Signature) error {
	if err := sig.Validate(); err != nil {
		return errors.Wrap(errors.PhaseRegister, errors.KindInvalidInput, err, "invalid signature")
	}
	key := sig.Key()
	if prev, ok := r.declared[key]; ok {
		if prev.Result != sig.Result {
			return errors.New(errors.PhaseRegister, errors.KindDuplicate).
				Path(sig.Class, sig.Name).
				Value(key).
				Detail("%s declared returning %s and %s", key, prev.Result, sig.Result).
				Build()
		}
		return nil
	}
	r.declared[key] = sig
	return nil
}

// Resolve returns the declaration and body bound for sig's key. It fails
// with errors.ErrUnresolved when nothing is bound, and with
// errors.ErrTypeMismatch when sig disagrees with the declaration on the
// result type.
func (r *Registry) Resolve(sig signature.Signature) (signature.Signature, Impl, error) {
	key := sig.Key()

	r.mu.RLock()
	decl, declared := r.declared[key]
	impl, bound := r.bound[key]
	r.mu.RUnlock()

	if !bound {
		return signature.Signature{}, nil, errors.Unresolved(key)
	}
	if declared && decl.Result != sig.Result {
		return signature.Signature{}, nil, errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
			Path(sig.Class, sig.Name, "result").
			ManagedType(sig.Result.String()).
			NativeType(decl.Result.String()).
			Detail("result type differs from the bound declaration").
			Build()
	}
	return decl, impl, nil
}

// Bound reports whether sig's key has a body.
func (r *Registry) Bound(sig signature.Signature) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bound[sig.Key()]
	return ok
}

// Declared returns every declaration, sorted by key.
func (r *Registry) Declared() []signature.Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]signature.Signature, 0, len(r.declared))
	for _, sig := range r.declared {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Unbound returns declarations that have no body, sorted by key.
func (r *Registry) Unbound() []signature.Signature {
	all := r.Declared()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := all[:0]
	for _, sig := range all {
		if _, ok := r.bound[sig.Key()]; !ok {
			out = append(out, sig)
		}
	}
	return out
}
