package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/codec"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// Dispatcher invokes native methods bound in a Registry, marshaling
// arguments in and results out.
//
// Managed argument types by parameter type:
//
//	int        int32
//	long       int64
//	byte[]     *array.ByteArray (nil is null)
//	boolean[]  *array.BoolArray (nil is null)
//	String     codec.ManagedString or string (nil is null)
//
// Native bodies return int32, int64, []int8, []byte, *array.ByteArray,
// string, or nil for void. Invoke hands back int32, int64,
// *array.ByteArray, codec.ManagedString, or nil.
type Dispatcher struct {
	reg *Registry
}

// New creates a dispatcher over reg.
func New(reg *Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Registry returns the table the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// Invoke calls the body bound to sig. It blocks until the body returns;
// array writes made by the body are visible to the caller when Invoke
// returns, including when it returns an error.
func (d *Dispatcher) Invoke(ctx context.Context, sig signature.Signature, args ...any) (any, error) {
	if d == nil || d.reg == nil {
		return nil, errors.NotInitialized(errors.PhaseDispatch, "dispatcher")
	}

	decl, impl, err := d.reg.Resolve(sig)
	if err != nil {
		Logger().Debug("native method unresolved", zap.String("method", sig.Key()), zap.Error(err))
		return nil, err
	}

	call, err := newCall(decl, args)
	if err != nil {
		return nil, err
	}
	defer call.lease.Release()

	out, err := invokeImpl(ctx, impl, call)
	if err != nil {
		Logger().Debug("native method failed", zap.String("method", decl.Key()), zap.Error(err))
		return nil, err
	}

	return liftResult(decl, out)
}

// Method returns a managed-side handle for sig.
func (d *Dispatcher) Method(sig signature.Signature) *Method {
	return &Method{d: d, sig: sig}
}

// Method is a declared native method as managed code sees it.
type Method struct {
	d   *Dispatcher
	sig signature.Signature
}

// Signature returns the declaration.
func (m *Method) Signature() signature.Signature { return m.sig }

// Call invokes the method.
func (m *Method) Call(ctx context.Context, args ...any) (any, error) {
	return m.d.Invoke(ctx, m.sig, args...)
}

func invokeImpl(ctx context.Context, impl Impl, call *Call) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.PhaseRuntime, errors.KindNativeFailure).
				Path(call.sig.SimpleClass(), call.sig.Name).
				Value(r).
				Detail("native method panicked: %v", r).
				Build()
		}
	}()

	out, err = impl.Invoke(ctx, call)
	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return nil, err
		}
		return nil, errors.New(errors.PhaseRuntime, errors.KindNativeFailure).
			Path(call.sig.SimpleClass(), call.sig.Name).
			Cause(err).
			Detail("native method returned an error").
			Build()
	}
	return out, nil
}

func newCall(sig signature.Signature, args []any) (*Call, error) {
	if len(args) != len(sig.Params) {
		return nil, errors.New(errors.PhaseDispatch, errors.KindArityMismatch).
			Path(sig.SimpleClass(), sig.Name).
			Value(len(args)).
			Detail("%s takes %d argument(s), got %d", sig.Key(), len(sig.Params), len(args)).
			Build()
	}

	call := &Call{
		lease:   array.NewLease(),
		sig:     sig,
		args:    make([]any, len(args)),
		strs:    make([]string, len(args)),
		nullStr: make([]bool, len(args)),
	}

	for i, p := range sig.Params {
		path := call.path(i)
		arg := args[i]
		switch p {
		case signature.I32:
			v, ok := arg.(int32)
			if !ok {
				return nil, argMismatch(path, arg, p)
			}
			call.args[i] = v
		case signature.I64:
			v, ok := arg.(int64)
			if !ok {
				return nil, argMismatch(path, arg, p)
			}
			call.args[i] = v
		case signature.ByteArray:
			switch v := arg.(type) {
			case nil:
				call.args[i] = (*array.ByteArray)(nil)
			case *array.ByteArray:
				call.args[i] = v
			default:
				return nil, argMismatch(path, arg, p)
			}
		case signature.BoolArray:
			switch v := arg.(type) {
			case nil:
				call.args[i] = (*array.BoolArray)(nil)
			case *array.BoolArray:
				call.args[i] = v
			default:
				return nil, argMismatch(path, arg, p)
			}
		case signature.String:
			switch v := arg.(type) {
			case nil:
				call.nullStr[i] = true
			case codec.ManagedString:
				s, err := codec.DecodeString(v)
				if err != nil {
					return nil, withPath(err, path)
				}
				call.strs[i] = s
			case string:
				if _, err := codec.EncodeString(v); err != nil {
					return nil, withPath(err, path)
				}
				call.strs[i] = v
			default:
				return nil, argMismatch(path, arg, p)
			}
			call.args[i] = arg
		}
	}
	return call, nil
}

func argMismatch(path []string, arg any, want signature.Type) error {
	return errors.TypeMismatch(errors.PhaseDispatch, path, fmt.Sprintf("%T", arg), want.String())
}

func liftResult(sig signature.Signature, out any) (any, error) {
	path := []string{sig.SimpleClass(), sig.Name, "result"}
	switch sig.Result {
	case signature.Void:
		return nil, nil
	case signature.I32:
		if v, ok := out.(int32); ok {
			return v, nil
		}
	case signature.I64:
		if v, ok := out.(int64); ok {
			return v, nil
		}
	case signature.ByteArray:
		switch v := out.(type) {
		case nil:
			return (*array.ByteArray)(nil), nil
		case *array.ByteArray:
			return v, nil
		case []int8:
			if v == nil {
				return (*array.ByteArray)(nil), nil
			}
			return array.ByteArrayOf(v...), nil
		case []byte:
			if v == nil {
				return (*array.ByteArray)(nil), nil
			}
			arr := array.NewByteArray(len(v))
			for i, b := range v {
				arr.Put(i, int8(b))
			}
			return arr, nil
		}
	case signature.String:
		switch v := out.(type) {
		case nil:
			return codec.ManagedString(nil), nil
		case string:
			ms, err := codec.EncodeString(v)
			if err != nil {
				return nil, withPath(err, path)
			}
			return ms, nil
		}
	}
	return nil, errors.TypeMismatch(errors.PhaseEncode, path, sig.Result.String(), fmt.Sprintf("%T", out))
}
