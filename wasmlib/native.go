package wasmlib

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"

	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/codec"
	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// nativeFunc is a dispatch.Impl backed by a guest export.
type nativeFunc struct {
	lib  *Library
	fn   api.Function
	post api.Function
	sig  signature.Signature
	lw   lowered
}

// arrayView is the part of array.ByteView and array.BoolView the copy
// protocol needs.
type arrayView interface {
	Len() int
	CopyTo(dst []byte) (int, error)
	CopyFrom(src []byte) (int, error)
}

var (
	_ arrayView = (*array.ByteView)(nil)
	_ arrayView = (*array.BoolView)(nil)
)

// copyBack is an array argument to read back from guest memory after the
// call.
type copyBack struct {
	view arrayView
	ptr  uint32
}

// frame holds the guest-side state of one call.
type frame struct {
	allocs []allocation
	copies []copyBack
	flat   []uint64
}

// Invoke implements dispatch.Impl.
func (f *nativeFunc) Invoke(ctx context.Context, call *dispatch.Call) (any, error) {
	l := f.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "library "+l.name)
	}

	fr := &frame{flat: make([]uint64, 0, len(f.lw.params))}
	defer f.release(ctx, fr)

	if err := f.lowerArgs(ctx, call, fr); err != nil {
		return nil, err
	}

	st := &callState{path: []string{f.sig.SimpleClass(), f.sig.Name}}
	results, callErr := f.fn.Call(context.WithValue(ctx, callStateKey{}, st), fr.flat...)

	// Guest writes stand even when the guest failed afterwards.
	copyErr := f.copyBack(fr)

	if callErr != nil {
		if st.pending != nil {
			return nil, st.pending
		}
		return nil, errors.New(errors.PhaseRuntime, errors.KindNativeFailure).
			Path(l.name, f.sig.Name).
			Cause(callErr).
			Detail("guest call failed").
			Build()
	}
	if copyErr != nil {
		return nil, copyErr
	}

	out, err := f.liftResult(results)
	if f.post != nil {
		if _, perr := f.post.Call(ctx, results...); perr != nil {
			err = multierr.Append(err, errors.New(errors.PhaseRuntime, errors.KindNativeFailure).
				Path(l.name, PostReturnPrefix+f.sig.Name).
				Cause(perr).
				Detail("post-return failed").
				Build())
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *nativeFunc) lowerArgs(ctx context.Context, call *dispatch.Call, fr *frame) error {
	for i, p := range f.sig.Params {
		switch p {
		case signature.I32:
			v, err := call.Int32(i)
			if err != nil {
				return err
			}
			fr.flat = append(fr.flat, api.EncodeI32(v))
		case signature.I64:
			v, err := call.Int64(i)
			if err != nil {
				return err
			}
			fr.flat = append(fr.flat, api.EncodeI64(v))
		case signature.String:
			s, err := call.String(i)
			if err != nil {
				return err
			}
			ptr, err := f.copyIn(ctx, fr, []byte(s), 1)
			if err != nil {
				return err
			}
			fr.flat = append(fr.flat, uint64(ptr), uint64(len(s)))
		case signature.ByteArray, signature.BoolArray:
			view, err := borrowAll(call, i, p)
			if err != nil {
				return err
			}
			buf := make([]byte, view.Len())
			if _, err := view.CopyTo(buf); err != nil {
				return err
			}
			ptr, err := f.copyIn(ctx, fr, buf, f.lw.elemSizes[i])
			if err != nil {
				return err
			}
			fr.copies = append(fr.copies, copyBack{view: view, ptr: ptr})
			fr.flat = append(fr.flat, uint64(ptr), uint64(len(buf)))
		}
	}
	return nil
}

// borrowAll borrows array argument i at its full length.
func borrowAll(call *dispatch.Call, i int, t signature.Type) (arrayView, error) {
	n, err := call.Len(i)
	if err != nil {
		return nil, err
	}
	if t == signature.ByteArray {
		return call.Bytes(i, n)
	}
	return call.Bools(i, n)
}

// copyIn places data in guest memory. Empty data is passed as a null
// pointer without allocating.
func (f *nativeFunc) copyIn(ctx context.Context, fr *frame, data []byte, align uint32) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}
	size := uint32(len(data))
	ptr, err := f.lib.alloc.alloc(ctx, size, align)
	if err != nil {
		return 0, err
	}
	fr.allocs = append(fr.allocs, allocation{ptr: ptr, size: size, align: align})
	if err := f.lib.mem.write(ptr, data); err != nil {
		return 0, err
	}
	return ptr, nil
}

func (f *nativeFunc) copyBack(fr *frame) error {
	var err error
	for _, c := range fr.copies {
		n := c.view.Len()
		if n == 0 {
			continue
		}
		data, rerr := f.lib.mem.read(c.ptr, uint32(n))
		if rerr != nil {
			err = multierr.Append(err, rerr)
			continue
		}
		if _, werr := c.view.CopyFrom(data); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	return err
}

func (f *nativeFunc) liftResult(results []uint64) (any, error) {
	switch f.sig.Result {
	case signature.Void:
		return nil, nil
	case signature.I32:
		return api.DecodeI32(results[0]), nil
	case signature.I64:
		return int64(results[0]), nil
	}

	ptr, length, err := f.lib.mem.readPair(uint32(results[0]))
	if err != nil {
		return nil, err
	}
	data, err := f.lib.mem.read(ptr, length)
	if err != nil {
		return nil, err
	}

	switch f.sig.Result {
	case signature.ByteArray:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	case signature.String:
		s, err := codec.DecodeUTF8(data)
		if err != nil {
			return nil, withResultPath(err, f.sig)
		}
		return s, nil
	}
	return nil, errors.TypeMismatch(errors.PhaseDecode, []string{f.sig.SimpleClass(), f.sig.Name, "result"},
		f.sig.Result.String(), typeNames(f.lw.results))
}

func withResultPath(err error, sig signature.Signature) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		cp := *e
		cp.Path = []string{sig.SimpleClass(), sig.Name, "result"}
		return &cp
	}
	return err
}

// release frees argument memory in reverse order of allocation.
func (f *nativeFunc) release(ctx context.Context, fr *frame) {
	for i := len(fr.allocs) - 1; i >= 0; i-- {
		f.lib.alloc.free(ctx, fr.allocs[i])
	}
}
