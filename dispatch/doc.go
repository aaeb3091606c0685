// Package dispatch binds native method declarations to implementations and
// invokes them on behalf of managed code.
//
// A Registry holds declarations and bodies keyed by class, method name and
// parameter types. A Dispatcher resolves a call against the registry,
// checks and converts the arguments, runs the body synchronously and lifts
// its result:
//
//	reg := dispatch.NewRegistry()
//	reg.RegisterFunc(sig, func(ctx context.Context, call *dispatch.Call) (any, error) {
//		view, err := call.Bytes(0, 8)
//		...
//	})
//	out, err := dispatch.New(reg).Invoke(ctx, sig, arr)
//
// Array arguments reach the body only through views borrowed from the Call.
// The views expire when the body returns, so a body cannot keep a handle to
// managed storage. Invoking a declaration that has no body fails with
// errors.ErrUnresolved.
package dispatch
