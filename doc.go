// Package nativebridge lets managed code call native methods that exchange
// primitive arrays, integers and strings.
//
// Native methods are declared with JNI-style signatures and bound either to
// Go functions or to exports of a WebAssembly library. Calls marshal their
// arguments under a fixed contract: arrays are lent to the native body as
// bounds-checked views that expire when the call returns, integers cross
// unchanged, and strings convert between UTF-16 and UTF-8 without loss.
//
// # Architecture Overview
//
//	nativebridge/        Bridge: registry, dispatcher and loader in one place
//	├── array/           Managed arrays and call-scoped views
//	├── codec/           Long packing and string conversion
//	├── signature/       Declarations, JNI descriptors and symbols
//	├── dispatch/        Registration and invocation
//	├── wasmlib/         WebAssembly native libraries on wazero
//	├── manifest/        YAML declaration files
//	├── errors/          Structured error types
//	└── cmd/bridge/      Command-line front end
//
// # Quick Start
//
//	b, err := nativebridge.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close(ctx)
//
//	sig := signature.MustNew("demo.Bytes", "combine", signature.I64, signature.ByteArray)
//	if err := b.LoadLibrary(ctx, "demo", wasmBytes, sig); err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := b.Invoke(ctx, sig, array.ByteArrayOf(1, 1, 1, 1, 1, 1, 1, 1))
//	fmt.Println(out) // 72340172838076673
//
// # Errors
//
// Failures are *errors.Error values. Match them by kind with the sentinels:
//
//	errors.Is(err, errors.ErrOutOfBounds)  // index or declared length past the array
//	errors.Is(err, errors.ErrEncoding)     // text with no representation on the other side
//	errors.Is(err, errors.ErrUnresolved)   // nothing bound to the method
package nativebridge
