// Package wasmlib loads native method implementations compiled to
// WebAssembly and binds them into a dispatch registry.
//
// A library is a core module executed by wazero. Each native method is an
// export named by its JNI symbol, short form first:
//
//	Java_java_1to_1rust_1arrays_JavaArrayTests_combine_1bytes
//
// with the long, overload-qualified form as a fallback:
//
//	Java_java_1to_1rust_1arrays_JavaArrayTests_combine_1bytes___3B
//
// # Calling Convention
//
// Parameters are lowered to flat core values:
//
//	int        i32
//	long       i64
//	String     i32 ptr, i32 len (UTF-8)
//	byte[]     i32 ptr, i32 len
//	boolean[]  i32 ptr, i32 len (one byte per element, 0 or 1)
//
// int and long results come back directly. String and byte[] results come
// back as an i32 pointer to a [ptr u32, len u32] pair in guest memory.
//
// Guest memory for arguments is obtained from the cabi_realloc export and
// released after the call. If the module exports cabi_post_<symbol> it is
// called with the result pointer once the result has been read.
//
// The guest has its own address space, so array arguments are copied in
// before the call and copied back before Invoke returns, including when the
// guest fails. A guest reports a declared length beyond an array's capacity
// by calling the host import bridge.throw_bounds(declared, capacity), which
// surfaces as errors.ErrOutOfBounds.
//
// Calls into one library are serialized.
package wasmlib
