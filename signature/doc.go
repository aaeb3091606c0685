// Package signature describes native method declarations.
//
// A Signature names the declaring class, the method and its parameter and
// result types. Types are a small closed set:
//
//	int        I                   s32
//	long       J                   s64
//	byte[]     [B                  list<s8>
//	boolean[]  [Z                  list<bool>   (parameters only)
//	String     Ljava/lang/String;  string
//	void       V                   (results only)
//
// Signatures can be built directly or parsed from a JNI descriptor:
//
//	sig, err := signature.ParseDescriptor("java_to_rust_arrays.JavaArrayTests", "combine_bytes", "([B)J")
//
// Key() is the resolution key used by the dispatcher. Symbol() and
// LongSymbol() give the JNI export names a native library uses for the
// method.
package signature
