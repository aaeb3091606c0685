// Package array provides managed primitive arrays and the call-scoped views
// native code uses to read and write them.
//
// Managed arrays are zeroed at construction:
//
//	bytes := array.NewByteArray(5)  // 0, 0, 0, 0, 0
//	flags := array.NewBoolArray(5)  // false x5
//
// Native code never holds an array directly. It borrows a view for the
// duration of one call, bounded by a declared length:
//
//	err := array.BorrowBytes(bytes, 5, func(v *array.ByteView) error {
//	    return v.Fill(1)
//	})
//
// A declared length larger than the array fails with errors.ErrOutOfBounds
// before any view exists. Index and region accesses are validated against
// the declared length. Once the borrow ends the view is dead: every
// accessor returns errors.ErrViewExpired.
//
// # Element Layout
//
// Byte arrays share their storage with the view; writes land in the managed
// array immediately. Boolean arrays use one byte per element. Reads treat any
// non-zero byte as true, writes store 1 or 0.
package array
