// Package codec converts scalar and string values between their managed and
// native representations.
//
// # Long Packing
//
// Combine and Split move between 8 bytes and a 64-bit value with byte i in
// bits [8i, 8i+8). They are exact inverses:
//
//	codec.Combine([8]byte{1, 1, 1, 1, 1, 1, 1, 1}) // 0x0101010101010101
//	codec.Split(0x0101010101010101)                // [1 1 1 1 1 1 1 1]
//
// CombineBytes and SplitBytes do the same over managed signed byte arrays.
//
// # Strings
//
// Managed strings are UTF-16 code units (ManagedString). Native strings are
// UTF-8. DecodeString runs on the way into a native call, EncodeString on the
// way out. Both preserve content exactly and fail with errors.ErrEncoding
// instead of substituting replacement characters.
package codec
