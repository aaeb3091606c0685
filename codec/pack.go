package codec

import (
	"encoding/binary"

	"github.com/wippyai/native-bridge/errors"
)

// Combine packs 8 bytes into a 64-bit value, least-significant byte first:
// b[i] occupies bits [8i, 8i+8).
func Combine(b [8]byte) uint64 {
	return binary.LittleEndian.Uint64(b[:])
}

// Split is the inverse of Combine.
func Split(n uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return b
}

// CombineBytes packs a managed byte[] of exactly 8 elements into a long.
func CombineBytes(b []int8) (int64, error) {
	if len(b) != 8 {
		return 0, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			ManagedType("byte[]").
			NativeType("i64").
			Value(len(b)).
			Detail("need exactly 8 bytes, got %d", len(b)).
			Build()
	}
	var raw [8]byte
	for i, v := range b {
		raw[i] = byte(v)
	}
	return int64(Combine(raw)), nil
}

// SplitBytes breaks a long into a managed byte[] of 8 elements.
func SplitBytes(n int64) []int8 {
	raw := Split(uint64(n))
	out := make([]int8, 8)
	for i, v := range raw {
		out[i] = int8(v)
	}
	return out
}
