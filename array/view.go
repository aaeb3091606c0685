package array

import (
	"github.com/wippyai/native-bridge/errors"
)

// ByteView is a call-scoped window onto a ByteArray. It reads and writes
// the managed storage directly; nothing is copied. Every accessor fails
// with errors.ErrViewExpired once the lease that produced it is released.
type ByteView struct {
	arr   *ByteArray
	lease *Lease
	n     int
}

// Len returns the declared length of the view.
func (v *ByteView) Len() int { return v.n }

// Get reads element i.
func (v *ByteView) Get(i int) (int8, error) {
	if err := v.check(i); err != nil {
		return 0, err
	}
	return v.arr.data[i], nil
}

// Set writes element i.
func (v *ByteView) Set(i int, x int8) error {
	if err := v.check(i); err != nil {
		return err
	}
	v.arr.data[i] = x
	return nil
}

// Fill writes x to every element within the declared length.
func (v *ByteView) Fill(x int8) error {
	if err := v.lease.live(); err != nil {
		return err
	}
	for i := range v.arr.data[:v.n] {
		v.arr.data[i] = x
	}
	return nil
}

// Region returns a copy of n elements starting at start.
func (v *ByteView) Region(start, n int) ([]int8, error) {
	if err := v.checkRange(start, n); err != nil {
		return nil, err
	}
	out := make([]int8, n)
	copy(out, v.arr.data[start:start+n])
	return out, nil
}

// SetRegion writes values starting at start. The whole range is validated
// before the first write.
func (v *ByteView) SetRegion(start int, values []int8) error {
	if err := v.checkRange(start, len(values)); err != nil {
		return err
	}
	copy(v.arr.data[start:], values)
	return nil
}

// CopyTo copies the viewed elements into native memory as raw bytes.
func (v *ByteView) CopyTo(dst []byte) (int, error) {
	if err := v.lease.live(); err != nil {
		return 0, err
	}
	n := min(len(dst), v.n)
	for i := 0; i < n; i++ {
		dst[i] = byte(v.arr.data[i])
	}
	return n, nil
}

// CopyFrom writes raw native bytes back into the viewed elements. src must
// fit within the declared length.
func (v *ByteView) CopyFrom(src []byte) (int, error) {
	if err := v.checkRange(0, len(src)); err != nil {
		return 0, err
	}
	for i, b := range src {
		v.arr.data[i] = int8(b)
	}
	return len(src), nil
}

func (v *ByteView) check(i int) error {
	if err := v.lease.live(); err != nil {
		return err
	}
	if i < 0 || i >= v.n {
		return errors.OutOfBounds(errors.PhaseBorrow, nil, i, v.n)
	}
	return nil
}

func (v *ByteView) checkRange(start, n int) error {
	if err := v.lease.live(); err != nil {
		return err
	}
	return checkRange(start, n, v.n)
}

// BoolView is a call-scoped window onto a BoolArray. Reads treat any
// non-zero slot as true; writes store canonical 1 or 0.
type BoolView struct {
	arr   *BoolArray
	lease *Lease
	n     int
}

// Len returns the declared length of the view.
func (v *BoolView) Len() int { return v.n }

// Get reads element i.
func (v *BoolView) Get(i int) (bool, error) {
	if err := v.check(i); err != nil {
		return false, err
	}
	return v.arr.data[i] != 0, nil
}

// Set writes element i.
func (v *BoolView) Set(i int, x bool) error {
	if err := v.check(i); err != nil {
		return err
	}
	v.arr.data[i] = canonical(x)
	return nil
}

// Fill writes x to every element within the declared length.
func (v *BoolView) Fill(x bool) error {
	if err := v.lease.live(); err != nil {
		return err
	}
	b := canonical(x)
	for i := range v.arr.data[:v.n] {
		v.arr.data[i] = b
	}
	return nil
}

// Region returns n elements starting at start.
func (v *BoolView) Region(start, n int) ([]bool, error) {
	if err := v.checkRange(start, n); err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = v.arr.data[start+i] != 0
	}
	return out, nil
}

// SetRegion writes values starting at start. The whole range is validated
// before the first write.
func (v *BoolView) SetRegion(start int, values []bool) error {
	if err := v.checkRange(start, len(values)); err != nil {
		return err
	}
	for i, x := range values {
		v.arr.data[start+i] = canonical(x)
	}
	return nil
}

// CopyTo copies the viewed elements into native memory, one canonical byte
// per element.
func (v *BoolView) CopyTo(dst []byte) (int, error) {
	if err := v.lease.live(); err != nil {
		return 0, err
	}
	n := min(len(dst), v.n)
	for i := 0; i < n; i++ {
		dst[i] = canonical(v.arr.data[i] != 0)
	}
	return n, nil
}

// CopyFrom writes native bytes back into the viewed elements, storing any
// non-zero byte as canonical true.
func (v *BoolView) CopyFrom(src []byte) (int, error) {
	if err := v.checkRange(0, len(src)); err != nil {
		return 0, err
	}
	for i, b := range src {
		v.arr.data[i] = canonical(b != 0)
	}
	return len(src), nil
}

func (v *BoolView) check(i int) error {
	if err := v.lease.live(); err != nil {
		return err
	}
	if i < 0 || i >= v.n {
		return errors.OutOfBounds(errors.PhaseBorrow, nil, i, v.n)
	}
	return nil
}

func (v *BoolView) checkRange(start, n int) error {
	if err := v.lease.live(); err != nil {
		return err
	}
	return checkRange(start, n, v.n)
}

func checkRange(start, n, length int) error {
	if start < 0 || start > length {
		return errors.OutOfBounds(errors.PhaseBorrow, nil, start, length)
	}
	if n < 0 || n > length-start {
		return errors.OutOfBounds(errors.PhaseBorrow, nil, start+n, length)
	}
	return nil
}
