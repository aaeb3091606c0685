package array

import (
	"github.com/wippyai/native-bridge/errors"
)

// Lease owns the views lent out for one native call. Releasing it expires
// every view it produced. A Lease is not safe for concurrent use; a call
// runs on one goroutine.
type Lease struct {
	released bool
	views    int
}

// NewLease starts a lease for a single call.
func NewLease() *Lease {
	return &Lease{}
}

// Bytes borrows the first declared elements of a. It fails with
// errors.ErrOutOfBounds when declared is negative or exceeds a.Len(), and
// with errors.ErrNullArgument when a is nil.
func (l *Lease) Bytes(a *ByteArray, declared int) (*ByteView, error) {
	if err := l.live(); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.NullArgument(errors.PhaseBorrow, nil, "byte[]")
	}
	if err := checkDeclared(declared, a.Len()); err != nil {
		return nil, err
	}
	l.views++
	return &ByteView{arr: a, lease: l, n: declared}, nil
}

// Bools borrows the first declared elements of a.
func (l *Lease) Bools(a *BoolArray, declared int) (*BoolView, error) {
	if err := l.live(); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.NullArgument(errors.PhaseBorrow, nil, "boolean[]")
	}
	if err := checkDeclared(declared, a.Len()); err != nil {
		return nil, err
	}
	l.views++
	return &BoolView{arr: a, lease: l, n: declared}, nil
}

// Release expires all views. Calling it twice is harmless.
func (l *Lease) Release() {
	l.released = true
}

func (l *Lease) live() error {
	if l == nil || l.released {
		return errors.ViewExpired(nil)
	}
	return nil
}

func checkDeclared(declared, capacity int) error {
	if declared < 0 || declared > capacity {
		return errors.LengthExceeded(errors.PhaseBorrow, nil, declared, capacity)
	}
	return nil
}

// BorrowBytes lends the first declared elements of a to fn. The view
// expires when fn returns.
func BorrowBytes(a *ByteArray, declared int, fn func(*ByteView) error) error {
	lease := NewLease()
	defer lease.Release()

	v, err := lease.Bytes(a, declared)
	if err != nil {
		return err
	}
	return fn(v)
}

// BorrowBools lends the first declared elements of a to fn. The view
// expires when fn returns.
func BorrowBools(a *BoolArray, declared int, fn func(*BoolView) error) error {
	lease := NewLease()
	defer lease.Release()

	v, err := lease.Bools(a, declared)
	if err != nil {
		return err
	}
	return fn(v)
}
