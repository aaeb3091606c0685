package array

import (
	"errors"
	"testing"

	bridgeerrors "github.com/wippyai/native-bridge/errors"
)

func TestNewArrays_ZeroInitialized(t *testing.T) {
	for _, n := range []int{0, 1, 5, 64} {
		b := NewByteArray(n)
		if b.Len() != n {
			t.Fatalf("byte len = %d, want %d", b.Len(), n)
		}
		for i := 0; i < n; i++ {
			if b.At(i) != 0 {
				t.Errorf("byte[%d] = %d, want 0", i, b.At(i))
			}
		}

		z := NewBoolArray(n)
		if z.Len() != n {
			t.Fatalf("bool len = %d, want %d", z.Len(), n)
		}
		for i := 0; i < n; i++ {
			if z.At(i) {
				t.Errorf("bool[%d] = true, want false", i)
			}
		}
	}
}

func TestNilArrays(t *testing.T) {
	var b *ByteArray
	var z *BoolArray
	if b.Len() != 0 || z.Len() != 0 {
		t.Error("nil arrays should have length 0")
	}
	if b.Values() != nil || z.Values() != nil {
		t.Error("nil arrays should have nil values")
	}
}

func TestArrayOf_Copies(t *testing.T) {
	src := []int8{1, -2, 3}
	b := ByteArrayOf(src...)
	src[0] = 99
	if b.At(0) != 1 {
		t.Error("ByteArrayOf should copy its input")
	}

	vals := b.Values()
	vals[1] = 0
	if b.At(1) != -2 {
		t.Error("Values should return a copy")
	}

	z := BoolArrayOf(true, false, true)
	if got := z.Values(); !got[0] || got[1] || !got[2] {
		t.Errorf("Values = %v", got)
	}
}

func TestElemType(t *testing.T) {
	var arrays = []struct {
		arr  Array
		want ElemType
		name string
	}{
		{NewByteArray(1), ElemByte, "byte"},
		{NewBoolArray(1), ElemBool, "boolean"},
	}
	for _, tt := range arrays {
		if tt.arr.ElemType() != tt.want {
			t.Errorf("ElemType = %v, want %v", tt.arr.ElemType(), tt.want)
		}
		if tt.want.String() != tt.name {
			t.Errorf("String = %q, want %q", tt.want.String(), tt.name)
		}
	}
	if ElemType(0).String() != "unknown" {
		t.Error("zero ElemType should be unknown")
	}
}

func TestBorrowBytes_Fill(t *testing.T) {
	arr := NewByteArray(5)
	err := BorrowBytes(arr, arr.Len(), func(v *ByteView) error {
		return v.Fill(1)
	})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.At(i) != 1 {
			t.Errorf("arr[%d] = %d, want 1", i, arr.At(i))
		}
	}
}

func TestBorrowBools_Fill(t *testing.T) {
	arr := NewBoolArray(5)
	err := BorrowBools(arr, arr.Len(), func(v *BoolView) error {
		return v.Fill(true)
	})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	for i := 0; i < arr.Len(); i++ {
		if !arr.At(i) {
			t.Errorf("arr[%d] = false, want true", i)
		}
		if arr.data[i] != 1 {
			t.Errorf("arr[%d] stored 0x%02x, want canonical 0x01", i, arr.data[i])
		}
	}
}

func TestBorrow_DeclaredLengthExceeded(t *testing.T) {
	arr := NewByteArray(3)
	called := false
	err := BorrowBytes(arr, 4, func(v *ByteView) error {
		called = true
		return v.Fill(1)
	})
	if !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
		t.Fatalf("err = %v, want out of bounds", err)
	}
	if called {
		t.Error("fn must not run when the borrow fails")
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.At(i) != 0 {
			t.Errorf("arr[%d] was written", i)
		}
	}

	err = BorrowBools(NewBoolArray(2), -1, func(*BoolView) error { return nil })
	if !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
		t.Errorf("negative length: err = %v, want out of bounds", err)
	}
}

func TestBorrow_PartialLength(t *testing.T) {
	arr := NewByteArray(5)
	err := BorrowBytes(arr, 3, func(v *ByteView) error {
		if v.Len() != 3 {
			t.Errorf("view len = %d, want 3", v.Len())
		}
		if err := v.Fill(7); err != nil {
			return err
		}
		if err := v.Set(3, 1); !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
			t.Errorf("Set past declared length: err = %v", err)
		}
		if _, err := v.Get(-1); !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
			t.Errorf("Get(-1): err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int8{7, 7, 7, 0, 0}
	for i, w := range want {
		if arr.At(i) != w {
			t.Errorf("arr[%d] = %d, want %d", i, arr.At(i), w)
		}
	}
}

func TestBorrow_Null(t *testing.T) {
	err := BorrowBytes(nil, 0, func(*ByteView) error { return nil })
	if !errors.Is(err, bridgeerrors.ErrNullArgument) {
		t.Errorf("err = %v, want null argument", err)
	}
	err = BorrowBools(nil, 0, func(*BoolView) error { return nil })
	if !errors.Is(err, bridgeerrors.ErrNullArgument) {
		t.Errorf("err = %v, want null argument", err)
	}
}

func TestView_ExpiresAfterBorrow(t *testing.T) {
	arr := NewByteArray(2)
	var leaked *ByteView
	if err := BorrowBytes(arr, 2, func(v *ByteView) error {
		leaked = v
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := leaked.Set(0, 5); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("Set after borrow: err = %v, want view expired", err)
	}
	if _, err := leaked.Get(0); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("Get after borrow: err = %v", err)
	}
	if err := leaked.Fill(1); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("Fill after borrow: err = %v", err)
	}
	if _, err := leaked.CopyTo(make([]byte, 2)); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("CopyTo after borrow: err = %v", err)
	}
	if arr.At(0) != 0 {
		t.Error("expired view wrote to the array")
	}
}

func TestLease_ReleaseExpiresAllViews(t *testing.T) {
	lease := NewLease()
	bv, err := lease.Bytes(NewByteArray(1), 1)
	if err != nil {
		t.Fatal(err)
	}
	zv, err := lease.Bools(NewBoolArray(1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if lease.views != 2 {
		t.Errorf("views = %d, want 2", lease.views)
	}

	lease.Release()
	lease.Release()

	if err := bv.Set(0, 1); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("byte view: err = %v", err)
	}
	if err := zv.Set(0, true); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("bool view: err = %v", err)
	}
	if _, err := lease.Bytes(NewByteArray(1), 1); !errors.Is(err, bridgeerrors.ErrViewExpired) {
		t.Errorf("borrow on released lease: err = %v", err)
	}
}

func TestByteView_Regions(t *testing.T) {
	arr := ByteArrayOf(0, 0, 0, 0, 0)
	err := BorrowBytes(arr, 5, func(v *ByteView) error {
		if err := v.SetRegion(1, []int8{9, 8, 7}); err != nil {
			return err
		}
		got, err := v.Region(0, 5)
		if err != nil {
			return err
		}
		want := []int8{0, 9, 8, 7, 0}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("region[%d] = %d, want %d", i, got[i], want[i])
			}
		}

		// rejected before any write
		if err := v.SetRegion(3, []int8{1, 1, 1}); !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
			t.Errorf("overlong region: err = %v", err)
		}
		if _, err := v.Region(6, 0); !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
			t.Errorf("start past end: err = %v", err)
		}
		if _, err := v.Region(0, -1); !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
			t.Errorf("negative count: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if arr.At(3) != 7 || arr.At(4) != 0 {
		t.Errorf("rejected region modified the array: %v", arr.Values())
	}
}

func TestByteView_CopyRoundTrip(t *testing.T) {
	arr := ByteArrayOf(-1, 0, 127, -128)
	raw := make([]byte, 4)
	err := BorrowBytes(arr, 4, func(v *ByteView) error {
		n, err := v.CopyTo(raw)
		if err != nil {
			return err
		}
		if n != 4 {
			t.Errorf("CopyTo n = %d", n)
		}
		want := []byte{0xff, 0x00, 0x7f, 0x80}
		for i := range want {
			if raw[i] != want[i] {
				t.Errorf("raw[%d] = 0x%02x, want 0x%02x", i, raw[i], want[i])
			}
		}
		_, err = v.CopyFrom([]byte{1, 2, 3, 4})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range []int8{1, 2, 3, 4} {
		if arr.At(i) != w {
			t.Errorf("arr[%d] = %d, want %d", i, arr.At(i), w)
		}
	}

	err = BorrowBytes(arr, 2, func(v *ByteView) error {
		_, err := v.CopyFrom([]byte{9, 9, 9})
		return err
	})
	if !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
		t.Errorf("CopyFrom past declared length: err = %v", err)
	}
	if arr.At(0) != 1 {
		t.Error("rejected CopyFrom modified the array")
	}
}

func TestBoolView_Canonicalization(t *testing.T) {
	arr := NewBoolArray(4)
	arr.data[1] = 0x7f
	arr.data[2] = 0xff

	err := BorrowBools(arr, 4, func(v *BoolView) error {
		for i, want := range []bool{false, true, true, false} {
			got, err := v.Get(i)
			if err != nil {
				return err
			}
			if got != want {
				t.Errorf("Get(%d) = %v, want %v", i, got, want)
			}
		}

		raw := make([]byte, 4)
		if _, err := v.CopyTo(raw); err != nil {
			return err
		}
		for i, want := range []byte{0, 1, 1, 0} {
			if raw[i] != want {
				t.Errorf("CopyTo[%d] = 0x%02x, want 0x%02x", i, raw[i], want)
			}
		}

		_, err := v.CopyFrom([]byte{0x00, 0x02, 0x80, 0x01})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []uint8{0, 1, 1, 1} {
		if arr.data[i] != want {
			t.Errorf("stored[%d] = 0x%02x, want 0x%02x", i, arr.data[i], want)
		}
	}
}

func TestBoolView_Regions(t *testing.T) {
	arr := NewBoolArray(3)
	err := BorrowBools(arr, 3, func(v *BoolView) error {
		if err := v.SetRegion(0, []bool{true, false, true}); err != nil {
			return err
		}
		got, err := v.Region(1, 2)
		if err != nil {
			return err
		}
		if got[0] || !got[1] {
			t.Errorf("Region = %v", got)
		}
		if err := v.Set(3, true); !errors.Is(err, bridgeerrors.ErrOutOfBounds) {
			t.Errorf("Set(3): err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
