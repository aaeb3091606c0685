package array

// ElemType tags the element type of a managed primitive array.
type ElemType uint8

const (
	ElemByte ElemType = iota + 1
	ElemBool
)

func (t ElemType) String() string {
	switch t {
	case ElemByte:
		return "byte"
	case ElemBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Array is implemented by every managed primitive array.
type Array interface {
	Len() int
	ElemType() ElemType
}

// ByteArray is a managed byte[]. Elements are signed, matching the managed
// runtime's byte type, and occupy one native byte each.
type ByteArray struct {
	data []int8
}

// NewByteArray allocates a zeroed array of n elements. It panics if n is
// negative, as make does.
func NewByteArray(n int) *ByteArray {
	return &ByteArray{data: make([]int8, n)}
}

// ByteArrayOf allocates an array holding a copy of values.
func ByteArrayOf(values ...int8) *ByteArray {
	data := make([]int8, len(values))
	copy(data, values)
	return &ByteArray{data: data}
}

// Len returns the true length. A nil array has length 0.
func (a *ByteArray) Len() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

func (a *ByteArray) ElemType() ElemType { return ElemByte }

// At returns element i. Like a slice index it panics when i is out of range.
func (a *ByteArray) At(i int) int8 {
	return a.data[i]
}

// Put stores v at index i, panicking when i is out of range.
func (a *ByteArray) Put(i int, v int8) {
	a.data[i] = v
}

// Values returns a copy of the elements.
func (a *ByteArray) Values() []int8 {
	if a == nil {
		return nil
	}
	out := make([]int8, len(a.data))
	copy(out, a.data)
	return out
}

// BoolArray is a managed boolean[]. Each element is one native byte holding
// 0 for false and 1 for true.
type BoolArray struct {
	data []uint8
}

// NewBoolArray allocates an array of n elements, all false. It panics if n
// is negative.
func NewBoolArray(n int) *BoolArray {
	return &BoolArray{data: make([]uint8, n)}
}

// BoolArrayOf allocates an array holding values.
func BoolArrayOf(values ...bool) *BoolArray {
	data := make([]uint8, len(values))
	for i, v := range values {
		data[i] = canonical(v)
	}
	return &BoolArray{data: data}
}

// Len returns the true length. A nil array has length 0.
func (a *BoolArray) Len() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

func (a *BoolArray) ElemType() ElemType { return ElemBool }

// At returns element i. Any non-zero slot reads as true.
func (a *BoolArray) At(i int) bool {
	return a.data[i] != 0
}

// Put stores v at index i in canonical form.
func (a *BoolArray) Put(i int, v bool) {
	a.data[i] = canonical(v)
}

// Values returns a copy of the elements.
func (a *BoolArray) Values() []bool {
	if a == nil {
		return nil
	}
	out := make([]bool, len(a.data))
	for i, b := range a.data {
		out[i] = b != 0
	}
	return out
}

func canonical(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
