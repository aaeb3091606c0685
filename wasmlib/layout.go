package wasmlib

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/signature"
)

// maxFlatResults is the number of flat values a result may use before it is
// returned through a pointer.
const maxFlatResults = 1

// elemLayout returns the size and alignment of one element of t in guest
// memory.
func elemLayout(t wit.Type) (size, align uint32) {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return 1, 1
	case wit.U16, wit.S16:
		return 2, 2
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return 4, 4
	case wit.U64, wit.S64, wit.F64:
		return 8, 8
	case wit.String:
		return 8, 4 // [ptr: u32, len: u32]
	case *wit.TypeDef:
		if _, ok := typ.Kind.(*wit.List); ok {
			return 8, 4
		}
	}
	return 0, 1
}

// listElem returns the element type of a list type.
func listElem(t wit.Type) (wit.Type, bool) {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return nil, false
	}
	l, ok := td.Kind.(*wit.List)
	if !ok {
		return nil, false
	}
	return l.Type, true
}

// flatten returns the core value types t lowers to.
func flatten(t wit.Type) []api.ValueType {
	switch t.(type) {
	case nil:
		return nil
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	case *wit.TypeDef:
		if _, ok := listElem(t); ok {
			return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
		}
	}
	return []api.ValueType{api.ValueTypeI32}
}

// lowered is the core signature a native method export must have.
type lowered struct {
	params    []api.ValueType
	results   []api.ValueType
	retByPtr  bool
	elemSizes []uint32 // per parameter, 0 for scalars
}

func lower(sig signature.Signature) lowered {
	var lw lowered
	lw.elemSizes = make([]uint32, len(sig.Params))
	for i, p := range sig.Params {
		t := p.WIT()
		lw.params = append(lw.params, flatten(t)...)
		if elem, ok := listElem(t); ok {
			lw.elemSizes[i], _ = elemLayout(elem)
		} else if p == signature.String {
			lw.elemSizes[i] = 1
		}
	}

	res := flatten(sig.Result.WIT())
	if len(res) > maxFlatResults {
		lw.results = []api.ValueType{api.ValueTypeI32}
		lw.retByPtr = true
	} else {
		lw.results = res
	}
	return lw
}

func typeNames(ts []api.ValueType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = api.ValueTypeName(t)
	}
	return "(" + strings.Join(names, ", ") + ")"
}
