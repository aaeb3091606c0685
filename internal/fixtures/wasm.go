package fixtures

import (
	"github.com/wippyai/native-bridge/internal/wasmgen"
	"github.com/wippyai/native-bridge/wasmlib"
)

// heapBase is where the guest bump allocator starts handing out memory.
const heapBase = 1024

var (
	i32 = wasmgen.I32
	i64 = wasmgen.I64
)

// guest holds the pieces every fixture module shares: the bounds import,
// exported memory and a bump allocator behind cabi_realloc.
type guest struct {
	m       *wasmgen.Module
	throw   uint32
	realloc uint32
	reset   uint32
}

func newGuest() *guest {
	g := &guest{m: wasmgen.New()}
	g.throw = g.m.Import(wasmlib.HostModule, wasmlib.ThrowBounds,
		wasmgen.FuncType{Params: []wasmgen.ValType{i32, i32}})
	g.m.Memory(1, wasmlib.DefaultMemoryExport)
	heap := g.m.GlobalI32(heapBase, true)

	// cabi_realloc(old, oldSize, align, newSize): freeing the most recent
	// allocation pops the heap back, other frees are no-ops. Growth happens
	// on demand.
	g.realloc = g.m.Func(
		wasmgen.FuncType{Params: []wasmgen.ValType{i32, i32, i32, i32}, Results: []wasmgen.ValType{i32}},
		[]wasmgen.ValType{i32, i32},
		wasmgen.NewCode().
			LocalGet(3).I32Eqz().If().
			LocalGet(0).LocalGet(1).I32Add().GlobalGet(heap).I32Eq().If().
			LocalGet(0).GlobalSet(heap).
			End().
			I32Const(0).Return().
			End().
			GlobalGet(heap).LocalGet(2).I32Add().I32Const(1).I32Sub().
			I32Const(0).LocalGet(2).I32Sub().I32And().LocalTee(4).
			LocalGet(3).I32Add().LocalTee(5).GlobalSet(heap).
			LocalGet(5).MemorySize().I32Const(16).I32Shl().I32GtU().If().
			LocalGet(5).MemorySize().I32Const(16).I32Shl().I32Sub().
			I32Const(0xffff).I32Add().I32Const(16).I32ShrU().
			MemoryGrow().I32Const(-1).I32Eq().If().Unreachable().End().
			End().
			LocalGet(0).If().LocalGet(4).LocalGet(0).LocalGet(1).MemoryCopy().End().
			LocalGet(4))
	g.m.Export(wasmlib.DefaultAllocExport, g.realloc)

	// Post-return hook: everything the call allocated is dead once the host
	// has read the results.
	g.reset = g.m.Func(
		wasmgen.FuncType{Params: []wasmgen.ValType{i32}},
		nil,
		wasmgen.NewCode().I32Const(heapBase).GlobalSet(heap))
	return g
}

// alloc emits a call to the allocator for size bytes at align, leaving the
// pointer in local dst.
func (g *guest) alloc(c *wasmgen.Code, align, size int32, dst uint32) *wasmgen.Code {
	return c.I32Const(0).I32Const(0).I32Const(align).I32Const(size).Call(g.realloc).LocalSet(dst)
}

// retPair emits code storing (ptr, len) at a fresh return area and leaving
// its address on the stack.
func (g *guest) retPair(c *wasmgen.Code, ptr, length, ret uint32) *wasmgen.Code {
	g.alloc(c, 4, 8, ret)
	return c.LocalGet(ret).LocalGet(ptr).I32Store(0).
		LocalGet(ret).LocalGet(length).I32Store(4).
		LocalGet(ret)
}

// checkDeclared emits a bounds trap when local declared exceeds local
// capacity, unsigned so negative lengths fail too.
func (g *guest) checkDeclared(c *wasmgen.Code, declared, capacity uint32) *wasmgen.Code {
	return c.LocalGet(declared).LocalGet(capacity).I32GtU().If().
		LocalGet(declared).LocalGet(capacity).Call(g.throw).Unreachable().
		End()
}

// ArraysWASM assembles the arrays library as a WebAssembly module exporting
// JNI short symbols.
func ArraysWASM() []byte {
	g := newGuest()
	m := g.m

	// combine_bytes(ptr, len) -> i64, over exactly 8 elements.
	c := wasmgen.NewCode().
		LocalGet(1).I32Const(8).I32Ne().If().
		I32Const(8).LocalGet(1).Call(g.throw).Unreachable().
		End().
		LocalGet(0).I64Load(0)
	m.Export(CombineBytes.Symbol(), m.Func(
		wasmgen.FuncType{Params: []wasmgen.ValType{i32, i32}, Results: []wasmgen.ValType{i64}}, nil, c))

	// break_bytes(n) -> retptr
	c = wasmgen.NewCode()
	g.alloc(c, 1, 8, 1)
	c.LocalGet(1).LocalGet(0).I64Store(0)
	c.I32Const(8).LocalSet(2)
	g.retPair(c, 1, 2, 3)
	m.Export(BreakBytes.Symbol(), m.Func(
		wasmgen.FuncType{Params: []wasmgen.ValType{i64}, Results: []wasmgen.ValType{i32}},
		[]wasmgen.ValType{i32, i32, i32}, c))
	m.Export(wasmlib.PostReturnPrefix+BreakBytes.Symbol(), g.reset)

	// fillWithOnes(ptr, len, n) -> i64 and fillWithTrue, which is the same
	// body over canonical booleans.
	fill := func() *wasmgen.Code {
		c := wasmgen.NewCode()
		g.checkDeclared(c, 2, 1)
		return c.LocalGet(0).I32Const(1).LocalGet(2).MemoryFill().I64Const(0)
	}
	fillType := wasmgen.FuncType{Params: []wasmgen.ValType{i32, i32, i32}, Results: []wasmgen.ValType{i64}}
	m.Export(FillWithOnes.Symbol(), m.Func(fillType, nil, fill()))
	m.Export(FillWithTrue.Symbol(), m.Func(fillType, nil, fill()))

	return m.Encode()
}

// GreetingWASM assembles the greeting library.
func GreetingWASM() []byte {
	g := newGuest()
	m := g.m

	// base_greeting(ptr, len) -> retptr to the argument's own bytes.
	c := wasmgen.NewCode()
	g.retPair(c, 0, 1, 2)
	m.Export(BaseGreeting.Symbol(), m.Func(
		wasmgen.FuncType{Params: []wasmgen.ValType{i32, i32}, Results: []wasmgen.ValType{i32}},
		[]wasmgen.ValType{i32}, c))
	m.Export(wasmlib.PostReturnPrefix+BaseGreeting.Symbol(), g.reset)

	m.Export(GetInt.Symbol(), m.Func(
		wasmgen.FuncType{Results: []wasmgen.ValType{i32}}, nil,
		wasmgen.NewCode().I32Const(0)))

	m.Export(EchoInt.Symbol(), m.Func(
		wasmgen.FuncType{Params: []wasmgen.ValType{i32}, Results: []wasmgen.ValType{i32}}, nil,
		wasmgen.NewCode().LocalGet(0)))

	return m.Encode()
}
