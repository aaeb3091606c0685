// Package wasmgen assembles small core WebAssembly modules in memory. It
// produces the native libraries used by tests, examples and the CLI
// self-test without needing an external toolchain.
package wasmgen

import (
	"bytes"
)

const (
	magic   = 0x6d736100 // \0asm
	version = 1

	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionMemory   = 5
	sectionGlobal   = 6
	sectionExport   = 7
	sectionCode     = 10

	kindFunc   = 0x00
	kindMemory = 0x02

	funcTypeByte = 0x60
)

// ValType is a core value type.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
)

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (ft FuncType) equal(o FuncType) bool {
	return bytes.Equal(valBytes(ft.Params), valBytes(o.Params)) &&
		bytes.Equal(valBytes(ft.Results), valBytes(o.Results))
}

func valBytes(vs []ValType) []byte {
	out := make([]byte, len(vs))
	for i, v := range vs {
		out[i] = byte(v)
	}
	return out
}

type funcImport struct {
	module  string
	name    string
	typeIdx uint32
}

type function struct {
	locals  []ValType
	body    []byte
	typeIdx uint32
}

type export struct {
	name  string
	kind  byte
	index uint32
}

type global struct {
	init    int32
	mutable bool
}

// Module accumulates definitions and encodes them to the binary format.
// Imports must be added before functions so function indices stay stable.
type Module struct {
	memory  *uint32
	types   []FuncType
	imports []funcImport
	funcs   []function
	exports []export
	globals []global
}

// New creates an empty module.
func New() *Module {
	return &Module{}
}

func (m *Module) typeIndex(ft FuncType) uint32 {
	for i, t := range m.types {
		if t.equal(ft) {
			return uint32(i)
		}
	}
	m.types = append(m.types, ft)
	return uint32(len(m.types) - 1)
}

// Import declares an imported function and returns its function index.
func (m *Module) Import(module, name string, ft FuncType) uint32 {
	if len(m.funcs) > 0 {
		panic("wasmgen: imports must precede functions")
	}
	m.imports = append(m.imports, funcImport{module: module, name: name, typeIdx: m.typeIndex(ft)})
	return uint32(len(m.imports) - 1)
}

// Func defines a function and returns its function index. Locals are
// additional to the parameters.
func (m *Module) Func(ft FuncType, locals []ValType, code *Code) uint32 {
	m.funcs = append(m.funcs, function{
		typeIdx: m.typeIndex(ft),
		locals:  locals,
		body:    code.Bytes(),
	})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Export exports function idx under name.
func (m *Module) Export(name string, idx uint32) {
	m.exports = append(m.exports, export{name: name, kind: kindFunc, index: idx})
}

// Memory defines memory 0 with minPages pages and exports it as name.
func (m *Module) Memory(minPages uint32, name string) {
	m.memory = &minPages
	if name != "" {
		m.exports = append(m.exports, export{name: name, kind: kindMemory, index: 0})
	}
}

// GlobalI32 defines an i32 global and returns its index.
func (m *Module) GlobalI32(init int32, mutable bool) uint32 {
	m.globals = append(m.globals, global{init: init, mutable: mutable})
	return uint32(len(m.globals) - 1)
}

// Encode returns the module binary.
func (m *Module) Encode() []byte {
	w := &writer{}
	w.u32le(magic)
	w.u32le(version)

	if len(m.types) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.types)))
		for _, ft := range m.types {
			sec.byte(funcTypeByte)
			sec.valTypes(ft.Params)
			sec.valTypes(ft.Results)
		}
		w.section(sectionType, sec)
	}

	if len(m.imports) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.imports)))
		for _, imp := range m.imports {
			sec.name(imp.module)
			sec.name(imp.name)
			sec.byte(kindFunc)
			sec.u32(imp.typeIdx)
		}
		w.section(sectionImport, sec)
	}

	if len(m.funcs) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			sec.u32(f.typeIdx)
		}
		w.section(sectionFunction, sec)
	}

	if m.memory != nil {
		sec := &writer{}
		sec.u32(1)
		sec.byte(0x00) // limits: min only
		sec.u32(*m.memory)
		w.section(sectionMemory, sec)
	}

	if len(m.globals) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.globals)))
		for _, g := range m.globals {
			sec.byte(byte(I32))
			if g.mutable {
				sec.byte(1)
			} else {
				sec.byte(0)
			}
			sec.byte(opI32Const)
			sec.s64(int64(g.init))
			sec.byte(opEnd)
		}
		w.section(sectionGlobal, sec)
	}

	if len(m.exports) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.exports)))
		for _, e := range m.exports {
			sec.name(e.name)
			sec.byte(e.kind)
			sec.u32(e.index)
		}
		w.section(sectionExport, sec)
	}

	if len(m.funcs) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			body := &writer{}
			body.u32(uint32(len(f.locals)))
			for _, l := range f.locals {
				body.u32(1)
				body.byte(byte(l))
			}
			body.bytes(f.body)
			body.byte(opEnd)

			sec.u32(uint32(len(body.buf)))
			sec.bytes(body.buf)
		}
		w.section(sectionCode, sec)
	}

	return w.buf
}

type writer struct {
	buf []byte
}

func (w *writer) byte(b byte) { w.buf = append(w.buf, b) }

func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) u32le(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (w *writer) u32(v uint32) { w.buf = appendU32(w.buf, v) }

func (w *writer) s64(v int64) { w.buf = appendS64(w.buf, v) }

func (w *writer) name(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) valTypes(vs []ValType) {
	w.u32(uint32(len(vs)))
	for _, v := range vs {
		w.byte(byte(v))
	}
}

func (w *writer) section(id byte, sec *writer) {
	w.byte(id)
	w.u32(uint32(len(sec.buf)))
	w.bytes(sec.buf)
}

func appendU32(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func appendS64(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}
