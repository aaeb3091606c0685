package wasmgen

// Opcodes used by the builder.
const (
	opUnreachable = 0x00
	opBlock       = 0x02
	opIf          = 0x04
	opEnd         = 0x0b
	opBrIf        = 0x0d
	opReturn      = 0x0f
	opCall        = 0x10
	opDrop        = 0x1a
	opLocalGet    = 0x20
	opLocalSet    = 0x21
	opLocalTee    = 0x22
	opGlobalGet   = 0x23
	opGlobalSet   = 0x24
	opI32Load     = 0x28
	opI64Load     = 0x29
	opI32Load8U   = 0x2d
	opI32Store    = 0x36
	opI64Store    = 0x37
	opI32Store8   = 0x3a
	opMemorySize  = 0x3f
	opMemoryGrow  = 0x40
	opI32Const    = 0x41
	opI64Const    = 0x42
	opI32Eqz      = 0x45
	opI32Eq       = 0x46
	opI32Ne       = 0x47
	opI32LtS      = 0x48
	opI32GtU      = 0x4b
	opI32LeU      = 0x4d
	opI32Add      = 0x6a
	opI32Sub      = 0x6b
	opI32Mul      = 0x6c
	opI32And      = 0x71
	opI32Shl      = 0x74
	opI32ShrU     = 0x76
	opI64ExtendU  = 0xad
	opPrefixFC    = 0xfc

	fcMemoryCopy = 0x0a
	fcMemoryFill = 0x0b

	blockEmpty = 0x40
)

// Code is a function body under construction. Methods append one
// instruction and return the receiver so bodies read top to bottom.
type Code struct {
	buf []byte
}

// NewCode starts an empty body.
func NewCode() *Code { return &Code{} }

// Bytes returns the encoded instructions without the final end.
func (c *Code) Bytes() []byte {
	if c == nil {
		return nil
	}
	return c.buf
}

func (c *Code) op(b ...byte) *Code {
	c.buf = append(c.buf, b...)
	return c
}

func (c *Code) opIdx(op byte, idx uint32) *Code {
	c.buf = appendU32(append(c.buf, op), idx)
	return c
}

func (c *Code) mem(op byte, align, offset uint32) *Code {
	c.buf = append(c.buf, op)
	c.buf = appendU32(c.buf, align)
	c.buf = appendU32(c.buf, offset)
	return c
}

func (c *Code) Unreachable() *Code { return c.op(opUnreachable) }
func (c *Code) Block() *Code       { return c.op(opBlock, blockEmpty) }
func (c *Code) If() *Code          { return c.op(opIf, blockEmpty) }
func (c *Code) End() *Code         { return c.op(opEnd) }
func (c *Code) Return() *Code      { return c.op(opReturn) }
func (c *Code) Drop() *Code        { return c.op(opDrop) }

func (c *Code) BrIf(depth uint32) *Code     { return c.opIdx(opBrIf, depth) }
func (c *Code) Call(fn uint32) *Code        { return c.opIdx(opCall, fn) }
func (c *Code) LocalGet(i uint32) *Code     { return c.opIdx(opLocalGet, i) }
func (c *Code) LocalSet(i uint32) *Code     { return c.opIdx(opLocalSet, i) }
func (c *Code) LocalTee(i uint32) *Code     { return c.opIdx(opLocalTee, i) }
func (c *Code) GlobalGet(i uint32) *Code    { return c.opIdx(opGlobalGet, i) }
func (c *Code) GlobalSet(i uint32) *Code    { return c.opIdx(opGlobalSet, i) }
func (c *Code) I32Load(off uint32) *Code    { return c.mem(opI32Load, 2, off) }
func (c *Code) I64Load(off uint32) *Code    { return c.mem(opI64Load, 3, off) }
func (c *Code) I32Load8U(off uint32) *Code  { return c.mem(opI32Load8U, 0, off) }
func (c *Code) I32Store(off uint32) *Code   { return c.mem(opI32Store, 2, off) }
func (c *Code) I64Store(off uint32) *Code   { return c.mem(opI64Store, 3, off) }
func (c *Code) I32Store8(off uint32) *Code  { return c.mem(opI32Store8, 0, off) }
func (c *Code) MemorySize() *Code           { return c.op(opMemorySize, 0x00) }
func (c *Code) MemoryGrow() *Code           { return c.op(opMemoryGrow, 0x00) }
func (c *Code) MemoryCopy() *Code           { return c.op(opPrefixFC, fcMemoryCopy, 0x00, 0x00) }
func (c *Code) MemoryFill() *Code           { return c.op(opPrefixFC, fcMemoryFill, 0x00) }
func (c *Code) I32Eqz() *Code               { return c.op(opI32Eqz) }
func (c *Code) I32Eq() *Code                { return c.op(opI32Eq) }
func (c *Code) I32Ne() *Code                { return c.op(opI32Ne) }
func (c *Code) I32LtS() *Code               { return c.op(opI32LtS) }
func (c *Code) I32GtU() *Code               { return c.op(opI32GtU) }
func (c *Code) I32LeU() *Code               { return c.op(opI32LeU) }
func (c *Code) I32Add() *Code               { return c.op(opI32Add) }
func (c *Code) I32Sub() *Code               { return c.op(opI32Sub) }
func (c *Code) I32Mul() *Code               { return c.op(opI32Mul) }
func (c *Code) I32And() *Code               { return c.op(opI32And) }
func (c *Code) I32Shl() *Code               { return c.op(opI32Shl) }
func (c *Code) I32ShrU() *Code              { return c.op(opI32ShrU) }
func (c *Code) I64ExtendI32U() *Code        { return c.op(opI64ExtendU) }

// I32Const pushes v.
func (c *Code) I32Const(v int32) *Code {
	c.buf = appendS64(append(c.buf, opI32Const), int64(v))
	return c
}

// I64Const pushes v.
func (c *Code) I64Const(v int64) *Code {
	c.buf = appendS64(append(c.buf, opI64Const), v)
	return c
}
