package wasmlib

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/native-bridge/errors"
)

// guestMemory adapts wazero api.Memory to bounds-checked reads and writes.
type guestMemory struct {
	mem api.Memory
}

func (m guestMemory) read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Value(offset).
			Detail("memory read out of bounds: offset=%d, length=%d", offset, length).
			Build()
	}
	return data, nil
}

func (m guestMemory) write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Value(offset).
			Detail("memory write out of bounds: offset=%d, length=%d", offset, len(data)).
			Build()
	}
	return nil
}

func (m guestMemory) readU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Value(offset).
			Detail("memory read out of bounds: offset=%d", offset).
			Build()
	}
	return v, nil
}

// readPair reads a [ptr u32, len u32] return area.
func (m guestMemory) readPair(offset uint32) (ptr, length uint32, err error) {
	if ptr, err = m.readU32(offset); err != nil {
		return 0, 0, err
	}
	if length, err = m.readU32(offset + 4); err != nil {
		return 0, 0, err
	}
	return ptr, length, nil
}

// allocator calls the guest's cabi_realloc export.
type allocator struct {
	fn api.Function
}

type allocation struct {
	ptr, size, align uint32
}

func (a allocator) alloc(ctx context.Context, size, align uint32) (uint32, error) {
	results, err := a.fn.Call(ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.New(errors.PhaseRuntime, errors.KindAllocation).
			Value(size).
			Cause(err).
			Detail("allocation of %d bytes failed", size).
			Build()
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align)
	}
	return uint32(results[0]), nil
}

func (a allocator) free(ctx context.Context, al allocation) {
	_, _ = a.fn.Call(ctx, uint64(al.ptr), uint64(al.size), uint64(al.align), 0)
}
