package wasmmem

import (
	"reflect"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/fixcodec/errors"
)

// Memory wraps a guest linear memory. All offsets are guest addresses.
type Memory struct {
	mem api.Memory
}

func New(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

// FromModule returns the memory exported by mod.
func FromModule(mod api.Module) (*Memory, error) {
	mem := mod.Memory()
	if !isValidMemory(mem) {
		return nil, errors.NotFound(errors.PhaseStorage, "exported memory", mod.Name())
	}
	return New(mem), nil
}

// isValidMemory reports whether mem is usable. Modules without memory
// return a typed nil inside a non-nil interface.
func isValidMemory(mem api.Memory) bool {
	if mem == nil {
		return false
	}
	return !reflect.ValueOf(mem).IsNil()
}

// Size returns the current size of the memory in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// Read returns a view of length bytes at offset. The view aliases guest
// memory and is invalidated when the memory grows.
func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.outOfBounds(errors.PhaseDecode, offset, length)
	}
	return data, nil
}

// Write copies data into memory at offset.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return m.outOfBounds(errors.PhaseEncode, offset, uint32(len(data)))
	}
	return nil
}

func (m *Memory) outOfBounds(phase errors.Phase, offset, length uint32) *errors.Error {
	remaining := 0
	if size := m.mem.Size(); offset < size {
		remaining = int(size - offset)
	}
	return errors.Overflow(phase, nil, int(length), int(offset), remaining)
}
