package cpu

import (
	"errors"
)

// MEMORY_LIMIT is the first address a machine may not write.
const MEMORY_LIMIT = int64(1) << 24

// Memory is the growable, zero-filled word store of a machine.
// Reads past the end return zero; writes past the end extend it.
type Memory struct {
	Data []int64
}

// Len returns the current extent of the memory.
func (m *Memory) Len() int64 {
	return int64(len(m.Data))
}

// Get returns the word at addr, or zero if addr is beyond the extent.
func (m *Memory) Get(addr int64) (value int64, err error) {
	if addr < 0 {
		err = errors.Join(ErrMalformedProgram, ErrAddressNegative)
		return
	}

	if addr < m.Len() {
		value = m.Data[addr]
	}

	return
}

// Set stores value at addr, zero filling up to addr when it is beyond the
// extent.
func (m *Memory) Set(addr int64, value int64) (err error) {
	if addr < 0 {
		err = errors.Join(ErrMalformedProgram, ErrAddressNegative)
		return
	}

	if addr >= MEMORY_LIMIT {
		err = errors.Join(ErrMalformedProgram, ErrAddressRange)
		return
	}

	if addr >= m.Len() {
		m.Data = append(m.Data, make([]int64, addr+1-m.Len())...)
	}

	m.Data[addr] = value

	return
}

// Reset replaces the memory contents with a copy of program, reusing the
// existing storage when it is large enough.
func (m *Memory) Reset(program []int64) {
	if cap(m.Data) < len(program) {
		m.Data = make([]int64, len(program))
	} else {
		m.Data = m.Data[:len(program)]
	}

	copy(m.Data, program)
}
