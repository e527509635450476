package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCpu_Programs(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []int64
		memory  []int64
	}){
		{"add", []int64{1, 0, 0, 0, 99}, []int64{2, 0, 0, 0, 99}},
		{"mul", []int64{2, 3, 0, 3, 99}, []int64{2, 3, 0, 6, 99}},
		{"mul_tail", []int64{2, 4, 4, 5, 99, 0}, []int64{2, 4, 4, 5, 99, 9801}},
		{"self_modify", []int64{1, 1, 1, 4, 99, 5, 6, 0, 99}, []int64{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"mul_mixed", []int64{1002, 4, 3, 4, 33}, []int64{1002, 4, 3, 4, 99}},
		{"add_negative", []int64{1101, 100, -1, 4, 0}, []int64{1101, 100, -1, 4, 99}},
	}

	for _, entry := range table {
		cpu := NewCpu(entry.program)
		err := cpu.RunUntilCompletion()
		assert.NoError(err, entry.name)
		assert.True(cpu.Halted(), entry.name)
		assert.Equal(entry.memory, cpu.Memory(), entry.name)
	}
}

func TestCpu_InputOutput(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu([]int64{3, 0, 4, 0, 99})
	cpu.Input(15)
	err := cpu.RunUntilCompletion()
	assert.NoError(err)
	assert.Equal([]int64{15}, cpu.Output())
	assert.Equal(0, cpu.Pending())
}

func TestCpu_Compare(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []int64
		cases   [][2]int64
	}){
		{"eq_position", []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8},
			[][2]int64{{125, 0}, {8, 1}, {3, 0}, {-8, 0}}},
		{"lt_position", []int64{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8},
			[][2]int64{{15, 0}, {8, 0}, {1, 1}, {-8, 1}}},
		{"eq_immediate", []int64{3, 3, 1108, -1, 8, 3, 4, 3, 99},
			[][2]int64{{125, 0}, {8, 1}, {3, 0}, {-8, 0}}},
		{"lt_immediate", []int64{3, 3, 1107, -1, 8, 3, 4, 3, 99},
			[][2]int64{{15, 0}, {8, 0}, {1, 1}, {-8, 1}}},
		{"jump_position", []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9},
			[][2]int64{{0, 0}, {1, 1}, {2, 1}, {-1, 1}, {-2, 1}}},
		{"jump_immediate", []int64{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1},
			[][2]int64{{0, 0}, {1, 1}, {2, 1}, {-1, 1}, {-2, 1}}},
		{"compare_eight", []int64{3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20,
			1006, 20, 31, 1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104, 999,
			1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99},
			[][2]int64{{-5, 999}, {6, 999}, {0, 999}, {8, 1000}, {9, 1001}, {11, 1001}, {99, 1001}}},
	}

	for _, entry := range table {
		cpu := NewCpu(entry.program)
		for _, io := range entry.cases {
			cpu.Reset()
			cpu.Input(io[0])
			err := cpu.RunUntilCompletion()
			assert.NoError(err, entry.name)
			assert.True(cpu.Halted(), entry.name)
			last, ok := cpu.LastOutput()
			assert.True(ok, entry.name)
			assert.Equal(io[1], last, "%v: input %d", entry.name, io[0])
		}
	}
}

func TestCpu_Relative(t *testing.T) {
	assert := assert.New(t)

	quine := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	cpu := NewCpu(quine)
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal(quine, cpu.Output())
	assert.True(cpu.Halted())

	cpu = NewCpu([]int64{1102, 34915192, 34915192, 7, 4, 7, 99, 0})
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal([]int64{34915192 * 34915192}, cpu.Output())

	cpu = NewCpu([]int64{104, 1125899906842624, 99})
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal([]int64{1125899906842624}, cpu.Output())

	cpu = NewCpu([]int64{109, 19, 99})
	cpu.RelativeBase = 2000
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal(int64(2019), cpu.RelativeBase)

	// Relative destination past the end of the program.
	cpu = NewCpu([]int64{109, 10, 21101, 3, 4, 5, 204, 5, 99})
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal([]int64{7}, cpu.Output())
	assert.Equal(int64(16), int64(len(cpu.Memory())))
}

func TestCpu_RunUntilOutput(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu([]int64{104, 1, 104, 2, 99})

	state, err := cpu.RunUntilOutput()
	assert.NoError(err)
	assert.Equal(STATE_EMITTED, state)
	assert.Equal([]int64{1}, cpu.Output())
	assert.Equal(int64(2), cpu.Ip)

	state, err = cpu.RunUntilOutput()
	assert.NoError(err)
	assert.Equal(STATE_EMITTED, state)
	assert.Equal([]int64{1, 2}, cpu.Output())

	state, err = cpu.RunUntilOutput()
	assert.NoError(err)
	assert.Equal(STATE_HALTED, state)
	assert.True(cpu.Halted())

	// Halted machines stay halted.
	state, err = cpu.RunUntilOutput()
	assert.NoError(err)
	assert.Equal(STATE_HALTED, state)
	assert.Equal(3, cpu.Ticks)
}

func TestCpu_Step(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu([]int64{1101, 2, 3, 7, 4, 7, 99, 0})

	state, value, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(STATE_CONTINUE, state)
	assert.Equal(int64(0), value)
	assert.Equal(int64(4), cpu.Ip)

	state, value, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(STATE_EMITTED, state)
	assert.Equal(int64(5), value)

	state, _, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(STATE_HALTED, state)
	assert.Equal(int64(6), cpu.Ip)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	program := []int64{3, 20, 109, 7, 21101, 1, 2, 30, 4, 20, 99}
	cpu := NewCpu(program, 42, 43)

	ip := cpu.Ip
	rb := cpu.RelativeBase
	memory := append([]int64(nil), cpu.Memory()...)

	assert.NoError(cpu.RunUntilCompletion())
	assert.True(cpu.Halted())
	assert.Equal([]int64{42}, cpu.Output())
	assert.Equal(1, cpu.Pending())
	assert.Equal(int64(38), int64(len(cpu.Memory())))

	cpu.Reset()
	assert.Equal(ip, cpu.Ip)
	assert.Equal(rb, cpu.RelativeBase)
	assert.Equal(memory, cpu.Memory())
	assert.Empty(cpu.Output())
	assert.Equal(2, cpu.Pending())
	assert.False(cpu.Halted())
	assert.Equal(0, cpu.Ticks)
	assert.NoError(cpu.Err())

	// Runs identically after reset.
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal([]int64{42}, cpu.Output())
}

func TestCpu_PeekPoke(t *testing.T) {
	assert := assert.New(t)

	program := []int64{1, 0, 0, 3, 2, 3, 11, 0, 99, 30, 40, 50}
	cpu := NewCpu(program)

	assert.NoError(cpu.Poke(1, 9))
	assert.NoError(cpu.Poke(2, 10))
	assert.Equal(int64(9), cpu.Peek(1))
	assert.NoError(cpu.RunUntilCompletion())
	assert.Equal(int64(3500), cpu.Peek(0))

	cpu.Reset()
	assert.Equal(int64(0), cpu.Peek(1))
	assert.Equal(int64(0), cpu.Peek(100))
	assert.Equal(int64(0), cpu.Peek(-1))

	assert.ErrorIs(cpu.Poke(-1, 5), ErrMalformedProgram)
}

func TestCpu_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []int64
		err     error
		detail  error
		ip      int64
		word    int64
	}){
		{"opcode_unknown", []int64{1, 0, 0, 0, 42}, ErrMalformedProgram, ErrOpcodeUnknown, 4, 42},
		{"opcode_zero", []int64{1101, 1, 1, 0}, ErrMalformedProgram, ErrOpcodeUnknown, 4, 0},
		{"mode_unknown", []int64{301, 0, 0, 0, 99}, ErrMalformedProgram, ErrModeUnknown, 0, 301},
		{"immediate_dst", []int64{11101, 1, 1, 0, 99}, ErrMalformedProgram, ErrModeImmediate, 0, 11101},
		{"negative_read", []int64{4, -1, 99}, ErrMalformedProgram, ErrAddressNegative, 0, 4},
		{"negative_write", []int64{1101, 1, 1, -3, 99}, ErrMalformedProgram, ErrAddressNegative, 0, 1101},
		{"address_range", []int64{1101, 1, 1, MEMORY_LIMIT, 99}, ErrMalformedProgram, ErrAddressRange, 0, 1101},
		{"negative_jump", []int64{1105, 1, -7, 99}, ErrMalformedProgram, ErrAddressNegative, 0, 1105},
		{"input_underflow", []int64{104, 1, 3, 0, 99}, ErrInputUnderflow, ErrInputUnderflow, 2, 3},
	}

	for _, entry := range table {
		cpu := NewCpu(entry.program)
		err := cpu.RunUntilCompletion()
		assert.ErrorIs(err, entry.err, entry.name)
		assert.ErrorIs(err, entry.detail, entry.name)
		assert.False(cpu.Halted(), entry.name)

		var inst ErrInstruction
		assert.True(errors.As(err, &inst), entry.name)
		assert.Equal(entry.ip, inst.Ip, entry.name)
		assert.Equal(entry.word, inst.Word, entry.name)

		// The fault is latched until reset.
		_, _, again := cpu.Step()
		assert.Equal(err, again, entry.name)
		assert.Equal(err, cpu.Err(), entry.name)
		assert.Equal(entry.ip, cpu.Ip, entry.name)
	}
}

func TestCpu_HaltedNotClearedByGrowth(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu([]int64{99})
	assert.NoError(cpu.RunUntilCompletion())
	assert.True(cpu.Halted())

	assert.NoError(cpu.Poke(1000, 1))
	assert.True(cpu.Halted())
}

func TestCpu_Next(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu([]int64{203, 5, 99})
	inst, err := cpu.Next()
	assert.NoError(err)
	assert.Equal(OP_IN, inst.Opcode)
	assert.Equal(MODE_RELATIVE, inst.Modes[0])
	assert.Equal(int64(0), cpu.Ip)
}
