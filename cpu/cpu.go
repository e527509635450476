package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"
)

// State is the outcome of a single execution step.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_CONTINUE = State(0) // continue
	STATE_EMITTED  = State(1) // emitted
	STATE_HALTED   = State(2) // halted
)

// Cpu is the simulation context of a single IntCode machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ip           int64 // Current instruction pointer.
	RelativeBase int64 // Base added to relative mode operands.
	Ticks        int   // Instructions executed since reset.

	memory  Memory  // Live program memory.
	program []int64 // Program snapshot restored on reset.
	initial []int64 // Input queue contents restored on reset.
	input   []int64 // Pending input queue.
	output  []int64 // Output log.
	halted  bool    // Set by the halt opcode.
	fault   error   // Latched execution error.
}

// NewCpu creates a machine loaded with program, and an optional initial
// input queue.
func NewCpu(program []int64, input ...int64) (cpu *Cpu) {
	cpu = &Cpu{
		program: slices.Clone(program),
		initial: slices.Clone(input),
	}

	cpu.Reset()

	return
}

// Reset restores the machine to its just constructed state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.memory.Reset(cpu.program)
	cpu.Ip = 0
	cpu.RelativeBase = 0
	cpu.Ticks = 0
	cpu.input = append(cpu.input[:0], cpu.initial...)
	cpu.output = nil
	cpu.halted = false
	cpu.fault = nil
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   ip: %d\n", cpu.Ip)
	text += fmt.Sprintf("   rb: %d\n", cpu.RelativeBase)
	text += fmt.Sprintf("  mem: %d words\n", cpu.memory.Len())
	text += fmt.Sprintf("   in: %v\n", cpu.input)
	text += fmt.Sprintf("  out: %v\n", cpu.output)
	text += fmt.Sprintf(" halt: %v\n", cpu.halted)

	return
}

// Input appends values to the input queue.
func (cpu *Cpu) Input(values ...int64) {
	cpu.input = append(cpu.input, values...)
}

// Pending returns the number of queued input values.
func (cpu *Cpu) Pending() int {
	return len(cpu.input)
}

// Output returns the output log. The caller must not modify it.
func (cpu *Cpu) Output() []int64 {
	return slices.Clip(cpu.output)
}

// LastOutput returns the most recently emitted value.
func (cpu *Cpu) LastOutput() (value int64, ok bool) {
	if len(cpu.output) == 0 {
		return
	}

	return cpu.output[len(cpu.output)-1], true
}

// Halted returns true once the halt opcode has executed.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// Err returns the error that aborted the machine, if any.
func (cpu *Cpu) Err() error {
	return cpu.fault
}

// Memory returns the live memory words. The caller must not modify it.
func (cpu *Cpu) Memory() []int64 {
	return slices.Clip(cpu.memory.Data)
}

// Peek returns the memory word at addr. Addresses that are negative or
// beyond the extent read as zero.
func (cpu *Cpu) Peek(addr int64) (value int64) {
	value, _ = cpu.memory.Get(addr)
	return
}

// Poke stores a memory word, for patching a program before it runs.
func (cpu *Cpu) Poke(addr int64, value int64) (err error) {
	return cpu.memory.Set(addr, value)
}

// Next decodes the instruction at the instruction pointer without
// executing it.
func (cpu *Cpu) Next() (inst Instruction, err error) {
	word, err := cpu.memory.Get(cpu.Ip)
	if err != nil {
		return
	}

	return Decode(word)
}

// RunUntilOutput steps the machine until it emits a value or halts.
func (cpu *Cpu) RunUntilOutput() (state State, err error) {
	for {
		state, _, err = cpu.Step()
		if err != nil || state != STATE_CONTINUE {
			return
		}
	}
}

// RunUntilCompletion steps the machine until it halts, regardless of any
// emitted values.
func (cpu *Cpu) RunUntilCompletion() (err error) {
	for {
		var state State
		state, _, err = cpu.Step()
		if err != nil || state == STATE_HALTED {
			return
		}
	}
}

// Step executes a single instruction.
func (cpu *Cpu) Step() (state State, value int64, err error) {
	if cpu.fault != nil {
		err = cpu.fault
		return
	}

	if cpu.halted {
		state = STATE_HALTED
		return
	}

	word, _ := cpu.memory.Get(cpu.Ip)

	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction{Ip: cpu.Ip, Word: word}, err)
			cpu.fault = err
		}
	}()

	inst, err := Decode(word)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04d: %v", cpu.Ip, inst.Format(cpu.args(inst)...))
	}

	state, value, err = cpu.Execute(inst)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// args returns the raw operands of the instruction at the instruction
// pointer.
func (cpu *Cpu) args(inst Instruction) (args []int64) {
	args = make([]int64, inst.Arity())
	for n := range args {
		args[n], _ = cpu.memory.Get(cpu.Ip + 1 + int64(n))
	}

	return
}

// Execute executes a decoded instruction located at the instruction pointer.
func (cpu *Cpu) Execute(inst Instruction) (state State, value int64, err error) {
	next_ip := cpu.Ip + 1 + int64(inst.Arity())

	switch inst.Opcode {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b int64
		a, err = cpu.getValue(inst, 0)
		if err != nil {
			return
		}
		b, err = cpu.getValue(inst, 1)
		if err != nil {
			return
		}
		err = cpu.setValue(inst, 2, doAlu(inst.Opcode, a, b))
		if err != nil {
			return
		}
	case OP_IN:
		if len(cpu.input) == 0 {
			err = ErrInputUnderflow
			return
		}
		err = cpu.setValue(inst, 0, cpu.input[0])
		if err != nil {
			return
		}
		cpu.input = cpu.input[1:]
	case OP_OUT:
		value, err = cpu.getValue(inst, 0)
		if err != nil {
			return
		}
		cpu.output = append(cpu.output, value)
		state = STATE_EMITTED
	case OP_JNZ, OP_JZ:
		var cond, target int64
		cond, err = cpu.getValue(inst, 0)
		if err != nil {
			return
		}
		target, err = cpu.getValue(inst, 1)
		if err != nil {
			return
		}
		if (cond != 0) == (inst.Opcode == OP_JNZ) {
			if target < 0 {
				err = errors.Join(ErrMalformedProgram, ErrAddressNegative)
				return
			}
			next_ip = target
		}
	case OP_ARB:
		var adjust int64
		adjust, err = cpu.getValue(inst, 0)
		if err != nil {
			return
		}
		cpu.RelativeBase += adjust
	case OP_HALT:
		cpu.halted = true
		state = STATE_HALTED
		return
	default:
		err = errors.Join(ErrMalformedProgram, ErrOpcodeUnknown)
		return
	}

	cpu.Ip = next_ip

	return
}

// getValue resolves the read operand n of the instruction at the
// instruction pointer.
func (cpu *Cpu) getValue(inst Instruction, n int) (value int64, err error) {
	raw, err := cpu.memory.Get(cpu.Ip + 1 + int64(n))
	if err != nil {
		return
	}

	switch inst.Modes[n] {
	case MODE_IMMEDIATE:
		value = raw
	case MODE_POSITION:
		value, err = cpu.memory.Get(raw)
	case MODE_RELATIVE:
		value, err = cpu.memory.Get(cpu.RelativeBase + raw)
	default:
		err = errors.Join(ErrMalformedProgram, ErrModeUnknown)
	}

	return
}

// setValue stores value at the destination addressed by operand n of the
// instruction at the instruction pointer.
func (cpu *Cpu) setValue(inst Instruction, n int, value int64) (err error) {
	raw, err := cpu.memory.Get(cpu.Ip + 1 + int64(n))
	if err != nil {
		return
	}

	var addr int64
	switch inst.Modes[n] {
	case MODE_POSITION:
		addr = raw
	case MODE_RELATIVE:
		addr = cpu.RelativeBase + raw
	case MODE_IMMEDIATE:
		err = errors.Join(ErrMalformedProgram, ErrModeImmediate)
		return
	default:
		err = errors.Join(ErrMalformedProgram, ErrModeUnknown)
		return
	}

	return cpu.memory.Set(addr, value)
}

// doAlu performs the requested arithmetic or comparison, and returns the
// output value.
func doAlu(op Opcode, a int64, b int64) (output int64) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_MUL:
		output = a * b
	case OP_LT:
		if a < b {
			output = 1
		}
	case OP_EQ:
		if a == b {
			output = 1
		}
	}

	return
}
