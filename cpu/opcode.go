package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// Opcode is the operation selected by the two low decimal digits of an
// instruction word.
type Opcode int64

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JNZ  = Opcode(5)  // jnz
	OP_JZ   = Opcode(6)  // jz
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_ARB  = Opcode(9)  // arb
	OP_HALT = Opcode(99) // halt
)

// Mode is a parameter addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // pos
	MODE_IMMEDIATE = Mode(1) // imm
	MODE_RELATIVE  = Mode(2) // rel
)

const (
	MODE_COUNT = 3      // Operand modes held in an instruction word.
	WORD_LIMIT = 100000 // First word value with a digit past the last mode.
)

// opcodeArity is the operand count of each known opcode.
var opcodeArity = map[Opcode]int{
	OP_ADD:  3,
	OP_MUL:  3,
	OP_IN:   1,
	OP_OUT:  1,
	OP_JNZ:  2,
	OP_JZ:   2,
	OP_LT:   3,
	OP_EQ:   3,
	OP_ARB:  1,
	OP_HALT: 0,
}

// Valid returns true for the ten opcodes of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeArity[op]
	return ok
}

// Arity returns the number of operands following the opcode word.
func (op Opcode) Arity() int {
	return opcodeArity[op]
}

// Writes returns true if the last operand of the opcode is a destination.
func (op Opcode) Writes() bool {
	switch op {
	case OP_ADD, OP_MUL, OP_IN, OP_LT, OP_EQ:
		return true
	}
	return false
}

// Valid returns true for the three defined addressing modes.
func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// Writable returns true if the mode can address a destination.
func (mode Mode) Writable() bool {
	return mode == MODE_POSITION || mode == MODE_RELATIVE
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Opcode Opcode
	Modes  [MODE_COUNT]Mode
}

// Decode splits an instruction word into its opcode and operand modes.
// Mode i is the decimal digit at position i+2, nearest the opcode first.
func Decode(word int64) (inst Instruction, err error) {
	if word < 0 || word >= WORD_LIMIT {
		err = errors.Join(ErrMalformedProgram, ErrOpcodeUnknown)
		return
	}

	inst.Opcode = Opcode(word % 100)
	if !inst.Opcode.Valid() {
		err = errors.Join(ErrMalformedProgram, ErrOpcodeUnknown)
		return
	}

	digits := word / 100
	for n := range MODE_COUNT {
		mode := Mode(digits % 10)
		if !mode.Valid() {
			err = errors.Join(ErrMalformedProgram, ErrModeUnknown)
			return
		}
		inst.Modes[n] = mode
		digits /= 10
	}

	return
}

// Encode builds the instruction word for an opcode and its operand modes.
// Missing modes are Position.
func Encode(op Opcode, modes ...Mode) (word int64) {
	word = int64(op)
	scale := int64(100)
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}

	return
}

// Word re-encodes the instruction.
func (inst Instruction) Word() int64 {
	return Encode(inst.Opcode, inst.Modes[:]...)
}

// Arity returns the operand count of the instruction's opcode.
func (inst Instruction) Arity() int {
	return inst.Opcode.Arity()
}

// Canonical returns true if every mode past the opcode's arity is Position
// and no destination is Immediate.
func (inst Instruction) Canonical() bool {
	arity := inst.Arity()
	for n := arity; n < MODE_COUNT; n++ {
		if inst.Modes[n] != MODE_POSITION {
			return false
		}
	}

	if inst.Opcode.Writes() && !inst.Modes[arity-1].Writable() {
		return false
	}

	return true
}

// Operand formats a raw operand in assembler syntax.
func (mode Mode) Operand(raw int64) string {
	switch mode {
	case MODE_IMMEDIATE:
		return fmt.Sprintf("#%d", raw)
	case MODE_RELATIVE:
		switch {
		case raw == 0:
			return "rb"
		case raw > 0:
			return fmt.Sprintf("rb+%d", raw)
		default:
			return fmt.Sprintf("rb%d", raw)
		}
	}

	return fmt.Sprintf("%d", raw)
}

// Format returns the assembly language text of the instruction with its
// raw operands.
func (inst Instruction) Format(args ...int64) string {
	words := []string{inst.Opcode.String()}
	for n, arg := range args {
		if n >= MODE_COUNT {
			break
		}
		words = append(words, inst.Modes[n].Operand(arg))
	}

	return strings.Join(words, " ")
}

// String returns the opcode and operand modes of the instruction.
func (inst Instruction) String() string {
	arity := inst.Arity()
	if arity == 0 {
		return inst.Opcode.String()
	}

	modes := make([]string, arity)
	for n := range arity {
		modes[n] = inst.Modes[n].String()
	}

	return fmt.Sprintf("%v.%v", inst.Opcode, strings.Join(modes, "."))
}
