package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Tape)

	// An empty program runs off into word 0, which is not an opcode.
	emu.Reset()
	_, err := emu.Tick()
	assert.ErrorIs(err, cpu.ErrMalformedProgram)
}

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatalf("%v", err)
	}
	emu.Program = prog
	emu.Reset()
}

func doRunSingle(emu *Emulator, program []string, input string, t *testing.T) (output string) {
	assert := assert.New(t)

	doAssemble(emu, program, t)

	tape_output := &bytes.Buffer{}
	emu.Tape = &io.Tape{Input: strings.NewReader(input), Output: tape_output}

	for _, line := range emu.Program.Lines {
		if line.Words[0] == ".data" {
			break
		}
		here := program[line.LineNo-1]
		assert.Equal(line.LineNo, emu.LineNo(), here)
		assert.Equal(line.Ip, emu.Ip(), here)
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.Equal(line.Words[0] == "halt", done, here)
	}

	output = tape_output.String()
	return
}

func TestEmulatorTape(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".equ A 100",
		".equ B 101",
		"in A",
		"in B",
		"mul A B A",
		"out A",
		"out #'!'",
		"halt",
	}

	output := doRunSingle(emu, program, "6, 7\n", t)

	assert.Equal("42\n33\n", output)
	assert.True(emu.Halted())
	assert.Equal(6, emu.Ticks())
}

func TestEmulatorRelative(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"arb #$(10 * 10)",
		"in rb+1",
		"add rb+1 rb+1 rb+2",
		"out rb+2",
		"arb #-100",
		"out rb+1",
		"halt",
	}

	output := doRunSingle(emu, program, "-21", t)

	// rb+1 is now the operand of the first arb.
	assert.Equal("-42\n100\n", output)
	assert.Equal(int64(0), emu.Cpu.RelativeBase)
}

func TestEmulatorMacro(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".macro echo",
		"in rb",
		"out rb",
		".endm",
		"arb #1000",
		"echo",
		"echo",
		"halt",
	}

	doAssemble(emu, program, t)
	emu.Tape = &io.Temporary{Data: []int64{3, 4}}

	assert.NoError(emu.Run())

	tape := emu.Tape.(*io.Temporary)
	assert.Equal(int64(4), emu.Cpu.Peek(1000))
	assert.Equal([]int64{3, 4}, emu.Cpu.Output())

	var values []int64
	for tape.Size() > 0 {
		value, err := tape.Receive()
		assert.NoError(err)
		values = append(values, value)
	}
	assert.Equal([]int64{3, 4}, values)
}

func TestEmulatorLabel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"        jz #0 #start",
		"count:  .data 3",
		"start:  out count",
		"        add count #-1 count",
		"        jnz count #start",
		"        halt",
	}

	doAssemble(emu, program, t)
	output := &bytes.Buffer{}
	emu.Tape = &io.Tape{Output: output}

	assert.Equal(1, emu.LineNo())
	_, err := emu.Tick()
	assert.NoError(err)
	assert.Equal(3, emu.LineNo())

	assert.NoError(emu.Run())
	assert.Equal("3\n2\n1\n", output.String())
	assert.Equal(6, emu.LineNo())
}

func TestEmulatorUnderflow(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"in 20",
		"out 20",
		"in 20",
		"halt",
	}

	doAssemble(emu, program, t)
	emu.Tape = &io.Tape{Input: strings.NewReader("5"), Output: &bytes.Buffer{}}

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrInputUnderflow)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
		assert.Equal(int64(4), runtime.Ip)
	}
	assert.False(emu.Halted())
}

func TestEmulatorBadTape(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, []string{"in 5", "halt"}, t)
	emu.Tape = &io.Tape{Input: strings.NewReader("five")}

	_, err := emu.Tick()
	assert.ErrorIs(err, io.ErrParseNumber("five"))
	assert.Equal(int64(0), emu.Ip())
}

func TestEmulatorMalformed(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = cpu.Disassemble([]int64{104, 1, 42})
	emu.Reset()

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	_, err = emu.Tick()
	assert.ErrorIs(err, cpu.ErrMalformedProgram)
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
		assert.Equal(int64(2), runtime.Ip)
	}

	// Reset clears the fault.
	emu.Reset()
	assert.NoError(emu.Cpu.Err())
	assert.Equal(int64(0), emu.Ip())
}
