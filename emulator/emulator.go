// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	stdio "io"
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Emulator state. CPU + program listing + tape channel.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape io.Channel // Tape IO channel; supplies `in` and receives `out`.
}

// NewEmulator creates a new emulator with an empty program and an in-memory
// tape.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil),
		Program: &cpu.Program{},
		Tape:    &io.Temporary{},
	}

	return
}

// Reset reloads the CPU from the program listing.
func (emu *Emulator) Reset() {
	emu.Cpu = cpu.NewCpu(emu.Program.Binary())
	emu.Cpu.Verbose = emu.Verbose
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int64 {
	return emu.Cpu.Ip
}

// LineNo returns the current line number for the executing instruction,
// or 0 if the address was not generated by the listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// feed moves one word from the tape to the CPU input queue when the next
// instruction would otherwise underflow.
func (emu *Emulator) feed() (err error) {
	if emu.Tape == nil || emu.Cpu.Pending() > 0 {
		return
	}

	inst, err := emu.Cpu.Next()
	if err != nil || inst.Opcode != cpu.OP_IN {
		// Decode failures are reported by the step itself.
		err = nil
		return
	}

	value, err := emu.Tape.Receive()
	if errors.Is(err, stdio.EOF) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: tape -> %d", value)
	}

	emu.Cpu.Input(value)

	return
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	err = emu.feed()
	if err != nil {
		return
	}

	state, value, err := emu.Cpu.Step()
	if err != nil {
		return
	}

	switch state {
	case cpu.STATE_EMITTED:
		if emu.Verbose {
			log.Printf("emulator: tape <- %d", value)
		}
		if emu.Tape != nil {
			err = emu.Tape.Send(value)
		}
	case cpu.STATE_HALTED:
		done = true
	}

	return
}

// Run ticks the emulator until the program halts or fails.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
