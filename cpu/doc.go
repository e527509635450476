// Package cpu implements the IntCode machine, its assembler and disassembler.
//
// A machine has a growable memory of signed 64-bit words, an instruction
// pointer, a relative base register, and queues of pending input and
// emitted output. Each instruction word holds a two digit opcode in its low
// digits, and one parameter mode digit per operand above that.
//
// The assembler provides a small assembly language for the instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
