// Package isa defines the instruction set of the accumulator machine.
//
// An instruction is an opcode with an optional signed argument and an
// addressing mode. A program is an ordered list of instructions, and an
// image bundles a program with the data segment that seeds memory.
//
// Images are persisted as JSON or YAML documents. The assembler provides a
// text form of the instruction set with labels, equates, data directives and
// compile-time expression evaluation.
package isa
