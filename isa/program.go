package isa

import (
	"fmt"
	"strings"
)

// Instruction is a single decoded instruction. Arg and Mode are only
// meaningful when the opcode has an operand.
type Instruction struct {
	Opcode Opcode
	Arg    int32
	Mode   AddressMode
}

// MakeInstruction creates an operand-less instruction.
func MakeInstruction(op Opcode) Instruction {
	return Instruction{Opcode: op}
}

// MakeOperand creates an instruction with an argument and addressing mode.
func MakeOperand(op Opcode, arg int32, mode AddressMode) Instruction {
	return Instruction{Opcode: op, Arg: arg, Mode: mode}
}

// MakeJump creates a branch to a program index.
func MakeJump(op Opcode, target int32) Instruction {
	return Instruction{Opcode: op, Arg: target, Mode: MODE_IMMEDIATE}
}

// Validate checks that the operand matches the opcode.
func (in Instruction) Validate() (err error) {
	switch {
	case !in.Opcode.Valid():
		err = ErrOpcodeUnknown
	case in.Opcode.HasOperand() && in.Mode == MODE_NONE:
		err = ErrOperandMissing
	case in.Opcode.HasOperand() && !in.Mode.Valid():
		err = ErrModeUnknown
	case in.Opcode.IsJump() && in.Mode != MODE_IMMEDIATE:
		err = ErrModeInvalid
	case !in.Opcode.HasOperand() && (in.Mode != MODE_NONE || in.Arg != 0):
		err = ErrOperandUnexpected
	}

	return
}

// String returns the assembler form of the instruction.
func (in Instruction) String() string {
	if !in.Opcode.HasOperand() {
		return in.Opcode.String()
	}

	if in.Opcode.IsJump() {
		return fmt.Sprintf("%v %d", in.Opcode, in.Arg)
	}

	switch in.Mode {
	case MODE_IMMEDIATE:
		return fmt.Sprintf("%v #%d", in.Opcode, in.Arg)
	case MODE_DIRECT:
		return fmt.Sprintf("%v %d", in.Opcode, in.Arg)
	case MODE_INDIRECT:
		return fmt.Sprintf("%v [%d]", in.Opcode, in.Arg)
	}

	return fmt.Sprintf("%v %d %v", in.Opcode, in.Arg, in.Mode)
}

// Program is an ordered list of instructions indexed by the program counter.
type Program []Instruction

// Validate checks every instruction of the program.
func (prog Program) Validate() (err error) {
	for n, in := range prog {
		err = in.Validate()
		if err != nil {
			err = ErrRecord{Index: n, Err: err}
			return
		}
	}

	return
}

// Listing returns a disassembly with one instruction per line.
func (prog Program) Listing() string {
	var sb strings.Builder
	for pc, in := range prog {
		fmt.Fprintf(&sb, "%03d: %v\n", pc, in)
	}
	return sb.String()
}

// Image is a loadable program together with the initial contents of data
// memory, starting at address 0.
type Image struct {
	Code Program
	Data []int32
}
