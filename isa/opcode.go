package isa

import (
	"fmt"
	"slices"
)

// Opcode is an instruction operation.
type Opcode int

const (
	OP_LD   = Opcode(0)  // LD
	OP_ST   = Opcode(1)  // ST
	OP_ADD  = Opcode(2)  // ADD
	OP_SUB  = Opcode(3)  // SUB
	OP_DIV  = Opcode(4)  // DIV
	OP_CMP  = Opcode(5)  // CMP
	OP_JMP  = Opcode(6)  // JMP
	OP_JZ   = Opcode(7)  // JZ
	OP_JNZ  = Opcode(8)  // JNZ
	OP_JN   = Opcode(9)  // JN
	OP_JLE  = Opcode(10) // JLE
	OP_JGE  = Opcode(11) // JGE
	OP_IN   = Opcode(12) // IN
	OP_OUT  = Opcode(13) // OUT
	OP_OUTC = Opcode(14) // OUTC
	OP_HLT  = Opcode(15) // HLT

	OPCODE_COUNT = 16 // Number of opcodes.
)

var opcodeNames = [OPCODE_COUNT]string{
	"LD", "ST", "ADD", "SUB", "DIV", "CMP",
	"JMP", "JZ", "JNZ", "JN", "JLE", "JGE",
	"IN", "OUT", "OUTC", "HLT",
}

// Opcodes returns all opcodes in encoding order.
func Opcodes() []Opcode {
	ops := make([]Opcode, OPCODE_COUNT)
	for n := range ops {
		ops[n] = Opcode(n)
	}
	return ops
}

// ParseOpcode returns the opcode for a mnemonic.
func ParseOpcode(name string) (op Opcode, err error) {
	n := slices.Index(opcodeNames[:], name)
	if n < 0 {
		err = fmt.Errorf("%w: %q", ErrOpcodeUnknown, name)
		return
	}

	op = Opcode(n)
	return
}

// Valid returns true if the opcode is a member of the instruction set.
func (op Opcode) Valid() bool {
	return op >= 0 && op < OPCODE_COUNT
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeNames[op]
}

// HasOperand returns true if the opcode carries an argument.
func (op Opcode) HasOperand() bool {
	switch op {
	case OP_IN, OP_OUT, OP_OUTC, OP_HLT:
		return false
	}
	return op.Valid()
}

// IsJump returns true for the branch opcodes, whose argument is a program
// index rather than a data operand.
func (op Opcode) IsJump() bool {
	return op >= OP_JMP && op <= OP_JGE
}

// MarshalText encodes the opcode mnemonic.
func (op Opcode) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOpcodeUnknown, int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText decodes an opcode mnemonic, rejecting unknown names.
func (op *Opcode) UnmarshalText(text []byte) (err error) {
	*op, err = ParseOpcode(string(text))
	return
}

// AddressMode selects how an argument becomes an operand.
type AddressMode int

const (
	MODE_NONE      = AddressMode(0) // no operand
	MODE_IMMEDIATE = AddressMode(1) // IMMEDIATE
	MODE_DIRECT    = AddressMode(2) // DIRECT
	MODE_INDIRECT  = AddressMode(3) // INDIRECT
)

var modeNames = [...]string{"", "IMMEDIATE", "DIRECT", "INDIRECT"}

// ParseAddressMode returns the addressing mode for a name.
func ParseAddressMode(name string) (mode AddressMode, err error) {
	n := slices.Index(modeNames[1:], name)
	if n < 0 {
		err = fmt.Errorf("%w: %q", ErrModeUnknown, name)
		return
	}

	mode = AddressMode(n + 1)
	return
}

// Valid returns true for a mode an operand can use.
func (mode AddressMode) Valid() bool {
	return mode >= MODE_IMMEDIATE && mode <= MODE_INDIRECT
}

func (mode AddressMode) String() string {
	if mode < 0 || int(mode) >= len(modeNames) {
		return fmt.Sprintf("AddressMode(%d)", int(mode))
	}
	return modeNames[mode]
}

// MarshalText encodes the mode name.
func (mode AddressMode) MarshalText() ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrModeUnknown, int(mode))
	}
	return []byte(mode.String()), nil
}

// UnmarshalText decodes a mode name, rejecting unknown names.
func (mode *AddressMode) UnmarshalText(text []byte) (err error) {
	*mode, err = ParseAddressMode(string(text))
	return
}
