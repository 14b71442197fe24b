package isa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, program ...string) *Image {
	asm := &Assembler{}
	image, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	return image
}

func TestAssembler_Empty(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(image.Code)
	assert.Empty(image.Data)

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("2147483647", asm.Equate["WORD_MAX"])
}

func TestAssembler_Modes(t *testing.T) {
	assert := assert.New(t)

	image := assemble(t,
		"LD #5      ; immediate",
		"ld 7       ; direct, any case",
		"ADD [9]    ; indirect",
		"sub #-1",
		"DIV 0x10",
		"CMP #'A'",
		"ST #'\\n'",
		"IN",
		"OUT",
		"OUTC",
		"HLT",
	)

	expected := Program{
		MakeOperand(OP_LD, 5, MODE_IMMEDIATE),
		MakeOperand(OP_LD, 7, MODE_DIRECT),
		MakeOperand(OP_ADD, 9, MODE_INDIRECT),
		MakeOperand(OP_SUB, -1, MODE_IMMEDIATE),
		MakeOperand(OP_DIV, 16, MODE_DIRECT),
		MakeOperand(OP_CMP, 65, MODE_IMMEDIATE),
		MakeOperand(OP_ST, 10, MODE_IMMEDIATE),
		MakeInstruction(OP_IN),
		MakeInstruction(OP_OUT),
		MakeInstruction(OP_OUTC),
		MakeInstruction(OP_HLT),
	}
	assert.Equal(expected, image.Code)
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	image := assemble(t,
		"start:  IN",
		"        JZ done",
		"        OUT",
		"        JMP start",
		"done:",
		"end:    HLT",
		"        JGE #2",
	)

	expected := Program{
		MakeInstruction(OP_IN),
		MakeJump(OP_JZ, 4),
		MakeInstruction(OP_OUT),
		MakeJump(OP_JMP, 0),
		MakeInstruction(OP_HLT),
		MakeJump(OP_JGE, 2),
	}
	assert.Equal(expected, image.Code)
}

func TestAssembler_Data(t *testing.T) {
	assert := assert.New(t)

	image := assemble(t,
		".equ PTR 10",
		".equ COUNT 11",
		".string 0 \"hi; there\"   ; comment",
		".word PTR 1 $(PTR + 1)",
		".word 4 'x' -2",
		"LD [PTR]",
		"ST #COUNT",
		"LD #$(WORD_MAX)",
		"LD #$(COUNT * 2 + LINENO)",
	)

	data := []int32{9, 'h', 'i', ';', 'x', -2, 'h', 'e', 'r', 'e', 1, 11}
	assert.Equal(data, image.Data)

	expected := Program{
		MakeOperand(OP_LD, 10, MODE_INDIRECT),
		MakeOperand(OP_ST, 11, MODE_IMMEDIATE),
		MakeOperand(OP_LD, 2147483647, MODE_IMMEDIATE),
		MakeOperand(OP_LD, 31, MODE_IMMEDIATE),
	}
	assert.Equal(expected, image.Code)
}

func TestAssembler_DataLimit(t *testing.T) {
	assert := assert.New(t)

	image := assemble(t, ".word 65534 7")
	assert.Len(image.Data, DATA_LIMIT)
	assert.Equal(int32(7), image.Data[DATA_LIMIT-1])

	asm := &Assembler{}
	asm.Predefine("DATA_END", "65535")
	_, err := asm.Parse(strings.NewReader(".word DATA_END 7"))
	assert.ErrorIs(err, ErrDataSyntax)
	assert.Empty(asm.Data)
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "40")
	image, err := asm.Parse(strings.NewReader("LD $(BASE + 2)"))
	assert.NoError(err)
	assert.Equal(Program{MakeOperand(OP_LD, 42, MODE_DIRECT)}, image.Code)
}

func TestAssembler_Listing(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"LD #5",
		"ST 12",
		"ADD [3]",
		"JNZ 0",
		"HLT",
	}

	image := assemble(t, source...)

	var lines []string
	for _, in := range image.Code {
		lines = append(lines, in.String())
	}
	assert.Equal(source, lines)

	again := assemble(t, lines...)
	assert.Equal(image.Code, again.Code)

	assert.Equal("000: LD #5\n001: ST 12\n002: ADD [3]\n003: JNZ 0\n004: HLT\n", image.Code.Listing())
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program []string
		lineno  int
		err     error
	}){
		{[]string{"NOP"}, 1, ErrOpcodeUnknown},
		{[]string{"HLT", "LD"}, 2, ErrOpcodeValueMissing},
		{[]string{"LD 1 2"}, 1, ErrOpcodeExtraArgs},
		{[]string{"OUT 1"}, 1, ErrOpcodeExtraArgs},
		{[]string{"a: HLT", "a: HLT"}, 2, ErrLabelDuplicate},
		{[]string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{[]string{".equ A"}, 1, ErrEquateSyntax},
		{[]string{".word 1"}, 1, ErrDataSyntax},
		{[]string{".word -1 5"}, 1, ErrDataSyntax},
		{[]string{".word 2000000000 1"}, 1, ErrDataSyntax},
		{[]string{"HLT", ".word $(WORD_MAX) 1"}, 2, ErrDataSyntax},
		{[]string{".string 65534 \"ab\""}, 1, ErrDataSyntax},
		{[]string{".string 3 unquoted"}, 1, ErrDataSyntax},
		{[]string{".org 5"}, 1, ErrDirectiveUnknown},
		{[]string{"", "JMP nowhere"}, 2, ErrLabelMissing("nowhere")},
		{[]string{"LD #"}, 1, ErrOpcodeValueMissing},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.program)

		var syn ErrSyntax
		if assert.ErrorAs(err, &syn, entry.program) {
			assert.Equal(entry.lineno, syn.LineNo, entry.program)
		}
	}

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("LD 1x"))
	assert.ErrorIs(err, ErrParseNumber("1x"))

	_, err = asm.Parse(strings.NewReader("LD #$(1 + )"))
	assert.Error(err)
}
