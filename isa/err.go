package isa

import (
	"errors"
	"strconv"

	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrOpcodeUnknown     = errors.New(f("opcode unknown"))
	ErrOpcodeMissing     = errors.New(f("opcode missing"))
	ErrModeUnknown       = errors.New(f("addressing mode unknown"))
	ErrOperandMissing    = errors.New(f("operand missing"))
	ErrOperandUnexpected = errors.New(f("operand unexpected"))
	ErrModeInvalid       = errors.New(f("addressing mode invalid"))
	ErrFormatUnknown     = errors.New(f("image format unknown"))
	ErrImageEmpty        = errors.New(f("image empty"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrDataSyntax         = errors.New(f("data directive syntax"))
	ErrDirectiveUnknown   = errors.New(f("directive unknown"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %s '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRecord locates a decode error in a persisted code list.
type ErrRecord struct {
	Index int
	Err   error
}

func (err ErrRecord) Error() string {
	return f("code[%s] %v", strconv.Itoa(err.Index), err.Err)
}

func (err ErrRecord) Unwrap() error {
	return err.Err
}
