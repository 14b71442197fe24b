package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/accsim/isa"
	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	// Data path errors
	ErrAddressRange  = errors.New(f("address out of memory"))
	ErrDivideByZero  = errors.New(f("division by zero"))
	ErrEndOfInput    = errors.New(f("end of input"))
	ErrDataSegment   = errors.New(f("data segment larger than memory"))
	ErrMemorySize    = errors.New(f("memory size must be positive"))
	ErrSelectInvalid = errors.New(f("signal source invalid"))

	// Control unit errors
	ErrHalted         = errors.New(f("halted"))
	ErrPcRange        = errors.New(f("pc out of program"))
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrOpcodeInvalid  = errors.New(f("opcode invalid"))
)

// ErrAddress reports an out of range data address.
type ErrAddress struct {
	Address int64
	Size    int
}

func (err ErrAddress) Error() string {
	return f("address %s out of memory [0, %s)", strconv.FormatInt(err.Address, 10), strconv.Itoa(err.Size))
}

func (err ErrAddress) Unwrap() error {
	return ErrAddressRange
}

// ErrInstruction locates a failure at the instruction that raised it.
type ErrInstruction struct {
	Pc          int
	Instruction isa.Instruction
	Err         error
}

func (err ErrInstruction) Error() string {
	return f("pc %s '%v' %v", strconv.Itoa(err.Pc), err.Instruction, err.Err)
}

func (err ErrInstruction) Unwrap() error {
	return err.Err
}
