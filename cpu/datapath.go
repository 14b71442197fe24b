package cpu

import (
	"errors"
	"fmt"
	"math"

	"github.com/ezrec/accsim/io"
)

const (
	WORD_MAX    = math.MaxInt32 // Largest accumulator value.
	WORD_MIN    = math.MinInt32 // Smallest accumulator value.
	MEMORY_SIZE = 256           // Default data memory size in words.
)

//go:generate go tool stringer -linecomment -type=DaMux,DrMux,AccMux

// DaMux selects the source of the data address register.
type DaMux int

const (
	DA_MUX_DR  = DaMux(0) // DR
	DA_MUX_ARG = DaMux(1) // ARG
)

// DrMux selects the source of the data register.
type DrMux int

const (
	DR_MUX_MEMORY = DrMux(0) // MEMORY
	DR_MUX_ARG    = DrMux(1) // ARG
)

// AccMux selects the source of the accumulator.
type AccMux int

const (
	ACC_MUX_ALU   = AccMux(0) // ALU
	ACC_MUX_INPUT = AccMux(1) // INPUT
)

// DataPath is the register, memory and ALU state of the machine.
type DataPath struct {
	Memory []int32 // Data memory.

	Acc int32 // Accumulator.
	Da  int   // Data address register, always within Memory.
	Dr  int32 // Data register.
	Alu int64 // ALU output latch.

	Channel io.Channel // Input and output device.
}

// NewDataPath creates a data path with size words of memory, seeded from
// the data segment, attached to channel.
func NewDataPath(size int, data []int32, channel io.Channel) (dp *DataPath, err error) {
	if size <= 0 {
		err = ErrMemorySize
		return
	}
	if len(data) > size {
		err = fmt.Errorf("%w: %d > %d", ErrDataSegment, len(data), size)
		return
	}

	dp = &DataPath{
		Memory:  make([]int32, size),
		Channel: channel,
	}
	copy(dp.Memory, data)

	return
}

// wrap bounds an ALU result to the accumulator range. An overflow flips to
// the opposite bound once; it does not wrap modulo the word size.
func wrap(value int64) int32 {
	switch {
	case value > WORD_MAX:
		return WORD_MIN
	case value < WORD_MIN:
		return WORD_MAX
	}
	return int32(value)
}

// LatchDataAddress sets DA from DR or from an instruction argument.
// DA is left unchanged if the address is outside memory.
func (dp *DataPath) LatchDataAddress(sel DaMux, value int32) (err error) {
	var addr int64
	switch sel {
	case DA_MUX_DR:
		addr = int64(dp.Dr)
	case DA_MUX_ARG:
		addr = int64(value)
	default:
		err = fmt.Errorf("%w: %v", ErrSelectInvalid, sel)
		return
	}

	if addr < 0 || addr >= int64(len(dp.Memory)) {
		err = ErrAddress{Address: addr, Size: len(dp.Memory)}
		return
	}

	dp.Da = int(addr)
	return
}

// ReadMemory returns the memory word at DA.
func (dp *DataPath) ReadMemory() int32 {
	return dp.Memory[dp.Da]
}

// LatchDataRegister sets DR from memory at DA, or from an instruction argument.
func (dp *DataPath) LatchDataRegister(sel DrMux, value int32) (err error) {
	switch sel {
	case DR_MUX_MEMORY:
		dp.Dr = dp.ReadMemory()
	case DR_MUX_ARG:
		dp.Dr = value
	default:
		err = fmt.Errorf("%w: %v", ErrSelectInvalid, sel)
	}

	return
}

// LatchAccumulator sets ACC from the ALU latch, or from the next input code
// point.
func (dp *DataPath) LatchAccumulator(sel AccMux) (err error) {
	switch sel {
	case ACC_MUX_ALU:
		dp.Acc = wrap(dp.Alu)
	case ACC_MUX_INPUT:
		if dp.Channel == nil {
			err = ErrEndOfInput
			return
		}
		var value rune
		value, err = dp.Channel.Receive()
		if err != nil {
			err = errors.Join(ErrEndOfInput, err)
			return
		}
		dp.Acc = int32(value)
	default:
		err = fmt.Errorf("%w: %v", ErrSelectInvalid, sel)
	}

	return
}

// WriteMemory stores ACC at DA.
func (dp *DataPath) WriteMemory() {
	dp.Memory[dp.Da] = dp.Acc
}

// AluAdd latches ACC + DR.
func (dp *DataPath) AluAdd() {
	dp.Alu = int64(dp.Acc) + int64(dp.Dr)
}

// AluSub latches ACC - DR.
func (dp *DataPath) AluSub() {
	dp.Alu = int64(dp.Acc) - int64(dp.Dr)
}

// AluDiv latches ACC mod DR. The remainder takes the sign of DR.
func (dp *DataPath) AluDiv() (err error) {
	if dp.Dr == 0 {
		err = ErrDivideByZero
		return
	}

	rem := int64(dp.Acc) % int64(dp.Dr)
	if rem != 0 && (rem < 0) != (dp.Dr < 0) {
		rem += int64(dp.Dr)
	}
	dp.Alu = rem

	return
}

// AluPassRight latches DR unchanged.
func (dp *DataPath) AluPassRight() {
	dp.Alu = int64(dp.Dr)
}

// EmitOutput sends the code point in ACC to the output.
func (dp *DataPath) EmitOutput() (err error) {
	if dp.Channel == nil {
		return
	}

	err = dp.Channel.Send(rune(dp.Acc))
	return
}

// ZeroFlag is set when ACC is zero.
func (dp *DataPath) ZeroFlag() bool {
	return dp.Acc == 0
}

// NegativeFlag is set when ACC is negative.
func (dp *DataPath) NegativeFlag() bool {
	return dp.Acc < 0
}

// String returns the register state.
func (dp *DataPath) String() string {
	return fmt.Sprintf("ACC: %d, DA: %d, DR: %d", dp.Acc, dp.Da, dp.Dr)
}
