package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/accsim/isa"
)

// executor runs the microcode for one opcode.
type executor func(cpu *Cpu, in isa.Instruction) (halted bool, err error)

// executeTable dispatches on opcode.
var executeTable = [isa.OPCODE_COUNT]executor{
	isa.OP_LD:   (*Cpu).execLoad,
	isa.OP_ST:   (*Cpu).execStore,
	isa.OP_ADD:  (*Cpu).execAdd,
	isa.OP_SUB:  (*Cpu).execSub,
	isa.OP_DIV:  (*Cpu).execDiv,
	isa.OP_CMP:  (*Cpu).execSub,
	isa.OP_JMP:  (*Cpu).execJmp,
	isa.OP_JZ:   (*Cpu).execJz,
	isa.OP_JNZ:  (*Cpu).execJnz,
	isa.OP_JN:   (*Cpu).execJn,
	isa.OP_JLE:  (*Cpu).execJle,
	isa.OP_JGE:  (*Cpu).execJge,
	isa.OP_IN:   (*Cpu).execIn,
	isa.OP_OUT:  (*Cpu).execOut,
	isa.OP_OUTC: (*Cpu).execOut,
	isa.OP_HLT:  (*Cpu).execHlt,
}

// Cpu is the control unit. It sequences DataPath signals to execute one
// instruction per Step.
type Cpu struct {
	Verbose bool                   // Set to enable per-tick trace logging.
	Logger  logrus.Ext1FieldLogger // Destination for trace logging.

	DataPath *DataPath   // Data path driven by the control unit.
	Program  isa.Program // Program being executed.

	Pc     int  // Program counter.
	Ticks  int  // Register transfer ticks since reset.
	Halted bool // Set once HLT has executed.
}

// NewCpu creates a control unit for a program and data path.
func NewCpu(prog isa.Program, dp *DataPath) (cpu *Cpu) {
	cpu = &Cpu{
		Logger:   logrus.StandardLogger(),
		DataPath: dp,
		Program:  prog,
	}

	return
}

// Reset the program counter, tick counter and halt state.
func (cpu *Cpu) Reset() {
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Halted = false
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return fmt.Sprintf("TICK: %d, PC: %d, %v", cpu.Ticks, cpu.Pc, cpu.DataPath)
}

func (cpu *Cpu) logger() logrus.Ext1FieldLogger {
	if cpu.Logger == nil {
		return logrus.StandardLogger()
	}
	return cpu.Logger
}

// tick counts one register transfer group.
func (cpu *Cpu) tick() {
	cpu.Ticks++

	if cpu.Verbose {
		dp := cpu.DataPath
		cpu.logger().WithFields(logrus.Fields{
			"tick": cpu.Ticks,
			"pc":   cpu.Pc,
			"acc":  dp.Acc,
			"da":   dp.Da,
			"dr":   dp.Dr,
		}).Trace(dp.Memory)
	}
}

// latchProgramCounter advances to the next instruction, or jumps to the
// argument of the current one.
func (cpu *Cpu) latchProgramCounter(next bool, in isa.Instruction) {
	if next {
		cpu.Pc++
	} else {
		cpu.Pc = int(in.Arg)
	}
}

// operandFetch loads DR with the operand named by the instruction.
//
//	IMMEDIATE  DR <- arg                                  1 tick
//	DIRECT     DA <- arg; DR <- mem[DA]                   2 ticks
//	INDIRECT   DA <- arg; DR <- mem[DA];
//	           DA <- DR;  DR <- mem[DA]                   4 ticks
func (cpu *Cpu) operandFetch(in isa.Instruction) (err error) {
	dp := cpu.DataPath

	switch in.Mode {
	case isa.MODE_IMMEDIATE:
		err = dp.LatchDataRegister(DR_MUX_ARG, in.Arg)
		if err != nil {
			return
		}
		cpu.tick()
	case isa.MODE_DIRECT, isa.MODE_INDIRECT:
		err = dp.LatchDataAddress(DA_MUX_ARG, in.Arg)
		if err != nil {
			return
		}
		cpu.tick()
		err = dp.LatchDataRegister(DR_MUX_MEMORY, 0)
		if err != nil {
			return
		}
		cpu.tick()

		if in.Mode == isa.MODE_DIRECT {
			return
		}

		err = dp.LatchDataAddress(DA_MUX_DR, 0)
		if err != nil {
			return
		}
		cpu.tick()
		err = dp.LatchDataRegister(DR_MUX_MEMORY, 0)
		if err != nil {
			return
		}
		cpu.tick()
	default:
		err = ErrOperandMissing
	}

	return
}

// FetchInstruction returns the instruction at the program counter.
func (cpu *Cpu) FetchInstruction() (in isa.Instruction, err error) {
	if cpu.Pc < 0 || cpu.Pc >= len(cpu.Program) {
		err = fmt.Errorf("%w: %d", ErrPcRange, cpu.Pc)
		return
	}

	in = cpu.Program[cpu.Pc]
	return
}

// Step fetches, decodes and executes a single instruction. It reports
// halted once HLT executes; stepping a halted Cpu returns ErrHalted.
func (cpu *Cpu) Step() (halted bool, err error) {
	if cpu.Halted {
		halted = true
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	in, err := cpu.FetchInstruction()
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			err = ErrInstruction{Pc: pc, Instruction: in, Err: err}
		}
	}()

	if cpu.Verbose {
		cpu.logger().WithField("pc", pc).Debugf("instruction: %v", in)
	}

	if !in.Opcode.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	halted, err = executeTable[in.Opcode](cpu, in)
	if halted {
		cpu.Halted = true
	}

	return
}

func (cpu *Cpu) execLoad(in isa.Instruction) (halted bool, err error) {
	dp := cpu.DataPath

	err = cpu.operandFetch(in)
	if err != nil {
		return
	}
	cpu.latchProgramCounter(true, in)
	dp.AluPassRight()
	err = dp.LatchAccumulator(ACC_MUX_ALU)
	cpu.tick()

	return
}

func (cpu *Cpu) execStore(in isa.Instruction) (halted bool, err error) {
	dp := cpu.DataPath

	err = cpu.operandFetch(in)
	if err != nil {
		return
	}
	cpu.latchProgramCounter(true, in)
	err = dp.LatchDataAddress(DA_MUX_DR, 0)
	if err != nil {
		return
	}
	cpu.tick()
	dp.WriteMemory()
	cpu.tick()

	return
}

// execAlu fetches the operand, runs an ALU operation, then latches ACC.
func (cpu *Cpu) execAlu(in isa.Instruction, alu func(dp *DataPath) error) (halted bool, err error) {
	dp := cpu.DataPath

	err = cpu.operandFetch(in)
	if err != nil {
		return
	}
	cpu.latchProgramCounter(true, in)
	err = alu(dp)
	if err != nil {
		return
	}
	cpu.tick()
	err = dp.LatchAccumulator(ACC_MUX_ALU)
	cpu.tick()

	return
}

func (cpu *Cpu) execAdd(in isa.Instruction) (halted bool, err error) {
	return cpu.execAlu(in, func(dp *DataPath) error { dp.AluAdd(); return nil })
}

// execSub also serves CMP, which differs only by convention.
func (cpu *Cpu) execSub(in isa.Instruction) (halted bool, err error) {
	return cpu.execAlu(in, func(dp *DataPath) error { dp.AluSub(); return nil })
}

func (cpu *Cpu) execDiv(in isa.Instruction) (halted bool, err error) {
	return cpu.execAlu(in, (*DataPath).AluDiv)
}

// branch selects the next instruction when next is set, else jumps.
func (cpu *Cpu) branch(in isa.Instruction, next bool) (halted bool, err error) {
	cpu.latchProgramCounter(next, in)
	cpu.tick()
	return
}

func (cpu *Cpu) execJmp(in isa.Instruction) (halted bool, err error) {
	return cpu.branch(in, false)
}

// execJz jumps when ACC is zero.
func (cpu *Cpu) execJz(in isa.Instruction) (halted bool, err error) {
	return cpu.branch(in, !cpu.DataPath.ZeroFlag())
}

// execJnz jumps when ACC is not zero.
func (cpu *Cpu) execJnz(in isa.Instruction) (halted bool, err error) {
	return cpu.branch(in, cpu.DataPath.ZeroFlag())
}

// execJn jumps unless ACC is negative.
func (cpu *Cpu) execJn(in isa.Instruction) (halted bool, err error) {
	neg := cpu.DataPath.NegativeFlag()
	return cpu.branch(in, neg)
}

// execJle continues on ACC <= 0 and jumps otherwise.
func (cpu *Cpu) execJle(in isa.Instruction) (halted bool, err error) {
	neg := cpu.DataPath.NegativeFlag()
	zero := cpu.DataPath.ZeroFlag()
	return cpu.branch(in, neg || (!neg && zero))
}

// execJge jumps only when ACC is both non-zero and negative.
func (cpu *Cpu) execJge(in isa.Instruction) (halted bool, err error) {
	neg := cpu.DataPath.NegativeFlag()
	zero := cpu.DataPath.ZeroFlag()
	return cpu.branch(in, !(!zero && neg))
}

func (cpu *Cpu) execIn(in isa.Instruction) (halted bool, err error) {
	err = cpu.DataPath.LatchAccumulator(ACC_MUX_INPUT)
	if err != nil {
		return
	}
	cpu.latchProgramCounter(true, in)
	cpu.tick()

	return
}

func (cpu *Cpu) execOut(in isa.Instruction) (halted bool, err error) {
	err = cpu.DataPath.EmitOutput()
	if err != nil {
		return
	}
	cpu.latchProgramCounter(true, in)
	cpu.tick()

	return
}

func (cpu *Cpu) execHlt(in isa.Instruction) (halted bool, err error) {
	cpu.tick()
	halted = true
	return
}
