// Package emulator drives the accumulator machine: it wires a data path and
// control unit together, runs a program under an instruction limit, and
// reports the result.
package emulator

import (
	"github.com/sirupsen/logrus"

	"github.com/ezrec/accsim/cpu"
	"github.com/ezrec/accsim/io"
	"github.com/ezrec/accsim/isa"
)

const (
	MEMORY_SIZE       = cpu.MEMORY_SIZE // Default data memory size in words.
	INSTRUCTION_LIMIT = 1000            // Default watchdog instruction limit.
)

// Emulator state. CPU + data path + input/output tape.
type Emulator struct {
	Verbose bool                   // If set, enables per-tick trace logging.
	Logger  logrus.Ext1FieldLogger // Destination for logging.

	*cpu.Cpu            // Reference to the CPU simulation.
	Image    *isa.Image // Program and data segment to run.

	Tape       io.Tape // Input and output tape.
	MemorySize int     // Data memory size in words.
	Limit      int     // Maximum instructions per run.

	Instructions  int  // Instructions executed since reset.
	LimitExceeded bool // Set when a run stopped at Limit.
}

// NewEmulator creates a new emulator with the default memory size and
// instruction limit.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Logger:     logrus.StandardLogger(),
		Image:      &isa.Image{},
		MemorySize: MEMORY_SIZE,
		Limit:      INSTRUCTION_LIMIT,
	}
	emu.Tape.Load("")

	return
}

func (emu *Emulator) logger() logrus.Ext1FieldLogger {
	if emu.Logger == nil {
		return logrus.StandardLogger()
	}
	return emu.Logger
}

// Reset builds fresh machine state from the image and rewinds the tape.
// Image errors are reported here, before any instruction runs.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu = nil
	emu.Instructions = 0
	emu.LimitExceeded = false

	if emu.Limit <= 0 {
		err = ErrLimit
		return
	}

	err = emu.Image.Code.Validate()
	if err != nil {
		return
	}

	emu.Tape.Rewind()

	dp, err := cpu.NewDataPath(emu.MemorySize, emu.Image.Data, &emu.Tape)
	if err != nil {
		return
	}

	emu.Cpu = cpu.NewCpu(emu.Image.Code, dp)
	emu.Cpu.Logger = emu.logger()
	emu.Cpu.Verbose = emu.Verbose

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	if emu.Cpu == nil {
		return 0
	}
	return emu.Cpu.Ticks
}

// Tick executes a single instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu == nil {
		err = ErrNotReset
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			err = &ErrRuntime{Instructions: emu.Instructions, Err: err}
		}
	}()

	done, err = emu.Cpu.Step()
	if err != nil {
		return
	}

	emu.Instructions++
	return
}

// Run resets the emulator, then executes until HLT, an error, or the
// instruction limit. A report is returned for every run that starts, and
// holds the output produced up to the point it stopped.
func (emu *Emulator) Run() (report *Report, err error) {
	err = emu.Reset()
	if err != nil {
		return
	}

	var runErr error
	for emu.Instructions < emu.Limit {
		var done bool
		done, runErr = emu.Tick()
		if done || runErr != nil {
			break
		}
	}

	if runErr == nil && !emu.Cpu.Halted {
		emu.LimitExceeded = true
		emu.logger().WithField("limit", emu.Limit).Warn(f("limit exceeded"))
	}

	if runErr != nil {
		emu.logger().Error(runErr)
	}

	report = &Report{
		Output:        emu.Tape.String(),
		Instructions:  emu.Instructions,
		Ticks:         emu.Ticks(),
		LimitExceeded: emu.LimitExceeded,
		Err:           runErr,
	}

	return
}
