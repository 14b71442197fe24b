package emulator

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/accsim/cpu"
	"github.com/ezrec/accsim/isa"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

func newEmulator(t *testing.T, program ...string) (emu *Emulator) {
	asm := &isa.Assembler{}
	image, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	emu = NewEmulator()
	emu.Logger = quietLogger()
	emu.Image = image
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Logger = quietLogger()

	assert.False(emu.Verbose)
	assert.Nil(emu.Cpu)
	assert.Equal(MEMORY_SIZE, emu.MemorySize)
	assert.Equal(INSTRUCTION_LIMIT, emu.Limit)
	assert.Equal(0, emu.Ticks())

	_, err := emu.Tick()
	assert.ErrorIs(err, ErrNotReset)

	// An empty program runs off the end immediately.
	report, err := emu.Run()
	assert.NoError(err)
	assert.ErrorIs(report.Err, cpu.ErrPcRange)
	assert.Equal(0, report.Instructions)
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t,
		"LD #5",
		"OUT",
		"HLT",
	)

	report, err := emu.Run()
	assert.NoError(err)
	assert.Equal(&Report{
		Output:       "\x05",
		Instructions: 3,
		Ticks:        4,
	}, report)
	assert.True(emu.Halted)

	// A second run starts from fresh state.
	report, err = emu.Run()
	assert.NoError(err)
	assert.Equal("\x05", report.Output)
	assert.Equal(3, report.Instructions)
}

func TestEmulator_Input(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t,
		"IN",
		"ST #0",
		"IN",
		"ST #1",
		"HLT",
	)
	emu.Tape.Load("A")

	report, err := emu.Run()
	assert.NoError(err)
	assert.NoError(report.Err)
	assert.Equal([]int32{65, 0, 0}, emu.DataPath.Memory[:3])
	assert.Equal(5, report.Instructions)
}

func TestEmulator_EndOfInput(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t,
		"loop: IN",
		"      OUT",
		"      JMP loop",
	)
	emu.Tape.Load("ok")

	report, err := emu.Run()
	assert.NoError(err)
	assert.ErrorIs(report.Err, cpu.ErrEndOfInput)
	assert.Equal("ok\x00", report.Output)
	assert.Equal(9, report.Instructions)
	assert.False(report.LimitExceeded)

	var runtime *ErrRuntime
	if assert.ErrorAs(report.Err, &runtime) {
		assert.Equal(9, runtime.Instructions)
	}
}

func TestEmulator_Limit(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t,
		"loop: JMP loop",
	)

	report, err := emu.Run()
	assert.NoError(err)
	assert.NoError(report.Err)
	assert.True(report.LimitExceeded)
	assert.Equal(1000, report.Instructions)
	assert.Equal(1000, report.Ticks)

	emu.Limit = 3
	report, err = emu.Run()
	assert.NoError(err)
	assert.True(report.LimitExceeded)
	assert.Equal(3, report.Instructions)

	// Halting on the last permitted instruction is not a limit hit.
	emu = newEmulator(t,
		"OUT",
		"OUT",
		"HLT",
	)
	emu.Limit = 3
	report, err = emu.Run()
	assert.NoError(err)
	assert.False(report.LimitExceeded)
	assert.Equal(3, report.Instructions)
}

func TestEmulator_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t,
		"LD #'h'",
		"OUT",
		"LD 300",
		"HLT",
	)

	report, err := emu.Run()
	assert.NoError(err)
	assert.ErrorIs(report.Err, cpu.ErrAddressRange)
	assert.Equal("h", report.Output)
	assert.Equal(2, report.Instructions)
	assert.Equal(3, report.Ticks)
	assert.False(emu.Halted)

	var ei cpu.ErrInstruction
	if assert.ErrorAs(report.Err, &ei) {
		assert.Equal(2, ei.Pc)
	}

	emu.MemorySize = 512
	report, err = emu.Run()
	assert.NoError(err)
	assert.NoError(report.Err)
	assert.Equal(4, report.Instructions)
}

func TestEmulator_ResetErrors(t *testing.T) {
	assert := assert.New(t)

	for _, limit := range []int{0, -1} {
		emu := newEmulator(t, "HLT")
		emu.Limit = limit
		report, err := emu.Run()
		assert.ErrorIs(err, ErrLimit, limit)
		assert.Nil(report, limit)
		assert.False(emu.LimitExceeded, limit)
		assert.Nil(emu.Cpu, limit)
	}

	emu := newEmulator(t, "HLT")
	Config{MemorySize: MEMORY_SIZE}.Apply(emu)
	_, err := emu.Run()
	assert.ErrorIs(err, ErrLimit)

	emu = newEmulator(t, ".word 3 1", "HLT")
	emu.MemorySize = 2
	report, err := emu.Run()
	assert.ErrorIs(err, cpu.ErrDataSegment)
	assert.Nil(report)
	assert.Nil(emu.Cpu)

	emu = NewEmulator()
	emu.Logger = quietLogger()
	emu.Image = &isa.Image{Code: isa.Program{isa.MakeInstruction(isa.OP_ADD)}}
	_, err = emu.Run()
	assert.ErrorIs(err, isa.ErrOperandMissing)
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.Out = &buf
	logger.Level = logrus.TraceLevel
	logger.Formatter = &logrus.TextFormatter{DisableTimestamp: true}

	emu := newEmulator(t, "LD #7", "HLT")
	emu.Logger = logger
	emu.Verbose = true

	report, err := emu.Run()
	assert.NoError(err)
	assert.Equal(3, report.Ticks)

	text := buf.String()
	assert.Contains(text, "instruction: LD #7")
	assert.Contains(text, "acc=7")
	assert.Contains(text, "tick=3")
}

func TestReport_WriteTo(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		report Report
		text   string
	}){
		{"halt", Report{Output: "hi", Instructions: 3, Ticks: 4},
			"hi\ninstructions: 3, ticks: 4\n"},
		{"limit", Report{Instructions: 9, Ticks: 20, LimitExceeded: true},
			"\ninstructions: 9, ticks: 20\nwarning: limit exceeded\n"},
		{"error", Report{Output: "x", Instructions: 2, Ticks: 5, Err: cpu.ErrDivideByZero},
			"x\ninstructions: 2, ticks: 5\nerror: division by zero\n"},
		{"large", Report{Instructions: 1000, Ticks: 2500, LimitExceeded: true},
			"\ninstructions: 1000, ticks: 2500\nwarning: limit exceeded\n"},
		{"large-error", Report{Instructions: 1234, Ticks: 5678, Err: &ErrRuntime{Instructions: 1234, Err: cpu.ErrHalted}},
			"\ninstructions: 1234, ticks: 5678\nerror: after 1234 instructions: halted\n"},
	}

	for _, entry := range table {
		var buf bytes.Buffer
		n, err := entry.report.WriteTo(&buf)
		assert.NoError(err, entry.name)
		assert.Equal(entry.text, buf.String(), entry.name)
		assert.Equal(int64(buf.Len()), n, entry.name)
	}
}

type failWriter struct {
	limit int
}

func (fw *failWriter) Write(p []byte) (n int, err error) {
	if len(p) > fw.limit {
		n = fw.limit
		err = io.ErrShortWrite
		fw.limit = 0
		return
	}
	fw.limit -= len(p)
	n = len(p)
	return
}

func TestReport_WriteToError(t *testing.T) {
	assert := assert.New(t)

	report := &Report{Output: "hello", Instructions: 1, Ticks: 1, LimitExceeded: true}

	for _, limit := range []int{0, 3, 8, 20} {
		n, err := report.WriteTo(&failWriter{limit: limit})
		assert.ErrorIs(err, io.ErrShortWrite, limit)
		assert.Equal(int64(limit), n, limit)
	}
}
