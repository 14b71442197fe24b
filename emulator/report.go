package emulator

import (
	"io"
	"strconv"

	"github.com/ezrec/accsim/translate"
)

// Report is the observable result of a run.
type Report struct {
	Output        string // Text sent to the output tape.
	Instructions  int    // Instructions executed.
	Ticks         int    // Register transfer ticks.
	LimitExceeded bool   // The run stopped at the instruction limit.
	Err           error  // The error that stopped the run, if any.
}

// countWriter tracks bytes written for io.WriterTo.
type countWriter struct {
	io.Writer
	count int64
}

func (cw *countWriter) Write(p []byte) (n int, err error) {
	n, err = cw.Writer.Write(p)
	cw.count += int64(n)
	return
}

// WriteTo writes the output text, a summary line, then warning and error
// lines when they apply.
func (report *Report) WriteTo(w io.Writer) (n int64, err error) {
	cw := &countWriter{Writer: w}
	defer func() { n = cw.count }()

	_, err = io.WriteString(cw, report.Output+"\n")
	if err != nil {
		return
	}

	_, err = translate.Fprintln(cw, "instructions: %s, ticks: %s",
		strconv.Itoa(report.Instructions), strconv.Itoa(report.Ticks))
	if err != nil {
		return
	}

	if report.LimitExceeded {
		_, err = translate.Fprintln(cw, "warning: limit exceeded")
		if err != nil {
			return
		}
	}

	if report.Err != nil {
		_, err = translate.Fprintln(cw, "error: %v", report.Err)
	}

	return
}
