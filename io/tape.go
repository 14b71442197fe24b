package io

import (
	"io"
	"strings"
)

// TAPE_TERMINATOR is appended to every loaded input, so reading past the
// user's text yields a deterministic end-of-input code.
const TAPE_TERMINATOR = rune(0)

// Tape provides sequential character I/O. Input is an immutable sequence
// read through a cursor; Output only grows.
type Tape struct {
	Input  []rune    // Input code points, including the terminator.
	Output []rune    // Output code points sent so far.
	Echo   io.Writer // If set, receives each output code point as UTF-8.

	readIndex int
}

var _ Channel = (*Tape)(nil)

// NewTape creates a tape holding text followed by the terminator.
func NewTape(text string) (tc *Tape) {
	tc = &Tape{}
	tc.Load(text)
	return
}

// ReadTape creates a tape from the contents of a reader.
func ReadTape(in io.Reader) (tc *Tape, err error) {
	tc = &Tape{}
	_, err = tc.ReadFrom(in)
	if err != nil {
		tc = nil
	}
	return
}

// ReadFrom loads the input from a reader, followed by the terminator.
func (tc *Tape) ReadFrom(in io.Reader) (n int64, err error) {
	text, err := io.ReadAll(in)
	n = int64(len(text))
	if err != nil {
		return
	}

	tc.Load(string(text))
	return
}

// Load replaces the input with text followed by the terminator, and rewinds.
func (tc *Tape) Load(text string) {
	tc.Input = append([]rune(text), TAPE_TERMINATOR)
	tc.Rewind()
}

// Rewind moves the cursor to the start of the input and discards output.
func (tc *Tape) Rewind() {
	tc.readIndex = 0
	tc.Output = tc.Output[:0]
}

// Remaining returns the number of unread input code points.
func (tc *Tape) Remaining() int {
	return len(tc.Input) - tc.readIndex
}

// Receive returns the next input code point and advances the cursor.
func (tc *Tape) Receive() (value rune, err error) {
	if tc.readIndex >= len(tc.Input) {
		err = ErrEndOfTape
		return
	}

	value = tc.Input[tc.readIndex]
	tc.readIndex++
	return
}

// Send appends a code point to the output, echoing it if requested.
func (tc *Tape) Send(value rune) (err error) {
	tc.Output = append(tc.Output, value)

	if tc.Echo != nil {
		_, err = io.WriteString(tc.Echo, string(value))
	}

	return
}

// String returns the output as text.
func (tc *Tape) String() string {
	var sb strings.Builder
	for _, r := range tc.Output {
		sb.WriteRune(r)
	}
	return sb.String()
}
