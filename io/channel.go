// Package io provides the character devices attached to the accumulator
// machine's data path.
package io

// Channel defines the interface for character I/O devices. Each transfer
// moves one code point.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns the next input code point.
	Receive() (value rune, err error)
	// Send appends a code point to the output.
	Send(value rune) error
}
