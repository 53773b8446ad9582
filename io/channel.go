// Package io provides word channel implementations for the decimal CPU
// emulator: sequential decimal text (Tape) over an io.Reader or io.Writer,
// and in-memory word images (Rom).
package io

import (
	"iter"
)

// Channel defines the interface for all word channels.
// Channels operate on whole machine words, in address order.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields words from the channel.
	Receive() iter.Seq[int]
	// Send writes a single word to the channel.
	Send(value int) error
}
