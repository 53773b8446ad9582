package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
)

// Tape provides sequential I/O of machine words as decimal text.
// Input words are separated by white space; output words are written
// one per line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
	index   int
	err     error
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape; it only clears the read error.
func (tc *Tape) Rewind() {
	tc.err = nil
}

// Err returns the error that stopped the last Receive, if any.
func (tc *Tape) Err() error {
	return tc.err
}

// Receive returns an iterator that yields words from the input stream.
// It stops at the end of input, or at the first token that is not a
// decimal integer.
func (tc *Tape) Receive() iter.Seq[int] {
	return func(yield func(value int) bool) {
		if tc.Input == nil {
			return
		}
		if tc.scanner == nil {
			tc.scanner = bufio.NewScanner(tc.Input)
			tc.scanner.Split(bufio.ScanWords)
		}
		for tc.scanner.Scan() {
			text := tc.scanner.Text()
			value, err := strconv.Atoi(text)
			if err != nil {
				tc.err = &ErrWord{Index: tc.index, Text: text}
				return
			}
			tc.index++
			if !yield(value) {
				return
			}
		}
		tc.err = tc.scanner.Err()
	}
}

// Send writes a word to the output stream, followed by a newline.
func (tc *Tape) Send(value int) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)

	return
}
