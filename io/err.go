package io

import (
	"errors"

	"github.com/ezrec/deciss/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))
	ErrNoOutput    = errors.New(f("channel has no output"))
)

// ErrWord is a token of the word stream that is not a decimal integer.
type ErrWord struct {
	Index int
	Text  string
}

func (err *ErrWord) Error() string {
	return f("word %d '%v' is not a number", err.Index, err.Text)
}
