package io

import (
	"iter"
	"slices"
)

// Rom is an in-memory word image.
type Rom struct {
	Capacity int // Maximum words accepted by Send. Zero is unlimited.
	Data     []int
}

var _ Channel = (*Rom)(nil)

// Rewind is a no-op; every Receive starts from the first word.
func (rc *Rom) Rewind() {
}

// Receive yields the image words in order.
func (rc *Rom) Receive() iter.Seq[int] {
	return slices.Values(rc.Data)
}

// Send appends a word to the image.
func (rc *Rom) Send(value int) error {
	if rc.Capacity > 0 && len(rc.Data) >= rc.Capacity {
		return ErrChannelFull
	}

	rc.Data = append(rc.Data, value)

	return nil
}
