package cpu

import (
	"iter"
	"slices"
)

// Listing is a line of assembled code with its source location and
// generated machine word.
type Listing struct {
	LineNo int
	Ip     int
	Words  []string
	Code   Code
	Word   Word
}

// Program is an assembled program: the listing of the emitted
// instructions, and the complete word image including the data section.
type Program struct {
	Opcodes []Listing
	Image   []Word
}

type Debug struct {
	*Listing
}

// Debug returns the listing entry for the instruction at 'ip', if any.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip == op.Ip {
			dbg = Debug{
				Listing: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Binary returns a copy of the word image in address order.
func (prog *Program) Binary() (bins []Word) {
	return slices.Clone(prog.Image)
}

// Words returns an iterator over the word image.
func (prog *Program) Words() iter.Seq[Word] {
	return slices.Values(prog.Image)
}
