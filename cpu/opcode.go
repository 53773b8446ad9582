package cpu

import (
	"fmt"
)

// Opcode is the operation tag of an instruction.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HALT  = Opcode(0) // HALT
	OP_LOAD  = Opcode(1) // LOAD
	OP_STORE = Opcode(2) // STORE
	OP_ADD   = Opcode(3) // ADD
	OP_JUMP  = Opcode(4) // JUMP
)

// Valid returns true if the opcode is one of the defined operations.
func (op Opcode) Valid() bool {
	return op >= OP_HALT && op <= OP_JUMP
}

// Word is a single memory cell, and the only persisted form of an instruction.
type Word int

// Decode width thresholds.
const (
	WIDE_LIMIT   = 1000 // Words at or above are [op][reg][addr addr].
	NARROW_LIMIT = 100  // Words at or above are [op][reg][reg].
)

// Code is a decoded instruction.
//
// A Code whose Op is not Valid() is an unknown instruction, as produced
// by Decode for words outside of the instruction set.
type Code struct {
	Op   Opcode
	Arg1 int // Register (destination for LOAD and ADD, source for STORE).
	Arg2 int // Address for LOAD, STORE and JUMP; source register for ADD.
}

// MakeCodeHalt creates a halt instruction.
func MakeCodeHalt() Code {
	return Code{Op: OP_HALT}
}

// MakeCodeLoad creates a load of memory address 'addr' into register 'reg'.
func MakeCodeLoad(reg, addr int) Code {
	return Code{Op: OP_LOAD, Arg1: reg, Arg2: addr}
}

// MakeCodeStore creates a store of register 'reg' into memory address 'addr'.
func MakeCodeStore(reg, addr int) Code {
	return Code{Op: OP_STORE, Arg1: reg, Arg2: addr}
}

// MakeCodeAdd creates an add of register 'src' into register 'dst'.
func MakeCodeAdd(dst, src int) Code {
	return Code{Op: OP_ADD, Arg1: dst, Arg2: src}
}

// MakeCodeJump creates an unconditional jump to 'addr'.
func MakeCodeJump(addr int) Code {
	return Code{Op: OP_JUMP, Arg2: addr}
}

// Wide returns true if the opcode uses the [op][reg][addr addr] layout.
func (op Opcode) Wide() bool {
	return op == OP_LOAD || op == OP_STORE || op == OP_JUMP
}

// Encode packs the instruction into a machine word.
func (code Code) Encode() (word Word, err error) {
	switch {
	case code.Op == OP_HALT:
		word = Word(code.Op) * NARROW_LIMIT
	case code.Op.Wide():
		if code.Arg1 < 0 || code.Arg1 > 9 {
			err = ErrOpcodeArg1
			return
		}
		if code.Arg2 < 0 || code.Arg2 > 99 {
			err = ErrOpcodeArg2
			return
		}
		word = Word(code.Op)*WIDE_LIMIT + Word(code.Arg1)*100 + Word(code.Arg2)
	case code.Op == OP_ADD:
		if code.Arg1 < 0 || code.Arg1 > 9 {
			err = ErrOpcodeArg1
			return
		}
		if code.Arg2 < 0 || code.Arg2 > 9 {
			err = ErrOpcodeArg2
			return
		}
		word = Word(code.Op)*NARROW_LIMIT + Word(code.Arg1)*10 + Word(code.Arg2)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// Decode recovers an instruction from a machine word by its magnitude.
// It never fails; words outside of the instruction set decode to a Code
// with an invalid Op.
func Decode(word Word) (code Code) {
	w := int(word)
	switch {
	case w >= WIDE_LIMIT:
		code.Op = Opcode(w / 1000)
		code.Arg1 = (w / 100) % 10
		code.Arg2 = w % 100
	case w >= NARROW_LIMIT:
		code.Op = Opcode(w / 100)
		code.Arg1 = (w / 10) % 10
		code.Arg2 = w % 10
	default:
		code.Op = Opcode(w)
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	switch code.Op {
	case OP_HALT:
		out = code.Op.String()
	case OP_LOAD, OP_STORE, OP_ADD, OP_JUMP:
		out = fmt.Sprintf("%v %d, %d", code.Op, code.Arg1, code.Arg2)
	default:
		out = fmt.Sprintf("%v", code.Op)
	}

	return
}
