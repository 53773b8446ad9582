package cpu

import (
	"errors"

	"github.com/ezrec/deciss/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("cpu halted"))
	ErrPcBounds       = errors.New(f("pc out of bounds"))
	ErrOperandRange   = errors.New(f("operand index out of range"))
	ErrRegisterBounds = errors.New(f("register out of bounds"))
	ErrAddressBounds  = errors.New(f("address out of bounds"))
	ErrInputExhausted = errors.New(f("input exhausted"))

	// Instruction encode errors
	ErrOpcodeInvalid = errors.New(f("unknown opcode"))
	ErrOpcodeArg1    = errors.New(f("arg1"))
	ErrOpcodeArg2    = errors.New(f("arg2"))

	// Assembler errors
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("unrecognized mnemonic"))
)

// ErrOpcode is the raw word of an instruction that failed to execute.
type ErrOpcode Word

func (eo ErrOpcode) Error() string {
	return f("bad opcode %d %v", int(eo), Decode(Word(eo)).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
