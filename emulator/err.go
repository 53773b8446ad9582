package emulator

import (
	"errors"

	"github.com/ezrec/deciss/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address int
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("address %03d line %d %v", err.Address, err.LineNo, err.Err)
	}
	return f("address %03d %v", err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
