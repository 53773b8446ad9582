// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/deciss/internal"
)

// Data section of the canned addition scenario.
const (
	DATA_START_ADDRESS = 20 // First address after the padded code region.
)

// FIXTURE_VALUES are the data words placed at DATA_START_ADDRESS:
// the two addends and a cell reserved for the result.
var FIXTURE_VALUES = []Word{10, 5, 0}

// Predefined system equates, visible to $(...) expressions.
var sysEquate = map[string]int{
	"LINENO":         0,
	"MEMORY_SIZE":    MEMORY_SIZE,
	"REGISTER_COUNT": REGISTER_COUNT,
	"DATA_START":     DATA_START_ADDRESS,
}

// mnemonicMap maps the upper-cased mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{
	"HALT":  OP_HALT,
	"LOAD":  OP_LOAD,
	"STORE": OP_STORE,
	"ADD":   OP_ADD,
	"JUMP":  OP_JUMP,
}

// Assembler is a single pass assembler for the decimal CPU.
//
// The zero value assembles instructions only. NewAssembler() returns an
// assembler that appends the canned data section.
type Assembler struct {
	Verbose   bool      // If set, verbosely logs the assembler actions.
	KeepHalt  bool      // If set, zero words (HALT) are emitted instead of dropped.
	DataStart int       // Pad the output with zero words up to this address.
	Fixture   []Word    // Data words appended after the padding.
	Opcode    []Listing // List of generated opcodes.

	predefine map[string]int // Predefines
	Equate    map[string]int // Map of equates visible to expressions.
}

// NewAssembler creates an assembler with the canned data section.
func NewAssembler() (asm *Assembler) {
	asm = &Assembler{
		DataStart: DATA_START_ADDRESS,
		Fixture:   slices.Clone(FIXTURE_VALUES),
	}

	return
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a decimal operand.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	value, err = strconv.Atoi(word)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, val := range asm.Equate {
		pred[key] = starlark.MakeInt(val)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// isSeparator returns true for operand separators.
func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// parseLine splits a single line into upper-cased words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = lineno

	line, _, _ = strings.Cut(line, ";")

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(strings.ToUpper(line), isSeparator)

	return
}

// Parse parses an input stream into a Program.
//
// Errors in a line are reported as an ErrSyntax for that line, and the
// line contributes nothing to the program. All of the line errors are
// joined into the returned error, and the program is still returned.
// Only a failure to read the input aborts the parse.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var errs []error

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line_err := asm.parseText(text, lineno)
		if line_err != nil {
			line_err = ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(text), Err: line_err}
			if asm.Verbose {
				log.Printf("%v", line_err)
			}
			errs = append(errs, line_err)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	codes := make([]Word, 0, len(asm.Opcode))
	for _, op := range asm.Opcode {
		codes = append(codes, op.Word)
	}

	padding := max(asm.DataStart-len(codes), 0)
	if asm.Verbose && padding > 0 {
		log.Printf("padding %d cells to address %d", padding, asm.DataStart)
	}

	image := slices.Collect(internal.IterSeqConcat(
		slices.Values(codes),
		slices.Values(make([]Word, padding)),
		slices.Values(asm.Fixture),
	))

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Image:   image,
	}

	err = errors.Join(errs...)

	return
}

// parseText assembles one line of text.
func (asm *Assembler) parseText(text string, lineno int) (err error) {
	words, err := asm.parseLine(text, lineno)
	if err != nil {
		return
	}

	// no-op
	if len(words) == 0 {
		return
	}

	code, err := asm.parseWords(words)
	if err != nil {
		return
	}

	word, err := code.Encode()
	if err != nil {
		return
	}

	// A zero word is taken as 'nothing produced', which drops HALT.
	if word == 0 && !asm.KeepHalt {
		if asm.Verbose {
			log.Printf("%v: %v dropped", lineno, code)
		}
		return
	}

	opcode := Listing{LineNo: lineno, Ip: len(asm.Opcode), Words: words, Code: code, Word: word}
	if asm.Verbose {
		log.Printf("[%03d] %v -> %d", opcode.Ip, code, int(word))
	}
	asm.Opcode = append(asm.Opcode, opcode)

	return
}

// parseWords evaluates the words of a line of assembly text.
func (asm *Assembler) parseWords(words []string) (code Code, err error) {
	op, ok := mnemonicMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := make([]int, len(words)-1)
	for n, word := range words[1:] {
		args[n], err = asm.valueOf(word)
		if err != nil {
			return
		}
	}

	switch op {
	case OP_HALT:
		if len(args) > 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		code = MakeCodeHalt()
	case OP_JUMP:
		switch len(args) {
		case 0:
			err = ErrOpcodeValueMissing
			return
		case 1:
			code = MakeCodeJump(args[0])
		case 2:
			code = Code{Op: OP_JUMP, Arg1: args[0], Arg2: args[1]}
		default:
			err = ErrOpcodeExtraArgs
			return
		}
	default:
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		code = Code{Op: op, Arg1: args[0], Arg2: args[1]}
	}

	return
}
