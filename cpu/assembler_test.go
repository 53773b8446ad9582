package cpu

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func parseText(asm *Assembler, program []string) (prog *Program, err error) {
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

// lineErrors returns the ErrSyntax line errors of a joined Parse error.
func lineErrors(err error) (errs []ErrSyntax) {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return
	}
	for _, one := range joined.Unwrap() {
		var syntax ErrSyntax
		if errors.As(one, &syntax) {
			errs = append(errs, syntax)
		}
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Empty(prog.Image)

	assert.Equal(0, asm.Equate["LINENO"])
	assert.Equal(MEMORY_SIZE, asm.Equate["MEMORY_SIZE"])
	assert.Equal(REGISTER_COUNT, asm.Equate["REGISTER_COUNT"])
	assert.Equal(DATA_START_ADDRESS, asm.Equate["DATA_START"])
}

func TestAssemblerAddition(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()

	program := []string{
		"; add two numbers",
		"LOAD 1, 20 ; R1 = Mem[20]",
		"load 2,21",
		"",
		"  Add 1 , 2",
		"STORE\t1,\t22",
		"HALT",
	}

	prog, err := parseText(asm, program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Listing{
		{2, 0, []string{"LOAD", "1", "20"}, MakeCodeLoad(1, 20), 1120},
		{3, 1, []string{"LOAD", "2", "21"}, MakeCodeLoad(2, 21), 1221},
		{5, 2, []string{"ADD", "1", "2"}, MakeCodeAdd(1, 2), 312},
		{6, 3, []string{"STORE", "1", "22"}, MakeCodeStore(1, 22), 2122},
	}
	assert.Equal(expected, prog.Opcodes)

	image := make([]Word, DATA_START_ADDRESS+3)
	copy(image, []Word{1120, 1221, 312, 2122})
	copy(image[DATA_START_ADDRESS:], FIXTURE_VALUES)
	assert.Equal(image, prog.Image)
	assert.Equal(image, prog.Binary())
}

func TestAssemblerHaltDropped(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"HALT",
		"LOAD 1, 20",
		"HALT",
	}

	// HALT encodes to 0, and zero words are dropped and not counted.
	asm := &Assembler{}
	prog, err := parseText(asm, program)
	assert.NoError(err)
	assert.Equal([]Word{1120}, prog.Image)
	assert.Len(prog.Opcodes, 1)
	assert.Equal(0, prog.Opcodes[0].Ip)

	// KeepHalt emits the HALT words.
	asm = &Assembler{KeepHalt: true}
	prog, err = parseText(asm, program)
	assert.NoError(err)
	assert.Equal([]Word{0, 1120, 0}, prog.Image)
	assert.Len(prog.Opcodes, 3)
	assert.Equal(MakeCodeHalt(), prog.Opcodes[2].Code)
	assert.Equal(2, prog.Opcodes[2].Ip)
}

func TestAssemblerPadding(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name      string
		dataStart int
		fixture   []Word
		program   []string
		image     []Word
	}){
		{"none", 0, nil, []string{"ADD 1, 2"}, []Word{312}},
		{"fixture_only", 0, []Word{7}, []string{"ADD 1, 2"}, []Word{312, 7}},
		{"pad", 3, []Word{7, 8}, []string{"ADD 1, 2"}, []Word{312, 0, 0, 7, 8}},
		{"exact", 1, []Word{7}, []string{"ADD 1, 2"}, []Word{312, 7}},
		{"past", 1, []Word{7}, []string{"ADD 1, 2", "ADD 2, 1", "ADD 3, 3"}, []Word{312, 321, 333, 7}},
		{"empty", 2, []Word{7}, nil, []Word{0, 0, 7}},
	}

	for _, entry := range table {
		asm := &Assembler{DataStart: entry.dataStart, Fixture: entry.fixture}
		prog, err := parseText(asm, entry.program)
		assert.NoError(err, entry.name)
		assert.Equal(entry.image, prog.Image, entry.name)
	}
}

func TestAssemblerLineErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		line string
		err  error
	}){
		{"mnemonic", "MUL 1, 2", ErrInstructionInvalid},
		{"missing", "LOAD 1", ErrOpcodeValueMissing},
		{"missing_all", "STORE", ErrOpcodeValueMissing},
		{"jump_missing", "JUMP", ErrOpcodeValueMissing},
		{"extra", "ADD 1, 2, 3", ErrOpcodeExtraArgs},
		{"jump_extra", "JUMP 0, 1, 2", ErrOpcodeExtraArgs},
		{"halt_extra", "HALT 0", ErrOpcodeExtraArgs},
		{"number", "LOAD R1, 20", ErrParseNumber("R1")},
		{"addr", "LOAD 1, 100", ErrOpcodeArg2},
		{"reg", "LOAD 10, 20", ErrOpcodeArg1},
		{"add_src", "ADD 1, 10", ErrOpcodeArg2},
	}

	for _, entry := range table {
		program := []string{
			"LOAD 1, 20",
			entry.line,
			"ADD 1, 2",
		}
		prog, err := parseText(&Assembler{}, program)
		assert.Error(err, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		errs := lineErrors(err)
		if assert.Len(errs, 1, entry.name) {
			assert.Equal(2, errs[0].LineNo, entry.name)
			assert.Equal(entry.line, errs[0].Line, entry.name)
		}

		// The bad line is skipped, the rest is assembled.
		assert.Equal([]Word{1120, 312}, prog.Image, entry.name)
		assert.Equal(3, prog.Opcodes[1].LineNo, entry.name)
		assert.Equal(1, prog.Opcodes[1].Ip, entry.name)
	}
}

func TestAssemblerMultipleErrors(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"NOP",
		"LOAD 1, 20",
		"PUSH 1",
		"POP 2",
	}

	prog, err := parseText(&Assembler{}, program)
	errs := lineErrors(err)
	assert.Len(errs, 3)
	assert.Equal([]Word{1120}, prog.Image)
	for n, lineno := range []int{1, 3, 4} {
		assert.Equal(lineno, errs[n].LineNo)
		assert.ErrorIs(errs[n], ErrInstructionInvalid)
	}
}

func TestAssemblerJump(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"JUMP 5",
		"JUMP 0, 5",
		"jump 99",
		"JUMP 1, 0",
	}

	prog, err := parseText(&Assembler{}, program)
	assert.NoError(err)
	assert.Equal([]Word{4005, 4005, 4099, 4100}, prog.Image)
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", 30)
	asm.Predefine("REG", 2)

	program := []string{
		"LOAD 1, $(DATA_START + 1)",
		"LOAD 1, $(2*10)",
		"STORE $(REG), $(BASE)",
		"ADD $(REG - 1), $(LINENO)",
		"LOAD 1, $(1 +)",
		"LOAD 1, $(\"x\")",
		"LOAD 1, 20 ; $(not evaluated",
	}

	prog, err := parseText(asm, program)
	assert.Equal([]Word{1121, 1120, 2230, 314, 1120}, prog.Image)

	errs := lineErrors(err)
	if assert.Len(errs, 2) {
		var pe ErrParseExpression
		assert.True(errors.As(errs[0], &pe))
		assert.Equal(ErrParseExpression("1 +"), pe)
		assert.Equal(5, errs[0].LineNo)
		assert.ErrorIs(errs[1], ErrParseExpression("\"x\""))
		assert.Equal(6, errs[1].LineNo)
	}
}

func TestAssemblerReadError(t *testing.T) {
	assert := assert.New(t)

	boom := errors.New("boom")
	prog, err := (&Assembler{}).Parse(iotest.ErrReader(boom))
	assert.Nil(prog)
	assert.ErrorIs(err, boom)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := parseText(asm, []string{"ADD 1, 2", "ADD 2, 1"})
	assert.NoError(err)

	prog, err := parseText(asm, []string{"ADD 3, 3"})
	assert.NoError(err)
	assert.Equal([]Word{333}, prog.Image)
}

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	prog, err := parseText(NewAssembler(), []string{
		"LOAD 1, 20",
		"HALT",
		"ADD 1, 1",
	})
	assert.NoError(err)

	dbg := prog.Debug(1)
	if assert.NotNil(dbg.Listing) {
		assert.Equal(3, dbg.LineNo)
		assert.Equal(MakeCodeAdd(1, 1), dbg.Code)
	}

	assert.Nil(prog.Debug(DATA_START_ADDRESS).Listing)

	var words []Word
	for word := range prog.Words() {
		words = append(words, word)
	}
	assert.Equal(prog.Image, words)

	bins := prog.Binary()
	bins[0] = 0
	assert.Equal(Word(1120), prog.Image[0])
}
