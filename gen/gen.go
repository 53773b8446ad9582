// Package gen generates sample assembly programs for the decimal CPU.
//
// The generated text uses the same mnemonic vocabulary as the assembler,
// one instruction per line, each annotated with its address.
package gen

import (
	"fmt"
	"io"
	"log"

	"github.com/ezrec/deciss/cpu"
)

// Default layout. The default cells lie beyond the two digit address
// field, so the assembler rejects the lines that use them; set the
// Generator addresses to cells below 100 for a program that assembles.
const (
	START_ADDRESS  = 0   // Address of the first generated instruction.
	LABEL_BASE     = 100 // First placeholder label address.
	CONDITION_ADDR = 100 // Cell holding the 0/1 condition.
	TRUE_ADDR      = 250 // Cell holding the if-branch addend.
	FALSE_ADDR     = 251 // Cell holding the else-branch addend.
)

// Generator writes assembly text, tracking the address of each line.
type Generator struct {
	Verbose bool // If set, logs the label resolution.
	Resolve bool // If set, jumps target real addresses instead of placeholders.

	CondAddr  int // Cell holding the 0/1 condition.
	TrueAddr  int // Cell holding the if-branch addend.
	FalseAddr int // Cell holding the else-branch addend.
	LabelBase int // First placeholder label address.

	Ip     int            // Address of the next generated instruction.
	Labels map[string]int // Resolved label addresses.

	out   io.Writer
	label int
	err   error
}

// NewGenerator creates a generator writing to 'out'.
func NewGenerator(out io.Writer) (gen *Generator) {
	gen = &Generator{
		CondAddr:  CONDITION_ADDR,
		TrueAddr:  TRUE_ADDR,
		FalseAddr: FALSE_ADDR,
		LabelBase: LABEL_BASE,
		Ip:        START_ADDRESS,
		Labels:    map[string]int{},
		out:       out,
	}

	return
}

// nextLabel returns a unique placeholder label address.
func (gen *Generator) nextLabel() int {
	gen.label++
	return gen.LabelBase + gen.label - 1
}

// printf writes to the output, keeping the first error.
func (gen *Generator) printf(format string, args ...any) {
	if gen.err != nil {
		return
	}
	_, gen.err = fmt.Fprintf(gen.out, format, args...)
}

// Emit writes a single instruction with a comment, and advances the address.
func (gen *Generator) Emit(code cpu.Code, comment string) {
	switch code.Op {
	case cpu.OP_HALT:
		gen.printf("%v\t\t; [%03d] %s\n", code.Op, gen.Ip, comment)
	default:
		gen.printf("%v %d, %d\t; [%03d] %s\n", code.Op, code.Arg1, code.Arg2, gen.Ip, comment)
	}

	// Every instruction occupies one memory cell.
	gen.Ip++
}

// IfElse writes the canned if/else program:
//
//	if (Mem[CondAddr] == 1) { R1 = R1 + Mem[TrueAddr] } else { R1 = R1 + Mem[FalseAddr] }
//
// There is no conditional jump, so the generated code takes the jump to
// the else branch unconditionally.
func (gen *Generator) IfElse() (err error) {
	else_label := gen.nextLabel()
	end_label := gen.nextLabel()

	// The label addresses are known once the blocks are laid out:
	// 2 instructions of condition, 3 of if-block, 2 of else-block.
	else_addr := START_ADDRESS + 5
	end_addr := START_ADDRESS + 7

	else_target, end_target := else_label, end_label
	if gen.Resolve {
		else_target, end_target = else_addr, end_addr
	}

	gen.printf("; --- IF-ELSE STRUCTURE ---\n")
	gen.printf("; IF (Mem[%d] == 1) { R1 = R1 + Mem[%d] } ELSE { R1 = R1 + Mem[%d] }\n\n",
		gen.CondAddr, gen.TrueAddr, gen.FalseAddr)

	gen.Ip = START_ADDRESS

	// Condition
	gen.Emit(cpu.MakeCodeLoad(2, gen.CondAddr), fmt.Sprintf("R2 = Mem[%d] condition", gen.CondAddr))
	gen.Emit(cpu.MakeCodeJump(else_target), "jump to ELSE when false")

	// If block
	gen.Emit(cpu.MakeCodeLoad(2, gen.TrueAddr), fmt.Sprintf("R2 = Mem[%d]", gen.TrueAddr))
	gen.Emit(cpu.MakeCodeAdd(1, 2), "R1 = R1 + R2 (IF body)")
	gen.Emit(cpu.MakeCodeJump(end_target), "jump to END")

	// Else block
	gen.Labels["ELSE"] = gen.Ip
	gen.Emit(cpu.MakeCodeLoad(2, gen.FalseAddr), fmt.Sprintf("R2 = Mem[%d]", gen.FalseAddr))
	gen.Emit(cpu.MakeCodeAdd(1, 2), "R1 = R1 + R2 (ELSE body)")

	// End
	gen.Labels["END"] = gen.Ip

	if gen.Verbose {
		log.Printf("gen: ELSE (JUMP 0, %d) is address %d", else_label, gen.Labels["ELSE"])
		log.Printf("gen: END (JUMP 0, %d) is address %d", end_label, gen.Labels["END"])
	}

	gen.Emit(cpu.MakeCodeHalt(), "end of program")

	err = gen.err

	return
}
