package main

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/deciss/cpu"
	"github.com/ezrec/deciss/io"
	"github.com/ezrec/deciss/translate"
)

var asmKeepHalt bool
var asmDataStart int
var asmNoFixture bool

// asmCmd represents the asm command
var asmCmd = &cobra.Command{
	Use:   "asm sourceFile wordFile",
	Short: "Assemble a source file into a word file",
	Long: `Asm translates one instruction per line into a machine word.
Text after ';' is a comment. Mnemonics are case insensitive, and
operands are decimal numbers separated by spaces or commas. $(...)
evaluates a compile time expression.

Lines that fail to assemble are reported and skipped. HALT encodes to
the word 0, which is dropped unless --keep-halt is given. The output
is padded with zeros up to --data-start, then the words 10, 5 and 0
are appended unless --no-fixture is given.`,

	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return assemble(args[0], args[1])
	},
}

func init() {
	asmCmd.Flags().BoolVar(&asmKeepHalt, "keep-halt", false, "Emit HALT words instead of dropping them")
	asmCmd.Flags().IntVar(&asmDataStart, "data-start", cpu.DATA_START_ADDRESS, "Address of the data section")
	asmCmd.Flags().BoolVar(&asmNoFixture, "no-fixture", false, "Do not append the data section")

	rootCmd.AddCommand(asmCmd)
}

func assemble(source, output string) (err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := cpu.NewAssembler()
	asm.Verbose = verbose
	asm.KeepHalt = asmKeepHalt
	asm.DataStart = asmDataStart
	if asmNoFixture {
		asm.Fixture = nil
		asm.DataStart = 0
	}

	prog, err := asm.Parse(inf)
	if prog == nil {
		return
	}
	if err != nil {
		// Line errors are reported, and do not stop the output.
		var syntax cpu.ErrSyntax
		for _, line_err := range unjoin(err) {
			if errors.As(line_err, &syntax) {
				log.Printf("%v: %v", source, line_err)
				continue
			}
			return line_err
		}
		err = nil
	}

	ouf, err := os.Create(output)
	if err != nil {
		return
	}
	defer func() {
		close_err := ouf.Close()
		if err == nil {
			err = close_err
		}
	}()

	tape := &io.Tape{Output: ouf}
	for word := range prog.Words() {
		err = tape.Send(int(word))
		if err != nil {
			return
		}
	}

	translate.Fprintf(os.Stdout, "%v: %d instructions, %d words\n", output, len(prog.Opcodes), len(prog.Image))

	return
}

// unjoin splits an errors.Join() error into its parts.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
