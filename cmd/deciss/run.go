package main

import (
	"errors"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/ezrec/deciss/cpu"
	"github.com/ezrec/deciss/emulator"
	"github.com/ezrec/deciss/io"
	"github.com/ezrec/deciss/translate"
)

var runLimit int
var runDump bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run wordFile",
	Short: "Load a word file into memory and execute it",
	Long: `Run loads up to 256 words into memory from address 0, zeroing the
rest, and executes from address 0 until HALT or a fault. The outcome
and the result cell Mem[22] are printed.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(args[0])
	},
}

func init() {
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Maximum instructions to execute (0 is unlimited)")
	runCmd.Flags().BoolVar(&runDump, "dump", false, "Dump the final CPU state")

	rootCmd.AddCommand(runCmd)
}

func run(program string) (err error) {
	inf, err := os.Open(program)
	if err != nil {
		return
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Limit = runLimit

	err = emu.LoadFrom(inf)
	var bad *io.ErrWord
	if errors.As(err, &bad) {
		// Loading stops at the bad word, like end of input.
		log.Printf("%v: %v", program, err)
		err = nil
	}
	if err != nil {
		return
	}

	outcome := emu.Run()

	if runDump {
		spew.Fdump(os.Stdout, emu.Cpu.Register, emu.Cpu.Pc, emu.Cpu.Ir, emu.Cpu.State)
	}

	translate.Fprintf(os.Stdout, "%v at %03d after %d instructions\n", outcome.State, outcome.Address, outcome.Ticks)
	translate.Fprintf(os.Stdout, "Mem[%d] = %d\n", emulator.RESULT_ADDRESS, int(emu.Cpu.Memory[emulator.RESULT_ADDRESS]))

	if outcome.State == cpu.STATE_FAULTED {
		err = outcome.Err
	}

	return
}
