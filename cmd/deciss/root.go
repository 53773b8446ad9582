package main

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deciss",
	Short: "Decimal instruction set simulator",
	Long: `Deciss assembles HALT, LOAD, STORE, ADD and JUMP mnemonics into
packed decimal machine words, and runs those words on a 256 cell,
four register CPU.

The word file written by 'asm' and read by 'run' holds one decimal
integer per line, in address order starting at 0.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
}
