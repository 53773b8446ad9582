package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/deciss/gen"
)

var genResolve bool
var genCond, genTrue, genFalse int

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen sourceFile",
	Short: "Write the sample if/else program",
	Long: `Gen writes an assembly program for

    if (Mem[cond] == 1) { R1 = R1 + Mem[true] } else { R1 = R1 + Mem[false] }

The jump targets are placeholder addresses from 100 upwards unless
--resolve is given, in which case the real addresses are written.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ouf, err := os.Create(args[0])
		if err != nil {
			return
		}
		defer ouf.Close()

		g := gen.NewGenerator(ouf)
		g.Verbose = verbose
		g.Resolve = genResolve
		g.CondAddr = genCond
		g.TrueAddr = genTrue
		g.FalseAddr = genFalse

		return g.IfElse()
	},
}

func init() {
	genCmd.Flags().BoolVar(&genResolve, "resolve", false, "Write real jump addresses")
	genCmd.Flags().IntVar(&genCond, "cond", gen.CONDITION_ADDR, "Condition cell")
	genCmd.Flags().IntVar(&genTrue, "true", gen.TRUE_ADDR, "If-branch addend cell")
	genCmd.Flags().IntVar(&genFalse, "false", gen.FALSE_ADDR, "Else-branch addend cell")

	rootCmd.AddCommand(genCmd)
}
