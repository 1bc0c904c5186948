package cmd

import (
	"fmt"

	"github.com/a68/a68front/pkg/parser"
	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpTree bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Run the full front end and report diagnostics",
	Long: `Run every phase of the front end (scan, refine, parenthesis check,
frame, reduce, fixup) and print the resulting diagnostics. Use --dump-tree
to also print the finished parse tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpTree, "dump-tree", false, "print the finished parse tree")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(args, parseEval)
	if err != nil {
		return err
	}

	result := parser.Parse(name, input, optionsFromFlags(cmd)...)

	for _, d := range result.Diagnostics {
		fmt.Println(d.Error())
	}

	if result.Failed {
		return fmt.Errorf("parsing failed")
	}

	if parseDumpTree {
		dumpTree(result.Root, 0)
	}
	return nil
}
