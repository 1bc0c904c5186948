package cmd

import (
	"fmt"

	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/parser"
	"github.com/spf13/cobra"
)

var refineEval string

var refineCmd = &cobra.Command{
	Use:   "refine [file]",
	Short: "Splice trailing refinements and print the resulting token chain",
	Long: `Run the scanner and the refinement splicer (component C) only, and
print the flat token chain that results: every "name: unit ." refinement
definition has been removed from the tail and spliced into the single
site that applies it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefine,
}

func init() {
	rootCmd.AddCommand(refineCmd)
	refineCmd.Flags().StringVarP(&refineEval, "eval", "e", "", "refine inline code instead of reading from a file")
}

func runRefine(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(args, refineEval)
	if err != nil {
		return err
	}

	head, _, diags := parser.Refine(name, input, optionsFromFlags(cmd)...)

	for n := head; n != nil; n = n.Next {
		printNode(n)
	}
	for _, d := range diags {
		fmt.Println(d.Error())
	}
	return nil
}

func printNode(n *node.Node) {
	out := fmt.Sprintf("%-24s", n.Attribute.String())
	if n.Symbol != "" {
		out += fmt.Sprintf(" %q", n.Symbol)
	}
	fmt.Println(out)
}
