package cmd

import (
	"fmt"
	"strings"

	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/parser"
	"github.com/spf13/cobra"
)

var treeEval string

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Parse and print the finished tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringVarP(&treeEval, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runTree(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(args, treeEval)
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
	dumpTree(result.Root, 0)
	return nil
}

// dumpTree prints n and its descendants, one per line, indented by
// depth; a terminal also shows its Symbol.
func dumpTree(n *node.Node, depth int) {
	if n == nil {
		return
	}
	for cur := n; cur != nil; cur = cur.Next {
		line := strings.Repeat("  ", depth) + cur.Attribute.String()
		if cur.Symbol != "" {
			line += fmt.Sprintf(" %q", cur.Symbol)
		}
		fmt.Println(line)
		dumpTree(cur.Sub, depth+1)
	}
}
