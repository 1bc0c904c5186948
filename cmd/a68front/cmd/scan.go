package cmd

import (
	"fmt"

	"github.com/a68/a68front/pkg/parser"
	"github.com/a68/a68front/pkg/token"
	"github.com/spf13/cobra"
)

var (
	scanEval     string
	scanShowPos  bool
	scanOnlyDiag bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Tokenize an Algol 68 program and print the resulting tokens",
	Long: `Tokenize an Algol 68 program, including the Format/General mode
switching a format text needs, and print the resulting token stream.

Examples:
  a68front scan prog.a68
  a68front scan -e "print((1, 2))"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanEval, "eval", "e", "", "scan inline code instead of reading from a file")
	scanCmd.Flags().BoolVar(&scanShowPos, "show-pos", false, "show each token's line:column")
	scanCmd.Flags().BoolVar(&scanOnlyDiag, "only-errors", false, "print only diagnostics, not tokens")
}

func runScan(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(args, scanEval)
	if err != nil {
		return err
	}

	toks, diags := parser.Scan(name, input, optionsFromFlags(cmd)...)

	if !scanOnlyDiag {
		for _, tok := range toks {
			printToken(tok)
		}
	}
	for _, d := range diags {
		fmt.Println(d.Error())
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("%-24s", tok.Attribute.String())
	if tok.Symbol != "" {
		out += fmt.Sprintf(" %q", tok.Symbol)
	}
	if scanShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
