package cmd

import (
	"fmt"
	"os"

	"github.com/a68/a68front/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "a68front",
	Short: "Algol 68 front end: scanner and hand-coded parser",
	Long: `a68front is a Go implementation of the classic Algol 68 compiler
front end: a cooperative scanner feeding a five-phase hand-coded parser
(parenthesis check, top-down framing, bottom-up reduction, jump
rearrangement, victality check).

It stops at the finished, nest-annotated parse tree — mode
equivalencing, code generation and listing output are out of scope.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("stropping", "upper", `stropping regime: "upper" or "quote"`)
	rootCmd.PersistentFlags().Int("max-errors", 0, "error cap (0 uses the front end's default)")
	rootCmd.PersistentFlags().Bool("no-bracket-equivalence", false, "reject [/] and {/} as (/) synonyms inside slices")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

// optionsFromFlags turns the persistent --stropping/--max-errors flags
// into config.Options for the phase being run.
func optionsFromFlags(cmd *cobra.Command) []config.Option {
	var opts []config.Option
	if s, _ := cmd.Flags().GetString("stropping"); s == "quote" {
		opts = append(opts, config.WithStropping(config.QuoteStropping))
	}
	if n, _ := cmd.Flags().GetInt("max-errors"); n > 0 {
		opts = append(opts, config.WithMaxErrors(n))
	}
	if no, _ := cmd.Flags().GetBool("no-bracket-equivalence"); no {
		opts = append(opts, config.WithBracketEquivalence(false))
	}
	return opts
}

func readInput(args []string, eval string) (text, name string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		data, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], rerr)
		}
		return string(data), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
