// Command a68front drives the Algol 68 front end from the command line:
// scanning, refinement splicing, and full parsing through the
// post-tree fixup, with a tree dump for inspecting the result.
package main

import (
	"fmt"
	"os"

	"github.com/a68/a68front/cmd/a68front/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
