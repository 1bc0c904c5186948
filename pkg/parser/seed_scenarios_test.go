package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/a68/a68front/internal/node"
	"github.com/gkampitakis/go-snaps/snaps"
)

// renderTree serializes n and its descendants into a deterministic,
// indented one-node-per-line form, giving the seed-scenario snapshots
// below a stable baseline to diff against.
func renderTree(n *node.Node) string {
	var sb strings.Builder
	var walk func(n *node.Node, depth int)
	walk = func(n *node.Node, depth int) {
		for cur := n; cur != nil; cur = cur.Next {
			sb.WriteString(strings.Repeat("  ", depth))
			sb.WriteString(cur.Attribute.String())
			if cur.Symbol != "" {
				fmt.Fprintf(&sb, " %q", cur.Symbol)
			}
			sb.WriteByte('\n')
			walk(cur.Sub, depth+1)
		}
	}
	walk(n, 0)
	return sb.String()
}

// TestSeedScenarios snapshots the finished tree for each of spec.md §8's
// six worked end-to-end scenarios, the way the teacher's own fixture
// tests snapshot whole-program output with go-snaps
// (internal/interp/fixture_test.go's snaps.MatchSnapshot(t, name, value)).
//
// Two scenarios use a harmless substitution for a literal the scanner
// can't represent under default (upper stropping) options: scenario 5's
// custom monadic operator is spelled with "@" instead of the spec's "⊕",
// since the scanner's recognized operator characters are a fixed ASCII
// set (internal/scanner/scanner.go's monadChars) and "⊕" isn't one of
// them; scenario 6's RE/IM selections are spelled "re"/"im" (lowercase),
// since standard-prelude names like these are never declared as MODE,
// OP or PRIO in this front-end (mode checking and a standard prelude are
// explicit Non-goals), so the uppercase spelling would scan as an
// undeclared BOLD_TAG rather than the ordinary applied identifier the
// scenario's tree shape assumes.
func TestSeedScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"identity_declaration_and_call", "BEGIN INT i = 1; print(i) END"},
		{"mode_declaration_and_variable", "BEGIN MODE VEC = [1:n] REAL; VEC v END"},
		{"for_from_to_do_loop", "BEGIN FOR i FROM 1 TO 10 DO print(i) OD END"},
		{"format_text_real_pattern", "BEGIN print(($+d.2d$, 1)) END"},
		{"operator_without_priority", "BEGIN OP @ = (INT a, b) INT: a + b; 3 @ 4 END"},
		{"conditional_with_selections", "BEGIN IF a = b THEN re x ELSE pi * (im x - im y) FI END"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := Parse("seed.a68", c.src)
			if result.Root == nil {
				t.Fatalf("expected a tree for %q, diagnostics: %v", c.src, result.Diagnostics)
			}
			snaps.MatchSnapshot(t, renderTree(result.Root))
		})
	}
}
