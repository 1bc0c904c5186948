package parser

import (
	"testing"

	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

func TestScanProducesTerminatedTokenStream(t *testing.T) {
	toks, diags := Scan("t.a68", "BEGIN INT i = 1 END")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(toks) == 0 || toks[len(toks)-1].Attribute != token.EOF {
		t.Fatalf("expected the token stream to end with EOF, got %v", toks)
	}
	if toks[0].Attribute != token.BEGIN_SYMBOL {
		t.Fatalf("expected the stream to start with BEGIN, got %s", toks[0].Attribute)
	}
}

func TestRefineLeavesAnUnrefinedProgramUntouched(t *testing.T) {
	head, _, diags := Refine("t.a68", "BEGIN SKIP END")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if head == nil || head.Attribute != token.BEGIN_SYMBOL {
		t.Fatalf("expected the chain to still start with BEGIN, got %v", head)
	}
}

func TestParseSimpleClosedClauseSucceeds(t *testing.T) {
	result := Parse("t.a68", "BEGIN SKIP END")
	if result.Failed {
		t.Fatalf("expected a trivial closed clause to parse, diagnostics: %v", result.Diagnostics)
	}
	if result.Root == nil {
		t.Fatalf("expected a non-nil root")
	}
	if result.Root.Attribute != token.PARTICULAR_PROGRAM {
		t.Fatalf("expected the root to be PARTICULAR_PROGRAM, got %s", result.Root.Attribute)
	}
}

func TestParseUnbalancedParenthesesFails(t *testing.T) {
	result := Parse("t.a68", "BEGIN (1 + 2 END")
	if !result.Failed {
		t.Fatalf("expected an unbalanced bracket to abort the pipeline")
	}
	if len(result.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic for the unbalanced bracket")
	}
}

func TestParseIdentityDeclarationAndCallReducesToExpectedShape(t *testing.T) {
	result := Parse("t.a68", `BEGIN INT i = 1; print(i) END`)
	if result.Failed {
		t.Fatalf("expected scenario 1's program to parse, diagnostics: %v", result.Diagnostics)
	}

	serial := findFirst(result.Root, token.SERIAL_CLAUSE)
	if serial == nil {
		t.Fatalf("expected a SERIAL_CLAUSE somewhere in the tree")
	}
	if findFirst(serial, token.INITIALISER_SERIES) == nil {
		t.Fatalf("expected an INITIALISER_SERIES wrapping the identity declaration")
	}
	unit := findFirst(serial, token.UNIT_NT)
	if unit == nil {
		t.Fatalf("expected a UNIT_NT wrapping the print(i) call")
	}
	if findFirst(unit, token.SPECIFICATION) == nil {
		t.Fatalf("expected print(i) to reduce through SPECIFICATION, not stay a bare call")
	}
}

// findFirst does a depth-first search for the first node (in document
// order) carrying attr, inside n or any of n's siblings/descendants.
func findFirst(n *node.Node, attr token.Type) *node.Node {
	for cur := n; cur != nil; cur = cur.Next {
		if cur.Attribute == attr {
			return cur
		}
		if found := findFirst(cur.Sub, attr); found != nil {
			return found
		}
	}
	return nil
}
