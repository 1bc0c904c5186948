package parenthesis

import (
	"testing"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

func chainOf(a *node.Arena, attrs []token.Type) *node.Node {
	var head, prev *node.Node
	for _, attr := range attrs {
		n := a.New(attr, attr.String(), token.Position{Line: 1})
		if head == nil {
			head = n
		} else {
			prev.Next = n
			n.Prev = prev
		}
		prev = n
	}
	return head
}

func TestCheckBalancedProgram(t *testing.T) {
	a := node.NewArena()
	head := chainOf(a, []token.Type{
		token.BEGIN_SYMBOL, token.IF_SYMBOL, token.IDENTIFIER, token.THEN_SYMBOL,
		token.IDENTIFIER, token.FI_SYMBOL, token.END_SYMBOL,
	})
	sink := diag.NewSink("", 25)
	if !Check(head, sink) {
		t.Fatalf("expected balanced, got diagnostics: %+v", sink.Diagnostics())
	}
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %+v", sink.Diagnostics())
	}
}

func TestCheckDetectsMissingCloser(t *testing.T) {
	a := node.NewArena()
	head := chainOf(a, []token.Type{token.BEGIN_SYMBOL, token.IDENTIFIER})
	sink := diag.NewSink("", 25)
	if Check(head, sink) {
		t.Fatalf("expected imbalance to be detected")
	}
	if sink.ErrorCount() == 0 {
		t.Fatalf("expected a diagnostic")
	}
}

func TestCheckDetectsMismatchedCloser(t *testing.T) {
	a := node.NewArena()
	head := chainOf(a, []token.Type{token.OPEN_SYMBOL, token.IDENTIFIER, token.BUS_SYMBOL})
	sink := diag.NewSink("", 25)
	if Check(head, sink) {
		t.Fatalf("expected mismatch to be detected")
	}
	if sink.ErrorCount() == 0 {
		t.Fatalf("expected a diagnostic")
	}
}

func TestCheckFormatDelimiterPairsUp(t *testing.T) {
	a := node.NewArena()
	head := chainOf(a, []token.Type{
		token.FORMAT_DELIMITER_SYMBOL, token.FORMAT_ITEM_A, token.FORMAT_DELIMITER_SYMBOL,
	})
	sink := diag.NewSink("", 25)
	if !Check(head, sink) {
		t.Fatalf("expected balanced format delimiters, got %+v", sink.Diagnostics())
	}
}

func TestCheckNestedBrackets(t *testing.T) {
	a := node.NewArena()
	head := chainOf(a, []token.Type{
		token.OPEN_SYMBOL, token.SUB_SYMBOL, token.IDENTIFIER, token.BUS_SYMBOL, token.CLOSE_SYMBOL,
	})
	sink := diag.NewSink("", 25)
	if !Check(head, sink) {
		t.Fatalf("expected nested brackets to balance, got %+v", sink.Diagnostics())
	}
}

func TestCheckWalksFramedSubtrees(t *testing.T) {
	a := node.NewArena()
	inner := chainOf(a, []token.Type{token.OPEN_SYMBOL, token.IDENTIFIER})
	parent := a.New(token.CLOSED_CLAUSE, "", token.Position{Line: 1})
	parent.Sub = inner
	sink := diag.NewSink("", 25)
	if Check(parent, sink) {
		t.Fatalf("expected the unmatched OPEN_SYMBOL inside the subtree to be detected")
	}
}
