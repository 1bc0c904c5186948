package refinement

import (
	"testing"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

type spec struct {
	attr   token.Type
	symbol string
}

func chain(a *node.Arena, specs []spec) *node.Node {
	var head, prev *node.Node
	for _, sp := range specs {
		n := a.New(sp.attr, sp.symbol, token.Position{Line: 1})
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

func symbols(head *node.Node) []string {
	var out []string
	for n := head; n != nil; n = n.Next {
		if n.Symbol != "" {
			out = append(out, n.Symbol)
		} else {
			out = append(out, n.Attribute.String())
		}
	}
	return out
}

func TestExtractSubstitutesSingleApplication(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.IDENTIFIER, "x"},
		{token.ASSIGN_SYMBOL, ":="},
		{token.IDENTIFIER, "double"},
		{token.POINT_SYMBOL, "."},
		{token.IDENTIFIER, "double"},
		{token.COLON_SYMBOL, ":"},
		{token.IDENTIFIER, "y"},
		{token.POINT_SYMBOL, "."},
	})
	sink := diag.NewSink("", 25)

	newHead := Extract(head, sink)

	got := symbols(newHead)
	want := []string{"x", ":=", "y", "."}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestExtractWarnsOnUnusedRefinement(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.IDENTIFIER, "x"},
		{token.POINT_SYMBOL, "."},
		{token.IDENTIFIER, "unused"},
		{token.COLON_SYMBOL, ":"},
		{token.IDENTIFIER, "y"},
		{token.POINT_SYMBOL, "."},
	})
	sink := diag.NewSink("", 25)

	Extract(head, sink)

	found := false
	for _, d := range sink.Diagnostics() {
		if d.Severity == diag.Warning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning for the unused refinement, got %+v", sink.Diagnostics())
	}
}

func TestExtractErrorsOnDuplicateDefinition(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.IDENTIFIER, "x"},
		{token.POINT_SYMBOL, "."},
		{token.IDENTIFIER, "dup"},
		{token.COLON_SYMBOL, ":"},
		{token.IDENTIFIER, "a"},
		{token.POINT_SYMBOL, "."},
		{token.IDENTIFIER, "dup"},
		{token.COLON_SYMBOL, ":"},
		{token.IDENTIFIER, "b"},
		{token.POINT_SYMBOL, "."},
	})
	sink := diag.NewSink("", 25)

	Extract(head, sink)

	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %+v", sink.ErrorCount(), sink.Diagnostics())
	}
}

func TestExtractNoRefinementTailLeavesChainUnchanged(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.IDENTIFIER, "x"},
		{token.ASSIGN_SYMBOL, ":="},
		{token.IDENTIFIER, "y"},
		{token.POINT_SYMBOL, "."},
	})
	sink := diag.NewSink("", 25)

	newHead := Extract(head, sink)

	if newHead != head {
		t.Fatalf("expected head unchanged when there is no refinement tail")
	}
	if sink.ErrorCount() != 0 || len(sink.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", sink.Diagnostics())
	}
}
