package node

import (
	"testing"

	"github.com/a68/a68front/pkg/token"
)

func chain(a *Arena, attrs ...token.Type) []*Node {
	nodes := make([]*Node, len(attrs))
	for i, at := range attrs {
		nodes[i] = a.New(at, at.String(), token.Position{Line: 1, Column: i + 1})
		if i > 0 {
			InsertAfter(nodes[i-1], nodes[i])
		}
	}
	return nodes
}

func TestInsertAfterMaintainsSymmetry(t *testing.T) {
	a := NewArena()
	nodes := chain(a, token.IDENTIFIER, token.SEMI_SYMBOL, token.IDENTIFIER)
	for _, n := range nodes {
		if n.Next != nil && n.Next.Prev != n {
			t.Fatalf("broken symmetry at %v", n)
		}
		if n.Prev != nil && n.Prev.Next != n {
			t.Fatalf("broken symmetry at %v", n)
		}
	}
}

func TestReduceDecreasesSiblingCountAndKeepsOrder(t *testing.T) {
	a := NewArena()
	nodes := chain(a, token.IF_SYMBOL, token.IDENTIFIER, token.THEN_SYMBOL)
	before := Count(nodes[0])

	parent := a.Reduce(token.CONDITIONAL_CLAUSE, nodes[0], nodes[2])

	if parent.Sub != nodes[0] {
		t.Fatalf("parent.Sub should be the run head")
	}
	if got := Count(parent.Sub); got != 3 {
		t.Fatalf("run should still have 3 internal nodes, got %d", got)
	}
	// parent now stands alone where the run used to be
	after := Count(parent)
	if after != 1 {
		t.Fatalf("after reduction the outer sibling count at this point is 1, got %d", after)
	}
	if after >= before {
		t.Fatalf("Reduce must strictly decrease sibling count: before=%d after=%d", before, after)
	}
	leaves := Leaves(parent)
	if len(leaves) != 3 || leaves[0] != nodes[0] || leaves[2] != nodes[2] {
		t.Fatalf("leaves out of order: %v", leaves)
	}
}

func TestReducePreservesOuterLinks(t *testing.T) {
	a := NewArena()
	nodes := chain(a, token.BEGIN_SYMBOL, token.IF_SYMBOL, token.IDENTIFIER, token.THEN_SYMBOL, token.END_SYMBOL)
	parent := a.Reduce(token.CONDITIONAL_CLAUSE, nodes[1], nodes[3])

	if nodes[0].Next != parent {
		t.Fatalf("BEGIN.Next should now be the new parent")
	}
	if parent.Prev != nodes[0] {
		t.Fatalf("parent.Prev should be BEGIN")
	}
	if parent.Next != nodes[4] {
		t.Fatalf("parent.Next should be END")
	}
	if nodes[4].Prev != parent {
		t.Fatalf("END.Prev should be the new parent")
	}
}

func TestRemoveUnlinksSymmetrically(t *testing.T) {
	a := NewArena()
	nodes := chain(a, token.IF_SYMBOL, token.SEMI_SYMBOL, token.FI_SYMBOL)
	Remove(nodes[1])
	if nodes[0].Next != nodes[2] || nodes[2].Prev != nodes[0] {
		t.Fatalf("Remove did not re-link neighbors")
	}
}

func TestConcatenateRoundTrip(t *testing.T) {
	a := NewArena()
	begin := a.New(token.BEGIN_SYMBOL, "BEGIN", token.Position{})
	ident := a.New(token.IDENTIFIER, "i", token.Position{})
	end := a.New(token.END_SYMBOL, "END", token.Position{})
	InsertAfter(begin, ident)
	InsertAfter(ident, end)
	root := a.Reduce(token.CLOSED_CLAUSE, begin, end)

	got := Concatenate(root)
	if got != "BEGIN i END" {
		t.Errorf("Concatenate() = %q, want %q", got, "BEGIN i END")
	}
}

func TestPadNodeDoesNotLinkItself(t *testing.T) {
	a := NewArena()
	n := a.New(token.FOR_SYMBOL, "FOR", token.Position{})
	pad := a.PadNode(token.BY_PART, token.Position{})
	if pad.Prev != nil || pad.Next != nil {
		t.Fatalf("PadNode must not auto-link")
	}
	if n.Next != nil {
		t.Fatalf("creating a pad node must not affect unrelated siblings")
	}
}
