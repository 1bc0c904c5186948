package reducer

import (
	"strings"
	"testing"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

func TestRecoverUnreducedPhrasesLeavesReducedSiblingsAlone(t *testing.T) {
	a := node.NewArena()
	sink := diag.NewSink("test", 0)

	id := a.New(token.IDENTIFIER, "x", token.Position{})
	primary := a.Reduce(token.PRIMARY, id, id)
	unit := a.Reduce(token.UNIT_NT, primary, primary)

	head := recoverUnreducedPhrases(a, sink, unit)

	if head != unit || head.Attribute != token.UNIT_NT {
		t.Fatalf("expected an already-reduced UNIT_NT to pass through untouched, got %+v", head)
	}
	if sink.HasErrors() {
		t.Fatalf("expected no diagnostic for a run with nothing to recover, got %v", sink.Diagnostics())
	}
}

func TestRecoverUnreducedPhrasesSynthesizesMappedParent(t *testing.T) {
	a := node.NewArena()
	sink := diag.NewSink("test", 0)

	ifLeaf := a.New(token.IF_SYMBOL, "IF", token.Position{Line: 3})
	stray := a.New(token.IDENTIFIER, "garbage", token.Position{Line: 3})
	node.InsertAfter(ifLeaf, stray)

	head := recoverUnreducedPhrases(a, sink, ifLeaf)

	if head.Attribute != token.IF_PART {
		t.Fatalf("expected the leading IF_SYMBOL run to synthesize an IF_PART, got %s", head.Attribute)
	}
	if head.Sub != ifLeaf || node.Last(head.Sub) != stray {
		t.Fatalf("expected the synthesized parent to splice both siblings under it, got %+v", head.Sub)
	}
	if !sink.HasErrors() {
		t.Fatalf("expected component H to emit a phrase-to-text diagnostic")
	}
	msg := sink.Diagnostics()[0].Message
	for _, want := range []string{"construct beginning with", "garbage", "line 3"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected the diagnostic to mention %q, got %q", want, msg)
		}
	}
}

func TestRecoverUnreducedPhrasesFallsBackToErrorNode(t *testing.T) {
	a := node.NewArena()
	sink := diag.NewSink("test", 0)

	stray := a.New(token.ASSIGN_SYMBOL, ":=", token.Position{})

	head := recoverUnreducedPhrases(a, sink, stray)

	if head.Attribute != token.ERROR_NODE {
		t.Fatalf("expected a leading attribute with no likelyParent entry to fall back to ERROR_NODE, got %s", head.Attribute)
	}
}

