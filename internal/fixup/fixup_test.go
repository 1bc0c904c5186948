package fixup

import (
	"testing"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

func TestRewriteGotolessJumpsRetagsDeclaredLabel(t *testing.T) {
	a := node.NewArena()
	tbl := symtab.NewTable(nil)
	tbl.Define(&symtab.Entry{Name: "loop", Kind: symtab.IdentifierTag, IsLabel: true})

	id := a.New(token.IDENTIFIER, "loop", token.Position{})
	primary := a.Reduce(token.PRIMARY, id, id)
	secondary := a.Reduce(token.SECONDARY, primary, primary)
	tertiary := a.Reduce(token.TERTIARY, secondary, secondary)
	unit := a.Reduce(token.UNIT_NT, tertiary, tertiary)

	rewriteGotolessJumps(unit, tbl)

	if unit.Attribute != token.JUMP {
		t.Fatalf("expected UNIT_NT wrapping a declared label to be retagged JUMP, got %s", unit.Attribute)
	}
	if unit.Sub == nil || unit.Sub.Attribute != token.IDENTIFIER || unit.Sub.Symbol != "loop" {
		t.Fatalf("expected retagged JUMP to keep the identifier as its Sub, got %+v", unit.Sub)
	}
}

func TestRewriteGotolessJumpsLeavesOrdinaryIdentifierAlone(t *testing.T) {
	a := node.NewArena()
	tbl := symtab.NewTable(nil)
	tbl.Define(&symtab.Entry{Name: "x", Kind: symtab.IdentifierTag})

	id := a.New(token.IDENTIFIER, "x", token.Position{})
	primary := a.Reduce(token.PRIMARY, id, id)
	unit := a.Reduce(token.UNIT_NT, primary, primary)

	rewriteGotolessJumps(unit, tbl)

	if unit.Attribute != token.UNIT_NT {
		t.Fatalf("expected an ordinary identifier reference to be left alone, got %s", unit.Attribute)
	}
}

func TestRewriteGotolessJumpsIgnoresMultiChildChain(t *testing.T) {
	a := node.NewArena()
	tbl := symtab.NewTable(nil)
	tbl.Define(&symtab.Entry{Name: "loop", Kind: symtab.IdentifierTag, IsLabel: true})

	id := a.New(token.IDENTIFIER, "loop", token.Position{})
	arg := a.New(token.DENOTATION, "1", token.Position{})
	node.InsertAfter(id, arg)
	specification := a.Reduce(token.SPECIFICATION, id, arg)
	secondary := a.Reduce(token.SECONDARY, specification, specification)
	unit := a.Reduce(token.UNIT_NT, secondary, secondary)

	rewriteGotolessJumps(unit, tbl)

	if unit.Attribute != token.UNIT_NT {
		t.Fatalf("expected a call shape (not a bare identifier) to never be retagged JUMP, got %s", unit.Attribute)
	}
}

func TestAnnotateNestAndLevelInheritsNearestFramedAncestor(t *testing.T) {
	a := node.NewArena()
	leaf := a.New(token.IDENTIFIER, "x", token.Position{})
	primary := a.Reduce(token.PRIMARY, leaf, leaf)
	closed := a.Reduce(token.CLOSED_CLAUSE, primary, primary)
	root := a.Reduce(token.PARTICULAR_PROGRAM, closed, closed)

	annotateNestAndLevel(root, nil, 0)

	if root.Nest != nil {
		t.Fatalf("expected the root itself to have no enclosing nest, got %+v", root.Nest)
	}
	if closed.Nest != root {
		t.Fatalf("expected CLOSED_CLAUSE's nest to be the enclosing PARTICULAR_PROGRAM")
	}
	if primary.Nest != closed {
		t.Fatalf("expected PRIMARY's nest to be its own enclosing CLOSED_CLAUSE, got %+v", primary.Nest)
	}
	if leaf.Nest != closed {
		t.Fatalf("expected the leaf identifier's nest to also be the enclosing CLOSED_CLAUSE")
	}
}

func TestAnnotateNestAndLevelDoesNotOverwriteAlreadySetNest(t *testing.T) {
	a := node.NewArena()
	leaf := a.New(token.IDENTIFIER, "x", token.Position{})
	primary := a.Reduce(token.PRIMARY, leaf, leaf)
	other := a.New(token.CLOSED_CLAUSE, "", token.Position{})
	primary.Nest = other

	annotateNestAndLevel(primary, nil, 0)

	if primary.Nest != other {
		t.Fatalf("expected a pre-set Nest to survive the backfill, got %+v", primary.Nest)
	}
}

func TestAnnotateNestAndLevelIsIdempotent(t *testing.T) {
	a := node.NewArena()
	leaf := a.New(token.IDENTIFIER, "x", token.Position{})
	primary := a.Reduce(token.PRIMARY, leaf, leaf)
	closed := a.Reduce(token.CLOSED_CLAUSE, primary, primary)
	root := a.Reduce(token.PARTICULAR_PROGRAM, closed, closed)

	annotateNestAndLevel(root, nil, 0)
	firstPrimaryNest, firstLeafLevel := primary.Nest, leaf.Level

	annotateNestAndLevel(root, nil, 0)

	if primary.Nest != firstPrimaryNest || leaf.Level != firstLeafLevel {
		t.Fatalf("expected a second annotation pass to leave the tree unchanged")
	}
}

func TestCheckVictalityFlagsMismatchedBounds(t *testing.T) {
	a := node.NewArena()
	sink := diag.NewSink("test", 0)

	bounds := a.New(token.ACTUAL_BOUNDS, "", token.Position{})
	base := a.New(token.INT_SYMBOL, "", token.Position{})
	node.InsertAfter(bounds, base)
	declarer := a.Reduce(token.DECLARER, bounds, base)

	identity := a.Reduce(token.IDENTITY_DECLARATION, declarer, declarer)

	checkVictality(sink, identity, victalFormal)

	if !sink.HasErrors() {
		t.Fatalf("expected an actual-bounds declarer inside a formal-context declaration to be flagged")
	}
}

func TestCheckVictalityAllowsRefExemption(t *testing.T) {
	a := node.NewArena()
	sink := diag.NewSink("test", 0)

	// A REF-qualified declarer wants virtual bounds regardless of its
	// enclosing context, so a VIRTUAL_BOUNDS child never mismatches here
	// even though the enclosing IDENTITY_DECLARATION would otherwise want
	// formal bounds.
	ref := a.New(token.REF_SYMBOL, "", token.Position{})
	bounds := a.New(token.VIRTUAL_BOUNDS, "", token.Position{})
	node.InsertAfter(ref, bounds)
	base := a.New(token.INT_SYMBOL, "", token.Position{})
	node.InsertAfter(bounds, base)
	declarer := a.Reduce(token.DECLARER, ref, base)

	identity := a.Reduce(token.IDENTITY_DECLARATION, declarer, declarer)

	checkVictality(sink, identity, victalFormal)

	if sink.HasErrors() {
		t.Fatalf("expected a REF-qualified declarer's virtual bounds to match its overridden expectation, got %v", sink.Diagnostics())
	}
}

func TestCheckVictalityIgnoresDeclarerWithNoBoundsShape(t *testing.T) {
	a := node.NewArena()
	sink := diag.NewSink("test", 0)

	base := a.New(token.INT_SYMBOL, "", token.Position{})
	declarer := a.Reduce(token.DECLARER, base, base)
	identity := a.Reduce(token.IDENTITY_DECLARATION, declarer, declarer)

	checkVictality(sink, identity, victalFormal)

	if sink.HasErrors() {
		t.Fatalf("expected a declarer with no BOUNDS-kind child to produce no diagnostic, got %v", sink.Diagnostics())
	}
}
