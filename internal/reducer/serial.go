package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// reduceSerialClause is the last structural pass of a range (spec.md
// §4.G bullet 13): it pairs a LABEL marker with the unit it prefixes
// into LABELED_UNIT, wraps each declaration list into
// INITIALISER_SERIES, hands any phrase that still never reduced to
// component H's recoverUnreducedPhrases, and finally folds the whole,
// now-flat sibling run into one SERIAL_CLAUSE. Separator leaves
// (SEMI_SYMBOL) are left in place inside the fold rather than stripped,
// so the reduced node's Sub chain still covers every original token
// (spec.md §8 invariant 1).
func reduceSerialClause(a *node.Arena, sink *diag.Sink, head *node.Node) *node.Node {
	head = reduceLabeledUnits(a, head)
	head = wrapInitialiserSeries(a, head)
	head = recoverUnreducedPhrases(a, sink, head)
	if head == nil || head.Next == nil {
		return head
	}
	tail := node.Last(head)
	return a.Reduce(token.SERIAL_CLAUSE, head, tail)
}

// reduceLabeledUnits folds "LABEL COLON_SYMBOL UNIT_NT" into LABELED_UNIT,
// dropping the now-redundant colon leaf.
func reduceLabeledUnits(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.LABEL || cur.Next == nil || cur.Next.Attribute != token.COLON_SYMBOL {
			cur = cur.Next
			continue
		}
		colon := cur.Next
		unit := colon.Next
		if unit == nil {
			cur = cur.Next
			continue
		}
		node.Remove(colon)
		wasHead := cur == head
		after := unit.Next
		parent := a.Reduce(token.LABELED_UNIT, cur, unit)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// wrapInitialiserSeries folds each already-grouped DECLARATION_LIST into
// its own INITIALISER_SERIES, matching spec.md §8 scenario 1's
// INITIALISER_SERIES(DECLARATION_LIST(...)). reduceDeclarationLists has
// already run by this point, so every declaration a range contains is
// already a DECLARATION_LIST sibling, never a bare *_DECLARATION one.
func wrapInitialiserSeries(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.DECLARATION_LIST {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		after := cur.Next
		parent := a.Reduce(token.INITIALISER_SERIES, cur, cur)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}
