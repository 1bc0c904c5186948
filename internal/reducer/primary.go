package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reducePrimaries wraps denotations, applied identifiers and generators
// into PRIMARY nodes; folds a PRIMARY immediately followed by a framed
// bracket into SPECIFICATION or SLICE (spec.md §4.G bullets 4-5, §8
// scenario 1) while that bracket still carries its raw opener attribute;
// specializes whatever bracket is left into its enclosed-clause shape
// (reduceEnclosedClause); and wraps each resulting ENCLOSED_CLAUSE into
// a PRIMARY of its own.
// bracketEquiv is config.Options.AllowBracketEquivalence (spec.md §4.B),
// forwarded to foldSpecificationsAndSlices.
func reducePrimaries(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node, bracketEquiv bool) *node.Node {
	head = reduceGotoJumps(a, head)
	head = wrapOrdinaryAtoms(a, head)
	head = foldSpecificationsAndSlices(a, head, bracketEquiv)
	head = reduceEnclosedClause(a, head)
	head = wrapRemainingEnclosers(a, head)
	return head
}

// reduceGotoJumps folds "GOTO identifier" into JUMP ahead of primary
// wrapping, so the label name is never mistaken for an ordinary applied
// identifier (spec.md §4.I handles the goto-less form, matching a bare
// identifier against the label table once the whole tree is built).
func reduceGotoJumps(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.GOTO_SYMBOL || cur.Next == nil || cur.Next.Attribute != token.IDENTIFIER {
			cur = cur.Next
			continue
		}
		target := cur.Next
		wasHead := cur == head
		parent := a.Reduce(token.JUMP, cur, target)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}

// wrapOrdinaryAtoms wraps denotations, NIL, SKIP, applied identifiers and
// generators into their leaf non-terminals. A raw bracket is deliberately
// left untouched here — it may still turn out to be an argument or bound
// list, which foldSpecificationsAndSlices needs to see before the
// bracket's own opener attribute is disturbed.
func wrapOrdinaryAtoms(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		var attr token.Type
		switch {
		case cur.Attribute.IsDenotation(), cur.Attribute == token.TRUE_SYMBOL, cur.Attribute == token.FALSE_SYMBOL:
			attr = token.DENOTATION
		case cur.Attribute == token.NIL_SYMBOL:
			attr = token.NIHIL
		case cur.Attribute == token.SKIP_SYMBOL:
			attr = token.SKIP_NT
		case cur.Attribute == token.IDENTIFIER, cur.Attribute == token.GENERATOR:
			attr = token.PRIMARY
		default:
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		parent := a.Reduce(attr, cur, cur)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}

// wrapRemainingEnclosers wraps each ENCLOSED_CLAUSE left by
// reduceEnclosedClause into a PRIMARY of its own.
func wrapRemainingEnclosers(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.ENCLOSED_CLAUSE {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		parent := a.Reduce(token.PRIMARY, cur, cur)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}

// foldSpecificationsAndSlices folds "PRIMARY (args)" into
// SPECIFICATION(PRIMARY, GENERIC_ARGUMENT) and "PRIMARY [bounds]" into
// SLICE(PRIMARY, bounds), matching the call shape of spec.md §8
// scenario 1. When bracketEquiv is set (config.Options.AllowBracketEquivalence,
// spec.md §4.B: "[/] and {/} are accepted as synonyms for (/) ... inside
// slices"), a brace-bracketed subscript ("PRIMARY {bounds}") folds into
// SLICE exactly like a square-bracketed one; with it off, only SUB_SYMBOL
// introduces a slice and a brace run there is left for component H.
func foldSpecificationsAndSlices(a *node.Arena, head *node.Node, bracketEquiv bool) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.PRIMARY || cur.Next == nil {
			cur = cur.Next
			continue
		}
		next := cur.Next
		switch {
		case next.Attribute == token.OPEN_SYMBOL:
			next.Attribute = token.GENERIC_ARGUMENT
			stripBracketLeaves(next)
			wasHead := cur == head
			after := next.Next
			parent := a.Reduce(token.SPECIFICATION, cur, next)
			if wasHead {
				head = parent
			}
			cur = after
			continue
		case next.Attribute == token.SUB_SYMBOL || (bracketEquiv && next.Attribute == token.ACCO_SYMBOL):
			next.Attribute = token.BOUNDS
			stripBracketLeaves(next)
			wasHead := cur == head
			after := next.Next
			parent := a.Reduce(token.SLICE, cur, next)
			if wasHead {
				head = parent
			}
			cur = after
			continue
		}
		cur = next
	}
	return head
}

// stripBracketLeaves drops the literal opening/closing bracket leaves
// from an already-framed node's child list, leaving only its reduced
// interior, since GENERIC_ARGUMENT/BOUNDS carry no symbol of their own.
func stripBracketLeaves(n *node.Node) {
	if n.Sub == nil {
		return
	}
	first := n.Sub
	if first.IsTerminal() && first.Sub == nil && isBracketLeafAttr(first.Attribute) {
		n.Sub = first.Next
		if n.Sub != nil {
			n.Sub.Prev = nil
		}
	}
	last := node.Last(n.Sub)
	if last != nil && last.IsTerminal() && isBracketLeafAttr(last.Attribute) {
		if last.Prev != nil {
			last.Prev.Next = nil
		} else {
			n.Sub = nil
		}
	}
}

func isBracketLeafAttr(attr token.Type) bool {
	switch attr {
	case token.OPEN_SYMBOL, token.CLOSE_SYMBOL, token.SUB_SYMBOL, token.BUS_SYMBOL,
		token.BEGIN_SYMBOL, token.END_SYMBOL, token.ACCO_SYMBOL, token.OCCA_SYMBOL:
		return true
	}
	return false
}

// reduceSecondaries folds "PRIMARY OF PRIMARY" (field selection) into a
// SELECTION node, and a lone SELECTOR+OF_SYMBOL pair is left for a richer
// struct-mode-aware pass a full mode checker would add (spec.md §4.G
// bullet 9, "deferred to mode equivalencing" per Non-goals).
func reduceSecondaries(a *node.Arena, sink *diag.Sink, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.PRIMARY || cur.Next == nil || cur.Next.Attribute != token.OF_SYMBOL {
			cur = cur.Next
			continue
		}
		ofNode := cur.Next
		if ofNode.Next == nil || ofNode.Next.Attribute != token.PRIMARY {
			cur = cur.Next
			continue
		}
		structPrimary := ofNode.Next
		cur.Attribute = token.SELECTOR
		wasHead := cur == head
		after := structPrimary.Next
		node.Remove(ofNode)
		parent := a.Reduce(token.SELECTION, cur, structPrimary)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}
