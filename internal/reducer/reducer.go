// Package reducer implements component G, the bottom-up reducer, and
// component H, the error recoverer it calls when a phrase never folds
// into a recognized serial-clause constituent (recover.go). It is a
// pattern-match rewriter: Reduce drives a fixed sequence of passes over
// one range's flat sibling list — declarer scaffolding, clauses, primaries,
// formulae, units, declaration lists and serial-clause chaining — each
// pass folding a run of siblings into one non-terminal via
// node.Arena.Reduce (spec.md §4.G). Nested framed sub-trees (brackets,
// loop parts, format texts) are reduced first, depth-first, each with
// its own symbol table chained to its parent's (spec.md §2 "F is
// invoked by G at the start of each range").
package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/extract"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// Reduce reduces the range rooted at head (the first sibling of a flat,
// already-framed list) to as few nodes as the grammar allows, using tbl
// as the range's own table (nested in parent). bracketEquiv carries
// config.Options.AllowBracketEquivalence (spec.md §4.B) down to the one
// pass that branches on it, foldSpecificationsAndSlices. It returns the
// new head.
func Reduce(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node, bracketEquiv bool) *node.Node {
	reduceNestedRanges(a, sink, tbl, head, bracketEquiv)
	head = reduceDeclarerPacks(a, head)
	extract.Extract(tbl, head, sink)

	head = removeSuperfluousSeparators(sink, head)
	head = reduceDeclarerScaffolding(a, sink, tbl, head)
	head = reduceDeclarers(a, sink, tbl, head)
	head = reduceGenerators(a, head)
	head = markDefiningOccurrences(head)
	head = markLabels(head)
	head = reducePrimaries(a, sink, tbl, head, bracketEquiv)
	head = reduceSecondaries(a, sink, head)
	head = reduceFormulae(a, sink, tbl, head)
	head = reduceTertiariesAndUnits(a, sink, head)
	head = reduceDeclarationLists(a, sink, tbl, head)
	head = reduceSerialClause(a, sink, head)
	return head
}

// reduceNestedRanges walks head's siblings and, for every already-framed
// sub-tree (one whose Sub is set), recursively reduces its own child
// range with a fresh table nested inside tbl before this level's own
// reduction begins — the "F invoked at the start of each range" / leaves
// first discipline of spec.md §2.
func reduceNestedRanges(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node, bracketEquiv bool) {
	for cur := head; cur != nil; cur = cur.Next {
		if cur.Sub == nil {
			continue
		}
		switch cur.Attribute {
		case token.IF_SYMBOL, token.CASE_SYMBOL:
			splitEnclosedRange(a, sink, tbl, cur, bracketEquiv)
		case token.LOOP_CLAUSE:
			reduceLoopParts(a, sink, tbl, cur, bracketEquiv)
		case token.UNTIL_PART:
			reduceLoopExpr(a, sink, tbl, cur, cur, cur.Sub, bracketEquiv)
		case token.FORMAT_DELIMITER_SYMBOL:
			reduceFormatText(a, sink, tbl, cur)
		default:
			inner := symtab.NewTable(tbl)
			cur.SymbolTable = inner
			cur.Sub = Reduce(a, sink, inner, cur.Sub, bracketEquiv)
			cur.Sub.Prev = nil
			for n := cur.Sub.Next; n != nil; n = n.Next {
				n.Nest = cur
			}
		}
	}
}

// removeSuperfluousSeparators drops a SEMI_SYMBOL that directly precedes
// a closing keyword (e.g. "x; FI", "y; OD"), an UNTIL_PART, or the end of
// the range, a noise pattern RR
// tolerates with only a warning (spec.md §4.G "Superfluous semicolons").
func removeSuperfluousSeparators(sink *diag.Sink, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		next := cur.Next
		if cur.Attribute == token.SEMI_SYMBOL && (next == nil || next.Attribute == token.UNTIL_PART || isClosingKeyword(next.Attribute)) {
			sink.Emit(diag.Warning, cur.Pos, "superfluous %q ignored", ";")
			prev, after := node.Remove(cur)
			if prev == nil {
				head = after
			}
			cur = after
			continue
		}
		cur = next
	}
	return head
}

func isClosingKeyword(attr token.Type) bool {
	switch attr {
	case token.FI_SYMBOL, token.OD_SYMBOL, token.ESAC_SYMBOL, token.END_SYMBOL,
		token.CLOSE_SYMBOL, token.BUS_SYMBOL, token.OCCA_SYMBOL:
		return true
	}
	return false
}
