package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reduceLoopParts reduces a LOOP_CLAUSE's already-named parts (spec.md
// §8 scenario 3). The loop index declared by FOR_PART is visible to
// every other part, so FROM_PART/BY_PART/TO_PART/WHILE_PART all reduce
// their expression using one shared table; only ALT_DO_PART, the loop
// body, is a genuine range of its own and gets a table nested inside
// that one. An UNTIL_PART sits inside ALT_DO_PART, so its expression is
// reduced with the body's table when the body is reduced.
func reduceLoopParts(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, cur *node.Node, bracketEquiv bool) {
	loopTbl := symtab.NewTable(tbl)
	cur.SymbolTable = loopTbl

	for part := cur.Sub; part != nil; part = part.Next {
		part.Nest = cur
		keyword := part.Sub
		if keyword == nil {
			continue
		}
		switch part.Attribute {
		case token.FOR_PART:
			if id := keyword.Next; id != nil && id.Attribute == token.IDENTIFIER {
				id.Attribute = token.DEFINING_IDENTIFIER
				loopTbl.Define(&symtab.Entry{Name: id.Symbol, Kind: symtab.IdentifierTag, Pos: id.Pos})
			}
		case token.ALT_DO_PART:
			bodyTbl := symtab.NewTable(loopTbl)
			part.SymbolTable = bodyTbl
			reduceLoopBody(a, sink, bodyTbl, part, keyword, bracketEquiv)
		default:
			reduceLoopExpr(a, sink, loopTbl, cur, part, keyword, bracketEquiv)
		}
	}
}

// reduceLoopExpr reduces a FROM/BY/TO/WHILE/UNTIL part's interior
// (everything after the leading keyword leaf) in place, using the table
// it is given (the loop's shared one, or the body's for UNTIL) rather
// than a nested one.
func reduceLoopExpr(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, owner, part, keyword *node.Node, bracketEquiv bool) {
	body := keyword.Next
	if body == nil {
		return
	}
	keyword.Next = nil
	body.Prev = nil
	body = Reduce(a, sink, tbl, body, bracketEquiv)
	keyword.Next = body
	body.Prev = keyword
	for n := body; n != nil; n = n.Next {
		n.Nest = owner
	}
}

// reduceLoopBody reduces ALT_DO_PART's interior — everything between the
// ALT_DO_SYMBOL keyword leaf and the trailing OD_SYMBOL leaf — as its
// own serial-clause range.
func reduceLoopBody(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, part, keyword *node.Node, bracketEquiv bool) {
	odLeaf := node.Last(part.Sub)
	if odLeaf == keyword {
		return
	}
	body := keyword.Next
	if body == odLeaf {
		return
	}
	keyword.Next = nil
	body.Prev = nil
	if odLeaf.Prev != nil {
		odLeaf.Prev.Next = nil
	}
	odLeaf.Prev = nil

	body = Reduce(a, sink, tbl, body, bracketEquiv)
	for n := body; n != nil; n = n.Next {
		n.Nest = part
	}

	keyword.Next = body
	body.Prev = keyword
	tail := node.Last(body)
	tail.Next = odLeaf
	odLeaf.Prev = tail
}
