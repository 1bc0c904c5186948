package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reduceDeclarationLists assembles the final declaration nodes (spec.md
// §4.G bullet 12) now that every initializer unit has already been
// reduced and every defining name was retagged ahead of the primary/
// formula passes by markDefiningOccurrences. A maximal run of adjacent
// declarations (each ending at a SEMI_SYMBOL that precedes another
// declaration) is collected into one DECLARATION_LIST.
func reduceDeclarationLists(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	head = reduceSingleDeclarations(a, sink, tbl, head)
	head = groupDeclarationList(a, head)
	return head
}

func reduceSingleDeclarations(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		var attr token.Type
		var span *node.Node
		switch cur.Attribute {
		case token.MODE_SYMBOL:
			attr, span = token.MODE_DECLARATION, declSpanEnd(cur.Next)
		case token.PRIO_SYMBOL:
			attr, span = token.PRIORITY_DECLARATION, declSpanEnd(cur.Next)
		case token.OP_SYMBOL:
			attr, span = token.OPERATOR_DECLARATION, declSpanEnd(cur.Next)
		case token.DECLARER:
			attr, span = declarerDeclarationKind(cur), declSpanEnd(cur.Next)
		default:
			cur = cur.Next
			continue
		}
		if span == nil {
			span = cur
		}
		wasHead := cur == head
		after := span.Next
		parent := a.Reduce(attr, cur, span)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// declarerDeclarationKind inspects the defining name's separator
// (ALT_EQUALS_SYMBOL, ASSIGN_SYMBOL, or a bare terminator for no
// initializer) to tell an identity declaration from a variable one, and
// special-cases a PROC-headed declarer (spec.md §8 scenario 2).
func declarerDeclarationKind(declarer *node.Node) token.Type {
	isProc := declarer.Sub != nil && declarer.Sub.Attribute == token.PROC_SYMBOL
	name := declarer.Next
	if name == nil {
		return token.VARIABLE_DECLARATION
	}
	sep := name.Next
	switch {
	case sep != nil && sep.Attribute == token.ALT_EQUALS_SYMBOL:
		if isProc {
			return token.PROCEDURE_DECLARATION
		}
		return token.IDENTITY_DECLARATION
	case sep != nil && sep.Attribute == token.ASSIGN_SYMBOL:
		if isProc {
			return token.PROCEDURE_VARIABLE_DECLARATION
		}
		return token.VARIABLE_DECLARATION
	default:
		if isProc {
			return token.PROCEDURE_VARIABLE_DECLARATION
		}
		return token.VARIABLE_DECLARATION
	}
}

// declSpanEnd walks one comma-chained run of "name [sep initializer]"
// entries starting at cur (the first defining name) and returns the last
// node consumed — mirrors extract.skipToChainBoundary/defineChain but
// over tree nodes that are, by this point, already fully reduced.
func declSpanEnd(cur *node.Node) *node.Node {
	var last *node.Node
	for cur != nil && isDefiningName(cur.Attribute) {
		last = cur
		cur = cur.Next
		for cur != nil && !chainTerminators[cur.Attribute] {
			last = cur
			cur = cur.Next
		}
		if cur != nil && cur.Attribute == token.COMMA_SYMBOL {
			last = cur
			cur = cur.Next
			continue
		}
		break
	}
	return last
}

func isDefiningName(attr token.Type) bool {
	switch attr {
	case token.DEFINING_IDENTIFIER, token.DEFINING_INDICANT, token.DEFINING_OPERATOR:
		return true
	}
	return false
}

// chainTerminators marks the tokens that end a defining-name's
// initializer (or a declarer's name-chain entry): a COMMA_SYMBOL starts
// the next entry, a SEMI_SYMBOL or EXIT_SYMBOL ends the declaration
// itself, and a LABEL marks the start of the next labeled unit.
var chainTerminators = map[token.Type]bool{
	token.COMMA_SYMBOL: true, token.SEMI_SYMBOL: true, token.EXIT_SYMBOL: true,
	token.LABEL: true,
}

var declarationAttrs = map[token.Type]bool{
	token.MODE_DECLARATION: true, token.PRIORITY_DECLARATION: true, token.OPERATOR_DECLARATION: true,
	token.IDENTITY_DECLARATION: true, token.VARIABLE_DECLARATION: true,
	token.PROCEDURE_DECLARATION: true, token.PROCEDURE_VARIABLE_DECLARATION: true,
}

// groupDeclarationList folds a maximal run of declaration nodes
// separated by SEMI_SYMBOL into one DECLARATION_LIST — even a lone
// declaration gets wrapped, matching spec.md §8 scenario 1's
// INITIALISER_SERIES(DECLARATION_LIST(IDENTITY_DECLARATION)).
func groupDeclarationList(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if !declarationAttrs[cur.Attribute] {
			cur = cur.Next
			continue
		}
		last := cur
		for last.Next != nil && last.Next.Attribute == token.SEMI_SYMBOL &&
			last.Next.Next != nil && declarationAttrs[last.Next.Next.Attribute] {
			sep := last.Next
			decl := sep.Next
			node.Remove(sep)
			last = decl
		}
		wasHead := cur == head
		after := last.Next
		parent := a.Reduce(token.DECLARATION_LIST, cur, last)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}
