package reducer

import (
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// markDefiningOccurrences retags the name in every MODE/PRIO/OP/declarer
// declaration to its DEFINING_* attribute, right after declarers are
// built and before any primary/formula pass runs, so that the defining
// name is never mistaken for an ordinary applied occurrence by those
// later passes. reduceDeclarationLists (step 12) later pairs each marker
// back up with its declarer and initializer, which by then have been
// fully reduced (spec.md §4.G: declaration-list assembly happens after
// units, but the identity of a *defining* name has to be fixed before
// that, hence this split).
func markDefiningOccurrences(head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		switch {
		case cur.Attribute == token.MODE_SYMBOL:
			cur = markChain(cur.Next, token.IDENTIFIER, token.DEFINING_INDICANT)
		case cur.Attribute == token.PRIO_SYMBOL:
			cur = markOperatorChain(cur.Next)
		case cur.Attribute == token.OP_SYMBOL:
			cur = markOperatorChain(cur.Next)
		case cur.Attribute == token.DECLARER:
			cur = markChain(cur.Next, token.IDENTIFIER, token.DEFINING_IDENTIFIER)
		default:
			cur = cur.Next
			continue
		}
		if cur == nil {
			break
		}
		cur = cur.Next
	}
	return head
}

func markChain(cur *node.Node, from, to token.Type) *node.Node {
	for cur != nil && cur.Attribute == from {
		cur.Attribute = to
		cur = skipDeclInitialiser(cur.Next)
		if cur != nil && cur.Attribute == token.COMMA_SYMBOL {
			cur = cur.Next
			continue
		}
		break
	}
	return cur
}

func markOperatorChain(cur *node.Node) *node.Node {
	for cur != nil && (cur.Attribute == token.OPERATOR || cur.Attribute == token.IDENTIFIER) {
		cur.Attribute = token.DEFINING_OPERATOR
		cur = skipDeclInitialiser(cur.Next)
		if cur != nil && cur.Attribute == token.COMMA_SYMBOL {
			cur = cur.Next
			continue
		}
		break
	}
	return cur
}

// markLabels retags a bare "IDENTIFIER COLON_SYMBOL" pair's identifier to
// LABEL ahead of primary wrapping, mirroring extract.go's own label scan
// (which only populates the symbol table, not the tree) so that
// reduceSerialClause can later pair the marker with its unit into
// LABELED_UNIT without the identifier having already been swallowed into
// an ordinary PRIMARY.
func markLabels(head *node.Node) *node.Node {
	for cur := head; cur != nil; cur = cur.Next {
		if cur.Attribute == token.IDENTIFIER && cur.Next != nil && cur.Next.Attribute == token.COLON_SYMBOL {
			cur.Attribute = token.LABEL
		}
	}
	return head
}

// skipDeclInitialiser advances from just after a defining name to the
// next chain boundary (comma, semicolon, EXIT or range end), stepping
// over the '='/':=' and its initializer if present. Bracketed material
// is already opaque single nodes at this point, so no depth tracking is
// needed.
func skipDeclInitialiser(cur *node.Node) *node.Node {
	for cur != nil && !chainTerminators[cur.Attribute] {
		cur = cur.Next
	}
	return cur
}
