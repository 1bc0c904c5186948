package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// reduceTertiariesAndUnits wraps a fully-reduced formula-level operand
// into TERTIARY, then wraps every unit-level construct (TERTIARY,
// ASSIGNATION, IDENTITY_RELATION, JUMP, SKIP_NT, NIHIL, ASSERTION, the
// *_FUNCTION forms) into UNIT_NT, the common shape the serial/enquiry/
// collateral clause passes key off of (spec.md §4.G bullet 8).
func reduceTertiariesAndUnits(a *node.Arena, sink *diag.Sink, head *node.Node) *node.Node {
	head = wrapTertiaries(a, head)
	head = wrapUnits(a, head)
	return head
}

func isTertiaryCandidate(attr token.Type) bool {
	switch attr {
	case token.SECONDARY, token.FORMULA, token.MONADIC_FORMULA, token.AND_FUNCTION, token.OR_FUNCTION:
		return true
	}
	return false
}

func wrapTertiaries(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if !isTertiaryCandidate(cur.Attribute) {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		parent := a.Reduce(token.TERTIARY, cur, cur)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}

func isUnitCandidate(attr token.Type) bool {
	switch attr {
	case token.TERTIARY, token.ASSIGNATION, token.IDENTITY_RELATION, token.JUMP,
		token.SKIP_NT, token.NIHIL, token.ASSERTION, token.CAST, token.ROUTINE_TEXT,
		token.TRANSPOSE_FUNCTION, token.DIAGONAL_FUNCTION, token.COLUMN_FUNCTION, token.ROW_FUNCTION:
		return true
	}
	return false
}

func wrapUnits(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if !isUnitCandidate(cur.Attribute) {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		parent := a.Reduce(token.UNIT_NT, cur, cur)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}
