package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reduceFormulae wraps monadic operator applications, then climbs
// priority to fold dyadic formulae, then folds assignations and
// identity relations, which bind loosest of all (spec.md §4.G bullets
// 7-8, §8 scenario 6 "priorities from the prelude table").
func reduceFormulae(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	head = wrapSecondaries(a, head)
	head = reduceMonadicFormulae(a, sink, tbl, head)
	head = climbPriorities(a, sink, tbl, head)
	head = reduceAssignations(a, head)
	head = reduceIdentityRelations(a, head)
	return head
}

// isOperand reports whether attr can stand as a formula operand.
func isOperand(attr token.Type) bool {
	switch attr {
	case token.SECONDARY, token.TERTIARY, token.FORMULA, token.MONADIC_FORMULA,
		token.AND_FUNCTION, token.OR_FUNCTION, token.CAST, token.JUMP, token.ASSERTION,
		token.TRANSPOSE_FUNCTION, token.DIAGONAL_FUNCTION, token.COLUMN_FUNCTION, token.ROW_FUNCTION:
		return true
	}
	return false
}

// wrapSecondaries promotes every remaining PRIMARY, SELECTION,
// SPECIFICATION or SLICE to SECONDARY, the level operands are expressed
// at before formula reduction (spec.md §4.G bullet 6). SPECIFICATION and
// SLICE still carry their own attribute at this point — a call or a
// slice's own foldSpecificationsAndSlices step replaces the PRIMARY it
// found with one of those two, so both need to be promoted here exactly
// like a bare PRIMARY would be, or a call used as a standalone unit
// (spec.md §8 scenario 1's "print(i)") could never climb to TERTIARY/
// UNIT_NT at all.
func wrapSecondaries(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		switch cur.Attribute {
		case token.PRIMARY, token.SELECTION, token.SPECIFICATION, token.SLICE:
		default:
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		parent := a.Reduce(token.SECONDARY, cur, cur)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}

// reduceMonadicFormulae folds a prefix OPERATOR immediately followed by
// an operand into MONADIC_FORMULA: an operator counts as monadic when it
// sits at the start of the range, or right after a separator or another
// operator, rather than between two operands.
func reduceMonadicFormulae(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.OPERATOR {
			cur = cur.Next
			continue
		}
		if cur.Prev != nil && isOperand(cur.Prev.Attribute) {
			cur = cur.Next
			continue
		}
		if cur.Next == nil || !isOperand(cur.Next.Attribute) {
			cur = cur.Next
			continue
		}
		if len(tbl.LookupOperator(cur.Symbol)) == 0 {
			sink.Emit(diag.Error, cur.Pos, "undeclared operator %q", cur.Symbol)
		}
		operand := cur.Next
		wasHead := cur == head
		parent := a.Reduce(token.MONADIC_FORMULA, cur, operand)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}

// climbPriorities repeatedly finds the remaining top-level dyadic
// operator occurrence with the strongest (highest-numbered) priority —
// ties broken leftmost — and folds its left and right operand into one
// FORMULA (or AND_FUNCTION/OR_FUNCTION for the short-circuit operators),
// until no dyadic operator remains (spec.md §4.G bullet 7, §8 scenario
// 6: "relational 4, additive 6, multiplicative 7").
func climbPriorities(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	for {
		best, bestPrio := (*node.Node)(nil), -1
		for cur := head; cur != nil; cur = cur.Next {
			if cur.Attribute != token.OPERATOR {
				continue
			}
			if cur.Prev == nil || !isOperand(cur.Prev.Attribute) {
				continue
			}
			if cur.Next == nil || !isOperand(cur.Next.Attribute) {
				continue
			}
			prio := operatorPriority(tbl, sink, cur)
			if prio > bestPrio {
				best, bestPrio = cur, prio
			}
		}
		if best == nil {
			return head
		}
		left, right := best.Prev, best.Next
		attr := token.FORMULA
		switch best.Symbol {
		case "AND":
			attr = token.AND_FUNCTION
		case "OR", "XOR":
			attr = token.OR_FUNCTION
		}
		wasHead := left == head
		parent := a.Reduce(attr, left, right)
		if wasHead {
			head = parent
		}
	}
}

func operatorPriority(tbl *symtab.Table, sink *diag.Sink, op *node.Node) int {
	ops := tbl.LookupOperator(op.Symbol)
	if len(ops) == 0 {
		sink.Emit(diag.Error, op.Pos, "no priority declared for operator %q", op.Symbol)
		return 0
	}
	return ops[len(ops)-1].Priority
}

// reduceAssignations folds "operand := unit" right-associatively:
// scanning right-to-left means a chain "a := b := c" becomes
// ASSIGNATION(a, ASSIGNATION(b, c)) in a single rightmost-first pass
// (spec.md §4.G bullet 10, "right-to-left constructs").
func reduceAssignations(a *node.Arena, head *node.Node) *node.Node {
	tail := node.Last(head)
	for cur := tail; cur != nil; {
		prev := cur.Prev
		if cur.Attribute != token.ASSIGN_SYMBOL || prev == nil || cur.Next == nil {
			cur = prev
			continue
		}
		left := prev
		right := cur.Next
		wasHead := left == head
		parent := a.Reduce(token.ASSIGNATION, left, right)
		if wasHead {
			head = parent
		}
		cur = parent.Prev
	}
	return head
}

// reduceIdentityRelations folds "operand IS/ISNT operand" into
// IDENTITY_RELATION, the loosest-binding dyadic construct (spec.md
// §4.G bullet 7).
func reduceIdentityRelations(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.IS_SYMBOL && cur.Attribute != token.ISNT_SYMBOL {
			cur = cur.Next
			continue
		}
		if cur.Prev == nil || cur.Next == nil {
			cur = cur.Next
			continue
		}
		left, right := cur.Prev, cur.Next
		wasHead := left == head
		parent := a.Reduce(token.IDENTITY_RELATION, left, right)
		if wasHead {
			head = parent
		}
		cur = parent.Next
	}
	return head
}
