package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reduceEnclosedClause specializes every remaining raw bracket sibling —
// one that foldSpecificationsAndSlices did not already consume as an
// argument or bound list — into its final enclosed-clause shape:
// CLOSED_CLAUSE for a parenthesized or BEGIN/END serial clause,
// COLLATERAL_CLAUSE for a brace list; CONDITIONAL_CLAUSE/
// INTEGER_CASE_CLAUSE/LOOP_CLAUSE/FORMAT_TEXT are already assembled by
// splitEnclosedRange/reduceLoopParts/reduceFormatText by this point.
// Every one of them is then folded into an ENCLOSED_CLAUSE, the
// production a PRIMARY actually wraps (spec.md §8 scenario 1: "PARTICULAR_PROGRAM
// -> ENCLOSED_CLAUSE -> CLOSED_CLAUSE -> SERIAL_CLAUSE"). It runs inside
// reducePrimaries, after foldSpecificationsAndSlices, so a call's
// argument list or a slice's bound list never reaches here still
// carrying its bracket attribute.
func reduceEnclosedClause(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		switch cur.Attribute {
		case token.BEGIN_SYMBOL, token.OPEN_SYMBOL:
			cur.Attribute = token.CLOSED_CLAUSE
		case token.ACCO_SYMBOL:
			cur.Attribute = token.COLLATERAL_CLAUSE
		case token.CONDITIONAL_CLAUSE, token.INTEGER_CASE_CLAUSE, token.LOOP_CLAUSE, token.FORMAT_TEXT:
			// already specialized by splitEnclosedRange/reduceLoopParts/reduceFormatText
		default:
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		after := cur.Next
		parent := a.Reduce(token.ENCLOSED_CLAUSE, cur, cur)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// WrapParticularProgram folds the fully-reduced top-level range into the
// PARTICULAR_PROGRAM root the parser façade returns (spec.md §8 scenario
// 1: "Tree root PARTICULAR_PROGRAM -> ENCLOSED_CLAUSE -> ..."). A lone
// top-level enclosed clause picks up the ordinary PRIMARY/SECONDARY/
// TERTIARY/UNIT_NT expression wrapping like any other operand; since
// particular-program is itself an enclosed-clause production and not a
// unit, that wrapping is peeled back off first. A bare unbracketed
// program (the "single SKIP" boundary case) has no ENCLOSED_CLAUSE to
// find and is left exactly as reduced.
func WrapParticularProgram(a *node.Arena, head *node.Node) *node.Node {
	if head == nil {
		return nil
	}
	if head.Next == nil {
		head = unwrapToEnclosedClause(head)
	}
	tail := node.Last(head)
	return a.Reduce(token.PARTICULAR_PROGRAM, head, tail)
}

// unwrapToEnclosedClause descends a single-child PRIMARY/SECONDARY/
// TERTIARY/UNIT_NT wrapper chain looking for the ENCLOSED_CLAUSE it
// wraps, returning that instead; if the chain bottoms out in anything
// else (e.g. a bare SKIP_NT), the original node is returned unchanged.
func unwrapToEnclosedClause(n *node.Node) *node.Node {
	cur := n
	for {
		if cur.Attribute == token.ENCLOSED_CLAUSE {
			return cur
		}
		switch cur.Attribute {
		case token.UNIT_NT, token.TERTIARY, token.SECONDARY, token.PRIMARY:
			if cur.Sub == nil || cur.Sub.Next != nil {
				return n
			}
			cur = cur.Sub
		default:
			return n
		}
	}
}

// splitEnclosedRange is called by reduceNestedRanges, in place of the
// generic per-range Reduce, whenever the framed node is an IF_SYMBOL or
// CASE_SYMBOL bracket: their interior mixes several independent
// sub-ranges (the condition before THEN, each branch body) that a flat
// reduction pass would otherwise merge into one serial clause. Each
// segment is reduced on its own, then the keyword parts are assembled
// into CONDITIONAL_CLAUSE or INTEGER_CASE_CLAUSE (spec.md §4.G bullet
// 14, boundary behavior "IF x THEN y ELIF z THEN w FI").
func splitEnclosedRange(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, cur *node.Node, bracketEquiv bool) {
	switch cur.Attribute {
	case token.IF_SYMBOL:
		splitConditional(a, sink, tbl, cur, bracketEquiv)
	case token.CASE_SYMBOL:
		splitCase(a, sink, tbl, cur, bracketEquiv)
	default:
		inner := symtab.NewTable(tbl)
		cur.SymbolTable = inner
		cur.Sub = Reduce(a, sink, inner, cur.Sub, bracketEquiv)
		relinkChildren(cur)
	}
}

func relinkChildren(cur *node.Node) {
	if cur.Sub != nil {
		cur.Sub.Prev = nil
	}
	for n := cur.Sub; n != nil; n = n.Next {
		n.Nest = cur
	}
}

// reduceSegment reduces one bracketed-clause segment (a condition or a
// branch body) in its own nested table, dropping leading/trailing
// separator keywords the caller has already split off.
func reduceSegment(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node, bracketEquiv bool) *node.Node {
	if head == nil {
		return nil
	}
	inner := symtab.NewTable(tbl)
	return Reduce(a, sink, inner, head, bracketEquiv)
}

// splitAt walks from head looking for the first node whose attribute is
// in boundary; it detaches and returns [head..found) as a standalone
// chain plus the found boundary node itself (still linked onward).
func splitAt(head *node.Node, boundary map[token.Type]bool) (segment, marker *node.Node) {
	for cur := head; cur != nil; cur = cur.Next {
		if boundary[cur.Attribute] {
			wasHead := cur == head
			if prev := cur.Prev; prev != nil {
				prev.Next = nil
			}
			cur.Prev = nil
			if wasHead {
				return nil, cur
			}
			return head, cur
		}
	}
	return head, nil
}

var thenElifElseBoundary = map[token.Type]bool{
	token.THEN_SYMBOL: true, token.ELIF_SYMBOL: true, token.ELSE_SYMBOL: true,
}

func splitConditional(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, cur *node.Node, bracketEquiv bool) {
	ifLeaf := cur.Sub
	rest := ifLeaf.Next
	ifLeaf.Next = nil

	condSeg, marker := splitAt(rest, thenElifElseBoundary)
	condSeg = reduceSegment(a, sink, tbl, condSeg, bracketEquiv)
	ifPart := reducePart(a, token.IF_PART, ifLeaf, condSeg)

	var parts []*node.Node
	parts = append(parts, ifPart)

	for marker != nil && marker.Attribute == token.THEN_SYMBOL {
		thenLeaf := marker
		body := thenLeaf.Next
		thenLeaf.Next = nil
		var bodySeg, nextMarker *node.Node
		bodySeg, nextMarker = splitAt(body, thenElifElseBoundary)
		bodySeg = reduceSegment(a, sink, tbl, bodySeg, bracketEquiv)
		thenPart := reducePart(a, token.THEN_PART, thenLeaf, bodySeg)
		parts = append(parts, thenPart)

		for nextMarker != nil && nextMarker.Attribute == token.ELIF_SYMBOL {
			elifLeaf := nextMarker
			elifRest := elifLeaf.Next
			elifLeaf.Next = nil
			elifCondSeg, elifMarker := splitAt(elifRest, thenElifElseBoundary)
			elifCondSeg = reduceSegment(a, sink, tbl, elifCondSeg, bracketEquiv)
			elifIfPart := reducePart(a, token.IF_PART, elifLeaf, elifCondSeg)
			nextMarker = elifMarker
			if nextMarker != nil && nextMarker.Attribute == token.THEN_SYMBOL {
				elifThenLeaf := nextMarker
				elifBody := elifThenLeaf.Next
				elifThenLeaf.Next = nil
				var elifBodySeg *node.Node
				elifBodySeg, nextMarker = splitAt(elifBody, thenElifElseBoundary)
				elifBodySeg = reduceSegment(a, sink, tbl, elifBodySeg, bracketEquiv)
				elifThenPart := reducePart(a, token.THEN_PART, elifThenLeaf, elifBodySeg)
				elifIfPart.Next = elifThenPart
				elifThenPart.Prev = elifIfPart
				elifPart := a.Reduce(token.ELIF_PART, elifIfPart, elifThenPart)
				parts = append(parts, elifPart)
				continue
			}
			elifPart := a.Reduce(token.ELIF_PART, elifIfPart, elifIfPart)
			parts = append(parts, elifPart)
		}

		if nextMarker != nil && nextMarker.Attribute == token.ELSE_SYMBOL {
			elseLeaf := nextMarker
			elseBody := elseLeaf.Next
			elseLeaf.Next = nil
			elseSeg, _ := splitAt(elseBody, thenElifElseBoundary)
			elseSeg = reduceSegment(a, sink, tbl, elseSeg, bracketEquiv)
			elsePart := reducePart(a, token.ELSE_PART, elseLeaf, elseSeg)
			parts = append(parts, elsePart)
		}
		break
	}

	assembleParts(cur, token.CONDITIONAL_CLAUSE, parts)
}

var inOuseOutBoundary = map[token.Type]bool{
	token.IN_SYMBOL: true, token.OUSE_SYMBOL: true, token.OUT_SYMBOL: true,
}

func splitCase(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, cur *node.Node, bracketEquiv bool) {
	caseLeaf := cur.Sub
	rest := caseLeaf.Next
	caseLeaf.Next = nil

	selSeg, marker := splitAt(rest, inOuseOutBoundary)
	selSeg = reduceSegment(a, sink, tbl, selSeg, bracketEquiv)
	casePart := reducePart(a, token.CASE_PART, caseLeaf, selSeg)

	parts := []*node.Node{casePart}
	for marker != nil {
		switch marker.Attribute {
		case token.IN_SYMBOL:
			inLeaf := marker
			body := inLeaf.Next
			inLeaf.Next = nil
			var bodySeg *node.Node
			bodySeg, marker = splitAt(body, inOuseOutBoundary)
			bodySeg = reduceSegment(a, sink, tbl, bodySeg, bracketEquiv)
			parts = append(parts, reducePart(a, token.CASE_IN_PART, inLeaf, bodySeg))
		case token.OUSE_SYMBOL:
			ouseLeaf := marker
			body := ouseLeaf.Next
			ouseLeaf.Next = nil
			var bodySeg *node.Node
			bodySeg, marker = splitAt(body, inOuseOutBoundary)
			bodySeg = reduceSegment(a, sink, tbl, bodySeg, bracketEquiv)
			parts = append(parts, reducePart(a, token.OUSE_PART, ouseLeaf, bodySeg))
		case token.OUT_SYMBOL:
			outLeaf := marker
			body := outLeaf.Next
			outLeaf.Next = nil
			var bodySeg *node.Node
			bodySeg, marker = splitAt(body, inOuseOutBoundary)
			bodySeg = reduceSegment(a, sink, tbl, bodySeg, bracketEquiv)
			parts = append(parts, reducePart(a, token.OUT_PART, outLeaf, bodySeg))
		default:
			marker = nil
		}
	}

	assembleParts(cur, token.INTEGER_CASE_CLAUSE, parts)
}

// reducePart relinks a detached leading keyword leaf (Next already nil)
// to the front of seg (a standalone, already-reduced chain, possibly
// nil for an empty part) and folds the pair into one node tagged attr.
func reducePart(a *node.Arena, attr token.Type, leaf, seg *node.Node) *node.Node {
	tail := leaf
	if seg != nil {
		leaf.Next = seg
		seg.Prev = leaf
		tail = node.Last(seg)
	}
	return a.Reduce(attr, leaf, tail)
}

// assembleParts splices parts into a single sibling run and replaces
// cur's Sub with it, retagging cur to attr.
func assembleParts(cur *node.Node, attr token.Type, parts []*node.Node) {
	for i := 1; i < len(parts); i++ {
		parts[i-1].Next = parts[i]
		parts[i].Prev = parts[i-1]
	}
	cur.Attribute = attr
	cur.Sub = parts[0]
	cur.Sub.Prev = nil
	for n := cur.Sub; n != nil; n = n.Next {
		n.Nest = cur
	}
}
