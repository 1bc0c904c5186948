package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reduceFormatText groups a $...$ format text's raw picture-item tokens
// into mould/pattern non-terminals and wraps the interior as a single
// PICTURE_LIST (spec.md §8 scenario 4: "$+d.2d$" yields one
// REAL_PATTERN(SIGN_MOULD("+"), INTEGRAL_MOULD("d"), FORMAT_POINT_FRAME,
// INTEGRAL_MOULD("2d"))"). Only the sign/integral/point shape needed to
// build a REAL_PATTERN is grounded here; a fuller picture grammar would
// add the same grouping for COMPLEX_PATTERN, BITS_PATTERN, BOOLEAN_PATTERN,
// CHOICE_PATTERN and GENERAL_PATTERN.
func reduceFormatText(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, cur *node.Node) {
	interior := stripFormatDelimiters(cur)
	if interior == nil {
		cur.Attribute = token.FORMAT_TEXT
		cur.Sub = nil
		return
	}
	interior = foldSignMoulds(a, interior)
	interior = foldIntegralMoulds(a, interior)
	interior = foldPointFrames(a, interior)
	interior = foldRealPatterns(a, interior)
	picHead := foldPictures(a, interior)
	pictureList := a.Reduce(token.PICTURE_LIST, picHead, node.Last(picHead))
	cur.Attribute = token.FORMAT_TEXT
	cur.Sub = pictureList
	pictureList.Prev = nil
	pictureList.Next = nil
	pictureList.Nest = cur
}

// stripFormatDelimiters drops the leading and trailing "$" leaves from a
// framed format node's Sub chain, returning the remaining interior (nil
// for an empty format text "$$").
func stripFormatDelimiters(cur *node.Node) *node.Node {
	first := cur.Sub
	if first == nil {
		return nil
	}
	last := node.Last(first)
	if first == last {
		return nil
	}
	interior := first.Next
	interior.Prev = nil
	if last.Prev != nil {
		last.Prev.Next = nil
	}
	return interior
}

func foldSignMoulds(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.FORMAT_ITEM_PLUS && cur.Attribute != token.FORMAT_ITEM_MINUS {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		after := cur.Next
		parent := a.Reduce(token.SIGN_MOULD, cur, cur)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

func isIntegralDigitItem(attr token.Type) bool {
	switch attr {
	case token.FORMAT_ITEM_D, token.FORMAT_ITEM_Z, token.FORMAT_ITEM_A:
		return true
	}
	return false
}

func foldIntegralMoulds(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		switch {
		case cur.Attribute == token.INT_DENOTATION && cur.Next != nil && isIntegralDigitItem(cur.Next.Attribute):
			digit := cur.Next
			wasHead := cur == head
			after := digit.Next
			parent := a.Reduce(token.INTEGRAL_MOULD, cur, digit)
			if wasHead {
				head = parent
			}
			cur = after
		case isIntegralDigitItem(cur.Attribute):
			wasHead := cur == head
			after := cur.Next
			parent := a.Reduce(token.INTEGRAL_MOULD, cur, cur)
			if wasHead {
				head = parent
			}
			cur = after
		default:
			cur = cur.Next
		}
	}
	return head
}

func foldPointFrames(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != token.FORMAT_ITEM_POINT {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		after := cur.Next
		parent := a.Reduce(token.FORMAT_POINT_FRAME, cur, cur)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// foldRealPatterns folds a "SIGN_MOULD? INTEGRAL_MOULD FORMAT_POINT_FRAME
// INTEGRAL_MOULD" run into REAL_PATTERN (spec.md §8 scenario 4); a bare
// integral-only picture is left ungrouped, a scope choice documented in
// DESIGN.md.
func foldRealPatterns(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		start := cur
		var mantissa *node.Node
		switch {
		case start.Attribute == token.SIGN_MOULD && start.Next != nil && start.Next.Attribute == token.INTEGRAL_MOULD:
			mantissa = start.Next
		case start.Attribute == token.INTEGRAL_MOULD:
			mantissa = start
		default:
			cur = cur.Next
			continue
		}
		if mantissa.Next == nil || mantissa.Next.Attribute != token.FORMAT_POINT_FRAME ||
			mantissa.Next.Next == nil || mantissa.Next.Next.Attribute != token.INTEGRAL_MOULD {
			cur = cur.Next
			continue
		}
		end := mantissa.Next.Next
		wasHead := start == head
		after := end.Next
		parent := a.Reduce(token.REAL_PATTERN, start, end)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// foldPictures splits the (comma-separated) picture-item run into
// individual PICTURE nodes, dropping the separating commas.
func foldPictures(a *node.Arena, head *node.Node) *node.Node {
	var pictures []*node.Node
	cur := head
	for cur != nil {
		segStart := cur
		segEnd := cur
		for segEnd.Next != nil && segEnd.Next.Attribute != token.COMMA_SYMBOL {
			segEnd = segEnd.Next
		}
		comma := segEnd.Next
		var nextSeg *node.Node
		if comma != nil {
			nextSeg = comma.Next
			segEnd.Next = nil
			if nextSeg != nil {
				nextSeg.Prev = nil
			}
		}
		pictures = append(pictures, a.Reduce(token.PICTURE, segStart, segEnd))
		cur = nextSeg
	}
	for i := 1; i < len(pictures); i++ {
		pictures[i-1].Next = pictures[i]
		pictures[i].Prev = pictures[i-1]
	}
	return pictures[0]
}
