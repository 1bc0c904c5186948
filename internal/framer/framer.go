// Package framer implements component E: the top-down framer. It turns
// the flat, bracket-checked sibling list into one where every bracketed
// or keyword-delimited construct is a single sub-tree, and every loop
// clause is rebracketed into an explicit LOOP_CLAUSE with named parts,
// so the bottom-up reducer (component G) only ever has to deal with a
// basic-block's worth of siblings at a time (spec.md §4.E).
package framer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// enclosers pairs an opening keyword/bracket with its expected closer;
// the framed sub-tree is tagged with the opener's own attribute (spec.md
// §4.E: "each become a sub-tree keyed by the opener attribute").
var enclosers = map[token.Type]token.Type{
	token.BEGIN_SYMBOL: token.END_SYMBOL,
	token.OPEN_SYMBOL:  token.CLOSE_SYMBOL,
	token.SUB_SYMBOL:   token.BUS_SYMBOL,
	token.ACCO_SYMBOL:  token.OCCA_SYMBOL,
	token.IF_SYMBOL:    token.FI_SYMBOL,
	token.CASE_SYMBOL:  token.ESAC_SYMBOL,
}

var loopUnitTerminators = map[token.Type]bool{
	token.SEMI_SYMBOL:   true,
	token.COMMA_SYMBOL:  true,
	token.EXIT_SYMBOL:   true,
	token.FOR_SYMBOL:    true,
	token.FROM_SYMBOL:   true,
	token.BY_SYMBOL:     true,
	token.TO_SYMBOL:     true,
	token.DOWNTO_SYMBOL: true,
	token.WHILE_SYMBOL:  true,
	token.DO_SYMBOL:     true,
	token.OD_SYMBOL:     true,
}

// Frame runs the framer over one flat range starting at head, returning
// the new head of the (shorter) sibling list and false if a closer went
// missing, in which case the caller should abort the phase (spec.md
// §4.E "aborts the phase").
func Frame(a *node.Arena, sink *diag.Sink, head *node.Node) (*node.Node, bool) {
	newHead, _, ok := frameChain(a, sink, head)
	return newHead, ok
}

// frameChain frames every top-level construct in [head..], returning the
// new head, new tail, and whether framing succeeded.
func frameChain(a *node.Arena, sink *diag.Sink, head *node.Node) (newHead, newTail *node.Node, ok bool) {
	ok = true
	cur := head
	for cur != nil {
		switch {
		case cur.Attribute == token.FORMAT_DELIMITER_SYMBOL:
			closer := findFormatCloser(cur)
			if closer == nil {
				sink.Emit(diag.SyntaxError, cur.Pos, "%s at %s without matching $", "$", cur.Pos)
				ok = false
				cur = cur.Next
				continue
			}
			framed, succeeded := frameBracket(a, sink, cur, closer, token.FORMAT_DELIMITER_SYMBOL)
			if !succeeded {
				ok = false
			}
			if cur == head {
				head = framed
			}
			cur = framed.Next

		case isLoopOpener(cur.Attribute):
			framed, after, succeeded := frameLoop(a, sink, cur)
			if !succeeded {
				ok = false
				cur = after
				continue
			}
			if cur == head {
				head = framed
			}
			cur = after

		case enclosers[cur.Attribute] != 0:
			closeAttr := enclosers[cur.Attribute]
			closer := findMatchingCloser(cur, closeAttr)
			if closer == nil {
				sink.Emit(diag.SyntaxError, cur.Pos, "%s at %s without matching %s",
					cur.Attribute, cur.Pos, closeAttr)
				ok = false
				cur = cur.Next
				continue
			}
			framed, succeeded := frameBracket(a, sink, cur, closer, cur.Attribute)
			if !succeeded {
				ok = false
			}
			if cur == head {
				head = framed
			}
			cur = framed.Next

		default:
			cur = cur.Next
		}
	}
	return head, node.Last(head), ok
}

// isLoopOpener reports whether attr can begin a loop clause.
func isLoopOpener(attr token.Type) bool {
	switch attr {
	case token.FOR_SYMBOL, token.FROM_SYMBOL, token.BY_SYMBOL, token.TO_SYMBOL,
		token.DOWNTO_SYMBOL, token.WHILE_SYMBOL, token.DO_SYMBOL:
		return true
	}
	return false
}

// findMatchingCloser scans forward from open, tracking nested occurrences
// of the same opener/closer pair, and returns the balancing closer (nil
// if the chain runs out first). The parenthesis checker has already
// verified global balance, so a nil result here only happens when Frame
// is invoked standalone (e.g. in tests) without that earlier phase.
func findMatchingCloser(open *node.Node, closeAttr token.Type) *node.Node {
	return findMatchingCloserForAttr(open, open.Attribute, closeAttr)
}

// findMatchingCloserForAttr is findMatchingCloser with the opener
// attribute passed explicitly, for the one caller (the loop framer) that
// must search using a node's original attribute after already having
// rewritten it in place.
func findMatchingCloserForAttr(open *node.Node, openAttr, closeAttr token.Type) *node.Node {
	depth := 0
	for cur := open.Next; cur != nil; cur = cur.Next {
		if cur.Attribute == openAttr && openAttr != closeAttr {
			depth++
			continue
		}
		if cur.Attribute == closeAttr {
			if depth == 0 {
				return cur
			}
			depth--
		}
	}
	return nil
}

func findFormatCloser(open *node.Node) *node.Node {
	for cur := open.Next; cur != nil; cur = cur.Next {
		if cur.Attribute == token.FORMAT_DELIMITER_SYMBOL {
			return cur
		}
	}
	return nil
}

// frameBracket recursively frames the interior of [open..close] and then
// reduces the whole (possibly now-shorter) span into one node tagged
// attr.
func frameBracket(a *node.Arena, sink *diag.Sink, open, close *node.Node, attr token.Type) (*node.Node, bool) {
	ok := true
	if open.Next != close {
		interiorHead := open.Next
		interiorTail := close.Prev
		interiorTail.Next = nil // bound the recursive scan at the closer
		innerHead, innerTail, innerOK := frameChain(a, sink, interiorHead)
		if !innerOK {
			ok = false
		}
		open.Next = innerHead
		innerHead.Prev = open
		innerTail.Next = close
		close.Prev = innerTail
	}
	return a.Reduce(attr, open, close), ok
}

// frameLoop rebrackets a FOR/FROM/BY/TO/DOWNTO/WHILE/DO...OD run into a
// LOOP_CLAUSE with named parts — FOR_PART, FROM_PART, BY_PART, TO_PART,
// WHILE_PART and (since every loop's DO is rewritten to ALT_DO_SYMBOL)
// ALT_DO_PART (spec.md §4.E bullet 2, worked example in §8 scenario 3);
// missing parts are represented by their absence, not by a placeholder.
// It returns the framed LOOP_CLAUSE node and the sibling to resume
// scanning from.
func frameLoop(a *node.Arena, sink *diag.Sink, start *node.Node) (loopNode, after *node.Node, ok bool) {
	ok = true
	pos := start.Pos
	var parts []*node.Node

	cur := start
	if cur.Attribute == token.FOR_SYMBOL {
		forKeyword := cur
		forTail := forKeyword
		cur = cur.Next
		if cur != nil && cur.Attribute == token.IDENTIFIER {
			forTail = cur
			cur = cur.Next
		}
		parts = append(parts, a.Reduce(token.FOR_PART, forKeyword, forTail))
	}

	collect := func(partAttr token.Type, keyword token.Type) {
		if cur == nil || cur.Attribute != keyword {
			return
		}
		kwNode := cur
		cur = cur.Next
		unitTail := skipLoopUnit(cur)
		var partTail *node.Node
		if unitTail != nil {
			partTail = unitTail
			cur = unitTail.Next
		} else {
			partTail = kwNode
		}
		parts = append(parts, a.Reduce(partAttr, kwNode, partTail))
	}

	collect(token.FROM_PART, token.FROM_SYMBOL)
	collect(token.BY_PART, token.BY_SYMBOL)
	collect(token.TO_PART, token.TO_SYMBOL)
	if cur != nil && cur.Attribute == token.DOWNTO_SYMBOL {
		collect(token.TO_PART, token.DOWNTO_SYMBOL)
	}
	collect(token.WHILE_PART, token.WHILE_SYMBOL)

	if cur == nil || cur.Attribute != token.DO_SYMBOL {
		sink.Emit(diag.SyntaxError, pos, "loop clause at %s has no DO part", pos)
		return nil, start.Next, false
	}
	doKeyword := cur
	doClose := findMatchingCloserForAttr(doKeyword, token.DO_SYMBOL, token.OD_SYMBOL)
	if doClose == nil {
		sink.Emit(diag.SyntaxError, doKeyword.Pos, "DO at %s without matching OD", doKeyword.Pos)
		return nil, start.Next, false
	}
	doKeyword.Attribute = token.ALT_DO_SYMBOL // distinguishes the loop's DO from DO_SYMBOL outside loop context

	var untilNode *node.Node
	bodyEnd := doClose.Prev
	for n := doKeyword.Next; n != nil && n != doClose; n = n.Next {
		if n.Attribute == token.UNTIL_SYMBOL {
			untilHead := n
			untilTail := doClose.Prev
			bodyEnd = untilHead.Prev
			untilNode = a.Reduce(token.UNTIL_PART, untilHead, untilTail)
			break
		}
	}

	if doKeyword.Next != nil && doKeyword.Next != bodyEnd.Next {
		bodyHead := doKeyword.Next
		bodyEnd.Next = nil // bound the recursive scan at the loop body's end
		innerHead, innerTail, innerOK := frameChain(a, sink, bodyHead)
		if !innerOK {
			ok = false
		}
		doKeyword.Next = innerHead
		if innerHead != nil {
			innerHead.Prev = doKeyword
		}
		if untilNode != nil {
			innerTail.Next = untilNode
			untilNode.Prev = innerTail
		} else {
			innerTail.Next = doClose
			doClose.Prev = innerTail
		}
	}

	doPart := a.Reduce(token.ALT_DO_PART, doKeyword, doClose)
	parts = append(parts, doPart)

	// Splice the gathered parts into a single sibling run and reduce
	// them into the LOOP_CLAUSE.
	for i := 1; i < len(parts); i++ {
		parts[i-1].Next = parts[i]
		parts[i].Prev = parts[i-1]
	}
	loopHead, loopTail := parts[0], parts[len(parts)-1]
	outerPrev, outerNext := loopHead.Prev, loopTail.Next
	loopHead.Prev = nil
	loopTail.Next = nil
	loop := a.Reduce(token.LOOP_CLAUSE, loopHead, loopTail)
	loop.Prev, loop.Next = outerPrev, outerNext
	if outerPrev != nil {
		outerPrev.Next = loop
	}
	if outerNext != nil {
		outerNext.Prev = loop
	}
	return loop, outerNext, ok
}

// skipLoopUnit implements top_down_skip_loop_unit: it advances through a
// unit's tokens, recursing into any nested bracketed region so an
// embedded ';' or ',' cannot be mistaken for the unit's own terminator,
// and stops at the next unit terminator (spec.md §4.E bullet 4). It
// returns the last node consumed, or nil if the unit was empty.
func skipLoopUnit(cur *node.Node) *node.Node {
	var last *node.Node
	for cur != nil {
		if loopUnitTerminators[cur.Attribute] {
			return last
		}
		if closeAttr, isOpener := bracketCloser(cur.Attribute); isOpener {
			closer := findMatchingCloser(cur, closeAttr)
			if closer == nil {
				return last
			}
			last = closer
			cur = closer.Next
			continue
		}
		last = cur
		cur = cur.Next
	}
	return last
}

func bracketCloser(attr token.Type) (token.Type, bool) {
	switch attr {
	case token.OPEN_SYMBOL:
		return token.CLOSE_SYMBOL, true
	case token.SUB_SYMBOL:
		return token.BUS_SYMBOL, true
	case token.ACCO_SYMBOL:
		return token.OCCA_SYMBOL, true
	case token.BEGIN_SYMBOL:
		return token.END_SYMBOL, true
	case token.IF_SYMBOL:
		return token.FI_SYMBOL, true
	case token.CASE_SYMBOL:
		return token.ESAC_SYMBOL, true
	}
	return 0, false
}
