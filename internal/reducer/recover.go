package reducer

import (
	"fmt"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// likelyParent maps a phrase's leading token attribute to the
// non-terminal component H's recoverer guesses the phrase was trying to
// become, so later phases still see a plausibly-shaped node instead of
// a run of raw, unreduced siblings (spec.md §4.G "Error recovery (H)":
// "synthesizes a plausible parent node by mapping the leading token
// attribute to a 'likely' non-terminal, e.g. IF_SYMBOL → IF_PART,
// OPEN_SYMBOL → CLOSED_CLAUSE"). A leading attribute with no entry here
// falls back to ERROR_NODE.
var likelyParent = map[token.Type]token.Type{
	token.IF_SYMBOL:    token.IF_PART,
	token.CASE_SYMBOL:  token.CASE_PART,
	token.OPEN_SYMBOL:  token.CLOSED_CLAUSE,
	token.BEGIN_SYMBOL: token.CLOSED_CLAUSE,
	token.ACCO_SYMBOL:  token.COLLATERAL_CLAUSE,
	token.DO_SYMBOL:    token.LOOP_CLAUSE,
	token.FOR_SYMBOL:   token.LOOP_CLAUSE,
	token.WHILE_SYMBOL: token.LOOP_CLAUSE,
}

// isSerialConstituent reports whether attr is one of the shapes a serial
// clause's sibling list is allowed to hold by the time recovery runs: an
// already-reduced unit or declaration grouping, a label-pairing leaf, or
// a separator. Anything else is a phrase that never reduced, which
// recoverUnreducedPhrases repairs rather than letting reduceSerialClause
// silently fold raw tokens into SERIAL_CLAUSE alongside genuine units.
func isSerialConstituent(attr token.Type) bool {
	switch attr {
	case token.UNIT_NT, token.LABELED_UNIT, token.INITIALISER_SERIES, token.DECLARATION_LIST,
		token.LABEL, token.COLON_SYMBOL,
		token.SEMI_SYMBOL, token.COMMA_SYMBOL, token.EXIT_SYMBOL:
		return true
	}
	return attr.IsNonTerminal()
}

// recoverUnreducedPhrases is component H: a maximal run of siblings that
// never reduced into a recognized serial-clause constituent is spliced
// under one synthesized parent, after emitting the phrase-to-text
// diagnostic spec.md §4.G requires, reaching that clause's RECOVER
// state while still handing every later phase a tree instead of a flat
// run of leftover tokens (spec.md §4.G bullet "Terminal states: DONE
// ... or RECOVER").
func recoverUnreducedPhrases(a *node.Arena, sink *diag.Sink, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if isSerialConstituent(cur.Attribute) {
			cur = cur.Next
			continue
		}
		runEnd := cur
		for runEnd.Next != nil && !isSerialConstituent(runEnd.Next.Attribute) {
			runEnd = runEnd.Next
		}
		after := runEnd.Next
		wasHead := cur == head

		emitRecoveryDiagnostic(sink, cur, runEnd)
		parentAttr, ok := likelyParent[cur.Attribute]
		if !ok {
			parentAttr = token.ERROR_NODE
		}
		parent := a.Reduce(parentAttr, cur, runEnd)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// emitRecoveryDiagnostic renders the phrase-to-text summary spec.md
// §4.G calls for ("construct beginning with … followed by …, starting
// in line L, etcetera"), anchored at the sibling most likely to be the
// real error site: the heuristic walks the run looking for the first
// token with a non-trivial attribute (anything but a bare separator),
// since a stray comma or semicolon is rarely itself the mistake.
func emitRecoveryDiagnostic(sink *diag.Sink, runStart, runEnd *node.Node) {
	anchor := runStart
	for n := runStart; n != nil; n = n.Next {
		if isAnchorCandidate(n.Attribute) {
			anchor = n
			break
		}
		if n == runEnd {
			break
		}
	}
	lead := phraseText(runStart)
	follow := "<nothing>"
	if runStart.Next != nil {
		follow = phraseText(runStart.Next)
	}
	sink.Emit(diag.Error, anchor.Pos, "construct beginning with %s followed by %s, starting in line %d, etcetera",
		lead, follow, runStart.Pos.Line)
}

func isAnchorCandidate(attr token.Type) bool {
	switch attr {
	case token.SEMI_SYMBOL, token.COMMA_SYMBOL, token.COLON_SYMBOL, token.EXIT_SYMBOL:
		return false
	}
	return true
}

// phraseText renders a short, human-readable label for a single sibling:
// its Symbol if it carries one, otherwise its attribute name.
func phraseText(n *node.Node) string {
	if n == nil {
		return "<nothing>"
	}
	if n.Symbol != "" {
		return fmt.Sprintf("%q", n.Symbol)
	}
	return n.Attribute.String()
}
