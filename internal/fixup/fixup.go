// Package fixup implements component I, the final pass over an
// already-reduced tree: it rewrites goto-less jumps, backfills nest and
// procedure-level annotations, and runs the victality (actual/formal/
// virtual bounds) check. It folds no sibling runs the way component G
// does — it retags nodes, records annotations, and collapses a goto-less
// jump's single-child wrapper chain into one JUMP node — so it is the one phase that walks the finished PARTICULAR_PROGRAM
// top-down rather than folding siblings bottom-up (spec.md §4.I).
package fixup

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// Run applies component I to root in place: rewriteGotolessJumps first
// (so a retagged JUMP is itself walked by the nest/level pass exactly
// like any other node), then the nest/level backfill, then the
// victality check. root's own SymbolTable is expected to already be set
// by the reducer's outermost Reduce call; tbl is passed as the fallback
// table for any node above the first framed range.
func Run(sink *diag.Sink, root *node.Node, tbl *symtab.Table) {
	rewriteGotolessJumps(root, tbl)
	annotateNestAndLevel(root, nil, 0)
	checkVictality(sink, root, victalFormal)
}

// rewriteGotolessJumps retags a PRIMARY/SECONDARY/TERTIARY/UNIT_NT chain
// that bottoms out in a bare applied identifier naming a declared label
// into a JUMP, the form Algol68 calls a "goto-less jump" (spec.md §4.I;
// reduceGotoJumps in the reducer package already handles the explicit
// "GOTO identifier" spelling — this is the other one, which can only be
// told apart from an ordinary identifier reference once every label in
// the enclosing range has been collected, i.e. after the whole tree is
// built). It walks the sibling list depth-first, switching the active
// table whenever it crosses a node that owns one of its own.
func rewriteGotolessJumps(n *node.Node, tbl *symtab.Table) {
	for cur := n; cur != nil; cur = cur.Next {
		local := tbl
		if cur.SymbolTable != nil {
			local = cur.SymbolTable
		}
		if local != nil {
			if id, ok := identifierWrapper(cur); ok {
				if _, isLabel := local.LookupLabel(id.Symbol); isLabel {
					cur.Attribute = token.JUMP
					cur.Sub = id
					continue
				}
			}
		}
		if cur.Sub != nil {
			rewriteGotolessJumps(cur.Sub, local)
		}
	}
}

// identifierWrapper reports whether cur is a single-child PRIMARY (or a
// SECONDARY/TERTIARY/UNIT_NT already wrapped around one) bottoming out
// in a lone IDENTIFIER, returning that identifier node. Anything with a
// sibling inside the chain (an operator, a selector, a call's argument
// list) is never a bare name and is left alone.
func identifierWrapper(cur *node.Node) (*node.Node, bool) {
	switch cur.Attribute {
	case token.UNIT_NT, token.TERTIARY, token.SECONDARY, token.PRIMARY:
	default:
		return nil, false
	}
	for {
		if cur.Sub == nil || cur.Sub.Next != nil {
			return nil, false
		}
		child := cur.Sub
		if child.Attribute == token.IDENTIFIER {
			return child, true
		}
		switch child.Attribute {
		case token.TERTIARY, token.SECONDARY, token.PRIMARY:
			cur = child
		default:
			return nil, false
		}
	}
}

// framedAttrs are the constructs spec.md §8 names as a "nest": every
// node directly inside one of these inherits it as its own Nest, until a
// deeper one of these is found.
var framedAttrs = map[token.Type]bool{
	token.PARTICULAR_PROGRAM: true, token.CLOSED_CLAUSE: true, token.COLLATERAL_CLAUSE: true,
	token.CONDITIONAL_CLAUSE: true, token.INTEGER_CASE_CLAUSE: true, token.LOOP_CLAUSE: true,
}

// annotateNestAndLevel backfills Nest on every node that does not
// already carry one (the reducer only sets it on a range's immediate
// children, not recursively through every later fold) and stamps Level,
// the lexical procedure-nesting depth spec.md §4.I calls for. A
// ROUTINE_TEXT raises the level for its own body; every other framed
// construct passes its enclosing level through unchanged. Running this
// twice over the same tree is a no-op the second time — every Nest is
// already set and every Level already matches — satisfying spec.md §8
// invariant 6.
func annotateNestAndLevel(n *node.Node, enclosing *node.Node, level int) {
	for cur := n; cur != nil; cur = cur.Next {
		if cur.Nest == nil {
			cur.Nest = enclosing
		}
		cur.Level = level
		if cur.Sub == nil {
			continue
		}
		childEnclosing, childLevel := enclosing, level
		if framedAttrs[cur.Attribute] {
			childEnclosing = cur
		} else if cur.Attribute == token.ROUTINE_TEXT {
			childEnclosing = cur
			childLevel = level + 1
		}
		annotateNestAndLevel(cur.Sub, childEnclosing, childLevel)
	}
}

// victalKind is one of the three bound classifications spec.md §8
// describes: "every declarer occurrence is classified as actual, formal
// or virtual based on its context".
type victalKind int

const (
	victalFormal victalKind = iota
	victalActual
	victalVirtual
)

func (k victalKind) String() string {
	switch k {
	case victalActual:
		return "actual"
	case victalVirtual:
		return "virtual"
	default:
		return "formal"
	}
}

// checkVictality walks the tree classifying each DECLARER node's
// expected bound kind from its syntactic context: a GENERATOR's
// declarer wants actual bounds (evaluated now, at elaboration); an
// identity, variable, procedure or parameter-pack declaration's
// declarer wants formal bounds; a REF-qualified declarer wants virtual
// bounds whatever its context, since indirection itself makes its bounds
// virtual. A
// mismatch is diagnosed, never fatal (spec.md §8: "mismatches diagnose
// but do not abort"). Full bound-list specialization (BOUNDS/
// FORMAL_BOUNDS/ACTUAL_BOUNDS/VIRTUAL_BOUNDS) is not built by the
// declarer reducer (see DESIGN.md), so declaredBoundsKind rarely has
// anything to compare against in practice; the classification walk
// itself, and the one comparison it is able to make, are both real.
func checkVictality(sink *diag.Sink, n *node.Node, ctx victalKind) {
	for cur := n; cur != nil; cur = cur.Next {
		next := ctx
		switch cur.Attribute {
		case token.GENERATOR:
			next = victalActual
		case token.IDENTITY_DECLARATION, token.VARIABLE_DECLARATION,
			token.PROCEDURE_DECLARATION, token.PROCEDURE_VARIABLE_DECLARATION,
			token.PARAMETER_PACK:
			next = victalFormal
		case token.DECLARER:
			want := next
			if hasRefModifier(cur) {
				want = victalVirtual
			}
			if got, ok := declaredBoundsKind(cur); ok && got != want {
				sink.Emit(diag.Error, cur.Pos, "declarer expects %s bounds, found %s", want, got)
			}
		}
		if cur.Sub != nil {
			checkVictality(sink, cur.Sub, next)
		}
	}
}

func hasRefModifier(declarer *node.Node) bool {
	for c := declarer.Sub; c != nil; c = c.Next {
		if c.Attribute == token.REF_SYMBOL {
			return true
		}
	}
	return false
}

func declaredBoundsKind(declarer *node.Node) (victalKind, bool) {
	for c := declarer.Sub; c != nil; c = c.Next {
		switch c.Attribute {
		case token.ACTUAL_BOUNDS:
			return victalActual, true
		case token.FORMAL_BOUNDS:
			return victalFormal, true
		case token.VIRTUAL_BOUNDS:
			return victalVirtual, true
		}
	}
	return victalFormal, false
}
