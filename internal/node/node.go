// Package node implements the single mutable tree/token structure the
// rest of the front end operates on (spec.md §3). A Node is a lexical
// token before any phase touches it and a non-terminal tree node once the
// bottom-up reducer has rewritten a run of siblings into it; the two
// never need different types because Reduce just relabels Attribute and
// takes over the run's child list.
package node

import (
	"strings"

	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// Node is both lexical token and tree node (spec.md §3 "Token / Node").
type Node struct {
	Attribute token.Type
	Symbol    string // interned text; empty for synthesized non-terminals
	Pos       token.Position
	Priority  int // operator priority 1..9; 0 if not an operator occurrence
	Mode      any // left nil; populated by a downstream type checker

	Prev, Next *Node // sibling links
	Sub        *Node // first child; nil for terminals

	Nest        *Node          // innermost enclosing framed range, for diagnostics
	SymbolTable *symtab.Table // the symbol table of the enclosing range
	Level       int            // lexical procedure-nesting depth; set by component I
}

// IsTerminal reports whether n is a leaf (no children).
func (n *Node) IsTerminal() bool { return n.Sub == nil }

// Arena is an append-only allocator for Nodes: everything it creates lives
// until the whole compile ends (spec.md §3 "Lifecycle"). It never frees
// individual nodes; Go's garbage collector reclaims the backing slice once
// the Arena itself is dropped, but giving phases a single allocation point
// keeps node construction uniform and ready for swapping in a real bump
// allocator if the tree ever needs that (see DESIGN.md).
type Arena struct {
	nodes []*Node
}

// NewArena creates an empty Arena.
func NewArena() *Arena { return &Arena{} }

// New allocates a terminal Node with the given attribute, symbol and
// position.
func (a *Arena) New(attr token.Type, symbol string, pos token.Position) *Node {
	n := &Node{Attribute: attr, Symbol: symbol, Pos: pos}
	a.nodes = append(a.nodes, n)
	return n
}

// Count returns how many Nodes this Arena has allocated, for diagnostics
// and tests.
func (a *Arena) Count() int { return len(a.nodes) }

// InsertNode builds and links a brand-new terminal node right after at,
// named for the teacher-adjacent spec.md vocabulary ("insert_node"). It is
// used by error recovery and by rules that must synthesize a missing
// separator.
func (a *Arena) InsertNode(at *Node, attr token.Type, symbol string, pos token.Position) *Node {
	n := a.New(attr, symbol, pos)
	InsertAfter(at, n)
	return n
}

// PadNode synthesizes an empty non-terminal (no Sub, no Symbol) at a given
// position, used when a grammar slot is legitimately absent — e.g. a
// missing BY_PART in a loop clause is represented by absence per spec.md
// §4.E, but some reduction rules still need a placeholder to splice
// against; PadNode gives them one without it ever entering the sibling
// chain on its own (the caller decides whether to link it in).
func (a *Arena) PadNode(attr token.Type, pos token.Position) *Node {
	return a.New(attr, "", pos)
}

// InsertAfter splices n into the sibling list immediately after at,
// maintaining Prev/Next symmetry (spec.md §3 invariant 2).
func InsertAfter(at, n *Node) {
	n.Next = at.Next
	n.Prev = at
	if at.Next != nil {
		at.Next.Prev = n
	}
	at.Next = n
}

// InsertBefore splices n into the sibling list immediately before at.
func InsertBefore(at, n *Node) {
	n.Prev = at.Prev
	n.Next = at
	if at.Prev != nil {
		at.Prev.Next = n
	}
	at.Prev = n
}

// Remove unlinks n from its sibling list and returns what used to be its
// neighbors, so callers can keep walking.
func Remove(n *Node) (prev, next *Node) {
	prev, next = n.Prev, n.Next
	if prev != nil {
		prev.Next = next
	}
	if next != nil {
		next.Prev = prev
	}
	n.Prev, n.Next = nil, nil
	return prev, next
}

// Reduce rewrites the contiguous run [head..tail] into a single new parent
// of the given attribute: the run becomes the parent's Sub (its internal
// Prev/Next links are left untouched, per spec.md §3), and the parent
// takes over the run's old position in its own enclosing sibling list.
// Reduce is the one primitive every bottom-up rewrite rule bottoms out in;
// a run of n siblings becomes one, so the enclosing list shrinks by n-1
// (a one-node run is wrapped in place and leaves the count unchanged).
func (a *Arena) Reduce(attr token.Type, head, tail *Node) *Node {
	parent := a.New(attr, "", head.Pos)
	outerPrev, outerNext := head.Prev, tail.Next

	head.Prev = nil
	tail.Next = nil

	parent.Sub = head
	parent.Prev = outerPrev
	parent.Next = outerNext
	if outerPrev != nil {
		outerPrev.Next = parent
	}
	if outerNext != nil {
		outerNext.Prev = parent
	}
	return parent
}

// Siblings walks Next from head and returns every node it passes,
// including head itself.
func Siblings(head *Node) []*Node {
	var out []*Node
	for n := head; n != nil; n = n.Next {
		out = append(out, n)
	}
	return out
}

// Count returns how many siblings follow (and include) head.
func Count(head *Node) int {
	n := 0
	for cur := head; cur != nil; cur = cur.Next {
		n++
	}
	return n
}

// Last returns the final sibling reachable from head by following Next.
func Last(head *Node) *Node {
	cur := head
	for cur != nil && cur.Next != nil {
		cur = cur.Next
	}
	return cur
}

// Concatenate renders the leaf Symbols under n (or, if n is itself a
// terminal, just n's own Symbol) in left-to-right order separated by a
// single space — the round-trip property of spec.md §8: re-scanning this
// string should reproduce the same token sequence modulo whitespace and
// comments.
func Concatenate(n *Node) string {
	var sb strings.Builder
	concatenate(n, &sb)
	return strings.TrimSpace(sb.String())
}

func concatenate(n *Node, sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.IsTerminal() {
		if n.Symbol != "" {
			sb.WriteString(n.Symbol)
			sb.WriteByte(' ')
		}
		return
	}
	for c := n.Sub; c != nil; c = c.Next {
		concatenate(c, sb)
	}
}

// Leaves returns every terminal node under n in left-to-right order,
// walking Sub first and Next second.
func Leaves(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsTerminal() {
			out = append(out, n)
			return
		}
		for c := n.Sub; c != nil; c = c.Next {
			walk(c)
		}
	}
	walk(n)
	return out
}
