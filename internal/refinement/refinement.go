// Package refinement implements component C of the front end: it looks
// for a trailing `identifier : … .` sequence of named refinements after
// the main program's terminating point, and splices each refinement's
// token run into the single application site that names it (spec.md
// §4.C).
package refinement

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// Refinement is one `name: unit .` definition.
type Refinement struct {
	Name    string
	Head    *node.Node // first node of the definition body
	Tail    *node.Node // last node of the definition body
	Pos     token.Position
	Applied bool
}

// opensDepth/closesDepth classify bracket-ish openers and closers for the
// coarse nesting count this pass needs — it runs before the parenthesis
// checker (component D), so it does not insist brackets actually match,
// only that it can tell "at top level" from "nested".
func opensDepth(attr token.Type) bool {
	switch attr {
	case token.OPEN_SYMBOL, token.SUB_SYMBOL, token.ACCO_SYMBOL,
		token.BEGIN_SYMBOL, token.IF_SYMBOL, token.CASE_SYMBOL, token.DO_SYMBOL,
		token.FORMAT_DELIMITER_SYMBOL:
		return true
	}
	return false
}

func closesDepth(attr token.Type) bool {
	switch attr {
	case token.CLOSE_SYMBOL, token.BUS_SYMBOL, token.OCCA_SYMBOL,
		token.END_SYMBOL, token.FI_SYMBOL, token.ESAC_SYMBOL, token.OD_SYMBOL,
		token.FORMAT_DELIMITER_SYMBOL:
		return true
	}
	return false
}

// Extract splits head's sibling chain into the main program (returned as
// the new head) and the refinement table, substituting each refinement
// into its first matching application site. Unused refinements produce a
// Warning; a name defined more than once produces an Error for the
// second and later definitions.
func Extract(head *node.Node, sink *diag.Sink) *node.Node {
	boundary := findBoundary(head)
	if boundary == nil {
		return head
	}

	defs, definedTwice := parseDefinitions(boundary.Next)
	for _, name := range definedTwice {
		sink.Emit(diag.Error, defs[name].Pos, "refinement %q defined more than once", name)
	}

	// Detach the refinement tail: the main program ends at boundary
	// (the separating '.' is kept as the program's own terminator).
	boundary.Next = nil

	newHead := substitute(head, defs)

	for _, r := range defs {
		if !r.Applied {
			sink.Emit(diag.Warning, r.Pos, "refinement %q is never applied", r.Name)
		}
	}
	return newHead
}

// findBoundary returns the depth-0 POINT_SYMBOL node that is immediately
// followed by `identifier : …`, or nil if the chain has no refinement
// tail.
func findBoundary(head *node.Node) *node.Node {
	depth := 0
	for n := head; n != nil; n = n.Next {
		if opensDepth(n.Attribute) {
			depth++
			continue
		}
		if closesDepth(n.Attribute) {
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && n.Attribute == token.POINT_SYMBOL {
			if startsRefinementDef(n.Next) {
				return n
			}
		}
	}
	return nil
}

func startsRefinementDef(n *node.Node) bool {
	return n != nil && n.Attribute == token.IDENTIFIER &&
		n.Next != nil && n.Next.Attribute == token.COLON_SYMBOL
}

// parseDefinitions walks a chain of `identifier : … .` forms until it is
// exhausted, returning the table keyed by name and the names that were
// redefined (in encounter order of their second definition).
func parseDefinitions(n *node.Node) (map[string]*Refinement, []string) {
	defs := make(map[string]*Refinement)
	var redefined []string

	for n != nil {
		if n.Attribute != token.IDENTIFIER || n.Next == nil || n.Next.Attribute != token.COLON_SYMBOL {
			break
		}
		name := n.Symbol
		pos := n.Pos
		colon := n.Next
		bodyHead := colon.Next

		depth := 0
		var bodyTail, terminator *node.Node
		for cur := bodyHead; cur != nil; cur = cur.Next {
			if opensDepth(cur.Attribute) {
				depth++
			} else if closesDepth(cur.Attribute) {
				if depth > 0 {
					depth--
				}
			} else if depth == 0 && cur.Attribute == token.POINT_SYMBOL {
				terminator = cur
				break
			}
			bodyTail = cur
		}

		if _, dup := defs[name]; dup {
			redefined = append(redefined, name)
		} else if bodyHead != nil && bodyTail != nil {
			defs[name] = &Refinement{Name: name, Head: bodyHead, Tail: bodyTail, Pos: pos}
		}

		if terminator == nil {
			break
		}
		n = terminator.Next
	}
	return defs, redefined
}

// substitute walks the main program's chain once, replacing the first
// IDENTIFIER node matching an unapplied refinement's name with that
// refinement's own (detached) body run.
func substitute(head *node.Node, defs map[string]*Refinement) *node.Node {
	newHead := head
	var n *node.Node = head
	for n != nil {
		next := n.Next
		if n.Attribute == token.IDENTIFIER {
			if r, ok := defs[n.Symbol]; ok && !r.Applied {
				r.Applied = true
				next = spliceIn(n, r)
				if n == newHead {
					newHead = r.Head
				}
			}
		}
		n = next
	}
	return newHead
}

// spliceIn replaces site with r's body run in place and returns the node
// to resume scanning from (the run's own next sibling, so a refinement's
// own tokens are not themselves re-scanned for application).
func spliceIn(site *node.Node, r *Refinement) *node.Node {
	prev, after := node.Remove(site)
	r.Head.Prev = prev
	if prev != nil {
		prev.Next = r.Head
	}
	r.Tail.Next = after
	if after != nil {
		after.Prev = r.Tail
	}
	return after
}
