// Package parenthesis implements component D: a strict stack-based check
// that every opener in the token stream has its expected closer, run
// once over the whole program before the top-down framer starts
// (spec.md §4.D).
package parenthesis

import (
	"fmt"
	"strings"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/pkg/token"
)

// pairs maps an opener attribute to its expected closer and a display
// name used in diagnostics.
var pairs = map[token.Type]struct {
	closer token.Type
	name   string
}{
	token.BEGIN_SYMBOL:             {token.END_SYMBOL, "BEGIN/END"},
	token.OPEN_SYMBOL:              {token.CLOSE_SYMBOL, "(/)"},
	token.SUB_SYMBOL:               {token.BUS_SYMBOL, "[/]"},
	token.ACCO_SYMBOL:              {token.OCCA_SYMBOL, "{/}"},
	token.IF_SYMBOL:                {token.FI_SYMBOL, "IF/FI"},
	token.CASE_SYMBOL:              {token.ESAC_SYMBOL, "CASE/ESAC"},
	token.DO_SYMBOL:                {token.OD_SYMBOL, "DO/OD"},
	token.FORMAT_DELIMITER_SYMBOL:  {token.FORMAT_DELIMITER_SYMBOL, "$/$"},
}

// closers indexes the same table by closer attribute, for fast matching.
var closers = func() map[token.Type]token.Type {
	m := make(map[token.Type]token.Type)
	for opener, p := range pairs {
		m[p.closer] = opener
	}
	return m
}()

type frame struct {
	opener *node.Node
}

// Check walks head's sibling chain (and, recursively, every Sub chain
// already present — the framer has not run yet, so ordinarily this is
// just the flat token list, but Check tolerates pre-framed input too)
// verifying every opener is matched by its closer in order. It reports
// the first imbalance it finds, located at the offending token, and
// lists the aggregate unbalanced counts for every bracket kind (spec.md
// §4.D); ok is false if any imbalance was found, in which case the phase
// driver should abort rather than proceed to framing.
func Check(head *node.Node, sink *diag.Sink) (ok bool) {
	var stack []frame
	unmatched := map[string]int{}
	ok = true

	var walk func(*node.Node)
	walk = func(n *node.Node) {
		for cur := n; cur != nil && ok; cur = cur.Next {
			if cur.Sub != nil {
				walk(cur.Sub)
				continue
			}
			if _, isOpener := pairs[cur.Attribute]; isOpener {
				// $ is its own opener and closer: a second $ while one is
				// already open on the stack top closes it instead of
				// nesting.
				if cur.Attribute == token.FORMAT_DELIMITER_SYMBOL &&
					len(stack) > 0 && stack[len(stack)-1].opener.Attribute == token.FORMAT_DELIMITER_SYMBOL {
					stack = stack[:len(stack)-1]
					continue
				}
				stack = append(stack, frame{opener: cur})
				continue
			}
			if opener, isCloser := closers[cur.Attribute]; isCloser {
				if len(stack) == 0 || stack[len(stack)-1].opener.Attribute != opener {
					reportMismatch(sink, cur, unmatched)
					ok = false
					continue
				}
				stack = stack[:len(stack)-1]
				continue
			}
		}
	}
	walk(head)

	if ok && len(stack) > 0 {
		for _, f := range stack {
			name := pairs[f.opener.Attribute].name
			unmatched[name]++
		}
		first := stack[0].opener
		sink.Emit(diag.SyntaxError, first.Pos, "%s", formatImbalance(first, unmatched))
		ok = false
	}
	return ok
}

func reportMismatch(sink *diag.Sink, offender *node.Node, unmatched map[string]int) {
	name := "?"
	for opener, p := range pairs {
		if p.closer == offender.Attribute {
			name = pairs[opener].name
			break
		}
	}
	unmatched[name]++
	sink.Emit(diag.SyntaxError, offender.Pos, "%s", formatImbalance(offender, unmatched))
}

func formatImbalance(at *node.Node, unmatched map[string]int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unbalanced bracket at %q near %s", at.Symbol, at.Pos)
	if len(unmatched) > 0 {
		sb.WriteString(" (unmatched: ")
		first := true
		for name, n := range unmatched {
			if !first {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s×%d", name, n)
			first = false
		}
		sb.WriteString(")")
	}
	return sb.String()
}
