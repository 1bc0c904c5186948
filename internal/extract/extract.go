// Package extract implements component F: the definition extractor.
// Invoked by the bottom-up reducer at the start of every range (spec.md
// §2 "F is invoked by G at the start of each range"), it walks the
// range's flat, already-framed sibling list looking for MODE, PRIO, OP,
// identity/variable/procedure declarations and labels, and populates the
// range's symbol table before G reduces a single leaf — which is what
// lets a declaration forward-reference a name defined later in the same
// range (spec.md §1 "definition extraction that permits forward
// reference").
//
// Brackets, loop clauses and enclosed clauses have already been framed
// into single opaque sub-trees by component E by the time F runs, so a
// declarer is recognized purely from depth-0 siblings: zero or more
// REF/FLEX/LONG/SHORT modifiers, a mode name (a builtin keyword, a
// known indicant, PROC, or an already-framed bracket/pack node), then
// the defining identifier.
package extract

import (
	"strconv"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// declarerStarters are the depth-0 attributes that can begin a declarer.
var declarerStarters = map[token.Type]bool{
	token.REF_SYMBOL: true, token.FLEX_SYMBOL: true,
	token.LONG_SYMBOL: true, token.SHORT_SYMBOL: true,
	token.PROC_SYMBOL: true, token.STRUCT_SYMBOL: true, token.UNION_SYMBOL: true,
	token.INT_SYMBOL: true, token.REAL_SYMBOL: true, token.BOOL_SYMBOL: true,
	token.CHAR_SYMBOL: true, token.BITS_SYMBOL: true, token.BYTES_SYMBOL: true,
	token.STRING_SYMBOL: true, token.FILE_SYMBOL: true, token.FORMAT_SYMBOL: true,
	token.VOID_SYMBOL: true,
	// an already-framed [bounds] or (struct/union pack) heading an array
	// or structured-mode declarer
	token.SUB_SYMBOL: true, token.OPEN_SYMBOL: true,
}

// chainTerminators end a comma-chained declaration list or a single
// declaration's initializer.
var chainTerminators = map[token.Type]bool{
	token.SEMI_SYMBOL: true, token.EXIT_SYMBOL: true, token.COMMA_SYMBOL: true,
}

// Extract scans head's depth-0 sibling list, defines every MODE, PRIO,
// OP, identity/variable/procedure declaration and label it finds in tbl,
// and retags each declaration's defining '=' (scanned as a plain '='
// OPERATOR run) to ALT_EQUALS_SYMBOL. It never descends into Sub — a
// nested range gets its own Extract call when G reaches it.
func Extract(tbl *symtab.Table, head *node.Node, sink *diag.Sink) {
	extractModesAndPriorities(tbl, head, sink)
	extractOperatorsIdentifiersAndLabels(tbl, head, sink)
	elaborateBoldTags(tbl, head, sink)
}

// elaborateBoldTags reclassifies every remaining BOLD_TAG (a bold word
// the scanner couldn't match against the fixed keyword table) as
// INDICANT or OPERATOR by looking it up in tbl, now that every MODE/OP
// declaration in the range has been registered (spec.md §4.F bullet 6).
// A bold tag matching neither is an undeclared-name diagnostic.
func elaborateBoldTags(tbl *symtab.Table, head *node.Node, sink *diag.Sink) {
	for cur := head; cur != nil; cur = cur.Next {
		if cur.Attribute != token.BOLD_TAG {
			continue
		}
		if _, ok := tbl.LookupKind(cur.Symbol, symtab.IndicantTag); ok {
			cur.Attribute = token.INDICANT
			continue
		}
		if ops := tbl.LookupOperator(cur.Symbol); len(ops) > 0 {
			cur.Attribute = token.OPERATOR
			cur.Priority = ops[len(ops)-1].Priority
			continue
		}
		sink.Emit(diag.Error, cur.Pos, "undeclared tag %q is neither a known mode nor a known operator", cur.Symbol)
	}
}

// extractModesAndPriorities runs first so later declarer recognition
// (and OP/PRIO priority lookups) can see every indicant and priority
// defined anywhere in the range, including textually after their use.
func extractModesAndPriorities(tbl *symtab.Table, head *node.Node, sink *diag.Sink) {
	cur := head
	for cur != nil {
		switch cur.Attribute {
		case token.MODE_SYMBOL:
			cur = defineChain(cur.Next, isIdentifierName, func(name *node.Node) {
				define(tbl, sink, &symtab.Entry{Name: name.Symbol, Kind: symtab.IndicantTag, Pos: name.Pos})
			})
		case token.PRIO_SYMBOL:
			cur = definePriorityChain(tbl, sink, cur.Next)
		default:
			cur = cur.Next
			continue
		}
		if cur == nil {
			break
		}
		cur = cur.Next
	}
}

func extractOperatorsIdentifiersAndLabels(tbl *symtab.Table, head *node.Node, sink *diag.Sink) {
	cur := head
	for cur != nil {
		switch {
		case cur.Attribute == token.MODE_SYMBOL || cur.Attribute == token.PRIO_SYMBOL:
			// already consumed by extractModesAndPriorities; skip back over
			// this declaration's tokens so its parts aren't mistaken for a
			// label or a bare declarer.
			cur = skipChain(cur.Next)

		case cur.Attribute == token.OP_SYMBOL:
			cur = defineChain(cur.Next, isOperatorName, func(name *node.Node) {
				prio := 0
				if p, ok := tbl.LookupKind(name.Symbol, symtab.PrioTag); ok {
					prio = p.Priority
				} else {
					sink.Emit(diag.Warning, name.Pos, "operator %q declared with no PRIO, defaulting to priority 0", name.Symbol)
				}
				define(tbl, sink, &symtab.Entry{Name: name.Symbol, Kind: symtab.OperatorTag, Priority: prio, Pos: name.Pos})
			})

		case declarerStarters[cur.Attribute] || (cur.Attribute == token.IDENTIFIER && isKnownIndicant(tbl, cur)):
			next := skipDeclarer(tbl, cur)
			cur = defineChain(next, isIdentifierName, func(name *node.Node) {
				define(tbl, sink, &symtab.Entry{Name: name.Symbol, Kind: symtab.IdentifierTag, Pos: name.Pos})
			})

		case cur.Attribute == token.IDENTIFIER && cur.Next != nil && cur.Next.Attribute == token.COLON_SYMBOL:
			define(tbl, sink, &symtab.Entry{Name: cur.Symbol, Kind: symtab.IdentifierTag, IsLabel: true, Pos: cur.Pos})
			cur = cur.Next

		default:
			cur = cur.Next
			continue
		}
		if cur == nil {
			break
		}
		cur = cur.Next
	}
}

// isKnownIndicant reports whether cur is an IDENTIFIER already on record
// as a user-defined mode name — the forward-reference case ("MODE VEC
// = ...; VEC v" or the reverse order, both legal per spec.md §8 scenario
// 2).
func isKnownIndicant(tbl *symtab.Table, cur *node.Node) bool {
	_, ok := tbl.LookupKind(cur.Symbol, symtab.IndicantTag)
	return ok
}

// skipDeclarer advances past a declarer's own tokens (modifiers, mode
// name, and at most one already-framed bracket/pack node for bounds or
// a structure/union pack) and returns the node expected to be the
// defining identifier.
func skipDeclarer(tbl *symtab.Table, cur *node.Node) *node.Node {
	for cur != nil {
		switch {
		case declarerStarters[cur.Attribute]:
			cur = cur.Next
		case cur.Attribute == token.IDENTIFIER && isKnownIndicant(tbl, cur):
			cur = cur.Next
		default:
			return cur
		}
	}
	return cur
}

// isIdentifierName accepts only IDENTIFIER as a defining name — mode,
// variable and procedure names are never spelled as an operator glyph.
func isIdentifierName(n *node.Node) bool { return n.Attribute == token.IDENTIFIER }

// isOperatorName accepts either an OPERATOR glyph or a bold-word name
// (e.g. "MAX") as a defining operator occurrence.
func isOperatorName(n *node.Node) bool {
	return n.Attribute == token.OPERATOR || n.Attribute == token.IDENTIFIER
}

// defineChain walks a comma-separated list of "name [= unit | := unit]"
// defining occurrences sharing one declarer/keyword, calling onName for
// each defining name accepted by isName, and retagging its '=' to
// ALT_EQUALS_SYMBOL when present. It returns the node the outer scan
// should resume from (the chain's terminator, or nil at range end).
func defineChain(cur *node.Node, isName func(*node.Node) bool, onName func(*node.Node)) *node.Node {
	for cur != nil && isName(cur) {
		name := cur
		cur = cur.Next
		onName(name)

		if cur != nil && cur.Attribute == token.OPERATOR && cur.Symbol == "=" {
			cur.Attribute = token.ALT_EQUALS_SYMBOL
			cur = cur.Next
		}
		cur = skipToChainBoundary(cur)

		if cur != nil && cur.Attribute == token.COMMA_SYMBOL {
			cur = cur.Next
			continue
		}
		break
	}
	return cur
}

// definePriorityChain parses "OPERATOR = INT_DENOTATION" pairs after a
// PRIO keyword, registering a PrioTag entry used later by OP and formula
// reduction to resolve an operator's priority (spec.md §8 scenario 5).
func definePriorityChain(tbl *symtab.Table, sink *diag.Sink, cur *node.Node) *node.Node {
	for cur != nil {
		nameOK := cur.Attribute == token.OPERATOR || cur.Attribute == token.IDENTIFIER
		if !nameOK {
			break
		}
		name := cur
		cur = cur.Next
		if cur == nil || cur.Attribute != token.OPERATOR || cur.Symbol != "=" {
			sink.Emit(diag.Error, name.Pos, "PRIO %s must be followed by '=' and an integer priority", name.Symbol)
			break
		}
		cur.Attribute = token.ALT_EQUALS_SYMBOL
		cur = cur.Next
		if cur == nil || cur.Attribute != token.INT_DENOTATION {
			sink.Emit(diag.Error, name.Pos, "PRIO %s must be followed by an integer priority", name.Symbol)
			break
		}
		prio, err := strconv.Atoi(cur.Symbol)
		if err != nil || prio < 1 || prio > symtab.MaxPriority {
			sink.Emit(diag.Error, cur.Pos, "priority %q out of range 1..%d", cur.Symbol, symtab.MaxPriority)
		}
		define(tbl, sink, &symtab.Entry{Name: name.Symbol, Kind: symtab.PrioTag, Priority: prio, Pos: name.Pos})
		cur = cur.Next

		if cur != nil && cur.Attribute == token.COMMA_SYMBOL {
			cur = cur.Next
			continue
		}
		break
	}
	return cur
}

// skipChain steps over an entire MODE/PRIO declaration (every
// comma-separated part of it) already handled by the first pass,
// stopping only at the declaration's own terminator.
func skipChain(cur *node.Node) *node.Node {
	for cur != nil && cur.Attribute != token.SEMI_SYMBOL && cur.Attribute != token.EXIT_SYMBOL {
		cur = cur.Next
	}
	return cur
}

// skipToChainBoundary advances to the next COMMA_SYMBOL/SEMI_SYMBOL/
// EXIT_SYMBOL or range end, stepping over an initializer unit. Brackets
// are already single framed nodes at this point, so no nested-depth
// tracking is needed.
func skipToChainBoundary(cur *node.Node) *node.Node {
	for cur != nil && !chainTerminators[cur.Attribute] {
		cur = cur.Next
	}
	return cur
}

func define(tbl *symtab.Table, sink *diag.Sink, e *symtab.Entry) {
	if prev, redefined := tbl.Define(e); redefined {
		sink.Emit(diag.Error, e.Pos, "%s %q redefined in this range (previously defined at %s)", e.Kind, e.Name, prev.Pos)
	}
}
