package reducer

import (
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// reduceDeclarerPacks retags an already-framed OPEN_SYMBOL bracket
// immediately following STRUCT_SYMBOL/UNION_SYMBOL into STRUCTURE_PACK/
// UNION_PACK (absorbing the leading keyword), and one immediately
// following PROC_SYMBOL into PARAMETER_PACK, ahead of
// reduceEnclosedClause's generic bracket sweep — otherwise every one of
// these would be mistaken for an ordinary closed clause (spec.md
// glossary "Declarer": "PROC (INT) VOID"). Each pack's interior still
// reduces through the ordinary declaration pipeline, so a parameter
// reads as a one-off VARIABLE_DECLARATION rather than a dedicated
// SPECIFIER; see DESIGN.md.
func reduceDeclarerPacks(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		switch cur.Attribute {
		case token.STRUCT_SYMBOL, token.UNION_SYMBOL:
			next := cur.Next
			if next == nil || next.Attribute != token.OPEN_SYMBOL || next.Sub == nil {
				cur = cur.Next
				continue
			}
			attr := token.STRUCTURE_PACK
			if cur.Attribute == token.UNION_SYMBOL {
				attr = token.UNION_PACK
			}
			wasHead := cur == head
			after := next.Next
			parent := a.Reduce(attr, cur, next)
			if wasHead {
				head = parent
			}
			cur = after
		case token.PROC_SYMBOL:
			if next := cur.Next; next != nil && next.Attribute == token.OPEN_SYMBOL && next.Sub != nil {
				next.Attribute = token.PARAMETER_PACK
			}
			cur = cur.Next
		default:
			cur = cur.Next
		}
	}
	return head
}

// reduceDeclarerScaffolding folds runs of LONG/SHORT into LONGETY/SHORTETY
// (spec.md §4.G bullet 1) ahead of full declarer reduction, so a later
// pass only has to recognize "LONGETY? base" instead of a run of repeats.
func reduceDeclarerScaffolding(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	head = foldRepeatedRun(a, head, token.LONG_SYMBOL, token.LONGETY)
	head = foldRepeatedRun(a, head, token.SHORT_SYMBOL, token.SHORTETY)
	return head
}

// foldRepeatedRun collapses every maximal run of two or more repeat nodes
// into a single node of attr and leaves a single occurrence of repeat
// alone (a lone LONG stays LONG_SYMBOL;
// the declarer pass below treats a bare LONG_SYMBOL the same as LONGETY of
// length one).
func foldRepeatedRun(a *node.Arena, head *node.Node, repeat token.Type, attr token.Type) *node.Node {
	for cur := head; cur != nil; {
		if cur.Attribute != repeat {
			cur = cur.Next
			continue
		}
		tail := cur
		for tail.Next != nil && tail.Next.Attribute == repeat {
			tail = tail.Next
		}
		if tail == cur {
			cur = cur.Next
			continue
		}
		wasHead := cur == head
		after := tail.Next
		parent := a.Reduce(attr, cur, tail)
		if wasHead {
			head = parent
		}
		cur = after
	}
	return head
}

// reduceGenerators groups a bare LOC/HEAP/NEW qualifier keyword with the
// DECLARER immediately following it into a GENERATOR node (spec.md §4.G
// bullet 1 "generator scaffolding"). It runs after reduceDeclarers so the
// qualified declarer is already a single node. spec.md §4.F bullet 7 lists
// qualifier grouping under the definition extractor, but grouping
// siblings into a tree node is exactly what Reduce is for, so it is done
// here instead (see DESIGN.md).
func reduceGenerators(a *node.Arena, head *node.Node) *node.Node {
	for cur := head; cur != nil; cur = cur.Next {
		if !isQualifierKeyword(cur.Attribute) {
			continue
		}
		cur.Attribute = token.QUALIFIER
		if cur.Next == nil || cur.Next.Attribute != token.DECLARER {
			continue
		}
		tail := cur.Next
		wasHead := cur == head
		parent := a.Reduce(token.GENERATOR, cur, tail)
		if wasHead {
			head = parent
		}
		cur = parent
	}
	return head
}

func isQualifierKeyword(attr token.Type) bool {
	return attr == token.LOC_SYMBOL || attr == token.HEAP_SYMBOL || attr == token.NEW_SYMBOL
}

func isDeclarerModifier(attr token.Type) bool {
	switch attr {
	case token.LONGETY, token.SHORTETY, token.LONG_SYMBOL, token.SHORT_SYMBOL,
		token.REF_SYMBOL, token.FLEX_SYMBOL:
		return true
	}
	return false
}

func isDeclarerBase(attr token.Type) bool {
	switch attr {
	case token.INT_SYMBOL, token.REAL_SYMBOL, token.BOOL_SYMBOL, token.CHAR_SYMBOL,
		token.BITS_SYMBOL, token.BYTES_SYMBOL, token.STRING_SYMBOL, token.FILE_SYMBOL,
		token.FORMAT_SYMBOL, token.VOID_SYMBOL, token.PROC_SYMBOL,
		token.INDICANT, token.STRUCTURE_PACK, token.UNION_PACK,
		token.BOUNDS, token.FORMAL_BOUNDS, token.ACTUAL_BOUNDS, token.VIRTUAL_BOUNDS:
		return true
	}
	return attr == token.IDENTIFIER // an as-yet-unretagged forward-referenced indicant
}

// reduceDeclarers folds a maximal declarer run — modifiers, mode name, and
// (for PROC) an optional already-framed parameter pack — into a single
// DECLARER node (spec.md §4.G bullet 2). Already-framed struct/union
// packs and bound lists arrive as single opaque nodes (Sub != nil), so
// this pass never needs to look inside them.
func reduceDeclarers(a *node.Arena, sink *diag.Sink, tbl *symtab.Table, head *node.Node) *node.Node {
	for cur := head; cur != nil; {
		if !isDeclarerModifier(cur.Attribute) && !isDeclarerBase(cur.Attribute) {
			cur = cur.Next
			continue
		}
		start := cur
		last := cur
		for cur != nil && isDeclarerModifier(cur.Attribute) {
			last = cur
			cur = cur.Next
		}
		if cur == nil || !isDeclarerBase(cur.Attribute) {
			cur = start.Next
			continue
		}
		last = cur
		base := cur
		next := cur.Next

		if base.Attribute == token.PROC_SYMBOL && next != nil && next.Sub != nil && next.Attribute == token.PARAMETER_PACK {
			last = next
			next = next.Next
		}
		if base.Attribute == token.IDENTIFIER {
			if e, ok := tbl.LookupKind(base.Symbol, symtab.IndicantTag); ok {
				base.Attribute = token.INDICANT
				base.Pos = e.Pos
			} else {
				cur = start.Next
				continue
			}
		}

		wasHead := start == head
		parent := a.Reduce(token.DECLARER, start, last)
		if wasHead {
			head = parent
		}
		cur = next
	}
	return head
}
