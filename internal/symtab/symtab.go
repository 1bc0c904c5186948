// Package symtab implements the per-range symbol table described in
// spec.md §3 ("Symbol table") and the four tag kinds it holds: indicants
// (modes), priorities, operators and identifiers (including labels).
// Tables form a stack that parallels range nesting; lookup walks outward.
package symtab

import "github.com/a68/a68front/pkg/token"

// Kind is one of the four tag kinds a Table entry can hold.
type Kind int

const (
	IndicantTag Kind = iota
	PrioTag
	OperatorTag
	IdentifierTag
)

func (k Kind) String() string {
	switch k {
	case IndicantTag:
		return "INDICANT"
	case PrioTag:
		return "PRIO"
	case OperatorTag:
		return "OPERATOR"
	case IdentifierTag:
		return "IDENTIFIER"
	default:
		return "UNKNOWN"
	}
}

// Entry is one tag defined in a range.
type Entry struct {
	Name     string
	Kind     Kind
	Pos      token.Position
	Priority int  // meaningful for PrioTag and OperatorTag
	IsLabel  bool // true when Kind == IdentifierTag and the tag names a label
}

// Table is one range's (closed-clause level's) symbol table. Operators may
// be overloaded, so OperatorTag entries are kept as a slice; every other
// kind is unique per name within a Table.
type Table struct {
	Parent    *Table
	entries   map[string]*Entry
	operators map[string][]*Entry
}

// NewTable creates a Table nested inside parent (nil for the outermost
// range).
func NewTable(parent *Table) *Table {
	return &Table{Parent: parent, entries: map[string]*Entry{}, operators: map[string][]*Entry{}}
}

// Define enters e in t, returning the previously-defined entry of the same
// name (if any) so the caller can diagnose a redefinition. Operators are
// never reported as redefinitions here — overloading is legal — except
// when the exact same defining position would collide, which callers
// guard against separately.
func (t *Table) Define(e *Entry) (previous *Entry, redefined bool) {
	if e.Kind == OperatorTag {
		t.operators[e.Name] = append(t.operators[e.Name], e)
		return nil, false
	}
	prev, ok := t.entries[e.Name]
	t.entries[e.Name] = e
	return prev, ok
}

// Lookup walks outward from t looking for a non-operator tag of the given
// name, implementing the "table-before-use" invariant of spec.md §8.
func (t *Table) Lookup(name string) (*Entry, bool) {
	for cur := t; cur != nil; cur = cur.Parent {
		if e, ok := cur.entries[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupKind is Lookup filtered to a specific Kind.
func (t *Table) LookupKind(name string, kind Kind) (*Entry, bool) {
	e, ok := t.Lookup(name)
	if !ok || e.Kind != kind {
		return nil, false
	}
	return e, true
}

// LookupOperator walks outward collecting every OPERATOR entry defined
// for name, innermost range first.
func (t *Table) LookupOperator(name string) []*Entry {
	var out []*Entry
	for cur := t; cur != nil; cur = cur.Parent {
		out = append(out, cur.operators[name]...)
	}
	return out
}

// LookupLabel reports whether name resolves (in this range or an
// enclosing one) to a label identifier — the check the post-tree fixup
// uses to retag identifier-primaries as JUMPs (spec.md §4.I).
func (t *Table) LookupLabel(name string) (*Entry, bool) {
	e, ok := t.LookupKind(name, IdentifierTag)
	if !ok || !e.IsLabel {
		return nil, false
	}
	return e, true
}

// Standard operator priorities, RR-style, matching the worked example in
// spec.md §8 scenario 6 ("relational 4, additive 6, multiplicative 7").
const (
	PriorityOr           = 2
	PriorityAnd          = 3
	PriorityRelational   = 4
	PriorityElemMembership = 5
	PriorityAdditive     = 6
	PriorityMultiplicative = 7
	PriorityUp           = 8
	MaxPriority          = 9
)

// NewPrelude builds the outermost Table, pre-populated with the standard
// operators a type-checker-free front end still needs priorities for so
// that user formulae using them reduce without a spurious "no priority"
// diagnostic (spec.md §4.G.8, §8 scenario 6).
func NewPrelude() *Table {
	t := NewTable(nil)
	def := func(name string, prio int) {
		t.Define(&Entry{Name: name, Kind: OperatorTag, Priority: prio})
	}
	def("OR", PriorityOr)
	def("XOR", PriorityOr)
	def("AND", PriorityAnd)
	def("=", PriorityRelational)
	def("/=", PriorityRelational)
	def("<", PriorityRelational)
	def(">", PriorityRelational)
	def("<=", PriorityRelational)
	def(">=", PriorityRelational)
	def("IN", PriorityElemMembership)
	def("+", PriorityAdditive)
	def("-", PriorityAdditive)
	def("*", PriorityMultiplicative)
	def("/", PriorityMultiplicative)
	def("OVER", PriorityMultiplicative)
	def("MOD", PriorityMultiplicative)
	def("DIV", PriorityMultiplicative)
	def("**", PriorityUp)

	for _, name := range []string{"INT", "REAL", "BOOL", "CHAR", "BITS", "BYTES", "STRING", "COMPLEX", "VOID", "FORMAT", "FILE"} {
		t.Define(&Entry{Name: name, Kind: IndicantTag})
	}
	return t
}
