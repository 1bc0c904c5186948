package symtab

import "testing"

func TestLookupWalksOutward(t *testing.T) {
	outer := NewTable(nil)
	outer.Define(&Entry{Name: "x", Kind: IdentifierTag})
	inner := NewTable(outer)

	if _, ok := inner.Lookup("x"); !ok {
		t.Fatalf("inner table should see outer's x by walking outward")
	}
	if _, ok := inner.Lookup("y"); ok {
		t.Fatalf("y was never defined anywhere")
	}
}

func TestDefineReportsRedefinition(t *testing.T) {
	tab := NewTable(nil)
	tab.Define(&Entry{Name: "VEC", Kind: IndicantTag})
	prev, redefined := tab.Define(&Entry{Name: "VEC", Kind: IndicantTag})
	if !redefined || prev == nil {
		t.Fatalf("redefining VEC should report the previous entry")
	}
}

func TestOperatorsOverload(t *testing.T) {
	tab := NewTable(nil)
	tab.Define(&Entry{Name: "+", Kind: OperatorTag, Priority: 6})
	tab.Define(&Entry{Name: "+", Kind: OperatorTag, Priority: 6})
	if got := len(tab.LookupOperator("+")); got != 2 {
		t.Fatalf("expected both overloads visible, got %d", got)
	}
}

func TestLookupLabel(t *testing.T) {
	tab := NewTable(nil)
	tab.Define(&Entry{Name: "loop", Kind: IdentifierTag, IsLabel: true})
	tab.Define(&Entry{Name: "notlabel", Kind: IdentifierTag})

	if _, ok := tab.LookupLabel("loop"); !ok {
		t.Fatalf("loop should resolve as a label")
	}
	if _, ok := tab.LookupLabel("notlabel"); ok {
		t.Fatalf("notlabel is not a label")
	}
}

func TestPreludeSeedsStandardPriorities(t *testing.T) {
	p := NewPrelude()
	cases := map[string]int{
		"=": PriorityRelational,
		"+": PriorityAdditive,
		"*": PriorityMultiplicative,
	}
	for name, want := range cases {
		ops := p.LookupOperator(name)
		if len(ops) == 0 {
			t.Fatalf("prelude should define %q", name)
		}
		if ops[0].Priority != want {
			t.Errorf("%q priority = %d, want %d", name, ops[0].Priority, want)
		}
	}
	if _, ok := p.LookupKind("INT", IndicantTag); !ok {
		t.Fatalf("prelude should define INT as an indicant")
	}
}

func TestNestedTableShadowing(t *testing.T) {
	outer := NewTable(nil)
	outer.Define(&Entry{Name: "x", Kind: IdentifierTag, Priority: 1})
	inner := NewTable(outer)
	inner.Define(&Entry{Name: "x", Kind: IdentifierTag, Priority: 2})

	e, _ := inner.Lookup("x")
	if e.Priority != 2 {
		t.Fatalf("inner definition should shadow outer")
	}
	e, _ = outer.Lookup("x")
	if e.Priority != 1 {
		t.Fatalf("outer definition should be unaffected by inner shadowing")
	}
}
