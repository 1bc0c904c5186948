package extract

import (
	"testing"

	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

type spec struct {
	attr   token.Type
	symbol string
}

func chain(a *node.Arena, specs []spec) *node.Node {
	var head, prev *node.Node
	for _, sp := range specs {
		n := a.New(sp.attr, sp.symbol, token.Position{Line: 1})
		if head == nil {
			head = n
		} else {
			prev.Next = n
			n.Prev = prev
		}
		prev = n
	}
	return head
}

func TestExtractModeThenVariableDeclaration(t *testing.T) {
	a := node.NewArena()
	// MODE VEC = INT ; VEC v ;
	head := chain(a, []spec{
		{token.MODE_SYMBOL, "MODE"},
		{token.IDENTIFIER, "VEC"},
		{token.OPERATOR, "="},
		{token.INT_SYMBOL, "INT"},
		{token.SEMI_SYMBOL, ";"},
		{token.IDENTIFIER, "VEC"},
		{token.IDENTIFIER, "v"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	if _, ok := tbl.LookupKind("VEC", symtab.IndicantTag); !ok {
		t.Fatalf("expected VEC registered as an indicant")
	}
	if _, ok := tbl.LookupKind("v", symtab.IdentifierTag); !ok {
		t.Fatalf("expected v registered as an identifier")
	}
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}

	// the defining '=' after VEC must have been retagged
	if head.Next.Next.Attribute != token.ALT_EQUALS_SYMBOL {
		t.Fatalf("expected the defining '=' to be retagged to ALT_EQUALS_SYMBOL, got %v", head.Next.Next.Attribute)
	}
}

func TestExtractForwardReferencedMode(t *testing.T) {
	a := node.NewArena()
	// VEC v ; MODE VEC = INT ;
	head := chain(a, []spec{
		{token.IDENTIFIER, "VEC"},
		{token.IDENTIFIER, "v"},
		{token.SEMI_SYMBOL, ";"},
		{token.MODE_SYMBOL, "MODE"},
		{token.IDENTIFIER, "VEC"},
		{token.OPERATOR, "="},
		{token.INT_SYMBOL, "INT"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	if _, ok := tbl.LookupKind("v", symtab.IdentifierTag); !ok {
		t.Fatalf("expected v registered even though VEC is declared later in the range")
	}
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestExtractPrioThenOperator(t *testing.T) {
	a := node.NewArena()
	// PRIO PLUSAB = 7 ; OP PLUSAB = ... ;
	head := chain(a, []spec{
		{token.PRIO_SYMBOL, "PRIO"},
		{token.OPERATOR, "PLUSAB"},
		{token.OPERATOR, "="},
		{token.INT_DENOTATION, "7"},
		{token.SEMI_SYMBOL, ";"},
		{token.OP_SYMBOL, "OP"},
		{token.OPERATOR, "PLUSAB"},
		{token.OPERATOR, "="},
		{token.IDENTIFIER, "a"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	ops := tbl.LookupOperator("PLUSAB")
	if len(ops) != 1 {
		t.Fatalf("expected exactly one PLUSAB operator entry, got %d", len(ops))
	}
	if ops[0].Priority != 7 {
		t.Fatalf("expected priority 7 from the preceding PRIO declaration, got %d", ops[0].Priority)
	}
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestExtractOperatorWithoutPrioWarns(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.OP_SYMBOL, "OP"},
		{token.OPERATOR, "MAX"},
		{token.OPERATOR, "="},
		{token.IDENTIFIER, "a"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	ops := tbl.LookupOperator("MAX")
	if len(ops) != 1 || ops[0].Priority != 0 {
		t.Fatalf("expected MAX registered with default priority 0, got %+v", ops)
	}
	foundWarning := false
	for _, d := range sink.Diagnostics() {
		if d.Severity == diag.Warning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatalf("expected a warning about the missing PRIO, got %+v", sink.Diagnostics())
	}
}

func TestExtractCommaChainedIdentityDeclarations(t *testing.T) {
	a := node.NewArena()
	// INT i = 1, j = 2 ;
	head := chain(a, []spec{
		{token.INT_SYMBOL, "INT"},
		{token.IDENTIFIER, "i"},
		{token.OPERATOR, "="},
		{token.INT_DENOTATION, "1"},
		{token.COMMA_SYMBOL, ","},
		{token.IDENTIFIER, "j"},
		{token.OPERATOR, "="},
		{token.INT_DENOTATION, "2"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	if _, ok := tbl.LookupKind("i", symtab.IdentifierTag); !ok {
		t.Fatalf("expected i registered")
	}
	if _, ok := tbl.LookupKind("j", symtab.IdentifierTag); !ok {
		t.Fatalf("expected j registered")
	}
}

func TestExtractVariableDeclarationWithoutInitializer(t *testing.T) {
	a := node.NewArena()
	// REF INT p ;
	head := chain(a, []spec{
		{token.REF_SYMBOL, "REF"},
		{token.INT_SYMBOL, "INT"},
		{token.IDENTIFIER, "p"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	if _, ok := tbl.LookupKind("p", symtab.IdentifierTag); !ok {
		t.Fatalf("expected p registered even with no initializer")
	}
}

func TestExtractLabel(t *testing.T) {
	a := node.NewArena()
	// loop : x := x + 1 ;
	head := chain(a, []spec{
		{token.IDENTIFIER, "loop"},
		{token.COLON_SYMBOL, ":"},
		{token.IDENTIFIER, "x"},
		{token.ASSIGN_SYMBOL, ":="},
		{token.IDENTIFIER, "x"},
		{token.OPERATOR, "+"},
		{token.INT_DENOTATION, "1"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	e, ok := tbl.LookupLabel("loop")
	if !ok {
		t.Fatalf("expected loop registered as a label")
	}
	if !e.IsLabel {
		t.Fatalf("expected IsLabel set")
	}
}

func TestExtractElaboratesBoldTagToIndicant(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.MODE_SYMBOL, "MODE"},
		{token.IDENTIFIER, "VEC"},
		{token.OPERATOR, "="},
		{token.INT_SYMBOL, "INT"},
		{token.SEMI_SYMBOL, ";"},
		{token.BOLD_TAG, "VEC"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	if tail.Attribute != token.INDICANT {
		t.Fatalf("expected the bold tag to be reclassified as INDICANT, got %v", tail.Attribute)
	}
}

func TestExtractUnknownBoldTagIsReported(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{{token.BOLD_TAG, "MYSTERY"}})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 error for an undeclared bold tag, got %d", sink.ErrorCount())
	}
}

func TestExtractDuplicateModeIsReported(t *testing.T) {
	a := node.NewArena()
	head := chain(a, []spec{
		{token.MODE_SYMBOL, "MODE"},
		{token.IDENTIFIER, "VEC"},
		{token.OPERATOR, "="},
		{token.INT_SYMBOL, "INT"},
		{token.SEMI_SYMBOL, ";"},
		{token.MODE_SYMBOL, "MODE"},
		{token.IDENTIFIER, "VEC"},
		{token.OPERATOR, "="},
		{token.REAL_SYMBOL, "REAL"},
		{token.SEMI_SYMBOL, ";"},
	})
	sink := diag.NewSink("", 25)
	tbl := symtab.NewTable(nil)

	Extract(tbl, head, sink)

	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 redefinition error, got %d: %+v", sink.ErrorCount(), sink.Diagnostics())
	}
}
