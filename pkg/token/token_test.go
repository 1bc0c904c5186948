package token

import "testing"

func TestIsNonTerminal(t *testing.T) {
	cases := []struct {
		typ  Type
		want bool
	}{
		{TOP, true},
		{UNIT_NT, true},
		{FORMULA, true},
		{IF_SYMBOL, false},
		{IDENTIFIER, false},
		{INT_DENOTATION, false},
		{ERROR_NODE, true},
	}
	for _, c := range cases {
		if got := c.typ.IsNonTerminal(); got != c.want {
			t.Errorf("%s.IsNonTerminal() = %v, want %v", c.typ, got, c.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	if !IF_SYMBOL.IsKeyword() {
		t.Errorf("IF_SYMBOL should be a keyword")
	}
	if OPEN_SYMBOL.IsKeyword() {
		t.Errorf("OPEN_SYMBOL should not be classified as a keyword")
	}
	if TOP.IsKeyword() {
		t.Errorf("TOP should not be classified as a keyword")
	}
}

func TestIsDenotation(t *testing.T) {
	if !INT_DENOTATION.IsDenotation() {
		t.Errorf("INT_DENOTATION should be a denotation")
	}
	if IDENTIFIER.IsDenotation() {
		t.Errorf("IDENTIFIER should not be a denotation")
	}
}

func TestTypeString(t *testing.T) {
	if IF_SYMBOL.String() != "IF_SYMBOL" {
		t.Errorf("IF_SYMBOL.String() = %q, want IF_SYMBOL", IF_SYMBOL.String())
	}
	if got := Type(100000).String(); got == "" {
		t.Errorf("String() of an out-of-range Type should not be empty")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{File: "a.a68", Line: 3, Column: 5}
	if got, want := p.String(), "a.a68:3:5"; got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
	p2 := Position{Line: 1, Column: 1}
	if got, want := p2.String(), "1:1"; got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Attribute: IDENTIFIER, Symbol: "foo"}
	if got, want := tok.String(), `IDENTIFIER("foo")`; got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
	tok2 := Token{Attribute: TOP}
	if got, want := tok2.String(), "TOP"; got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
}
