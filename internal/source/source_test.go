package source

import "testing"

func readAll(b *Buffer) string {
	var out []rune
	for !b.AtEOF() {
		out = append(out, b.Advance())
	}
	return string(out)
}

func TestLineSplicingNewlinesNormalized(t *testing.T) {
	b := New("t.a68", "BEGIN\r\nEND", "", "")
	got := readAll(b)
	if got != "BEGIN\nEND" {
		t.Errorf("got %q, want %q", got, "BEGIN\nEND")
	}
}

func TestContinuationLineSpliced(t *testing.T) {
	b := New("t.a68", "BEGIN \\\nEND", "", "")
	got := readAll(b)
	if got != "BEGIN END" {
		t.Errorf("got %q, want %q", got, "BEGIN END")
	}
}

func TestShebangStripped(t *testing.T) {
	b := New("t.a68", "#!/usr/bin/a68g\nBEGIN SKIP END", "", "")
	got := readAll(b)
	if got != "BEGIN SKIP END" {
		t.Errorf("got %q, want %q", got, "BEGIN SKIP END")
	}
}

func TestPreludeAndPostludeWrapUserSource(t *testing.T) {
	b := New("t.a68", "SKIP", "PRELUDE", "POSTLUDE")
	got := readAll(b)
	if got != "PRELUDE\nSKIP\nPOSTLUDE" {
		t.Errorf("got %q", got)
	}
}

func TestSaveRestore(t *testing.T) {
	b := New("t.a68", "ABC", "", "")
	b.Advance()
	mark := b.Save()
	b.Advance()
	b.Advance()
	if !b.AtEOF() {
		t.Fatalf("expected EOF")
	}
	b.Restore(mark)
	if b.AtEOF() {
		t.Fatalf("restore should have rewound the cursor")
	}
	if got := b.Peek(); got != 'B' {
		t.Errorf("Peek() after restore = %q, want 'B'", got)
	}
}

func TestPeekAndPeek2(t *testing.T) {
	b := New("t.a68", "AB", "", "")
	if b.Peek() != 'A' {
		t.Fatalf("Peek() = %q, want 'A'", b.Peek())
	}
	if b.Peek2() != 'B' {
		t.Fatalf("Peek2() = %q, want 'B'", b.Peek2())
	}
}

func TestIncludedCycleGuard(t *testing.T) {
	b := New("main.a68", "SKIP", "", "")
	if b.Included("foo.a68") {
		t.Fatalf("foo.a68 should not be marked included yet")
	}
	if !b.Included("foo.a68") {
		t.Fatalf("foo.a68 should now be marked included")
	}
}

func TestSpliceIncludeInsertsInPlace(t *testing.T) {
	b := New("main.a68", "BEGIN\nEND", "", "")
	// advance to the first line's end so cur is still the BEGIN line
	b.Advance() // B
	b.SpliceInclude("inc.a68", "included")
	got := readAll(b)
	if got != "EGIN\nincluded\nEND" {
		t.Errorf("got %q", got)
	}
}

func TestPositionTracksLineAndColumn(t *testing.T) {
	b := New("t.a68", "AB\nCD", "", "")
	b.Advance()
	b.Advance()
	pos := b.Pos()
	if pos.Line.Number != 1 || pos.Column != 3 {
		t.Errorf("Pos() = %+v, want line 1 col 3", pos)
	}
	b.Advance() // consume virtual newline
	pos = b.Pos()
	if pos.Line.Number != 2 || pos.Column != 1 {
		t.Errorf("Pos() after newline = %+v, want line 2 col 1", pos)
	}
}
