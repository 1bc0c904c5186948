// Package scanner implements the lexical scanner of spec.md §4.B: it
// classifies the next significant character into a denotation, bold tag,
// operator, bracket or format item, honoring the active stropping regime.
// Inside a format text ($...$) it scans in Format mode, which its caller
// selects on each Next call.
//
// The scanner never builds tree Nodes itself — it hands back plain
// token.Token values — so the same scanning logic can be reused by the
// round-trip self-check in internal/node without linking the arena.
package scanner

import (
	"strings"
	"unicode"

	"github.com/a68/a68front/internal/config"
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/pragmat"
	"github.com/a68/a68front/internal/source"
	"github.com/a68/a68front/pkg/token"
)

// Mode distinguishes ordinary scanning from the inside of a format text,
// per the design note "model as a small scanner mode stack passed
// explicitly, not as process state".
type Mode int

const (
	General Mode = iota
	Format
)

// formatItemLetters lists the single-letter format items spec.md §4.B
// recognizes inside a format text.
var formatItemLetters = map[rune]token.Type{
	'a': token.FORMAT_ITEM_A, 'b': token.FORMAT_ITEM_B, 'c': token.FORMAT_ITEM_C,
	'd': token.FORMAT_ITEM_D, 'e': token.FORMAT_ITEM_E, 'f': token.FORMAT_ITEM_F,
	'g': token.FORMAT_ITEM_G, 'h': token.FORMAT_ITEM_H, 'i': token.FORMAT_ITEM_I,
	'k': token.FORMAT_ITEM_K, 'l': token.FORMAT_ITEM_L, 'n': token.FORMAT_ITEM_N,
	'o': token.FORMAT_ITEM_O, 'p': token.FORMAT_ITEM_P, 'q': token.FORMAT_ITEM_Q,
	'r': token.FORMAT_ITEM_R, 's': token.FORMAT_ITEM_S, 't': token.FORMAT_ITEM_T,
	'u': token.FORMAT_ITEM_U, 'v': token.FORMAT_ITEM_V, 'w': token.FORMAT_ITEM_W,
	'x': token.FORMAT_ITEM_X, 'y': token.FORMAT_ITEM_Y, 'z': token.FORMAT_ITEM_Z,
}

const monadChars = "+-*/<>~&^%@?¬"

// Scanner turns a source.Buffer into a stream of token.Token values.
type Scanner struct {
	buf        *source.Buffer
	opts       config.Options
	sink       *diag.Sink
	optionSink pragmat.OptionSink
	loader     FileLoader
}

// FileLoader resolves an INCLUDE/READ path to its text, the "file
// loader" external collaborator of spec.md §6.
type FileLoader interface {
	Load(path string) (text string, resolvedName string, err error)
}

// New creates a Scanner reading from buf under the given options. sink
// receives lexical diagnostics; optionSink (may be nil) receives pragmat
// items the scanner itself does not understand; loader (may be nil)
// resolves INCLUDE/READ paths.
func New(buf *source.Buffer, opts config.Options, sink *diag.Sink, optionSink pragmat.OptionSink, loader FileLoader) *Scanner {
	return &Scanner{buf: buf, opts: opts, sink: sink, optionSink: optionSink, loader: loader}
}

// Next returns the next token under the given Mode, skipping layout,
// comments and pragmats first.
func (s *Scanner) Next(mode Mode) token.Token {
	if mode == Format {
		return s.nextFormat()
	}
	s.skipLayout()
	pos := s.buf.Pos().Token()
	ch := s.buf.Peek()

	switch {
	case ch == 0:
		return token.Token{Attribute: token.EOF, Pos: pos}
	case ch == '$':
		s.buf.Advance()
		return token.Token{Attribute: token.FORMAT_DELIMITER_SYMBOL, Symbol: "$", Pos: pos}
	case ch == '"':
		return s.scanString(pos)
	case unicode.IsDigit(ch):
		return s.scanNumber(pos)
	case s.isBoldStart(ch):
		return s.scanBoldOrIdent(pos)
	case isIdentStart(ch, s.opts.Stropping):
		return s.scanIdent(pos)
	case strings.ContainsRune(monadChars, ch) || ch == '=':
		return s.scanOperator(pos)
	default:
		return s.scanPunct(pos)
	}
}

// skipLayout consumes whitespace, comments and pragmats until the cursor
// sits on the next significant character.
func (s *Scanner) skipLayout() {
	for {
		ch := s.buf.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\f' || ch == '\v':
			s.buf.Advance()
		case ch == '#':
			s.scanHashComment()
		case s.atKeywordComment():
			s.consumeKeywordComment()
		case s.atPragmat():
			s.consumePragmat()
		default:
			return
		}
	}
}

func (s *Scanner) scanHashComment() {
	start := s.buf.Pos().Token()
	s.buf.Advance() // opening '#'
	for {
		ch := s.buf.Peek()
		if ch == 0 {
			s.sink.Emit(diag.Fatal, start, "unterminated comment")
			return
		}
		if ch == '#' {
			s.buf.Advance()
			return
		}
		s.buf.Advance()
	}
}

// atKeywordComment reports whether the cursor sits on CO or COMMENT (or
// their quote-stropped spellings).
func (s *Scanner) atKeywordComment() bool {
	return s.peekWordIs("CO") != "" || s.peekWordIs("COMMENT") != ""
}

func (s *Scanner) consumeKeywordComment() {
	open := s.peekWordIs("COMMENT")
	if open == "" {
		open = s.peekWordIs("CO")
	}
	start := s.buf.Pos().Token()
	s.consumeWord(open)
	for {
		if s.peekWordIs(open) != "" {
			s.consumeWord(open)
			return
		}
		if s.buf.Peek() == 0 {
			s.sink.Emit(diag.Fatal, start, "unterminated comment")
			return
		}
		s.buf.Advance()
	}
}

// atPragmat reports whether the cursor sits on PR or PRAGMAT.
func (s *Scanner) atPragmat() bool {
	return s.peekWordIs("PRAGMAT") != "" || s.peekWordIs("PR") != ""
}

func (s *Scanner) consumePragmat() {
	open := s.peekWordIs("PRAGMAT")
	if open == "" {
		open = s.peekWordIs("PR")
	}
	s.consumeWord(open)
	var body strings.Builder
	for {
		if s.peekWordIs(open) != "" {
			s.consumeWord(open)
			break
		}
		if s.buf.Peek() == 0 {
			s.sink.Emit(diag.Fatal, s.buf.Pos().Token(), "unterminated pragmat")
			break
		}
		body.WriteRune(s.buf.Advance())
	}
	s.handlePragmatBody(body.String())
}

func (s *Scanner) handlePragmatBody(body string) {
	dirs := pragmat.Scan(body)
	includes, pre, err := pragmat.Apply(dirs, s.optionSink)
	if err != nil && s.sink != nil {
		s.sink.Emit(diag.Warning, s.buf.Pos().Token(), "option error: %v", err)
	}
	if pre != nil {
		s.opts.Preprocessor = *pre
	}
	if !s.opts.Preprocessor {
		return
	}
	for _, inc := range includes {
		s.include(inc.Path)
	}
}

func (s *Scanner) include(path string) {
	if s.buf.Included(path) {
		return // cycle guard: already included, silently skipped
	}
	if s.loader == nil {
		if s.sink != nil {
			s.sink.Emit(diag.Error, s.buf.Pos().Token(), "cannot include %q: no file loader configured", path)
		}
		return
	}
	text, resolved, err := s.loader.Load(path)
	if err != nil {
		if s.sink != nil {
			s.sink.Emit(diag.Error, s.buf.Pos().Token(), "cannot include %q: %v", path, err)
		}
		return
	}
	s.buf.SpliceInclude(resolved, text)
}

// peekWordIs reports, without consuming, whether the upcoming text spells
// word — either bare (upper stropping) or single-quoted (quote
// stropping) — returning the exact spelling matched ("" if no match).
// A bare match additionally requires a non-identifier character (or EOF)
// immediately afterward, so CO never matches inside CONST or COMMENTARY.
func (s *Scanner) peekWordIs(word string) string {
	mark := s.buf.Save()
	defer s.buf.Restore(mark)

	quoted := s.buf.Peek() == '\''
	if quoted {
		s.buf.Advance()
	}
	for _, want := range word {
		if s.buf.Peek() != want {
			return ""
		}
		s.buf.Advance()
	}
	if quoted {
		if s.buf.Peek() != '\'' {
			return ""
		}
		return word
	}
	next := s.buf.Peek()
	if unicode.IsLetter(next) || next == '_' || unicode.IsDigit(next) {
		return ""
	}
	return word
}

func (s *Scanner) consumeWord(word string) {
	quoted := s.buf.Peek() == '\''
	if quoted {
		s.buf.Advance()
	}
	for range word {
		s.buf.Advance()
	}
	if quoted {
		s.buf.Advance() // closing quote
	}
}

// isBoldStart reports whether ch opens a bold tag under the active
// stropping regime.
func (s *Scanner) isBoldStart(ch rune) bool {
	if s.opts.Stropping == config.QuoteStropping {
		return ch == '\''
	}
	return ch >= 'A' && ch <= 'Z'
}

func isIdentStart(ch rune, strop config.Stropping) bool {
	if strop == config.QuoteStropping {
		return ch >= 'A' && ch <= 'Z'
	}
	return ch >= 'a' && ch <= 'z'
}

// scanBoldOrIdent scans a bold tag (keyword or, if unknown, BOLD_TAG to be
// classified later by the definition extractor).
func (s *Scanner) scanBoldOrIdent(pos token.Position) token.Token {
	if s.opts.Stropping == config.QuoteStropping {
		return s.scanQuotedBold(pos)
	}
	var sb strings.Builder
	for {
		ch := s.buf.Peek()
		if (ch >= 'A' && ch <= 'Z') || ch == '_' {
			sb.WriteRune(s.buf.Advance())
			continue
		}
		break
	}
	spelling := sb.String()
	if attr, ok := Lookup(s.opts.Stropping, spelling); ok {
		return token.Token{Attribute: attr, Symbol: spelling, Pos: pos}
	}
	return token.Token{Attribute: token.BOLD_TAG, Symbol: spelling, Pos: pos}
}

func (s *Scanner) scanQuotedBold(pos token.Position) token.Token {
	s.buf.Advance() // opening quote
	var sb strings.Builder
	for {
		ch := s.buf.Peek()
		if ch == '\'' {
			s.buf.Advance()
			break
		}
		if ch == 0 {
			s.sink.Emit(diag.Fatal, pos, "unterminated bold tag")
			break
		}
		sb.WriteRune(s.buf.Advance())
	}
	spelling := strings.ToUpper(sb.String())
	if attr, ok := Lookup(s.opts.Stropping, spelling); ok {
		return token.Token{Attribute: attr, Symbol: spelling, Pos: pos}
	}
	return token.Token{Attribute: token.BOLD_TAG, Symbol: spelling, Pos: pos}
}

// scanIdent scans a plain (non-bold) identifier: lowercase runs (upper
// stropping) or uppercase runs (quote stropping), digits and '_' allowed
// after the first character.
func (s *Scanner) scanIdent(pos token.Position) token.Token {
	var sb strings.Builder
	first := true
	for {
		ch := s.buf.Peek()
		letterOK := isIdentStart(ch, s.opts.Stropping)
		if letterOK || (!first && (unicode.IsDigit(ch) || ch == '_')) {
			sb.WriteRune(s.buf.Advance())
			first = false
			continue
		}
		break
	}
	return token.Token{Attribute: token.IDENTIFIER, Symbol: sb.String(), Pos: pos}
}

func (s *Scanner) radixLetter() rune {
	if s.opts.Stropping == config.QuoteStropping {
		return 'R'
	}
	return 'r'
}

func (s *Scanner) exponentLetter() rune {
	if s.opts.Stropping == config.QuoteStropping {
		return '\\'
	}
	return 'e'
}

// scanNumber scans an integer, real or bits denotation (spec.md §4.B).
func (s *Scanner) scanNumber(pos token.Position) token.Token {
	var sb strings.Builder
	digits := func() {
		for unicode.IsDigit(s.buf.Peek()) {
			sb.WriteRune(s.buf.Advance())
		}
	}
	digits()

	if s.buf.Peek() == s.radixLetter() && isAlnum(s.buf.Peek2()) {
		sb.WriteRune(s.buf.Advance())
		for isAlnum(s.buf.Peek()) {
			sb.WriteRune(s.buf.Advance())
		}
		return token.Token{Attribute: token.BITS_DENOTATION, Symbol: sb.String(), Pos: pos}
	}

	isReal := false
	if s.buf.Peek() == '.' && unicode.IsDigit(s.buf.Peek2()) {
		isReal = true
		sb.WriteRune(s.buf.Advance())
		digits()
	}
	if s.buf.Peek() == s.exponentLetter() {
		isReal = true
		sb.WriteRune(s.buf.Advance())
		if s.buf.Peek() == '+' || s.buf.Peek() == '-' {
			sb.WriteRune(s.buf.Advance())
		}
		digits()
	}
	if isReal {
		return token.Token{Attribute: token.REAL_DENOTATION, Symbol: sb.String(), Pos: pos}
	}
	return token.Token{Attribute: token.INT_DENOTATION, Symbol: sb.String(), Pos: pos}
}

func isAlnum(ch rune) bool {
	return unicode.IsDigit(ch) || unicode.IsLetter(ch)
}

// scanString scans a "..." denotation; a doubled quote is an embedded
// quote (spec.md §4.B).
func (s *Scanner) scanString(pos token.Position) token.Token {
	s.buf.Advance() // opening quote
	var sb strings.Builder
	for {
		ch := s.buf.Peek()
		if ch == 0 {
			s.sink.Emit(diag.Fatal, pos, "unterminated string denotation")
			return token.Token{Attribute: token.ILLEGAL, Symbol: sb.String(), Pos: pos}
		}
		if ch == '"' {
			s.buf.Advance()
			if s.buf.Peek() == '"' {
				sb.WriteRune(s.buf.Advance())
				continue
			}
			break
		}
		sb.WriteRune(s.buf.Advance())
	}
	return token.Token{Attribute: token.STRING_DENOTATION, Symbol: sb.String(), Pos: pos}
}

// scanOperator scans a run of MONAD characters with an optional trailing
// NOMAD '=': the scanner cannot tell `+=` from `+` followed by `=`
// (spec.md §4.B); the definition extractor splits it when context
// requires. A run immediately followed by `:=` is the augmented-assignment
// spelling (e.g. `+:=`) and is folded into the same operator symbol.
func (s *Scanner) scanOperator(pos token.Position) token.Token {
	var sb strings.Builder
	for strings.ContainsRune(monadChars, s.buf.Peek()) || s.buf.Peek() == '=' {
		sb.WriteRune(s.buf.Advance())
	}
	if s.buf.Peek() == ':' && s.buf.Peek2() == '=' {
		sb.WriteRune(s.buf.Advance())
		sb.WriteRune(s.buf.Advance())
	}
	return token.Token{Attribute: token.OPERATOR, Symbol: sb.String(), Pos: pos}
}

// bracketEquivalents maps each bracket character to its own attribute;
// [ and { are not rewritten to ( here, the "allow bracket equivalence"
// option (spec.md §4.B) being applied later by the reducer.
var bracketEquivalents = map[rune]token.Type{
	'(': token.OPEN_SYMBOL, ')': token.CLOSE_SYMBOL,
	'[': token.SUB_SYMBOL, ']': token.BUS_SYMBOL,
	'{': token.ACCO_SYMBOL, '}': token.OCCA_SYMBOL,
}

func (s *Scanner) scanPunct(pos token.Position) token.Token {
	ch := s.buf.Advance()
	if attr, ok := bracketEquivalents[ch]; ok {
		return token.Token{Attribute: attr, Symbol: string(ch), Pos: pos}
	}
	switch ch {
	case ';':
		return token.Token{Attribute: token.SEMI_SYMBOL, Symbol: ";", Pos: pos}
	case ',':
		return token.Token{Attribute: token.COMMA_SYMBOL, Symbol: ",", Pos: pos}
	case ':':
		if s.buf.Peek() == '=' {
			s.buf.Advance()
			return token.Token{Attribute: token.ASSIGN_SYMBOL, Symbol: ":=", Pos: pos}
		}
		return token.Token{Attribute: token.COLON_SYMBOL, Symbol: ":", Pos: pos}
	case '.':
		if s.buf.Peek() == '.' {
			s.buf.Advance()
			return token.Token{Attribute: token.DOTDOT_SYMBOL, Symbol: "..", Pos: pos}
		}
		return token.Token{Attribute: token.POINT_SYMBOL, Symbol: ".", Pos: pos}
	default:
		s.sink.Emit(diag.Fatal, pos, "unworthy character %q", ch)
		return token.Token{Attribute: token.ILLEGAL, Symbol: string(ch), Pos: pos}
	}
}

// nextFormat scans one token inside a format text, recognizing the single
// -letter format items and the sign/point/percent/escape characters,
// while still delegating to the general scanner for anything else — e.g.
// an integer replicator count, a string insertion, or a nested '(' that
// opens a replicator's enclosed clause (spec.md §4.B, §9 "small scanner
// mode stack").
func (s *Scanner) nextFormat() token.Token {
	pos := s.buf.Pos().Token()
	ch := s.buf.Peek()
	switch ch {
	case 0:
		return token.Token{Attribute: token.EOF, Pos: pos}
	case '$':
		s.buf.Advance()
		return token.Token{Attribute: token.FORMAT_DELIMITER_SYMBOL, Symbol: "$", Pos: pos}
	case '+':
		s.buf.Advance()
		return token.Token{Attribute: token.FORMAT_ITEM_PLUS, Symbol: "+", Pos: pos}
	case '-':
		s.buf.Advance()
		return token.Token{Attribute: token.FORMAT_ITEM_MINUS, Symbol: "-", Pos: pos}
	case '.':
		s.buf.Advance()
		return token.Token{Attribute: token.FORMAT_ITEM_POINT, Symbol: ".", Pos: pos}
	case '%':
		s.buf.Advance()
		if letter := s.buf.Peek(); unicode.IsLetter(letter) {
			s.buf.Advance()
			return token.Token{Attribute: token.FORMAT_ITEM_ESCAPE, Symbol: "%" + string(letter), Pos: pos}
		}
		return token.Token{Attribute: token.FORMAT_ITEM_PERCENT, Symbol: "%", Pos: pos}
	case ',':
		s.buf.Advance()
		return token.Token{Attribute: token.COMMA_SYMBOL, Symbol: ",", Pos: pos}
	case '(', '[', '{':
		// Re-entry point: the deeper-clause reducer decides whether this
		// parenthesis encloses a replicator unit (general mode) or stays
		// a format sub-picture; the scanner just hands back the bracket
		// and lets the caller push/pop Mode around it.
		return s.scanPunct(pos)
	case ')', ']', '}':
		return s.scanPunct(pos)
	default:
		if unicode.IsDigit(ch) {
			return s.scanNumber(pos)
		}
		if attr, ok := formatItemLetters[unicode.ToLower(ch)]; ok {
			s.buf.Advance()
			return token.Token{Attribute: attr, Symbol: string(ch), Pos: pos}
		}
		s.buf.Advance()
		s.sink.Emit(diag.Fatal, pos, "unworthy character %q in format text", ch)
		return token.Token{Attribute: token.ILLEGAL, Symbol: string(ch), Pos: pos}
	}
}
