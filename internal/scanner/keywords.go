package scanner

import (
	"strings"

	"github.com/a68/a68front/internal/config"
	"github.com/a68/a68front/pkg/token"
)

// keywordSpellings pairs every bold-word attribute with its canonical
// (upper-stropped) spelling. Quote-stropped programs spell the same word
// as 'SPELLING'; the keyword lookup normalizes both to this table.
var keywordSpellings = []struct {
	attr     token.Type
	spelling string
}{
	{token.PROGRAM_SYMBOL, "PROGRAM"},
	{token.MODE_SYMBOL, "MODE"},
	{token.PRIO_SYMBOL, "PRIO"},
	{token.OP_SYMBOL, "OP"},
	{token.PROC_SYMBOL, "PROC"},
	{token.REF_SYMBOL, "REF"},
	{token.FLEX_SYMBOL, "FLEX"},
	{token.LONG_SYMBOL, "LONG"},
	{token.SHORT_SYMBOL, "SHORT"},
	{token.STRUCT_SYMBOL, "STRUCT"},
	{token.UNION_SYMBOL, "UNION"},
	{token.INT_SYMBOL, "INT"},
	{token.REAL_SYMBOL, "REAL"},
	{token.BOOL_SYMBOL, "BOOL"},
	{token.CHAR_SYMBOL, "CHAR"},
	{token.BITS_SYMBOL, "BITS"},
	{token.BYTES_SYMBOL, "BYTES"},
	{token.STRING_SYMBOL, "STRING"},
	{token.FILE_SYMBOL, "FILE"},
	{token.FORMAT_SYMBOL, "FORMAT"},
	{token.VOID_SYMBOL, "VOID"},
	{token.TRUE_SYMBOL, "TRUE"},
	{token.FALSE_SYMBOL, "FALSE"},
	{token.NIL_SYMBOL, "NIL"},
	{token.SKIP_SYMBOL, "SKIP"},
	{token.LOC_SYMBOL, "LOC"},
	{token.HEAP_SYMBOL, "HEAP"},
	{token.NEW_SYMBOL, "NEW"},
	{token.BEGIN_SYMBOL, "BEGIN"},
	{token.END_SYMBOL, "END"},
	{token.IF_SYMBOL, "IF"},
	{token.THEN_SYMBOL, "THEN"},
	{token.ELSE_SYMBOL, "ELSE"},
	{token.ELIF_SYMBOL, "ELIF"},
	{token.FI_SYMBOL, "FI"},
	{token.CASE_SYMBOL, "CASE"},
	{token.IN_SYMBOL, "IN"},
	{token.OUSE_SYMBOL, "OUSE"},
	{token.OUT_SYMBOL, "OUT"},
	{token.ESAC_SYMBOL, "ESAC"},
	{token.FOR_SYMBOL, "FOR"},
	{token.FROM_SYMBOL, "FROM"},
	{token.BY_SYMBOL, "BY"},
	{token.TO_SYMBOL, "TO"},
	{token.DOWNTO_SYMBOL, "DOWNTO"},
	{token.WHILE_SYMBOL, "WHILE"},
	{token.DO_SYMBOL, "DO"},
	{token.OD_SYMBOL, "OD"},
	{token.UNTIL_SYMBOL, "UNTIL"},
	{token.PAR_SYMBOL, "PAR"},
	{token.GOTO_SYMBOL, "GOTO"},
	{token.EXIT_SYMBOL, "EXIT"},
	{token.IS_SYMBOL, "IS"},
	{token.ISNT_SYMBOL, "ISNT"},
	{token.OF_SYMBOL, "OF"},
	{token.AT_SYMBOL, "AT"},
	{token.ASSERT_SYMBOL, "ASSERT"},
}

// Keywords is an immutable, stropping-aware keyword table, built once and
// never mutated afterward (spec.md §3 "Keyword trie").
type Keywords struct {
	byUpper map[string]token.Type
	byQuote map[string]token.Type // keyed by the uppercase content between quotes
}

var upperKeywords = buildUpper()
var quoteKeywords = buildQuote()

func buildUpper() map[string]token.Type {
	m := make(map[string]token.Type, len(keywordSpellings))
	for _, k := range keywordSpellings {
		m[k.spelling] = k.attr
	}
	return m
}

func buildQuote() map[string]token.Type {
	m := make(map[string]token.Type, len(keywordSpellings))
	for _, k := range keywordSpellings {
		m[strings.ToUpper(k.spelling)] = k.attr
	}
	return m
}

// Lookup resolves a bold-tag spelling (already stripped of quotes, if any)
// to its keyword attribute under the given stropping regime. ok is false
// for an ordinary, non-reserved bold tag.
func Lookup(strop config.Stropping, spelling string) (token.Type, bool) {
	if strop == config.QuoteStropping {
		t, ok := quoteKeywords[strings.ToUpper(spelling)]
		return t, ok
	}
	t, ok := upperKeywords[spelling]
	return t, ok
}

// Spelling returns the canonical (upper-stropped) spelling for a keyword
// attribute, used when the scanner or diagnostics need to print it back.
func Spelling(attr token.Type) string {
	for _, k := range keywordSpellings {
		if k.attr == attr {
			return k.spelling
		}
	}
	return attr.String()
}
