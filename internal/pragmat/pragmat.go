// Package pragmat scans the content of a PR...PR / PRAGMAT...PRAGMAT (or
// quote-stropped 'PR'...'PR') body as an isolated list of option items,
// recognizing INCLUDE, READ, PREPROCESSOR and NOPREPROCESSOR and
// forwarding anything else to an injected OptionSink — the "option
// parser" external collaborator of spec.md §6.
package pragmat

import "strings"

// Kind classifies a recognized pragmat directive.
type Kind int

const (
	Include Kind = iota
	Read
	Preprocessor
	NoPreprocessor
	Option // forwarded verbatim to the option sink
)

// Directive is one recognized item inside a pragmat body.
type Directive struct {
	Kind Kind
	Path string // for Include/Read
	Text string // raw text, for Option
}

// OptionSink receives pragmat items the scanner does not itself
// understand (spec.md §6 "Option parser").
type OptionSink interface {
	SetOption(item string) error
}

// Scan tokenizes a pragmat body into a sequence of Directives. The body is
// the text between the opening and closing pragmat delimiters, exclusive.
func Scan(body string) []Directive {
	var out []Directive
	fields := splitItems(body)
	for i := 0; i < len(fields); i++ {
		word := strings.ToUpper(fields[i])
		switch word {
		case "INCLUDE", "READ":
			kind := Include
			if word == "READ" {
				kind = Read
			}
			if i+1 < len(fields) {
				out = append(out, Directive{Kind: kind, Path: unquote(fields[i+1])})
				i++
			}
		case "PREPROCESSOR":
			out = append(out, Directive{Kind: Preprocessor})
		case "NOPREPROCESSOR":
			out = append(out, Directive{Kind: NoPreprocessor})
		default:
			if fields[i] != "" {
				out = append(out, Directive{Kind: Option, Text: fields[i]})
			}
		}
	}
	return out
}

// splitItems splits a pragmat body into whitespace-separated items while
// keeping a double-quoted path together as one item.
func splitItems(body string) []string {
	var out []string
	var cur strings.Builder
	inString := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range body {
		switch {
		case r == '"':
			cur.WriteRune(r)
			inString = !inString
		case !inString && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Apply runs every Option directive through sink, and returns the
// Include/Read directives for the caller to splice, in order — the split
// matches the scanner's INCLUDE/READ handling (spec.md §4.B) against the
// downstream option-parser collaborator (spec.md §6).
func Apply(dirs []Directive, sink OptionSink) (includes []Directive, preprocessorEnabled *bool, err error) {
	for _, d := range dirs {
		switch d.Kind {
		case Include, Read:
			includes = append(includes, d)
		case Preprocessor:
			v := true
			preprocessorEnabled = &v
		case NoPreprocessor:
			v := false
			preprocessorEnabled = &v
		case Option:
			if sink != nil {
				if e := sink.SetOption(d.Text); e != nil {
					err = e
				}
			}
		}
	}
	return includes, preprocessorEnabled, err
}
