// Package parser is the front end's public entry point: it wires
// together the scanner and every phase component (refinement splicing,
// the parenthesis check, the top-down framer, the bottom-up reducer and
// the post-tree fixup) into the single Parse call spec.md §2 describes
// as the compiler driver (spec.md §2 "Pipeline").
package parser

import (
	"github.com/a68/a68front/internal/config"
	"github.com/a68/a68front/internal/diag"
	"github.com/a68/a68front/internal/fixup"
	"github.com/a68/a68front/internal/framer"
	"github.com/a68/a68front/internal/node"
	"github.com/a68/a68front/internal/parenthesis"
	"github.com/a68/a68front/internal/reducer"
	"github.com/a68/a68front/internal/refinement"
	"github.com/a68/a68front/internal/scanner"
	"github.com/a68/a68front/internal/source"
	"github.com/a68/a68front/internal/symtab"
	"github.com/a68/a68front/pkg/token"
)

// Result is everything a caller needs out of one compile: the finished
// tree (nil if a fatal phase failed before a tree existed), the
// program's own symbol table, and every diagnostic collected along the
// way.
type Result struct {
	Root        *node.Node
	Table       *symtab.Table
	Arena       *node.Arena
	Diagnostics []*diag.Diagnostic
	Failed      bool // set once a phase aborts the rest of the pipeline
}

// Parse compiles text (named filename, for diagnostics) through every
// phase up to and including component I. It never runs mode
// equivalencing, code generation or listing output (spec.md Non-goals);
// it stops early, with Failed set, if the parenthesis check or the
// framer reports unrecoverable imbalance, since neither later phase can
// make sense of an unbalanced token stream.
func Parse(filename, text string, opts ...config.Option) *Result {
	o := config.New(opts...)
	if o.SourceName == "" {
		o.SourceName = filename
	}
	sink := diag.NewSink(o.SourceName, o.MaxErrors)
	buf := source.New(filename, text, "", "")
	arena := node.NewArena()
	sc := scanner.New(buf, o, sink, nil, nil)

	head := tokenize(arena, sc)
	if head == nil {
		return &Result{Table: symtab.NewPrelude(), Arena: arena, Diagnostics: sink.Diagnostics(), Failed: true}
	}

	head = refinement.Extract(head, sink)

	if !parenthesis.Check(head, sink) {
		return &Result{Arena: arena, Diagnostics: sink.Diagnostics(), Failed: true}
	}

	framed, ok := framer.Frame(arena, sink, head)
	if !ok {
		return &Result{Arena: arena, Diagnostics: sink.Diagnostics(), Failed: true}
	}

	prelude := symtab.NewPrelude()
	programTbl := symtab.NewTable(prelude)
	reduced := reducer.Reduce(arena, sink, programTbl, framed, o.AllowBracketEquivalence)
	root := reducer.WrapParticularProgram(arena, reduced)

	fixup.Run(sink, root, programTbl)

	return &Result{
		Root:        root,
		Table:       programTbl,
		Arena:       arena,
		Diagnostics: sink.Diagnostics(),
		Failed:      sink.HasErrors() && sink.ExceededMaxErrors(),
	}
}

// Refine runs the scanner and component C (trailing refinement
// splicing) only, handing back the still-flat token chain with every
// named refinement already spliced into its application site, for
// callers that want to inspect that step in isolation (the `a68front
// refine` command's use case).
func Refine(filename, text string, opts ...config.Option) (*node.Node, *node.Arena, []*diag.Diagnostic) {
	o := config.New(opts...)
	if o.SourceName == "" {
		o.SourceName = filename
	}
	sink := diag.NewSink(o.SourceName, o.MaxErrors)
	buf := source.New(filename, text, "", "")
	arena := node.NewArena()
	sc := scanner.New(buf, o, sink, nil, nil)

	head := tokenize(arena, sc)
	head = refinement.Extract(head, sink)
	return head, arena, sink.Diagnostics()
}

// Scan runs just the scanner (plus the mode-stack bookkeeping tokenize
// adds on top of it) and hands back the raw token stream, for callers
// that want to inspect lexical output without running any later phase
// (the `a68front scan` command's use case).
func Scan(filename, text string, opts ...config.Option) ([]token.Token, []*diag.Diagnostic) {
	o := config.New(opts...)
	if o.SourceName == "" {
		o.SourceName = filename
	}
	sink := diag.NewSink(o.SourceName, o.MaxErrors)
	buf := source.New(filename, text, "", "")
	arena := node.NewArena()
	sc := scanner.New(buf, o, sink, nil, nil)

	head := tokenize(arena, sc)
	var toks []token.Token
	for n := head; n != nil; n = n.Next {
		toks = append(toks, token.Token{Attribute: n.Attribute, Symbol: n.Symbol, Pos: n.Pos, Priority: n.Priority})
	}
	toks = append(toks, token.Token{Attribute: token.EOF})
	return toks, sink.Diagnostics()
}

// scanFrame is one entry of tokenize's explicit mode stack: returnMode is
// the Mode to resume once this excursion closes, and depth counts
// ordinary brackets opened and closed while inside a bracket-triggered
// excursion, so an unrelated nested "(...)" inside a replicator's general
// -mode unit never pops the frame early.
type scanFrame struct {
	returnMode scanner.Mode
	depth      int
}

// tokenize drains sc into a flat sibling chain of Nodes, maintaining the
// Format/General mode stack the scanner itself deliberately leaves to its
// caller (spec.md §4.B design note, §9): a '$' toggles into Format mode
// and back; an open bracket encountered while in Format mode re-enters
// General mode for the replicator unit it introduces, returning to
// Format only once that bracket's own matching closer is reached.
func tokenize(arena *node.Arena, sc *scanner.Scanner) *node.Node {
	mode := scanner.General
	var stack []scanFrame
	var head, tail *node.Node

	for {
		tok := sc.Next(mode)

		switch tok.Attribute {
		case token.FORMAT_DELIMITER_SYMBOL:
			if mode == scanner.General {
				stack = append(stack, scanFrame{returnMode: mode})
				mode = scanner.Format
			} else if n := len(stack); n > 0 {
				mode = stack[n-1].returnMode
				stack = stack[:n-1]
			}
		case token.OPEN_SYMBOL, token.SUB_SYMBOL, token.ACCO_SYMBOL:
			if mode == scanner.Format {
				stack = append(stack, scanFrame{returnMode: mode})
				mode = scanner.General
			} else if n := len(stack); n > 0 {
				stack[n-1].depth++
			}
		case token.CLOSE_SYMBOL, token.BUS_SYMBOL, token.OCCA_SYMBOL:
			if mode == scanner.General {
				if n := len(stack); n > 0 {
					if stack[n-1].depth == 0 {
						mode = stack[n-1].returnMode
						stack = stack[:n-1]
					} else {
						stack[n-1].depth--
					}
				}
			}
		}

		n := arena.New(tok.Attribute, tok.Symbol, tok.Pos)
		n.Priority = tok.Priority
		if head == nil {
			head = n
		} else {
			node.InsertAfter(tail, n)
		}
		tail = n

		if tok.Attribute == token.EOF {
			break
		}
	}

	// Drop the trailing EOF sentinel: every phase downstream walks a
	// chain of real content and expects it to simply run out.
	if tail != nil && tail.Attribute == token.EOF {
		prev := tail.Prev
		node.Remove(tail)
		tail = prev
		if tail == nil {
			return nil
		}
	}
	return head
}
