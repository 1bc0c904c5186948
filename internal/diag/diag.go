// Package diag provides the diagnostic sink used by every phase of the
// front end: a Diagnostic carries severity, source position and a
// rendered message; a Sink accumulates them per compile and enforces the
// MAX_ERRORS cutoff from spec.md §5/§7. The rendering style (caret under
// the offending column, optional ANSI color) is carried over verbatim
// from the teacher's internal/errors package.
package diag

import (
	"fmt"
	"strings"

	"github.com/a68/a68front/pkg/token"
)

// Severity classifies a Diagnostic per the taxonomy in spec.md §7.
type Severity int

const (
	Warning Severity = iota
	Error
	SyntaxError
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case SyntaxError:
		return "syntax error"
	case Fatal:
		return "fatal error"
	default:
		return "diagnostic"
	}
}

// Diagnostic is a single compiler message anchored at a source position.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Message  string
	Source   string // full source text, for rendering a context line
	Force    bool   // promotes a warning to always-emitted output
}

// NewDiagnostic constructs a Diagnostic.
func NewDiagnostic(sev Severity, pos token.Position, source, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
		Source:   source,
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with a source line and caret, matching the
// teacher's CompilerError.Format layout.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.Pos.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", capitalize(d.Severity.String()), d.Pos.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", capitalize(d.Severity.String()), d.Pos.Line, d.Pos.Column)
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(d.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatAll renders a list of diagnostics one after another, matching the
// teacher's FormatErrors helper.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation produced %d diagnostic(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Sink accumulates diagnostics for one compile and tracks the MAX_ERRORS
// cutoff (spec.md §5: "Error counter checked after each phase").
type Sink struct {
	Source    string
	MaxErrors int
	diags     []*Diagnostic
	errCount  int
}

// NewSink creates a Sink for the given source text (used to render context
// lines) and error cap.
func NewSink(source string, maxErrors int) *Sink {
	return &Sink{Source: source, MaxErrors: maxErrors}
}

// Emit records a diagnostic. Warnings never count against MaxErrors;
// setting Force on a warning does not change that count.
func (s *Sink) Emit(sev Severity, pos token.Position, format string, args ...any) *Diagnostic {
	d := NewDiagnostic(sev, pos, s.Source, format, args...)
	s.diags = append(s.diags, d)
	if sev != Warning {
		s.errCount++
	}
	return d
}

// Diagnostics returns every diagnostic emitted so far, in emission order.
func (s *Sink) Diagnostics() []*Diagnostic { return s.diags }

// ErrorCount returns the number of non-warning diagnostics emitted so far.
func (s *Sink) ErrorCount() int { return s.errCount }

// HasErrors reports whether any non-warning diagnostic was emitted.
func (s *Sink) HasErrors() bool { return s.errCount > 0 }

// ExceededMaxErrors reports whether the phase driver should abort the
// pipeline (spec.md §5/§7: ">= MAX_ERRORS stops the pipeline").
func (s *Sink) ExceededMaxErrors() bool {
	limit := s.MaxErrors
	if limit <= 0 {
		limit = 1
	}
	return s.errCount >= limit
}
