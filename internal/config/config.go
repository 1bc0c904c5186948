// Package config holds the compile-time options that the scanner and
// parser phases branch on: stropping regime, the MAX_ERRORS cutoff, and a
// couple of leniency toggles. It is the "option parser" collaborator of
// spec.md §6, reduced to the subset the core front end consults directly;
// anything else found in a pragmat is forwarded to an injected OptionSink.
package config

// Stropping selects how reserved words are distinguished from identifiers.
type Stropping int

const (
	// UpperStropping is the default: bold keywords spelled in uppercase,
	// identifiers in lowercase.
	UpperStropping Stropping = iota
	// QuoteStropping spells bold keywords as 'UPPER', identifiers in
	// uppercase.
	QuoteStropping
)

func (s Stropping) String() string {
	if s == QuoteStropping {
		return "quote"
	}
	return "upper"
}

// DefaultMaxErrors is the error cap a phase checks after each of its steps;
// reaching it aborts the pipeline (spec.md §5, §7).
const DefaultMaxErrors = 25

// Options configures one compilation run. The zero value is not valid;
// use New to get the defaults the teacher's functional-options pattern
// would otherwise leave implicit.
type Options struct {
	Stropping               Stropping
	MaxErrors               int
	AllowBracketEquivalence bool // accept [/] and {/} as (/) synonyms
	Preprocessor            bool // honor pragmat INCLUDE/READ directives
	SourceName              string
}

// Option configures an Options value, mirroring the teacher's
// lexer.LexerOption functional-options pattern (WithPreserveComments,
// WithTracing).
type Option func(*Options)

// New builds an Options value with the spec's defaults: upper stropping,
// MAX_ERRORS = DefaultMaxErrors, bracket equivalence and the preprocessor
// both enabled.
func New(opts ...Option) Options {
	o := Options{
		Stropping:               UpperStropping,
		MaxErrors:               DefaultMaxErrors,
		AllowBracketEquivalence: true,
		Preprocessor:            true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStropping selects the stropping regime.
func WithStropping(s Stropping) Option {
	return func(o *Options) { o.Stropping = s }
}

// WithMaxErrors overrides the error cap. A value <= 0 is ignored.
func WithMaxErrors(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxErrors = n
		}
	}
}

// WithBracketEquivalence toggles whether [/] and {/} are accepted as (/)
// synonyms inside slices. Inside a format text all three bracket kinds
// are accepted whatever this option says.
func WithBracketEquivalence(allow bool) Option {
	return func(o *Options) { o.AllowBracketEquivalence = allow }
}

// WithPreprocessor toggles pragmat INCLUDE/READ/PREPROCESSOR handling.
func WithPreprocessor(enabled bool) Option {
	return func(o *Options) { o.Preprocessor = enabled }
}

// WithSourceName records the file name used in diagnostics.
func WithSourceName(name string) Option {
	return func(o *Options) { o.SourceName = name }
}
