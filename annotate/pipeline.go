// Package annotate turns a flat lexed token stream into a structurally
// indexed one: every token learns its line and column, its bracket
// partner, the parenthesis pairs enclosing it, the scope it opens or
// closes, and its nesting level. Rules can then query structural
// relationships in constant time instead of re-parsing.
//
// The pipeline is a fixed sequence of pure transforms over one owned
// token buffer. Each stage consumes the previous stage's annotations
// and is never re-entered; re-annotating after an edit is a full,
// independent run over a freshly lexed stream.
package annotate

import (
	"fmt"

	"github.com/dhamidi/tokenscope/token"
)

// Warning marks a structural problem found while annotating, attached
// to the token index it concerns. Warnings never abort the pipeline;
// the affected tokens are left with unset structural fields and the
// rest of the stream is annotated as usual.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Token   int    `json:"token"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (token %d)", w.Code, w.Message, w.Token)
}

// Warning codes produced by the pipeline.
const (
	WarnUnmatchedBracket  = "bracket.unmatched"
	WarnMismatchedBracket = "bracket.mismatched"
	WarnUnresolvedScope   = "scope.unresolved"
	WarnSharedCloser      = "scope.shared-closer"
)

// Config carries everything the pipeline needs to know up front. A
// Config is validated once at construction; an invalid one rejects the
// whole pipeline rather than starting a partial pass.
type Config struct {
	// TabWidth is the number of columns a tab stop occupies. Zero is
	// normalized to one; negative widths are a configuration error.
	TabWidth int

	// Encoding hints how text length is measured. "utf-8" (or empty)
	// counts codepoints where the bytes are valid and degrades to
	// byte counting otherwise; "bytes" always counts bytes.
	Encoding string

	// Grammar is the language policy table set.
	Grammar *Grammar
}

// Pipeline annotates token streams for one fixed configuration. It is
// stateless between runs and safe to reuse across files, one file at a
// time per instance.
type Pipeline struct {
	tabWidth  int
	byteLen   bool
	grammar   *Grammar
	openerFor map[token.Kind]token.Kind // closer kind -> opener kind
}

// New validates cfg and builds a pipeline. Configuration errors are
// reported here; Run never fails.
func New(cfg Config) (*Pipeline, error) {
	if cfg.TabWidth < 0 {
		return nil, fmt.Errorf("annotate: tab width %d is negative", cfg.TabWidth)
	}
	tabWidth := cfg.TabWidth
	if tabWidth == 0 {
		tabWidth = 1
	}
	byteLen := false
	switch cfg.Encoding {
	case "", "utf-8", "utf8":
	case "bytes":
		byteLen = true
	default:
		return nil, fmt.Errorf("annotate: unknown encoding %q", cfg.Encoding)
	}
	if cfg.Grammar == nil {
		return nil, fmt.Errorf("annotate: no grammar configured")
	}
	if err := cfg.Grammar.validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		tabWidth:  tabWidth,
		byteLen:   byteLen,
		grammar:   cfg.Grammar,
		openerFor: cfg.Grammar.closerToOpener(),
	}, nil
}

// Run annotates raw in place and returns it as a stream together with
// any structural warnings. Run takes ownership of raw; the caller must
// not retain it. The result is a pure function of the input and the
// pipeline configuration.
func (p *Pipeline) Run(raw []token.Token) (token.Stream, []Warning) {
	ts := token.Stream(raw)
	var warnings []Warning

	ts = p.assignPositions(ts)
	ts, warnings = p.matchBrackets(ts, warnings)
	ts = p.resolveParens(ts)
	ts, warnings = p.resolveScopes(ts, warnings)
	ts = p.assignLevels(ts)

	return ts, warnings
}
