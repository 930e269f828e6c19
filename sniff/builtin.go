package sniff

import (
	"strings"

	"github.com/dhamidi/tokenscope/token"
)

// BuiltinSniffs returns the default rule set. Each rule exercises a
// different structural annotation, which keeps them cheap: none of
// them ever re-scans the stream.
func BuiltinSniffs() []Sniff {
	return []Sniff{
		&DisallowTabIndent{},
		&LineLength{Limit: 120},
		&NestingLevel{Limit: 5},
		&InlineControlStructure{},
		&EmptyBlock{},
	}
}

// DisallowTabIndent reports whitespace that used tabs before
// expansion. The position annotator keeps the pre-expansion text
// around exactly for rules like this one.
type DisallowTabIndent struct{}

func (s *DisallowTabIndent) Code() string { return "whitespace.tab-indent" }

func (s *DisallowTabIndent) Kinds() []token.Kind {
	return []token.Kind{token.KindWhitespace}
}

func (s *DisallowTabIndent) Process(f *File, i int) {
	tok := f.Tokens[i]
	if tok.OrigText == "" || !strings.Contains(tok.OrigText, "\t") {
		return
	}
	if tok.Column != 1 && !strings.Contains(tok.Text, "\n") {
		return // only indentation, not alignment inside a line
	}
	f.Reportf(i, SeverityError, s.Code(), "spaces must be used for indentation, not tabs")
}

// LineLength reports tokens whose end column exceeds the limit, at
// most once per line. It watches every token, so a line pushed past
// the limit by trailing punctuation alone is still caught; tokens
// containing a line break are skipped because their end column belongs
// to a later line.
type LineLength struct {
	Limit    int
	lastLine int
}

func (s *LineLength) Code() string { return "lines.too-long" }

func (s *LineLength) Kinds() []token.Kind { return nil }

func (s *LineLength) Reset() { s.lastLine = 0 }

func (s *LineLength) Process(f *File, i int) {
	tok := f.Tokens[i]
	if strings.Contains(tok.Text, "\n") {
		return
	}
	end := tok.Column + tok.Length - 1
	if end <= s.Limit || tok.Line == s.lastLine {
		return
	}
	s.lastLine = tok.Line
	f.Reportf(i, SeverityWarning, s.Code(), "line exceeds %d columns (ends at %d)", s.Limit, end)
}

// NestingLevel reports scope openers nested deeper than the limit,
// reading the level annotation directly.
type NestingLevel struct {
	Limit int
}

func (s *NestingLevel) Code() string { return "metrics.nesting-level" }

func (s *NestingLevel) Kinds() []token.Kind {
	return []token.Kind{
		token.KindIf, token.KindElseIf, token.KindElse, token.KindWhile,
		token.KindFor, token.KindForeach, token.KindSwitch, token.KindDo, token.KindTry,
	}
}

func (s *NestingLevel) Process(f *File, i int) {
	if f.Tokens[i].Level > s.Limit {
		f.Reportf(i, SeverityWarning, s.Code(),
			"%q nested %d levels deep; maximum is %d",
			f.Tokens[i].Text, f.Tokens[i].Level, s.Limit)
	}
}

// InlineControlStructure reports braceless control-structure bodies: a
// resolved scope whose closer is set but whose opener marker is not.
type InlineControlStructure struct{}

func (s *InlineControlStructure) Code() string { return "control.inline-structure" }

func (s *InlineControlStructure) Kinds() []token.Kind {
	return []token.Kind{
		token.KindIf, token.KindElseIf, token.KindElse, token.KindWhile,
		token.KindFor, token.KindForeach,
	}
}

func (s *InlineControlStructure) Process(f *File, i int) {
	tok := f.Tokens[i]
	if tok.ScopeCloser == token.None || tok.ScopeOpener != token.None {
		return
	}
	f.Reportf(i, SeverityError, s.Code(),
		"inline control structures are not allowed; add braces around the %q body", tok.Text)
}

// EmptyBlock reports block bodies with no significant tokens between
// opener and closer.
type EmptyBlock struct{}

func (s *EmptyBlock) Code() string { return "blocks.empty" }

func (s *EmptyBlock) Kinds() []token.Kind {
	return []token.Kind{
		token.KindIf, token.KindElseIf, token.KindElse, token.KindWhile,
		token.KindFor, token.KindForeach, token.KindSwitch, token.KindTry,
		token.KindCatch, token.KindFinally,
	}
}

func (s *EmptyBlock) Process(f *File, i int) {
	tok := f.Tokens[i]
	if tok.ScopeOpener == token.None || tok.ScopeCloser == token.None {
		return
	}
	first := f.FindNext(tok.ScopeOpener + 1)
	if first == tok.ScopeCloser {
		f.Reportf(i, SeverityWarning, s.Code(), "empty %q body", tok.Text)
	}
}
