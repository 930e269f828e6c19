package sniff

import (
	"fmt"

	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/token"
)

// File is one annotated source file under analysis plus the violations
// collected against it. Sniffs treat the token stream as read-only.
type File struct {
	Path     string
	Tokens   token.Stream
	Warnings []annotate.Warning

	grammar    *annotate.Grammar
	violations []Violation
}

// NewFile lexes nothing itself; the caller supplies the already
// annotated stream and the grammar it was annotated under.
func NewFile(path string, ts token.Stream, warnings []annotate.Warning, grammar *annotate.Grammar) *File {
	return &File{
		Path:     path,
		Tokens:   ts,
		Warnings: warnings,
		grammar:  grammar,
	}
}

// Reportf records a violation anchored at token i.
func (f *File) Reportf(i int, severity Severity, code, format string, args ...any) {
	line, column := 0, 0
	if i >= 0 && i < len(f.Tokens) {
		line, column = f.Tokens[i].Line, f.Tokens[i].Column
	}
	f.violations = append(f.violations, Violation{
		Path:     f.Path,
		Line:     line,
		Column:   column,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
	})
}

// Violations returns everything reported so far, in report order.
func (f *File) Violations() []Violation {
	return f.violations
}

// FindNext returns the index of the first significant token at or
// after i, or token.None. Whitespace and comments are skipped.
func (f *File) FindNext(i int) int {
	for ; i >= 0 && i < len(f.Tokens); i++ {
		if !f.grammar.Ignore[f.Tokens[i].Kind] {
			return i
		}
	}
	return token.None
}

// FindPrev returns the index of the first significant token at or
// before i, or token.None.
func (f *File) FindPrev(i int) int {
	if i >= len(f.Tokens) {
		i = len(f.Tokens) - 1
	}
	for ; i >= 0; i-- {
		if !f.grammar.Ignore[f.Tokens[i].Kind] {
			return i
		}
	}
	return token.None
}
