// Package sniff is a small rule engine over annotated token streams.
// Sniffs register the token kinds they care about and are invoked once
// per matching token with read-only access to the stream's structural
// annotations; they never re-parse and the engine never mutates the
// stream.
package sniff

import "github.com/dhamidi/tokenscope/token"

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Violation is one finding reported by a sniff.
type Violation struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Sniff is one analysis rule. Kinds lists the token kinds the sniff
// wants to see; a nil or empty list registers it for every token.
// Process is called with the index of each matching token.
type Sniff interface {
	Code() string
	Kinds() []token.Kind
	Process(f *File, i int)
}

// Resetter is implemented by sniffs that carry per-file state. The
// runner resets them at the start of each file, so one runner can be
// reused across files and repeated runs.
type Resetter interface {
	Reset()
}
