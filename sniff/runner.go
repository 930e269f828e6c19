package sniff

import (
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/tokenscope/token"
)

var log = commonlog.GetLogger("tokenscope.sniff")

// Runner dispatches registered sniffs over annotated files. Sniffs are
// invoked in registration order per token, tokens in stream order.
type Runner struct {
	sniffs []Sniff
	byKind map[token.Kind][]Sniff
	all    []Sniff
}

func NewRunner(sniffs ...Sniff) *Runner {
	r := &Runner{byKind: make(map[token.Kind][]Sniff)}
	for _, s := range sniffs {
		r.Register(s)
	}
	return r
}

func (r *Runner) Register(s Sniff) {
	r.sniffs = append(r.sniffs, s)
	kinds := s.Kinds()
	if len(kinds) == 0 {
		r.all = append(r.all, s)
		return
	}
	for _, kind := range kinds {
		r.byKind[kind] = append(r.byKind[kind], s)
	}
}

// Codes lists the registered sniff codes, sorted.
func (r *Runner) Codes() []string {
	codes := make([]string, 0, len(r.sniffs))
	for _, s := range r.sniffs {
		codes = append(codes, s.Code())
	}
	sort.Strings(codes)
	return codes
}

// Run walks the file's token stream once, invoking each interested
// sniff per token, and returns the collected violations. Stateful
// sniffs are reset first; a runner may be reused across files.
func (r *Runner) Run(f *File) []Violation {
	for _, s := range r.sniffs {
		if stateful, ok := s.(Resetter); ok {
			stateful.Reset()
		}
	}
	log.Debugf("checking %s: %d tokens, %d sniffs", f.Path, len(f.Tokens), len(r.sniffs))
	for i := range f.Tokens {
		for _, s := range r.all {
			s.Process(f, i)
		}
		for _, s := range r.byKind[f.Tokens[i].Kind] {
			s.Process(f, i)
		}
	}
	return f.Violations()
}
