package annotate

import (
	"fmt"

	"github.com/dhamidi/tokenscope/token"
)

// matchBrackets pairs every opening bracket-like token with its
// closing counterpart using stack discipline and records the match on
// both tokens. Mismatched or unmatched closers are tolerated: the
// closer is left without a partner, a warning is recorded, and the
// scan re-synchronizes on the next token. For well-formed input the
// pairing is a non-crossing bijection with the partner index of every
// opener strictly greater than the opener's own.
func (p *Pipeline) matchBrackets(ts token.Stream, warnings []Warning) (token.Stream, []Warning) {
	var stack []int

	for i := range ts {
		kind := ts[i].Kind
		if _, isOpener := p.grammar.BracketPairs[kind]; isOpener {
			stack = append(stack, i)
			continue
		}
		openKind, isCloser := p.openerFor[kind]
		if !isCloser {
			continue
		}
		if len(stack) == 0 {
			warnings = append(warnings, Warning{
				Code:    WarnUnmatchedBracket,
				Message: fmt.Sprintf("closing %q has no matching opener", ts[i].Text),
				Token:   i,
			})
			continue
		}
		open := stack[len(stack)-1]
		if ts[open].Kind != openKind {
			// The closer does not belong to the innermost open
			// bracket. Leave both unpaired for now; the opener may
			// still find its own closer later.
			warnings = append(warnings, Warning{
				Code:    WarnMismatchedBracket,
				Message: fmt.Sprintf("closing %q does not match open %q", ts[i].Text, ts[open].Text),
				Token:   i,
			})
			continue
		}
		stack = stack[:len(stack)-1]
		ts[open].BracketPartner = i
		ts[i].BracketPartner = open
	}

	for _, open := range stack {
		warnings = append(warnings, Warning{
			Code:    WarnUnmatchedBracket,
			Message: fmt.Sprintf("opening %q is never closed", ts[open].Text),
			Token:   open,
		})
	}

	return ts, warnings
}
