package annotate

import "github.com/dhamidi/tokenscope/token"

// resolveParens computes, for every token, the ordered stack of
// enclosing round-bracket pairs (innermost last, identified by the
// opener's index) and links each pair to the token owning it. The
// owner of a pair is the nearest significant token before the opener
// when that token is an identifier or a grammar-listed owner kind; a
// plain grouping expression has no owner.
//
// The parenthesis tokens themselves record only the pairs enclosing
// them, not their own pair, mirroring how levels treat scope
// boundaries.
func (p *Pipeline) resolveParens(ts token.Stream) token.Stream {
	owners := make(map[int]int) // opener index -> owner index
	var stack []int

	for i := range ts {
		kind := ts[i].Kind

		if kind == p.grammar.ParenClose && len(stack) > 0 {
			open := stack[len(stack)-1]
			if ts[open].BracketPartner == i || ts[open].BracketPartner == token.None {
				stack = stack[:len(stack)-1]
			}
		}

		if len(stack) > 0 {
			ts[i].ParenStack = append([]int(nil), stack...)
			innermost := stack[len(stack)-1]
			if owner, ok := owners[innermost]; ok {
				ts[i].ParenOwner = owner
			}
		}

		if kind == p.grammar.ParenOpen {
			if owner := p.prevSignificant(ts, i); owner != token.None {
				if ts[owner].Kind == token.KindIdent || p.grammar.ParenOwners[ts[owner].Kind] {
					owners[i] = owner
				}
			}
			stack = append(stack, i)
		}
	}
	return ts
}

// prevSignificant returns the index of the nearest token before i that
// is not whitespace or a comment, or token.None.
func (p *Pipeline) prevSignificant(ts token.Stream, i int) int {
	for j := i - 1; j >= 0; j-- {
		if p.grammar.significant(ts[j].Kind) {
			return j
		}
	}
	return token.None
}

// nextSignificant returns the index of the nearest token after i that
// is not whitespace or a comment, or token.None.
func (p *Pipeline) nextSignificant(ts token.Stream, i int) int {
	for j := i + 1; j < len(ts); j++ {
		if p.grammar.significant(ts[j].Kind) {
			return j
		}
	}
	return token.None
}
