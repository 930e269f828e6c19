package annotate

import (
	"fmt"

	"github.com/dhamidi/tokenscope/token"
)

// Scope resolution recovers block structure from the flat stream. A
// scope-opening token (if, while, function, ...) owns a body that may
// be a brace block, an alternate-syntax block (": ... endif"), or a
// single braceless statement; the resolver finds the boundary of each
// body and records it symmetrically on the opener and the boundary
// tokens.
//
// The walk is a single left-to-right pass over the stream driven by an
// explicit stack of open frames, so resolution order is left-to-right
// and innermost-first without deep call recursion, and stack depth is
// bounded on adversarial input. Several openers may legitimately end
// at the same closer (case bodies falling through to the switch brace,
// chained braceless conditionals, a shared-closer block at the end of
// an enclosing body); each opener still records its own boundary.

type frameState int

const (
	// frameSeeking: past the opener, body not yet determined.
	frameSeeking frameState = iota
	// frameBlock: inside a body opened by one of the spec's start
	// tokens (a brace or an alternate-syntax colon).
	frameBlock
	// frameStatement: inside a braceless single-statement body.
	frameStatement
)

type scopeFrame struct {
	opener    int
	spec      ScopeSpec
	state     frameState
	bodyStart int  // index of the start token (frameBlock)
	bodyFirst int  // index of the first body token (frameStatement)
	baseParen int  // parenthesis depth the body runs at
	inCond    bool // currently inside the opener's own condition group
}

// resolveScopes fills ScopeCondition, ScopeOpener, and ScopeCloser.
// Scopes that never find a valid boundary are left unresolved with a
// structural warning on the opener; the failure is local and the rest
// of the stream is still annotated.
func (p *Pipeline) resolveScopes(ts token.Stream, warnings []Warning) (token.Stream, []Warning) {
	r := &scopeResolver{p: p, ts: ts, closerCount: make(map[int]int)}

	for i := 0; i < len(ts); i++ {
		kind := ts[i].Kind
		if !p.grammar.significant(kind) {
			continue
		}

		if kind == p.grammar.ParenClose && r.parenDepth > 0 {
			r.parenDepth--
			if top := r.top(); top != nil && top.inCond && r.parenDepth == top.baseParen {
				top.inCond = false
				continue
			}
			continue
		}

		// Close every frame ending at this token before considering
		// the token as an opener of its own: a shared closer pops as
		// many frames as end there.
		for {
			top := r.top()
			if top == nil || !r.closesAt(top, i) {
				break
			}
			r.close(i)
		}

		if spec, isOpener := p.grammar.ScopeSpecs[kind]; isOpener {
			if top := r.top(); top != nil && top.state == frameSeeking &&
				!top.spec.Strict && !top.inCond && r.parenDepth == top.baseParen {
				// The braceless body of the enclosing construct is
				// itself a scope-opener; its resolution nests
				// transparently and both end at the same boundary.
				top.state = frameStatement
				top.bodyFirst = i
			}
			r.push(i, spec)
			continue
		}

		if top := r.top(); top != nil {
			r.feed(top, i)
		}

		if kind == p.grammar.ParenOpen {
			r.parenDepth++
		}
	}

	for j := len(r.stack) - 1; j >= 0; j-- {
		warnings = append(warnings, Warning{
			Code:    WarnUnresolvedScope,
			Message: fmt.Sprintf("scope opened by %q has no closing boundary", ts[r.stack[j].opener].Text),
			Token:   r.stack[j].opener,
		})
	}
	return ts, append(warnings, r.warnings...)
}

type scopeResolver struct {
	p           *Pipeline
	ts          token.Stream
	stack       []*scopeFrame
	parenDepth  int
	closerCount map[int]int
	warnings    []Warning
}

func (r *scopeResolver) top() *scopeFrame {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *scopeResolver) push(opener int, spec ScopeSpec) {
	r.stack = append(r.stack, &scopeFrame{
		opener:    opener,
		spec:      spec,
		state:     frameSeeking,
		bodyStart: token.None,
		bodyFirst: token.None,
		baseParen: r.parenDepth,
	})
}

// feed advances the top frame's state machine with a significant,
// non-opener token. Tokens inside the opener's condition parentheses
// or any deeper parenthesis group never influence body determination.
func (r *scopeResolver) feed(f *scopeFrame, i int) {
	if r.parenDepth != f.baseParen || f.inCond {
		return
	}
	kind := r.ts[i].Kind

	switch f.state {
	case frameSeeking:
		switch {
		case f.spec.hasStart(kind):
			f.state = frameBlock
			f.bodyStart = i

		case kind == r.p.grammar.ParenOpen && !f.spec.Strict &&
			r.p.prevSignificant(r.ts, i) == f.opener:
			// The opener's own condition group; skip to its end.
			f.inCond = true

		case r.p.grammar.Terminators[kind]:
			if f.spec.Strict {
				// A declaration with no body at all, e.g. an
				// abstract method. No scope is recorded.
				r.pop()
			} else {
				// An immediately terminated braceless body.
				r.close(i)
			}

		case f.spec.Strict:
			// Names, modifiers, parameter lists: keep seeking.

		case kind == r.p.grammar.ParenOpen:
			f.state = frameStatement
			f.bodyFirst = i

		default:
			f.state = frameStatement
			f.bodyFirst = i
		}

	case frameStatement:
		if r.p.grammar.Terminators[kind] {
			r.close(i)
		}
	}
}

// closesAt reports whether token i ends the body of frame f.
func (r *scopeResolver) closesAt(f *scopeFrame, i int) bool {
	if f.state != frameBlock {
		return false
	}
	start := r.ts[f.bodyStart]
	if _, bracket := r.p.grammar.BracketPairs[start.Kind]; bracket {
		return start.BracketPartner == i
	}
	// Alternate-syntax bodies close on one of the declared end
	// tokens. A closing bracket only counts when it belongs to a
	// block enclosing this scope, never to a block nested inside it.
	if r.parenDepth != f.baseParen || !f.spec.hasEnd(r.ts[i].Kind) {
		return false
	}
	if _, closer := r.p.openerFor[r.ts[i].Kind]; closer {
		partner := r.ts[i].BracketPartner
		return partner != token.None && partner < f.opener
	}
	return true
}

// close resolves the top frame at closer index c, then cascades: every
// braceless parent whose single-statement body was the frame just
// closed ends at the same boundary.
func (r *scopeResolver) close(c int) {
	f := r.top()
	closer := c

	// A shared block at the end of an enclosing body may adopt the
	// enclosing body's closer, so that one token closes both scopes.
	if f.spec.Shared && f.state == frameBlock {
		if parent := r.parent(); parent != nil && parent.state == frameBlock {
			if pc := r.expectedCloser(parent); pc != token.None && r.p.nextSignificant(r.ts, c) == pc {
				closer = pc
			}
		}
	}

	opener := f.bodyStart
	if f.state == frameStatement {
		opener = token.None
	}
	r.resolveTop(opener, closer)

	for {
		parent := r.top()
		if parent == nil || parent.state != frameStatement || parent.bodyFirst != f.opener {
			break
		}
		f = parent
		r.resolveTop(token.None, closer)
	}
}

// resolveTop records the boundary of the top frame on the opener
// keyword and on the boundary tokens, then pops the frame.
func (r *scopeResolver) resolveTop(opener, closer int) {
	f := r.top()
	ts := r.ts

	cond := f.opener
	ts[cond].ScopeOpener = opener
	ts[cond].ScopeCloser = closer

	if opener != token.None {
		ts[opener].ScopeCondition = cond
		ts[opener].ScopeOpener = opener
		ts[opener].ScopeCloser = closer
	}
	if closer != token.None {
		// A shared closer keeps the condition that claimed it first.
		if ts[closer].ScopeCondition == token.None {
			ts[closer].ScopeCondition = cond
			ts[closer].ScopeOpener = opener
			ts[closer].ScopeCloser = closer
		}
		r.closerCount[closer]++
		if r.closerCount[closer] == 3 {
			r.warnings = append(r.warnings, Warning{
				Code:    WarnSharedCloser,
				Message: fmt.Sprintf("three or more scopes end at %q; boundary ownership is ambiguous", ts[closer].Text),
				Token:   closer,
			})
		}
	}
	r.pop()
}

func (r *scopeResolver) pop() {
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *scopeResolver) parent() *scopeFrame {
	if len(r.stack) < 2 {
		return nil
	}
	return r.stack[len(r.stack)-2]
}

// expectedCloser is the token a block frame will close at, when that
// is already known from bracket matching.
func (r *scopeResolver) expectedCloser(f *scopeFrame) int {
	if f.state != frameBlock {
		return token.None
	}
	start := r.ts[f.bodyStart]
	if _, bracket := r.p.grammar.BracketPairs[start.Kind]; bracket {
		return start.BracketPartner
	}
	return token.None
}
