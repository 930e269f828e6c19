package annotate

import (
	"fmt"

	"github.com/dhamidi/tokenscope/token"
)

// ScopeSpec describes how a scope-opening token finds the boundary of
// its body. The zero value is not usable; every spec needs at least
// one start or the Strict flag decides what a bare terminator means.
type ScopeSpec struct {
	// Starts lists the tokens that can open the body, e.g. "{" for
	// brace bodies and ":" for alternate syntax.
	Starts []token.Kind

	// Ends lists the tokens that can close a non-brace body, e.g.
	// "endif" for alternate syntax or "break" for case bodies. A
	// brace body always closes at the partner of its opening brace.
	Ends []token.Kind

	// Strict scopes require one of Starts to open the body. Reaching
	// a statement terminator first means the construct has no body at
	// all (an abstract method declaration) and no scope is recorded.
	// Non-strict scopes treat the first statement after the condition
	// as a braceless body closed by the next terminator.
	Strict bool

	// Shared scopes may reuse the closer of the enclosing scope when
	// their own boundary coincides with it.
	Shared bool
}

func (s ScopeSpec) hasStart(kind token.Kind) bool {
	for _, start := range s.Starts {
		if start == kind {
			return true
		}
	}
	return false
}

func (s ScopeSpec) hasEnd(kind token.Kind) bool {
	for _, end := range s.Ends {
		if end == kind {
			return true
		}
	}
	return false
}

// Grammar holds the language-specific policy tables the pipeline is
// driven by. The core never hard-codes token kinds; everything it
// needs to know about a language lives here.
type Grammar struct {
	// BracketPairs maps each opening bracket kind to its closing kind.
	BracketPairs map[token.Kind]token.Kind

	// ParenOpen and ParenClose identify the round-bracket pair used
	// for parenthesis nesting and ownership.
	ParenOpen  token.Kind
	ParenClose token.Kind

	// ScopeSpecs maps each scope-opening kind to its resolution policy.
	ScopeSpecs map[token.Kind]ScopeSpec

	// ParenOwners lists the kinds that may own a parenthesis group.
	// Identifiers always may; this set adds keywords such as "if".
	ParenOwners map[token.Kind]bool

	// Terminators lists statement-ending kinds.
	Terminators map[token.Kind]bool

	// Ignore lists kinds skipped when looking for significant tokens:
	// whitespace and comments.
	Ignore map[token.Kind]bool
}

// closerToOpener derives the reverse bracket table.
func (g *Grammar) closerToOpener() map[token.Kind]token.Kind {
	m := make(map[token.Kind]token.Kind, len(g.BracketPairs))
	for open, close := range g.BracketPairs {
		m[close] = open
	}
	return m
}

func (g *Grammar) significant(kind token.Kind) bool {
	return !g.Ignore[kind]
}

func (g *Grammar) validate() error {
	if len(g.BracketPairs) == 0 {
		return fmt.Errorf("grammar: no bracket pairs defined")
	}
	if len(g.ScopeSpecs) == 0 {
		return fmt.Errorf("grammar: no scope specs defined")
	}
	if len(g.Terminators) == 0 {
		return fmt.Errorf("grammar: no statement terminators defined")
	}
	if _, ok := g.BracketPairs[g.ParenOpen]; !ok {
		return fmt.Errorf("grammar: paren opener %q is not a declared bracket pair", g.ParenOpen)
	}
	if g.BracketPairs[g.ParenOpen] != g.ParenClose {
		return fmt.Errorf("grammar: paren pair %q/%q does not match bracket table", g.ParenOpen, g.ParenClose)
	}
	seen := make(map[token.Kind]bool, len(g.BracketPairs))
	for open, close := range g.BracketPairs {
		if open == close {
			return fmt.Errorf("grammar: bracket %q closes itself", open)
		}
		if seen[close] {
			return fmt.Errorf("grammar: closer %q declared for more than one opener", close)
		}
		seen[close] = true
	}
	for opener, spec := range g.ScopeSpecs {
		if len(spec.Starts) == 0 {
			return fmt.Errorf("grammar: scope %q has no body start tokens", opener)
		}
		for _, start := range spec.Starts {
			if _, bracket := g.BracketPairs[start]; !bracket && len(spec.Ends) == 0 {
				return fmt.Errorf("grammar: scope %q start %q is not a bracket and no end tokens are declared", opener, start)
			}
		}
	}
	return nil
}
