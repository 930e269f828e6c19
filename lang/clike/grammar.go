package clike

import (
	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/token"
)

// DefaultGrammar returns the policy tables describing how this
// language opens and closes scopes. Control structures allow both
// brace and alternate (colon) bodies plus braceless single-statement
// bodies, and may share a closer with the construct enclosing them.
// Declarations require braces; a declaration that reaches a semicolon
// first has no body at all (an abstract method).
func DefaultGrammar() *annotate.Grammar {
	braceOrColon := []token.Kind{token.KindLBrace, token.KindColon}
	braceOnly := []token.Kind{token.KindLBrace}

	control := func(ends ...token.Kind) annotate.ScopeSpec {
		return annotate.ScopeSpec{
			Starts: braceOrColon,
			Ends:   append([]token.Kind{token.KindRBrace}, ends...),
			Shared: true,
		}
	}
	declaration := annotate.ScopeSpec{
		Starts: braceOnly,
		Strict: true,
	}

	return &annotate.Grammar{
		BracketPairs: map[token.Kind]token.Kind{
			token.KindLParen:   token.KindRParen,
			token.KindLBrace:   token.KindRBrace,
			token.KindLBracket: token.KindRBracket,
		},
		ParenOpen:  token.KindLParen,
		ParenClose: token.KindRParen,

		ScopeSpecs: map[token.Kind]annotate.ScopeSpec{
			token.KindIf:      control(token.KindEndIf, token.KindElseIf, token.KindElse),
			token.KindElseIf:  control(token.KindEndIf, token.KindElseIf, token.KindElse),
			token.KindElse:    control(token.KindEndIf),
			token.KindWhile:   control(token.KindEndWhile),
			token.KindFor:     control(token.KindEndFor),
			token.KindForeach: control(token.KindEndForeach),
			token.KindDo: {
				Starts: braceOnly,
			},
			token.KindSwitch: {
				Starts: braceOrColon,
				Ends:   []token.Kind{token.KindRBrace, token.KindEndSwitch},
				Strict: true,
			},
			token.KindCase: {
				Starts: []token.Kind{token.KindColon},
				Ends: []token.Kind{
					token.KindBreak, token.KindContinue, token.KindReturn,
					token.KindThrow, token.KindRBrace, token.KindEndSwitch,
				},
				Strict: true,
				Shared: true,
			},
			token.KindDefault: {
				Starts: []token.Kind{token.KindColon},
				Ends: []token.Kind{
					token.KindBreak, token.KindContinue, token.KindReturn,
					token.KindThrow, token.KindRBrace, token.KindEndSwitch,
				},
				Strict: true,
				Shared: true,
			},
			token.KindFunction:  declaration,
			token.KindClass:     declaration,
			token.KindInterface: declaration,
			token.KindTrait:     declaration,
			token.KindTry:       declaration,
			token.KindCatch:     declaration,
			token.KindFinally:   declaration,
		},

		ParenOwners: map[token.Kind]bool{
			token.KindIf:      true,
			token.KindElseIf:  true,
			token.KindWhile:   true,
			token.KindFor:     true,
			token.KindForeach: true,
			token.KindSwitch:  true,
			token.KindCatch:   true,
			token.KindFunction: true, // anonymous functions own their parameter list
		},

		Terminators: map[token.Kind]bool{
			token.KindSemicolon: true,
		},

		Ignore: map[token.Kind]bool{
			token.KindWhitespace:  true,
			token.KindComment:     true,
			token.KindLineComment: true,
		},
	}
}
