// Package clike provides a lexer and grammar policy tables for a small
// C-like language with both braced and alternate-syntax control
// structures, braceless single-statement bodies, and PHP-style
// function/class declarations. It exists so the annotation pipeline
// has one complete concrete language to run against; other languages
// plug in through the same raw-token and grammar contracts.
package clike

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/tokenscope/token"
)

// Lexer turns raw source bytes into a flat token sequence. It assigns
// kinds, text, and byte offsets only; line/column mapping is the
// annotation pipeline's job. The lexer never fails: bytes it cannot
// place become error tokens and scanning continues, so the tokens
// always cover the entire input with no gaps.
type Lexer struct {
	input []byte
	pos   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

// Tokenize runs a lexer over input and collects every token up to EOF.
func Tokenize(input []byte) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Kind == token.KindEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() token.Token {
	start := l.pos

	if l.pos >= len(l.input) {
		return token.New(token.KindEOF, "", start)
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(start)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(start)
	}
	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(start)
	}
	if isLetter(ch) {
		return l.scanIdentOrKeyword(start)
	}
	if isDigit(ch) {
		return l.scanNumber(start)
	}
	if ch == '"' || ch == '\'' {
		return l.scanString(start, ch)
	}

	return l.scanOperator(start)
}

func (l *Lexer) token(kind token.Kind, start int) token.Token {
	return token.New(kind, string(l.input[start:l.pos]), start)
}

func (l *Lexer) scanWhitespace(start int) token.Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(token.KindWhitespace, start)
}

func (l *Lexer) scanLineComment(start int) token.Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(token.KindLineComment, start)
}

func (l *Lexer) scanBlockComment(start int) token.Token {
	l.advanceN(2)
	for {
		if l.peek() == 0 {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(token.KindComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start int) token.Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	literal := string(l.input[start:l.pos])
	return token.New(token.LookupKeyword(literal), literal, start)
}

func (l *Lexer) scanNumber(start int) token.Token {
	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	kind := token.KindIntLiteral
	if isFloat {
		kind = token.KindFloatLiteral
	}
	return l.token(kind, start)
}

func (l *Lexer) scanString(start int, quote byte) token.Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
	return l.token(token.KindStringLiteral, start)
}

func (l *Lexer) scanOperator(start int) token.Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(token.KindLParen, start)
	case ')':
		l.advance()
		return l.token(token.KindRParen, start)
	case '{':
		l.advance()
		return l.token(token.KindLBrace, start)
	case '}':
		l.advance()
		return l.token(token.KindRBrace, start)
	case '[':
		l.advance()
		return l.token(token.KindLBracket, start)
	case ']':
		l.advance()
		return l.token(token.KindRBracket, start)
	case ';':
		l.advance()
		return l.token(token.KindSemicolon, start)
	case ',':
		l.advance()
		return l.token(token.KindComma, start)
	case ':':
		l.advance()
		return l.token(token.KindColon, start)
	case '?':
		l.advance()
		return l.token(token.KindQuestion, start)
	case '.':
		l.advance()
		return l.token(token.KindDot, start)
	case '^':
		l.advance()
		return l.token(token.KindBitXor, start)

	case '=':
		if l.peekN(1) == '=' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(token.KindIdentical, start)
			}
			l.advanceN(2)
			return l.token(token.KindEQ, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(token.KindDoubleArrow, start)
		}
		l.advance()
		return l.token(token.KindAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(token.KindNotIdentical, start)
			}
			l.advanceN(2)
			return l.token(token.KindNE, start)
		}
		l.advance()
		return l.token(token.KindNot, start)

	case '<':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(token.KindLE, start)
		}
		l.advance()
		return l.token(token.KindLT, start)

	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(token.KindGE, start)
		}
		l.advance()
		return l.token(token.KindGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(token.KindAnd, start)
		}
		l.advance()
		return l.token(token.KindBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(token.KindOr, start)
		}
		l.advance()
		return l.token(token.KindBitOr, start)

	case '+':
		if l.peekN(1) == '+' {
			l.advanceN(2)
			return l.token(token.KindIncrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(token.KindPlusAssign, start)
		}
		l.advance()
		return l.token(token.KindPlus, start)

	case '-':
		if l.peekN(1) == '-' {
			l.advanceN(2)
			return l.token(token.KindDecrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(token.KindMinusAssign, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(token.KindArrow, start)
		}
		l.advance()
		return l.token(token.KindMinus, start)

	case '*':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(token.KindStarAssign, start)
		}
		l.advance()
		return l.token(token.KindStar, start)

	case '/':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(token.KindSlashAssign, start)
		}
		l.advance()
		return l.token(token.KindSlash, start)

	case '%':
		l.advance()
		return l.token(token.KindPercent, start)
	}

	l.advance()
	return l.token(token.KindError, start)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	if ch >= 128 {
		r, _ := utf8.DecodeRune([]byte{ch})
		return unicode.IsLetter(r) || r == '_' || r == '$'
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isLetterOrDigit(ch byte) bool {
	if ch >= 128 {
		r, _ := utf8.DecodeRune([]byte{ch})
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
	}
	return isLetter(ch) || isDigit(ch)
}
