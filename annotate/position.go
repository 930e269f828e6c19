package annotate

import (
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/tokenscope/token"
)

// assignPositions walks the stream once left to right, assigning each
// token its 1-based line and column and expanding tabs into the
// equivalent run of spaces. The pre-expansion text is kept in OrigText
// only when expansion actually changed the text. This stage never
// fails: invalid byte sequences degrade to byte-length counting for
// the affected token.
func (p *Pipeline) assignPositions(ts token.Stream) token.Stream {
	line, col := 1, 1
	for i := range ts {
		tok := &ts[i]
		reset(tok)
		tok.Line = line
		tok.Column = col

		text := tok.Text
		if strings.ContainsRune(text, '\t') {
			expanded := p.expandTabs(text, col)
			if expanded != text {
				tok.OrigText = text
				tok.Text = expanded
				text = expanded
			}
		}

		tok.Length = p.width(text)
		line, col = p.advance(text, line, col)
	}
	return ts
}

// reset normalizes structural fields so that a stream built without
// token.New still starts from a clean slate.
func reset(tok *token.Token) {
	tok.OrigText = ""
	tok.BracketPartner = token.None
	tok.ParenStack = nil
	tok.ParenOwner = token.None
	tok.ScopeCondition = token.None
	tok.ScopeOpener = token.None
	tok.ScopeCloser = token.None
	tok.Level = 0
	tok.Conditions = nil
}

// expandTabs rewrites every tab in text as the run of spaces that
// carries the column to the next tab stop. A token consisting solely
// of tabs takes the closed-form size
//
//	firstTabSize + tabWidth*(numTabs-1)
//
// where firstTabSize = tabWidth - ((col-1) mod tabWidth); mixed
// content walks the text advancing a running column, so a tab landing
// on an already aligned column consumes exactly one column.
func (p *Pipeline) expandTabs(text string, col int) string {
	if isAllTabs(text) {
		first := p.tabWidth - ((col - 1) % p.tabWidth)
		size := first + p.tabWidth*(len(text)-1)
		return strings.Repeat(" ", size)
	}

	var out strings.Builder
	out.Grow(len(text) + p.tabWidth)
	byUnits(text, p.byteLen, func(r rune, lit string) {
		switch r {
		case '\t':
			pad := p.tabWidth - ((col - 1) % p.tabWidth)
			out.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n':
			out.WriteString(lit)
			col = 1
		default:
			out.WriteString(lit)
			col++
		}
	})
	return out.String()
}

func isAllTabs(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != '\t' {
			return false
		}
	}
	return len(text) > 0
}

// width is the display width of normalized text: codepoints when the
// bytes are valid UTF-8 (unless the pipeline is configured for raw
// bytes), bytes otherwise.
func (p *Pipeline) width(text string) int {
	if p.byteLen || !utf8.ValidString(text) {
		return len(text)
	}
	return utf8.RuneCountInString(text)
}

// advance moves the running line/column counters across text. Lines
// are counted from embedded line terminators.
func (p *Pipeline) advance(text string, line, col int) (int, int) {
	byUnits(text, p.byteLen, func(r rune, lit string) {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	})
	return line, col
}

// byUnits visits text one display unit at a time: one rune per unit
// for valid UTF-8, one byte per unit otherwise.
func byUnits(text string, byteLen bool, visit func(r rune, lit string)) {
	if byteLen || !utf8.ValidString(text) {
		for i := 0; i < len(text); i++ {
			visit(rune(text[i]), text[i:i+1])
		}
		return
	}
	for i, r := range text {
		_, size := utf8.DecodeRuneInString(text[i:])
		visit(r, text[i:i+size])
	}
}
