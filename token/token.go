// Package token defines the lexical token model shared by the lexer,
// the annotation pipeline, and the rule engine. A token stream is a
// plain slice; the position of a token in the slice is its identity,
// and all structural cross-references are integer indices into the
// same slice.
package token

// None marks an unset index-valued field.
const None = -1

type Kind int

const (
	KindEOF Kind = iota
	KindError
	KindWhitespace
	KindComment
	KindLineComment

	// Literals
	KindIdent
	KindIntLiteral
	KindFloatLiteral
	KindStringLiteral
	KindTrue
	KindFalse
	KindNull

	// Keywords
	KindAbstract
	KindBreak
	KindCase
	KindCatch
	KindClass
	KindConst
	KindContinue
	KindDefault
	KindDo
	KindEcho
	KindElse
	KindElseIf
	KindFinal
	KindFinally
	KindFor
	KindForeach
	KindFunction
	KindIf
	KindInstanceof
	KindInterface
	KindNew
	KindPrivate
	KindProtected
	KindPublic
	KindReturn
	KindStatic
	KindSwitch
	KindThrow
	KindTrait
	KindTry
	KindUse
	KindVar
	KindWhile

	// Alternate-syntax body terminators
	KindEndIf
	KindEndWhile
	KindEndFor
	KindEndForeach
	KindEndSwitch

	// Operators and punctuation
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindSemicolon
	KindComma
	KindDot
	KindColon
	KindQuestion
	KindArrow
	KindDoubleArrow

	KindAssign
	KindEQ
	KindNE
	KindIdentical
	KindNotIdentical
	KindLT
	KindLE
	KindGT
	KindGE
	KindAnd
	KindOr
	KindNot
	KindBitAnd
	KindBitOr
	KindBitXor
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPercent
	KindIncrement
	KindDecrement
	KindPlusAssign
	KindMinusAssign
	KindStarAssign
	KindSlashAssign
)

var kindNames = map[Kind]string{
	KindEOF:           "EOF",
	KindError:         "Error",
	KindWhitespace:    "Whitespace",
	KindComment:       "Comment",
	KindLineComment:   "LineComment",
	KindIdent:         "Identifier",
	KindIntLiteral:    "IntLiteral",
	KindFloatLiteral:  "FloatLiteral",
	KindStringLiteral: "StringLiteral",
	KindTrue:          "true",
	KindFalse:         "false",
	KindNull:          "null",
	KindAbstract:      "abstract",
	KindBreak:         "break",
	KindCase:          "case",
	KindCatch:         "catch",
	KindClass:         "class",
	KindConst:         "const",
	KindContinue:      "continue",
	KindDefault:       "default",
	KindDo:            "do",
	KindEcho:          "echo",
	KindElse:          "else",
	KindElseIf:        "elseif",
	KindFinal:         "final",
	KindFinally:       "finally",
	KindFor:           "for",
	KindForeach:       "foreach",
	KindFunction:      "function",
	KindIf:            "if",
	KindInstanceof:    "instanceof",
	KindInterface:     "interface",
	KindNew:           "new",
	KindPrivate:       "private",
	KindProtected:     "protected",
	KindPublic:        "public",
	KindReturn:        "return",
	KindStatic:        "static",
	KindSwitch:        "switch",
	KindThrow:         "throw",
	KindTrait:         "trait",
	KindTry:           "try",
	KindUse:           "use",
	KindVar:           "var",
	KindWhile:         "while",
	KindEndIf:         "endif",
	KindEndWhile:      "endwhile",
	KindEndFor:        "endfor",
	KindEndForeach:    "endforeach",
	KindEndSwitch:     "endswitch",
	KindLParen:        "(",
	KindRParen:        ")",
	KindLBrace:        "{",
	KindRBrace:        "}",
	KindLBracket:      "[",
	KindRBracket:      "]",
	KindSemicolon:     ";",
	KindComma:         ",",
	KindDot:           ".",
	KindColon:         ":",
	KindQuestion:      "?",
	KindArrow:         "->",
	KindDoubleArrow:   "=>",
	KindAssign:        "=",
	KindEQ:            "==",
	KindNE:            "!=",
	KindIdentical:     "===",
	KindNotIdentical:  "!==",
	KindLT:            "<",
	KindLE:            "<=",
	KindGT:            ">",
	KindGE:            ">=",
	KindAnd:           "&&",
	KindOr:            "||",
	KindNot:           "!",
	KindBitAnd:        "&",
	KindBitOr:         "|",
	KindBitXor:        "^",
	KindPlus:          "+",
	KindMinus:         "-",
	KindStar:          "*",
	KindSlash:         "/",
	KindPercent:       "%",
	KindIncrement:     "++",
	KindDecrement:     "--",
	KindPlusAssign:    "+=",
	KindMinusAssign:   "-=",
	KindStarAssign:    "*=",
	KindSlashAssign:   "/=",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for kind, name := range kindNames {
		m[name] = kind
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// KindByName resolves the display name of a kind back to the kind
// itself. Policy rule files reference kinds by these names.
func KindByName(name string) (Kind, bool) {
	kind, ok := kindsByName[name]
	return kind, ok
}

func (k Kind) MarshalJSON() ([]byte, error) {
	name := k.String()
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	out = append(out, name...)
	out = append(out, '"')
	return out, nil
}

var keywords = map[string]Kind{
	"abstract":   KindAbstract,
	"break":      KindBreak,
	"case":       KindCase,
	"catch":      KindCatch,
	"class":      KindClass,
	"const":      KindConst,
	"continue":   KindContinue,
	"default":    KindDefault,
	"do":         KindDo,
	"echo":       KindEcho,
	"else":       KindElse,
	"elseif":     KindElseIf,
	"endfor":     KindEndFor,
	"endforeach": KindEndForeach,
	"endif":      KindEndIf,
	"endswitch":  KindEndSwitch,
	"endwhile":   KindEndWhile,
	"false":      KindFalse,
	"final":      KindFinal,
	"finally":    KindFinally,
	"for":        KindFor,
	"foreach":    KindForeach,
	"function":   KindFunction,
	"if":         KindIf,
	"instanceof": KindInstanceof,
	"interface":  KindInterface,
	"new":        KindNew,
	"null":       KindNull,
	"private":    KindPrivate,
	"protected":  KindProtected,
	"public":     KindPublic,
	"return":     KindReturn,
	"static":     KindStatic,
	"switch":     KindSwitch,
	"throw":      KindThrow,
	"trait":      KindTrait,
	"true":       KindTrue,
	"try":        KindTry,
	"use":        KindUse,
	"var":        KindVar,
	"while":      KindWhile,
}

func LookupKeyword(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdent
}

// Token is the atomic unit of the stream. The lexer fills Kind, Text,
// and Offset; every other field is populated by the annotation
// pipeline. Index-valued fields hold None until the owning stage has
// run (or when the relationship does not exist for this token).
type Token struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Offset int    `json:"offset"`

	// OrigText holds the pre-expansion text, set only when tab
	// expansion actually changed the text.
	OrigText string `json:"origText,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Length   int    `json:"length"`

	BracketPartner int   `json:"bracketPartner"`
	ParenStack     []int `json:"parenStack,omitempty"`
	ParenOwner     int   `json:"parenOwner"`
	ScopeCondition int   `json:"scopeCondition"`
	ScopeOpener    int   `json:"scopeOpener"`
	ScopeCloser    int   `json:"scopeCloser"`
	Level          int   `json:"level"`
	Conditions     []int `json:"conditions,omitempty"`
}

// New returns a raw token with all structural fields unset.
func New(kind Kind, text string, offset int) Token {
	return Token{
		Kind:           kind,
		Text:           text,
		Offset:         offset,
		BracketPartner: None,
		ParenOwner:     None,
		ScopeCondition: None,
		ScopeOpener:    None,
		ScopeCloser:    None,
	}
}

// Stream is an ordered, index-addressed token sequence. Indices are
// stable for the lifetime of one annotation pass; re-tokenizing
// produces a new stream with fresh indices.
type Stream []Token

// HasCondition reports whether token i is enclosed by a scope opened
// by a token of the given kind.
func (s Stream) HasCondition(i int, kind Kind) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	for _, cond := range s[i].Conditions {
		if s[cond].Kind == kind {
			return true
		}
	}
	return false
}
