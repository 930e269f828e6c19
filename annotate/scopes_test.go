package annotate_test

import (
	"testing"

	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/token"
)

func TestScopeBraceBody(t *testing.T) {
	ts, warnings := run(t, "if ($x) { $y = 1; }")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	open := at(t, ts, "{", 0)
	close := at(t, ts, "}", 0)

	if ts[ifTok].ScopeOpener != open {
		t.Errorf("if ScopeOpener = %d, want %d", ts[ifTok].ScopeOpener, open)
	}
	if ts[ifTok].ScopeCloser != close {
		t.Errorf("if ScopeCloser = %d, want %d", ts[ifTok].ScopeCloser, close)
	}
	for _, boundary := range []int{open, close} {
		if ts[boundary].ScopeCondition != ifTok {
			t.Errorf("token %d ScopeCondition = %d, want %d", boundary, ts[boundary].ScopeCondition, ifTok)
		}
		if ts[boundary].ScopeOpener != open {
			t.Errorf("token %d ScopeOpener = %d, want %d", boundary, ts[boundary].ScopeOpener, open)
		}
		if ts[boundary].ScopeCloser != close {
			t.Errorf("token %d ScopeCloser = %d, want %d", boundary, ts[boundary].ScopeCloser, close)
		}
	}
	if ts[ifTok].ScopeCondition != token.None {
		t.Errorf("if ScopeCondition = %d, want None", ts[ifTok].ScopeCondition)
	}
}

// A braceless body records the closer on the opener keyword but has no
// opener marker, and tokens after the terminator are untouched.
func TestScopeBracelessBody(t *testing.T) {
	ts, warnings := run(t, "if ($x) $y = 1; $z = 2;")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	semi := at(t, ts, ";", 0)
	z := at(t, ts, "$z", 0)

	if ts[ifTok].ScopeOpener != token.None {
		t.Errorf("if ScopeOpener = %d, want None", ts[ifTok].ScopeOpener)
	}
	if ts[ifTok].ScopeCloser != semi {
		t.Errorf("if ScopeCloser = %d, want %d", ts[ifTok].ScopeCloser, semi)
	}
	if ts[z].ScopeCondition != token.None || ts[z].Level != 0 {
		t.Errorf("$z ScopeCondition = %d, Level = %d; want None, 0", ts[z].ScopeCondition, ts[z].Level)
	}
}

// Chained braceless conditionals all end at the terminator of the
// innermost body.
func TestScopeBracelessCascade(t *testing.T) {
	ts, warnings := run(t, "if ($a) if ($b) $c = 1;")
	noWarnings(t, warnings)

	outer := at(t, ts, "if", 0)
	inner := at(t, ts, "if", 1)
	semi := at(t, ts, ";", 0)

	for _, cond := range []int{outer, inner} {
		if ts[cond].ScopeCloser != semi {
			t.Errorf("token %d ScopeCloser = %d, want %d", cond, ts[cond].ScopeCloser, semi)
		}
		if ts[cond].ScopeOpener != token.None {
			t.Errorf("token %d ScopeOpener = %d, want None", cond, ts[cond].ScopeOpener)
		}
	}
	// The boundary keeps the condition that claimed it first, the
	// innermost one.
	if ts[semi].ScopeCondition != inner {
		t.Errorf("terminator ScopeCondition = %d, want %d", ts[semi].ScopeCondition, inner)
	}
}

// A block at the end of an enclosing body shares the enclosing body's
// closer: the final brace closes both the if and the function.
func TestScopeSharedCloser(t *testing.T) {
	ts, warnings := run(t, "function f() { if ($x) { return 1; } }")
	noWarnings(t, warnings)

	fn := at(t, ts, "function", 0)
	ifTok := at(t, ts, "if", 0)
	ifOpen := at(t, ts, "{", 1)
	final := at(t, ts, "}", 1)

	if ts[fn].ScopeCloser != final {
		t.Errorf("function ScopeCloser = %d, want %d", ts[fn].ScopeCloser, final)
	}
	if ts[ifTok].ScopeCloser != final {
		t.Errorf("if ScopeCloser = %d, want %d", ts[ifTok].ScopeCloser, final)
	}
	if ts[ifTok].ScopeOpener != ifOpen {
		t.Errorf("if ScopeOpener = %d, want %d", ts[ifTok].ScopeOpener, ifOpen)
	}
	if ts[final].ScopeCondition != ifTok {
		t.Errorf("final brace ScopeCondition = %d, want %d (first claim)", ts[final].ScopeCondition, ifTok)
	}
}

// A block followed by more statements keeps its own closer; nothing is
// promoted.
func TestScopeNoPromotionMidBody(t *testing.T) {
	ts, warnings := run(t, "function f() { if ($x) { return 1; } $y = 2; }")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	ifClose := at(t, ts, "}", 0)
	final := at(t, ts, "}", 1)
	fn := at(t, ts, "function", 0)

	if ts[ifTok].ScopeCloser != ifClose {
		t.Errorf("if ScopeCloser = %d, want %d", ts[ifTok].ScopeCloser, ifClose)
	}
	if ts[fn].ScopeCloser != final {
		t.Errorf("function ScopeCloser = %d, want %d", ts[fn].ScopeCloser, final)
	}
}

func TestScopeAlternateSyntax(t *testing.T) {
	ts, warnings := run(t, "if ($x): $y = 1; endif;")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	colon := at(t, ts, ":", 0)
	endif := at(t, ts, "endif", 0)

	if ts[ifTok].ScopeOpener != colon {
		t.Errorf("if ScopeOpener = %d, want %d", ts[ifTok].ScopeOpener, colon)
	}
	if ts[ifTok].ScopeCloser != endif {
		t.Errorf("if ScopeCloser = %d, want %d", ts[ifTok].ScopeCloser, endif)
	}
	if ts[colon].ScopeCondition != ifTok || ts[endif].ScopeCondition != ifTok {
		t.Errorf("boundary conditions = %d, %d; want both %d",
			ts[colon].ScopeCondition, ts[endif].ScopeCondition, ifTok)
	}
}

// In an alternate-syntax chain the elseif both closes the if body and
// opens its own.
func TestScopeAlternateChain(t *testing.T) {
	ts, warnings := run(t, "if ($a): $x = 1; elseif ($b): $x = 2; endif;")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	elseif := at(t, ts, "elseif", 0)
	colon1 := at(t, ts, ":", 0)
	colon2 := at(t, ts, ":", 1)
	endif := at(t, ts, "endif", 0)

	if ts[ifTok].ScopeOpener != colon1 || ts[ifTok].ScopeCloser != elseif {
		t.Errorf("if scope = (%d, %d), want (%d, %d)",
			ts[ifTok].ScopeOpener, ts[ifTok].ScopeCloser, colon1, elseif)
	}
	if ts[elseif].ScopeCondition != ifTok {
		t.Errorf("elseif ScopeCondition = %d, want %d", ts[elseif].ScopeCondition, ifTok)
	}
	if ts[elseif].ScopeOpener != colon2 || ts[elseif].ScopeCloser != endif {
		t.Errorf("elseif scope = (%d, %d), want (%d, %d)",
			ts[elseif].ScopeOpener, ts[elseif].ScopeCloser, colon2, endif)
	}
}

func TestScopeElseBlock(t *testing.T) {
	ts, warnings := run(t, "if ($x) { $a = 1; } else { $b = 2; }")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	elseTok := at(t, ts, "else", 0)

	if ts[ifTok].ScopeCloser != at(t, ts, "}", 0) {
		t.Errorf("if ScopeCloser = %d, want first brace", ts[ifTok].ScopeCloser)
	}
	if ts[elseTok].ScopeOpener != at(t, ts, "{", 1) {
		t.Errorf("else ScopeOpener = %d, want second open brace", ts[elseTok].ScopeOpener)
	}
	if ts[elseTok].ScopeCloser != at(t, ts, "}", 1) {
		t.Errorf("else ScopeCloser = %d, want second close brace", ts[elseTok].ScopeCloser)
	}
}

func TestScopeBracelessElse(t *testing.T) {
	ts, warnings := run(t, "if ($x) $a = 1; else $b = 2;")
	noWarnings(t, warnings)

	ifTok := at(t, ts, "if", 0)
	elseTok := at(t, ts, "else", 0)

	if ts[ifTok].ScopeCloser != at(t, ts, ";", 0) {
		t.Errorf("if ScopeCloser = %d, want first terminator", ts[ifTok].ScopeCloser)
	}
	if ts[elseTok].ScopeCloser != at(t, ts, ";", 1) {
		t.Errorf("else ScopeCloser = %d, want second terminator", ts[elseTok].ScopeCloser)
	}
}

func TestScopeSwitchCases(t *testing.T) {
	ts, warnings := run(t, "switch ($x) { case 1: $a = 1; break; default: $b = 2; }")
	noWarnings(t, warnings)

	swTok := at(t, ts, "switch", 0)
	caseTok := at(t, ts, "case", 0)
	defTok := at(t, ts, "default", 0)
	open := at(t, ts, "{", 0)
	close := at(t, ts, "}", 0)
	breakTok := at(t, ts, "break", 0)
	colon1 := at(t, ts, ":", 0)
	colon2 := at(t, ts, ":", 1)

	if ts[swTok].ScopeOpener != open || ts[swTok].ScopeCloser != close {
		t.Errorf("switch scope = (%d, %d), want (%d, %d)",
			ts[swTok].ScopeOpener, ts[swTok].ScopeCloser, open, close)
	}
	if ts[caseTok].ScopeOpener != colon1 || ts[caseTok].ScopeCloser != breakTok {
		t.Errorf("case scope = (%d, %d), want (%d, %d)",
			ts[caseTok].ScopeOpener, ts[caseTok].ScopeCloser, colon1, breakTok)
	}
	// The default body falls through to the switch brace, sharing it.
	if ts[defTok].ScopeOpener != colon2 || ts[defTok].ScopeCloser != close {
		t.Errorf("default scope = (%d, %d), want (%d, %d)",
			ts[defTok].ScopeOpener, ts[defTok].ScopeCloser, colon2, close)
	}
	if ts[close].ScopeCondition != defTok {
		t.Errorf("switch brace ScopeCondition = %d, want %d (first claim)", ts[close].ScopeCondition, defTok)
	}
}

func TestScopeDoWhile(t *testing.T) {
	ts, warnings := run(t, "do { $a++; } while ($a < 10);")
	noWarnings(t, warnings)

	doTok := at(t, ts, "do", 0)
	whileTok := at(t, ts, "while", 0)
	open := at(t, ts, "{", 0)
	close := at(t, ts, "}", 0)
	semi := at(t, ts, ";", 1)

	if ts[doTok].ScopeOpener != open || ts[doTok].ScopeCloser != close {
		t.Errorf("do scope = (%d, %d), want (%d, %d)",
			ts[doTok].ScopeOpener, ts[doTok].ScopeCloser, open, close)
	}
	// The trailing while has no body of its own; it degenerates to a
	// braceless scope closed by the statement terminator.
	if ts[whileTok].ScopeOpener != token.None || ts[whileTok].ScopeCloser != semi {
		t.Errorf("while scope = (%d, %d), want (None, %d)",
			ts[whileTok].ScopeOpener, ts[whileTok].ScopeCloser, semi)
	}
}

// A closure inside an argument list resolves at its own brace depth
// without disturbing the surrounding call.
func TestScopeClosureInArguments(t *testing.T) {
	ts, warnings := run(t, "register(function ($e) { handle($e); });")
	noWarnings(t, warnings)

	fn := at(t, ts, "function", 0)
	open := at(t, ts, "{", 0)
	close := at(t, ts, "}", 0)

	if ts[fn].ScopeOpener != open || ts[fn].ScopeCloser != close {
		t.Errorf("function scope = (%d, %d), want (%d, %d)",
			ts[fn].ScopeOpener, ts[fn].ScopeCloser, open, close)
	}
}

// A declaration that reaches a terminator before any body start has no
// scope at all.
func TestScopeAbstractDeclaration(t *testing.T) {
	ts, warnings := run(t, "abstract function f($a);")
	noWarnings(t, warnings)

	fn := at(t, ts, "function", 0)
	if ts[fn].ScopeOpener != token.None || ts[fn].ScopeCloser != token.None {
		t.Errorf("function scope = (%d, %d), want (None, None)",
			ts[fn].ScopeOpener, ts[fn].ScopeCloser)
	}
}

func TestScopeUnresolvedAtEOF(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"open brace", "if ($x) {"},
		{"condition only", "if ($x)"},
		{"bare keyword", "function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, warnings := run(t, tt.src)

			var found bool
			for _, w := range warnings {
				if w.Code == annotate.WarnUnresolvedScope {
					found = true
				}
			}
			if !found {
				t.Errorf("no %s warning in %v", annotate.WarnUnresolvedScope, warnings)
			}
		})
	}
}

func TestScopeSharedCloserWarning(t *testing.T) {
	ts, warnings := run(t, "if ($a) if ($b) if ($c) $x = 1;")

	semi := at(t, ts, ";", 0)
	var shared int
	for _, w := range warnings {
		if w.Code == annotate.WarnSharedCloser {
			shared++
			if w.Token != semi {
				t.Errorf("warning token = %d, want %d", w.Token, semi)
			}
		}
	}
	if shared != 1 {
		t.Errorf("shared-closer warnings = %d, want 1", shared)
	}

	for n := 0; n < 3; n++ {
		cond := at(t, ts, "if", n)
		if ts[cond].ScopeCloser != semi {
			t.Errorf("if #%d ScopeCloser = %d, want %d", n, ts[cond].ScopeCloser, semi)
		}
	}
}

// Two scopes sharing a closer is normal and does not warn.
func TestScopeTwoSharedClosersDoNotWarn(t *testing.T) {
	_, warnings := run(t, "function f() { if ($x) { return 1; } }")

	for _, w := range warnings {
		if w.Code == annotate.WarnSharedCloser {
			t.Errorf("unexpected shared-closer warning: %v", w)
		}
	}
}
