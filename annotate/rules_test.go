package annotate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/lang/clike"
	"github.com/dhamidi/tokenscope/token"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return path
}

func TestLoadRulesFile(t *testing.T) {
	path := writeRules(t, `
scopes:
  - token: if
    starts: ["{"]
    strict: true
terminators: [";"]
`)

	rules, err := annotate.LoadRulesFile(path)
	if err != nil {
		t.Fatalf("LoadRulesFile() error = %v", err)
	}
	if len(rules.Scopes) != 1 {
		t.Fatalf("len(Scopes) = %d, want 1", len(rules.Scopes))
	}
	if rules.Scopes[0].Token != "if" || !rules.Scopes[0].Strict {
		t.Errorf("Scopes[0] = %+v, want if/strict", rules.Scopes[0])
	}
	if len(rules.Terminators) != 1 || rules.Terminators[0] != ";" {
		t.Errorf("Terminators = %v, want [;]", rules.Terminators)
	}
}

func TestLoadRulesFileErrors(t *testing.T) {
	if _, err := annotate.LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadRulesFile(missing) error = nil, want error")
	}

	path := writeRules(t, "scopes: [unclosed")
	if _, err := annotate.LoadRulesFile(path); err == nil {
		t.Errorf("LoadRulesFile(malformed) error = nil, want error")
	}
}

// A rules file overrides only the sections it declares; everything
// else comes from the base grammar.
func TestApplyRulesOverlay(t *testing.T) {
	base := clike.DefaultGrammar()
	rules := &annotate.RulesFile{
		Scopes: []annotate.ScopeRule{
			{Token: "if", Starts: []string{"{"}, Strict: true},
		},
		Ignore: []string{"Whitespace"},
	}

	g, err := annotate.ApplyRules(base, rules)
	if err != nil {
		t.Fatalf("ApplyRules() error = %v", err)
	}

	spec, ok := g.ScopeSpecs[token.KindIf]
	if !ok {
		t.Fatalf("if spec missing after overlay")
	}
	if !spec.Strict {
		t.Errorf("if Strict = false, want true")
	}
	if _, ok := g.ScopeSpecs[token.KindWhile]; ok {
		t.Errorf("while spec survived a scopes overlay, want replaced table")
	}

	if g.Ignore[token.KindComment] {
		t.Errorf("Comment still ignored after ignore overlay")
	}
	if !g.Ignore[token.KindWhitespace] {
		t.Errorf("Whitespace not ignored after ignore overlay")
	}

	// Undeclared sections are inherited.
	if g.BracketPairs[token.KindLBrace] != token.KindRBrace {
		t.Errorf("BracketPairs not inherited from base")
	}
	if !g.Terminators[token.KindSemicolon] {
		t.Errorf("Terminators not inherited from base")
	}
}

func TestApplyRulesDoesNotModifyBase(t *testing.T) {
	base := clike.DefaultGrammar()
	rules := &annotate.RulesFile{Terminators: []string{","}}

	if _, err := annotate.ApplyRules(base, rules); err != nil {
		t.Fatalf("ApplyRules() error = %v", err)
	}
	if !base.Terminators[token.KindSemicolon] {
		t.Errorf("base grammar modified by overlay")
	}
}

func TestApplyRulesUnknownKind(t *testing.T) {
	tests := []struct {
		name  string
		rules *annotate.RulesFile
	}{
		{"scope token", &annotate.RulesFile{
			Scopes: []annotate.ScopeRule{{Token: "frobnicate", Starts: []string{"{"}}},
		}},
		{"scope start", &annotate.RulesFile{
			Scopes: []annotate.ScopeRule{{Token: "if", Starts: []string{"???"}}},
		}},
		{"bracket", &annotate.RulesFile{
			Brackets: []annotate.BracketRule{{Open: "<<", Close: ">>"}},
		}},
		{"paren pair", &annotate.RulesFile{
			ParenPair: &annotate.BracketRule{Open: "(", Close: "nope"},
		}},
		{"terminator", &annotate.RulesFile{Terminators: []string{"EndOfLine"}}},
		{"ignore", &annotate.RulesFile{Ignore: []string{"Blanks"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := annotate.ApplyRules(clike.DefaultGrammar(), tt.rules); err == nil {
				t.Errorf("ApplyRules() error = nil, want unknown-kind error")
			}
		})
	}
}

// An overlaid grammar feeds straight into pipeline construction, so a
// rules file that produces an invalid grammar is rejected there.
func TestApplyRulesThenNew(t *testing.T) {
	rules := &annotate.RulesFile{
		Scopes: []annotate.ScopeRule{
			{Token: "while", Starts: []string{":"}},
		},
	}
	g, err := annotate.ApplyRules(clike.DefaultGrammar(), rules)
	if err != nil {
		t.Fatalf("ApplyRules() error = %v", err)
	}
	if _, err := annotate.New(annotate.Config{Grammar: g}); err == nil {
		t.Errorf("New() error = nil, want invalid grammar (colon start with no ends)")
	}
}
