package annotate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/tokenscope/token"
)

// RulesFile is the on-disk form of a grammar policy table set. Kinds
// are referenced by their display names ("if", "{", "Whitespace");
// unknown names are a configuration error. A rules file overrides only
// the sections it declares, so a language grammar can be tweaked
// without restating all of it.
type RulesFile struct {
	Scopes      []ScopeRule   `yaml:"scopes"`
	Brackets    []BracketRule `yaml:"brackets"`
	ParenPair   *BracketRule  `yaml:"paren_pair"`
	ParenOwners []string      `yaml:"paren_owners"`
	Terminators []string      `yaml:"terminators"`
	Ignore      []string      `yaml:"ignore"`
}

// ScopeRule declares how one scope-opening token resolves its body.
type ScopeRule struct {
	Token  string   `yaml:"token"`
	Starts []string `yaml:"starts"`
	Ends   []string `yaml:"ends"`
	Strict bool     `yaml:"strict"`
	Shared bool     `yaml:"shared"`
}

// BracketRule declares one open/close bracket pair.
type BracketRule struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// LoadRulesFile reads and parses a YAML grammar rules file.
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", filename, err)
	}
	return &rules, nil
}

// ApplyRules overlays a rules file on a base grammar and returns the
// combined grammar. The base is not modified. Name resolution errors
// are reported here so that an invalid table rejects the configuration
// before any pipeline is built.
func ApplyRules(base *Grammar, rules *RulesFile) (*Grammar, error) {
	g := &Grammar{
		BracketPairs: cloneKinds(base.BracketPairs),
		ParenOpen:    base.ParenOpen,
		ParenClose:   base.ParenClose,
		ScopeSpecs:   cloneSpecs(base.ScopeSpecs),
		ParenOwners:  cloneSet(base.ParenOwners),
		Terminators:  cloneSet(base.Terminators),
		Ignore:       cloneSet(base.Ignore),
	}

	if len(rules.Brackets) > 0 {
		g.BracketPairs = make(map[token.Kind]token.Kind, len(rules.Brackets))
		for _, rule := range rules.Brackets {
			open, err := kindByName(rule.Open)
			if err != nil {
				return nil, err
			}
			close, err := kindByName(rule.Close)
			if err != nil {
				return nil, err
			}
			g.BracketPairs[open] = close
		}
	}

	if rules.ParenPair != nil {
		open, err := kindByName(rules.ParenPair.Open)
		if err != nil {
			return nil, err
		}
		close, err := kindByName(rules.ParenPair.Close)
		if err != nil {
			return nil, err
		}
		g.ParenOpen, g.ParenClose = open, close
	}

	if len(rules.Scopes) > 0 {
		g.ScopeSpecs = make(map[token.Kind]ScopeSpec, len(rules.Scopes))
		for _, rule := range rules.Scopes {
			opener, err := kindByName(rule.Token)
			if err != nil {
				return nil, err
			}
			starts, err := kindsByNames(rule.Starts)
			if err != nil {
				return nil, err
			}
			ends, err := kindsByNames(rule.Ends)
			if err != nil {
				return nil, err
			}
			g.ScopeSpecs[opener] = ScopeSpec{
				Starts: starts,
				Ends:   ends,
				Strict: rule.Strict,
				Shared: rule.Shared,
			}
		}
	}

	if len(rules.ParenOwners) > 0 {
		set, err := kindSet(rules.ParenOwners)
		if err != nil {
			return nil, err
		}
		g.ParenOwners = set
	}
	if len(rules.Terminators) > 0 {
		set, err := kindSet(rules.Terminators)
		if err != nil {
			return nil, err
		}
		g.Terminators = set
	}
	if len(rules.Ignore) > 0 {
		set, err := kindSet(rules.Ignore)
		if err != nil {
			return nil, err
		}
		g.Ignore = set
	}

	return g, nil
}

func kindByName(name string) (token.Kind, error) {
	kind, ok := token.KindByName(name)
	if !ok {
		return 0, fmt.Errorf("rules: unknown token kind %q", name)
	}
	return kind, nil
}

func kindsByNames(names []string) ([]token.Kind, error) {
	kinds := make([]token.Kind, 0, len(names))
	for _, name := range names {
		kind, err := kindByName(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func kindSet(names []string) (map[token.Kind]bool, error) {
	set := make(map[token.Kind]bool, len(names))
	for _, name := range names {
		kind, err := kindByName(name)
		if err != nil {
			return nil, err
		}
		set[kind] = true
	}
	return set, nil
}

func cloneKinds(m map[token.Kind]token.Kind) map[token.Kind]token.Kind {
	out := make(map[token.Kind]token.Kind, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSet(m map[token.Kind]bool) map[token.Kind]bool {
	out := make(map[token.Kind]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSpecs(m map[token.Kind]ScopeSpec) map[token.Kind]ScopeSpec {
	out := make(map[token.Kind]ScopeSpec, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
