package main

import (
	"fmt"

	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/lang/clike"
)

// buildPipeline assembles the grammar and pipeline shared by the
// annotate, check, and lsp commands. An invalid tab width or rules
// file rejects the whole run before any file is touched.
func buildPipeline(tabWidth int, rulesFile string) (*annotate.Pipeline, *annotate.Grammar, error) {
	grammar := clike.DefaultGrammar()

	if rulesFile != "" {
		rules, err := annotate.LoadRulesFile(rulesFile)
		if err != nil {
			return nil, nil, err
		}
		grammar, err = annotate.ApplyRules(grammar, rules)
		if err != nil {
			return nil, nil, err
		}
	}

	pipeline, err := annotate.New(annotate.Config{
		TabWidth: tabWidth,
		Grammar:  grammar,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure pipeline: %w", err)
	}
	return pipeline, grammar, nil
}
