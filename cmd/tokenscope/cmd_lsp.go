package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/tokenscope/lsp"
	"github.com/dhamidi/tokenscope/sniff"
)

func newLSPCmd() *cobra.Command {
	var tabWidth int
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, grammar, err := buildPipeline(tabWidth, rulesFile)
			if err != nil {
				return err
			}
			runner := sniff.NewRunner(sniff.BuiltinSniffs()...)
			server := lsp.NewServer("0.1.0", pipeline, grammar, runner)
			return server.RunStdio()
		},
	}

	cmd.Flags().IntVar(&tabWidth, "tab-width", 4, "columns per tab stop")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML grammar rules file")

	return cmd
}
