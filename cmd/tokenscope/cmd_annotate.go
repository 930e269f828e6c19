package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/lang/clike"
	"github.com/dhamidi/tokenscope/token"
)

func newAnnotateCmd() *cobra.Command {
	var tabWidth int
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "annotate <file>",
		Short: "Run the annotation pipeline over a file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _, err := buildPipeline(tabWidth, rulesFile)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			ts, warnings := pipeline.Run(clike.Tokenize(data))

			out := struct {
				Tokens   token.Stream       `json:"tokens"`
				Warnings []annotate.Warning `json:"warnings,omitempty"`
			}{Tokens: ts, Warnings: warnings}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&tabWidth, "tab-width", 4, "columns per tab stop")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML grammar rules file")

	return cmd
}
