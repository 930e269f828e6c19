package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tokenscope/lang/clike"
	"github.com/dhamidi/tokenscope/sniff"
)

func newCheckCmd() *cobra.Command {
	var tabWidth int
	var rulesFile string
	var severity string
	var showWarnings bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Run the sniff rules over files and report violations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minSeverity := sniff.SeverityWarning
			switch severity {
			case "warning":
			case "error":
				minSeverity = sniff.SeverityError
			default:
				return fmt.Errorf("unknown severity %q (want warning or error)", severity)
			}

			pipeline, grammar, err := buildPipeline(tabWidth, rulesFile)
			if err != nil {
				return err
			}

			found := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}

				ts, warnings := pipeline.Run(clike.Tokenize(data))
				file := sniff.NewFile(path, ts, warnings, grammar)

				runner := sniff.NewRunner(sniff.BuiltinSniffs()...)
				violations := runner.Run(file)

				if showWarnings {
					for _, w := range warnings {
						line, col := 0, 0
						if w.Token >= 0 && w.Token < len(ts) {
							line, col = ts[w.Token].Line, ts[w.Token].Column
						}
						fmt.Printf("%s:%d:%d: warning: %s [%s]\n", path, line, col, w.Message, w.Code)
					}
					found += len(warnings)
				}
				for _, v := range violations {
					if v.Severity < minSeverity {
						continue
					}
					fmt.Printf("%s:%d:%d: %s: %s [%s]\n", v.Path, v.Line, v.Column, v.Severity, v.Message, v.Code)
					found++
				}
			}

			if found > 0 {
				return fmt.Errorf("%d problem(s) found", found)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&tabWidth, "tab-width", 4, "columns per tab stop")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML grammar rules file")
	cmd.Flags().StringVar(&severity, "severity", "warning", "minimum severity to report (warning or error)")
	cmd.Flags().BoolVar(&showWarnings, "structural-warnings", true, "report structural warnings from the annotator")

	return cmd
}
