package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adsforge/adsforge/internal/application/extraction"
	"github.com/adsforge/adsforge/internal/application/reporting"
	"github.com/adsforge/adsforge/internal/infrastructure/llm"
)

func newExtractCmd(env *cliEnv) *cobra.Command {
	var (
		autoFix    bool
		outPath    string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract application data from a disclosure or draft application",
		Long:  "Run the full extraction pipeline (preprocess, LLM evidence gathering,\nstructured build, validation, entity separation) over a local PDF or DOCX\nand print the resulting application metadata.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			client, err := llm.NewClient(env.cfg.LLM, nil, env.log)
			if err != nil {
				return err
			}
			svc := extraction.NewService(client, nil, extraction.Options{AutoFix: autoFix}, nil, env.log)

			result, err := svc.Extract(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := writeJSONFile(outPath, result.Metadata); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "metadata written to %s\n", outPath)
			}
			if reportPath != "" {
				report, err := reporting.NewGenerator(env.log).ExtractionReport(filepath.Base(args[0]), result)
				if err != nil {
					return err
				}
				if err := os.WriteFile(reportPath, report, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintf(os.Stderr, "review report written to %s\n", reportPath)
			}

			return env.printResult(result, func() {
				printExtractionSummary(result)
			})
		},
	}

	cmd.Flags().BoolVar(&autoFix, "auto-fix", true, "apply entity-separation fixes instead of only reporting them")
	cmd.Flags().StringVar(&outPath, "out", "", "write extracted metadata JSON to this file")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the .docx review report to this file")
	return cmd
}

func printExtractionSummary(result *extraction.Result) {
	r := result.Structured
	fmt.Printf("Title:        %s\n", r.Title.Value)
	fmt.Printf("Method:       %s\n", r.Method)
	fmt.Printf("Completeness: %s (%.0f%% confidence)\n", r.Quality.Completeness, r.Quality.OverallConfidence*100)
	fmt.Printf("Inventors:    %d\n", len(r.Inventors))
	for _, inv := range r.Inventors {
		fmt.Printf("  - %s\n", inv.FullName())
	}
	fmt.Printf("Applicants:   %d\n", len(r.Applicants))
	for _, app := range r.Applicants {
		fmt.Printf("  - %s\n", app.OrgName.Value)
	}

	if len(result.FieldIssues.Issues) > 0 {
		fmt.Println("Field issues:")
		for _, issue := range result.FieldIssues.Issues {
			for _, e := range issue.Errors {
				fmt.Printf("  ! %s: %s\n", issue.Field, e)
			}
			for _, w := range issue.Warnings {
				fmt.Printf("  ? %s: %s\n", issue.Field, w)
			}
		}
	}
	for _, fix := range result.AppliedFixes {
		fmt.Printf("Applied fix: %s\n", fix)
	}
	fmt.Printf("Elapsed: %s\n", result.Duration.Round(timeRound))
}
