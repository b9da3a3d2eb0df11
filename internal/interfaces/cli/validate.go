package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adsforge/adsforge/internal/validation/fields"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

func newValidateCmd(env *cliEnv) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "validate <metadata.json>",
		Short: "Validate and normalize application metadata",
		Long:  "Run the field validators over an application metadata file, normalizing\nnames, states, dates, and addresses in place and reporting anything that\nneeds reviewer attention before ADS generation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var meta ads.PatentApplicationMetadata
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("failed to parse metadata: %w", err)
			}

			summary := fields.ApplyMetadata(&meta)

			if outPath != "" {
				if err := writeJSONFile(outPath, meta); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "normalized metadata written to %s\n", outPath)
			}

			if err := env.printResult(summary, func() {
				printValidationSummary(summary)
			}); err != nil {
				return err
			}
			if summary.HasErrors() {
				return fmt.Errorf("metadata has validation errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write normalized metadata JSON to this file")
	return cmd
}

func printValidationSummary(summary fields.Summary) {
	if len(summary.Issues) == 0 {
		fmt.Println("metadata is valid")
		return
	}
	for _, issue := range summary.Issues {
		for _, e := range issue.Errors {
			fmt.Printf("! %s: %s\n", issue.Field, e)
		}
		for _, w := range issue.Warnings {
			fmt.Printf("? %s: %s\n", issue.Field, w)
		}
	}
}
