package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adsforge/adsforge/internal/pdfform"
	"github.com/adsforge/adsforge/internal/xfa"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

func newGenerateCmd(env *cliEnv) *cobra.Command {
	var (
		templatePath string
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "generate <metadata.json>",
		Short: "Generate a filled ADS PDF from extracted metadata",
		Long:  "Build the XFA datasets for the given application metadata (typically the\noutput of `adsforge extract --out`) and inject them into the blank USPTO\nAIA/14 template.",
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

			tpl := templatePath
			if tpl == "" {
				tpl = env.cfg.Extraction.ADSTemplatePath
			}
			template, err := os.ReadFile(tpl)
			if err != nil {
				return fmt.Errorf("failed to read ADS template %s: %w", tpl, err)
			}

			datasets, err := xfa.NewBuilder(env.log).Build(meta)
			if err != nil {
				return err
			}
			pdf, err := pdfform.NewInjector(env.log).Inject(template, datasets)
			if err != nil {
				return err
			}

			if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Fprintf(os.Stderr, "ADS written to %s (%d inventors, %d bytes)\n",
				outPath, meta.InventorCount(), len(pdf))
			return nil
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "blank AIA/14 PDF template (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "ads.pdf", "output PDF path")
	return cmd
}
