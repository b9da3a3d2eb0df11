// Package cli implements the adsforge command-line tool.  It runs the
// extraction and generation pipeline against local files, without the API
// server, which is how attorneys script batch conversions.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds global CLI flags.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string // "json" | "text"
}

// cliEnv carries initialized dependencies through the command tree.
type cliEnv struct {
	opts rootOptions
	cfg  *config.Config
	log  logging.Logger
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	env := &cliEnv{}

	cmd := &cobra.Command{
		Use:     "adsforge",
		Short:   "ADSForge CLI — extract patent application data and generate USPTO ADS forms",
		Long:    "ADSForge converts invention disclosures and draft applications into\nUSPTO Application Data Sheet (form AIA/14) PDFs: LLM-backed extraction,\nvalidation, and XFA form filling, all from the command line.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.init()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&env.opts.ConfigPath, "config", "c", "", "config file path (default: configs/config.yaml)")
	pf.StringVar(&env.opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&env.opts.Output, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newExtractCmd(env),
		newValidateCmd(env),
		newGenerateCmd(env),
		newDeadlineCmd(env),
	)
	return cmd
}

// init loads configuration and builds the logger.  Missing config files fall
// back to defaults so purely local commands (deadline) work out of the box.
func (env *cliEnv) init() error {
	path := env.opts.ConfigPath
	if path == "" {
		path = "configs/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	env.cfg = cfg

	logCfg := cfg.Log
	logCfg.Level = env.opts.LogLevel
	logCfg.Format = "console"
	logCfg.OutputPaths = []string{"stderr"}

	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	env.log = log
	return nil
}

// printResult renders v as JSON or hands it to the text renderer.
func (env *cliEnv) printResult(v any, text func()) error {
	if env.opts.Output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
