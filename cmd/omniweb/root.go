package main

import (
	"github.com/spf13/cobra"

	"github.com/omniweb/omniweb/internal/config"
)

const defaultConfigPath = "omniweb.yaml"

// rootOptions holds the persistent flags and the configuration they
// resolve to.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	ollamaBase string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "omniweb",
		Short: "Topic exploration API on top of local LLMs",
		Long: `omniweb turns a local Ollama instance into a topic-exploration API.

Topics expand into sub-topics, with automatic fallback to other installed
models when a model returns unusable JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "YAML config file (ignored when missing)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: compact or json")
	flags.StringVar(&opts.ollamaBase, "ollama", "", "Ollama base URL (overrides OLLAMA_BASE)")

	cmd.AddCommand(
		newServeCmd(opts),
		newModelsCmd(opts),
		newExtractCmd(),
		newBenchCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

// load resolves the configuration. Flags set on the command line win over
// every other source.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if flags.Changed("ollama") {
		cfg.Ollama.BaseURL = o.ollamaBase
	}

	o.cfg = cfg
	return nil
}
