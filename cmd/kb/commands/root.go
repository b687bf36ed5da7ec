// Package commands holds the cobra command tree of the kb CLI.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// DefaultConfigPath is read when --config is not given. A missing file means built-in defaults.
const DefaultConfigPath = "config.yaml"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	debug      bool
	format     string
}

// NewRootCmd builds the kb command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "AakiTech internal knowledge base",
		Long: `kb builds a searchable vector index from a folder of plain-text documents
and answers natural-language questions against it.

  kb ingest ./data                      build the index
  kb search "What is AakiTech's Q3 sales goal?"
  kb serve                              web UI on http://localhost:8501
  kb tui                                terminal UI`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format: text or json")

	cmd.AddCommand(
		NewIngestCmd(opts),
		NewSearchCmd(opts),
		NewServeCmd(opts),
		NewTUICmd(opts),
		NewStatusCmd(opts),
		NewVersionCmd(),
	)
	return cmd
}

// Execute loads .env and runs the command tree.
func Execute() error {
	_ = godotenv.Load()
	return NewRootCmd().Execute()
}
