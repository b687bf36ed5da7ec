package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/cli"
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd(opts *globalOptions) *cobra.Command {
	var flags indexFlags
	cmd := &cobra.Command{
		Use:   "ingest [directory]",
		Short: "Build the vector index from a folder of documents",
		Long: `Read every matching file directly inside the directory (default: ingest.directory
from config), split it into overlapping chunks, embed each chunk, and write a
fresh index. Any existing index at the same location is replaced only once
the new one is complete.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(opts.format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, &flags)
			if err != nil {
				return err
			}
			c, err := newComponents(cfg, false)
			if err != nil {
				return err
			}
			defer c.Close()

			dir := cfg.Ingest.Directory
			if len(args) == 1 {
				dir = args[0]
			}
			idx, emb, err := c.newIndexer()
			if err != nil {
				return err
			}
			defer emb.Close()

			report, err := idx.IndexDirectory(context.Background(), dir)
			if err != nil {
				return err
			}
			return cli.WriteReport(cmd.OutOrStdout(), report, format)
		},
	}
	addIndexFlags(cmd, &flags)
	return cmd
}
