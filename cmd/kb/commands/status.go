package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/cli"
)

// NewStatusCmd creates the status command.
func NewStatusCmd(opts *globalOptions) *cobra.Command {
	var flags indexFlags
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the index holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(opts.format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, &flags)
			if err != nil {
				return err
			}
			c, err := newComponents(cfg, true)
			if err != nil {
				return err
			}
			defer c.Close()

			st, err := c.Engine.Status(context.Background())
			if err != nil {
				return err
			}
			return cli.WriteStatus(cmd.OutOrStdout(), st, format)
		},
	}
	addIndexFlags(cmd, &flags)
	return cmd
}
