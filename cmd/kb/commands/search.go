package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/cli"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
)

// NewSearchCmd creates the search command.
func NewSearchCmd(opts *globalOptions) *cobra.Command {
	var (
		flags    indexFlags
		limit    int
		noScores bool
		full     bool
	)
	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Ask a question against the index",
		Long: `Embed the question with the index's provider and print the closest chunks,
best match first.

Examples:
  kb search "What is AakiTech's Q3 sales goal?"
  kb search -k 5 --no-scores "marketing strategy for Q3"
  kb search --format json "Who is Brighton?"`,
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

			if !cmd.Flags().Changed("limit") {
				limit = cfg.Search.DefaultLimit
			}
			showScores := cfg.Search.ShowScoresOrDefault()
			if cmd.Flags().Changed("no-scores") {
				showScores = !noScores
			}
			presenter := present.New(c.Engine,
				present.WithTruncateAt(cfg.Search.TruncateAt),
				present.WithMaxLimit(cfg.Search.MaxLimit),
			)
			view := presenter.Run(context.Background(), present.Form{
				Query:      strings.Join(args, " "),
				Provider:   cfg.Embedding.Provider,
				Limit:      limit,
				ShowScores: showScores,
			})

			if view.State == present.StateError && format == cli.OutputText {
				return fmt.Errorf("%s (%s)", view.Message, view.Detail)
			}
			if view.State == present.StateWarning && format == cli.OutputText {
				fmt.Fprintln(cmd.ErrOrStderr(), view.Message)
				return nil
			}
			if err := cli.WriteView(cmd.OutOrStdout(), view, format, full); err != nil {
				return err
			}
			if view.State == present.StateError {
				return errors.New(view.Message)
			}
			return nil
		},
	}
	addIndexFlags(cmd, &flags)
	cmd.Flags().IntVarP(&limit, "limit", "k", 3, "number of results (1-10)")
	cmd.Flags().BoolVar(&noScores, "no-scores", false, "hide similarity scores")
	cmd.Flags().BoolVar(&full, "full", false, "print full chunk content instead of a preview")
	return cmd
}
