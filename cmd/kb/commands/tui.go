package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/embedding"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/tui"
)

// NewTUICmd creates the tui command.
func NewTUICmd(opts *globalOptions) *cobra.Command {
	var flags indexFlags
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Search from an interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, &flags)
			if err != nil {
				return err
			}
			c, err := newComponents(cfg, true)
			if err != nil {
				return err
			}
			defer c.Close()

			presenter := present.New(c.Engine,
				present.WithTruncateAt(cfg.Search.TruncateAt),
				present.WithMaxLimit(cfg.Search.MaxLimit),
			)
			form := present.NewForm(cfg.Embedding.Provider, cfg.Search.DefaultLimit, cfg.Search.ShowScoresOrDefault())
			model := tui.New(presenter, form, embedding.Providers(), cfg.Search.MaxLimit)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
	addIndexFlags(cmd, &flags)
	return cmd
}
