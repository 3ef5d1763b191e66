package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backlog/internal/jiradb"
	"github.com/mesh-intelligence/backlog/internal/ui"
)

func (c *command) newListCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the epic list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.renderOnce(cmd, func(db *jiradb.Database, theme *ui.Theme) (ui.Page, error) {
				if check {
					state, err := db.ReadDB()
					if err != nil {
						return nil, err
					}
					if err := state.Check(); err != nil {
						return nil, err
					}
				}
				return ui.NewHomePage(db, theme), nil
			})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "verify referential integrity before printing")
	return cmd
}

// renderOnce opens the database, builds one page, and renders it to the
// command's output.
func (c *command) renderOnce(cmd *cobra.Command, build func(*jiradb.Database, *ui.Theme) (ui.Page, error)) error {
	db, closer, err := openDatabase(c.settings, nil)
	if err != nil {
		return classify(err)
	}
	defer closeQuietly(closer)

	out := cmd.OutOrStdout()
	page, err := build(db, ui.NewTheme(out, c.settings.Plain))
	if err != nil {
		return classify(err)
	}
	return classify(page.Render(out))
}
