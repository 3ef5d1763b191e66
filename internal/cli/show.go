package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backlog/internal/jiradb"
	"github.com/mesh-intelligence/backlog/internal/ui"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

func (c *command) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <epic-id> [story-id]",
		Short: "Print an epic, or one of its stories",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			epicID, err := parseIDArg("epic", args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return c.renderOnce(cmd, func(db *jiradb.Database, theme *ui.Theme) (ui.Page, error) {
					return ui.NewEpicDetail(db, theme, epicID), nil
				})
			}

			storyID, err := parseIDArg("story", args[1])
			if err != nil {
				return err
			}
			return c.renderOnce(cmd, func(db *jiradb.Database, theme *ui.Theme) (ui.Page, error) {
				if err := checkStoryInEpic(db, epicID, storyID); err != nil {
					return nil, err
				}
				return ui.NewStoryDetail(db, theme, epicID, storyID), nil
			})
		},
	}
}

func parseIDArg(what, arg string) (uint32, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid %s id %q", what, arg))
	}
	return uint32(n), nil
}

// checkStoryInEpic rejects an existing story that the epic does not list.
// A missing story is left for the page to report.
func checkStoryInEpic(db *jiradb.Database, epicID, storyID uint32) error {
	state, err := db.ReadDB()
	if err != nil {
		return err
	}
	epic, ok := state.Epics[epicID]
	if !ok {
		return fmt.Errorf("%w: epic %d not found", types.ErrInvalidEpicID, epicID)
	}
	if _, ok := state.Stories[storyID]; ok && !epic.HasStory(storyID) {
		return fmt.Errorf("%w: epic %d, story %d", types.ErrStoryNotInEpic, epicID, storyID)
	}
	return nil
}
