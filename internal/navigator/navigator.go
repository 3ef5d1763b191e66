// Package navigator owns the page stack and turns page actions into stack
// changes and repository calls.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/backlog/internal/jiradb"
	"github.com/mesh-intelligence/backlog/internal/ui"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

// ErrUnknownAction is returned for an action kind the navigator does not handle.
var ErrUnknownAction = errors.New("unknown action")

// Navigator holds the stack of pages. The top of the stack is the current page.
type Navigator struct {
	db      *jiradb.Database
	pages   []ui.Page
	prompts ui.Prompts
	theme   *ui.Theme
	logger  *slog.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithPrompts sets the prompts used by create, delete, and status actions.
func WithPrompts(p ui.Prompts) Option {
	return func(n *Navigator) { n.prompts = p }
}

// WithTheme sets the theme pages render with.
func WithTheme(t *ui.Theme) Option {
	return func(n *Navigator) {
		if t != nil {
			n.theme = t
		}
	}
}

// WithLogger sets the logger for action records.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New returns a navigator whose stack holds only the home page. Without
// WithPrompts it asks through huh forms on the process terminal.
func New(db *jiradb.Database, opts ...Option) *Navigator {
	n := &Navigator{
		db:      db,
		prompts: ui.NewPrompts(os.Stdin, os.Stdout, false),
		theme:   ui.PlainTheme(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.push(ui.NewHomePage(db, n.theme))
	return n
}

// CurrentPage returns the top page, or nil once the stack is empty.
func (n *Navigator) CurrentPage() ui.Page {
	if len(n.pages) == 0 {
		return nil
	}
	return n.pages[len(n.pages)-1]
}

// PageCount returns the stack depth.
func (n *Navigator) PageCount() int {
	return len(n.pages)
}

// SetPrompts replaces the prompts.
func (n *Navigator) SetPrompts(p ui.Prompts) {
	n.prompts = p
}

// HandleAction applies action. A nil action does nothing. Delete actions
// pop the current page whether or not the deletion was confirmed or
// succeeded.
func (n *Navigator) HandleAction(action *ui.Action) error {
	if action == nil {
		return nil
	}
	n.logger.Debug("handling action", "action", action.String(), "depth", len(n.pages))

	switch action.Kind {
	case ui.ActionNavigateToEpicDetail:
		n.push(ui.NewEpicDetail(n.db, n.theme, action.EpicID))
	case ui.ActionNavigateToStoryDetail:
		n.push(ui.NewStoryDetail(n.db, n.theme, action.EpicID, action.StoryID))
	case ui.ActionNavigateToPreviousPage:
		n.pop()
	case ui.ActionCreateEpic:
		return n.createEpic()
	case ui.ActionCreateStory:
		return n.createStory(action.EpicID)
	case ui.ActionUpdateEpicStatus:
		return n.updateStatus(func(s types.Status) error { return n.db.UpdateEpicStatus(action.EpicID, s) })
	case ui.ActionUpdateStoryStatus:
		return n.updateStatus(func(s types.Status) error { return n.db.UpdateStoryStatus(action.StoryID, s) })
	case ui.ActionDeleteEpic:
		defer n.pop()
		return n.confirmed(n.prompts.DeleteEpic, func() error { return n.db.DeleteEpic(action.EpicID) })
	case ui.ActionDeleteStory:
		defer n.pop()
		return n.confirmed(n.prompts.DeleteStory, func() error { return n.db.DeleteStory(action.EpicID, action.StoryID) })
	case ui.ActionExit:
		n.pages = nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action.Kind)
	}
	return nil
}

func (n *Navigator) push(p ui.Page) {
	n.pages = append(n.pages, p)
}

func (n *Navigator) pop() {
	if len(n.pages) > 0 {
		n.pages = n.pages[:len(n.pages)-1]
	}
}

func (n *Navigator) createEpic() error {
	epic, err := n.prompts.CreateEpic()
	if errors.Is(err, ui.ErrPromptAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	id, err := n.db.CreateEpic(epic)
	if err != nil {
		return err
	}
	n.logger.Info("epic created", "epic_id", id)
	return nil
}

func (n *Navigator) createStory(epicID uint32) error {
	story, err := n.prompts.CreateStory()
	if errors.Is(err, ui.ErrPromptAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	id, err := n.db.CreateStory(story, epicID)
	if err != nil {
		return err
	}
	n.logger.Info("story created", "epic_id", epicID, "story_id", id)
	return nil
}

// updateStatus applies the prompted status. No status means no change.
func (n *Navigator) updateStatus(apply func(types.Status) error) error {
	status, err := n.prompts.UpdateStatus()
	if err != nil {
		return err
	}
	if status == nil {
		return nil
	}
	return apply(*status)
}

func (n *Navigator) confirmed(confirm func() (bool, error), del func() error) error {
	ok, err := confirm()
	if err != nil {
		return err
	}
	if !ok {
		n.logger.Debug("delete declined")
		return nil
	}
	return del()
}
