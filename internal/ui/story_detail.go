package ui

import (
	"io"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// StoryDetail shows one story.
type StoryDetail struct {
	db      Reader
	theme   *Theme
	epicID  uint32
	storyID uint32
}

// NewStoryDetail returns the detail page for storyID, reached from epicID.
func NewStoryDetail(db Reader, theme *Theme, epicID, storyID uint32) *StoryDetail {
	if theme == nil {
		theme = PlainTheme()
	}
	return &StoryDetail{db: db, theme: theme, epicID: epicID, storyID: storyID}
}

// Kind implements Page.
func (p *StoryDetail) Kind() PageKind { return PageStoryDetail }

// EpicID returns the epic the story was reached from.
func (p *StoryDetail) EpicID() uint32 { return p.epicID }

// StoryID returns the story the page shows.
func (p *StoryDetail) StoryID() uint32 { return p.storyID }

// Render implements Page.
func (p *StoryDetail) Render(w io.Writer) error {
	state, err := p.db.ReadDB()
	if err != nil {
		return err
	}
	story, ok := state.Stories[p.storyID]
	if !ok {
		return errNotFound(types.ErrInvalidStoryID, "story", p.storyID)
	}

	var s screen
	s.line(p.theme.Banner("------------------------------ STORY ------------------------------"))
	s.line(p.theme.Header(detailHeader))
	s.line(p.theme.detailRow(p.storyID, story.Name, story.Description, story.Status))
	s.blank(2)
	s.line(p.theme.Footer("[p] previous | [u] update story | [d] delete story"))
	return s.flush(w)
}

// HandleInput implements Page.
func (p *StoryDetail) HandleInput(input string) (*Action, error) {
	switch input {
	case "p":
		return &Action{Kind: ActionNavigateToPreviousPage}, nil
	case "u":
		return &Action{Kind: ActionUpdateStoryStatus, StoryID: p.storyID}, nil
	case "d":
		return &Action{Kind: ActionDeleteStory, EpicID: p.epicID, StoryID: p.storyID}, nil
	}
	return nil, nil
}

var _ Page = (*StoryDetail)(nil)
