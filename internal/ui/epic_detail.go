package ui

import (
	"fmt"
	"io"
	"slices"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// EpicDetail shows one epic and the stories it lists.
type EpicDetail struct {
	db     Reader
	theme  *Theme
	epicID uint32
}

// NewEpicDetail returns the detail page for epicID.
func NewEpicDetail(db Reader, theme *Theme, epicID uint32) *EpicDetail {
	if theme == nil {
		theme = PlainTheme()
	}
	return &EpicDetail{db: db, theme: theme, epicID: epicID}
}

// Kind implements Page.
func (p *EpicDetail) Kind() PageKind { return PageEpicDetail }

// EpicID returns the epic the page shows.
func (p *EpicDetail) EpicID() uint32 { return p.epicID }

// Render implements Page. Stories appear in the order the epic lists them.
func (p *EpicDetail) Render(w io.Writer) error {
	state, err := p.db.ReadDB()
	if err != nil {
		return err
	}
	epic, err := epicOf(state, p.epicID)
	if err != nil {
		return err
	}

	var s screen
	s.line(p.theme.Banner("------------------------------ EPIC ------------------------------"))
	s.line(p.theme.Header(detailHeader))
	s.line(p.theme.detailRow(p.epicID, epic.Name, epic.Description, epic.Status))
	s.blank(2)
	s.line(p.theme.Banner("---------------------------- STORIES ----------------------------"))
	s.line(p.theme.Header(listHeader))
	for _, storyID := range epic.Stories {
		story, ok := state.Stories[storyID]
		if !ok {
			return fmt.Errorf("%w: epic %d lists missing story %d", types.ErrIntegrityViolation, p.epicID, storyID)
		}
		s.line(p.theme.listRow(storyID, story.Name, story.Status))
	}
	s.blank(2)
	s.line(p.theme.Footer("[p] previous | [u] update epic | [d] delete epic | [c] create story | [:id:] navigate to story"))
	s.blank(2)
	return s.flush(w)
}

// HandleInput implements Page. A story id navigates only when the story
// exists and this epic lists it.
func (p *EpicDetail) HandleInput(input string) (*Action, error) {
	switch input {
	case "p":
		return &Action{Kind: ActionNavigateToPreviousPage}, nil
	case "u":
		return &Action{Kind: ActionUpdateEpicStatus, EpicID: p.epicID}, nil
	case "d":
		return &Action{Kind: ActionDeleteEpic, EpicID: p.epicID}, nil
	case "c":
		return &Action{Kind: ActionCreateStory, EpicID: p.epicID}, nil
	}

	storyID, ok := parseID(input)
	if !ok {
		return nil, nil
	}
	state, err := p.db.ReadDB()
	if err != nil {
		return nil, err
	}
	epic, err := epicOf(state, p.epicID)
	if err != nil {
		return nil, err
	}
	if _, ok := state.Stories[storyID]; !ok || !slices.Contains(epic.Stories, storyID) {
		return nil, nil
	}
	return &Action{Kind: ActionNavigateToStoryDetail, EpicID: p.epicID, StoryID: storyID}, nil
}

var _ Page = (*EpicDetail)(nil)
