package ui

import "io"

// HomePage lists every epic.
type HomePage struct {
	db    Reader
	theme *Theme
}

// NewHomePage returns the epic list page. A nil theme renders plain text.
func NewHomePage(db Reader, theme *Theme) *HomePage {
	if theme == nil {
		theme = PlainTheme()
	}
	return &HomePage{db: db, theme: theme}
}

// Kind implements Page.
func (p *HomePage) Kind() PageKind { return PageHome }

// Render implements Page. Epics are listed in ascending id order.
func (p *HomePage) Render(w io.Writer) error {
	state, err := p.db.ReadDB()
	if err != nil {
		return err
	}

	var s screen
	s.line(p.theme.Banner("----------------------------- EPICS -----------------------------"))
	s.line(p.theme.Header(listHeader))
	for _, id := range state.EpicIDs() {
		epic := state.Epics[id]
		s.line(p.theme.listRow(id, epic.Name, epic.Status))
	}
	s.blank(2)
	s.line(p.theme.Footer("[q] quit | [c] create epic | [:id:] navigate to epic"))
	return s.flush(w)
}

// HandleInput implements Page.
func (p *HomePage) HandleInput(input string) (*Action, error) {
	switch input {
	case "q":
		return &Action{Kind: ActionExit}, nil
	case "c":
		return &Action{Kind: ActionCreateEpic}, nil
	}

	id, ok := parseID(input)
	if !ok {
		return nil, nil
	}
	state, err := p.db.ReadDB()
	if err != nil {
		return nil, err
	}
	if _, ok := state.Epics[id]; !ok {
		return nil, nil
	}
	return &Action{Kind: ActionNavigateToEpicDetail, EpicID: id}, nil
}

var _ Page = (*HomePage)(nil)
