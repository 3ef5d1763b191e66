// Package ui holds the terminal pages, the actions they produce, and the
// prompts the navigator uses to collect extra input. Pages only read the
// database; every change goes through an Action handled by the navigator.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// PageKind identifies a page variant.
type PageKind int

// Page kinds.
const (
	PageHome PageKind = iota + 1
	PageEpicDetail
	PageStoryDetail
)

// String returns the page kind name.
func (k PageKind) String() string {
	switch k {
	case PageHome:
		return "Home"
	case PageEpicDetail:
		return "EpicDetail"
	case PageStoryDetail:
		return "StoryDetail"
	default:
		return fmt.Sprintf("PageKind(%d)", int(k))
	}
}

// Page is one screen of the terminal workflow.
type Page interface {
	Kind() PageKind

	// Render writes the page to w. It fails if the entities the page shows
	// no longer exist.
	Render(w io.Writer) error

	// HandleInput maps one input line to an action. A nil action with a nil
	// error means the input was not recognized.
	HandleInput(input string) (*Action, error)
}

// Reader is the read side of the repository that pages need.
type Reader interface {
	ReadDB() (*types.DBState, error)
}

// Column widths of the list tables.
const (
	listIDWidth     = 12
	listNameWidth   = 33
	listStatusWidth = 17
)

// Column widths of the single-row detail tables.
const (
	detailIDWidth     = 6
	detailNameWidth   = 13
	detailDescWidth   = 28
	detailStatusWidth = 13
)

const (
	listHeader   = "     id     |               name               |      status      "
	detailHeader = "  id  |     name     |         description         |    status    "
)

// parseID reads a base-10 uint32 id from input.
func parseID(input string) (uint32, bool) {
	n, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func (t *Theme) listRow(id uint32, name string, status types.Status) string {
	return fmt.Sprintf("%s| %s| %s",
		ColumnString(strconv.FormatUint(uint64(id), 10), listIDWidth),
		ColumnString(name, listNameWidth),
		t.Status(status, ColumnString(status.String(), listStatusWidth)))
}

func (t *Theme) detailRow(id uint32, name, description string, status types.Status) string {
	return fmt.Sprintf("%s| %s| %s| %s",
		ColumnString(strconv.FormatUint(uint64(id), 10), detailIDWidth),
		ColumnString(name, detailNameWidth),
		ColumnString(description, detailDescWidth),
		t.Status(status, ColumnString(status.String(), detailStatusWidth)))
}

// screen accumulates page lines and writes them in one call.
type screen struct {
	b strings.Builder
}

func (s *screen) line(text string) {
	s.b.WriteString(text)
	s.b.WriteByte('\n')
}

func (s *screen) blank(n int) {
	for range n {
		s.b.WriteByte('\n')
	}
}

func (s *screen) flush(w io.Writer) error {
	_, err := io.WriteString(w, s.b.String())
	return err
}

// epicOf returns the epic or an error wrapping ErrInvalidEpicID.
func epicOf(state *types.DBState, id uint32) (types.Epic, error) {
	epic, ok := state.Epics[id]
	if !ok {
		return types.Epic{}, errNotFound(types.ErrInvalidEpicID, "epic", id)
	}
	return epic, nil
}

func errNotFound(sentinel error, what string, id uint32) error {
	return fmt.Errorf("%w: %s %d not found", sentinel, what, id)
}
