package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// Theme holds the lipgloss styles pages render with.
type Theme struct {
	banner lipgloss.Style
	header lipgloss.Style
	footer lipgloss.Style
	status map[types.Status]lipgloss.Style
}

// NewTheme builds a theme whose color profile is detected from w. With plain
// set, every style renders as unmodified text.
func NewTheme(w io.Writer, plain bool) *Theme {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Theme{
		banner: r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}),
		header: r.NewStyle().Faint(true),
		footer: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5C5C5C", Dark: "#9B9B9B"}),
		status: map[types.Status]lipgloss.Style{
			types.StatusOpen:       r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0F6FD1", Dark: "#4FA3FF"}),
			types.StatusInProgress: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F2C94C"}),
			types.StatusResolved:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#5FD068"}),
			types.StatusClosed:     r.NewStyle().Faint(true),
		},
	}
}

// PlainTheme returns a theme that renders no escape sequences.
func PlainTheme() *Theme {
	return NewTheme(io.Discard, true)
}

// Banner styles a page section title.
func (t *Theme) Banner(s string) string { return t.banner.Render(s) }

// Header styles a table column header.
func (t *Theme) Header(s string) string { return t.header.Render(s) }

// Footer styles the command hint line.
func (t *Theme) Footer(s string) string { return t.footer.Render(s) }

// Status styles s with the color of status.
func (t *Theme) Status(status types.Status, s string) string {
	style, ok := t.status[status]
	if !ok {
		return s
	}
	return style.Render(s)
}
