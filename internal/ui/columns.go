package ui

import "strings"

// ColumnString fits text into a column of width runes: shorter text is padded
// with spaces, longer text is cut and ends in "..." (or as many dots as fit).
func ColumnString(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	switch {
	case len(runes) == width:
		return text
	case len(runes) < width:
		return text + strings.Repeat(" ", width-len(runes))
	case width <= 3:
		return strings.Repeat(".", width)
	default:
		return string(runes[:width-3]) + "..."
	}
}
