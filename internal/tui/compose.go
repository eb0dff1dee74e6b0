package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// composite draws layer over base with its top-left corner at column x,
// row y. Both are treated as line grids of the given width; rows of layer
// that fall outside base are dropped.
func composite(base, layer string, x, y, width int) string {
	rows := lines(base)
	for i, piece := range lines(layer) {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		under := padRight(rows[row], width)
		left := ansi.Truncate(under, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		end := x + ansi.StringWidth(piece)
		right := ansi.TruncateLeft(under, end, "")
		if gap := width - end - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		rows[row] = left + piece + right
	}
	return strings.Join(rows, "\n")
}

// lines splits s on newlines, returning at least one element.
func lines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// fill pads view to height rows of width columns so layers can be placed
// anywhere on screen.
func fill(view string, width, height int) string {
	rows := lines(view)
	for len(rows) < height {
		rows = append(rows, "")
	}
	for i := range rows {
		rows[i] = padRight(rows[i], width)
	}
	return strings.Join(rows, "\n")
}
