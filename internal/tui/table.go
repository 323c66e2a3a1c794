package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/drills/internal/view"
)

type column struct {
	title    string
	width    int
	selected bool
	sorted   bool
	dir      view.Direction
}

func (c column) header() string {
	title := c.title

	if c.sorted {
		if c.dir == view.Asc {
			title += " ▲"
		} else {
			title += " ▼"
		}
	}

	cell := pad(title, c.width)

	switch {
	case c.selected:
		return selectedItemStyle.Underline(true).Render(cell)
	case c.sorted:
		return sortedCellStyle.Render(cell)
	default:
		return headerCellStyle.Render(cell)
	}
}

// renderTable lays rows out under cols. style picks the style of row i and
// cursor marks the selected row, or none when negative.
func renderTable(
	cols []column,
	rows [][]string,
	cursor int,
	style func(i int) lipgloss.Style,
) string {
	var b strings.Builder

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header()
	}

	b.WriteString("  " + strings.Join(headers, " "))

	for i, row := range rows {
		cells := make([]string, len(cols))

		for j, c := range cols {
			var v string
			if j < len(row) {
				v = row[j]
			}

			cells[j] = pad(v, c.width)
		}

		b.WriteString("\n")
		b.WriteString(style(i).Render(cursorPrefix(i == cursor) + strings.Join(cells, " ")))
	}

	return b.String()
}

// pad truncates or right-pads s to exactly w runes.
func pad(s string, w int) string {
	r := []rune(s)

	if len(r) > w {
		if w <= 1 {
			return string(r[:w])
		}

		return string(r[:w-1]) + "…"
	}

	return s + strings.Repeat(" ", w-len(r))
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}

	return "  "
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}

	if cursor < 0 {
		cursor = 0
	}

	return cursor
}
