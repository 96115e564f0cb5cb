package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders rows in the "fancy_grid" box layout, every cell left-aligned
// and padded by one space on each side.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t Table) Render() string {
	cols := len(t.Headers)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}

	var b strings.Builder
	b.WriteString(rule(widths, "╒", "╤", "╕", "═"))
	if len(t.Headers) > 0 {
		b.WriteString(line(widths, t.Headers))
		b.WriteString(rule(widths, "╞", "╪", "╡", "═"))
	}
	for i, r := range t.Rows {
		b.WriteString(line(widths, r))
		if i < len(t.Rows)-1 {
			b.WriteString(rule(widths, "├", "┼", "┤", "─"))
		}
	}
	b.WriteString(strings.TrimSuffix(rule(widths, "╘", "╧", "╛", "═"), "\n"))
	return b.String()
}

func rule(widths []int, left, mid, right, fill string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat(fill, w+2)
	}
	return left + strings.Join(parts, mid) + right + "\n"
}

func line(widths []int, row []string) string {
	var b strings.Builder
	b.WriteString("│")
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		b.WriteString(" ")
		b.WriteString(runewidth.FillRight(cell, w))
		b.WriteString(" │")
	}
	b.WriteString("\n")
	return b.String()
}
