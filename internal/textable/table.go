// Package textable renders classic fixed-width text tables whose columns
// auto-size to their widest cell. Widths are measured in terminal cells, so
// East Asian wide characters count double.
package textable

import (
	"strings"

	"golang.org/x/text/width"
)

// Border selects how rule lines are drawn.
type Border int

const (
	// BorderBox draws rules as +-----+-----+.
	BorderBox Border = iota
	// BorderOrg draws rules as |-----+-----|.
	BorderOrg
)

// ParseBorder maps "box" / "org" to a Border. Unknown names yield BorderBox.
func ParseBorder(s string) Border {
	if s == "org" {
		return BorderOrg
	}
	return BorderBox
}

func (b Border) String() string {
	if b == BorderOrg {
		return "org"
	}
	return "box"
}

// Table is a header row plus body rows.
type Table struct {
	headers []string
	rows    [][]string
	border  Border
}

// New creates a table with the given headers.
func New(border Border, headers ...string) *Table {
	return &Table{headers: headers, border: border}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Lines renders the table, one string per line, without trailing newlines.
func (t *Table) Lines() []string {
	if len(t.headers) == 0 {
		return nil
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && Width(cell) > widths[i] {
				widths[i] = Width(cell)
			}
		}
	}

	rule := t.rule(widths)
	lines := make([]string, 0, len(t.rows)+4)
	lines = append(lines, rule, t.line(widths, t.headers), rule)
	for _, row := range t.rows {
		lines = append(lines, t.line(widths, row))
	}
	lines = append(lines, rule)
	return lines
}

// String renders the table with a newline after every line.
func (t *Table) String() string {
	var b strings.Builder
	for _, l := range t.Lines() {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) rule(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	edge := "+"
	if t.border == BorderOrg {
		edge = "|"
	}
	return edge + strings.Join(parts, "+") + edge
}

func (t *Table) line(widths []int, cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(" ")
		b.WriteString(PadRight(cell, w))
		b.WriteString(" |")
	}
	return b.String()
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// PadRight pads s with spaces to the target display width.
func PadRight(s string, w int) string {
	if d := w - Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
