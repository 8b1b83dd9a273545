package ui

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static tabular query results. Column widths size to content;
// numeric columns can be right-aligned.
type Table struct {
	Title      string
	Headers    []string
	Rows       [][]string
	rightAlign map[int]bool
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:      title,
		Headers:    headers,
		rightAlign: make(map[int]bool),
	}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// AlignRight right-aligns the given column indexes.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		t.rightAlign[c] = true
	}
}

// View renders the table.
func (t *Table) View(styles Styles) string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString(styles.Muted.Render("(no rows)"))
		return sb.String()
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	headerStyle := styles.Bold.Padding(0, 1)
	cellStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	renderCell := func(style lipgloss.Style, col int, text string) string {
		style = style.Width(widths[col] + 2)
		if t.rightAlign[col] {
			style = style.Align(lipgloss.Right)
		}
		return style.Render(text)
	}

	for i, h := range t.Headers {
		sb.WriteString(renderCell(headerStyle, i, h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	total := len(t.Headers) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			sb.WriteString(renderCell(cellStyle, i, cell))
			if i < len(row)-1 && i < len(t.Headers)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatPercent renders a nullable percentage, using a dash for samples
// where the total count was zero and no percentage is defined.
func FormatPercent(p sql.NullFloat64) string {
	if !p.Valid {
		return "-"
	}
	return strconv.FormatFloat(p.Float64, 'f', 2, 64)
}
