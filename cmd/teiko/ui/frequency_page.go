package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

// FrequencyPage shows the full frequency table with a substring filter on
// sample ids.
type FrequencyPage struct {
	viewport viewport.Model
	filter   textinput.Model
	rows     []analysis.FrequencyRow
	styles   Styles
}

// NewFrequencyPage creates the frequency tab.
func NewFrequencyPage(rows []analysis.FrequencyRow, styles Styles) FrequencyPage {
	ti := textinput.New()
	ti.Placeholder = "filter by sample id"
	ti.CharLimit = 40

	p := FrequencyPage{
		viewport: viewport.New(80, 20),
		filter:   ti,
		rows:     rows,
		styles:   styles,
	}
	p.refresh()
	return p
}

// SetSize updates the page dimensions.
func (p *FrequencyPage) SetSize(w, h int) {
	p.viewport.Width = w
	p.viewport.Height = h - 2 // filter line
	p.refresh()
}

// Filtering reports whether the filter input currently has focus.
func (p *FrequencyPage) Filtering() bool {
	return p.filter.Focused()
}

func (p *FrequencyPage) refresh() {
	needle := strings.TrimSpace(p.filter.Value())

	table := NewTable("", "Sample", "Subject", "Population", "Count", "Total", "Percentage")
	table.AlignRight(3, 4, 5)
	samples := make(map[string]bool)
	shown := 0
	for _, r := range p.rows {
		if needle != "" && !strings.Contains(r.SampleID, needle) {
			continue
		}
		table.AddRow(r.SampleID, r.SubjectID, r.Population,
			strconv.Itoa(r.Count), strconv.Itoa(r.Total), FormatPercent(r.Percentage))
		samples[r.SampleID] = true
		shown++
	}

	var sb strings.Builder
	sb.WriteString(p.styles.Header.Render("Cell Population Frequency Overview"))
	sb.WriteString("\n\n")
	sb.WriteString(table.View(p.styles))
	sb.WriteString(p.styles.Muted.Render(
		fmt.Sprintf("%d rows (%d samples)", shown, len(samples))))
	p.viewport.SetContent(sb.String())
}

// Update handles messages.
func (p FrequencyPage) Update(msg tea.Msg) (FrequencyPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "/":
			if !p.filter.Focused() {
				p.filter.Focus()
				return p, textinput.Blink
			}
		case "esc", "enter":
			if p.filter.Focused() {
				p.filter.Blur()
				return p, nil
			}
		}
	}

	var cmds []tea.Cmd
	if p.filter.Focused() {
		var cmd tea.Cmd
		before := p.filter.Value()
		p.filter, cmd = p.filter.Update(msg)
		cmds = append(cmds, cmd)
		if p.filter.Value() != before {
			p.refresh()
		}
	} else {
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return p, tea.Batch(cmds...)
}

// View renders the page.
func (p FrequencyPage) View() string {
	return p.filter.View() + p.styles.Muted.Render("  (/ to filter)") + "\n" + p.viewport.View()
}
