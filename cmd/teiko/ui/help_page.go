package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Trial Analysis Dashboard

Data flows one way: the cell-count CSV is loaded once into three normalized
tables (subjects, samples, cell_counts), and every tab here reads from them.

## Tabs

- **Frequency** - each population's count as a percentage of its sample's
  total. Press / to filter by sample id.
- **Compare** - responders vs non-responders per population for the
  configured cohort. Two-sided Mann-Whitney U; p-values are raw, with no
  multiple-comparison correction.
- **Baseline** - cohort samples at time 0, with distinct-subject counts per
  project, response, and sex.
- **Explorer** - pick any attribute combination and a population to get
  summary statistics over the matching cell counts.

## Keys

| Key | Action |
| --- | --- |
| tab / arrows | switch tab |
| 1-5 | jump to tab |
| pgup / pgdn | scroll |
| q | quit |
`

// HelpPage renders the static help text.
type HelpPage struct {
	viewport viewport.Model
	styles   Styles
	width    int
}

// NewHelpPage creates the help tab.
func NewHelpPage(styles Styles) HelpPage {
	p := HelpPage{viewport: viewport.New(80, 20), styles: styles, width: 80}
	p.refresh()
	return p
}

// SetSize updates the page dimensions.
func (p *HelpPage) SetSize(w, h int) {
	p.viewport.Width = w
	p.viewport.Height = h
	p.width = w
	p.refresh()
}

func (p *HelpPage) refresh() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.width-4),
	)
	if err != nil {
		p.viewport.SetContent(helpMarkdown)
		return
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		p.viewport.SetContent(fmt.Sprintf("help unavailable: %v", err))
		return
	}
	p.viewport.SetContent(out)
}

// Update handles messages.
func (p HelpPage) Update(msg tea.Msg) (HelpPage, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the page.
func (p HelpPage) View() string {
	return p.viewport.View()
}
