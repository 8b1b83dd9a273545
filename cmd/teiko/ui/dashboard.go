package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

// Data is the complete, pre-queried result bundle the dashboard renders.
// Everything except the explorer tab is computed once up front; the data is
// read-only after load, so there is nothing to refresh.
type Data struct {
	Cohort      analysis.Cohort
	Frequency   []analysis.FrequencyRow
	Comparisons []analysis.PopulationComparison
	Breakdown   *analysis.Breakdown
	Baseline    []analysis.BaselineSample
	Attributes  map[string][]string
	Timepoints  []int64
	Populations []string
}

// ExploreProvider runs explorer queries on demand. The dashboard is the only
// caller; queries are read-only.
type ExploreProvider interface {
	Explore(analysis.ExploreFilter) ([]analysis.ExploreRow, analysis.ExploreSummary, error)
}

// Dashboard is the top-level bubbletea model: a tab bar over five pages.
type Dashboard struct {
	styles Styles
	tabs   []string
	active int

	width  int
	height int

	frequency FrequencyPage
	compare   ComparePage
	baseline  BaselinePage
	explorer  ExplorerPage
	help      HelpPage
}

// NewDashboard builds the dashboard from pre-queried data.
func NewDashboard(data Data, provider ExploreProvider) Dashboard {
	styles := DefaultStyles()
	return Dashboard{
		styles:    styles,
		tabs:      []string{"Frequency", "Compare", "Baseline", "Explorer", "Help"},
		frequency: NewFrequencyPage(data.Frequency, styles),
		compare:   NewComparePage(data.Cohort, data.Comparisons, styles),
		baseline:  NewBaselinePage(data.Cohort, data.Breakdown, data.Baseline, styles),
		explorer:  NewExplorerPage(data, provider, styles),
		help:      NewHelpPage(styles),
	}
}

// Init implements tea.Model.
func (d Dashboard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		pageHeight := d.height - 4 // tab bar + footer
		d.frequency.SetSize(d.width, pageHeight)
		d.compare.SetSize(d.width, pageHeight)
		d.baseline.SetSize(d.width, pageHeight)
		d.explorer.SetSize(d.width, pageHeight)
		d.help.SetSize(d.width, pageHeight)
		return d, nil

	case tea.KeyMsg:
		// The frequency page's filter input swallows plain keys while focused.
		if !(d.active == 0 && d.frequency.Filtering()) {
			switch msg.String() {
			case "q", "ctrl+c":
				return d, tea.Quit
			case "tab", "right":
				d.active = (d.active + 1) % len(d.tabs)
				return d, nil
			case "shift+tab", "left":
				d.active = (d.active + len(d.tabs) - 1) % len(d.tabs)
				return d, nil
			case "1", "2", "3", "4", "5":
				d.active = int(msg.String()[0] - '1')
				return d, nil
			}
		} else if msg.String() == "ctrl+c" {
			return d, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch d.active {
	case 0:
		d.frequency, cmd = d.frequency.Update(msg)
	case 1:
		d.compare, cmd = d.compare.Update(msg)
	case 2:
		d.baseline, cmd = d.baseline.Update(msg)
	case 3:
		d.explorer, cmd = d.explorer.Update(msg)
	case 4:
		d.help, cmd = d.help.Update(msg)
	}
	return d, cmd
}

// View implements tea.Model.
func (d Dashboard) View() string {
	var tabs []string
	for i, name := range d.tabs {
		if i == d.active {
			tabs = append(tabs, d.styles.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, d.styles.Tab.Render(name))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var page string
	switch d.active {
	case 0:
		page = d.frequency.View()
	case 1:
		page = d.compare.View()
	case 2:
		page = d.baseline.View()
	case 3:
		page = d.explorer.View()
	case 4:
		page = d.help.View()
	}

	footer := d.styles.Muted.Render("tab/arrows: switch  1-5: jump  q: quit")
	return strings.Join([]string{bar, page, footer}, "\n")
}
