package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

// ComparePage shows the Mann-Whitney comparison table and per-population
// distribution summaries.
type ComparePage struct {
	viewport viewport.Model
	cohort   analysis.Cohort
	results  []analysis.PopulationComparison
	styles   Styles
}

// NewComparePage creates the comparison tab.
func NewComparePage(cohort analysis.Cohort, results []analysis.PopulationComparison, styles Styles) ComparePage {
	p := ComparePage{
		viewport: viewport.New(80, 20),
		cohort:   cohort,
		results:  results,
		styles:   styles,
	}
	p.refresh(76)
	return p
}

// SetSize updates the page dimensions.
func (p *ComparePage) SetSize(w, h int) {
	p.viewport.Width = w
	p.viewport.Height = h
	p.refresh(w - 4)
}

func (p *ComparePage) refresh(width int) {
	var sb strings.Builder
	sb.WriteString(p.styles.Header.Render("Responders vs Non-Responders"))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render(fmt.Sprintf(
		"cohort: %s / %s / %s  -  raw two-sided Mann-Whitney U p-values, uncorrected",
		p.cohort.Condition, p.cohort.Treatment, p.cohort.SampleType)))
	sb.WriteString("\n\n")

	if len(p.results) == 0 {
		sb.WriteString(p.styles.Muted.Render("No samples match the cohort."))
		p.viewport.SetContent(sb.String())
		return
	}

	table := NewTable("", "Population", "Resp n", "Non-resp n", "Resp med", "Non-resp med", "U", "p-value", "p<0.05")
	table.AlignRight(1, 2, 3, 4, 5, 6)
	for _, r := range p.results {
		pValue, u, flag := "-", "-", "-"
		if r.P != nil {
			pValue = strconv.FormatFloat(*r.P, 'f', 6, 64)
			u = strconv.FormatFloat(r.U, 'f', 1, 64)
			if r.Significant {
				flag = p.styles.Success.Render("yes")
			} else {
				flag = "no"
			}
		} else {
			pValue = r.Reason
		}
		table.AddRow(r.Population,
			strconv.Itoa(r.Responders), strconv.Itoa(r.NonResponders),
			fmt.Sprintf("%.2f", r.ResponderMedian), fmt.Sprintf("%.2f", r.NonResponderMedian),
			u, pValue, flag)
	}
	sb.WriteString(table.View(p.styles))
	sb.WriteString("\n")

	boxWidth := width - 20
	if boxWidth < 20 {
		boxWidth = 20
	}
	for _, r := range p.results {
		sb.WriteString(p.styles.Title.Render(r.Population))
		sb.WriteString("\n")
		sb.WriteString("  " + p.styles.Success.Render("responders    ") + " " +
			BoxSummary(r.ResponderValues, boxWidth) + "\n")
		sb.WriteString("  " + p.styles.Error.Render("non-responders") + " " +
			BoxSummary(r.NonResponderValues, boxWidth) + "\n\n")
	}
	p.viewport.SetContent(sb.String())
}

// Update handles messages.
func (p ComparePage) Update(msg tea.Msg) (ComparePage, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the page.
func (p ComparePage) View() string {
	return p.viewport.View()
}
