package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

// BaselinePage shows the baseline cohort metrics, the three breakdown
// charts, and the sample listing.
type BaselinePage struct {
	viewport  viewport.Model
	cohort    analysis.Cohort
	breakdown *analysis.Breakdown
	samples   []analysis.BaselineSample
	styles    Styles
}

// NewBaselinePage creates the baseline tab.
func NewBaselinePage(cohort analysis.Cohort, breakdown *analysis.Breakdown,
	samples []analysis.BaselineSample, styles Styles) BaselinePage {
	p := BaselinePage{
		viewport:  viewport.New(80, 20),
		cohort:    cohort,
		breakdown: breakdown,
		samples:   samples,
		styles:    styles,
	}
	p.refresh()
	return p
}

// SetSize updates the page dimensions.
func (p *BaselinePage) SetSize(w, h int) {
	p.viewport.Width = w
	p.viewport.Height = h
	p.refresh()
}

func (p *BaselinePage) metric(label string, value int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		p.styles.Metric.Render(strconv.Itoa(value)),
		p.styles.MetricLabel.Render(label))
}

func (p *BaselinePage) refresh() {
	var sb strings.Builder
	sb.WriteString(p.styles.Header.Render("Baseline Subset Analysis"))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render(fmt.Sprintf(
		"cohort: %s / %s / %s at time 0", p.cohort.Condition, p.cohort.Treatment, p.cohort.SampleType)))
	sb.WriteString("\n\n")

	subjects := make(map[string]bool)
	responders, nonResponders := 0, 0
	for _, c := range p.breakdown.Response {
		switch c.Value {
		case "yes":
			responders = c.Subjects
		case "no":
			nonResponders = c.Subjects
		}
	}
	for _, s := range p.samples {
		subjects[s.SubjectID] = true
	}

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		p.metric("samples", len(p.samples)), "    ",
		p.metric("subjects", len(subjects)), "    ",
		p.metric("responders", responders), "    ",
		p.metric("non-responders", nonResponders)))
	sb.WriteString("\n\n")

	sb.WriteString(BarChart("Subjects per Project", barData(p.breakdown.Project, ""), 30, p.styles))
	sb.WriteString("\n")
	sb.WriteString(BarChart("Responders vs Non-Responders", responseBars(p.breakdown.Response), 30, p.styles))
	sb.WriteString("\n")
	sb.WriteString(BarChart("Sex Distribution", barData(p.breakdown.Sex, colorPrimary), 30, p.styles))
	sb.WriteString("\n")

	table := NewTable("Baseline Samples", "Sample", "Subject", "Project", "Response", "Sex", "Age")
	table.AlignRight(5)
	for _, s := range p.samples {
		response := "-"
		if s.Response.Valid {
			response = s.Response.String
		}
		table.AddRow(s.SampleID, s.SubjectID, s.Project, response, s.Sex, strconv.Itoa(s.Age))
	}
	sb.WriteString(table.View(p.styles))
	p.viewport.SetContent(sb.String())
}

func barData(counts []analysis.CategoryCount, color lipgloss.Color) []BarDatum {
	out := make([]BarDatum, 0, len(counts))
	for _, c := range counts {
		out = append(out, BarDatum{Label: c.Value, Value: c.Subjects, Color: color})
	}
	return out
}

func responseBars(counts []analysis.CategoryCount) []BarDatum {
	out := make([]BarDatum, 0, len(counts))
	for _, c := range counts {
		color := ColorNonResponder
		if c.Value == "yes" {
			color = ColorResponder
		}
		out = append(out, BarDatum{Label: c.Value, Value: c.Subjects, Color: color})
	}
	return out
}

// Update handles messages.
func (p BaselinePage) Update(msg tea.Msg) (BaselinePage, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the page.
func (p BaselinePage) View() string {
	return p.viewport.View()
}
