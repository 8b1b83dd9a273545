package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

const allOption = "(all)"

// explorerField is one single-select filter attribute.
type explorerField struct {
	name     string
	options  []string
	selected int
}

func (f explorerField) value() (string, bool) {
	v := f.options[f.selected]
	return v, v != allOption
}

// ExplorerPage is the interactive cell-count explorer: pick attribute
// filters and a population, get summary statistics, a count histogram, and
// the matching rows.
type ExplorerPage struct {
	viewport viewport.Model
	provider ExploreProvider

	fields []explorerField
	active int

	rows    []analysis.ExploreRow
	summary analysis.ExploreSummary
	err     error

	styles Styles
}

// NewExplorerPage creates the explorer tab and runs the initial query.
func NewExplorerPage(data Data, provider ExploreProvider, styles Styles) ExplorerPage {
	withAll := func(values []string) []string {
		return append([]string{allOption}, values...)
	}
	timepoints := []string{allOption}
	for _, t := range data.Timepoints {
		timepoints = append(timepoints, strconv.FormatInt(t, 10))
	}

	fields := []explorerField{
		{name: "condition", options: withAll(data.Attributes["condition"])},
		{name: "sex", options: withAll(data.Attributes["sex"])},
		{name: "treatment", options: withAll(data.Attributes["treatment"])},
		{name: "response", options: withAll(data.Attributes["response"])},
		{name: "sample_type", options: withAll(data.Attributes["sample_type"])},
		{name: "timepoint", options: timepoints},
		{name: "population", options: data.Populations},
	}

	p := ExplorerPage{
		viewport: viewport.New(80, 20),
		provider: provider,
		fields:   fields,
		styles:   styles,
	}
	p.runQuery()
	return p
}

// SetSize updates the page dimensions.
func (p *ExplorerPage) SetSize(w, h int) {
	p.viewport.Width = w
	p.viewport.Height = h - len(p.fields) - 2
	p.refresh()
}

func (p *ExplorerPage) filter() analysis.ExploreFilter {
	f := analysis.ExploreFilter{}
	pick := func(name string) []string {
		for _, field := range p.fields {
			if field.name == name {
				if v, ok := field.value(); ok {
					return []string{v}
				}
			}
		}
		return nil
	}
	f.Conditions = pick("condition")
	f.Sexes = pick("sex")
	f.Treatments = pick("treatment")
	f.Responses = pick("response")
	f.SampleTypes = pick("sample_type")
	for _, field := range p.fields {
		switch field.name {
		case "timepoint":
			if v, ok := field.value(); ok {
				t, _ := strconv.ParseInt(v, 10, 64)
				f.Timepoints = []int64{t}
			}
		case "population":
			f.Population = field.options[field.selected]
		}
	}
	return f
}

func (p *ExplorerPage) runQuery() {
	p.rows, p.summary, p.err = p.provider.Explore(p.filter())
	p.refresh()
}

func (p *ExplorerPage) refresh() {
	var sb strings.Builder
	if p.err != nil {
		p.viewport.SetContent(p.styles.Error.Render(fmt.Sprintf("query failed: %v", p.err)))
		return
	}
	if p.summary.Rows == 0 {
		p.viewport.SetContent(p.styles.Warning.Render("No data matches the selected filters."))
		return
	}

	sb.WriteString(fmt.Sprintf("%s %d   %s %.2f   %s %.2f   %s %.2f   %s %d\n\n",
		p.styles.MetricLabel.Render("samples"), p.summary.Rows,
		p.styles.MetricLabel.Render("mean"), p.summary.Mean,
		p.styles.MetricLabel.Render("median"), p.summary.Median,
		p.styles.MetricLabel.Render("stddev"), p.summary.StdDev,
		p.styles.MetricLabel.Render("subjects"), p.summary.Subjects))

	counts := make([]float64, 0, len(p.rows))
	for _, r := range p.rows {
		counts = append(counts, float64(r.Count))
	}
	sb.WriteString(Histogram("Count Distribution", counts, 10, 30, p.styles))
	sb.WriteString("\n")

	table := NewTable("", "Sample", "Subject", "Condition", "Sex", "Treatment", "Response", "Type", "Time", "Count")
	table.AlignRight(8)
	for _, r := range p.rows {
		response, timepoint := "-", "-"
		if r.Response.Valid {
			response = r.Response.String
		}
		if r.Timepoint.Valid {
			timepoint = strconv.FormatInt(r.Timepoint.Int64, 10)
		}
		table.AddRow(r.SampleID, r.SubjectID, r.Condition, r.Sex, r.Treatment,
			response, r.SampleType, timepoint, strconv.Itoa(r.Count))
	}
	sb.WriteString(table.View(p.styles))
	p.viewport.SetContent(sb.String())
}

// Update handles messages.
func (p ExplorerPage) Update(msg tea.Msg) (ExplorerPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if p.active > 0 {
				p.active--
			}
			return p, nil
		case "down", "j":
			if p.active < len(p.fields)-1 {
				p.active++
			}
			return p, nil
		case "enter", " ":
			field := &p.fields[p.active]
			field.selected = (field.selected + 1) % len(field.options)
			p.runQuery()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the filter fields above the results viewport.
func (p ExplorerPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Header.Render("Cell Count Explorer"))
	sb.WriteString(p.styles.Muted.Render("  (up/down: field, enter: cycle value)"))
	sb.WriteString("\n")
	for i, f := range p.fields {
		marker := "  "
		line := fmt.Sprintf("%-12s %s", f.name, f.options[f.selected])
		if i == p.active {
			marker = p.styles.Success.Render("> ")
			line = p.styles.Bold.Render(line)
		}
		sb.WriteString(marker + line + "\n")
	}
	return sb.String() + p.viewport.View()
}
