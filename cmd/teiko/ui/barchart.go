package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BarDatum is one labeled bar.
type BarDatum struct {
	Label string
	Value int
	Color lipgloss.Color
}

// BarChart renders a horizontal bar chart. Bars scale to maxWidth cells; a
// zero-valued bar still shows its label and count.
func BarChart(title string, data []BarDatum, maxWidth int, styles Styles) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(styles.Title.Render(title))
		sb.WriteString("\n")
	}
	if len(data) == 0 {
		sb.WriteString(styles.Muted.Render("(no data)"))
		return sb.String()
	}

	labelWidth, max := 0, 0
	for _, d := range data {
		if len(d.Label) > labelWidth {
			labelWidth = len(d.Label)
		}
		if d.Value > max {
			max = d.Value
		}
	}

	for _, d := range data {
		bar := ""
		if max > 0 && d.Value > 0 {
			n := d.Value * maxWidth / max
			if n == 0 {
				n = 1
			}
			bar = strings.Repeat("█", n)
		}
		color := d.Color
		if color == "" {
			color = colorPrimary
		}
		sb.WriteString(fmt.Sprintf("%-*s %s %d\n", labelWidth, d.Label,
			lipgloss.NewStyle().Foreground(color).Render(bar), d.Value))
	}
	return sb.String()
}

// Histogram bins the values into at most bins equal-width buckets and
// renders them as a bar chart.
func Histogram(title string, values []float64, bins, maxWidth int, styles Styles) string {
	if len(values) == 0 {
		return styles.Muted.Render("(no data)")
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return BarChart(title, []BarDatum{{Label: fmt.Sprintf("%.0f", lo), Value: len(values)}}, maxWidth, styles)
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	data := make([]BarDatum, bins)
	for i, c := range counts {
		data[i] = BarDatum{
			Label: fmt.Sprintf("%.0f-%.0f", lo+float64(i)*width, lo+float64(i+1)*width),
			Value: c,
		}
	}
	return BarChart(title, data, maxWidth, styles)
}
