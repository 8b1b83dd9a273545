package ui

import (
	"fmt"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// fiveNum is the five-number summary of a distribution.
type fiveNum struct {
	Min, Q1, Median, Q3, Max float64
}

func summarize(values []float64) fiveNum {
	s := stats.Sample{Xs: values}
	return fiveNum{
		Min:    s.Quantile(0),
		Q1:     s.Quantile(0.25),
		Median: s.Quantile(0.5),
		Q3:     s.Quantile(0.75),
		Max:    s.Quantile(1),
	}
}

// BoxSummary renders a one-line text box plot of the values scaled to width
// cells, with the five-number summary appended. It stands in for the
// graphical boxplots of the comparison report.
func BoxSummary(values []float64, width int) string {
	if len(values) == 0 {
		return "(no observations)"
	}
	f := summarize(values)
	span := f.Max - f.Min
	if span == 0 || width < 10 {
		return fmt.Sprintf("n=%d all at %.2f", len(values), f.Median)
	}

	pos := func(v float64) int {
		p := int(float64(width-1) * (v - f.Min) / span)
		if p < 0 {
			p = 0
		}
		if p > width-1 {
			p = width - 1
		}
		return p
	}

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	for i := pos(f.Min); i <= pos(f.Max); i++ {
		line[i] = '─'
	}
	for i := pos(f.Q1); i <= pos(f.Q3); i++ {
		line[i] = '█'
	}
	line[pos(f.Min)] = '├'
	line[pos(f.Max)] = '┤'
	line[pos(f.Median)] = '┃'

	return fmt.Sprintf("%s  min=%.2f q1=%.2f med=%.2f q3=%.2f max=%.2f n=%d",
		strings.TrimRight(string(line), " "), f.Min, f.Q1, f.Median, f.Q3, f.Max, len(values))
}
