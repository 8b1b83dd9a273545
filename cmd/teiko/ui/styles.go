// Package ui provides the lipgloss styling, table and chart widgets, and the
// bubbletea dashboard for the trial analysis CLI. It is a pure consumer of
// the analysis package: every number it shows comes out of a query function.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#3498db")
	colorAccent  = lipgloss.Color("#2ecc71")
	colorDanger  = lipgloss.Color("#e74c3c")
	colorWarning = lipgloss.Color("#f1c40f")
	colorMuted   = lipgloss.Color("241")
	colorBorder  = lipgloss.Color("238")

	// Responder coloring matches the original report conventions: green for
	// responders, red for non-responders.
	ColorResponder    = colorAccent
	ColorNonResponder = colorDanger
)

// Styles holds the shared render styles.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	Metric      lipgloss.Style
	MetricLabel lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Underline(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Body:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Success: lipgloss.NewStyle().Foreground(colorAccent),
		Error:   lipgloss.NewStyle().Foreground(colorDanger),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),

		Tab: lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(colorAccent).
			Padding(0, 2).Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorAccent),

		Metric:      lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		MetricLabel: lipgloss.NewStyle().Foreground(colorMuted),
	}
}
