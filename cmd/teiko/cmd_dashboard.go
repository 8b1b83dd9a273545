package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sohamk0524/Teiko-Teiknical/cmd/teiko/ui"
	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

// dashboardCmd opens the interactive TUI over the query layer.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive dashboard over the trial data",
	Long: `Opens a tabbed terminal dashboard: the frequency table, the responders vs
non-responders comparison, the baseline breakdowns, and an interactive
cell-count explorer. All tabs consume the same query functions as the CLI
commands; the dashboard itself computes nothing.`,
	RunE: runDashboard,
}

// storeProvider adapts a *store.Store to the explorer's query needs.
type storeProvider struct {
	st *store.Store
}

func (p storeProvider) Explore(f analysis.ExploreFilter) ([]analysis.ExploreRow, analysis.ExploreSummary, error) {
	return analysis.Explore(p.st, f)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	c := cohort()
	data := ui.Data{Cohort: c, Populations: store.Populations}
	if data.Frequency, err = analysis.FrequencyTable(st); err != nil {
		return err
	}
	if data.Comparisons, err = analysis.CompareResponses(st, c); err != nil {
		return err
	}
	opts := analysis.BreakdownOptions{IncludeZeroCategories: cfg.Display.IncludeZeroCategories}
	if data.Breakdown, err = analysis.BaselineBreakdown(st, c, opts); err != nil {
		return err
	}
	if data.Baseline, err = analysis.BaselineSamples(st, c); err != nil {
		return err
	}
	if data.Attributes, err = analysis.AttributeValues(st); err != nil {
		return err
	}
	if data.Timepoints, err = analysis.Timepoints(st); err != nil {
		return err
	}

	model := ui.NewDashboard(data, storeProvider{st: st})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
