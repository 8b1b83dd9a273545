package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sohamk0524/Teiko-Teiknical/cmd/teiko/ui"
	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

var baselineZeros bool

// baselineCmd prints the baseline subset breakdowns.
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Baseline cohort breakdowns by project, response, and sex",
	Long: `Restricts to the configured cohort at time_from_treatment_start = 0 and
counts distinct subjects per project, per response label, and per sex.`,
	RunE: runBaseline,
}

func init() {
	baselineCmd.Flags().BoolVar(&baselineZeros, "zeros", false,
		"include categories with no subjects in the cohort (default from config)")
}

func runBaseline(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	c := cohort()
	opts := analysis.BreakdownOptions{
		IncludeZeroCategories: cfg.Display.IncludeZeroCategories || baselineZeros,
	}
	breakdown, err := analysis.BaselineBreakdown(st, c, opts)
	if err != nil {
		return err
	}
	samples, err := analysis.BaselineSamples(st, c)
	if err != nil {
		return err
	}

	subjects := make(map[string]bool)
	for _, s := range samples {
		subjects[s.SubjectID] = true
	}
	fmt.Printf("Baseline cohort: condition=%s treatment=%s sample_type=%s time=0\n",
		c.Condition, c.Treatment, c.SampleType)
	fmt.Printf("%d samples, %d unique subjects\n\n", len(samples), len(subjects))

	styles := ui.DefaultStyles()
	printBreakdown(styles, "Subjects per Project", "Project", breakdown.Project)
	printBreakdown(styles, "Responders vs Non-Responders", "Response", breakdown.Response)
	printBreakdown(styles, "Sex Distribution", "Sex", breakdown.Sex)
	return nil
}

func printBreakdown(styles ui.Styles, title, dimension string, counts []analysis.CategoryCount) {
	table := ui.NewTable(title, dimension, "Subjects")
	table.AlignRight(1)
	for _, c := range counts {
		table.AddRow(c.Value, strconv.Itoa(c.Subjects))
	}
	fmt.Println(table.View(styles))
}
