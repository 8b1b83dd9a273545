package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

var meanFilter = analysis.DefaultMeanFilter()

// meanCmd answers the documented ad-hoc aggregation: the average cell count
// for a subject/sample filter. Unlike the baseline queries this filter has
// no treatment or sample-type restriction; that scope is part of the
// question, not an oversight.
var meanCmd = &cobra.Command{
	Use:   "mean",
	Short: "Average cell count for a subject/sample filter",
	Long: `Computes the arithmetic mean cell count over samples matching the filter,
rounded half-up to two decimal places. Defaults reproduce the documented
question: melanoma, male, responders, at time 0, b_cell.

Treatment and sample type are deliberately unrestricted here.`,
	RunE: runMean,
}

func init() {
	meanCmd.Flags().StringVar(&meanFilter.Condition, "condition", meanFilter.Condition, "subject condition")
	meanCmd.Flags().StringVar(&meanFilter.Sex, "sex", meanFilter.Sex, "subject sex")
	meanCmd.Flags().StringVar(&meanFilter.Response, "response", meanFilter.Response, "sample response label")
	meanCmd.Flags().Int64Var(&meanFilter.Timepoint, "time", meanFilter.Timepoint, "time from treatment start")
	meanCmd.Flags().StringVar(&meanFilter.Population, "population", meanFilter.Population, "cell population")
}

func runMean(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	mean, n, err := analysis.MeanCount(st, meanFilter)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Printf("No samples match: condition=%s sex=%s response=%s time=%d population=%s\n",
			meanFilter.Condition, meanFilter.Sex, meanFilter.Response,
			meanFilter.Timepoint, meanFilter.Population)
		return nil
	}
	fmt.Printf("Average %s count over %d samples (condition=%s sex=%s response=%s time=%d): %.2f\n",
		meanFilter.Population, n, meanFilter.Condition, meanFilter.Sex,
		meanFilter.Response, meanFilter.Timepoint, mean)
	return nil
}
