package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sohamk0524/Teiko-Teiknical/cmd/teiko/ui"
	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
)

// compareCmd runs the responders-vs-non-responders comparison.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Responders vs non-responders per population (Mann-Whitney U)",
	Long: `Restricts to the configured cohort (condition, treatment, sample type),
partitions each population's per-sample relative frequencies by response
label, and runs a two-sided Mann-Whitney U test per population.

P-values are raw; no multiple-comparison correction is applied.`,
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	c := cohort()
	results, err := analysis.CompareResponses(st, c)
	if err != nil {
		return err
	}

	fmt.Printf("Cohort: condition=%s treatment=%s sample_type=%s\n\n",
		c.Condition, c.Treatment, c.SampleType)
	if len(results) == 0 {
		fmt.Println("No samples match the cohort.")
		return nil
	}

	styles := ui.DefaultStyles()
	table := ui.NewTable("Responders vs Non-Responders",
		"Population", "Resp n", "Non-resp n", "Resp median", "Non-resp median", "U", "p-value", "p<0.05")
	table.AlignRight(1, 2, 3, 4, 5, 6)
	significant := 0
	for _, r := range results {
		pValue, flag := "-", "-"
		u := "-"
		if r.P != nil {
			pValue = strconv.FormatFloat(*r.P, 'f', 6, 64)
			u = strconv.FormatFloat(r.U, 'f', 1, 64)
			if r.Significant {
				flag = "yes"
				significant++
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
	fmt.Println(table.View(styles))
	fmt.Printf("%d of %d populations show a significant difference (p < 0.05).\n\n",
		significant, len(results))

	// Distribution summaries, the terminal stand-in for the boxplots.
	for _, r := range results {
		fmt.Println(styles.Title.Render(r.Population))
		fmt.Printf("  responders     %s\n", ui.BoxSummary(r.ResponderValues, 40))
		fmt.Printf("  non-responders %s\n", ui.BoxSummary(r.NonResponderValues, 40))
	}
	return nil
}
