package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sohamk0524/Teiko-Teiknical/cmd/teiko/ui"
	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

var frequencyOut string

// frequencyCmd prints the per-sample population frequency table.
var frequencyCmd = &cobra.Command{
	Use:   "frequency",
	Short: "Per-sample relative frequency of each cell population",
	Long: `Computes each population's count as a percentage of its sample's total count
across all populations, one row per (sample, population). Samples with a zero
total show an undefined percentage rather than failing.`,
	RunE: runFrequency,
}

func init() {
	frequencyCmd.Flags().StringVar(&frequencyOut, "out", "", "also write the table to a CSV file")
}

func runFrequency(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := analysis.FrequencyTable(st)
	if err != nil {
		return err
	}

	table := ui.NewTable("Cell Population Frequencies",
		"Sample", "Subject", "Population", "Count", "Total", "Percentage")
	table.AlignRight(3, 4, 5)
	samples := make(map[string]bool)
	for _, r := range rows {
		table.AddRow(r.SampleID, r.SubjectID, r.Population,
			strconv.Itoa(r.Count), strconv.Itoa(r.Total), ui.FormatPercent(r.Percentage))
		samples[r.SampleID] = true
	}
	fmt.Println(table.View(ui.DefaultStyles()))
	fmt.Printf("%d rows (%d samples x %d populations)\n", len(rows), len(samples), len(store.Populations))

	if frequencyOut != "" {
		if err := writeFrequencyCSV(frequencyOut, rows); err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", frequencyOut)
	}
	return nil
}

func writeFrequencyCSV(path string, rows []analysis.FrequencyRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sample", "subject", "population", "count", "total_count", "percentage"}); err != nil {
		return err
	}
	for _, r := range rows {
		pct := ""
		if r.Percentage.Valid {
			pct = strconv.FormatFloat(r.Percentage.Float64, 'f', 2, 64)
		}
		if err := w.Write([]string{r.SampleID, r.SubjectID, r.Population,
			strconv.Itoa(r.Count), strconv.Itoa(r.Total), pct}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
