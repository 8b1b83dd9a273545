package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

var (
	loadCSVPath string
	loadReset   bool
	loadLenient bool
)

// loadCmd initializes the schema and ingests the cell-count CSV.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Initialize the database and load the cell-count CSV",
	Long: `Creates the normalized schema (subjects, samples, cell_counts) and loads the
wide-format CSV into it. Each CSV row becomes one sample row plus one
cell_counts row per population; subjects are deduplicated by subject id.

The load is all-or-nothing: a malformed row or a referential violation aborts
the whole load. Loading into an already-initialized database fails; pass
--reset to delete the database file first.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadCSVPath, "csv", "", "path to the cell-count CSV (default from config)")
	loadCmd.Flags().BoolVar(&loadReset, "reset", false, "delete the existing database file before loading")
	loadCmd.Flags().BoolVar(&loadLenient, "lenient", false,
		"keep the first occurrence on conflicting duplicate subject rows instead of failing")
}

func runLoad(cmd *cobra.Command, args []string) error {
	csvPath := loadCSVPath
	if csvPath == "" {
		csvPath = cfg.Input.CSVPath
	}

	if loadReset {
		if err := os.Remove(cfg.Database.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Init(); err != nil {
		return err
	}

	opts := store.LoadOptions{StrictDemographics: cfg.Input.StrictDemographics && !loadLenient}
	res, err := st.LoadCSV(csvPath, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d subjects, %d samples, %d cell count records from %s (run %s).\n",
		res.Subjects, res.Samples, res.CellCounts, res.Source, res.RunID)
	return nil
}
