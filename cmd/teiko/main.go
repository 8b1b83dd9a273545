// Command teiko ingests clinical trial cell-count CSVs into a normalized
// SQLite schema and answers the trial's aggregation questions from it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sohamk0524/Teiko-Teiknical/internal/analysis"
	"github.com/sohamk0524/Teiko-Teiknical/internal/config"
	"github.com/sohamk0524/Teiko-Teiknical/internal/logging"
	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

var (
	// Global flags
	cfgPath string
	dbPath  string
	verbose bool

	// Resolved at startup
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "teiko",
	Short: "Clinical trial immune cell-count analysis",
	Long: `teiko loads a wide-format cell-count CSV into a normalized SQLite schema
and exposes the trial's aggregation queries over it:

  - per-sample relative population frequencies
  - responders vs non-responders (Mann-Whitney U, two-sided, raw p-values)
  - baseline cohort breakdowns by project, response, and sex

Run without arguments to open the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		logger, err = logging.New(verbose || cfg.Logging.Verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "teiko.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override the database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(frequencyCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(meanCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// openStore opens the configured database for a read-side command.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}
	ok, err := st.Initialized()
	if err != nil {
		st.Close()
		return nil, err
	}
	if !ok {
		st.Close()
		return nil, fmt.Errorf("database %s is not initialized; run 'teiko load' first", cfg.Database.Path)
	}
	return st, nil
}

// cohort resolves the configured compare/baseline cohort.
func cohort() analysis.Cohort {
	return analysis.Cohort{
		Condition:  cfg.Cohort.Condition,
		Treatment:  cfg.Cohort.Treatment,
		SampleType: cfg.Cohort.SampleType,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
