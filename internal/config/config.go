// Package config holds the YAML configuration for the trial analysis CLI.
// A config file is optional: every field has a working default, the file
// overrides defaults, and environment variables override the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all teiko configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Input    InputConfig    `yaml:"input"`
	Cohort   CohortConfig   `yaml:"cohort"`
	Display  DisplayConfig  `yaml:"display"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig configures the SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// InputConfig configures CSV ingestion.
type InputConfig struct {
	CSVPath string `yaml:"csv_path"`

	// StrictDemographics fails the load when duplicate subject rows carry
	// conflicting condition/age/sex values instead of silently keeping the
	// first occurrence.
	StrictDemographics bool `yaml:"strict_demographics"`
}

// CohortConfig pins the cohort used by the compare and baseline queries.
type CohortConfig struct {
	Condition  string `yaml:"condition"`
	Treatment  string `yaml:"treatment"`
	SampleType string `yaml:"sample_type"`
}

// DisplayConfig configures presentation behavior shared by the CLI tables
// and the dashboard.
type DisplayConfig struct {
	// IncludeZeroCategories shows breakdown categories that exist in the
	// dataset but have no subjects in the selected cohort.
	IncludeZeroCategories bool `yaml:"include_zero_categories"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "clinical_trial.db"},
		Input: InputConfig{
			CSVPath:            "cell-count.csv",
			StrictDemographics: true,
		},
		Cohort: CohortConfig{
			Condition:  "melanoma",
			Treatment:  "miraclib",
			SampleType: "PBMC",
		},
		Display: DisplayConfig{IncludeZeroCategories: false},
	}
}

// Load reads the config file at path, falling back to defaults when path is
// empty or the file does not exist. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides maps environment variables onto config fields.
// TEIKO_DB and TEIKO_CSV take precedence over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TEIKO_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("TEIKO_CSV"); v != "" {
		c.Input.CSVPath = v
	}
}
