package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "clinical_trial.db", cfg.Database.Path)
	assert.Equal(t, "cell-count.csv", cfg.Input.CSVPath)
	assert.True(t, cfg.Input.StrictDemographics)
	assert.Equal(t, "melanoma", cfg.Cohort.Condition)
	assert.Equal(t, "miraclib", cfg.Cohort.Treatment)
	assert.Equal(t, "PBMC", cfg.Cohort.SampleType)
	assert.False(t, cfg.Display.IncludeZeroCategories)
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		t.Setenv("TEIKO_DB", "")
		t.Setenv("TEIKO_CSV", "")
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "teiko.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: trial.db
cohort:
  condition: lupus
display:
  include_zero_categories: true
`), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "trial.db", cfg.Database.Path)
		assert.Equal(t, "lupus", cfg.Cohort.Condition)
		// Untouched fields keep their defaults.
		assert.Equal(t, "miraclib", cfg.Cohort.Treatment)
		assert.True(t, cfg.Display.IncludeZeroCategories)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "teiko.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database: ["), 0644))

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("TEIKO_DB overrides database path", func(t *testing.T) {
		t.Setenv("TEIKO_DB", "/tmp/override.db")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	})

	t.Run("TEIKO_CSV overrides csv path", func(t *testing.T) {
		t.Setenv("TEIKO_CSV", "/tmp/data.csv")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/data.csv", cfg.Input.CSVPath)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("TEIKO_DB", "/tmp/env.db")
		path := filepath.Join(t.TempDir(), "teiko.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  path: file.db\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	})
}
