package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

var csvHeader = strings.Join([]string{
	"project", "subject", "condition", "age", "sex", "treatment", "response",
	"sample", "sample_type", "time_from_treatment_start",
	"b_cell", "cd8_t_cell", "cd4_t_cell", "nk_cell", "monocyte",
}, ",")

// loadFixture builds an in-memory store from wide-format CSV rows, going
// through the real loader so the tests exercise the same path as production.
func loadFixture(t *testing.T, rows ...string) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Init())

	path := filepath.Join(t.TempDir(), "fixture.csv")
	content := csvHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err = st.LoadCSV(path, store.LoadOptions{StrictDemographics: true})
	require.NoError(t, err)
	return st
}

// defaultCohort matches the trial's documented filter set.
func defaultCohort() Cohort {
	return Cohort{Condition: "melanoma", Treatment: "miraclib", SampleType: "PBMC"}
}
