package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csvHeader = strings.Join([]string{
	"project", "subject", "condition", "age", "sex", "treatment", "response",
	"sample", "sample_type", "time_from_treatment_start",
	"b_cell", "cd8_t_cell", "cd4_t_cell", "nk_cell", "monocyte",
}, ",")

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cell-count.csv")
	content := csvHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newLoadedStore(t *testing.T, opts LoadOptions, rows ...string) (*Store, *LoadResult, error) {
	t.Helper()
	st := newTestStore(t)
	require.NoError(t, st.Init())
	res, err := st.LoadCSV(writeCSV(t, rows...), opts)
	return st, res, err
}

func countRows(t *testing.T, st *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestLoadCSV_EndToEnd(t *testing.T) {
	// 2 subjects, 2 samples, 5 populations each.
	st, res, err := newLoadedStore(t, LoadOptions{StrictDemographics: true},
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
		"prj1,sbj2,melanoma,58,M,miraclib,no,smp2,PBMC,0,90,250,350,90,60",
	)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Subjects)
	assert.Equal(t, 2, res.Samples)
	assert.Equal(t, 10, res.CellCounts)

	assert.Equal(t, 2, countRows(t, st, "subjects"))
	assert.Equal(t, 2, countRows(t, st, "samples"))
	assert.Equal(t, 10, countRows(t, st, "cell_counts"))
}

func TestLoadCSV_SubjectDedupe(t *testing.T) {
	// Two samples for the same subject with identical demographics produce
	// one subject row.
	st, res, err := newLoadedStore(t, LoadOptions{StrictDemographics: true},
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp2,PBMC,7,110,280,390,120,70",
	)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Subjects)
	assert.Equal(t, 2, res.Samples)
	assert.Equal(t, 1, countRows(t, st, "subjects"))
}

func TestLoadCSV_DemographicConflict(t *testing.T) {
	rows := []string{
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
		"prj1,sbj1,melanoma,65,F,miraclib,yes,smp2,PBMC,7,110,280,390,120,70",
	}

	t.Run("strict fails and loads nothing", func(t *testing.T) {
		st, _, err := newLoadedStore(t, LoadOptions{StrictDemographics: true}, rows...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "demographics conflict")
		assert.Equal(t, 0, countRows(t, st, "subjects"))
		assert.Equal(t, 0, countRows(t, st, "samples"))
		assert.Equal(t, 0, countRows(t, st, "cell_counts"))
	})

	t.Run("lenient keeps the first occurrence", func(t *testing.T) {
		st, _, err := newLoadedStore(t, LoadOptions{}, rows...)
		require.NoError(t, err)

		var age int
		require.NoError(t, st.DB().QueryRow(
			"SELECT age FROM subjects WHERE subject_id = 'sbj1'").Scan(&age))
		assert.Equal(t, 64, age)
	})
}

func TestLoadCSV_MalformedRowAbortsWholeLoad(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{
			name:    "missing subject id",
			row:     "prj1,,melanoma,58,M,miraclib,no,smp2,PBMC,0,90,250,350,90,60",
			wantErr: "missing subject id",
		},
		{
			name:    "missing sample id",
			row:     "prj1,sbj2,melanoma,58,M,miraclib,no,,PBMC,0,90,250,350,90,60",
			wantErr: "missing sample id",
		},
		{
			name:    "invalid age",
			row:     "prj1,sbj2,melanoma,old,M,miraclib,no,smp2,PBMC,0,90,250,350,90,60",
			wantErr: "invalid age",
		},
		{
			name:    "invalid count",
			row:     "prj1,sbj2,melanoma,58,M,miraclib,no,smp2,PBMC,0,ninety,250,350,90,60",
			wantErr: "invalid b_cell count",
		},
		{
			name:    "negative count",
			row:     "prj1,sbj2,melanoma,58,M,miraclib,no,smp2,PBMC,0,-4,250,350,90,60",
			wantErr: "invalid b_cell count",
		},
		{
			name:    "duplicate sample id",
			row:     "prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,7,90,250,350,90,60",
			wantErr: "duplicate sample id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// First row is valid; the bad row must still abort everything.
			st, _, err := newLoadedStore(t, LoadOptions{StrictDemographics: true},
				"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
				tt.row,
			)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 0, countRows(t, st, "subjects"), "partial load left subjects behind")
			assert.Equal(t, 0, countRows(t, st, "samples"), "partial load left samples behind")
			assert.Equal(t, 0, countRows(t, st, "cell_counts"), "partial load left cell_counts behind")
		})
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Init())

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("subject,sample\nsbj1,smp1\n"), 0644))

	_, err := st.LoadCSV(path, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestLoadCSV_NullableFields(t *testing.T) {
	// Empty response and empty timepoint load as NULL, not as empty strings.
	st, _, err := newLoadedStore(t, LoadOptions{StrictDemographics: true},
		"prj1,sbj1,healthy,40,M,none,,smp1,PBMC,,100,200,300,50,25",
	)
	require.NoError(t, err)

	var nullResponses, nullTimes int
	require.NoError(t, st.DB().QueryRow(
		"SELECT COUNT(*) FROM samples WHERE response IS NULL").Scan(&nullResponses))
	require.NoError(t, st.DB().QueryRow(
		"SELECT COUNT(*) FROM samples WHERE time_from_treatment_start IS NULL").Scan(&nullTimes))
	assert.Equal(t, 1, nullResponses)
	assert.Equal(t, 1, nullTimes)
}

func TestLoadCSV_RecordsLoadRun(t *testing.T) {
	st, res, err := newLoadedStore(t, LoadOptions{StrictDemographics: true},
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
	)
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	runs, err := st.LoadRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, "cell-count.csv", runs[0].Source)
	assert.Equal(t, 1, runs[0].Subjects)
	assert.Equal(t, 1, runs[0].Samples)
	assert.Equal(t, 5, runs[0].CellCounts)
}
