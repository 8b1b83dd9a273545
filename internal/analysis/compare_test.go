package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cohortRow builds a melanoma/miraclib/PBMC sample row with the given b_cell
// count out of a fixed total of 1000 cells.
func cohortRow(i int, response string, bCell int) string {
	rest := 1000 - bCell
	// Spread the remaining cells over the other four populations.
	q := rest / 4
	return fmt.Sprintf("prj1,sbj%d,melanoma,50,F,miraclib,%s,smp%d,PBMC,0,%d,%d,%d,%d,%d",
		i, response, i, bCell, q, q, q, rest-3*q)
}

func TestCompareResponses_SeparatedGroups(t *testing.T) {
	// Responder b_cell frequencies are clearly above the non-responder ones
	// in every sample; with four observations per group the exact two-sided
	// Mann-Whitney U test reaches p = 2/70 < 0.05.
	st := loadFixture(t,
		cohortRow(1, "yes", 400),
		cohortRow(2, "yes", 410),
		cohortRow(3, "yes", 420),
		cohortRow(4, "yes", 430),
		cohortRow(5, "no", 100),
		cohortRow(6, "no", 110),
		cohortRow(7, "no", 120),
		cohortRow(8, "no", 130),
	)

	results, err := CompareResponses(st, defaultCohort())
	require.NoError(t, err)
	require.Len(t, results, 5)

	var bCell *PopulationComparison
	for i := range results {
		if results[i].Population == "b_cell" {
			bCell = &results[i]
		}
	}
	require.NotNil(t, bCell)
	assert.Equal(t, 4, bCell.Responders)
	assert.Equal(t, 4, bCell.NonResponders)
	require.NotNil(t, bCell.P)
	assert.Less(t, *bCell.P, 0.05)
	assert.True(t, bCell.Significant)
	assert.Greater(t, bCell.ResponderMedian, bCell.NonResponderMedian)
	assert.Empty(t, bCell.Reason)
}

func TestCompareResponses_InsufficientGroup(t *testing.T) {
	// Only responders in the cohort: every population must be reported with
	// an explicit reason, not dropped and not a panic.
	st := loadFixture(t,
		cohortRow(1, "yes", 400),
		cohortRow(2, "yes", 410),
	)

	results, err := CompareResponses(st, defaultCohort())
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, 2, r.Responders)
		assert.Equal(t, 0, r.NonResponders)
		assert.Nil(t, r.P, "population %s should have no p-value", r.Population)
		assert.False(t, r.Significant)
		assert.NotEmpty(t, r.Reason, "population %s needs a reason", r.Population)
	}
}

func TestCompareResponses_EmptyCohort(t *testing.T) {
	// Samples exist, but none match the cohort filters.
	st := loadFixture(t,
		"prj1,sbj1,healthy,40,M,none,,smp1,WB,0,100,200,300,50,25",
	)

	results, err := CompareResponses(st, defaultCohort())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompareResponses_ExcludesOutOfCohortSamples(t *testing.T) {
	// Tumor samples and other treatments must not leak into the groups.
	st := loadFixture(t,
		cohortRow(1, "yes", 400),
		cohortRow(2, "yes", 410),
		cohortRow(3, "no", 100),
		cohortRow(4, "no", 110),
		"prj1,sbj9,melanoma,50,F,miraclib,yes,smp9,tumor,0,900,25,25,25,25",
		"prj1,sbj10,melanoma,50,F,phauximab,no,smp10,PBMC,0,900,25,25,25,25",
	)

	results, err := CompareResponses(st, defaultCohort())
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, 2, r.Responders, "population %s", r.Population)
		assert.Equal(t, 2, r.NonResponders, "population %s", r.Population)
	}
}
