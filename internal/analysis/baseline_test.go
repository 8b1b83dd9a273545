package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineBreakdown(t *testing.T) {
	st := loadFixture(t,
		// Baseline cohort: 4 subjects across two projects.
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
		"prj1,sbj2,melanoma,58,M,miraclib,no,smp2,PBMC,0,90,250,350,90,60",
		"prj2,sbj3,melanoma,71,F,miraclib,yes,smp3,PBMC,0,110,280,390,120,70",
		"prj2,sbj4,melanoma,45,M,miraclib,yes,smp4,PBMC,0,95,260,360,95,65",
		// Same cohort, later timepoint: excluded from baseline.
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp5,PBMC,7,100,290,380,110,75",
		// Different treatment: excluded.
		"prj3,sbj5,melanoma,50,F,phauximab,no,smp6,PBMC,0,80,240,340,85,55",
	)

	b, err := BaselineBreakdown(st, defaultCohort(), BreakdownOptions{})
	require.NoError(t, err)

	wantProject := []CategoryCount{{Value: "prj1", Subjects: 2}, {Value: "prj2", Subjects: 2}}
	wantResponse := []CategoryCount{{Value: "no", Subjects: 1}, {Value: "yes", Subjects: 3}}
	wantSex := []CategoryCount{{Value: "F", Subjects: 2}, {Value: "M", Subjects: 2}}

	if diff := cmp.Diff(wantProject, b.Project); diff != "" {
		t.Errorf("project breakdown mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantResponse, b.Response); diff != "" {
		t.Errorf("response breakdown mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantSex, b.Sex); diff != "" {
		t.Errorf("sex breakdown mismatch (-want +got):\n%s", diff)
	}

	// Counts sum to cohort size per dimension.
	for _, counts := range [][]CategoryCount{b.Response, b.Sex} {
		total := 0
		for _, c := range counts {
			total += c.Subjects
		}
		assert.Equal(t, 4, total)
	}
}

func TestBaselineBreakdown_ZeroCategories(t *testing.T) {
	st := loadFixture(t,
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
		// prj9 exists in the dataset but not in the baseline cohort.
		"prj9,sbj2,lupus,58,M,phauximab,no,smp2,PBMC,0,90,250,350,90,60",
	)

	t.Run("hidden by default", func(t *testing.T) {
		b, err := BaselineBreakdown(st, defaultCohort(), BreakdownOptions{})
		require.NoError(t, err)
		require.Len(t, b.Project, 1)
		assert.Equal(t, "prj1", b.Project[0].Value)
	})

	t.Run("shown when requested", func(t *testing.T) {
		b, err := BaselineBreakdown(st, defaultCohort(),
			BreakdownOptions{IncludeZeroCategories: true})
		require.NoError(t, err)
		want := []CategoryCount{{Value: "prj1", Subjects: 1}, {Value: "prj9", Subjects: 0}}
		if diff := cmp.Diff(want, b.Project); diff != "" {
			t.Errorf("project breakdown mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBaselineBreakdown_EmptyCohort(t *testing.T) {
	// No matching subjects at all: empty tables, no error.
	st := loadFixture(t,
		"prj1,sbj1,healthy,40,M,none,,smp1,WB,0,100,200,300,50,25",
	)

	b, err := BaselineBreakdown(st, defaultCohort(), BreakdownOptions{})
	require.NoError(t, err)
	assert.Empty(t, b.Project)
	assert.Empty(t, b.Response)
	assert.Empty(t, b.Sex)
}

func TestBaselineSamples(t *testing.T) {
	st := loadFixture(t,
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp1,PBMC,0,120,300,400,100,80",
		"prj1,sbj1,melanoma,64,F,miraclib,yes,smp2,PBMC,7,100,290,380,110,75",
		"prj1,sbj2,melanoma,58,M,miraclib,no,smp3,PBMC,0,90,250,350,90,60",
	)

	samples, err := BaselineSamples(st, defaultCohort())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "smp1", samples[0].SampleID)
	assert.Equal(t, "smp3", samples[1].SampleID)
	assert.Equal(t, "yes", samples[0].Response.String)
	assert.Equal(t, 64, samples[0].Age)
}
