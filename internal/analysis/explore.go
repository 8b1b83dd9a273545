package analysis

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

// MeanFilter scopes the ad-hoc mean-count aggregation. Subjects filter on
// condition and sex; samples filter on response and timepoint. Treatment and
// sample type are deliberately NOT part of this filter: the documented
// question ("average b_cell count for melanoma male responders at baseline")
// spans all treatments and sample types, unlike the baseline cohort queries.
type MeanFilter struct {
	Condition  string
	Sex        string
	Response   string
	Timepoint  int64
	Population string
}

// DefaultMeanFilter reproduces the documented ad-hoc question.
func DefaultMeanFilter() MeanFilter {
	return MeanFilter{
		Condition:  "melanoma",
		Sex:        "M",
		Response:   "yes",
		Timepoint:  0,
		Population: "b_cell",
	}
}

const meanCountSQL = `
SELECT cc.count
FROM cell_counts cc
JOIN samples s ON cc.sample_id = s.sample_id
JOIN subjects sub ON s.subject_id = sub.subject_id
WHERE sub.condition = ?
  AND sub.sex = ?
  AND s.response = ?
  AND s.time_from_treatment_start = ?
  AND cc.population = ?`

// MeanCount returns the arithmetic mean of the matching cell counts, rounded
// half-up to two decimal places, along with the number of samples that
// matched. Zero matches yield (0, 0, nil).
func MeanCount(st *store.Store, f MeanFilter) (float64, int, error) {
	rows, err := st.DB().Query(meanCountSQL, f.Condition, f.Sex, f.Response, f.Timepoint, f.Population)
	if err != nil {
		return 0, 0, fmt.Errorf("mean count query failed: %w", err)
	}
	defer rows.Close()

	var sum, n int
	for rows.Next() {
		var count int
		if err := rows.Scan(&count); err != nil {
			return 0, 0, fmt.Errorf("mean count scan failed: %w", err)
		}
		sum += count
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if n == 0 {
		return 0, 0, nil
	}
	return roundHalfUp2(float64(sum) / float64(n)), n, nil
}

// roundHalfUp2 rounds to two decimal places with ties going up, matching the
// reporting convention of the trial analysis.
func roundHalfUp2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ExploreFilter is the dashboard explorer's multi-select filter. An empty
// slice leaves that attribute unrestricted; Population must name exactly one
// population.
type ExploreFilter struct {
	Conditions  []string
	Sexes       []string
	Treatments  []string
	Responses   []string
	SampleTypes []string
	Timepoints  []int64
	Population  string
}

// ExploreRow is one matching cell-count measurement with its sample and
// subject context joined in.
type ExploreRow struct {
	SampleID   string
	SubjectID  string
	Condition  string
	Sex        string
	Age        int
	Project    string
	Treatment  string
	Response   sql.NullString
	SampleType string
	Timepoint  sql.NullInt64
	Population string
	Count      int
}

// ExploreSummary aggregates the matching counts.
type ExploreSummary struct {
	Rows     int
	Subjects int
	Mean     float64
	Median   float64
	StdDev   float64
}

// Explore returns the cell-count rows matching the filter together with
// summary statistics over the counts. No matches yield an empty slice and a
// zero summary.
func Explore(st *store.Store, f ExploreFilter) ([]ExploreRow, ExploreSummary, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT
	s.sample_id, s.subject_id, sub.condition, sub.sex, sub.age,
	s.project, s.treatment, s.response, s.sample_type,
	s.time_from_treatment_start, cc.population, cc.count
FROM cell_counts cc
JOIN samples s ON cc.sample_id = s.sample_id
JOIN subjects sub ON s.subject_id = sub.subject_id
WHERE cc.population = ?`)
	args := []any{f.Population}

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf(" AND %s IN (?%s)", column,
			strings.Repeat(", ?", len(values)-1)))
		for _, v := range values {
			args = append(args, v)
		}
	}
	addIn("sub.condition", f.Conditions)
	addIn("sub.sex", f.Sexes)
	addIn("s.treatment", f.Treatments)
	addIn("s.response", f.Responses)
	addIn("s.sample_type", f.SampleTypes)
	if len(f.Timepoints) > 0 {
		sb.WriteString(fmt.Sprintf(" AND s.time_from_treatment_start IN (?%s)",
			strings.Repeat(", ?", len(f.Timepoints)-1)))
		for _, t := range f.Timepoints {
			args = append(args, t)
		}
	}
	sb.WriteString(" ORDER BY s.sample_id")

	rows, err := st.DB().Query(sb.String(), args...)
	if err != nil {
		return nil, ExploreSummary{}, fmt.Errorf("explore query failed: %w", err)
	}
	defer rows.Close()

	var out []ExploreRow
	subjects := make(map[string]bool)
	var counts []float64
	for rows.Next() {
		var r ExploreRow
		if err := rows.Scan(&r.SampleID, &r.SubjectID, &r.Condition, &r.Sex, &r.Age,
			&r.Project, &r.Treatment, &r.Response, &r.SampleType,
			&r.Timepoint, &r.Population, &r.Count); err != nil {
			return nil, ExploreSummary{}, fmt.Errorf("explore scan failed: %w", err)
		}
		out = append(out, r)
		subjects[r.SubjectID] = true
		counts = append(counts, float64(r.Count))
	}
	if err := rows.Err(); err != nil {
		return nil, ExploreSummary{}, err
	}

	summary := ExploreSummary{Rows: len(out), Subjects: len(subjects)}
	if len(counts) > 0 {
		sample := stats.Sample{Xs: counts}
		summary.Mean = sample.Mean()
		summary.Median = sample.Quantile(0.5)
		summary.StdDev = sample.StdDev()
	}
	return out, summary, nil
}

// Timepoints lists the distinct non-null timepoints in the dataset, for the
// explorer's timepoint filter.
func Timepoints(st *store.Store) ([]int64, error) {
	rows, err := st.DB().Query(
		"SELECT DISTINCT time_from_treatment_start FROM samples WHERE time_from_treatment_start IS NOT NULL ORDER BY 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var t int64
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AttributeValues returns the distinct values of the filterable sample and
// subject attributes, for populating explorer filter choices.
func AttributeValues(st *store.Store) (map[string][]string, error) {
	queries := map[string]string{
		"condition":   "SELECT DISTINCT condition FROM subjects ORDER BY condition",
		"sex":         "SELECT DISTINCT sex FROM subjects ORDER BY sex",
		"treatment":   "SELECT DISTINCT treatment FROM samples ORDER BY treatment",
		"response":    "SELECT DISTINCT response FROM samples WHERE response IS NOT NULL ORDER BY response",
		"sample_type": "SELECT DISTINCT sample_type FROM samples ORDER BY sample_type",
	}
	out := make(map[string][]string, len(queries))
	for name, q := range queries {
		values, err := stringColumn(st.DB(), q)
		if err != nil {
			return nil, fmt.Errorf("attribute values for %s failed: %w", name, err)
		}
		out[name] = values
	}
	return out, nil
}
