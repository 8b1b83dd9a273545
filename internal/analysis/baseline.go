package analysis

import (
	"database/sql"
	"fmt"

	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

// baselineTime is the time_from_treatment_start value that marks a baseline
// sample.
const baselineTime = 0

// CategoryCount is one category value of a breakdown dimension with its
// distinct-subject count.
type CategoryCount struct {
	Value    string
	Subjects int
}

// Breakdown holds the three baseline breakdown tables.
type Breakdown struct {
	Project  []CategoryCount
	Response []CategoryCount
	Sex      []CategoryCount
}

// BreakdownOptions controls breakdown output shape.
type BreakdownOptions struct {
	// IncludeZeroCategories adds category values that occur in the dataset
	// at large but have no subjects in the baseline cohort, with count 0.
	IncludeZeroCategories bool
}

// BaselineSample is one row of the baseline cohort listing.
type BaselineSample struct {
	SampleID   string
	SubjectID  string
	Project    string
	Response   sql.NullString
	Condition  string
	Sex        string
	Age        int
	SampleType string
}

// BaselineBreakdown restricts to the cohort's baseline samples
// (time_from_treatment_start = 0) and counts distinct subjects per project,
// per response label, and per sex. An empty cohort yields empty tables, not
// an error.
func BaselineBreakdown(st *store.Store, c Cohort, opts BreakdownOptions) (*Breakdown, error) {
	b := &Breakdown{}

	var err error
	if b.Project, err = breakdownDimension(st, c, opts,
		"s.project", "SELECT DISTINCT project FROM samples ORDER BY project"); err != nil {
		return nil, fmt.Errorf("project breakdown failed: %w", err)
	}
	if b.Response, err = breakdownDimension(st, c, opts,
		"s.response", "SELECT DISTINCT response FROM samples WHERE response IS NOT NULL ORDER BY response"); err != nil {
		return nil, fmt.Errorf("response breakdown failed: %w", err)
	}
	if b.Sex, err = breakdownDimension(st, c, opts,
		"sub.sex", "SELECT DISTINCT sex FROM subjects ORDER BY sex"); err != nil {
		return nil, fmt.Errorf("sex breakdown failed: %w", err)
	}
	return b, nil
}

// breakdownDimension runs one GROUP BY over the baseline cohort. The column
// argument is one of a fixed set of schema columns, never user input.
func breakdownDimension(st *store.Store, c Cohort, opts BreakdownOptions, column, universeSQL string) ([]CategoryCount, error) {
	query := fmt.Sprintf(`
		SELECT %s AS value, COUNT(DISTINCT s.subject_id) AS subjects
		FROM samples s
		JOIN subjects sub ON s.subject_id = sub.subject_id
		WHERE sub.condition = ?
		  AND s.treatment = ?
		  AND s.sample_type = ?
		  AND s.time_from_treatment_start = ?
		  AND %s IS NOT NULL
		GROUP BY %s
		ORDER BY %s`, column, column, column, column)

	rows, err := st.DB().Query(query, c.Condition, c.Treatment, c.SampleType, baselineTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	var order []string
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Value, &cc.Subjects); err != nil {
			return nil, err
		}
		counts[cc.Value] = cc.Subjects
		order = append(order, cc.Value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if opts.IncludeZeroCategories {
		universe, err := stringColumn(st.DB(), universeSQL)
		if err != nil {
			return nil, err
		}
		order = order[:0]
		for _, v := range universe {
			order = append(order, v)
		}
	}

	out := make([]CategoryCount, 0, len(order))
	for _, v := range order {
		out = append(out, CategoryCount{Value: v, Subjects: counts[v]})
	}
	return out, nil
}

func stringColumn(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const baselineSamplesSQL = `
SELECT
	s.sample_id,
	s.subject_id,
	s.project,
	s.response,
	sub.condition,
	sub.sex,
	sub.age,
	s.sample_type
FROM samples s
JOIN subjects sub ON s.subject_id = sub.subject_id
WHERE sub.condition = ?
  AND s.treatment = ?
  AND s.sample_type = ?
  AND s.time_from_treatment_start = ?
ORDER BY s.sample_id`

// BaselineSamples lists the cohort's baseline samples row by row, backing
// the dashboard's explorer table and summary metrics.
func BaselineSamples(st *store.Store, c Cohort) ([]BaselineSample, error) {
	rows, err := st.DB().Query(baselineSamplesSQL, c.Condition, c.Treatment, c.SampleType, baselineTime)
	if err != nil {
		return nil, fmt.Errorf("baseline samples query failed: %w", err)
	}
	defer rows.Close()

	var out []BaselineSample
	for rows.Next() {
		var b BaselineSample
		if err := rows.Scan(&b.SampleID, &b.SubjectID, &b.Project, &b.Response,
			&b.Condition, &b.Sex, &b.Age, &b.SampleType); err != nil {
			return nil, fmt.Errorf("baseline samples scan failed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
