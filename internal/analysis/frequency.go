// Package analysis is the read-only query layer over the normalized trial
// schema. Every function takes an explicit *store.Store, runs a short-lived
// read, and returns a complete typed result set for the CLI and dashboard to
// render. Nothing here mutates the database.
package analysis

import (
	"database/sql"
	"fmt"

	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

// FrequencyRow is one (sample, population) entry of the relative frequency
// table.
type FrequencyRow struct {
	SampleID   string
	SubjectID  string
	Population string
	Count      int
	Total      int
	// Percentage is 100*count/total. Invalid when the sample total is zero,
	// where a relative frequency is undefined.
	Percentage sql.NullFloat64
}

const frequencySQL = `
SELECT
	cc.sample_id,
	s.subject_id,
	cc.population,
	cc.count,
	totals.total_count,
	cc.count * 100.0 / NULLIF(totals.total_count, 0) AS percentage
FROM cell_counts cc
JOIN samples s ON cc.sample_id = s.sample_id
JOIN (
	SELECT sample_id, SUM(count) AS total_count
	FROM cell_counts
	GROUP BY sample_id
) totals ON cc.sample_id = totals.sample_id
ORDER BY cc.sample_id, cc.population`

// FrequencyTable returns each population's count as a percentage of its
// sample's total across all populations, one row per (sample, population).
// For any sample with a nonzero total the percentages sum to 100.
func FrequencyTable(st *store.Store) ([]FrequencyRow, error) {
	rows, err := st.DB().Query(frequencySQL)
	if err != nil {
		return nil, fmt.Errorf("frequency query failed: %w", err)
	}
	defer rows.Close()

	var out []FrequencyRow
	for rows.Next() {
		var r FrequencyRow
		if err := rows.Scan(&r.SampleID, &r.SubjectID, &r.Population, &r.Count, &r.Total, &r.Percentage); err != nil {
			return nil, fmt.Errorf("frequency scan failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
