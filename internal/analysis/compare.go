package analysis

import (
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/sohamk0524/Teiko-Teiknical/internal/store"
)

// Cohort restricts the comparative queries to one condition/treatment/sample
// type slice of the trial. The zero value matches nothing useful; callers
// take defaults from config.
type Cohort struct {
	Condition  string
	Treatment  string
	SampleType string
}

// PopulationComparison is the responders-vs-non-responders test result for a
// single cell population. P-values are raw two-sided Mann-Whitney U
// p-values; no multiple-comparison correction is applied.
type PopulationComparison struct {
	Population string

	Responders    int
	NonResponders int

	ResponderMedian    float64
	NonResponderMedian float64

	// Raw per-sample relative frequencies, kept so the presentation layer
	// can draw distribution summaries without re-querying.
	ResponderValues    []float64
	NonResponderValues []float64

	U float64
	// P is nil when the test could not run; Reason says why.
	P           *float64
	Significant bool
	Reason      string
}

const cohortFrequencySQL = `
SELECT
	cc.population,
	s.response,
	cc.count * 100.0 / NULLIF(totals.total_count, 0) AS percentage
FROM cell_counts cc
JOIN samples s ON cc.sample_id = s.sample_id
JOIN subjects sub ON s.subject_id = sub.subject_id
JOIN (
	SELECT sample_id, SUM(count) AS total_count
	FROM cell_counts
	GROUP BY sample_id
) totals ON cc.sample_id = totals.sample_id
WHERE sub.condition = ?
  AND s.treatment = ?
  AND s.sample_type = ?
  AND s.response IS NOT NULL
  AND totals.total_count > 0`

// CompareResponses partitions the cohort's per-sample relative frequencies
// by response label and runs a two-sided Mann-Whitney U test per population.
// An empty cohort yields an empty slice. A population where either group is
// empty (or the test is otherwise undefined, e.g. all values tied) gets a
// nil p-value and an explicit reason instead of being dropped.
func CompareResponses(st *store.Store, c Cohort) ([]PopulationComparison, error) {
	rows, err := st.DB().Query(cohortFrequencySQL, c.Condition, c.Treatment, c.SampleType)
	if err != nil {
		return nil, fmt.Errorf("cohort frequency query failed: %w", err)
	}
	defer rows.Close()

	groups := make(map[string]map[string][]float64)
	for rows.Next() {
		var population, response string
		var percentage float64
		if err := rows.Scan(&population, &response, &percentage); err != nil {
			return nil, fmt.Errorf("cohort frequency scan failed: %w", err)
		}
		if groups[population] == nil {
			groups[population] = make(map[string][]float64)
		}
		groups[population][response] = append(groups[population][response], percentage)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	populations := make([]string, 0, len(groups))
	for p := range groups {
		populations = append(populations, p)
	}
	sort.Strings(populations)

	results := make([]PopulationComparison, 0, len(populations))
	for _, population := range populations {
		responders := groups[population]["yes"]
		nonResponders := groups[population]["no"]

		pc := PopulationComparison{
			Population:         population,
			Responders:         len(responders),
			NonResponders:      len(nonResponders),
			ResponderValues:    responders,
			NonResponderValues: nonResponders,
			ResponderMedian:    median(responders),
			NonResponderMedian: median(nonResponders),
		}

		res, err := stats.MannWhitneyUTest(responders, nonResponders, stats.LocationDiffers)
		if err != nil {
			pc.Reason = fmt.Sprintf("test not run: %v", err)
		} else {
			p := res.P
			pc.U = res.U
			pc.P = &p
			pc.Significant = p < 0.05
		}
		results = append(results, pc)
	}
	return results, nil
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := stats.Sample{Xs: xs}
	return s.Quantile(0.5)
}
