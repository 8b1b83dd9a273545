package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadOptions controls CSV ingestion behavior.
type LoadOptions struct {
	// StrictDemographics fails the load when two rows for the same subject
	// disagree on condition, age or sex. When false the first occurrence
	// wins silently.
	StrictDemographics bool
}

// LoadResult summarizes a completed ingest.
type LoadResult struct {
	RunID      string
	Source     string
	Subjects   int
	Samples    int
	CellCounts int
}

// subjectRow holds the demographics recorded for a subject, kept around to
// detect conflicting duplicates under StrictDemographics.
type subjectRow struct {
	condition string
	age       int
	sex       string
}

// LoadCSV ingests the wide-format cell-count CSV at csvPath into the
// normalized tables. Each input row must carry a non-empty subject and
// sample id and yields one sample row plus one cell_counts row per known
// population. The whole load runs in a single transaction: any malformed row
// or referential violation aborts the entire load with no partial state.
func (s *Store) LoadCSV(csvPath string, opts LoadOptions) (*LoadResult, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	required := []string{"subject", "sample", "condition", "age", "sex",
		"project", "treatment", "response", "sample_type", "time_from_treatment_start"}
	required = append(required, Populations...)
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", name)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := s.loadRows(tx, r, col, opts)
	if err != nil {
		return nil, err
	}

	res.RunID = uuid.NewString()
	res.Source = filepath.Base(csvPath)
	_, err = tx.Exec(
		"INSERT INTO load_runs (id, source, subjects, samples, cell_counts) VALUES (?, ?, ?, ?, ?)",
		res.RunID, res.Source, res.Subjects, res.Samples, res.CellCounts)
	if err != nil {
		return nil, fmt.Errorf("failed to record load run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit load: %w", err)
	}

	s.logger.Info("csv load complete",
		zap.String("run_id", res.RunID),
		zap.String("source", res.Source),
		zap.Int("subjects", res.Subjects),
		zap.Int("samples", res.Samples),
		zap.Int("cell_counts", res.CellCounts))
	return res, nil
}

func (s *Store) loadRows(tx *sql.Tx, r *csv.Reader, col map[string]int, opts LoadOptions) (*LoadResult, error) {
	insertSubject, err := tx.Prepare(
		"INSERT INTO subjects (subject_id, condition, age, sex) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}
	defer insertSubject.Close()

	insertSample, err := tx.Prepare(
		`INSERT INTO samples
			(sample_id, subject_id, project, treatment, response, sample_type, time_from_treatment_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer insertSample.Close()

	insertCount, err := tx.Prepare(
		"INSERT INTO cell_counts (sample_id, population, count) VALUES (?, ?, ?)")
	if err != nil {
		return nil, err
	}
	defer insertCount.Close()

	res := &LoadResult{}
	subjects := make(map[string]subjectRow)
	samples := make(map[string]bool)

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		field := func(name string) string { return record[col[name]] }

		subjectID := field("subject")
		sampleID := field("sample")
		if subjectID == "" {
			return nil, fmt.Errorf("csv line %d: missing subject id", line)
		}
		if sampleID == "" {
			return nil, fmt.Errorf("csv line %d: missing sample id", line)
		}

		age, err := strconv.Atoi(field("age"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: invalid age %q", line, field("age"))
		}

		seen, dup := subjects[subjectID]
		row := subjectRow{condition: field("condition"), age: age, sex: field("sex")}
		if dup {
			if opts.StrictDemographics && seen != row {
				return nil, fmt.Errorf(
					"csv line %d: subject %s demographics conflict with an earlier row", line, subjectID)
			}
		} else {
			if _, err := insertSubject.Exec(subjectID, row.condition, row.age, row.sex); err != nil {
				return nil, fmt.Errorf("csv line %d: failed to insert subject %s: %w", line, subjectID, err)
			}
			subjects[subjectID] = row
			res.Subjects++
		}

		if samples[sampleID] {
			return nil, fmt.Errorf("csv line %d: duplicate sample id %s", line, sampleID)
		}
		response := sql.NullString{String: field("response"), Valid: field("response") != ""}
		var timepoint sql.NullInt64
		if raw := field("time_from_treatment_start"); raw != "" {
			t, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: invalid time_from_treatment_start %q", line, raw)
			}
			timepoint = sql.NullInt64{Int64: t, Valid: true}
		}
		_, err = insertSample.Exec(sampleID, subjectID, field("project"), field("treatment"),
			response, field("sample_type"), timepoint)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: failed to insert sample %s: %w", line, sampleID, err)
		}
		samples[sampleID] = true
		res.Samples++

		for _, pop := range Populations {
			count, err := strconv.Atoi(field(pop))
			if err != nil || count < 0 {
				return nil, fmt.Errorf("csv line %d: invalid %s count %q", line, pop, field(pop))
			}
			if _, err := insertCount.Exec(sampleID, pop, count); err != nil {
				return nil, fmt.Errorf("csv line %d: failed to insert %s count: %w", line, pop, err)
			}
			res.CellCounts++
		}
	}

	return res, nil
}

// LoadRuns returns the recorded ingests, newest first.
func (s *Store) LoadRuns() ([]LoadResult, error) {
	rows, err := s.db.Query(
		"SELECT id, source, subjects, samples, cell_counts FROM load_runs ORDER BY loaded_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []LoadResult
	for rows.Next() {
		var r LoadResult
		if err := rows.Scan(&r.RunID, &r.Source, &r.Subjects, &r.Samples, &r.CellCounts); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
