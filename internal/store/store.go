// Package store owns the SQLite schema for the clinical trial data and the
// one-time CSV ingestion that populates it. The schema is a star around
// samples: subjects hold the per-subject demographics, samples reference
// subjects, and cell_counts hold one long-format row per (sample, population).
//
// The store is written exactly once by LoadCSV and read-only afterwards; the
// query layer in internal/analysis never mutates it.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Populations is the fixed set of measured cell populations. Each wide CSV
// row carries one count column per entry here and expands into one
// cell_counts row per entry.
var Populations = []string{"b_cell", "cd8_t_cell", "cd4_t_cell", "nk_cell", "monocyte"}

// Tables are created without IF NOT EXISTS on purpose: initializing an
// already-initialized database is an error the caller must see, not a silent
// no-op over stale data.
const schemaSQL = `
CREATE TABLE subjects (
	subject_id TEXT PRIMARY KEY,
	condition TEXT NOT NULL,
	age INTEGER NOT NULL,
	sex TEXT NOT NULL
);

CREATE TABLE samples (
	sample_id TEXT PRIMARY KEY,
	subject_id TEXT NOT NULL,
	project TEXT NOT NULL,
	treatment TEXT NOT NULL,
	response TEXT,
	sample_type TEXT NOT NULL,
	time_from_treatment_start INTEGER,
	FOREIGN KEY (subject_id) REFERENCES subjects(subject_id)
);

CREATE TABLE cell_counts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sample_id TEXT NOT NULL,
	population TEXT NOT NULL,
	count INTEGER NOT NULL CHECK (count >= 0),
	FOREIGN KEY (sample_id) REFERENCES samples(sample_id),
	UNIQUE (sample_id, population)
);

CREATE TABLE load_runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	loaded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	subjects INTEGER NOT NULL,
	samples INTEGER NOT NULL,
	cell_counts INTEGER NOT NULL
);

CREATE INDEX idx_samples_subject ON samples(subject_id);
CREATE INDEX idx_cell_counts_sample ON cell_counts(sample_id);
CREATE INDEX idx_cell_counts_population ON cell_counts(population);
`

// Store wraps the SQLite handle. Queries take a *Store explicitly; there is
// no package-level connection.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens (or creates) the SQLite database at path. It does not create
// the schema; call Init for that. A nil logger is replaced with a nop.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer at load time, short-lived readers after. One connection
	// keeps the in-memory case coherent as well.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}

	logger.Debug("opened sqlite database", zap.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Init creates the three relational tables plus the load_runs bookkeeping
// table. It fails with the driver's "table ... already exists" error when the
// schema is already present; clearing the database is the caller's decision.
func (s *Store) Init() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.logger.Info("schema initialized",
		zap.String("path", s.path),
		zap.Int("populations", len(Populations)))
	return nil
}

// DB exposes the underlying handle to the query layer.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// tableExists reports whether a table is present in the schema.
func (s *Store) tableExists(name string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Initialized reports whether the core tables already exist.
func (s *Store) Initialized() (bool, error) {
	for _, t := range []string{"subjects", "samples", "cell_counts"} {
		ok, err := s.tableExists(t)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
