// Package duckdb stores filter verdicts in DuckDB so runs can be queried
// after the fact. Each run gets one row in filter_runs and one row per
// evaluated record in record_verdicts.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for filter verdicts.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS filter_runs (
		run_id VARCHAR PRIMARY KEY,
		input VARCHAR,
		input_size BIGINT,
		input_mtime TIMESTAMP,
		conditions VARCHAR,
		mode VARCHAR,
		started_at TIMESTAMP,
		records BIGINT,
		passed BIGINT,
		malformed BIGINT
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS record_verdicts (
		run_id VARCHAR,
		line_number BIGINT,
		chrom VARCHAR,
		pos BIGINT,
		id VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		passed BOOLEAN,
		malformed BOOLEAN,
		samples BIGINT,
		passed_samples BIGINT,
		PRIMARY KEY (run_id, line_number)
	)`)
	return err
}
