package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcffilter/internal/filter"
)

// RunInfo describes a filter run at the time it starts.
type RunInfo struct {
	Input      string
	Conditions string
	Mode       string
}

// RunSummary is a stored filter_runs row.
type RunSummary struct {
	RunID      string
	Input      string
	InputSize  int64
	Conditions string
	Mode       string
	StartedAt  time.Time
	Records    int64
	Passed     int64
	Malformed  int64
}

// VerdictRow is a stored record_verdicts row.
type VerdictRow struct {
	LineNumber    int64
	Chrom         string
	Pos           int64
	ID            string
	Ref           string
	Alt           string
	Passed        bool
	Malformed     bool
	Samples       int64
	PassedSamples int64
}

// Recorder appends verdicts for one run. It implements filter.VerdictSink
// and is not safe for concurrent use.
type Recorder struct {
	store    *Store
	runID    string
	conn     *sql.Conn
	appender *goduckdb.Appender
}

var _ filter.VerdictSink = (*Recorder)(nil)

// BeginRun inserts a filter_runs row and opens an appender for its verdicts.
func (s *Store) BeginRun(info RunInfo) (*Recorder, error) {
	runID := uuid.NewString()

	var size sql.NullInt64
	var mtime sql.NullTime
	if info.Input != "" && info.Input != "-" {
		if fi, err := os.Stat(info.Input); err == nil {
			size = sql.NullInt64{Int64: fi.Size(), Valid: true}
			mtime = sql.NullTime{Time: fi.ModTime().UTC(), Valid: true}
		}
	}

	if _, err := s.db.Exec(`INSERT INTO filter_runs
		(run_id, input, input_size, input_mtime, conditions, mode, started_at, records, passed, malformed)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0)`,
		runID, info.Input, size, mtime, info.Conditions, info.Mode, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "record_verdicts")
		return err
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create appender: %w", err)
	}

	return &Recorder{store: s, runID: runID, conn: conn, appender: appender}, nil
}

// RunID returns the identifier of the run being recorded.
func (r *Recorder) RunID() string {
	return r.runID
}

// Add appends one verdict row.
func (r *Recorder) Add(res filter.WorkResult) error {
	cols := make([]string, 5)
	copy(cols, strings.SplitN(res.Raw.Text, "\t", 6))
	pos, _ := strconv.ParseInt(cols[1], 10, 64)

	if err := r.appender.AppendRow(
		r.runID, int64(res.Raw.LineNumber),
		cols[0], pos, cols[2], cols[3], cols[4],
		res.Verdict.Pass, res.Malformed(),
		int64(res.Verdict.Samples), int64(res.Verdict.PassedSamples),
	); err != nil {
		return fmt.Errorf("append verdict: %w", err)
	}
	return nil
}

// Finish flushes pending verdicts and stores the run totals.
func (r *Recorder) Finish(stats filter.Stats) error {
	if err := r.Close(); err != nil {
		return err
	}
	if _, err := r.store.db.Exec(`UPDATE filter_runs
		SET records = ?, passed = ?, malformed = ? WHERE run_id = ?`,
		int64(stats.Records), int64(stats.Passed), int64(stats.Malformed), r.runID); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// Close flushes the appender and releases the connection. It is safe to
// call more than once.
func (r *Recorder) Close() error {
	if r.appender == nil {
		return nil
	}
	err := r.appender.Close()
	r.appender = nil
	if cerr := r.conn.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("close appender: %w", err)
	}
	return nil
}

// RunSummary returns the stored row for a run.
func (s *Store) RunSummary(runID string) (RunSummary, error) {
	var rs RunSummary
	var size sql.NullInt64
	err := s.db.QueryRow(`SELECT
		run_id, input, input_size, conditions, mode, started_at, records, passed, malformed
		FROM filter_runs WHERE run_id = ?`, runID).Scan(
		&rs.RunID, &rs.Input, &size, &rs.Conditions, &rs.Mode, &rs.StartedAt,
		&rs.Records, &rs.Passed, &rs.Malformed,
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("query run %s: %w", runID, err)
	}
	rs.InputSize = size.Int64
	return rs, nil
}

// ListRuns returns every stored run, oldest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	rows, err := s.db.Query(`SELECT
		run_id, input, input_size, conditions, mode, started_at, records, passed, malformed
		FROM filter_runs ORDER BY started_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var size sql.NullInt64
		if err := rows.Scan(
			&rs.RunID, &rs.Input, &size, &rs.Conditions, &rs.Mode, &rs.StartedAt,
			&rs.Records, &rs.Passed, &rs.Malformed,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.InputSize = size.Int64
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// PassingRecords returns the passing records of a run in input order.
func (s *Store) PassingRecords(runID string) ([]VerdictRow, error) {
	rows, err := s.db.Query(`SELECT
		line_number, chrom, pos, id, ref, alt, passed, malformed, samples, passed_samples
		FROM record_verdicts
		WHERE run_id = ? AND passed
		ORDER BY line_number`, runID)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var out []VerdictRow
	for rows.Next() {
		var v VerdictRow
		if err := rows.Scan(
			&v.LineNumber, &v.Chrom, &v.Pos, &v.ID, &v.Ref, &v.Alt,
			&v.Passed, &v.Malformed, &v.Samples, &v.PassedSamples,
		); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return out, nil
}

// ClearRuns removes all stored runs and verdicts.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM record_verdicts"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM filter_runs")
	return err
}
