// Package history persists run summaries to SQLite, so failures can be
// inspected after the process that produced them is gone.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tickunit/tickunit/internal/runner"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed archive of case runs and their failures.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at the given path, applying
// pragmas and the schema. ":memory:" gives an isolated in-memory store.
//
// SQLite supports a single writer, so the pool is capped at one connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

// RecordSummary archives every run in the summary.
func (s *Store) RecordSummary(ctx context.Context, summary *runner.Summary) error {
	for _, run := range summary.Runs {
		if err := s.RecordRun(ctx, summary.Suite, run); err != nil {
			return err
		}
	}

	return nil
}

// RecordRun archives one case run and its failures in a single transaction.
func (s *Store) RecordRun(ctx context.Context, suite string, run runner.CaseRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.New().String()

	var startedAt any
	if run.Result != nil {
		runID = run.Result.ID().String()
		startedAt = run.Result.StartedAt()
	}

	var runErr any
	if run.Err != nil {
		runErr = run.Err.Error()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, suite, method, outcome, started_at, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, suite, run.Method, run.Outcome.String(), startedAt, runErr)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if run.Result != nil {
		for seq, failure := range run.Result.Failures() {
			var file, line any
			if loc, ok := failure.SourceLocation(); ok {
				file, line = loc.File, loc.Line
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO failures (run_id, seq, message, description, file, line)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				runID, seq, failure.Message(), failure.Description(), file, line)
			if err != nil {
				return fmt.Errorf("failed to insert failure: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// RunRecord is one archived case run.
type RunRecord struct {
	ID      string
	Suite   string
	Method  string
	Outcome string
	Error   string
}

// FailureRecord is one archived failure row.
type FailureRecord struct {
	Seq         int
	Message     string
	Description string
	File        string
	Line        int
}

// ListRuns returns the archived runs of a suite in recording order.
func (s *Store) ListRuns(ctx context.Context, suite string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, suite, method, outcome, COALESCE(error, '')
		 FROM runs WHERE suite = ? ORDER BY recorded_at, id`, suite)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord

	for rows.Next() {
		var record RunRecord
		if err := rows.Scan(&record.ID, &record.Suite, &record.Method, &record.Outcome, &record.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading runs: %w", err)
	}

	return records, nil
}

// FailuresFor returns the archived failures of a run in raise order.
func (s *Store) FailuresFor(ctx context.Context, runID string) ([]FailureRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, message, description, COALESCE(file, ''), COALESCE(line, 0)
		 FROM failures WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var records []FailureRecord

	for rows.Next() {
		var record FailureRecord
		if err := rows.Scan(&record.Seq, &record.Message, &record.Description, &record.File, &record.Line); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading failures: %w", err)
	}

	return records, nil
}
