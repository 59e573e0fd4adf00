package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Run outcome values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one ledger entry.
type Run struct {
	ID          int64
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Source      string
	Replay      bool
	SavedDir    string
	Status      string
	Error       string
	Problems    int
	Teams       int
	Submissions int
	RunPages    int
	Images      int
	Artifacts   []string
}

// Record appends run to the ledger and returns its row id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	if run.RunID == "" {
		return 0, fmt.Errorf("record run: run id required")
	}
	artifacts, err := json.Marshal(nonNil(run.Artifacts))
	if err != nil {
		return 0, fmt.Errorf("encode artifacts: %w", err)
	}
	var res sql.Result
	err = retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `INSERT INTO export_runs (
            run_id, started_at, duration_ms, source, replay, saved_dir, status,
            error_message, problems, teams, submissions, run_pages, images, artifacts
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.Duration.Milliseconds(),
			run.Source,
			boolToInt(run.Replay),
			run.SavedDir,
			run.Status,
			run.Error,
			run.Problems,
			run.Teams,
			run.Submissions,
			run.RunPages,
			run.Images,
			string(artifacts),
		)
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("insert export run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, run_id, started_at, duration_ms, source, replay, saved_dir, status,
        error_message, problems, teams, submissions, run_pages, images, artifacts
        FROM export_runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			durationMS int64
			replay     int
			artifacts  string
		)
		if err := rows.Scan(&run.ID, &run.RunID, &startedAt, &durationMS, &run.Source, &replay,
			&run.SavedDir, &run.Status, &run.Error, &run.Problems, &run.Teams, &run.Submissions,
			&run.RunPages, &run.Images, &artifacts); err != nil {
			return nil, fmt.Errorf("scan export run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Replay = replay != 0
		if err := json.Unmarshal([]byte(artifacts), &run.Artifacts); err != nil {
			return nil, fmt.Errorf("decode artifacts for %s: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Clear deletes every run and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, "DELETE FROM export_runs")
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("clear export runs: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
