package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-delta-analyzer/internal/model"
)

var db *sql.DB

var tracer = otel.Tracer("go-delta-analyzer/store")

// ErrNotFound is returned when no run has the requested id
var ErrNotFound = errors.New("analysis run not found")

// ErrNoResult is returned when a run exists but has not stored a result
var ErrNoResult = errors.New("analysis run has no result")

// Initialize DB connection
func InitDB(dbPath string) error {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// each connection to ":memory:" is a separate database
	conn.SetMaxOpenConns(1)

	// Create tables if not exists
	runTable := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		request TEXT,
		status TEXT,
		summary TEXT,
		result TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS analysis_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable} {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if db != nil {
		db.Close()
	}
	db = conn
	return nil
}

// Close releases the database connection
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// SaveRun stores a new analysis run in the running state
func SaveRun(ctx context.Context, runID string, req model.AnalysisRequest) error {
	ctx, span := tracer.Start(ctx, "store.save_run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to encode request: %w", err))
	}

	now := time.Now().UTC()
	err = withRetry(ctx, DefaultRetryConfig, "save_run", func() error {
		_, err := db.ExecContext(ctx, `INSERT INTO analysis_runs (id, request, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			runID, string(reqJSON), model.RunRunning, now, now)
		return err
	})
	if err != nil {
		return spanError(span, fmt.Errorf("failed to save run: %w", err))
	}
	return nil
}

// CompleteRun stores the result of a finished run
func CompleteRun(ctx context.Context, runID string, result *model.AnalysisResult) error {
	ctx, span := tracer.Start(ctx, "store.complete_run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	summaryJSON, err := json.Marshal(result.Summary)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to encode summary: %w", err))
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to encode result: %w", err))
	}

	now := time.Now().UTC()
	var res sql.Result
	err = withRetry(ctx, DefaultRetryConfig, "complete_run", func() (err error) {
		res, err = db.ExecContext(ctx, `UPDATE analysis_runs SET status = ?, summary = ?, result = ?, updated_at = ? WHERE id = ?`,
			model.RunCompleted, string(summaryJSON), string(resultJSON), now, runID)
		return err
	})
	if err != nil {
		return spanError(span, fmt.Errorf("failed to complete run: %w", err))
	}
	return requireRow(res)
}

// FailRun marks a run as failed and records why
func FailRun(ctx context.Context, runID string, cause error) error {
	if err := UpdateRunStatus(ctx, runID, model.RunFailed); err != nil {
		return err
	}
	return SaveRunError(ctx, runID, cause)
}

// UpdateRunStatus updates run status
func UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	now := time.Now().UTC()
	var res sql.Result
	err := withRetry(ctx, DefaultRetryConfig, "update_run_status", func() (err error) {
		res, err = db.ExecContext(ctx, `UPDATE analysis_runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	return requireRow(res)
}

// SaveRunError records an error for a run
func SaveRunError(ctx context.Context, runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	return withRetry(ctx, DefaultRetryConfig, "save_run_error", func() error {
		_, e := db.ExecContext(ctx, `INSERT INTO analysis_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
			runID, err.Error(), now)
		return e
	})
}

// GetRunErrors lists the recorded errors of a run, oldest first
func GetRunErrors(ctx context.Context, runID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT error_message FROM analysis_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run errors: %w", err)
	}
	defer rows.Close()

	msgs := make([]string, 0)
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// ListRuns returns all runs, newest first
func ListRuns(ctx context.Context) ([]model.AnalysisRun, error) {
	ctx, span := tracer.Start(ctx, "store.list_runs")
	defer span.End()

	rows, err := db.QueryContext(ctx, `SELECT id, request, status, summary, created_at, updated_at FROM analysis_runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to query runs: %w", err))
	}
	defer rows.Close()

	runs := make([]model.AnalysisRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, spanError(span, err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, spanError(span, err)
	}
	span.SetAttributes(attribute.Int("runs.count", len(runs)))
	return runs, nil
}

// GetRun fetches one run with its latest error, if any
func GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	ctx, span := tracer.Start(ctx, "store.get_run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	row := db.QueryRowContext(ctx, `SELECT id, request, status, summary, created_at, updated_at FROM analysis_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, spanError(span, err)
	}

	msgs, err := GetRunErrors(ctx, runID)
	if err != nil {
		return nil, spanError(span, err)
	}
	if len(msgs) > 0 {
		run.Error = msgs[len(msgs)-1]
	}
	return run, nil
}

// GetRunResult loads the stored result of a completed run
func GetRunResult(ctx context.Context, runID string) (*model.AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "store.get_run_result",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	var resultJSON sql.NullString
	err := db.QueryRowContext(ctx, `SELECT result FROM analysis_runs WHERE id = ?`, runID).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to query result: %w", err))
	}
	if !resultJSON.Valid || resultJSON.String == "" {
		return nil, ErrNoResult
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
		return nil, spanError(span, fmt.Errorf("failed to decode result: %w", err))
	}
	return &result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	var reqJSON string
	var summaryJSON sql.NullString
	var status string
	if err := s.Scan(&run.ID, &reqJSON, &status, &summaryJSON, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)

	if err := json.Unmarshal([]byte(reqJSON), &run.Request); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if summaryJSON.Valid && summaryJSON.String != "" {
		var summary model.Summary
		if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary: %w", err)
		}
		run.Summary = &summary
	}
	return &run, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
