package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"ntr/internal/domain"
	"ntr/internal/results"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoRuns is returned by Load when the history is empty
var ErrNoRuns = errors.New("no test runs recorded")

// SQLStorage keeps the history of runs in a SQL database.
// Supported drivers are "sqlite3" and "mysql".
type SQLStorage struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and applies the schema.
// Safe to call repeatedly on the same database.
func Open(ctx context.Context, driver, dsn string) (*SQLStorage, error) {
	switch driver {
	case "sqlite3", "mysql":
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStorage{db: db, driver: driver}, nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stripComments(stmt))
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func stripComments(stmt string) string {
	var lines []string
	for _, line := range strings.Split(stmt, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Save records a run and its failures
func (s *SQLStorage) Save(ctx context.Context, snap *results.Aggregator) error {
	output := NewOutput(snap)
	startedAt := snap.Meta().StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return s.insert(ctx, output, startedAt)
}

func (s *SQLStorage) insert(ctx context.Context, output *domain.TestResultsOutput, startedAt time.Time) error {
	if output.Meta.RunID == "" {
		return errors.New("run has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	m := output.Meta
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, total_tests, passed_tests, failed_tests, runner_errors, import_error, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, startedAt.UnixNano(), m.TotalTests, m.PassedTests, m.FailedTests, m.RunnerErrors, m.ImportError, m.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, f := range output.Details {
		errs, err := json.Marshal(f.Errors)
		if err != nil {
			return fmt.Errorf("marshal errors: %w", err)
		}
		logs, err := json.Marshal(f.Logs)
		if err != nil {
			return fmt.Errorf("marshal logs: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, seq, test_name, file_path, kind, errors, logs, runner_error, duration_seconds, resolved)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, i, f.TestName, f.FilePath, f.Kind, string(errs), string(logs), f.RunnerError, f.Duration, boolToInt(f.Resolved),
		)
		if err != nil {
			return fmt.Errorf("insert failure %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load returns the most recent run
func (s *SQLStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	metas, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, ErrNoRuns
	}

	details, err := s.failures(ctx, metas[0].RunID)
	if err != nil {
		return nil, err
	}
	return &domain.TestResultsOutput{Meta: metas[0], Details: details}, nil
}

// Recent lists up to n runs, newest first
func (s *SQLStorage) Recent(ctx context.Context, n int) ([]domain.TestResultsMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, total_tests, passed_tests, failed_tests, runner_errors, import_error, duration_seconds
		 FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var metas []domain.TestResultsMeta
	for rows.Next() {
		var (
			m         domain.TestResultsMeta
			startedAt int64
		)
		if err := rows.Scan(&m.RunID, &startedAt, &m.TotalTests, &m.PassedTests, &m.FailedTests,
			&m.RunnerErrors, &m.ImportError, &m.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		m.Timestamp = time.Unix(0, startedAt).Format(time.RFC3339)
		m.Duration = time.Duration(m.DurationSeconds * float64(time.Second)).String()
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return metas, nil
}

func (s *SQLStorage) failures(ctx context.Context, runID string) ([]domain.TestFailure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT test_name, file_path, kind, errors, logs, runner_error, duration_seconds, resolved
		 FROM failures WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	details := []domain.TestFailure{}
	for rows.Next() {
		var (
			f          domain.TestFailure
			errs, logs string
			resolved   int
		)
		if err := rows.Scan(&f.TestName, &f.FilePath, &f.Kind, &errs, &logs, &f.RunnerError, &f.Duration, &resolved); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		if err := json.Unmarshal([]byte(errs), &f.Errors); err != nil {
			return nil, fmt.Errorf("parse failure errors: %w", err)
		}
		if err := json.Unmarshal([]byte(logs), &f.Logs); err != nil {
			return nil, fmt.Errorf("parse failure logs: %w", err)
		}
		f.Resolved = resolved != 0
		details = append(details, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}
	return details, nil
}

// SaveOutput stores the resolved flags of a previously saved run
func (s *SQLStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error {
	if output.Meta.RunID == "" {
		return errors.New("run has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, f := range output.Details {
		if _, err := tx.ExecContext(ctx,
			`UPDATE failures SET resolved = ? WHERE run_id = ? AND seq = ?`,
			boolToInt(f.Resolved), output.Meta.RunID, i,
		); err != nil {
			return fmt.Errorf("update failure %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
