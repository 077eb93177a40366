// Package store provides the process-wide durable store backing the alias
// map and the execution journal.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wak1616/sightflow/internal/plan"
)

// Store wraps a SQLite database holding the alias key-value map and the
// execution journal. It is created once per process and accessed through
// explicit methods; there is no ambient global state.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Open opens or creates the store database at path.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("store.Open: ensure dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("store.Open: open db: %w", err)
	}

	s := &Store{DBPath: absPath, db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS executions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	summary TEXT NOT NULL,
	executed_count INTEGER NOT NULL,
	skipped_count INTEGER NOT NULL,
	report_json TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Get reads a value by key. The second return is false when the key is
// absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store.Get: %w", err)
	}
	return value, true, nil
}

// Set writes a key-value pair. Existing keys are left untouched: the first
// write wins, which keeps alias mappings stable for the life of the store.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store.Set: %w", err)
	}
	return nil
}

// ExecutionRecord is one journaled plan execution.
type ExecutionRecord struct {
	ID      int64
	Time    time.Time
	Summary string
	Report  plan.ExecutionReport
}

// LogExecution appends an execution report to the journal.
func (s *Store) LogExecution(summary string, report *plan.ExecutionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("store.LogExecution: marshal report: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO executions (ts, summary, executed_count, skipped_count, report_json)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), summary,
		len(report.Executed), len(report.Skipped), string(data),
	)
	if err != nil {
		return fmt.Errorf("store.LogExecution: %w", err)
	}
	return nil
}

// ListExecutions returns the most recent journal entries, newest first.
func (s *Store) ListExecutions(limit int) ([]ExecutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, ts, summary, report_json FROM executions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store.ListExecutions: %w", err)
	}
	defer rows.Close()

	var records []ExecutionRecord
	for rows.Next() {
		var rec ExecutionRecord
		var ts, reportJSON string
		if err := rows.Scan(&rec.ID, &ts, &rec.Summary, &reportJSON); err != nil {
			return nil, fmt.Errorf("store.ListExecutions: scan: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Time = parsed
		}
		if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
			return nil, fmt.Errorf("store.ListExecutions: parse report: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
