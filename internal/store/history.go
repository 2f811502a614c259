// ABOUTME: Submission history records for the client
// ABOUTME: One row per analysis attempt with its outcome and row count

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/molindex/internal/analysis"
)

// RecordSubmission stores entry, assigning an ID and timestamp when missing.
func (s *SQLiteStore) RecordSubmission(ctx context.Context, entry *HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO submissions (id, mode, k, files, outcome, row_count, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.Mode),
		entry.K,
		strings.Join(entry.Files, "\n"),
		string(entry.Outcome),
		entry.RowCount,
		entry.Message,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}

	s.logger.Debug("recorded submission",
		"id", entry.ID,
		"mode", entry.Mode,
		"outcome", entry.Outcome,
		"rows", entry.RowCount,
	)
	return nil
}

// ListSubmissions returns the most recent submissions first. A limit of zero
// or less returns all of them.
func (s *SQLiteStore) ListSubmissions(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	query := `
		SELECT id, mode, k, files, outcome, row_count, message, created_at
		FROM submissions
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*HistoryEntry
	for rows.Next() {
		entry, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submission rows: %w", err)
	}
	return entries, nil
}

func scanSubmission(rows *sql.Rows) (*HistoryEntry, error) {
	var entry HistoryEntry
	var mode, files, outcome, createdAt string

	err := rows.Scan(
		&entry.ID,
		&mode,
		&entry.K,
		&files,
		&outcome,
		&entry.RowCount,
		&entry.Message,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning submission row: %w", err)
	}

	entry.Mode = analysis.Mode(mode)
	entry.Outcome = Outcome(outcome)
	if files != "" {
		entry.Files = strings.Split(files, "\n")
	}
	entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &entry, nil
}
