// ABOUTME: Page-scoped key/value session storage
// ABOUTME: Holds the cached identity for the lifetime of the client process

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SetSession stores value under key, replacing any previous value.
func (s *SQLiteStore) SetSession(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("setting session key %q: %w", key, err)
	}
	return nil
}

// GetSession returns the value stored under key, or ErrNotFound.
func (s *SQLiteStore) GetSession(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting session key %q: %w", key, err)
	}
	return value, nil
}

// DeleteSession removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) DeleteSession(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting session key %q: %w", key, err)
	}
	return nil
}
