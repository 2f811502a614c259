// ABOUTME: Per-user mode usage for the development backend
// ABOUTME: A used mode stays locked until an admin resets the user

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2389/molindex/internal/analysis"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUsage returns the usage snapshot for email. Users without a record get
// every mode available.
func (s *SQLiteStore) GetUsage(ctx context.Context, email string) (analysis.UsageStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mode, used FROM mode_usage WHERE email = ?`, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	usage := analysis.NewUsageStatus()
	for rows.Next() {
		var mode string
		var used bool
		if err := rows.Scan(&mode, &used); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		usage[analysis.Mode(mode)] = used
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage rows: %w", err)
	}
	return usage, nil
}

// ClaimMode consumes mode for email. The claim is a single conditional
// update, so of several concurrent callers exactly one gets true; the rest
// see the mode as already used.
func (s *SQLiteStore) ClaimMode(ctx context.Context, email string, mode analysis.Mode) (bool, error) {
	email = normalizeEmail(email)
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.seedUsage(ctx, email, now); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE mode_usage SET used = 1, updated_at = ?
		WHERE email = ? AND mode = ? AND used = 0
	`, now, email, string(mode))
	if err != nil {
		return false, fmt.Errorf("claiming mode: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	s.logger.Debug("claimed mode", "email", email, "mode", mode)
	return true, nil
}

// ReleaseMode hands back a claim whose upload produced nothing.
func (s *SQLiteStore) ReleaseMode(ctx context.Context, email string, mode analysis.Mode) error {
	email = normalizeEmail(email)
	_, err := s.db.ExecContext(ctx, `
		UPDATE mode_usage SET used = 0, updated_at = ?
		WHERE email = ? AND mode = ? AND used = 1
	`, time.Now().UTC().Format(time.RFC3339), email, string(mode))
	if err != nil {
		return fmt.Errorf("releasing mode: %w", err)
	}
	s.logger.Debug("released mode", "email", email, "mode", mode)
	return nil
}

// seedUsage gives email a row for every mode so ResetUsage can tell known
// users apart. Existing rows are left alone.
func (s *SQLiteStore) seedUsage(ctx context.Context, email, now string) error {
	values := make([]string, 0, len(analysis.Modes))
	args := make([]any, 0, 3*len(analysis.Modes))
	for _, m := range analysis.Modes {
		values = append(values, "(?, ?, 0, ?)")
		args = append(args, email, string(m), now)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mode_usage (email, mode, used, updated_at)
		VALUES `+strings.Join(values, ", ")+`
		ON CONFLICT(email, mode) DO NOTHING
	`, args...)
	if err != nil {
		return fmt.Errorf("seeding usage: %w", err)
	}
	return nil
}

// ResetUsage clears every mode for email.
func (s *SQLiteStore) ResetUsage(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	result, err := s.db.ExecContext(ctx,
		`UPDATE mode_usage SET used = 0, updated_at = ? WHERE email = ?`,
		time.Now().UTC().Format(time.RFC3339), email)
	if err != nil {
		return fmt.Errorf("resetting usage: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.logger.Info("reset usage", "email", email)
	return nil
}
