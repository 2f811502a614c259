// ABOUTME: Store interfaces and record types for molindex persistence
// ABOUTME: Session key/value storage, submission history, and per-user mode usage

package store

import (
	"context"
	"errors"
	"time"

	"github.com/2389/molindex/internal/analysis"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// SessionKeyUserEmail is the session storage key holding the signed-in email.
const SessionKeyUserEmail = "userEmail"

// Outcome records how a submission attempt ended.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeLimitExceeded Outcome = "limit_exceeded"
	OutcomeFailed        Outcome = "failed"
	OutcomeStale         Outcome = "stale" // response arrived after the intake was reset
)

// HistoryEntry is one submission attempt.
type HistoryEntry struct {
	ID        string
	Mode      analysis.Mode
	K         int
	Files     []string
	Outcome   Outcome
	RowCount  int
	Message   string
	CreatedAt time.Time
}

// SessionStore is page-scoped key/value storage.
type SessionStore interface {
	SetSession(ctx context.Context, key, value string) error
	GetSession(ctx context.Context, key string) (string, error)
	DeleteSession(ctx context.Context, key string) error
}

// HistoryStore records submission attempts.
type HistoryStore interface {
	RecordSubmission(ctx context.Context, entry *HistoryEntry) error
	ListSubmissions(ctx context.Context, limit int) ([]*HistoryEntry, error)
}

// UsageStore tracks which modes each user has consumed.
type UsageStore interface {
	GetUsage(ctx context.Context, email string) (analysis.UsageStatus, error)
	// ClaimMode atomically flags mode as used. It reports false when the
	// mode was already used.
	ClaimMode(ctx context.Context, email string, mode analysis.Mode) (claimed bool, err error)
	// ReleaseMode undoes a claim whose upload produced no result.
	ReleaseMode(ctx context.Context, email string, mode analysis.Mode) error
	// ResetUsage clears every mode for email. Returns ErrNotFound when the
	// user has no usage record.
	ResetUsage(ctx context.Context, email string) error
}
