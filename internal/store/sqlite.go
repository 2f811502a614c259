// ABOUTME: SQLite implementation of the store interfaces using modernc.org/sqlite
// ABOUTME: Opens in memory for the client or on disk for the dev server

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a store that disappears when the process exits.
const MemoryPath = ":memory:"

// SQLiteStore implements SessionStore, HistoryStore and UsageStore.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens the store at path. An empty path or MemoryPath keeps
// everything in memory. Parent directories are created for on-disk stores.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	inMemory := path == "" || path == MemoryPath
	if inMemory {
		path = MemoryPath
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := path
	if !inMemory {
		// Concurrent writers wait for the lock instead of failing with SQLITE_BUSY.
		dsn += "?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if inMemory {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS session_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			k INTEGER NOT NULL DEFAULT 1,
			files TEXT NOT NULL,
			outcome TEXT NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_submissions_created
			ON submissions(created_at);

		CREATE TABLE IF NOT EXISTS mode_usage (
			email TEXT NOT NULL,
			mode TEXT NOT NULL,
			used INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (email, mode)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements every store interface.
var (
	_ SessionStore = (*SQLiteStore)(nil)
	_ HistoryStore = (*SQLiteStore)(nil)
	_ UsageStore   = (*SQLiteStore)(nil)
)
