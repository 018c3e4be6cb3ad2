// Package storage provides the SQLite implementation of the local
// history cache.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/fitpilot/fitpilot-cli/internal/ports"
	_ "modernc.org/sqlite"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db          *sql.DB
	historyRepo ports.HistoryRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	storage := &sqliteStorage{
		db:          db,
		historyRepo: newHistoryRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// History returns the finished-workout repository.
func (s *sqliteStorage) History() ports.HistoryRepository {
	return s.historyRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workout_history (
		id TEXT PRIMARY KEY,
		workout_log_id TEXT NOT NULL UNIQUE,
		training_day_id TEXT NOT NULL,
		training_day_name TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		abandon_reason TEXT,
		sets_logged INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_history_finished ON workout_history(finished_at);
	CREATE INDEX IF NOT EXISTS idx_history_status ON workout_history(status);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
