package ports

import (
	"context"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

// HistoryRepository persists local summaries of finished workouts.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Save inserts the history entry for a finished workout.
	Save(ctx context.Context, entry *domain.HistoryEntry) error

	// List retrieves the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]*domain.HistoryEntry, error)

	// FindByWorkoutLog retrieves the entry for a workout log id, or
	// nil if the workout never finished on this device.
	FindByWorkoutLog(ctx context.Context, workoutLogID string) (*domain.HistoryEntry, error)
}

// Storage is the combined local storage interface.
type Storage interface {
	// History provides access to the finished-workout cache.
	History() HistoryRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
