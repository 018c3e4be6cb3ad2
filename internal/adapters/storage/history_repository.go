package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
)

// historyRepository implements ports.HistoryRepository using SQLite.
type historyRepository struct {
	db *sql.DB
}

// newHistoryRepository creates a new history repository.
func newHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// Save inserts the history entry for a finished workout. Saving the
// same workout log twice keeps the first row.
func (r *historyRepository) Save(ctx context.Context, entry *domain.HistoryEntry) error {
	query := `
		INSERT INTO workout_history (
			id, workout_log_id, training_day_id, training_day_name,
			status, started_at, finished_at, abandon_reason, sets_logged
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(workout_log_id) DO NOTHING
	`

	var reason *string
	if entry.AbandonReason != nil {
		s := string(*entry.AbandonReason)
		reason = &s
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.WorkoutLogID,
		entry.TrainingDayID,
		entry.TrainingDayName,
		string(entry.Status),
		entry.StartedAt,
		entry.FinishedAt,
		reason,
		entry.SetsLogged,
	)

	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// List retrieves the most recent entries, newest first.
func (r *historyRepository) List(ctx context.Context, limit int) ([]*domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, workout_log_id, training_day_id, training_day_name,
		       status, started_at, finished_at, abandon_reason, sets_logged
		FROM workout_history
		ORDER BY finished_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// FindByWorkoutLog retrieves the entry for a workout log id.
func (r *historyRepository) FindByWorkoutLog(ctx context.Context, workoutLogID string) (*domain.HistoryEntry, error) {
	query := `
		SELECT id, workout_log_id, training_day_id, training_day_name,
		       status, started_at, finished_at, abandon_reason, sets_logged
		FROM workout_history
		WHERE workout_log_id = ?
	`

	row := r.db.QueryRowContext(ctx, query, workoutLogID)
	entry, err := scanHistoryEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanHistoryEntry(s scanner) (*domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	var status string
	var reason sql.NullString

	err := s.Scan(
		&entry.ID,
		&entry.WorkoutLogID,
		&entry.TrainingDayID,
		&entry.TrainingDayName,
		&status,
		&entry.StartedAt,
		&entry.FinishedAt,
		&reason,
		&entry.SetsLogged,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}

	entry.Status = domain.WorkoutStatus(status)
	if reason.Valid {
		r := domain.AbandonReason(reason.String)
		entry.AbandonReason = &r
	}

	return &entry, nil
}
