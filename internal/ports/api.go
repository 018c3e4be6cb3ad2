// Package ports defines the interfaces (driven and driving ports)
// between the session core and external infrastructure.
package ports

import (
	"context"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

// WorkoutAPI is the driven port over the trainer platform's REST API.
// Every call is a blocking round trip; the caller serializes access.
type WorkoutAPI interface {
	// NextWorkout returns the client's position in the sequential
	// program and the next training day to execute, if any.
	NextWorkout(ctx context.Context) (*domain.NextWorkout, error)

	// TrainingDay fetches a full training day with its ordered exercises.
	TrainingDay(ctx context.Context, id string) (*domain.TrainingDay, error)

	// MissedWorkouts lists scheduled days not executed within daysBack days.
	MissedWorkouts(ctx context.Context, daysBack int) ([]domain.MissedWorkout, error)

	// CreateWorkoutLog starts a new workout for the training day.
	// Fails with domain.ErrWorkoutConflict if one is already in progress.
	CreateWorkoutLog(ctx context.Context, trainingDayID string) (*domain.WorkoutLog, error)

	// WorkoutState fetches the full authoritative session state.
	WorkoutState(ctx context.Context, workoutLogID string) (*domain.WorkoutState, error)

	// LogSet records one completed set. The server enforces contiguous
	// set numbering and rejects writes against terminal workout logs.
	LogSet(ctx context.Context, workoutLogID string, req domain.SetLogRequest) (*domain.ExerciseSetLog, error)

	// UpdateWorkoutStatus applies the terminal complete/abandon transition.
	UpdateWorkoutStatus(ctx context.Context, workoutLogID string, update domain.StatusUpdate) (*domain.WorkoutLog, error)
}
