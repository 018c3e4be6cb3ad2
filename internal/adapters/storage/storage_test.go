package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

func testEntry(workoutLogID string, finished time.Time) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:              "hist-" + workoutLogID,
		WorkoutLogID:    workoutLogID,
		TrainingDayID:   "day-1",
		TrainingDayName: "Push Day",
		Status:          domain.WorkoutCompleted,
		StartedAt:       finished.Add(-time.Hour),
		FinishedAt:      finished,
		SetsLogged:      12,
	}
}

func TestHistoryRepository_SaveAndFind(t *testing.T) {
	store, err := NewMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	entry := testEntry("log-1", time.Now())
	require.NoError(t, store.History().Save(ctx, entry))

	found, err := store.History().FindByWorkoutLog(ctx, "log-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.WorkoutLogID, found.WorkoutLogID)
	assert.Equal(t, entry.TrainingDayName, found.TrainingDayName)
	assert.Equal(t, domain.WorkoutCompleted, found.Status)
	assert.Equal(t, 12, found.SetsLogged)
	assert.Nil(t, found.AbandonReason)
}

func TestHistoryRepository_SaveIsIdempotentPerWorkoutLog(t *testing.T) {
	store, err := NewMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	first := testEntry("log-1", time.Now())
	require.NoError(t, store.History().Save(ctx, first))

	// A second save for the same workout log keeps the first row.
	dup := testEntry("log-1", time.Now())
	dup.ID = "hist-other"
	dup.SetsLogged = 99
	require.NoError(t, store.History().Save(ctx, dup))

	entries, err := store.History().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 12, entries[0].SetsLogged)
}

func TestHistoryRepository_ListNewestFirst(t *testing.T) {
	store, err := NewMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Add(-24 * time.Hour)
	for i, id := range []string{"log-1", "log-2", "log-3"} {
		entry := testEntry(id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.History().Save(ctx, entry))
	}

	entries, err := store.History().List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "log-3", entries[0].WorkoutLogID)
	assert.Equal(t, "log-2", entries[1].WorkoutLogID)
}

func TestHistoryRepository_AbandonReasonRoundTrip(t *testing.T) {
	store, err := NewMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	reason := domain.AbandonInjury
	entry := testEntry("log-1", time.Now())
	entry.Status = domain.WorkoutAbandoned
	entry.AbandonReason = &reason
	require.NoError(t, store.History().Save(ctx, entry))

	found, err := store.History().FindByWorkoutLog(ctx, "log-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.WorkoutAbandoned, found.Status)
	require.NotNil(t, found.AbandonReason)
	assert.Equal(t, domain.AbandonInjury, *found.AbandonReason)
}

func TestHistoryRepository_FindMissingReturnsNil(t *testing.T) {
	store, err := NewMemory()
	require.NoError(t, err)
	defer store.Close()

	found, err := store.History().FindByWorkoutLog(context.Background(), "no-such-log")
	require.NoError(t, err)
	assert.Nil(t, found)
}
