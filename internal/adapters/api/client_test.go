package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "test-token", 5*time.Second)
}

func TestClient_SendsAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(domain.WorkoutLog{ID: "log-1", Status: domain.WorkoutInProgress})
	})

	log, err := client.CreateWorkoutLog(context.Background(), "day-1")
	require.NoError(t, err)
	assert.Equal(t, "log-1", log.ID)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID, "writes must carry a request id")
}

func TestClient_NoRequestIDOnReads(t *testing.T) {
	var gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(domain.NextWorkout{AllCompleted: true})
	})

	next, err := client.NextWorkout(context.Background())
	require.NoError(t, err)
	assert.True(t, next.AllCompleted)
	assert.Empty(t, gotRequestID)
}

func TestClient_ErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"conflict code", http.StatusConflict, `{"detail":"already in progress","code":"conflict"}`, domain.ErrWorkoutConflict},
		{"invalid state code", http.StatusBadRequest, `{"detail":"workout is completed","code":"invalid_state"}`, domain.ErrWorkoutFinished},
		{"out of order code", http.StatusBadRequest, `{"detail":"expected set 1","code":"out_of_order"}`, domain.ErrSetOutOfOrder},
		{"not found code", http.StatusNotFound, `{"detail":"no such log","code":"not_found"}`, domain.ErrNotFound},
		{"status fallback 404", http.StatusNotFound, `{"detail":"gone"}`, domain.ErrNotFound},
		{"status fallback 403", http.StatusForbidden, `{"detail":"not yours"}`, domain.ErrNotFound},
		{"status fallback 409", http.StatusConflict, `{"detail":"conflict"}`, domain.ErrWorkoutConflict},
		{"status fallback 400", http.StatusBadRequest, `{"detail":"bad"}`, domain.ErrWorkoutFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.LogSet(context.Background(), "log-1", domain.SetLogRequest{
				DayExerciseID: "ex-1",
				SetNumber:     1,
				RepsCompleted: 10,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Status)
		})
	}
}

func TestClient_BodyCodeWinsOverStatus(t *testing.T) {
	// An out_of_order code arriving with a 409 must map to the code's
	// sentinel, not the status fallback.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"expected set 2","code":"out_of_order"}`))
	})

	_, err := client.LogSet(context.Background(), "log-1", domain.SetLogRequest{DayExerciseID: "ex-1", SetNumber: 5, RepsCompleted: 10})
	assert.ErrorIs(t, err, domain.ErrSetOutOfOrder)
	assert.NotErrorIs(t, err, domain.ErrWorkoutConflict)
}

func TestClient_NetworkErrorsWrapSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := New(server.URL, "", time.Second)
	_, err := client.NextWorkout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_ContextCancellationPassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.NextWorkout(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_WorkoutStateDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workout-logs/log-1/state", r.URL.Path)
		w.Write([]byte(`{
			"workout_log": {"id": "log-1", "training_day_id": "day-1", "status": "in_progress"},
			"training_day_name": "Push Day",
			"total_exercises": 2,
			"completed_exercises": 1,
			"exercises_progress": [
				{"day_exercise_id": "ex-1", "exercise_name": "Bench", "total_sets": 3, "completed_sets": 3, "is_completed": true,
				 "sets_data": [{"set_number": 3, "reps_completed": 8, "weight_kg": 60.0}]},
				{"day_exercise_id": "ex-2", "exercise_name": "Fly", "total_sets": 3, "completed_sets": 0, "is_completed": false, "sets_data": []}
			]
		}`))
	})

	state, err := client.WorkoutState(context.Background(), "log-1")
	require.NoError(t, err)
	assert.Equal(t, "Push Day", state.TrainingDayName)
	assert.Len(t, state.Progress, 2)
	assert.True(t, state.Progress[0].IsCompleted)

	last := state.Progress[0].LastSet()
	require.NotNil(t, last)
	assert.Equal(t, 8, last.RepsCompleted)
	require.NotNil(t, last.WeightKg)
	assert.Equal(t, 60.0, *last.WeightKg)
}

func TestClient_MissedWorkoutsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workout-logs/missed", r.URL.Path)
		assert.Equal(t, "21", r.URL.Query().Get("days_back"))
		w.Write([]byte(`{"missed_workouts": [{"training_day_id": "day-3", "training_day_name": "Leg Day", "scheduled_date": "2026-08-20", "day_number": 3, "microcycle_week": 2, "exercises_count": 6}], "total": 1}`))
	})

	missed, err := client.MissedWorkouts(context.Background(), 21)
	require.NoError(t, err)
	require.Len(t, missed, 1)
	assert.Equal(t, "Leg Day", missed[0].TrainingDayName)
	assert.Equal(t, 6, missed[0].ExercisesCount)
}
