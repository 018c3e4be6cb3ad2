package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

// fakeAPI is an in-memory stand-in for the trainer platform. It
// enforces the same rules the real server does: contiguous set numbers
// per exercise and no writes against terminal workout logs.
type fakeAPI struct {
	day  *domain.TrainingDay
	log  *domain.WorkoutLog
	sets map[string][]domain.ExerciseSetLog

	// failNext, when set, fails the next call with this error.
	failNext error

	// onLogSet, when set, runs inside LogSet before it succeeds.
	onLogSet func()
}

func newFakeAPI(day *domain.TrainingDay) *fakeAPI {
	return &fakeAPI{
		day:  day,
		sets: make(map[string][]domain.ExerciseSetLog),
	}
}

func (f *fakeAPI) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeAPI) NextWorkout(ctx context.Context) (*domain.NextWorkout, error) {
	return &domain.NextWorkout{}, nil
}

func (f *fakeAPI) TrainingDay(ctx context.Context, id string) (*domain.TrainingDay, error) {
	return f.day, nil
}

func (f *fakeAPI) MissedWorkouts(ctx context.Context, daysBack int) ([]domain.MissedWorkout, error) {
	return nil, nil
}

func (f *fakeAPI) CreateWorkoutLog(ctx context.Context, trainingDayID string) (*domain.WorkoutLog, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	if f.log != nil && !f.log.Status.IsTerminal() {
		return nil, fmt.Errorf("already in progress: %w", domain.ErrWorkoutConflict)
	}
	f.log = &domain.WorkoutLog{
		ID:            "log-1",
		TrainingDayID: trainingDayID,
		StartedAt:     time.Now(),
		Status:        domain.WorkoutInProgress,
	}
	f.sets = make(map[string][]domain.ExerciseSetLog)
	return f.log, nil
}

func (f *fakeAPI) WorkoutState(ctx context.Context, workoutLogID string) (*domain.WorkoutState, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	if f.log == nil || f.log.ID != workoutLogID {
		return nil, domain.ErrNotFound
	}

	state := &domain.WorkoutState{
		WorkoutLog:      *f.log,
		TrainingDayName: f.day.Name,
		TotalExercises:  len(f.day.Exercises),
	}
	for i := range f.day.Exercises {
		ex := &f.day.Exercises[i]
		logged := f.sets[ex.ID]
		p := domain.ExerciseProgress{
			DayExerciseID: ex.ID,
			ExerciseName:  ex.ExerciseName,
			TotalSets:     ex.Sets,
			CompletedSets: len(logged),
			IsCompleted:   len(logged) >= ex.Sets,
			SetsData:      append([]domain.ExerciseSetLog(nil), logged...),
		}
		if p.IsCompleted {
			state.CompletedExercises++
		}
		state.Progress = append(state.Progress, p)
	}
	return state, nil
}

func (f *fakeAPI) LogSet(ctx context.Context, workoutLogID string, req domain.SetLogRequest) (*domain.ExerciseSetLog, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	if f.onLogSet != nil {
		f.onLogSet()
	}
	if f.log == nil || f.log.ID != workoutLogID {
		return nil, domain.ErrNotFound
	}
	if f.log.Status.IsTerminal() {
		return nil, fmt.Errorf("workout is %s: %w", f.log.Status, domain.ErrWorkoutFinished)
	}

	ex := f.day.ExerciseByID(req.DayExerciseID)
	if ex == nil {
		return nil, domain.ErrNotFound
	}
	logged := f.sets[req.DayExerciseID]
	if req.SetNumber != len(logged)+1 || req.SetNumber > ex.Sets {
		return nil, fmt.Errorf("set %d after %d logged: %w", req.SetNumber, len(logged), domain.ErrSetOutOfOrder)
	}

	set := domain.ExerciseSetLog{
		ID:            fmt.Sprintf("set-%s-%d", req.DayExerciseID, req.SetNumber),
		WorkoutLogID:  workoutLogID,
		DayExerciseID: req.DayExerciseID,
		SetNumber:     req.SetNumber,
		RepsCompleted: req.RepsCompleted,
		WeightKg:      req.WeightKg,
		CompletedAt:   time.Now(),
	}
	f.sets[req.DayExerciseID] = append(logged, set)
	return &set, nil
}

func (f *fakeAPI) UpdateWorkoutStatus(ctx context.Context, workoutLogID string, update domain.StatusUpdate) (*domain.WorkoutLog, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	if f.log == nil || f.log.ID != workoutLogID {
		return nil, domain.ErrNotFound
	}
	if f.log.Status.IsTerminal() {
		return nil, fmt.Errorf("workout is %s: %w", f.log.Status, domain.ErrWorkoutFinished)
	}

	now := time.Now()
	f.log.Status = update.Status
	f.log.CompletedAt = &now
	f.log.AbandonReason = update.AbandonReason
	f.log.AbandonNotes = update.AbandonNotes
	return f.log, nil
}

// fakeHistory records saved entries in memory.
type fakeHistory struct {
	entries []*domain.HistoryEntry
}

func (f *fakeHistory) Save(ctx context.Context, entry *domain.HistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistory) List(ctx context.Context, limit int) ([]*domain.HistoryEntry, error) {
	return f.entries, nil
}

func (f *fakeHistory) FindByWorkoutLog(ctx context.Context, workoutLogID string) (*domain.HistoryEntry, error) {
	for _, e := range f.entries {
		if e.WorkoutLogID == workoutLogID {
			return e, nil
		}
	}
	return nil, nil
}

func sessionDay() *domain.TrainingDay {
	return &domain.TrainingDay{
		ID:   "day-1",
		Name: "Push Day",
		Exercises: []domain.DayExercise{
			{ID: "ex-jacks", TrainingDayID: "day-1", ExerciseName: "Jumping Jacks", OrderIndex: 1, Phase: domain.PhaseWarmup, Sets: 2, RestSeconds: 30},
			{ID: "ex-bench", TrainingDayID: "day-1", ExerciseName: "Bench Press", OrderIndex: 1, Phase: domain.PhaseMain, Sets: 3, RepsMin: intPtr(8), RepsMax: intPtr(12), RestSeconds: 120},
			{ID: "ex-stretch", TrainingDayID: "day-1", ExerciseName: "Chest Stretch", OrderIndex: 1, Phase: domain.PhaseCooldown, Sets: 1},
		},
	}
}

func startedSession(t *testing.T) (*SessionService, *fakeAPI, *fakeHistory) {
	t.Helper()
	day := sessionDay()
	api := newFakeAPI(day)
	history := &fakeHistory{}
	svc := NewSessionService(api, day, history)

	id, err := svc.StartWorkout(context.Background(), day.ID)
	if err != nil {
		t.Fatalf("StartWorkout() error: %v", err)
	}
	if id != "log-1" {
		t.Fatalf("StartWorkout() id = %q, want log-1", id)
	}
	return svc, api, history
}

func TestStartWorkout_SeedsCursor(t *testing.T) {
	svc, _, _ := startedSession(t)

	snap := svc.Snapshot()
	if snap.State == nil {
		t.Fatal("state not loaded after start")
	}
	if snap.Busy {
		t.Error("session should not be busy after start returns")
	}
	if len(snap.Ordered) != 3 {
		t.Fatalf("len(Ordered) = %d, want 3", len(snap.Ordered))
	}

	// First exercise is the warmup, no rep minimum: defaults apply.
	if snap.Cursor.ExerciseIndex != 0 {
		t.Errorf("ExerciseIndex = %d, want 0", snap.Cursor.ExerciseIndex)
	}
	if snap.Cursor.SetNumber != 1 {
		t.Errorf("SetNumber = %d, want 1", snap.Cursor.SetNumber)
	}
	if snap.Cursor.Reps != domain.DefaultReps {
		t.Errorf("Reps = %d, want %d", snap.Cursor.Reps, domain.DefaultReps)
	}
	if snap.Cursor.WeightKg != 0 {
		t.Errorf("WeightKg = %v, want 0", snap.Cursor.WeightKg)
	}
}

func TestLogSet_AdvancesCursorAndReconciles(t *testing.T) {
	svc, api, _ := startedSession(t)
	ctx := context.Background()

	svc.SelectExercise(1) // bench
	snap := svc.Snapshot()
	if snap.Cursor.Reps != 8 {
		t.Fatalf("Reps = %d, want plan minimum 8", snap.Cursor.Reps)
	}

	err := svc.LogSet(ctx, domain.SetLogRequest{
		DayExerciseID: "ex-bench",
		SetNumber:     1,
		RepsCompleted: 10,
		WeightKg:      floatPtr(60),
	})
	if err != nil {
		t.Fatalf("LogSet() error: %v", err)
	}

	snap = svc.Snapshot()
	if snap.Busy {
		t.Error("busy should clear after the operation")
	}
	if snap.Cursor.SetNumber != 2 {
		t.Errorf("SetNumber = %d, want 2", snap.Cursor.SetNumber)
	}
	// Working values mirror the set just logged.
	if snap.Cursor.Reps != 10 {
		t.Errorf("Reps = %d, want 10", snap.Cursor.Reps)
	}
	if snap.Cursor.WeightKg != 60 {
		t.Errorf("WeightKg = %v, want 60", snap.Cursor.WeightKg)
	}

	// The aggregates come from the server's refreshed state.
	bench := snap.Ordered[1].Progress
	if bench.CompletedSets != 1 {
		t.Errorf("CompletedSets = %d, want 1", bench.CompletedSets)
	}
	if len(api.sets["ex-bench"]) != 1 {
		t.Errorf("server sets = %d, want 1", len(api.sets["ex-bench"]))
	}
}

func TestLogSet_OutOfOrderLeavesStateUntouched(t *testing.T) {
	svc, _, _ := startedSession(t)
	ctx := context.Background()

	svc.SelectExercise(1)
	err := svc.LogSet(ctx, domain.SetLogRequest{
		DayExerciseID: "ex-bench",
		SetNumber:     2, // nothing logged yet
		RepsCompleted: 10,
	})
	if !errors.Is(err, domain.ErrSetOutOfOrder) {
		t.Fatalf("LogSet() error = %v, want ErrSetOutOfOrder", err)
	}

	snap := svc.Snapshot()
	if snap.Busy {
		t.Error("busy should clear after a failed operation")
	}
	if snap.Err == nil {
		t.Error("snapshot should carry the surfaced error")
	}
	if snap.Ordered[1].Progress.CompletedSets != 0 {
		t.Error("failed write must not change completed sets")
	}
	if snap.Cursor.SetNumber != 1 {
		t.Errorf("cursor SetNumber = %d, want unchanged 1", snap.Cursor.SetNumber)
	}

	svc.ClearError()
	if svc.Err() != nil {
		t.Error("ClearError should drop the surfaced error")
	}

	// The same action succeeds once corrected.
	if err := svc.LogSet(ctx, domain.SetLogRequest{DayExerciseID: "ex-bench", SetNumber: 1, RepsCompleted: 10}); err != nil {
		t.Fatalf("retry LogSet() error: %v", err)
	}
}

func TestLogSet_RejectsOverlappingOperations(t *testing.T) {
	svc, api, _ := startedSession(t)
	ctx := context.Background()

	var inner error
	api.onLogSet = func() {
		// Re-entrant call while the first operation is in flight.
		inner = svc.LogSet(ctx, domain.SetLogRequest{DayExerciseID: "ex-jacks", SetNumber: 1, RepsCompleted: 12})
	}

	err := svc.LogSet(ctx, domain.SetLogRequest{DayExerciseID: "ex-jacks", SetNumber: 1, RepsCompleted: 12})
	if err != nil {
		t.Fatalf("outer LogSet() error: %v", err)
	}
	if !errors.Is(inner, domain.ErrOperationInFlight) {
		t.Errorf("inner LogSet() error = %v, want ErrOperationInFlight", inner)
	}
}

func TestCompleteWorkout_ClearsSessionAndWritesHistory(t *testing.T) {
	svc, api, history := startedSession(t)
	ctx := context.Background()

	if err := svc.LogSet(ctx, domain.SetLogRequest{DayExerciseID: "ex-jacks", SetNumber: 1, RepsCompleted: 12}); err != nil {
		t.Fatalf("LogSet() error: %v", err)
	}

	if err := svc.CompleteWorkout(ctx); err != nil {
		t.Fatalf("CompleteWorkout() error: %v", err)
	}

	if api.log.Status != domain.WorkoutCompleted {
		t.Errorf("server status = %s, want completed", api.log.Status)
	}

	snap := svc.Snapshot()
	if snap.State != nil || len(snap.Ordered) != 0 {
		t.Error("terminal transition must clear session state")
	}
	if snap.Cursor != (Cursor{}) {
		t.Error("terminal transition must reset the cursor")
	}

	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	entry := history.entries[0]
	if entry.Status != domain.WorkoutCompleted {
		t.Errorf("history status = %s, want completed", entry.Status)
	}
	if entry.SetsLogged != 1 {
		t.Errorf("history sets = %d, want 1", entry.SetsLogged)
	}

	// Nothing further is valid against the cleared session.
	err := svc.LogSet(ctx, domain.SetLogRequest{DayExerciseID: "ex-jacks", SetNumber: 2, RepsCompleted: 12})
	if !errors.Is(err, domain.ErrNoActiveSession) {
		t.Errorf("LogSet() after complete = %v, want ErrNoActiveSession", err)
	}
}

func TestAbandonWorkout_RecordsReasonAndNotes(t *testing.T) {
	svc, api, history := startedSession(t)
	ctx := context.Background()

	if err := svc.AbandonWorkout(ctx, domain.AbandonInjury, "knee pain"); err != nil {
		t.Fatalf("AbandonWorkout() error: %v", err)
	}

	if api.log.Status != domain.WorkoutAbandoned {
		t.Errorf("server status = %s, want abandoned", api.log.Status)
	}
	if api.log.AbandonReason == nil || *api.log.AbandonReason != domain.AbandonInjury {
		t.Errorf("server reason = %v, want injury", api.log.AbandonReason)
	}
	if api.log.AbandonNotes != "knee pain" {
		t.Errorf("server notes = %q, want %q", api.log.AbandonNotes, "knee pain")
	}

	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	if history.entries[0].AbandonReason == nil || *history.entries[0].AbandonReason != domain.AbandonInjury {
		t.Error("history entry should carry the abandon reason")
	}
}

func TestAbandonWorkout_RejectsInvalidReason(t *testing.T) {
	svc, api, _ := startedSession(t)

	err := svc.AbandonWorkout(context.Background(), domain.AbandonReason("bored"), "")
	if !errors.Is(err, domain.ErrInvalidAbandonReason) {
		t.Fatalf("AbandonWorkout() error = %v, want ErrInvalidAbandonReason", err)
	}
	if api.log.Status != domain.WorkoutInProgress {
		t.Error("invalid reason must not reach the server")
	}
}

func TestTerminate_FailureKeepsSessionAlive(t *testing.T) {
	svc, api, history := startedSession(t)
	ctx := context.Background()

	api.failNext = domain.ErrNetwork
	err := svc.CompleteWorkout(ctx)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("CompleteWorkout() error = %v, want ErrNetwork", err)
	}

	snap := svc.Snapshot()
	if snap.State == nil {
		t.Error("failed transition must keep the session state")
	}
	if snap.Busy {
		t.Error("busy should clear after the failure")
	}
	if len(history.entries) != 0 {
		t.Error("no history entry on a failed transition")
	}

	// Retry succeeds.
	if err := svc.CompleteWorkout(ctx); err != nil {
		t.Fatalf("retry CompleteWorkout() error: %v", err)
	}
}

func TestLoadWorkoutState_ResumesAtFirstIncomplete(t *testing.T) {
	day := sessionDay()
	api := newFakeAPI(day)
	ctx := context.Background()

	// A previous session logged the warmup and one bench set.
	if _, err := api.CreateWorkoutLog(ctx, day.ID); err != nil {
		t.Fatal(err)
	}
	for _, req := range []domain.SetLogRequest{
		{DayExerciseID: "ex-jacks", SetNumber: 1, RepsCompleted: 12},
		{DayExerciseID: "ex-jacks", SetNumber: 2, RepsCompleted: 12},
		{DayExerciseID: "ex-bench", SetNumber: 1, RepsCompleted: 9, WeightKg: floatPtr(55)},
	} {
		if _, err := api.LogSet(ctx, "log-1", req); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewSessionService(api, day, nil)
	if err := svc.LoadWorkoutState(ctx, "log-1"); err != nil {
		t.Fatalf("LoadWorkoutState() error: %v", err)
	}

	snap := svc.Snapshot()
	if snap.Cursor.ExerciseIndex != 1 {
		t.Errorf("ExerciseIndex = %d, want 1 (bench)", snap.Cursor.ExerciseIndex)
	}
	if snap.Cursor.SetNumber != 2 {
		t.Errorf("SetNumber = %d, want 2", snap.Cursor.SetNumber)
	}
	// Working values continue from the last logged set.
	if snap.Cursor.Reps != 9 {
		t.Errorf("Reps = %d, want 9", snap.Cursor.Reps)
	}
	if snap.Cursor.WeightKg != 55 {
		t.Errorf("WeightKg = %v, want 55", snap.Cursor.WeightKg)
	}
}

func TestLoadWorkoutState_AllCompleteStillNeedsExplicitFinish(t *testing.T) {
	day := sessionDay()
	api := newFakeAPI(day)
	ctx := context.Background()

	if _, err := api.CreateWorkoutLog(ctx, day.ID); err != nil {
		t.Fatal(err)
	}
	for _, ex := range day.Exercises {
		for n := 1; n <= ex.Sets; n++ {
			if _, err := api.LogSet(ctx, "log-1", domain.SetLogRequest{DayExerciseID: ex.ID, SetNumber: n, RepsCompleted: 10}); err != nil {
				t.Fatal(err)
			}
		}
	}

	svc := NewSessionService(api, day, nil)
	if err := svc.LoadWorkoutState(ctx, "log-1"); err != nil {
		t.Fatalf("LoadWorkoutState() error: %v", err)
	}

	if api.log.Status != domain.WorkoutInProgress {
		t.Fatal("logging every set must not auto-complete the workout")
	}
	if svc.SetsLogged() != 6 {
		t.Errorf("SetsLogged() = %d, want 6", svc.SetsLogged())
	}

	if err := svc.CompleteWorkout(ctx); err != nil {
		t.Fatalf("CompleteWorkout() error: %v", err)
	}
	if api.log.Status != domain.WorkoutCompleted {
		t.Error("explicit complete should finish the workout")
	}
}

func TestAdjusters_ClampAtFloors(t *testing.T) {
	svc, _, _ := startedSession(t)

	svc.AdjustReps(-100)
	if got := svc.Snapshot().Cursor.Reps; got != 1 {
		t.Errorf("Reps = %d, want floor 1", got)
	}

	svc.AdjustWeight(-100)
	if got := svc.Snapshot().Cursor.WeightKg; got != 0 {
		t.Errorf("WeightKg = %v, want floor 0", got)
	}

	svc.AdjustReps(5)
	svc.AdjustWeight(2.5)
	snap := svc.Snapshot()
	if snap.Cursor.Reps != 6 || snap.Cursor.WeightKg != 2.5 {
		t.Errorf("cursor = %+v after adjustments", snap.Cursor)
	}
}

func TestSelectExercise_ReseedsOnlyOnChange(t *testing.T) {
	svc, _, _ := startedSession(t)

	svc.SelectExercise(1)
	svc.AdjustReps(2) // 8 -> 10

	// Re-selecting the same exercise keeps the adjusted values.
	svc.SelectExercise(1)
	if got := svc.Snapshot().Cursor.Reps; got != 10 {
		t.Errorf("Reps = %d, want 10 after re-select", got)
	}

	// Moving away and back reseeds from progress.
	svc.SelectExercise(0)
	svc.SelectExercise(1)
	if got := svc.Snapshot().Cursor.Reps; got != 8 {
		t.Errorf("Reps = %d, want reseeded 8", got)
	}
}

func TestAdvanceExercise_StopsAtEnd(t *testing.T) {
	svc, _, _ := startedSession(t)

	svc.AdvanceExercise()
	svc.AdvanceExercise()
	if got := svc.Snapshot().Cursor.ExerciseIndex; got != 2 {
		t.Fatalf("ExerciseIndex = %d, want 2", got)
	}

	svc.AdvanceExercise()
	if got := svc.Snapshot().Cursor.ExerciseIndex; got != 2 {
		t.Errorf("ExerciseIndex = %d, want to stay at last", got)
	}
}
