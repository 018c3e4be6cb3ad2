// Package services contains the application use cases that orchestrate
// the domain against the driven ports.
package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
)

// Cursor tracks the session's active input position: which exercise is
// targeted, which set number is next, and the working reps/weight shown
// in the input controls. Client-only, recomputed from server state on
// every load and after every successful write.
type Cursor struct {
	ExerciseIndex int
	SetNumber     int
	Reps          int
	WeightKg      float64
}

// Snapshot is a read-only view of the session handed to the
// presentation layer. State and Ordered are replaced wholesale on every
// reconciliation and must not be mutated by consumers.
type Snapshot struct {
	State   *domain.WorkoutState
	Ordered []domain.OrderedExercise
	Cursor  Cursor
	Busy    bool
	Err     error
}

// SessionService is the workout session state machine. One instance per
// active workout log, constructed at session start and discarded after
// the terminal transition. It owns the authoritative state fetched from
// the server and serializes all network operations: at most one is in
// flight at a time, and local state is never mutated ahead of server
// confirmation.
type SessionService struct {
	api     ports.WorkoutAPI
	history ports.HistoryRepository
	day     *domain.TrainingDay

	mu      sync.Mutex
	busy    bool
	state   *domain.WorkoutState
	ordered []domain.OrderedExercise
	byID    map[string]*domain.ExerciseProgress
	cursor  Cursor
	lastErr error
}

// NewSessionService creates a session service bound to one training
// day. history may be nil; when set, finished workouts are summarized
// into the local cache.
func NewSessionService(api ports.WorkoutAPI, day *domain.TrainingDay, history ports.HistoryRepository) *SessionService {
	return &SessionService{
		api:     api,
		day:     day,
		history: history,
	}
}

// TrainingDay returns the read-only plan this session executes against.
func (s *SessionService) TrainingDay() *domain.TrainingDay {
	return s.day
}

// Snapshot returns the current session view.
func (s *SessionService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:   s.state,
		Ordered: s.ordered,
		Cursor:  s.cursor,
		Busy:    s.busy,
		Err:     s.lastErr,
	}
}

// Err returns the last surfaced error, or nil.
func (s *SessionService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError clears the last surfaced error without altering state.
func (s *SessionService) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// WorkoutLogID returns the active workout log id, or "" if no session
// state is loaded.
func (s *SessionService) WorkoutLogID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.WorkoutLog.ID
}

// begin acquires the single-operation guard. Reads and writes share it:
// overlapping reads are disallowed rather than merged, so the last
// applied state is always the last requested one.
func (s *SessionService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrOperationInFlight
	}
	s.busy = true
	s.lastErr = nil
	return nil
}

// finish releases the guard and records the operation's error, if any.
// A failed operation leaves the session exactly as the server last
// reported it.
func (s *SessionService) finish(err error) {
	s.mu.Lock()
	s.busy = false
	if err != nil {
		s.lastErr = err
	}
	s.mu.Unlock()
}

// applyState replaces the authoritative state wholesale and rebuilds
// the derived ordered sequence. Caller holds no locks.
func (s *SessionService) applyState(state *domain.WorkoutState) {
	byID := state.ProgressByExercise()
	ordered := domain.OrderedExercises(s.day, byID)

	s.mu.Lock()
	s.state = state
	s.byID = byID
	s.ordered = ordered
	s.mu.Unlock()
}

// seedCursor points the cursor at the exercise with the given index and
// derives set number and working values from its progress.
func (s *SessionService) seedCursor(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedCursorLocked(index)
}

func (s *SessionService) seedCursorLocked(index int) {
	if index < 0 || index >= len(s.ordered) {
		return
	}
	oe := s.ordered[index]
	defaults := domain.DefaultsFor(oe.Exercise, oe.Progress)
	s.cursor = Cursor{
		ExerciseIndex: index,
		SetNumber:     oe.Progress.NextSetNumber(),
		Reps:          defaults.Reps,
		WeightKg:      defaults.WeightKg,
	}
}

// StartWorkout creates a new workout log for the training day, fetches
// the full session state, and positions the cursor at the first
// exercise. Returns the new workout log id.
func (s *SessionService) StartWorkout(ctx context.Context, trainingDayID string) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}

	log, err := s.api.CreateWorkoutLog(ctx, trainingDayID)
	if err != nil {
		err = fmt.Errorf("failed to start workout: %w", err)
		s.finish(err)
		return "", err
	}

	state, err := s.api.WorkoutState(ctx, log.ID)
	if err != nil {
		err = fmt.Errorf("failed to load workout state: %w", err)
		s.finish(err)
		return "", err
	}

	s.applyState(state)
	s.seedCursor(0)
	s.finish(nil)
	return log.ID, nil
}

// LoadWorkoutState fetches the state of an existing workout log, used
// on cold start and re-entry. The cursor resumes at the first
// incomplete exercise; if everything is complete it points at the first
// exercise for display only, and the workout still awaits an explicit
// CompleteWorkout.
func (s *SessionService) LoadWorkoutState(ctx context.Context, workoutLogID string) error {
	if err := s.begin(); err != nil {
		return err
	}

	state, err := s.api.WorkoutState(ctx, workoutLogID)
	if err != nil {
		err = fmt.Errorf("failed to load workout state: %w", err)
		s.finish(err)
		return err
	}

	s.applyState(state)
	index := domain.NextIncompleteIndex(s.ordered)
	if index < 0 {
		index = 0
	}
	s.seedCursor(index)
	s.finish(nil)
	return nil
}

// LogSet records one completed set and reconciles against the server's
// refreshed state. The cursor's set number advances to the logged
// exercise's new completed count plus one, and the working reps/weight
// mirror the set just logged.
func (s *SessionService) LogSet(ctx context.Context, req domain.SetLogRequest) error {
	if err := s.guardInProgress(); err != nil {
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}
	s.mu.Lock()
	workoutLogID := s.state.WorkoutLog.ID
	s.mu.Unlock()

	if _, err := s.api.LogSet(ctx, workoutLogID, req); err != nil {
		err = fmt.Errorf("failed to log set: %w", err)
		s.finish(err)
		return err
	}

	// Re-fetch the full aggregates rather than patching the one log in:
	// the server owns completed_sets and completion flags.
	state, err := s.api.WorkoutState(ctx, workoutLogID)
	if err != nil {
		err = fmt.Errorf("failed to reload workout state: %w", err)
		s.finish(err)
		return err
	}

	s.applyState(state)

	s.mu.Lock()
	if p, ok := s.byID[req.DayExerciseID]; ok {
		s.cursor.SetNumber = p.NextSetNumber()
		if last := p.LastSet(); last != nil {
			if last.RepsCompleted > 0 {
				s.cursor.Reps = last.RepsCompleted
			}
			if last.WeightKg != nil {
				s.cursor.WeightKg = *last.WeightKg
			} else {
				s.cursor.WeightKg = 0
			}
		}
	}
	s.mu.Unlock()

	s.finish(nil)
	return nil
}

// CompleteWorkout applies the terminal completed transition and clears
// the session state. No further operations are valid afterwards.
func (s *SessionService) CompleteWorkout(ctx context.Context) error {
	return s.terminate(ctx, domain.StatusUpdate{Status: domain.WorkoutCompleted})
}

// AbandonWorkout applies the terminal abandoned transition with the
// given reason and optional notes, then clears the session state.
func (s *SessionService) AbandonWorkout(ctx context.Context, reason domain.AbandonReason, notes string) error {
	if _, err := domain.ParseAbandonReason(string(reason)); err != nil {
		return err
	}
	return s.terminate(ctx, domain.StatusUpdate{
		Status:        domain.WorkoutAbandoned,
		AbandonReason: &reason,
		AbandonNotes:  notes,
	})
}

func (s *SessionService) terminate(ctx context.Context, update domain.StatusUpdate) error {
	if err := s.guardInProgress(); err != nil {
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}
	s.mu.Lock()
	workoutLogID := s.state.WorkoutLog.ID
	s.mu.Unlock()

	log, err := s.api.UpdateWorkoutStatus(ctx, workoutLogID, update)
	if err != nil {
		err = fmt.Errorf("failed to finish workout: %w", err)
		s.finish(err)
		return err
	}

	s.recordHistory(ctx, log)

	s.mu.Lock()
	s.state = nil
	s.byID = nil
	s.ordered = nil
	s.cursor = Cursor{}
	s.mu.Unlock()

	s.finish(nil)
	return nil
}

// guardInProgress rejects writes when no session is loaded or the
// workout log already reached a terminal status.
func (s *SessionService) guardInProgress() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.ErrNoActiveSession
	}
	if s.state.WorkoutLog.Status.IsTerminal() {
		return domain.ErrWorkoutFinished
	}
	return nil
}

// SetsLogged returns the total number of sets recorded so far.
func (s *SessionService) SetsLogged() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.ordered {
		total += s.ordered[i].Progress.CompletedSets
	}
	return total
}

// recordHistory caches a summary of the finished workout locally. Cache
// failures never fail the terminal transition.
func (s *SessionService) recordHistory(ctx context.Context, log *domain.WorkoutLog) {
	if s.history == nil {
		return
	}

	s.mu.Lock()
	name := ""
	sets := 0
	if s.state != nil {
		name = s.state.TrainingDayName
		for i := range s.ordered {
			sets += s.ordered[i].Progress.CompletedSets
		}
	}
	s.mu.Unlock()

	finished := time.Now()
	if log.CompletedAt != nil {
		finished = *log.CompletedAt
	}

	entry := &domain.HistoryEntry{
		ID:              domain.NewRequestID(),
		WorkoutLogID:    log.ID,
		TrainingDayID:   log.TrainingDayID,
		TrainingDayName: name,
		Status:          log.Status,
		StartedAt:       log.StartedAt,
		FinishedAt:      finished,
		AbandonReason:   log.AbandonReason,
		SetsLogged:      sets,
	}
	if err := s.history.Save(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to cache workout history: %v\n", err)
	}
}

// SelectExercise re-targets the cursor to the exercise at the given
// index and reseeds set number and working values from its progress.
// Local only, no network call.
func (s *SessionService) SelectExercise(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index == s.cursor.ExerciseIndex {
		return
	}
	s.seedCursorLocked(index)
}

// AdvanceExercise moves the cursor to the next exercise, if any.
func (s *SessionService) AdvanceExercise() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cursor.ExerciseIndex + 1
	if next < len(s.ordered) {
		s.seedCursorLocked(next)
	}
}

// AdjustReps applies a delta to the working rep count. Floor of 1.
func (s *SessionService) AdjustReps(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Reps += delta
	if s.cursor.Reps < 1 {
		s.cursor.Reps = 1
	}
}

// AdjustWeight applies a delta to the working weight. Floor of 0.
func (s *SessionService) AdjustWeight(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.WeightKg += delta
	if s.cursor.WeightKg < 0 {
		s.cursor.WeightKg = 0
	}
}
