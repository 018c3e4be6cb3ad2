package domain

import "sort"

// Default working values used when an exercise has no logged sets and
// no planned rep minimum to fall back on.
const (
	DefaultReps        = 12
	DefaultRestSeconds = 90
)

// ExerciseProgress is the server-computed completion aggregate for one
// exercise within a workout. Authoritative: the client never mutates
// CompletedSets locally, it logs a set and re-fetches.
type ExerciseProgress struct {
	DayExerciseID string           `json:"day_exercise_id"`
	ExerciseName  string           `json:"exercise_name"`
	TotalSets     int              `json:"total_sets"`
	CompletedSets int              `json:"completed_sets"`
	IsCompleted   bool             `json:"is_completed"`
	SetsData      []ExerciseSetLog `json:"sets_data"`
}

// LastSet returns the most recently logged set, or nil if none.
func (p *ExerciseProgress) LastSet() *ExerciseSetLog {
	if len(p.SetsData) == 0 {
		return nil
	}
	return &p.SetsData[len(p.SetsData)-1]
}

// NextSetNumber returns the 1-based number of the next set to log.
func (p *ExerciseProgress) NextSetNumber() int {
	return p.CompletedSets + 1
}

// WorkoutState is the full authoritative session state as reported by
// the server. Replaced wholesale after every successful write.
type WorkoutState struct {
	WorkoutLog         WorkoutLog         `json:"workout_log"`
	TrainingDayName    string             `json:"training_day_name"`
	TrainingDayFocus   string             `json:"training_day_focus,omitempty"`
	TotalExercises     int                `json:"total_exercises"`
	CompletedExercises int                `json:"completed_exercises"`
	Progress           []ExerciseProgress `json:"exercises_progress"`
}

// ProgressByExercise indexes the progress aggregates by day exercise id.
func (s *WorkoutState) ProgressByExercise() map[string]*ExerciseProgress {
	byID := make(map[string]*ExerciseProgress, len(s.Progress))
	for i := range s.Progress {
		byID[s.Progress[i].DayExerciseID] = &s.Progress[i]
	}
	return byID
}

// OrderedExercise pairs a planned exercise slot with its progress
// aggregate and its position within the phase-ordered sequence.
type OrderedExercise struct {
	Exercise     *DayExercise
	Progress     *ExerciseProgress
	PhaseIndex   int
	IndexInPhase int
	TotalInPhase int
}

// OrderedExercises joins the planned day with the progress map and
// returns the session's canonical exercise sequence, sorted by
// (phase order, order index). The result is stable across calls with
// the same input and neither argument is mutated. Exercises without a
// progress aggregate are skipped; order indexes are assumed unique per
// phase. The slice index of each element is the session's exercise
// index, used by the cursor.
func OrderedExercises(day *TrainingDay, progress map[string]*ExerciseProgress) []OrderedExercise {
	ordered := make([]OrderedExercise, 0, len(day.Exercises))
	for i := range day.Exercises {
		ex := &day.Exercises[i]
		p, ok := progress[ex.ID]
		if !ok {
			continue
		}
		ordered = append(ordered, OrderedExercise{
			Exercise:   ex,
			Progress:   p,
			PhaseIndex: ex.Phase.Order(),
		})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PhaseIndex != ordered[j].PhaseIndex {
			return ordered[i].PhaseIndex < ordered[j].PhaseIndex
		}
		return ordered[i].Exercise.OrderIndex < ordered[j].Exercise.OrderIndex
	})

	counts := make(map[Phase]int)
	for _, oe := range ordered {
		counts[oe.Exercise.Phase]++
	}
	seen := make(map[Phase]int)
	for i := range ordered {
		phase := ordered[i].Exercise.Phase
		seen[phase]++
		ordered[i].IndexInPhase = seen[phase]
		ordered[i].TotalInPhase = counts[phase]
	}

	return ordered
}

// NextIncompleteIndex returns the index of the first exercise whose
// progress is not complete, or -1 if every exercise is done.
func NextIncompleteIndex(ordered []OrderedExercise) int {
	for i, oe := range ordered {
		if !oe.Progress.IsCompleted {
			return i
		}
	}
	return -1
}

// IsPhaseCompleted reports whether every exercise in the given phase is
// complete. A phase with no exercises counts as complete.
func IsPhaseCompleted(ordered []OrderedExercise, phase Phase) bool {
	for _, oe := range ordered {
		if oe.Exercise.Phase == phase && !oe.Progress.IsCompleted {
			return false
		}
	}
	return true
}

// Phases returns the distinct phases present in the sequence, in order.
func Phases(ordered []OrderedExercise) []Phase {
	var phases []Phase
	var last Phase
	for i, oe := range ordered {
		if i == 0 || oe.Exercise.Phase != last {
			last = oe.Exercise.Phase
			phases = append(phases, last)
		}
	}
	return phases
}

// SetDefaults holds the working values seeded into the active input
// controls for an exercise. Progressive-overload continuity: the next
// set's defaults mirror the previous set's actuals, falling back to the
// plan's rep minimum and an empty bar only when nothing has been logged.
type SetDefaults struct {
	Reps        int
	WeightKg    float64
	RestSeconds int
}

// DefaultsFor computes the working defaults for an exercise given its
// current progress.
func DefaultsFor(ex *DayExercise, p *ExerciseProgress) SetDefaults {
	d := SetDefaults{Reps: DefaultReps, RestSeconds: DefaultRestSeconds}
	if ex != nil {
		if ex.RepsMin != nil && *ex.RepsMin > 0 {
			d.Reps = *ex.RepsMin
		}
		if ex.RestSeconds > 0 {
			d.RestSeconds = ex.RestSeconds
		}
	}
	if p != nil {
		if last := p.LastSet(); last != nil {
			if last.RepsCompleted > 0 {
				d.Reps = last.RepsCompleted
			}
			if last.WeightKg != nil {
				d.WeightKg = *last.WeightKg
			}
		}
	}
	return d
}

// SetMarkKind discriminates the ephemeral per-exercise set marker.
type SetMarkKind int

const (
	// SetMarkNone means no set has been started on the exercise.
	SetMarkNone SetMarkKind = iota
	// SetMarkPending means the user started a set and is adjusting
	// reps/weight before committing. Purely client-side; carries no
	// authority and is discarded on restart.
	SetMarkPending
)

// SetMark is the tagged per-exercise marker driving the two-tap
// start-set / finish-set interaction.
type SetMark struct {
	Kind        SetMarkKind
	SetNumber   int
	DraftReps   int
	DraftWeight float64
}
