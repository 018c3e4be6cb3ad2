package domain

import (
	"reflect"
	"testing"
)

func intPtr(n int) *int          { return &n }
func floatPtr(f float64) *float64 { return &f }

func testDay() *TrainingDay {
	return &TrainingDay{
		ID:   "day-1",
		Name: "Push Day",
		Exercises: []DayExercise{
			{ID: "ex-bench", ExerciseName: "Bench Press", OrderIndex: 1, Phase: PhaseMain, Sets: 3, RepsMin: intPtr(8), RepsMax: intPtr(12), RestSeconds: 120},
			{ID: "ex-jacks", ExerciseName: "Jumping Jacks", OrderIndex: 1, Phase: PhaseWarmup, Sets: 2, RestSeconds: 30},
			{ID: "ex-fly", ExerciseName: "Cable Fly", OrderIndex: 2, Phase: PhaseMain, Sets: 3, RepsMin: intPtr(12), RepsMax: intPtr(15), RestSeconds: 60},
			{ID: "ex-stretch", ExerciseName: "Chest Stretch", OrderIndex: 1, Phase: PhaseCooldown, Sets: 1},
		},
	}
}

func progressMap(day *TrainingDay, completed map[string]int) map[string]*ExerciseProgress {
	byID := make(map[string]*ExerciseProgress)
	for i := range day.Exercises {
		ex := &day.Exercises[i]
		done := completed[ex.ID]
		p := &ExerciseProgress{
			DayExerciseID: ex.ID,
			ExerciseName:  ex.ExerciseName,
			TotalSets:     ex.Sets,
			CompletedSets: done,
			IsCompleted:   done >= ex.Sets,
		}
		for n := 1; n <= done; n++ {
			p.SetsData = append(p.SetsData, ExerciseSetLog{
				DayExerciseID: ex.ID,
				SetNumber:     n,
				RepsCompleted: 10,
			})
		}
		byID[ex.ID] = p
	}
	return byID
}

func TestOrderedExercises_SortsByPhaseThenIndex(t *testing.T) {
	day := testDay()
	ordered := OrderedExercises(day, progressMap(day, nil))

	if len(ordered) != 4 {
		t.Fatalf("len(ordered) = %d, want 4", len(ordered))
	}

	want := []string{"ex-jacks", "ex-bench", "ex-fly", "ex-stretch"}
	for i, id := range want {
		if ordered[i].Exercise.ID != id {
			t.Errorf("ordered[%d] = %s, want %s", i, ordered[i].Exercise.ID, id)
		}
	}
}

func TestOrderedExercises_DoesNotMutateDay(t *testing.T) {
	day := testDay()
	before := make([]DayExercise, len(day.Exercises))
	copy(before, day.Exercises)

	OrderedExercises(day, progressMap(day, nil))

	if !reflect.DeepEqual(before, day.Exercises) {
		t.Error("OrderedExercises mutated the training day's exercise slice")
	}
}

func TestOrderedExercises_StableAcrossCalls(t *testing.T) {
	day := testDay()
	byID := progressMap(day, nil)

	first := OrderedExercises(day, byID)
	second := OrderedExercises(day, byID)

	for i := range first {
		if first[i].Exercise.ID != second[i].Exercise.ID {
			t.Errorf("ordering not stable at %d: %s vs %s", i, first[i].Exercise.ID, second[i].Exercise.ID)
		}
	}
}

func TestOrderedExercises_SkipsExercisesWithoutProgress(t *testing.T) {
	day := testDay()
	byID := progressMap(day, nil)
	delete(byID, "ex-fly")

	ordered := OrderedExercises(day, byID)

	if len(ordered) != 3 {
		t.Fatalf("len(ordered) = %d, want 3", len(ordered))
	}
	for _, oe := range ordered {
		if oe.Exercise.ID == "ex-fly" {
			t.Error("exercise without progress should be skipped")
		}
	}
}

func TestOrderedExercises_PhasePositions(t *testing.T) {
	day := testDay()
	ordered := OrderedExercises(day, progressMap(day, nil))

	// Main phase has two exercises: bench 1/2, fly 2/2.
	if ordered[1].IndexInPhase != 1 || ordered[1].TotalInPhase != 2 {
		t.Errorf("bench position = %d/%d, want 1/2", ordered[1].IndexInPhase, ordered[1].TotalInPhase)
	}
	if ordered[2].IndexInPhase != 2 || ordered[2].TotalInPhase != 2 {
		t.Errorf("fly position = %d/%d, want 2/2", ordered[2].IndexInPhase, ordered[2].TotalInPhase)
	}
}

func TestNextIncompleteIndex(t *testing.T) {
	day := testDay()

	tests := []struct {
		name      string
		completed map[string]int
		want      int
	}{
		{"nothing done", nil, 0},
		{"warmup done", map[string]int{"ex-jacks": 2}, 1},
		{"mid main work", map[string]int{"ex-jacks": 2, "ex-bench": 3, "ex-fly": 2}, 2},
		{"all done", map[string]int{"ex-jacks": 2, "ex-bench": 3, "ex-fly": 3, "ex-stretch": 1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered := OrderedExercises(day, progressMap(day, tt.completed))
			if got := NextIncompleteIndex(ordered); got != tt.want {
				t.Errorf("NextIncompleteIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextSetNumber_PartialExercise(t *testing.T) {
	day := testDay()
	byID := progressMap(day, map[string]int{"ex-jacks": 2, "ex-bench": 3, "ex-fly": 2})
	ordered := OrderedExercises(day, byID)

	idx := NextIncompleteIndex(ordered)
	if idx != 2 {
		t.Fatalf("NextIncompleteIndex() = %d, want 2", idx)
	}
	if got := ordered[idx].Progress.NextSetNumber(); got != 3 {
		t.Errorf("NextSetNumber() = %d, want 3", got)
	}
}

func TestIsPhaseCompleted(t *testing.T) {
	day := testDay()
	ordered := OrderedExercises(day, progressMap(day, map[string]int{"ex-jacks": 2, "ex-bench": 3}))

	if !IsPhaseCompleted(ordered, PhaseWarmup) {
		t.Error("warmup should be completed")
	}
	if IsPhaseCompleted(ordered, PhaseMain) {
		t.Error("main should not be completed while fly has no sets")
	}
	// A phase not present at all counts as complete.
	if !IsPhaseCompleted(ordered, Phase("mobility")) {
		t.Error("absent phase should count as completed")
	}
}

func TestPhases_DistinctInOrder(t *testing.T) {
	day := testDay()
	ordered := OrderedExercises(day, progressMap(day, nil))

	want := []Phase{PhaseWarmup, PhaseMain, PhaseCooldown}
	got := Phases(ordered)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phases() = %v, want %v", got, want)
	}
}

func TestDefaultsFor_FallbackChain(t *testing.T) {
	ex := &DayExercise{ID: "ex-1", Sets: 3, RepsMin: intPtr(8), RestSeconds: 120}

	// No progress at all: plan minimum, empty bar.
	d := DefaultsFor(ex, &ExerciseProgress{})
	if d.Reps != 8 {
		t.Errorf("Reps = %d, want plan minimum 8", d.Reps)
	}
	if d.WeightKg != 0 {
		t.Errorf("WeightKg = %v, want 0", d.WeightKg)
	}
	if d.RestSeconds != 120 {
		t.Errorf("RestSeconds = %d, want 120", d.RestSeconds)
	}

	// A logged set overrides the plan.
	p := &ExerciseProgress{
		CompletedSets: 1,
		SetsData: []ExerciseSetLog{
			{SetNumber: 1, RepsCompleted: 10, WeightKg: floatPtr(62.5)},
		},
	}
	d = DefaultsFor(ex, p)
	if d.Reps != 10 {
		t.Errorf("Reps = %d, want last set's 10", d.Reps)
	}
	if d.WeightKg != 62.5 {
		t.Errorf("WeightKg = %v, want last set's 62.5", d.WeightKg)
	}

	// No plan minimum and nothing logged: global default.
	bare := &DayExercise{ID: "ex-2", Sets: 2}
	d = DefaultsFor(bare, &ExerciseProgress{})
	if d.Reps != DefaultReps {
		t.Errorf("Reps = %d, want %d", d.Reps, DefaultReps)
	}
	if d.RestSeconds != DefaultRestSeconds {
		t.Errorf("RestSeconds = %d, want %d", d.RestSeconds, DefaultRestSeconds)
	}
}

func TestProgressByExercise(t *testing.T) {
	state := &WorkoutState{
		Progress: []ExerciseProgress{
			{DayExerciseID: "a", CompletedSets: 1},
			{DayExerciseID: "b", CompletedSets: 2},
		},
	}

	byID := state.ProgressByExercise()
	if len(byID) != 2 {
		t.Fatalf("len(byID) = %d, want 2", len(byID))
	}
	if byID["b"].CompletedSets != 2 {
		t.Errorf("byID[b].CompletedSets = %d, want 2", byID["b"].CompletedSets)
	}

	// The map aliases the state's slice so aggregates stay in sync.
	state.Progress[0].CompletedSets = 5
	if byID["a"].CompletedSets != 5 {
		t.Error("ProgressByExercise should index the slice, not copy it")
	}
}
