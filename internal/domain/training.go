// Package domain contains the core business entities for FitPilot.
// These entities represent the fundamental concepts of workout session
// execution and are independent of any external frameworks or
// infrastructure. All server-owned data here is read-only to the client:
// the session only records progress against an already-planned day.
package domain

import (
	"fmt"
	"time"
)

// Phase groups exercises within a training day and dictates their
// execution order: warmup before main work before cooldown.
type Phase string

const (
	PhaseWarmup   Phase = "warmup"
	PhaseMain     Phase = "main"
	PhaseCooldown Phase = "cooldown"
)

// Order returns the sort rank of the phase. Unknown phases sort last.
func (p Phase) Order() int {
	switch p {
	case PhaseWarmup:
		return 0
	case PhaseMain:
		return 1
	case PhaseCooldown:
		return 2
	default:
		return 3
	}
}

// Label returns a human-readable name for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseWarmup:
		return "Warm-up"
	case PhaseMain:
		return "Main Work"
	case PhaseCooldown:
		return "Cooldown"
	default:
		return string(p)
	}
}

// EffortType describes how the target effort of an exercise is expressed.
type EffortType string

const (
	EffortRIR        EffortType = "RIR"
	EffortRPE        EffortType = "RPE"
	EffortPercentage EffortType = "percentage"
)

// DayExercise is one planned exercise slot within a training day.
// Owned by the server; the session never mutates it.
type DayExercise struct {
	ID            string     `json:"id"`
	TrainingDayID string     `json:"training_day_id"`
	ExerciseID    string     `json:"exercise_id"`
	ExerciseName  string     `json:"exercise_name"`
	OrderIndex    int        `json:"order_index"`
	Phase         Phase      `json:"phase"`
	Sets          int        `json:"sets"`
	RepsMin       *int       `json:"reps_min"`
	RepsMax       *int       `json:"reps_max"`
	RestSeconds   int        `json:"rest_seconds"`
	EffortType    EffortType `json:"effort_type"`
	EffortValue   float64    `json:"effort_value"`
	Tempo         string     `json:"tempo,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// RestDuration returns the planned rest interval between sets.
func (e *DayExercise) RestDuration() time.Duration {
	if e.RestSeconds <= 0 {
		return DefaultRestSeconds * time.Second
	}
	return time.Duration(e.RestSeconds) * time.Second
}

// RepRange formats the planned rep range, e.g. "8-12". Cardio slots
// without a rep target render as a dash.
func (e *DayExercise) RepRange() string {
	switch {
	case e.RepsMin == nil && e.RepsMax == nil:
		return "-"
	case e.RepsMax == nil || (e.RepsMin != nil && *e.RepsMin == *e.RepsMax):
		return fmt.Sprintf("%d", *e.RepsMin)
	case e.RepsMin == nil:
		return fmt.Sprintf("%d", *e.RepsMax)
	default:
		return fmt.Sprintf("%d-%d", *e.RepsMin, *e.RepsMax)
	}
}

// EffortLabel formats the target effort, e.g. "RIR 2" or "75%".
func (e *DayExercise) EffortLabel() string {
	if e.EffortType == EffortPercentage {
		return fmt.Sprintf("%.0f%%", e.EffortValue)
	}
	return fmt.Sprintf("%s %.0f", e.EffortType, e.EffortValue)
}

// TrainingDay is a planned, ordered set of exercises for one session.
// Fetched once per session by the command layer, read-only thereafter.
type TrainingDay struct {
	ID        string        `json:"id"`
	DayNumber int           `json:"day_number"`
	Name      string        `json:"name"`
	Focus     string        `json:"focus,omitempty"`
	RestDay   bool          `json:"rest_day"`
	Exercises []DayExercise `json:"exercises"`
}

// ExerciseByID returns the planned exercise slot with the given id,
// or nil if the day does not contain it.
func (d *TrainingDay) ExerciseByID(id string) *DayExercise {
	for i := range d.Exercises {
		if d.Exercises[i].ID == id {
			return &d.Exercises[i]
		}
	}
	return nil
}

// NextWorkoutDay is the abbreviated training day returned by the
// sequential next-workout endpoint.
type NextWorkoutDay struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Focus     string `json:"focus,omitempty"`
	DayNumber int    `json:"day_number"`
	RestDay   bool   `json:"rest_day"`
}

// NextWorkout describes the client's position in the sequential program.
type NextWorkout struct {
	TrainingDay  *NextWorkoutDay `json:"training_day"`
	Position     *int            `json:"position"`
	Total        *int            `json:"total"`
	AllCompleted bool            `json:"all_completed"`
}

// MissedWorkout is a scheduled training day the client did not execute.
type MissedWorkout struct {
	TrainingDayID    string `json:"training_day_id"`
	TrainingDayName  string `json:"training_day_name"`
	TrainingDayFocus string `json:"training_day_focus,omitempty"`
	ScheduledDate    string `json:"scheduled_date"`
	DayNumber        int    `json:"day_number"`
	MicrocycleWeek   int    `json:"microcycle_week"`
	ExercisesCount   int    `json:"exercises_count"`
}
