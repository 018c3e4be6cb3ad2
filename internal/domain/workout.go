package domain

import "time"

// WorkoutStatus represents the lifecycle state of a workout log.
// Both completed and abandoned are terminal: once reached, no further
// set-logging is permitted against the log.
type WorkoutStatus string

const (
	WorkoutInProgress WorkoutStatus = "in_progress"
	WorkoutCompleted  WorkoutStatus = "completed"
	WorkoutAbandoned  WorkoutStatus = "abandoned"
)

// IsTerminal returns true for completed and abandoned workouts.
func (s WorkoutStatus) IsTerminal() bool {
	return s == WorkoutCompleted || s == WorkoutAbandoned
}

// AbandonReason is the enumerated reason code collected when a client
// abandons a session mid-workout.
type AbandonReason string

const (
	AbandonTime       AbandonReason = "time"
	AbandonInjury     AbandonReason = "injury"
	AbandonFatigue    AbandonReason = "fatigue"
	AbandonMotivation AbandonReason = "motivation"
	AbandonSchedule   AbandonReason = "schedule"
	AbandonOther      AbandonReason = "other"
)

// AbandonReasons lists all valid reason codes in presentation order.
func AbandonReasons() []AbandonReason {
	return []AbandonReason{
		AbandonTime,
		AbandonInjury,
		AbandonFatigue,
		AbandonMotivation,
		AbandonSchedule,
		AbandonOther,
	}
}

// ParseAbandonReason validates a raw reason code.
func ParseAbandonReason(raw string) (AbandonReason, error) {
	r := AbandonReason(raw)
	for _, valid := range AbandonReasons() {
		if r == valid {
			return r, nil
		}
	}
	return "", ErrInvalidAbandonReason
}

// Label returns a human-readable description of the reason.
func (r AbandonReason) Label() string {
	switch r {
	case AbandonTime:
		return "Ran out of time"
	case AbandonInjury:
		return "Injury or pain"
	case AbandonFatigue:
		return "Too fatigued"
	case AbandonMotivation:
		return "Low motivation"
	case AbandonSchedule:
		return "Schedule conflict"
	case AbandonOther:
		return "Other reason"
	default:
		return string(r)
	}
}

// ExerciseSetLog is one recorded, completed set. Set numbers logged for
// a given (workout log, exercise) pair form a contiguous prefix of
// 1..Sets; the server rejects anything else.
type ExerciseSetLog struct {
	ID            string    `json:"id"`
	WorkoutLogID  string    `json:"workout_log_id"`
	DayExerciseID string    `json:"day_exercise_id"`
	SetNumber     int       `json:"set_number"`
	RepsCompleted int       `json:"reps_completed"`
	WeightKg      *float64  `json:"weight_kg"`
	EffortValue   *float64  `json:"effort_value,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// WorkoutLog is one execution attempt of a training day by a client.
// Created on session start, mutated only by set-logging (server-side
// bookkeeping) and by the terminal complete/abandon transition.
type WorkoutLog struct {
	ID                string         `json:"id"`
	TrainingDayID     string         `json:"training_day_id"`
	StartedAt         time.Time      `json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at"`
	Status            WorkoutStatus  `json:"status"`
	AbandonReason     *AbandonReason `json:"abandon_reason"`
	AbandonNotes      string         `json:"abandon_notes,omitempty"`
	RescheduledToDate *string        `json:"rescheduled_to_date"`
}

// SetLogRequest carries the data needed to log one set.
type SetLogRequest struct {
	DayExerciseID string   `json:"day_exercise_id"`
	SetNumber     int      `json:"set_number"`
	RepsCompleted int      `json:"reps_completed"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
}

// StatusUpdate carries a terminal status transition for a workout log.
type StatusUpdate struct {
	Status        WorkoutStatus  `json:"status"`
	AbandonReason *AbandonReason `json:"abandon_reason,omitempty"`
	AbandonNotes  string         `json:"abandon_notes,omitempty"`
}

// HistoryEntry is the local record of a finished session, cached in
// SQLite so past workouts remain listable offline. It is a summary, not
// session state: live sessions are always recomputed from the server.
type HistoryEntry struct {
	ID              string         `json:"id"`
	WorkoutLogID    string         `json:"workout_log_id"`
	TrainingDayID   string         `json:"training_day_id"`
	TrainingDayName string         `json:"training_day_name"`
	Status          WorkoutStatus  `json:"status"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	AbandonReason   *AbandonReason `json:"abandon_reason,omitempty"`
	SetsLogged      int            `json:"sets_logged"`
}
