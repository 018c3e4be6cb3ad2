package domain

import "errors"

// Common domain errors. API adapter failures are mapped onto these
// sentinels so callers can branch with errors.Is without knowing the
// transport.
var (
	// ErrWorkoutConflict: an in-progress workout log already exists for
	// the training day. Surfaced to the user, never retried.
	ErrWorkoutConflict = errors.New("an in-progress workout already exists for this training day")

	// ErrWorkoutFinished: a write was attempted against a completed or
	// abandoned workout log.
	ErrWorkoutFinished = errors.New("workout is already completed or abandoned")

	// ErrSetOutOfOrder: the logged set number is not the next expected
	// position for the exercise. Terminal to the operation, not retryable.
	ErrSetOutOfOrder = errors.New("set number does not match the next expected set")

	// ErrNotFound: the workout log or training day does not exist or
	// does not belong to the caller.
	ErrNotFound = errors.New("not found")

	// ErrNetwork wraps transport-level failures reaching the server.
	ErrNetwork = errors.New("network error")

	// ErrOperationInFlight: a session operation was attempted while
	// another one had not yet resolved.
	ErrOperationInFlight = errors.New("another operation is still in flight")

	// ErrNoActiveSession: a session operation requires loaded state.
	ErrNoActiveSession = errors.New("no active workout session")

	ErrInvalidAbandonReason = errors.New("invalid abandon reason")
)
