package ports

// Notifier delivers desktop notifications for session milestones.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// RestOver fires when a rest interval reaches zero.
	RestOver(exerciseName string, nextSet int) error

	// WorkoutComplete fires after the terminal complete transition.
	WorkoutComplete(trainingDayName string, setsLogged int) error
}
