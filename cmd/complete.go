package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/services"
)

var completeCmd = &cobra.Command{
	Use:   "complete <workout-log-id>",
	Short: "Mark an in-progress workout as completed",
	Long: `Mark an in-progress workout as completed without opening the
session view. Useful when the session was finished but the app closed
before the final confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()
	workoutLogID := args[0]

	state, err := apiClient.WorkoutState(ctx, workoutLogID)
	if err != nil {
		return fmt.Errorf("failed to load workout: %w", err)
	}

	day, err := apiClient.TrainingDay(ctx, state.WorkoutLog.TrainingDayID)
	if err != nil {
		return fmt.Errorf("failed to load training day: %w", err)
	}

	session := services.NewSessionService(apiClient, day, storageAdapter.History())
	if err := session.LoadWorkoutState(ctx, workoutLogID); err != nil {
		return err
	}

	sets := session.SetsLogged()
	if err := session.CompleteWorkout(ctx); err != nil {
		return err
	}

	fmt.Printf("Workout completed: %s, %d sets logged.\n", state.TrainingDayName, sets)
	return nil
}
