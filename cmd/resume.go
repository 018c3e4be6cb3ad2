package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/services"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <workout-log-id>",
	Short: "Resume an in-progress workout",
	Long: `Resume a workout that was left in progress, for example after
closing the session view or losing connectivity mid-session. All
previously logged sets are recovered from the server.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()
	workoutLogID := args[0]

	// The state tells us which day the log belongs to; the full plan is
	// needed to rebuild the session sequence.
	state, err := apiClient.WorkoutState(ctx, workoutLogID)
	if err != nil {
		return fmt.Errorf("failed to load workout: %w", err)
	}
	if state.WorkoutLog.Status.IsTerminal() {
		return fmt.Errorf("workout %s is already %s", workoutLogID, state.WorkoutLog.Status)
	}

	day, err := apiClient.TrainingDay(ctx, state.WorkoutLog.TrainingDayID)
	if err != nil {
		return fmt.Errorf("failed to load training day: %w", err)
	}

	session := services.NewSessionService(apiClient, day, storageAdapter.History())
	if err := session.LoadWorkoutState(ctx, workoutLogID); err != nil {
		return err
	}

	fmt.Printf("Resuming %s...\n", state.TrainingDayName)
	return runSessionTUI(ctx, session)
}
