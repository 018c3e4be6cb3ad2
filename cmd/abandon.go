package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
	"github.com/fitpilot/fitpilot-cli/internal/services"
)

var (
	abandonReason string
	abandonNotes  string
)

var abandonCmd = &cobra.Command{
	Use:   "abandon <workout-log-id>",
	Short: "Abandon an in-progress workout",
	Long: `Abandon an in-progress workout with a reason. Terminal: the
workout keeps its logged sets but accepts no more.

Valid reasons: time, injury, fatigue, motivation, schedule, other.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbandon,
}

func init() {
	abandonCmd.Flags().StringVarP(&abandonReason, "reason", "r", "", "Why the workout is being abandoned (required)")
	abandonCmd.Flags().StringVar(&abandonNotes, "notes", "", "Optional free-form notes")
	abandonCmd.MarkFlagRequired("reason")
}

func runAbandon(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()
	workoutLogID := args[0]

	reason, err := domain.ParseAbandonReason(strings.ToLower(abandonReason))
	if err != nil {
		valid := make([]string, 0, len(domain.AbandonReasons()))
		for _, r := range domain.AbandonReasons() {
			valid = append(valid, string(r))
		}
		return fmt.Errorf("invalid reason %q, expected one of: %s", abandonReason, strings.Join(valid, ", "))
	}

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

	if err := session.AbandonWorkout(ctx, reason, abandonNotes); err != nil {
		return err
	}

	fmt.Printf("Workout abandoned (%s): %s\n", reason.Label(), state.TrainingDayName)
	return nil
}
