package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status [workout-log-id]",
	Short: "Show your program position or the state of a workout",
	Long: `Without arguments, shows where you are in your training program.
With a workout log ID, shows the full per-exercise progress of that
workout as the server reports it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	if len(args) > 0 {
		return showWorkoutStatus(ctx, args[0])
	}

	next, err := apiClient.NextWorkout(ctx)
	if err != nil {
		return fmt.Errorf("failed to get next workout: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(next, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if next.AllCompleted {
		fmt.Println("All workouts in your program are completed.")
		return nil
	}
	if next.TrainingDay == nil {
		fmt.Println("No workout is scheduled.")
		return nil
	}

	fmt.Printf("Next workout: %s\n", next.TrainingDay.Name)
	if next.TrainingDay.Focus != "" {
		fmt.Printf("Focus:        %s\n", next.TrainingDay.Focus)
	}
	if next.Position != nil && next.Total != nil {
		fmt.Printf("Position:     day %d of %d\n", *next.Position, *next.Total)
	}
	if next.TrainingDay.RestDay {
		fmt.Println("Rest day - no training planned.")
	} else {
		fmt.Println("\nRun \"fitpilot start\" to begin.")
	}

	return nil
}

func showWorkoutStatus(ctx context.Context, workoutLogID string) error {
	state, err := apiClient.WorkoutState(ctx, workoutLogID)
	if err != nil {
		return fmt.Errorf("failed to load workout: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s  [%s]\n", state.TrainingDayName, state.WorkoutLog.Status)
	if state.TrainingDayFocus != "" {
		fmt.Printf("Focus: %s\n", state.TrainingDayFocus)
	}
	fmt.Printf("Exercises: %d/%d done\n\n", state.CompletedExercises, state.TotalExercises)

	for i := range state.Progress {
		p := &state.Progress[i]
		mark := " "
		if p.IsCompleted {
			mark = "✓"
		}
		fmt.Printf("  %s %-30s %d/%d sets", mark, p.ExerciseName, p.CompletedSets, p.TotalSets)
		if last := p.LastSet(); last != nil {
			fmt.Printf("  (last: %d reps", last.RepsCompleted)
			if last.WeightKg != nil {
				fmt.Printf(" @ %.1f kg", *last.WeightKg)
			}
			fmt.Printf(")")
		}
		fmt.Println()
	}

	if state.WorkoutLog.Status == domain.WorkoutInProgress {
		fmt.Printf("\nResume with: fitpilot resume %s\n", workoutLogID)
	}

	return nil
}
