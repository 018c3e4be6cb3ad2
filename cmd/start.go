package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/adapters/tui"
	"github.com/fitpilot/fitpilot-cli/internal/services"
)

var startYes bool

var startCmd = &cobra.Command{
	Use:   "start [training-day-id]",
	Short: "Start a workout session",
	Long: `Start a workout session for a training day.

Without arguments, starts the next scheduled day in your program.
Pass a training day ID to start a specific day, for example a missed
one listed by "fitpilot missed".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&startYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	dayID := ""
	if len(args) > 0 {
		dayID = args[0]
	}

	if dayID == "" {
		next, err := apiClient.NextWorkout(ctx)
		if err != nil {
			return fmt.Errorf("failed to get next workout: %w", err)
		}

		if next.AllCompleted {
			fmt.Println("All workouts in your program are completed. Nice work!")
			return nil
		}
		if next.TrainingDay == nil {
			fmt.Println("No workout is scheduled. Check with your trainer.")
			return nil
		}
		if next.TrainingDay.RestDay {
			fmt.Printf("Today is a rest day: %s\n", next.TrainingDay.Name)
			return nil
		}

		fmt.Printf("Next workout: %s", next.TrainingDay.Name)
		if next.TrainingDay.Focus != "" {
			fmt.Printf(" (%s)", next.TrainingDay.Focus)
		}
		if next.Position != nil && next.Total != nil {
			fmt.Printf("  [day %d of %d]", *next.Position, *next.Total)
		}
		fmt.Println()

		if !startYes && !confirm("Start this workout?") {
			return nil
		}

		dayID = next.TrainingDay.ID
	}

	day, err := apiClient.TrainingDay(ctx, dayID)
	if err != nil {
		return fmt.Errorf("failed to load training day: %w", err)
	}
	if day.RestDay {
		return fmt.Errorf("%q is a rest day", day.Name)
	}
	if len(day.Exercises) == 0 {
		return fmt.Errorf("%q has no exercises planned", day.Name)
	}

	session := services.NewSessionService(apiClient, day, storageAdapter.History())
	if _, err := session.StartWorkout(ctx, day.ID); err != nil {
		return err
	}

	return runSessionTUI(ctx, session)
}

// runSessionTUI launches the interactive session view and reports the
// outcome once it exits.
func runSessionTUI(ctx context.Context, session *services.SessionService) error {
	model := tui.New(session, notifier, appConfig.Session.WeightStepKg)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("session view error: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}

	switch m.Outcome {
	case tui.OutcomeCompleted:
		fmt.Printf("Workout completed: %s, %d sets logged.\n", m.DayName, m.SetsLogged)
	case tui.OutcomeAbandoned:
		fmt.Println("Workout abandoned. It stays in your history.")
	case tui.OutcomeSaved:
		if id := session.WorkoutLogID(); id != "" {
			fmt.Printf("Progress saved. Resume with: fitpilot resume %s\n", id)
		}
	}

	return nil
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [Y/n]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}
