package cmd

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/adapters/tui"
)

var (
	missedDaysBack int
	missedPick     bool
)

var missedCmd = &cobra.Command{
	Use:   "missed",
	Short: "List scheduled workouts you did not execute",
	Long: `List the training days that were scheduled but never executed
within the lookback window. Use --pick to choose one interactively and
start it right away.`,
	RunE: runMissed,
}

func init() {
	missedCmd.Flags().IntVar(&missedDaysBack, "days-back", 0, "How many days to look back (default from config)")
	missedCmd.Flags().BoolVarP(&missedPick, "pick", "p", false, "Pick a missed workout and start it")
}

func runMissed(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	daysBack := missedDaysBack
	if daysBack <= 0 {
		daysBack = appConfig.Session.MissedDaysBack
	}

	missed, err := apiClient.MissedWorkouts(ctx, daysBack)
	if err != nil {
		return fmt.Errorf("failed to list missed workouts: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(missed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal missed workouts: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(missed) == 0 {
		fmt.Printf("No missed workouts in the last %d days.\n", daysBack)
		return nil
	}

	if missedPick {
		items := make([]tui.PickerItem, len(missed))
		for i, mw := range missed {
			desc := fmt.Sprintf("%s · week %d · %d exercises", mw.ScheduledDate, mw.MicrocycleWeek, mw.ExercisesCount)
			items[i] = tui.PickerItem{
				ID:    mw.TrainingDayID,
				Title: mw.TrainingDayName,
				Desc:  desc,
			}
		}

		picker := tui.NewPicker("Missed workouts:", items)
		final, err := tea.NewProgram(picker).Run()
		if err != nil {
			return fmt.Errorf("picker error: %w", err)
		}
		p, ok := final.(tui.PickerModel)
		if !ok || p.Chosen == "" {
			return nil
		}

		return runStart(cmd, []string{p.Chosen})
	}

	fmt.Printf("Missed workouts (last %d days):\n\n", daysBack)
	for _, mw := range missed {
		fmt.Printf("  %s  %s", mw.ScheduledDate, mw.TrainingDayName)
		if mw.TrainingDayFocus != "" {
			fmt.Printf(" (%s)", mw.TrainingDayFocus)
		}
		fmt.Printf("  [%d exercises]\n", mw.ExercisesCount)
		fmt.Printf("             start with: fitpilot start %s\n", mw.TrainingDayID)
	}

	return nil
}
