package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished workouts",
	Long: `Show recently finished workouts from the local cache. Works
offline; the cache is written whenever a workout is completed or
abandoned on this machine.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum entries to show (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	limit := historyLimit
	if limit <= 0 {
		limit = appConfig.Session.HistoryLimit
	}

	entries, err := storageAdapter.History().List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No finished workouts yet.")
		return nil
	}

	for _, entry := range entries {
		mark := "✓"
		if entry.Status == domain.WorkoutAbandoned {
			mark = "✗"
		}
		fmt.Printf("  %s %s  %-25s %d sets", mark, entry.FinishedAt.Format("2006-01-02"), entry.TrainingDayName, entry.SetsLogged)
		if entry.AbandonReason != nil {
			fmt.Printf("  (abandoned: %s)", entry.AbandonReason.Label())
		}
		fmt.Println()
	}

	return nil
}
