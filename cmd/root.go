// Package cmd provides the CLI commands for the FitPilot application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/adapters/api"
	"github.com/fitpilot/fitpilot-cli/internal/adapters/notification"
	"github.com/fitpilot/fitpilot-cli/internal/adapters/storage"
	"github.com/fitpilot/fitpilot-cli/internal/config"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	serverURL  string
	tokenFlag  string
	dbPath     string
	jsonOutput bool

	// Global dependencies
	appConfig      *config.Config
	apiClient      ports.WorkoutAPI
	storageAdapter ports.Storage
	notifier       *notification.Notifier
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fitpilot",
	Short: "FitPilot - Execute your planned workouts from the terminal",
	Long: `FitPilot is a command-line client for the FitPilot training platform.
It fetches your planned training days, runs an interactive session view
for logging sets, and keeps a local history of finished workouts.

Run "fitpilot start" to begin your next scheduled workout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runStatus,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Trainer platform base URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API token (default from config or FITPILOT_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the local history database (default: ~/.fitpilot/fitpilot.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("FitPilot CLI\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(missedCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(abandonCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	appConfig, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		appConfig = config.DefaultConfig()
	}

	if serverURL != "" {
		appConfig.Server.BaseURL = serverURL
	}
	if tokenFlag != "" {
		appConfig.Server.Token = tokenFlag
	}

	// Initialize notifier
	notifier = notification.New(&appConfig.Notifications)

	// Initialize API client
	apiClient = api.New(appConfig.Server.BaseURL, appConfig.Server.Token, time.Duration(appConfig.Server.Timeout))

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(appConfig)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Initialize storage
	storageAdapter, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if storageAdapter != nil {
		return storageAdapter.Close()
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
