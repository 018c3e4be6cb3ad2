package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Keys: server.base_url, server.token, server.timeout,
session.weight_step_kg, session.missed_days_back, session.history_limit,
notifications.enabled, notifications.sound`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if jsonOutput {
		data, err := json.MarshalIndent(appConfig, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	path, _ := config.GetConfigPath()
	fmt.Printf("Config file: %s\n\n", path)
	fmt.Printf("server.base_url          = %s\n", appConfig.Server.BaseURL)
	token := appConfig.Server.Token
	if token != "" {
		token = "(set)"
	} else {
		token = "(not set)"
	}
	fmt.Printf("server.token             = %s\n", token)
	fmt.Printf("server.timeout           = %s\n", appConfig.Server.Timeout)
	fmt.Printf("session.weight_step_kg   = %g\n", appConfig.Session.WeightStepKg)
	fmt.Printf("session.missed_days_back = %d\n", appConfig.Session.MissedDaysBack)
	fmt.Printf("session.history_limit    = %d\n", appConfig.Session.HistoryLimit)
	fmt.Printf("notifications.enabled    = %t\n", appConfig.Notifications.Enabled)
	fmt.Printf("notifications.sound      = %t\n", appConfig.Notifications.Sound)
	fmt.Printf("storage.data_dir         = %s\n", appConfig.Storage.DataDir)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	switch key {
	case "server.base_url":
		appConfig.Server.BaseURL = value
	case "server.token":
		appConfig.Server.Token = value
	case "server.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		appConfig.Server.Timeout = config.Duration(d)
	case "session.weight_step_kg":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid weight step %q", value)
		}
		appConfig.Session.WeightStepKg = f
	case "session.missed_days_back":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid days back %q", value)
		}
		appConfig.Session.MissedDaysBack = n
	case "session.history_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit %q", value)
		}
		appConfig.Session.HistoryLimit = n
	case "notifications.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool %q", value)
		}
		appConfig.Notifications.Enabled = b
	case "notifications.sound":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool %q", value)
		}
		appConfig.Notifications.Sound = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := config.Save(appConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s = %s\n", key, value)
	return nil
}
