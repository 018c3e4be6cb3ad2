// Package config provides configuration management for the FitPilot client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the FitPilot client.
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Session       SessionConfig      `mapstructure:"session"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
}

// ServerConfig holds the trainer platform API settings.
type ServerConfig struct {
	BaseURL string   `mapstructure:"base_url"`
	Token   string   `mapstructure:"token"`
	Timeout Duration `mapstructure:"timeout"`
}

// SessionConfig holds workout session input settings.
type SessionConfig struct {
	WeightStepKg   float64 `mapstructure:"weight_step_kg"`
	MissedDaysBack int     `mapstructure:"missed_days_back"`
	HistoryLimit   int     `mapstructure:"history_limit"`
}

// NotificationConfig holds desktop notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds local storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: Duration(30 * time.Second),
		},
		Session: SessionConfig{
			WeightStepKg:   2.5,
			MissedDaysBack: 14,
			HistoryLimit:   30,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			DataDir: "~/.fitpilot",
		},
	}
}

// Load loads the configuration from the config file, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	setDefaults()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment override for the token so it can stay out of the file.
	if token := os.Getenv("FITPILOT_TOKEN"); token != "" {
		cfg.Server.Token = token
	}

	if cfg.Storage.DataDir == "~/.fitpilot" || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".fitpilot")
	}

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	viper.Set("server.base_url", cfg.Server.BaseURL)
	viper.Set("server.token", cfg.Server.Token)
	viper.Set("server.timeout", cfg.Server.Timeout.String())
	viper.Set("session.weight_step_kg", cfg.Session.WeightStepKg)
	viper.Set("session.missed_days_back", cfg.Session.MissedDaysBack)
	viper.Set("session.history_limit", cfg.Session.HistoryLimit)
	viper.Set("notifications.enabled", cfg.Notifications.Enabled)
	viper.Set("notifications.sound", cfg.Notifications.Sound)
	viper.Set("storage.data_dir", cfg.Storage.DataDir)

	return viper.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fitpilot", "config.toml"), nil
}

// GetDBPath returns the path to the local history database.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "fitpilot.db")
}

// setDefaults sets default values for viper.
func setDefaults() {
	viper.SetDefault("server.base_url", "http://localhost:8000/api")
	viper.SetDefault("server.token", "")
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("session.weight_step_kg", 2.5)
	viper.SetDefault("session.missed_days_back", 14)
	viper.SetDefault("session.history_limit", 30)
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.sound", true)
	viper.SetDefault("storage.data_dir", "~/.fitpilot")
}
