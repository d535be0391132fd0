package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage dupescan configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/dupescan/config.yaml (if set)
  2. ~/.config/dupescan/config.yaml

Environment variables can override config file settings using the DUPESCAN_ prefix:
  DUPESCAN_MIN_SIZE=10M
  DUPESCAN_WORKERS=8
  DUPESCAN_EXCLUDE=/tmp,/var/cache`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = &config.Config{
			MinSize:     config.DefaultMinSize,
			DefaultPath: config.DefaultPath,
			Exclude:     config.DefaultExclusions,
			Trash:       true,
		}
		cfg.History.Enabled = true
		cfg.History.Limit = config.DefaultHistoryLimit
		cfg.Logging.Level = "info"
	}

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	// Display configuration
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("min_size:          %s\n", cfg.MinSize)
	fmt.Printf("default_path:      %s\n", cfg.DefaultPath)
	fmt.Printf("exclude:           %v\n", cfg.Exclude)
	fmt.Printf("follow_symlinks:   %t\n", cfg.FollowSymlinks)
	fmt.Printf("workers:           %d\n", cfg.Workers)
	fmt.Printf("trash:             %t\n", cfg.Trash)
	fmt.Printf("history.enabled:   %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:      %s\n", cfg.History.Path)
	fmt.Printf("history.limit:     %d\n", cfg.History.Limit)
	fmt.Printf("logging.level:     %s\n", cfg.Logging.Level)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"DUPESCAN_MIN_SIZE",
		"DUPESCAN_DEFAULT_PATH",
		"DUPESCAN_EXCLUDE",
		"DUPESCAN_FOLLOW_SYMLINKS",
		"DUPESCAN_WORKERS",
		"DUPESCAN_TRASH",
		"DUPESCAN_HISTORY_ENABLED",
		"DUPESCAN_HISTORY_PATH",
		"DUPESCAN_HISTORY_LIMIT",
		"DUPESCAN_LOGGING_LEVEL",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		return nil
	}

	// Create default config
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	// Show if file exists
	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
