package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dupescan [paths...]",
		Short: "Find duplicate files and reclaim disk space",
		Long: `Dupescan scans directories for files with identical content and reports
duplicate groups sorted by reclaimable space. Files are compared by size
first, then by SHA-256 digest, so unique files are never read in full.

Examples:
  dupescan                        # Scan current directory
  dupescan ~/Downloads ~/Desktop  # Scan multiple roots
  dupescan -s 10M .               # Ignore files smaller than 10MB
  dupescan -o json .              # JSON output
  dupescan --delete .             # Remove duplicates (keeps one per group)
  dupescan history                # View past scans
  dupescan config show            # Show configuration`,
		Args: cobra.ArbitraryArgs,
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dupescan/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Scan flags
	rootCmd.Flags().StringP("min-size", "s", "", "minimum file size to consider (e.g., 1KiB, 10M)")
	rootCmd.Flags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.Flags().BoolP("follow-symlinks", "L", false, "follow symbolic links")
	rootCmd.Flags().IntP("workers", "w", 0, "hash worker count (0=auto)")
	rootCmd.Flags().StringP("output", "o", "pretty", "output format (pretty, plain, json, jsonl, yaml)")
	rootCmd.Flags().Bool("keep-newest", false, "keep the newest copy in each group instead of the oldest")
	rootCmd.Flags().Bool("delete", false, "delete duplicates, keeping one file per group")
	rootCmd.Flags().Bool("dry-run", false, "with --delete, show what would be removed without touching anything")
	rootCmd.Flags().BoolP("yes", "y", false, "skip the deletion confirmation prompt")
	rootCmd.Flags().Bool("no-trash", false, "delete permanently instead of moving to trash")
	rootCmd.Flags().Bool("progress", false, "report scan progress on stderr")
	rootCmd.Flags().Bool("no-history", false, "do not record this scan in history")

	// Bind flags to viper
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("min_size", rootCmd.Flags().Lookup("min-size"))
	_ = viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("follow_symlinks", rootCmd.Flags().Lookup("follow-symlinks"))
	_ = viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("keep_newest", rootCmd.Flags().Lookup("keep-newest"))
	_ = viper.BindPFlag("delete", rootCmd.Flags().Lookup("delete"))
	_ = viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("yes", rootCmd.Flags().Lookup("yes"))
	_ = viper.BindPFlag("no_trash", rootCmd.Flags().Lookup("no-trash"))
	_ = viper.BindPFlag("progress", rootCmd.Flags().Lookup("progress"))
	_ = viper.BindPFlag("no_history", rootCmd.Flags().Lookup("no-history"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "dupescan"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "dupescan"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("DUPESCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()

	initLogging()
}

// initLogging configures the logging system from the loaded configuration.
// Verbose mode lowers the default level to debug.
func initLogging() {
	cfg := logging.Config{
		Level:      viper.GetString("logging.level"),
		Path:       viper.GetString("logging.path"),
		Console:    viper.GetBool("logging.console"),
		Components: viper.GetStringMapString("logging.components"),
	}
	if getVerbose() {
		cfg.Level = "debug"
	}
	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logging.Close() }()
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
