package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Console    bool              `mapstructure:"console"`
	Components map[string]string `mapstructure:"components"`
}

// HistoryConfig configures the scan history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

// Config represents the application configuration.
type Config struct {
	MinSize        string        `mapstructure:"min_size"`
	DefaultPath    string        `mapstructure:"default_path"`
	Exclude        []string      `mapstructure:"exclude"`
	FollowSymlinks bool          `mapstructure:"follow_symlinks"`
	Workers        int           `mapstructure:"workers"`
	Trash          bool          `mapstructure:"trash"`
	History        HistoryConfig `mapstructure:"history"`
	Logging        LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/dupescan/config.yaml
//   - $HOME/.config/dupescan/config.yaml
//
// Environment variables are prefixed with DUPESCAN_
// (e.g., DUPESCAN_MIN_SIZE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "dupescan"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "dupescan"))

	v.SetEnvPrefix("DUPESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath()
	}
	cfg.History.Path, err = ExpandPath(cfg.History.Path)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetDefaults registers all configuration defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("min_size", DefaultMinSize)
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("workers", 0)
	v.SetDefault("trash", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.limit", DefaultHistoryLimit)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.components", map[string]string{
		"engine": "info",
		"trash":  "info",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "dupescan"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "dupescan"), nil
}

// DataDir returns $XDG_DATA_HOME/dupescan/ for the history store.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "dupescan")
}

// StateDir returns $XDG_STATE_HOME/dupescan/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "dupescan")
}

// DefaultHistoryPath returns the default history store path.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Dupescan Configuration

# Minimum file size to consider for duplicate detection
min_size: %s

# Default path to scan when none is specified
default_path: %s

# Paths or glob patterns to exclude from scanning
exclude:
  - /proc
  - /sys
  - /dev

# Follow symbolic links (off by default to avoid cycles)
follow_symlinks: false

# Hash worker count (0 = auto-tuned from system resources)
workers: 0

# Move deleted duplicates to the system trash instead of removing them
trash: true

# Scan history settings
history:
  enabled: true
  # Store path (empty means use default: $XDG_DATA_HOME/dupescan/history)
  path: ""
  # Number of scan summaries to retain
  limit: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/dupescan/dupescan.log)
  path: ""
  # Mirror log output to stderr
  console: false
  # Per-component log levels
  components:
    engine: info
    trash: info
`, DefaultMinSize, DefaultPath, DefaultHistoryLimit)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
