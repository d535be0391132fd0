// Package logging provides structured component loggers for dupescan.
//
// Basic usage:
//
//	cfg := logging.Config{Level: "info", Path: logging.DefaultLogPath()}
//	if err := logging.Init(cfg); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logger := logging.Get("engine")
//	logger.Info("scan started", "roots", roots)
//
// Get works before Init is called: loggers write to stderr at warn level
// until the application configures the system.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level string into a charmbracelet/log level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	// "-" writes to stderr instead of a file.
	Path string

	// Components maps component names to per-component level overrides.
	Components map[string]string

	// Console mirrors log output to stderr in addition to the file.
	// Has no effect when Path is "-".
	Console bool
}

// state holds the initialized logging system.
type state struct {
	mu         sync.Mutex
	file       *os.File
	writer     io.Writer
	level      log.Level
	components map[string]log.Level
	loggers    map[string]*log.Logger
}

var global = &state{
	writer:     os.Stderr,
	level:      log.WarnLevel,
	components: map[string]log.Level{},
	loggers:    map[string]*log.Logger{},
}

// DefaultLogPath returns $XDG_STATE_HOME/dupescan/dupescan.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "dupescan", "dupescan.log")
}

// Init configures the logging system. It creates the log file's parent
// directory if needed and resets any loggers handed out before Init.
func Init(cfg Config) error {
	level, err := ParseLevel(defaultString(cfg.Level, "info"))
	if err != nil {
		return err
	}

	components := make(map[string]log.Level, len(cfg.Components))
	for name, s := range cfg.Components {
		l, err := ParseLevel(s)
		if err != nil {
			return fmt.Errorf("component %q: %w", name, err)
		}
		components[name] = l
	}

	var writer io.Writer = os.Stderr
	var file *os.File
	path := defaultString(cfg.Path, DefaultLogPath())
	if path != "-" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		writer = file
		if cfg.Console {
			writer = io.MultiWriter(file, os.Stderr)
		}
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.file != nil {
		global.file.Close()
	}
	global.file = file
	global.writer = writer
	global.level = level
	global.components = components

	// Reconfigure loggers already handed out so early Get calls pick up
	// the real destination.
	for name, logger := range global.loggers {
		logger.SetOutput(writer)
		logger.SetLevel(global.levelFor(name))
	}
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.file == nil {
		return nil
	}
	err := global.file.Close()
	global.file = nil
	global.writer = os.Stderr
	return err
}

// Get returns the logger for a component, creating it on first use.
// The same *log.Logger is returned for repeated calls with one name.
func Get(component string) *log.Logger {
	global.mu.Lock()
	defer global.mu.Unlock()

	if logger, ok := global.loggers[component]; ok {
		return logger
	}

	logger := log.NewWithOptions(global.writer, log.Options{
		Prefix:          component,
		ReportTimestamp: true,
	})
	logger.SetLevel(global.levelFor(component))
	global.loggers[component] = logger
	return logger
}

// levelFor returns the effective level for a component.
// Caller must hold the mutex.
func (s *state) levelFor(component string) log.Level {
	if l, ok := s.components[component]; ok {
		return l
	}
	return s.level
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
