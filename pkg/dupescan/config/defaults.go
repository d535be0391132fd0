// Package config provides configuration management for dupescan.
package config

// Default configuration values for dupescan.
const (
	// DefaultMinSize is the minimum file size to consider for duplicate
	// detection. Files below this are never hashed; at 1 KiB the scan
	// skips the thousands of trivial files most trees contain.
	DefaultMinSize = "1KiB"

	// DefaultPath is the default root to scan when none is specified.
	DefaultPath = "."

	// DefaultHistoryLimit is the number of scan summaries retained.
	DefaultHistoryLimit = 100
)

// DefaultExclusions contains paths that should be excluded from scanning
// by default.
var DefaultExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
}
