// Package types provides core data types for the dupescan duplicate finder.
// It includes structures for discovered files, duplicate groups, scan
// requests and reports, along with utility functions for parsing and
// formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// FileRecord describes one discovered file.
// The digest is empty until the file's size collides with another file's
// size and the hasher computes it.
type FileRecord struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`

	// Digest is the lowercase hex SHA-256 of the full file content.
	// Empty until computed.
	Digest string `json:"digest,omitempty"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (f *FileRecord) HumanSize() string {
	return FormatSize(f.Size)
}

// DuplicateGroup is a set of byte-identical files.
// All members share the same size and content digest. Exactly one member,
// Files[Keep], is proposed for retention; the caller may override the
// selection before planning a deletion.
type DuplicateGroup struct {
	// Digest is the shared content digest of all members.
	Digest string `json:"digest"`

	// Size is the size in bytes of each member.
	Size int64 `json:"size"`

	// Files are the group members, ordered by the keep policy
	// (earliest ModTime first, then shortest path, then lexical path).
	Files []FileRecord `json:"files"`

	// Keep is the index into Files of the member proposed for retention.
	Keep int `json:"keep"`

	// Reclaimable is the total bytes freed by deleting all non-kept members.
	Reclaimable int64 `json:"reclaimable"`
}

// KeepPath returns the path of the member proposed for retention.
func (g *DuplicateGroup) KeepPath() string {
	return g.Files[g.Keep].Path
}

// ScanWarning records a non-fatal per-entry failure (permission denied,
// file vanished mid-scan, unreadable directory). Warnings never abort a scan.
type ScanWarning struct {
	// Path is the file or directory the failure occurred on.
	Path string `json:"path"`

	// Cause is the underlying error message.
	Cause string `json:"cause"`
}

// ScanRequest is the input contract for a duplicate scan.
type ScanRequest struct {
	// Roots are the directories to scan. At least one is required.
	Roots []string `json:"roots"`

	// Exclude contains path prefixes or glob patterns to skip.
	Exclude []string `json:"exclude"`

	// MinSize is the minimum file size in bytes to consider.
	// Files below this never enter size bucketing.
	MinSize int64 `json:"min_size"`

	// FollowSymlinks enables following symbolic links during the walk.
	// Disabled by default to avoid cycles and double counting.
	FollowSymlinks bool `json:"follow_symlinks"`

	// HashWorkers is the number of concurrent hashing workers.
	// Zero or negative selects an automatic value.
	HashWorkers int `json:"hash_workers"`
}

// ScanReport is the output contract of a duplicate scan.
type ScanReport struct {
	// Groups are the duplicate groups, ordered by descending reclaimable
	// bytes with digest lexical order as tiebreak.
	Groups []DuplicateGroup `json:"groups"`

	// FilesScanned is the number of candidate files enumerated
	// (regular files meeting the size threshold and exclusion rules).
	FilesScanned int64 `json:"files_scanned"`

	// BytesScanned is the total size of all candidate files.
	BytesScanned int64 `json:"bytes_scanned"`

	// Reclaimable is the sum of Reclaimable over all groups.
	Reclaimable int64 `json:"reclaimable"`

	// Elapsed is the wall-clock duration of the scan.
	Elapsed time.Duration `json:"elapsed"`

	// Cancelled marks a partial report produced by a cancelled scan.
	// Only groups fully resolved before cancellation are present.
	Cancelled bool `json:"cancelled"`

	// Warnings lists per-entry failures encountered during the scan.
	Warnings []ScanWarning `json:"warnings,omitempty"`
}

// ScanProgress is a snapshot of a running scan for progress display.
type ScanProgress struct {
	// FilesScanned is the number of candidate files enumerated so far.
	FilesScanned int64 `json:"files_scanned"`

	// BytesScanned is the total size of candidates enumerated so far.
	BytesScanned int64 `json:"bytes_scanned"`

	// FilesHashed is the number of files whose digest has been computed.
	FilesHashed int64 `json:"files_hashed"`

	// BytesHashed is the total bytes streamed through the digest so far.
	BytesHashed int64 `json:"bytes_hashed"`

	// CurrentPath is the path currently being walked or hashed.
	CurrentPath string `json:"current_path"`

	// WalkComplete indicates enumeration is finished and hashing is underway.
	WalkComplete bool `json:"walk_complete,omitempty"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports the following formats:
//   - Plain bytes: "1024", "0"
//   - With byte suffix: "512B", "512b"
//   - Kilobytes: "100K", "100k", "100KB", "100KiB"
//   - Megabytes: "50M", "50m", "50MB", "50MiB"
//   - Gigabytes: "2G", "2g", "2GB", "2GiB"
//   - Terabytes: "1T", "1t", "1TB", "1TiB"
//
// Decimal values are supported and truncated to the nearest byte.
// Leading and trailing whitespace is ignored.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Determine the multiplier based on the suffix
	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB) for consistency
// with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
