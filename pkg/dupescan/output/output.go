// Package output provides formatters for displaying duplicate scan
// results in various output formats (pretty, plain, json, jsonl, yaml).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Member is one file inside a duplicate group.
type Member struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`

	// Keep marks the member proposed for retention.
	Keep bool `json:"keep" yaml:"keep"`
}

// Group is a duplicate group prepared for display.
type Group struct {
	// Digest is the shared content digest of all members.
	Digest string `json:"digest" yaml:"digest"`

	// Size is the size in bytes of each member.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable member size.
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// Reclaimable is the bytes freed by deleting non-kept members.
	Reclaimable int64 `json:"reclaimable" yaml:"reclaimable"`

	// ReclaimableHuman is the human-readable reclaimable total.
	ReclaimableHuman string `json:"reclaimable_human" yaml:"reclaimable_human"`

	// Files are the group members, keep candidate first.
	Files []Member `json:"files" yaml:"files"`
}

// Stats contains statistics about a scan operation.
type Stats struct {
	// FilesScanned is the number of candidate files enumerated.
	FilesScanned int64 `json:"files_scanned" yaml:"files_scanned"`

	// BytesScanned is the total size of all candidate files.
	BytesScanned int64 `json:"bytes_scanned" yaml:"bytes_scanned"`

	// Groups is the number of duplicate groups found.
	Groups int `json:"groups" yaml:"groups"`

	// DuplicateFiles is the number of non-kept copies across all groups.
	DuplicateFiles int `json:"duplicate_files" yaml:"duplicate_files"`

	// Reclaimable is the total reclaimable bytes.
	Reclaimable int64 `json:"reclaimable" yaml:"reclaimable"`

	// Duration is the total scan time.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Report contains the complete output data for formatting.
type Report struct {
	// Groups are the duplicate groups, largest reclaimable first.
	Groups []Group `json:"groups" yaml:"groups"`

	// Stats contains scan statistics.
	Stats Stats `json:"stats" yaml:"stats"`

	// Roots are the scanned root directories.
	Roots []string `json:"roots" yaml:"roots"`

	// Cancelled marks a partial report from a cancelled scan.
	Cancelled bool `json:"cancelled" yaml:"cancelled"`

	// Warnings contains per-entry failure messages from the scan.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FromScan converts an engine report into the display model.
func FromScan(r *types.ScanReport, roots []string) *Report {
	rep := &Report{
		Roots:     roots,
		Cancelled: r.Cancelled,
		Stats: Stats{
			FilesScanned: r.FilesScanned,
			BytesScanned: r.BytesScanned,
			Groups:       len(r.Groups),
			Reclaimable:  r.Reclaimable,
			Duration:     r.Elapsed,
		},
	}

	for _, g := range r.Groups {
		group := Group{
			Digest:           g.Digest,
			Size:             g.Size,
			SizeHuman:        types.FormatSize(g.Size),
			Reclaimable:      g.Reclaimable,
			ReclaimableHuman: types.FormatSize(g.Reclaimable),
		}
		for i, f := range g.Files {
			group.Files = append(group.Files, Member{
				Path:    f.Path,
				ModTime: f.ModTime,
				Keep:    i == g.Keep,
			})
		}
		rep.Stats.DuplicateFiles += len(g.Files) - 1
		rep.Groups = append(rep.Groups, group)
	}

	for _, w := range r.Warnings {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", w.Path, w.Cause))
	}

	return rep
}

// humanBytes formats a byte count for display.
func humanBytes(n int64) string {
	return types.FormatSize(n)
}

// shortDigest abbreviates a digest for display.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
