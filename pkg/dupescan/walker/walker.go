// Package walker enumerates candidate files for duplicate detection.
// It walks one or more root directories with fastwalk, applies exclusion
// rules and the minimum size threshold, and emits one FileRecord per
// surviving regular file. Unreadable entries become soft warnings; a
// single bad directory never fails the walk.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// ErrNoRoots indicates that the request contained no root directories.
var ErrNoRoots = errors.New("no root directories supplied")

// Options configures a walk.
type Options struct {
	// Roots are the directories to enumerate. At least one is required.
	Roots []string

	// Exclude contains path prefixes or glob patterns to skip.
	// Patterns match the full path or the basename.
	Exclude []string

	// MinSize is the minimum file size in bytes to emit.
	MinSize int64

	// FollowSymlinks enables following symbolic links.
	FollowSymlinks bool

	// OnFile is called for every emitted record.
	// It must be safe to call from multiple goroutines.
	OnFile func(types.FileRecord)
}

// Validate resolves the roots to absolute paths and verifies each exists
// and is a directory. It mutates Roots in place.
func (o *Options) Validate() error {
	if len(o.Roots) == 0 {
		return ErrNoRoots
	}

	for i, root := range o.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving root %q: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("root %q: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("root %q: %w", root, os.ErrInvalid)
		}
		o.Roots[i] = abs
	}
	return nil
}

// Result holds the outcome of a walk.
type Result struct {
	// Files are the candidate records, in traversal order.
	Files []types.FileRecord

	// Warnings lists entries that could not be read.
	Warnings []types.ScanWarning

	// Cancelled is set when the walk stopped early due to context
	// cancellation. Files holds everything enumerated before that.
	Cancelled bool
}

// Walker walks a set of roots and collects candidate files.
type Walker struct {
	opts Options

	files   []types.FileRecord
	filesMu sync.Mutex

	warnings   []types.ScanWarning
	warningsMu sync.Mutex

	cancelled atomic.Bool
}

// New creates a Walker. Options must have been validated.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk enumerates all roots. It blocks until traversal finishes or the
// context is cancelled, and returns a partial result in the latter case.
func Walk(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return New(opts).Walk(ctx)
}

// Walk runs the traversal.
func (w *Walker) Walk(ctx context.Context) (*Result, error) {
	conf := fastwalk.Config{
		Follow: w.opts.FollowSymlinks,
	}

	done := make(chan struct{})
	stop := context.AfterFunc(ctx, func() { close(done) })
	defer stop()

	for _, root := range w.opts.Roots {
		err := fastwalk.Walk(&conf, root, w.callback(done))
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			w.cancelled.Store(true)
			break
		}
		// Root-level failures are soft: record and move to the next root.
		w.addWarning(root, err)
	}

	return &Result{
		Files:     w.files,
		Warnings:  w.warnings,
		Cancelled: w.cancelled.Load(),
	}, nil
}

// callback returns the fastwalk visit function for one root.
func (w *Walker) callback(done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			return context.Canceled
		default:
		}

		// Unreadable entries are warnings, not failures.
		if err != nil {
			w.addWarning(path, err)
			return nil
		}

		if w.isExcluded(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		// Symlinks and special files are skipped unless fastwalk already
		// resolved them via Follow.
		if !d.Type().IsRegular() {
			return nil
		}

		w.processFile(path, d)
		return nil
	}
}

// processFile stats a regular file and emits a record if it qualifies.
func (w *Walker) processFile(path string, d fs.DirEntry) {
	info, err := d.Info()
	if err != nil {
		w.addWarning(path, err)
		return
	}

	size := info.Size()
	if size < w.opts.MinSize {
		return
	}

	rec := types.FileRecord{
		Path:    path,
		Size:    size,
		ModTime: info.ModTime(),
	}

	w.filesMu.Lock()
	w.files = append(w.files, rec)
	w.filesMu.Unlock()

	if w.opts.OnFile != nil {
		w.opts.OnFile(rec)
	}
}

// addWarning appends a warning thread-safely.
func (w *Walker) addWarning(path string, err error) {
	w.warningsMu.Lock()
	w.warnings = append(w.warnings, types.ScanWarning{
		Path:  path,
		Cause: err.Error(),
	})
	w.warningsMu.Unlock()
}

// isExcluded checks if a path matches any exclusion pattern.
func (w *Walker) isExcluded(path string) bool {
	for _, pattern := range w.opts.Exclude {
		if matchesExclusionPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchesExclusionPattern checks a path against a single exclusion rule.
// A rule matches as a path prefix (whole components only), as a glob
// against the basename, or as a glob against the full path.
func matchesExclusionPattern(path, pattern string) bool {
	if pattern == "" {
		return false
	}

	if len(path) >= len(pattern) {
		if path == pattern {
			return true
		}
		if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
		return true
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	return false
}
