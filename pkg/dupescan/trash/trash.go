// Package trash executes deletion plans. Files are moved to the system
// trash where available (Finder on macOS, gio or trash-cli on Linux),
// falling back to permanent removal when no trash support is detected or
// when trash use is disabled. Each file succeeds or fails on its own; one
// bad path never stops the rest of the plan.
package trash

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/plan"
)

// commandTimeout is the maximum time to wait for a trash command.
const commandTimeout = 30 * time.Second

var logger = logging.Get("trash")

// Result reports the outcome of removing one file.
type Result struct {
	// Path is the file the removal was attempted on.
	Path string

	// Bytes is the file's size, counted only on success.
	Bytes int64

	// Err is nil on success.
	Err error
}

// Summary aggregates an executed plan.
type Summary struct {
	// Results holds one entry per planned path, in plan order.
	Results []Result

	// Removed is the number of files successfully removed.
	Removed int

	// Bytes is the total size of successfully removed files.
	Bytes int64
}

// Remover executes deletion plans.
type Remover struct {
	// UseTrash moves files to the system trash instead of deleting
	// them permanently. Falls back to permanent delete when no trash
	// facility is available.
	UseTrash bool

	// DryRun reports what would be removed without touching anything.
	DryRun bool
}

// Execute removes every path in the plan. Per-file failures are recorded
// in the summary and do not stop execution; context cancellation stops
// between files, leaving the remaining paths untouched.
func (r *Remover) Execute(ctx context.Context, p *plan.Plan) *Summary {
	sum := &Summary{}

	for _, path := range p.Paths {
		if ctx.Err() != nil {
			break
		}

		res := r.removeOne(ctx, path)
		sum.Results = append(sum.Results, res)
		if res.Err == nil {
			sum.Removed++
			sum.Bytes += res.Bytes
		} else {
			logger.Warn("remove failed", "path", path, "error", res.Err)
		}
	}
	return sum
}

// removeOne removes a single file.
func (r *Remover) removeOne(ctx context.Context, path string) Result {
	info, err := os.Lstat(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("cannot remove %q: %w", path, err)}
	}

	res := Result{Path: path, Bytes: info.Size()}
	if r.DryRun {
		return res
	}

	if r.UseTrash {
		res.Err = moveToTrash(ctx, path)
	} else {
		res.Err = permanentDelete(path)
	}
	if res.Err != nil {
		res.Bytes = 0
	}
	return res
}

// moveToTrash moves a file to the system trash.
func moveToTrash(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	switch runtime.GOOS {
	case "darwin":
		return moveToTrashMacOS(ctx, absPath)
	case "linux":
		return moveToTrashLinux(ctx, absPath)
	default:
		return permanentDelete(absPath)
	}
}

// moveToTrashMacOS uses AppleScript so the file gets Finder's "Put Back"
// support.
func moveToTrashMacOS(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return permanentDelete(path)
	}
	return nil
}

// moveToTrashLinux tries gio, then trash-cli.
func moveToTrashLinux(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if gioPath, err := exec.LookPath("gio"); err == nil {
		cmd := exec.CommandContext(ctx, gioPath, "trash", path)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	if trashPath, err := exec.LookPath("trash-put"); err == nil {
		cmd := exec.CommandContext(ctx, trashPath, path)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	return permanentDelete(path)
}

// permanentDelete removes a single file. Plans only ever contain regular
// files, so plain Remove is used rather than RemoveAll.
func permanentDelete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}
