package walker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// createTestTree creates a directory structure for walk tests:
//
//	root/
//	  small.txt (10 bytes)
//	  large.txt (4 KiB)
//	  subdir/
//	    medium.txt (2 KiB)
//	    nested/
//	      big.txt (8 KiB)
//	  excluded/
//	    ignored.txt (4 KiB)
func createTestTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	dirs := []string{
		filepath.Join(root, "subdir"),
		filepath.Join(root, "subdir", "nested"),
		filepath.Join(root, "excluded"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create dir %s: %v", dir, err)
		}
	}

	files := []struct {
		path string
		size int64
	}{
		{filepath.Join(root, "small.txt"), 10},
		{filepath.Join(root, "large.txt"), 4 * types.KiB},
		{filepath.Join(root, "subdir", "medium.txt"), 2 * types.KiB},
		{filepath.Join(root, "subdir", "nested", "big.txt"), 8 * types.KiB},
		{filepath.Join(root, "excluded", "ignored.txt"), 4 * types.KiB},
	}
	for _, f := range files {
		if err := createFileOfSize(f.path, f.size); err != nil {
			t.Fatalf("failed to create file %s: %v", f.path, err)
		}
	}

	return root
}

// createFileOfSize creates a file with the specified size.
func createFileOfSize(path string, size int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if size > 0 {
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}

func TestOptionsValidate(t *testing.T) {
	root := t.TempDir()

	t.Run("no roots", func(t *testing.T) {
		opts := Options{}
		if err := opts.Validate(); !errors.Is(err, ErrNoRoots) {
			t.Errorf("expected ErrNoRoots, got %v", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		opts := Options{Roots: []string{filepath.Join(root, "does-not-exist")}}
		if err := opts.Validate(); err == nil {
			t.Error("expected error for missing root")
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		path := filepath.Join(root, "file.txt")
		if err := createFileOfSize(path, 1); err != nil {
			t.Fatal(err)
		}
		opts := Options{Roots: []string{path}}
		if err := opts.Validate(); err == nil {
			t.Error("expected error for non-directory root")
		}
	})

	t.Run("resolves to absolute", func(t *testing.T) {
		opts := Options{Roots: []string{"."}}
		if err := opts.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !filepath.IsAbs(opts.Roots[0]) {
			t.Errorf("expected absolute root, got %q", opts.Roots[0])
		}
	})
}

func TestWalkBasic(t *testing.T) {
	root := createTestTree(t)

	opts := Options{Roots: []string{root}, MinSize: 1}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(result.Files) != 5 {
		t.Errorf("expected 5 files, got %d", len(result.Files))
		for _, f := range result.Files {
			t.Logf("  found: %s (%d bytes)", f.Path, f.Size)
		}
	}
	if result.Cancelled {
		t.Error("walk should not be cancelled")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestWalkMinSize(t *testing.T) {
	root := createTestTree(t)

	opts := Options{Roots: []string{root}, MinSize: types.KiB}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	// small.txt (10 bytes) is below the threshold.
	if len(result.Files) != 4 {
		t.Errorf("expected 4 files >= 1 KiB, got %d", len(result.Files))
	}
	for _, f := range result.Files {
		if f.Size < types.KiB {
			t.Errorf("file below threshold emitted: %s (%d bytes)", f.Path, f.Size)
		}
	}
}

func TestWalkWithExclusions(t *testing.T) {
	root := createTestTree(t)

	opts := Options{
		Roots:   []string{root},
		MinSize: 1,
		Exclude: []string{filepath.Join(root, "excluded")},
	}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(result.Files) != 4 {
		t.Errorf("expected 4 files with exclusion, got %d", len(result.Files))
	}
	for _, f := range result.Files {
		if filepath.Base(f.Path) == "ignored.txt" {
			t.Error("excluded file should not be in results")
		}
	}
}

func TestWalkWithGlobExclusion(t *testing.T) {
	root := createTestTree(t)

	opts := Options{
		Roots:   []string{root},
		MinSize: 1,
		Exclude: []string{"*.txt"},
	}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(result.Files) != 0 {
		t.Errorf("expected 0 files (all .txt excluded), got %d", len(result.Files))
	}
}

func TestWalkMultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	if err := createFileOfSize(filepath.Join(rootA, "a.dat"), 100); err != nil {
		t.Fatal(err)
	}
	if err := createFileOfSize(filepath.Join(rootB, "b.dat"), 100); err != nil {
		t.Fatal(err)
	}

	opts := Options{Roots: []string{rootA, rootB}, MinSize: 1}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(result.Files) != 2 {
		t.Errorf("expected 2 files across roots, got %d", len(result.Files))
	}
}

func TestWalkSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.dat")
	if err := createFileOfSize(target, 100); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(root, "link.dat")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	opts := Options{Roots: []string{root}, MinSize: 1}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	// Without FollowSymlinks only the real file is emitted.
	if len(result.Files) != 1 {
		t.Errorf("expected 1 file with symlinks skipped, got %d", len(result.Files))
	}
}

func TestWalkUnreadableDirWarning(t *testing.T) {
	if syscall.Geteuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := createFileOfSize(filepath.Join(locked, "hidden.dat"), 100); err != nil {
		t.Fatal(err)
	}
	if err := createFileOfSize(filepath.Join(root, "visible.dat"), 100); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	opts := Options{Roots: []string{root}, MinSize: 1}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(result.Files) != 1 {
		t.Errorf("expected 1 readable file, got %d", len(result.Files))
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the unreadable directory")
	}
}

func TestWalkCancellation(t *testing.T) {
	root := createTestTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{Roots: []string{root}, MinSize: 1}
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}

	result, err := New(opts).Walk(ctx)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if !result.Cancelled {
		t.Error("expected Cancelled to be set")
	}
}

func TestWalkOnFileCallback(t *testing.T) {
	root := createTestTree(t)

	var calls atomic.Int64
	opts := Options{
		Roots:   []string{root},
		MinSize: 1,
		OnFile: func(rec types.FileRecord) {
			calls.Add(1)
		},
	}
	result, err := Walk(context.Background(), opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if calls.Load() != int64(len(result.Files)) {
		t.Errorf("OnFile called %d times, %d files emitted", calls.Load(), len(result.Files))
	}
}

func TestMatchesExclusionPattern(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{name: "exact match", path: "/tmp/cache", pattern: "/tmp/cache", want: true},
		{name: "prefix whole component", path: "/tmp/cache/file", pattern: "/tmp/cache", want: true},
		{name: "prefix partial component", path: "/tmp/cachedir/file", pattern: "/tmp/cache", want: false},
		{name: "glob basename", path: "/data/photo.tmp", pattern: "*.tmp", want: true},
		{name: "glob no match", path: "/data/photo.jpg", pattern: "*.tmp", want: false},
		{name: "glob full path", path: "/data/x/photo.jpg", pattern: "/data/*/photo.jpg", want: true},
		{name: "empty pattern", path: "/data/photo.jpg", pattern: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesExclusionPattern(tt.path, tt.pattern); got != tt.want {
				t.Errorf("matchesExclusionPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
			}
		})
	}
}
