package plan

import (
	"errors"
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

func sampleReport() *types.ScanReport {
	return &types.ScanReport{
		Groups: []types.DuplicateGroup{
			{
				Digest: "aaa",
				Size:   100,
				Files: []types.FileRecord{
					{Path: "/keep/a", Size: 100},
					{Path: "/dup/a1", Size: 100},
					{Path: "/dup/a2", Size: 100},
				},
				Keep:        0,
				Reclaimable: 200,
			},
			{
				Digest: "bbb",
				Size:   50,
				Files: []types.FileRecord{
					{Path: "/keep/b", Size: 50},
					{Path: "/dup/b1", Size: 50},
				},
				Keep:        0,
				Reclaimable: 50,
			},
		},
		Reclaimable: 250,
	}
}

func TestBuildDefaultKeep(t *testing.T) {
	report := sampleReport()

	p, err := Build(report, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"/dup/a1", "/dup/a2", "/dup/b1"}
	if len(p.Paths) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(p.Paths), p.Paths)
	}
	for i, path := range want {
		if p.Paths[i] != path {
			t.Errorf("path %d = %q, want %q", i, p.Paths[i], path)
		}
	}
	if p.Bytes != report.Reclaimable {
		t.Errorf("Bytes = %d, want report reclaimable %d", p.Bytes, report.Reclaimable)
	}
	if p.Groups != 2 {
		t.Errorf("Groups = %d, want 2", p.Groups)
	}
}

func TestBuildNeverPlansKeptMember(t *testing.T) {
	p, err := Build(sampleReport(), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, path := range p.Paths {
		if path == "/keep/a" || path == "/keep/b" {
			t.Errorf("kept member %q must never be planned", path)
		}
	}
}

func TestBuildWithOverride(t *testing.T) {
	p, err := Build(sampleReport(), Overrides{"aaa": 2})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Group aaa now keeps /dup/a2 instead of /keep/a.
	want := []string{"/keep/a", "/dup/a1", "/dup/b1"}
	if len(p.Paths) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(p.Paths), p.Paths)
	}
	for i, path := range want {
		if p.Paths[i] != path {
			t.Errorf("path %d = %q, want %q", i, p.Paths[i], path)
		}
	}
}

func TestBuildOverrideOutOfRange(t *testing.T) {
	if _, err := Build(sampleReport(), Overrides{"aaa": 3}); !errors.Is(err, ErrKeepIndex) {
		t.Errorf("expected ErrKeepIndex, got %v", err)
	}
	if _, err := Build(sampleReport(), Overrides{"bbb": -1}); !errors.Is(err, ErrKeepIndex) {
		t.Errorf("expected ErrKeepIndex, got %v", err)
	}
}

func TestBuildEmptyReport(t *testing.T) {
	p, err := Build(&types.ScanReport{}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(p.Paths) != 0 || p.Bytes != 0 || p.Groups != 0 {
		t.Errorf("expected empty plan, got %+v", p)
	}
}
