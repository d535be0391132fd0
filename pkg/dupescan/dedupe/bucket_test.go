package dedupe

import (
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

func TestBucketBySize(t *testing.T) {
	files := []types.FileRecord{
		{Path: "/a", Size: 100},
		{Path: "/b", Size: 100},
		{Path: "/c", Size: 200},
		{Path: "/d", Size: 300},
		{Path: "/e", Size: 300},
		{Path: "/f", Size: 300},
	}

	buckets := BucketBySize(files)

	// Size 200 is a singleton and must be dropped.
	if _, ok := buckets[200]; ok {
		t.Error("singleton bucket should be dropped")
	}
	if got := len(buckets[100]); got != 2 {
		t.Errorf("expected 2 members in 100-byte bucket, got %d", got)
	}
	if got := len(buckets[300]); got != 3 {
		t.Errorf("expected 3 members in 300-byte bucket, got %d", got)
	}
	if len(buckets) != 2 {
		t.Errorf("expected 2 buckets, got %d", len(buckets))
	}
}

func TestBucketBySizeEmpty(t *testing.T) {
	if buckets := BucketBySize(nil); len(buckets) != 0 {
		t.Errorf("expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestBucketBySizeAllUnique(t *testing.T) {
	files := []types.FileRecord{
		{Path: "/a", Size: 1},
		{Path: "/b", Size: 2},
		{Path: "/c", Size: 3},
	}
	if buckets := BucketBySize(files); len(buckets) != 0 {
		t.Errorf("expected no buckets when all sizes are unique, got %d", len(buckets))
	}
}
