// Package dedupe groups candidate files by content equality.
// Files are first partitioned by size; only files sharing a size with at
// least one peer are hashed, and only a full-content digest ever decides
// group membership.
package dedupe

import (
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// BucketBySize partitions records by file size and drops buckets with a
// single member. A file whose size is unique in the scanned set can never
// have a duplicate, so it is excluded before any hashing happens.
func BucketBySize(files []types.FileRecord) map[int64][]types.FileRecord {
	buckets := make(map[int64][]types.FileRecord)
	for _, f := range files {
		buckets[f.Size] = append(buckets[f.Size], f)
	}

	for size, members := range buckets {
		if len(members) < 2 {
			delete(buckets, size)
		}
	}
	return buckets
}
