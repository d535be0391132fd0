package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// hashChunkSize is the read size used when streaming file content through
// the digest. Content is never loaded whole, so file size is not bounded
// by available memory.
const hashChunkSize = 64 * 1024

// maxDefaultWorkers caps the automatic worker count. Hashing is mostly
// I/O bound, so more workers than this rarely helps.
const maxDefaultWorkers = 8

// HashOptions configures the hashing stage.
type HashOptions struct {
	// Workers is the number of concurrent hashing workers.
	// Zero or negative selects min(NumCPU, 8).
	Workers int

	// OnHashed is called after each file's digest completes.
	// It must be safe to call from multiple goroutines.
	OnHashed func(rec types.FileRecord)
}

// Validate applies defaults for unset values.
func (o *HashOptions) Validate() error {
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
		if o.Workers > maxDefaultWorkers {
			o.Workers = maxDefaultWorkers
		}
	}
	return nil
}

// bucketResult is the outcome of hashing one size bucket.
type bucketResult struct {
	groups   []types.DuplicateGroup
	warnings []types.ScanWarning
	// cancelled marks a bucket abandoned mid-hash. Its groups are
	// discarded so no partially-resolved group ever reaches the report.
	cancelled bool
}

// HashGroups hashes every file in the surviving size buckets and groups
// records sharing identical size and digest. Buckets are independent, so
// they are distributed across a worker pool; each worker resolves whole
// buckets locally and results are merged afterwards, keeping the outcome
// independent of scheduling order.
//
// On cancellation the groups resolved so far are returned with cancelled
// set; buckets interrupted mid-hash contribute nothing.
func HashGroups(ctx context.Context, buckets map[int64][]types.FileRecord, opts HashOptions) (groups []types.DuplicateGroup, warnings []types.ScanWarning, cancelled bool) {
	_ = opts.Validate()

	if len(buckets) == 0 {
		return nil, nil, ctx.Err() != nil
	}

	bucketCh := make(chan []types.FileRecord)
	resultCh := make(chan bucketResult, len(buckets))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for members := range bucketCh {
				resultCh <- hashBucket(ctx, members, opts.OnHashed)
			}
		}()
	}

	for _, members := range buckets {
		bucketCh <- members
	}
	close(bucketCh)
	wg.Wait()
	close(resultCh)

	for res := range resultCh {
		warnings = append(warnings, res.warnings...)
		if res.cancelled {
			cancelled = true
			continue
		}
		groups = append(groups, res.groups...)
	}
	return groups, warnings, cancelled
}

// hashBucket computes digests for one size bucket and builds the groups
// for digest collision sets of two or more members.
func hashBucket(ctx context.Context, members []types.FileRecord, onHashed func(types.FileRecord)) bucketResult {
	var res bucketResult
	byDigest := make(map[string][]types.FileRecord)

	for _, rec := range members {
		digest, err := HashFile(ctx, rec.Path)
		if err != nil {
			if ctx.Err() != nil {
				res.cancelled = true
				return res
			}
			// Locked, vanished, or unreadable: exclude from grouping.
			res.warnings = append(res.warnings, types.ScanWarning{
				Path:  rec.Path,
				Cause: err.Error(),
			})
			continue
		}

		rec.Digest = digest
		byDigest[digest] = append(byDigest[digest], rec)
		if onHashed != nil {
			onHashed(rec)
		}
	}

	for digest, files := range byDigest {
		if len(files) < 2 {
			continue
		}
		res.groups = append(res.groups, newGroup(digest, files))
	}
	return res
}

// HashFile streams a file through SHA-256 in fixed-size chunks and returns
// the lowercase hex digest. The context is polled between chunks, so a
// cancellation request completes within roughly one chunk's read time.
func HashFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// newGroup orders members by the keep policy and builds the group.
// All members share the same size, so the reclaimable total is simply
// the member size times the number of non-kept copies.
func newGroup(digest string, files []types.FileRecord) types.DuplicateGroup {
	sortByKeepPolicy(files)

	size := files[0].Size
	return types.DuplicateGroup{
		Digest:      digest,
		Size:        size,
		Files:       files,
		Keep:        0,
		Reclaimable: size * int64(len(files)-1),
	}
}

// sortByKeepPolicy orders members so the proposed keep is first: earliest
// modification time (treated as the original), then shortest path, then
// lexical path for determinism.
func sortByKeepPolicy(files []types.FileRecord) {
	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
		if len(a.Path) != len(b.Path) {
			return len(a.Path) < len(b.Path)
		}
		return a.Path < b.Path
	})
}
