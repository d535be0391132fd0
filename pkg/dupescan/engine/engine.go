// Package engine runs duplicate scans as cancellable background tasks.
// Start returns a handle the caller polls for progress and collects the
// report from, keeping interactive surfaces decoupled from the scan.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jamesainslie/dupescan/pkg/dupescan/dedupe"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/jamesainslie/dupescan/pkg/dupescan/walker"
)

// ErrScanRunning is returned by Result while the scan has not finished.
var ErrScanRunning = errors.New("scan still running")

// ErrUnknownScan is returned when looking up a handle id the engine
// does not track.
var ErrUnknownScan = errors.New("unknown scan id")

var logger = logging.Get("engine")

// Engine tracks running and completed scans by handle id.
type Engine struct {
	mu    sync.Mutex
	scans map[string]*Scan
}

// New creates an Engine.
func New() *Engine {
	return &Engine{scans: make(map[string]*Scan)}
}

// Start validates the request and begins a background scan, returning
// immediately with a handle. Validation failures (no roots, missing root)
// are surfaced synchronously; every later per-entry failure becomes a
// warning on the report instead.
func (e *Engine) Start(req types.ScanRequest) (*Scan, error) {
	wopts := walker.Options{
		Roots:          req.Roots,
		Exclude:        req.Exclude,
		MinSize:        req.MinSize,
		FollowSymlinks: req.FollowSymlinks,
	}
	if err := wopts.Validate(); err != nil {
		return nil, err
	}
	req.Roots = wopts.Roots

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scan{
		id:     uuid.NewString(),
		req:    req,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.currentPath.Store("")

	e.mu.Lock()
	e.scans[s.id] = s
	e.mu.Unlock()

	logger.Info("scan started", "id", s.id, "roots", req.Roots, "min_size", req.MinSize)
	go s.run(ctx)
	return s, nil
}

// Get returns the handle for a scan id.
func (e *Engine) Get(id string) (*Scan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.scans[id]
	if !ok {
		return nil, ErrUnknownScan
	}
	return s, nil
}

// Cancel requests cooperative cancellation of a scan by id.
func (e *Engine) Cancel(id string) error {
	s, err := e.Get(id)
	if err != nil {
		return err
	}
	s.Cancel()
	return nil
}

// Scan is a handle to one background scan.
type Scan struct {
	id     string
	req    types.ScanRequest
	cancel context.CancelFunc
	done   chan struct{}

	filesScanned atomic.Int64
	bytesScanned atomic.Int64
	filesHashed  atomic.Int64
	bytesHashed  atomic.Int64
	currentPath  atomic.Value
	walkComplete atomic.Bool

	// report is written exactly once, before done is closed.
	report *types.ScanReport
}

// ID returns the handle id.
func (s *Scan) ID() string { return s.id }

// Cancel requests cooperative cancellation. The scan finishes with a
// partial report flagged incomplete; cancellation is not an error.
func (s *Scan) Cancel() { s.cancel() }

// Done is closed once the report is available.
func (s *Scan) Done() <-chan struct{} { return s.done }

// Progress returns a snapshot of the running scan.
func (s *Scan) Progress() types.ScanProgress {
	currentPath, _ := s.currentPath.Load().(string)
	return types.ScanProgress{
		FilesScanned: s.filesScanned.Load(),
		BytesScanned: s.bytesScanned.Load(),
		FilesHashed:  s.filesHashed.Load(),
		BytesHashed:  s.bytesHashed.Load(),
		CurrentPath:  currentPath,
		WalkComplete: s.walkComplete.Load(),
	}
}

// Result returns the report once the scan has completed or been
// cancelled. While the scan is running it returns ErrScanRunning.
func (s *Scan) Result() (*types.ScanReport, error) {
	select {
	case <-s.done:
		return s.report, nil
	default:
		return nil, ErrScanRunning
	}
}

// Wait blocks until the scan finishes or the caller's context expires.
func (s *Scan) Wait(ctx context.Context) (*types.ScanReport, error) {
	select {
	case <-s.done:
		return s.report, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run executes the scan pipeline: walk, bucket, hash, report.
func (s *Scan) run(ctx context.Context) {
	defer close(s.done)
	start := time.Now()

	wopts := walker.Options{
		Roots:          s.req.Roots,
		Exclude:        s.req.Exclude,
		MinSize:        s.req.MinSize,
		FollowSymlinks: s.req.FollowSymlinks,
		OnFile: func(rec types.FileRecord) {
			s.filesScanned.Add(1)
			s.bytesScanned.Add(rec.Size)
			s.currentPath.Store(rec.Path)
		},
	}

	walkRes, err := walker.New(wopts).Walk(ctx)
	if err != nil {
		// Roots were validated at Start; a failure here means the
		// environment collapsed underneath us. Return an empty,
		// flagged report carrying the cause as a warning.
		logger.Error("walk failed", "id", s.id, "error", err)
		s.report = dedupe.BuildReport(nil,
			[]types.ScanWarning{{Path: s.req.Roots[0], Cause: err.Error()}},
			0, 0, time.Since(start), true)
		return
	}
	s.walkComplete.Store(true)

	groups, warnings, hashCancelled := s.hashPhase(ctx, walkRes.Files)
	warnings = append(walkRes.Warnings, warnings...)
	cancelled := walkRes.Cancelled || hashCancelled

	s.report = dedupe.BuildReport(groups, warnings,
		s.filesScanned.Load(), s.bytesScanned.Load(),
		time.Since(start), cancelled)

	logger.Info("scan finished", "id", s.id,
		"files", s.report.FilesScanned,
		"groups", len(s.report.Groups),
		"reclaimable", s.report.Reclaimable,
		"cancelled", s.report.Cancelled,
		"elapsed", s.report.Elapsed)
}

// hashPhase buckets the walk output by size and hashes the survivors.
// A walk that was cancelled skips hashing entirely: the walk output is
// incomplete, so any groups derived from it could be wrong.
func (s *Scan) hashPhase(ctx context.Context, files []types.FileRecord) ([]types.DuplicateGroup, []types.ScanWarning, bool) {
	if ctx.Err() != nil {
		return nil, nil, true
	}

	buckets := dedupe.BucketBySize(files)
	return dedupe.HashGroups(ctx, buckets, dedupe.HashOptions{
		Workers: s.req.HashWorkers,
		OnHashed: func(rec types.FileRecord) {
			s.filesHashed.Add(1)
			s.bytesHashed.Add(rec.Size)
			s.currentPath.Store(rec.Path)
		},
	})
}
