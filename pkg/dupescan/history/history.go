// Package history persists completed scan summaries in a Badger store
// under the user's data directory, so past scans can be reviewed without
// keeping full reports around. Entries are summaries only; the engine
// itself persists nothing.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// ErrNotFound is returned when a history entry doesn't exist.
var ErrNotFound = errors.New("history entry not found")

// keyPrefix namespaces scan entries inside the store.
const keyPrefix = "scan/"

// Entry summarizes one completed scan.
type Entry struct {
	// ID is the scan handle id.
	ID string `json:"id"`

	// Roots are the scanned root directories.
	Roots []string `json:"roots"`

	// StartedAt is when the scan began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the scan duration.
	Elapsed time.Duration `json:"elapsed"`

	// FilesScanned is the number of candidate files enumerated.
	FilesScanned int64 `json:"files_scanned"`

	// Groups is the number of duplicate groups found.
	Groups int `json:"groups"`

	// Reclaimable is the report's total reclaimable bytes.
	Reclaimable int64 `json:"reclaimable"`

	// Cancelled marks a partial scan.
	Cancelled bool `json:"cancelled"`

	// RemovedFiles and RemovedBytes record an executed deletion, if any.
	RemovedFiles int   `json:"removed_files,omitempty"`
	RemovedBytes int64 `json:"removed_bytes,omitempty"`
}

// NewEntry builds a history entry from a scan report.
func NewEntry(id string, roots []string, startedAt time.Time, report *types.ScanReport) *Entry {
	return &Entry{
		ID:           id,
		Roots:        roots,
		StartedAt:    startedAt,
		Elapsed:      report.Elapsed,
		FilesScanned: report.FilesScanned,
		Groups:       len(report.Groups),
		Reclaimable:  report.Reclaimable,
		Cancelled:    report.Cancelled,
	}
}

// Encode serializes the entry for storage.
func (e *Entry) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode deserializes an entry from storage.
func (e *Entry) Decode(data []byte) error {
	return json.Unmarshal(data, e)
}

// Store wraps Badger for history operations.
type Store struct {
	db *badger.DB
}

// Open opens or creates a history store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// makeKey builds the store key for an entry. Keys embed the start time in
// fixed-width nanoseconds so iteration order is chronological.
func makeKey(e *Entry) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", keyPrefix, e.StartedAt.UnixNano(), e.ID))
}

// Append stores a scan entry.
func (s *Store) Append(e *Entry) error {
	value, err := e.Encode()
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(e), value)
	})
}

// List returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past the prefix range.
		seek := append([]byte(keyPrefix), 0xFF)
		prefix := []byte(keyPrefix)

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			var e Entry
			if err := it.Item().Value(e.Decode); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Prune removes the oldest entries beyond keep, returning how many were
// deleted.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(keyPrefix), 0xFF)
		prefix := []byte(keyPrefix)

		seen := 0
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			seen++
			if seen <= keep {
				continue
			}
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}
