// Package plan turns a scan report into an exact deletion list.
// The planner is the single place that decides which paths may be
// removed, so no caller path can accidentally delete every copy of a
// file. It never executes deletions itself.
package plan

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// ErrKeepIndex indicates a keep override outside the group's member range.
var ErrKeepIndex = errors.New("keep override out of range")

// Overrides maps a group digest to the member index to retain instead of
// the group's default keep selection.
type Overrides map[string]int

// Plan is the exact list of files to remove and the bytes reclaimed by
// removing them.
type Plan struct {
	// Paths are the files to delete, ordered by group then member.
	Paths []string `json:"paths"`

	// Bytes is the sum of the sizes of all planned paths. With no
	// groups filtered out it equals the report's reclaimable total.
	Bytes int64 `json:"bytes"`

	// Groups is the number of groups contributing paths.
	Groups int `json:"groups"`
}

// Build produces the deletion plan for a report, honoring keep overrides.
// The retained member of each group is never included in the plan; that
// invariant holds regardless of overrides. Callers that want to act on a
// subset of groups pass a report filtered to those groups.
func Build(report *types.ScanReport, overrides Overrides) (*Plan, error) {
	p := &Plan{}

	for _, group := range report.Groups {
		keep := group.Keep
		if override, ok := overrides[group.Digest]; ok {
			keep = override
		}
		if keep < 0 || keep >= len(group.Files) {
			return nil, fmt.Errorf("%w: group %s has %d members, keep %d",
				ErrKeepIndex, group.Digest, len(group.Files), keep)
		}

		contributed := false
		for i, f := range group.Files {
			if i == keep {
				continue
			}
			p.Paths = append(p.Paths, f.Path)
			p.Bytes += f.Size
			contributed = true
		}
		if contributed {
			p.Groups++
		}
	}

	return p, nil
}
