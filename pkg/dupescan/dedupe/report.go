package dedupe

import (
	"sort"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// BuildReport assembles the final scan report. Group order is a pure
// function of the completed digest and size data: descending reclaimable
// bytes, digest lexical order on ties. Re-running a scan on an unchanged
// tree yields an identical report.
func BuildReport(groups []types.DuplicateGroup, warnings []types.ScanWarning, filesScanned, bytesScanned int64, elapsed time.Duration, cancelled bool) *types.ScanReport {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Reclaimable != groups[j].Reclaimable {
			return groups[i].Reclaimable > groups[j].Reclaimable
		}
		return groups[i].Digest < groups[j].Digest
	})

	var reclaimable int64
	for _, g := range groups {
		reclaimable += g.Reclaimable
	}

	return &types.ScanReport{
		Groups:       groups,
		FilesScanned: filesScanned,
		BytesScanned: bytesScanned,
		Reclaimable:  reclaimable,
		Elapsed:      elapsed,
		Cancelled:    cancelled,
		Warnings:     warnings,
	}
}

// PreferNewest reorders every group so the member with the latest
// modification time is kept instead of the oldest. Path tiebreaks are
// unchanged, so the result is still deterministic. Reclaimable totals are
// unaffected because all members of a group share the same size.
func PreferNewest(report *types.ScanReport) {
	for gi := range report.Groups {
		files := report.Groups[gi].Files
		sort.Slice(files, func(i, j int) bool {
			a, b := files[i], files[j]
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.After(b.ModTime)
			}
			if len(a.Path) != len(b.Path) {
				return len(a.Path) < len(b.Path)
			}
			return a.Path < b.Path
		})
	}
}
