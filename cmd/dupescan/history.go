package main

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/history"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View scan history",
	Long: `View summaries of past scans.

Each completed scan is recorded with its roots, the number of duplicate
groups found, and the reclaimable space. Deletions executed from a scan
are recorded on the same entry.`,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old history entries",
	Long:  `Remove the oldest history entries beyond the configured retention limit.`,
	RunE:  runHistoryPrune,
}

var (
	historyLimit int
	historyKeep  int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 0, "entries to retain (0=use configured limit)")

	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory returns the history store at the configured path.
func openHistory() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.EnsureDataDir(); err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Path)
}

// runHistory lists recent scans.
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'dupescan [path]' to scan for duplicates.")
		return nil
	}

	// Print header
	fmt.Printf("\n%-19s  %-8s  %-12s  %-12s  %s\n", "STARTED", "GROUPS", "RECLAIMABLE", "REMOVED", "ROOTS")
	fmt.Println(strings.Repeat("-", 80))

	for _, entry := range entries {
		flags := ""
		if entry.Cancelled {
			flags = " (cancelled)"
		}
		fmt.Printf("%-19s  %-8d  %-12s  %-12s  %s%s\n",
			entry.StartedAt.Format("2006-01-02 15:04:05"),
			entry.Groups,
			types.FormatSize(entry.Reclaimable),
			types.FormatSize(entry.RemovedBytes),
			truncateString(strings.Join(entry.Roots, ", "), 30),
			flags,
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))

	return nil
}

// runHistoryPrune removes old history entries.
func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	keep := historyKeep
	if keep <= 0 {
		keep = cfg.History.Limit
	}

	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	removed, err := store.Prune(keep)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	printInfo("Pruned %d entries, keeping the newest %d.", removed, keep)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
