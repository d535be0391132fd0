package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/dedupe"
	"github.com/jamesainslie/dupescan/pkg/dupescan/engine"
	"github.com/jamesainslie/dupescan/pkg/dupescan/history"
	"github.com/jamesainslie/dupescan/pkg/dupescan/output"
	"github.com/jamesainslie/dupescan/pkg/dupescan/plan"
	"github.com/jamesainslie/dupescan/pkg/dupescan/trash"
	"github.com/jamesainslie/dupescan/pkg/dupescan/tuner"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// progressInterval is how often --progress lines are written to stderr.
const progressInterval = 500 * time.Millisecond

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, args []string) error {
	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}

	// Parse minimum size
	minSizeStr := viper.GetString("min_size")
	if minSizeStr == "" {
		minSizeStr = config.DefaultMinSize
	}

	minSize, err := types.ParseSize(minSizeStr)
	if err != nil {
		return fmt.Errorf("invalid minimum size %q: %w", minSizeStr, err)
	}

	// Detect system resources and size the hash pool
	resources, err := tuner.Detect()
	if err != nil {
		printVerbose("Failed to detect system resources, using defaults: %v", err)
		resources = tuner.SystemResources{
			CPUCores:     4,
			TotalRAM:     8 * types.GiB,
			AvailableRAM: 4 * types.GiB,
		}
	}

	workers := viper.GetInt("workers")
	var optConfig tuner.OptimalConfig
	if workers > 0 {
		optConfig = tuner.CalculateWithOverrides(resources, workers)
	} else {
		optConfig = tuner.Calculate(resources)
	}

	printVerbose("System: %d CPUs, %s RAM, %s available",
		resources.CPUCores,
		types.FormatSize(resources.TotalRAM),
		types.FormatSize(resources.AvailableRAM))
	printVerbose("Config: %d hash workers", optConfig.HashWorkers)

	req := types.ScanRequest{
		Roots:          roots,
		Exclude:        viper.GetStringSlice("exclude"),
		MinSize:        minSize,
		FollowSymlinks: viper.GetBool("follow_symlinks"),
		HashWorkers:    optConfig.HashWorkers,
	}

	// Resolve the formatter before starting work so a bad -o fails fast.
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = "pretty"
	}
	formatter, err := output.Get(outFormat)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
	}

	startedAt := time.Now()

	eng := engine.New()
	scan, err := eng.Start(req)
	if err != nil {
		return fmt.Errorf("scan failed to start: %w", err)
	}

	if !getQuiet() {
		printInfo("Scanning %s for duplicates >= %s...",
			strings.Join(roots, ", "), types.FormatSize(minSize))
	}

	// Handle interrupt signal: the first signal cancels the scan, which
	// finishes with a partial report.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			printInfo("\nInterrupted, stopping scan...")
			scan.Cancel()
		}
	}()

	if viper.GetBool("progress") && !getQuiet() {
		go reportProgress(scan)
	}

	report, err := scan.Wait(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	signal.Stop(sigChan)
	close(sigChan)

	if viper.GetBool("keep_newest") {
		dedupe.PreferNewest(report)
	}

	// Output results
	result := output.FromScan(report, roots)
	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	var summary *trash.Summary
	if viper.GetBool("delete") && len(report.Groups) > 0 {
		summary, err = runDelete(report)
		if err != nil {
			return err
		}
		if viper.GetBool("dry_run") {
			// Dry runs remove nothing; don't record them as deletions.
			summary = nil
		}
	}

	recordHistory(scan.ID(), roots, startedAt, report, summary)
	return nil
}

// resolveRoots turns CLI arguments (or the configured default path) into
// the list of roots to scan, with ~ expanded.
func resolveRoots(args []string) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		defaultPath := viper.GetString("default_path")
		if defaultPath == "" {
			defaultPath = config.DefaultPath
		}
		roots = []string{defaultPath}
	}

	expanded := make([]string, len(roots))
	for i, root := range roots {
		path, err := config.ExpandPath(root)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %q: %w", root, err)
		}
		expanded[i] = path
	}
	return expanded, nil
}

// reportProgress writes periodic progress lines to stderr until the scan
// finishes.
func reportProgress(scan *engine.Scan) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-scan.Done():
			return
		case <-ticker.C:
			p := scan.Progress()
			phase := "walking"
			if p.WalkComplete {
				phase = "hashing"
			}
			fmt.Fprintf(os.Stderr, "\r%s: %d files, %s scanned, %d hashed (%s)   ",
				phase, p.FilesScanned, types.FormatSize(p.BytesScanned),
				p.FilesHashed, types.FormatSize(p.BytesHashed))
		}
	}
}

// runDelete builds the deletion plan for the report and executes it,
// prompting for confirmation unless --yes or --dry-run was given.
func runDelete(report *types.ScanReport) (*trash.Summary, error) {
	p, err := plan.Build(report, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build deletion plan: %w", err)
	}
	if len(p.Paths) == 0 {
		printInfo("Nothing to delete.")
		return nil, nil
	}

	dryRun := viper.GetBool("dry_run")
	useTrash := viper.GetBool("trash") && !viper.GetBool("no_trash")

	if !dryRun && !viper.GetBool("yes") {
		action := "Move to trash"
		if !useTrash {
			action = "Permanently delete"
		}
		if !confirm(fmt.Sprintf("%s %d files (%s)?", action, len(p.Paths), types.FormatSize(p.Bytes))) {
			printInfo("Aborted.")
			return nil, nil
		}
	}

	remover := &trash.Remover{UseTrash: useTrash, DryRun: dryRun}
	summary := remover.Execute(context.Background(), p)

	for _, res := range summary.Results {
		if res.Err != nil {
			printError("%v", res.Err)
		} else if dryRun {
			printInfo("would remove %s (%s)", res.Path, types.FormatSize(res.Bytes))
		} else if getVerbose() {
			printVerbose("removed %s (%s)", res.Path, types.FormatSize(res.Bytes))
		}
	}

	if dryRun {
		printInfo("\nDry run: %d files (%s) would be removed.",
			len(summary.Results), types.FormatSize(p.Bytes))
	} else {
		printInfo("\nRemoved %d of %d files, reclaimed %s.",
			summary.Removed, len(p.Paths), types.FormatSize(summary.Bytes))
	}
	return summary, nil
}

// confirm prompts the user with a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// recordHistory appends the scan summary to the history store and prunes
// entries beyond the configured limit. History failures never fail the
// scan.
func recordHistory(id string, roots []string, startedAt time.Time, report *types.ScanReport, summary *trash.Summary) {
	if viper.GetBool("no_history") || !viper.GetBool("history.enabled") {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		printVerbose("Failed to load configuration for history: %v", err)
		return
	}
	if err := config.EnsureDataDir(); err != nil {
		printVerbose("Failed to create data directory: %v", err)
		return
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		printVerbose("Failed to open history store: %v", err)
		return
	}
	defer store.Close()

	entry := history.NewEntry(id, roots, startedAt, report)
	if summary != nil {
		entry.RemovedFiles = summary.Removed
		entry.RemovedBytes = summary.Bytes
	}
	if err := store.Append(entry); err != nil {
		printVerbose("Failed to record history: %v", err)
		return
	}
	if _, err := store.Prune(cfg.History.Limit); err != nil {
		printVerbose("Failed to prune history: %v", err)
	}
}
