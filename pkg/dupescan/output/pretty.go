package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	w.WriteString(f.formatGroups(r))

	w.WriteString(f.formatFooter(r))

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box with scan metadata.
func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string

	rootsLabel := LabelStyle.Render("Roots:")
	rootsValue := ValueStyle.Render(strings.Join(r.Roots, ", "))
	lines = append(lines, fmt.Sprintf("%s %s", rootsLabel, rootsValue))

	scannedLabel := LabelStyle.Render("Scanned:")
	scannedValue := ValueStyle.Render(fmt.Sprintf("%d files (%s) in %s",
		r.Stats.FilesScanned, humanBytes(r.Stats.BytesScanned),
		r.Stats.Duration.Round(time.Millisecond)))
	lines = append(lines, fmt.Sprintf("%s %s", scannedLabel, scannedValue))

	if r.Cancelled {
		lines = append(lines, WarningStyle.Bold(true).Render("Scan cancelled, partial results"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatGroups renders each duplicate group with its members.
func (f *PrettyFormatter) formatGroups(r *Report) string {
	if len(r.Groups) == 0 {
		return MutedStyle.Render("  No duplicate files found\n")
	}

	var sb strings.Builder
	for i, group := range r.Groups {
		title := fmt.Sprintf("Group %d", i+1)
		sb.WriteString(fmt.Sprintf("  %s  %s  %s each, %s reclaimable\n",
			TitleStyle.Render(title),
			DigestStyle.Render(shortDigest(group.Digest)),
			SizeStyle.Render(group.SizeHuman),
			SizeStyle.Render(group.ReclaimableHuman)))

		for _, m := range group.Files {
			if m.Keep {
				sb.WriteString(fmt.Sprintf("    %s %s\n",
					KeepStyle.Render("keep  "), ValueStyle.Render(m.Path)))
			} else {
				sb.WriteString(fmt.Sprintf("    %s %s\n",
					DeleteStyle.Render("delete"), MutedStyle.Render(m.Path)))
			}
		}
	}
	return sb.String()
}

// formatFooter builds the summary box.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	summary := fmt.Sprintf("%s %d  %s %d  %s %s",
		LabelStyle.Render("Groups:"), r.Stats.Groups,
		LabelStyle.Render("Duplicates:"), r.Stats.DuplicateFiles,
		LabelStyle.Render("Reclaimable:"), SizeStyle.Render(humanBytes(r.Stats.Reclaimable)))
	return FooterBox.Render(summary)
}

// formatWarnings renders the warnings list.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder
	sb.WriteString(WarningStyle.Render(fmt.Sprintf("%d warnings:", len(warnings))))
	sb.WriteString("\n")
	for _, w := range warnings {
		sb.WriteString(MutedStyle.Render("  " + w))
		sb.WriteString("\n")
	}
	return sb.String()
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
