package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as simple tab-separated text.
// It produces plain output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	for _, group := range r.Groups {
		fmt.Fprintf(tw, "group\t%s\t%s each\t%s reclaimable\n",
			shortDigest(group.Digest), group.SizeHuman, group.ReclaimableHuman)
		for _, m := range group.Files {
			marker := "delete"
			if m.Keep {
				marker = "keep"
			}
			fmt.Fprintf(tw, "  %s\t%s\n", marker, m.Path)
		}
	}

	fmt.Fprintf(tw, "\n%d groups\t%d duplicate files\t%s reclaimable\n",
		r.Stats.Groups, r.Stats.DuplicateFiles, humanBytes(r.Stats.Reclaimable))
	if r.Cancelled {
		fmt.Fprintln(tw, "scan cancelled, partial results")
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(tw, "warning: %s\n", warning)
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
