package output

import (
	"bytes"
	"encoding/json"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Groups []Group   `json:"groups"`
	Stats  jsonStats `json:"stats"`
	Meta   jsonMeta  `json:"meta"`
}

// jsonStats represents scan statistics in JSON output.
type jsonStats struct {
	FilesScanned   int64  `json:"files_scanned"`
	BytesScanned   int64  `json:"bytes_scanned"`
	Groups         int    `json:"groups"`
	DuplicateFiles int    `json:"duplicate_files"`
	Reclaimable    int64  `json:"reclaimable"`
	Duration       string `json:"duration"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Roots     []string `json:"roots"`
	Cancelled bool     `json:"cancelled"`
	Warnings  []string `json:"warnings,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with groups, stats, and meta
// sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	out := jsonOutput{
		Groups: r.Groups,
		Stats: jsonStats{
			FilesScanned:   r.Stats.FilesScanned,
			BytesScanned:   r.Stats.BytesScanned,
			Groups:         r.Stats.Groups,
			DuplicateFiles: r.Stats.DuplicateFiles,
			Reclaimable:    r.Stats.Reclaimable,
			Duration:       r.Stats.Duration.String(),
		},
		Meta: jsonMeta{
			Roots:     r.Roots,
			Cancelled: r.Cancelled,
			Warnings:  r.Warnings,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON, one duplicate
// group per line. This format is suitable for streaming processing with
// tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, group := range r.Groups {
		data, err := json.Marshal(group)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
