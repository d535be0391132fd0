package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Groups []Group   `yaml:"groups"`
	Stats  yamlStats `yaml:"stats"`
	Meta   yamlMeta  `yaml:"meta"`
}

// yamlStats represents scan statistics in YAML output.
type yamlStats struct {
	FilesScanned   int64  `yaml:"files_scanned"`
	BytesScanned   int64  `yaml:"bytes_scanned"`
	Groups         int    `yaml:"groups"`
	DuplicateFiles int    `yaml:"duplicate_files"`
	Reclaimable    int64  `yaml:"reclaimable"`
	Duration       string `yaml:"duration"`
}

// yamlMeta represents metadata in YAML output.
type yamlMeta struct {
	Roots     []string `yaml:"roots"`
	Cancelled bool     `yaml:"cancelled"`
	Warnings  []string `yaml:"warnings,omitempty"`
}

// YAMLFormatter formats output as a YAML document.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	out := yamlOutput{
		Groups: r.Groups,
		Stats: yamlStats{
			FilesScanned:   r.Stats.FilesScanned,
			BytesScanned:   r.Stats.BytesScanned,
			Groups:         r.Stats.Groups,
			DuplicateFiles: r.Stats.DuplicateFiles,
			Reclaimable:    r.Stats.Reclaimable,
			Duration:       r.Stats.Duration.String(),
		},
		Meta: yamlMeta{
			Roots:     r.Roots,
			Cancelled: r.Cancelled,
			Warnings:  r.Warnings,
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
