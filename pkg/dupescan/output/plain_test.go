package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatter_Format(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	report := FromScan(sampleScanReport(), []string{"/data"})
	require.NoError(t, formatter.Format(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "aaa111")
	assert.Contains(t, out, "/data/original.bin")
	assert.Contains(t, out, "keep")
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "2 groups")
	assert.Contains(t, out, "3 duplicate files")
	assert.Contains(t, out, "warning: /data/locked: permission denied")
	assert.NotContains(t, out, "\x1b[", "plain output must not contain ANSI escapes")
}

func TestPlainFormatter_FormatCancelled(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	scanReport := sampleScanReport()
	scanReport.Cancelled = true

	require.NoError(t, formatter.Format(&buf, FromScan(scanReport, []string{"/data"})))
	assert.Contains(t, buf.String(), "scan cancelled, partial results")
}

func TestPlainFormatter_FormatEmpty(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	require.NoError(t, formatter.Format(&buf, FromScan(sampleEmptyReport(), []string{"/empty"})))
	assert.Contains(t, buf.String(), "0 groups")
}
