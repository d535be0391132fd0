package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	report := FromScan(sampleScanReport(), []string{"/data"})
	require.NoError(t, formatter.Format(&buf, report))

	// Should be valid JSON
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Contains(t, parsed, "groups")
	assert.Contains(t, parsed, "stats")
	assert.Contains(t, parsed, "meta")

	groups := parsed["groups"].([]interface{})
	require.Len(t, groups, 2)

	group1 := groups[0].(map[string]interface{})
	assert.Equal(t, "aaa111", group1["digest"])
	assert.Equal(t, float64(1024), group1["size"])

	stats := parsed["stats"].(map[string]interface{})
	assert.Equal(t, float64(20), stats["files_scanned"])
	assert.Equal(t, float64(2560), stats["reclaimable"])

	meta := parsed["meta"].(map[string]interface{})
	assert.Equal(t, false, meta["cancelled"])
}

func TestJSONFormatter_FormatEmpty(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	report := FromScan(sampleEmptyReport(), []string{"/empty"})
	require.NoError(t, formatter.Format(&buf, report))

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Nil(t, parsed["groups"])
}

func TestJSONLFormatter_Format(t *testing.T) {
	formatter := &JSONLFormatter{}
	var buf bytes.Buffer

	report := FromScan(sampleScanReport(), []string{"/data"})
	require.NoError(t, formatter.Format(&buf, report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	// Each line is a standalone JSON object.
	for _, line := range lines {
		var group map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &group))
		assert.Contains(t, group, "digest")
		assert.Contains(t, group, "files")
	}
}

func TestJSONLFormatter_FormatEmpty(t *testing.T) {
	formatter := &JSONLFormatter{}
	var buf bytes.Buffer

	report := FromScan(sampleEmptyReport(), []string{"/empty"})
	require.NoError(t, formatter.Format(&buf, report))
	assert.Empty(t, buf.String())
}

// sampleEmptyReport builds a report with no groups.
func sampleEmptyReport() *types.ScanReport {
	return &types.ScanReport{Elapsed: time.Second}
}
