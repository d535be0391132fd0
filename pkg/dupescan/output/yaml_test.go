package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Format(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	report := FromScan(sampleScanReport(), []string{"/data"})
	require.NoError(t, formatter.Format(&buf, report))

	// Should be valid YAML
	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))

	assert.Contains(t, parsed, "groups")
	assert.Contains(t, parsed, "stats")
	assert.Contains(t, parsed, "meta")

	groups := parsed["groups"].([]interface{})
	require.Len(t, groups, 2)

	group1 := groups[0].(map[string]interface{})
	assert.Equal(t, "aaa111", group1["digest"])

	stats := parsed["stats"].(map[string]interface{})
	assert.Equal(t, 2, stats["groups"])
}

func TestYAMLFormatter_FormatEmpty(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	require.NoError(t, formatter.Format(&buf, FromScan(sampleEmptyReport(), []string{"/empty"})))

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))
	assert.Contains(t, parsed, "meta")
}
