// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package composer

import (
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() StatusReport {
	return StatusReport{
		Timestamp:       "2025-06-01T12:00:00Z",
		Server:          "MCP Pattern Server",
		Version:         "0.1.0",
		Scheme:          "patterns",
		State:           "ready",
		Resources:       4,
		ManifestEntries: 4,
		Groups:          []string{"forms", "frontend"},
		Warnings:        []string{`group "infrastructure" failed to load: boom`},
		SearchCache:     search.CacheStats{Size: 1, MaxSize: 128, Hits: 3, Misses: 1},
	}
}

func TestForStatusJSON(t *testing.T) {
	c, _ := newTestComposer(t)

	report := testReport()
	report.Runtime = CollectRuntimeStats()

	text, err := c.ForStatus(report, FormatJSON)
	require.NoError(t, err)

	env := decode(t, text)
	assert.Equal(t, "ready", env["state"])
	assert.EqualValues(t, 3, env["searchCache"].(map[string]any)["hits"])
	rt := env["runtime"].(map[string]any)
	assert.NotEmpty(t, rt["goVersion"])
	assert.Greater(t, rt["numGoroutine"].(float64), 0.0)
}

func TestForStatusDefaults(t *testing.T) {
	c, _ := newTestComposer(t)

	text, err := c.ForStatus(StatusReport{State: "uninitialized"}, "")
	require.NoError(t, err)

	env := decode(t, text)
	assert.NotEmpty(t, env["timestamp"])
	assert.Equal(t, []any{}, env["groups"])
	assert.Equal(t, []any{}, env["warnings"])
	assert.NotContains(t, env, "runtime")
}

func TestForStatusMarkdown(t *testing.T) {
	c, _ := newTestComposer(t)

	report := testReport()
	report.Runtime = &RuntimeStats{GoVersion: "go1.25.5", NumCPU: 8, NumGoroutine: 3}

	text, err := c.ForStatus(report, FormatMarkdown)
	require.NoError(t, err)

	assert.Contains(t, text, "# Server Status")
	assert.Contains(t, text, "**Generated:** June 1, 2025 at 12:00 PM UTC")
	assert.Contains(t, text, "## Search Cache")
	assert.Contains(t, text, "## Runtime")
	assert.Contains(t, text, "go1.25.5")
	assert.Contains(t, text, "75.00%")
	assert.True(t, hasTableHeader(text, "Metric", "Value"), text)
	assert.Contains(t, text, "- group \"infrastructure\" failed to load: boom")
}

func TestForStatusUnknownFormat(t *testing.T) {
	c, _ := newTestComposer(t)

	_, err := c.ForStatus(testReport(), "xml")
	assert.ErrorContains(t, err, `unsupported status format "xml"`)
}

// hasTableHeader reports whether text has a markdown table row whose
// trimmed cells are exactly cells.
func hasTableHeader(text string, cells ...string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			continue
		}
		parts := strings.Split(strings.Trim(line, "|"), "|")
		if len(parts) != len(cells) {
			continue
		}
		match := true
		for i, part := range parts {
			if strings.TrimSpace(part) != cells[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
