// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package composer

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/search"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Output formats accepted by ForStatus.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// StatusReport describes the server and its catalog at a point in time.
type StatusReport struct {
	Timestamp       string             `json:"timestamp"`
	Server          string             `json:"server"`
	Version         string             `json:"version"`
	Scheme          string             `json:"scheme"`
	State           string             `json:"state"`
	Resources       int                `json:"resources"`
	ManifestEntries int                `json:"manifestEntries"`
	Groups          []string           `json:"groups"`
	Warnings        []string           `json:"warnings"`
	SearchCache     search.CacheStats  `json:"searchCache"`
	Runtime         *RuntimeStats      `json:"runtime,omitempty"`
	Metrics         map[string]float64 `json:"metrics,omitempty"`
}

// RuntimeStats is the process memory and scheduler snapshot included in
// detailed status reports.
type RuntimeStats struct {
	GoVersion    string  `json:"goVersion"`
	NumCPU       int     `json:"numCpu"`
	NumGoroutine int     `json:"numGoroutine"`
	HeapAllocMB  float64 `json:"heapAllocMb"`
	HeapInuseMB  float64 `json:"heapInuseMb"`
	HeapObjects  uint64  `json:"heapObjects"`
	SysMB        float64 `json:"sysMb"`
	NumGC        uint32  `json:"numGc"`
}

// CollectRuntimeStats reads the current runtime statistics.
func CollectRuntimeStats() *RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1024 * 1024
	return &RuntimeStats{
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
		HeapAllocMB:  float64(m.HeapAlloc) / mb,
		HeapInuseMB:  float64(m.HeapInuse) / mb,
		HeapObjects:  m.HeapObjects,
		SysMB:        float64(m.Sys) / mb,
		NumGC:        m.NumGC,
	}
}

// ForStatus formats report as JSON or as a markdown document.
func (c *Composer) ForStatus(report StatusReport, format string) (string, error) {
	if report.Timestamp == "" {
		report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if report.Groups == nil {
		report.Groups = []string{}
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}

	switch format {
	case "", FormatJSON:
		return encode(report)
	case FormatMarkdown:
		return formatStatusMarkdown(report)
	default:
		return "", fmt.Errorf("unsupported status format %q", format)
	}
}

func formatStatusMarkdown(report StatusReport) (string, error) {
	var buf strings.Builder

	buf.WriteString("# Server Status\n\n")
	if t, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		fmt.Fprintf(&buf, "**Generated:** %s\n\n", t.Format("January 2, 2006 at 3:04 PM MST"))
	}

	buf.WriteString("## Catalog\n\n")
	if err := writeMarkdownTable(&buf, [][]string{
		{"Server", report.Server},
		{"Version", report.Version},
		{"Scheme", report.Scheme},
		{"State", report.State},
		{"Resources", fmt.Sprintf("%d", report.Resources)},
		{"Manifest Entries", fmt.Sprintf("%d", report.ManifestEntries)},
		{"Groups", strings.Join(report.Groups, ", ")},
		{"Load Warnings", fmt.Sprintf("%d", len(report.Warnings))},
	}); err != nil {
		return "", err
	}

	cache := report.SearchCache
	buf.WriteString("## Search Cache\n\n")
	if err := writeMarkdownTable(&buf, [][]string{
		{"Size", fmt.Sprintf("%d/%d queries", cache.Size, cache.MaxSize)},
		{"Hits", fmt.Sprintf("%d", cache.Hits)},
		{"Misses", fmt.Sprintf("%d", cache.Misses)},
		{"Evictions", fmt.Sprintf("%d", cache.Evictions)},
		{"Hit Rate", fmt.Sprintf("%.2f%%", cache.HitRate())},
	}); err != nil {
		return "", err
	}

	if rt := report.Runtime; rt != nil {
		buf.WriteString("## Runtime\n\n")
		if err := writeMarkdownTable(&buf, [][]string{
			{"Go Version", rt.GoVersion},
			{"CPU Count", fmt.Sprintf("%d", rt.NumCPU)},
			{"Goroutines", fmt.Sprintf("%d", rt.NumGoroutine)},
			{"Heap Allocated", fmt.Sprintf("%.2f MB", rt.HeapAllocMB)},
			{"Heap In Use", fmt.Sprintf("%.2f MB", rt.HeapInuseMB)},
			{"Heap Objects", fmt.Sprintf("%d", rt.HeapObjects)},
			{"System Memory", fmt.Sprintf("%.2f MB", rt.SysMB)},
			{"GC Cycles", fmt.Sprintf("%d", rt.NumGC)},
		}); err != nil {
			return "", err
		}
	}

	if len(report.Metrics) > 0 {
		keys := make([]string, 0, len(report.Metrics))
		for k := range report.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, strconv.FormatFloat(report.Metrics[k], 'f', -1, 64)})
		}
		buf.WriteString("## Metrics\n\n")
		if err := writeMarkdownTable(&buf, rows); err != nil {
			return "", err
		}
	}

	if len(report.Warnings) > 0 {
		buf.WriteString("## Load Warnings\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&buf, "- %s\n", w)
		}
	}

	return buf.String(), nil
}

// writeMarkdownTable renders a two column metric table.
func writeMarkdownTable(buf *strings.Builder, rows [][]string) error {
	table := tablewriter.NewTable(buf,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	table.Header("Metric", "Value")
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build status table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render status table: %w", err)
	}
	buf.WriteString("\n")
	return nil
}
