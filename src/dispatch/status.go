// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dispatch

import "github.com/H0llyW00dzZ/mcp-pattern-server/src/composer"

// Status builds a report of the dispatcher and its catalog. Runtime
// statistics and metric values are only collected when detailed is set.
func (d *Dispatcher) Status(detailed bool) composer.StatusReport {
	report := composer.StatusReport{
		Server:          d.serverName,
		Version:         d.version,
		Scheme:          d.scheme,
		State:           d.State().String(),
		Resources:       len(d.cat.Names()),
		ManifestEntries: len(d.cat.Entries()),
		Groups:          d.cat.Groups(),
		SearchCache:     d.engine.CacheStats(),
	}

	warnings := d.cat.Warnings()
	report.Warnings = make([]string, 0, len(warnings))
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}

	if detailed {
		report.Runtime = composer.CollectRuntimeStats()
		if snap, err := d.metrics.Snapshot(); err != nil {
			d.log.Warnf("status metrics unavailable: %v", err)
		} else if len(snap) > 0 {
			report.Metrics = snap
		}
	}
	return report
}
