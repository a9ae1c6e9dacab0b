/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"sort"

	"chainguard.dev/evalkit/runner"
)

// Generator renders a plain-text report over a batch of run results. It
// returns the rendered report and whether any definition or variant fell
// below the threshold, so callers can gate exit codes on the boolean.
type Generator func(results []runner.RunResult, threshold float64) (string, bool)

// groupRuns indexes results by definition ID, then variant ID.
func groupRuns(results []runner.RunResult) map[string]map[string][]runner.RunResult {
	groups := make(map[string]map[string][]runner.RunResult)
	for _, result := range results {
		variants, ok := groups[result.DefinitionID]
		if !ok {
			variants = make(map[string][]runner.RunResult)
			groups[result.DefinitionID] = variants
		}
		variants[result.VariantID] = append(variants[result.VariantID], result)
	}
	return groups
}

// sortedKeys returns the map's keys in ascending order for deterministic
// report output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// groupStats aggregates one group of runs. A run passes when its overall
// score meets the threshold.
type groupStats struct {
	passed int
	total  int
	avg    float64
}

func statsFor(runs []runner.RunResult, threshold float64) groupStats {
	stats := groupStats{total: len(runs)}
	var sum float64
	for _, run := range runs {
		sum += run.Scores.OverallScore
		if run.Scores.OverallScore >= threshold {
			stats.passed++
		}
	}
	if stats.total > 0 {
		stats.avg = sum / float64(stats.total)
	}
	return stats
}

func (s groupStats) passRate() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.passed) / float64(s.total)
}

func (s groupStats) belowThreshold(threshold float64) bool {
	return s.passRate() < threshold || s.avg < threshold
}
