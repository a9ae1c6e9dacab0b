/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statistics

import (
	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/runner"
)

// AggregatedResult is one variant's worth of runs with fresh descriptive
// summaries per scalar metric.
type AggregatedResult struct {
	// VariantID names the variant the runs belong to.
	VariantID string

	// Runs are the raw results, retained verbatim.
	Runs []runner.RunResult

	ToolSelectionScore   Summary
	ResponseQualityScore Summary
	OverallScore         Summary

	// Latency summarizes run durations in seconds.
	Latency Summary

	// ElementPassRates maps each element ID seen across the runs to the
	// fraction of runs in which it matched.
	ElementPassRates map[string]float64
}

// AggregateResults groups raw run results for one variant into per-metric
// summaries and element pass rates. An empty run list yields zeroed
// summaries, never an error, so a degenerate group still shows up in
// comparisons.
func (e *Engine) AggregateResults(runs []runner.RunResult, variant evaldef.Variant) AggregatedResult {
	toolSelection := make([]float64, 0, len(runs))
	responseQuality := make([]float64, 0, len(runs))
	overall := make([]float64, 0, len(runs))
	latency := make([]float64, 0, len(runs))

	matched := make(map[string]int)
	for _, run := range runs {
		toolSelection = append(toolSelection, run.Scores.ToolSelectionScore)
		responseQuality = append(responseQuality, run.Scores.ResponseQualityScore)
		overall = append(overall, run.Scores.OverallScore)
		latency = append(latency, run.Latency.Seconds())

		for _, el := range run.Scores.Elements {
			count := matched[el.ElementID]
			if el.Matched {
				count++
			}
			matched[el.ElementID] = count
		}
	}

	passRates := make(map[string]float64, len(matched))
	if len(runs) > 0 {
		for id, count := range matched {
			passRates[id] = float64(count) / float64(len(runs))
		}
	}

	return AggregatedResult{
		VariantID:            variant.ID,
		Runs:                 runs,
		ToolSelectionScore:   e.Summarize(toolSelection),
		ResponseQualityScore: e.Summarize(responseQuality),
		OverallScore:         e.Summarize(overall),
		Latency:              e.Summarize(latency),
		ElementPassRates:     passRates,
	}
}
