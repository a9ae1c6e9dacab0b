/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"

	"chainguard.dev/evalkit/runner"
)

// Summary renders a markdown grid of definitions against variants. Cells
// show the average overall score as a percentage, with pass counts when a
// cell covers more than one run, and a trailing column averages each
// definition across all variants. Cells and averages below the threshold are
// flagged. Returns the rendered table and whether anything was flagged.
func Summary(results []runner.RunResult, threshold float64) (string, bool) {
	groups := groupRuns(results)
	if len(groups) == 0 {
		return "", false
	}

	variantSet := make(map[string]struct{})
	for _, variants := range groups {
		for variantID := range variants {
			variantSet[variantID] = struct{}{}
		}
	}
	variantIDs := sortedKeys(variantSet)

	headers := append([]string{"Definition"}, variantIDs...)
	headers = append(headers, "Average")

	hasFailure := false
	rows := make([][]string, 0, len(groups))
	for _, definitionID := range sortedKeys(groups) {
		variants := groups[definitionID]

		row := []string{definitionID}
		var sum float64
		for _, variantID := range variantIDs {
			runs := variants[variantID]
			if len(runs) == 0 {
				// A definition never run against this variant contributes 0
				// to its average.
				row = append(row, "-")
				continue
			}

			stats := statsFor(runs, threshold)
			value := stats.avg * 100
			sum += value

			cell := fmt.Sprintf("%.1f%%", value)
			if stats.total > 1 {
				cell = fmt.Sprintf("%d/%d (%.1f%%)", stats.passed, stats.total, value)
			}
			if value < threshold*100 {
				cell = fmt.Sprintf("❌ %s", cell)
				hasFailure = true
			}
			row = append(row, cell)
		}

		avg := sum / float64(len(variantIDs))
		if avg < threshold*100 {
			row = append(row, fmt.Sprintf("❌ %.1f%%", avg))
			hasFailure = true
		} else {
			row = append(row, fmt.Sprintf("%.1f%%", avg))
		}
		rows = append(rows, row)
	}

	return fmt.Sprintf("## Summary\n\n%s", renderTable(headers, rows)), hasFailure
}
