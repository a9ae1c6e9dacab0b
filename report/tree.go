/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"strings"

	"chainguard.dev/evalkit/runner"
	"chainguard.dev/sdk/pathtree"
)

// Tree renders run results as a definition/variant tree with pass rates,
// average overall scores, and one child node per below-threshold run carrying
// its score and constraint violations. Returns the rendered tree and whether
// any definition or variant fell below the threshold.
func Tree(results []runner.RunResult, threshold float64) (string, bool) {
	groups := groupRuns(results)
	if len(groups) == 0 {
		return "", false
	}

	tree := pathtree.New()
	tree.PrintOption = pathtree.KeyValueLabel
	hasFailure := false

	for _, definitionID := range sortedKeys(groups) {
		variants := groups[definitionID]

		var all []runner.RunResult
		for _, runs := range variants {
			all = append(all, runs...)
		}
		if addGroupNode(tree, definitionID, all, threshold) {
			hasFailure = true
		}

		for _, variantID := range sortedKeys(variants) {
			runs := variants[variantID]
			variantPath := fmt.Sprintf("%s/%s", definitionID, variantID)
			if addGroupNode(tree, variantPath, runs, threshold) {
				hasFailure = true
			}

			// Below-threshold runs become child nodes so the violations
			// that dragged them down are visible without raw result access.
			child := 0
			for _, run := range runs {
				if run.Scores.OverallScore >= threshold {
					continue
				}
				child++
				runPath := fmt.Sprintf("%s/%d", variantPath, child)
				value := fmt.Sprintf("%.2f", run.Scores.OverallScore)
				_ = tree.Add(runPath, value, violationLabel(run))
			}
		}
	}

	return tree.String(), hasFailure
}

// addGroupNode adds one definition or variant node showing pass rate and
// average score, flagged when below the threshold. Reports whether the group
// was flagged.
func addGroupNode(tree *pathtree.Tree, path string, runs []runner.RunResult, threshold float64) bool {
	stats := statsFor(runs, threshold)

	value := fmt.Sprintf("%.1f%% pass, %.2f avg", stats.passRate()*100, stats.avg)
	label := fmt.Sprintf("(%d/%d)", stats.passed, stats.total)

	flagged := stats.belowThreshold(threshold)
	if flagged {
		value = fmt.Sprintf("❌ %s", value)
	}

	if err := tree.Add(path, value, label); err != nil {
		_ = tree.Update(path, value, label)
	}
	return flagged
}

func violationLabel(run runner.RunResult) string {
	if len(run.Scores.Violations) > 0 {
		return strings.Join(run.Scores.Violations, "; ")
	}
	return "overall score below threshold"
}
