/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders evaluation results as plain-text markdown for logs
// and CLI output. Rendering is presentation only: nothing here defines a
// serialization contract.
//
// Two generators share the Generator signature and take raw run results plus
// a pass threshold:
//
//   - Tree renders a definition/variant hierarchy with pass rates, average
//     scores, and the violations of below-threshold runs.
//   - Summary renders a definitions-by-variants grid of score percentages
//     with a per-definition average column.
//
// Both return the rendered report and whether anything fell below the
// threshold, so a caller can gate an exit code:
//
//	out, failed := report.Tree(results, 0.8)
//	fmt.Print(out)
//	if failed {
//		os.Exit(1)
//	}
//
// Compare takes the statistics package's aggregates and Welch's t-test
// outcome for two variants and renders per-metric summaries, element pass
// rates, the test statistics, and a recommendation.
//
// All functions are pure and safe for concurrent use.
package report
