/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package statistics aggregates run results per variant and decides, with
// inferential rigor, whether an alternative variant beats a baseline.
//
// Descriptive summaries (mean, median, sample standard deviation, a
// t-distribution confidence interval) feed Welch's t-test on the overall
// score samples of two variants. The comparison reports a two-sided p-value,
// Cohen's d with a conventional interpretation, and one of three
// recommendations: adopt-alternative, keep-baseline, or inconclusive.
//
// Degenerate inputs take explicit branches: fewer than two samples per group
// is always inconclusive with a p-value of 1, a single sample has standard
// deviation 0 rather than NaN, and zero variance in both groups never
// produces NaN or infinity. Outlier detection uses Tukey's 1.5 IQR fences and
// declines to guess below a minimum sample count.
package statistics
