/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statistics

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary is a fresh descriptive summary of one scalar metric. It is computed
// once and never mutated; Samples holds the input verbatim.
type Summary struct {
	Mean   float64
	Median float64

	// StdDev is the sample standard deviation (N-1 denominator), 0 for fewer
	// than two samples.
	StdDev float64

	Min float64
	Max float64

	// ConfidenceInterval is the two-sided ~95% interval for the mean from the
	// t-distribution at n-1 degrees of freedom. [0, 0] for no samples; a
	// single sample collapses the interval onto the mean.
	ConfidenceInterval [2]float64

	Samples []float64
}

// Summarize computes a Summary over the samples. Degenerate inputs take
// explicit branches rather than propagating NaN.
func (e *Engine) Summarize(samples []float64) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{Samples: []float64{}}
	}

	retained := make([]float64, n)
	copy(retained, samples)

	mean, _ := stats.Mean(retained)
	median, _ := stats.Median(retained)
	min, _ := stats.Min(retained)
	max, _ := stats.Max(retained)

	var stdDev float64
	if n > 1 {
		stdDev, _ = stats.StandardDeviationSample(retained)
	}

	ci := [2]float64{mean, mean}
	if n > 1 && stdDev > 0 {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
		crit := t.Quantile(0.5 + confidenceLevel/2)
		margin := crit * stdDev / math.Sqrt(float64(n))
		ci = [2]float64{mean - margin, mean + margin}
	}

	return Summary{
		Mean:               mean,
		Median:             median,
		StdDev:             stdDev,
		Min:                min,
		Max:                max,
		ConfidenceInterval: ci,
		Samples:            retained,
	}
}

// FormatSummary renders the canonical one-line form,
// "mean ± stdDev [ciLow, ciHigh]", with three decimal places throughout.
func FormatSummary(s Summary) string {
	return fmt.Sprintf("%.3f ± %.3f [%.3f, %.3f]",
		s.Mean, s.StdDev, s.ConfidenceInterval[0], s.ConfidenceInterval[1])
}
