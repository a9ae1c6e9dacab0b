/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statistics

import "github.com/montanaflynn/stats"

// Outlier detection method strings.
const (
	MethodIQR              = "IQR"
	MethodInsufficientData = "insufficient-data"
)

// OutlierReport names which sample indices fall outside Tukey's fences.
type OutlierReport struct {
	// Indices are positions in the original sample slice, ascending.
	Indices []int

	// Method is MethodIQR, or MethodInsufficientData when the sample count
	// was below the engine's minimum and no detection ran.
	Method string

	// LowerBound and UpperBound are the Tukey fences, Q1-1.5*IQR and
	// Q3+1.5*IQR. Zero when no detection ran.
	LowerBound float64
	UpperBound float64
}

// DetectOutliers flags samples outside the Tukey fences. Below the engine's
// minimum sample count it returns no indices and says so, because quartiles
// of a handful of points do not mean anything.
func (e *Engine) DetectOutliers(samples []float64) OutlierReport {
	if len(samples) < e.minOutlierSamples {
		return OutlierReport{Method: MethodInsufficientData}
	}

	q, err := stats.Quartile(samples)
	if err != nil {
		return OutlierReport{Method: MethodInsufficientData}
	}
	iqr := q.Q3 - q.Q1

	report := OutlierReport{
		Method:     MethodIQR,
		LowerBound: q.Q1 - 1.5*iqr,
		UpperBound: q.Q3 + 1.5*iqr,
	}
	for i, v := range samples {
		if v < report.LowerBound || v > report.UpperBound {
			report.Indices = append(report.Indices, i)
		}
	}
	return report
}
