/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statistics

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Recommendation is the verdict of a baseline-versus-alternative comparison.
type Recommendation string

const (
	// RecommendInconclusive means the comparison cannot support a change in
	// either direction.
	RecommendInconclusive Recommendation = "inconclusive"

	// RecommendAdoptAlternative means the alternative is significantly
	// better.
	RecommendAdoptAlternative Recommendation = "adopt-alternative"

	// RecommendKeepBaseline means the baseline is significantly better.
	RecommendKeepBaseline Recommendation = "keep-baseline"
)

// Effect size interpretations, per Cohen's conventions.
const (
	EffectNegligible = "negligible"
	EffectSmall      = "small"
	EffectMedium     = "medium"
	EffectLarge      = "large"
)

// ComparisonResult is the outcome of Welch's t-test between two variants.
type ComparisonResult struct {
	PValue           float64
	TStatistic       float64
	DegreesOfFreedom float64

	// IsSignificant is whether PValue fell below the engine's significance
	// level.
	IsSignificant bool

	// EffectSize is Cohen's d, positive when the alternative mean is higher.
	EffectSize               float64
	EffectSizeInterpretation string

	// OverallScoreDifference is alternative mean minus baseline mean.
	OverallScoreDifference float64

	Recommendation Recommendation
}

// WelchTTest compares the overall-score samples of two variants with Welch's
// t-test, which does not assume equal variances. Fewer than two samples in
// either group, or zero variance in both, cannot support an inference and
// report an explicit inconclusive result with a p-value of 1 instead of a
// meaningless statistic.
func (e *Engine) WelchTTest(baseline, alternative AggregatedResult) ComparisonResult {
	base := baseline.OverallScore.Samples
	alt := alternative.OverallScore.Samples

	diff := alternative.OverallScore.Mean - baseline.OverallScore.Mean
	res := ComparisonResult{
		PValue:                   1,
		EffectSizeInterpretation: InterpretEffectSize(0),
		OverallScoreDifference:   diff,
		Recommendation:           RecommendInconclusive,
	}

	n1, n2 := len(base), len(alt)
	if n1 < 2 || n2 < 2 {
		return res
	}

	v1, _ := stats.SampleVariance(base)
	v2, _ := stats.SampleVariance(alt)
	fn1, fn2 := float64(n1), float64(n2)

	se := math.Sqrt(v1/fn1 + v2/fn2)
	if se == 0 {
		// Zero variance in both groups: the samples carry no spread to test
		// against, so report inconclusive rather than NaN.
		res.DegreesOfFreedom = fn1 + fn2 - 2
		return res
	}

	t := diff / se

	// Welch-Satterthwaite degrees of freedom. The denominator is zero only
	// when both variances are, which the branch above already handled.
	num := math.Pow(v1/fn1+v2/fn2, 2)
	den := math.Pow(v1/fn1, 2)/(fn1-1) + math.Pow(v2/fn2, 2)/(fn2-1)
	df := num / den

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	// Cohen's d against the pooled standard deviation. Pooled variance is
	// positive whenever the standard error is.
	pooled := math.Sqrt(((fn1-1)*v1 + (fn2-1)*v2) / (fn1 + fn2 - 2))
	d := diff / pooled

	res.PValue = p
	res.TStatistic = t
	res.DegreesOfFreedom = df
	res.IsSignificant = p < e.significance
	res.EffectSize = d
	res.EffectSizeInterpretation = InterpretEffectSize(d)

	switch {
	case !res.IsSignificant:
		res.Recommendation = RecommendInconclusive
	case diff > 0:
		res.Recommendation = RecommendAdoptAlternative
	case diff < 0:
		res.Recommendation = RecommendKeepBaseline
	default:
		res.Recommendation = RecommendInconclusive
	}
	return res
}

// InterpretEffectSize buckets Cohen's d by magnitude, ignoring sign.
func InterpretEffectSize(d float64) string {
	switch abs := math.Abs(d); {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// PercentageImprovement is the relative change from baseline to updated as a
// percentage. A zero baseline cannot be divided by: any positive updated
// value reports 100, no change reports 0, and a negative updated value
// reports -100.
func PercentageImprovement(baseline, updated float64) float64 {
	if baseline == 0 {
		switch {
		case updated > 0:
			return 100
		case updated < 0:
			return -100
		}
		return 0
	}
	return (updated - baseline) / baseline * 100
}
