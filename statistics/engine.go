/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statistics

const (
	// DefaultSignificanceLevel is the alpha below which a p-value counts as
	// significant.
	DefaultSignificanceLevel = 0.05

	// DefaultMinOutlierSamples is the smallest sample count outlier detection
	// will run on. Quartile fences on fewer points are noise.
	DefaultMinOutlierSamples = 4

	// confidenceLevel is the two-sided confidence level for summary
	// intervals.
	confidenceLevel = 0.95
)

// Engine computes descriptive summaries and variant comparisons. The zero
// value is not usable; construct with New.
type Engine struct {
	significance      float64
	minOutlierSamples int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSignificanceLevel overrides the default 0.05 alpha.
func WithSignificanceLevel(alpha float64) Option {
	return func(e *Engine) { e.significance = alpha }
}

// WithMinOutlierSamples overrides the minimum sample count for outlier
// detection.
func WithMinOutlierSamples(n int) Option {
	return func(e *Engine) { e.minOutlierSamples = n }
}

// New builds an Engine with the default significance level and outlier
// threshold.
func New(opts ...Option) *Engine {
	e := &Engine{
		significance:      DefaultSignificanceLevel,
		minOutlierSamples: DefaultMinOutlierSamples,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
