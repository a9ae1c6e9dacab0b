/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer

import (
	"context"
	"fmt"

	"chainguard.dev/evalkit/delegatetool"
	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/toolexec"
)

// Weights are the relative weights of the four scoring dimensions in the
// overall score. Zero fields mean 1.
type Weights struct {
	ToolSelection   float64
	Parameters      float64
	ResponseQuality float64
	Delegation      float64
}

func (w Weights) normalized() Weights {
	or := func(v float64) float64 {
		if v == 0 {
			return 1
		}
		return v
	}
	return Weights{
		ToolSelection:   or(w.ToolSelection),
		Parameters:      or(w.Parameters),
		ResponseQuality: or(w.ResponseQuality),
		Delegation:      or(w.Delegation),
	}
}

// Breakdown is the scored view of one run.
type Breakdown struct {
	ToolSelectionScore   float64
	ParameterScore       float64
	ResponseQualityScore float64
	DelegationScore      float64
	OverallScore         float64

	// Elements holds per-element confidence and pass/fail.
	Elements []ElementResult

	// Violations are constraint violations found on the response text.
	Violations []string

	// Calls are the recorded tool calls annotated with WasExpected and
	// WasForbidden.
	Calls []toolexec.RecordedToolCall
}

// Scorer scores runs against definitions.
type Scorer struct {
	weights Weights
	matcher ElementMatcher
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default equal dimension weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithElementMatcher overrides the default keyword matcher.
func WithElementMatcher(m ElementMatcher) Option {
	return func(s *Scorer) { s.matcher = m }
}

// New builds a Scorer with equal dimension weights and the deterministic
// keyword matcher.
func New(opts ...Option) *Scorer {
	s := &Scorer{matcher: KeywordMatcher{}}
	for _, opt := range opts {
		opt(s)
	}
	s.weights = s.weights.normalized()
	return s
}

// ScoreRun scores one run against the definition's expectations. The only
// error source is the element matcher; all other scoring is total.
func (s *Scorer) ScoreRun(ctx context.Context, def *evaldef.Definition, response string, calls []toolexec.RecordedToolCall, decision delegatetool.Decision) (Breakdown, error) {
	b := Breakdown{}

	b.ToolSelectionScore, b.Calls = ScoreToolSelection(def.Expectations.Tools, calls)
	b.ParameterScore = ScoreRequiredParameters(def.Expectations.Tools, calls)
	b.Violations = CheckConstraints(response, def.Constraints)
	b.DelegationScore = ScoreDelegation(def.Expectations.Delegation, decision)

	var elements []evaldef.Element
	if def.Expectations.Response != nil {
		elements = def.Expectations.Response.Elements
	}
	for _, el := range elements {
		res, err := s.matcher.MatchElement(ctx, response, el)
		if err != nil {
			return Breakdown{}, fmt.Errorf("matching element %q: %w", el.ID, err)
		}
		b.Elements = append(b.Elements, res)
	}
	// An empty element list scores zero: nothing checked is not perfect.
	b.ResponseQualityScore = CalculateElementScore(elements, b.Elements)

	b.OverallScore = s.Overall(b)
	return b, nil
}

// Overall combines the four dimension scores with the configured weights.
func (s *Scorer) Overall(b Breakdown) float64 {
	w := s.weights
	sum := b.ToolSelectionScore*w.ToolSelection +
		b.ParameterScore*w.Parameters +
		b.ResponseQualityScore*w.ResponseQuality +
		b.DelegationScore*w.Delegation
	total := w.ToolSelection + w.Parameters + w.ResponseQuality + w.Delegation
	return clamp01(sum / total)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
