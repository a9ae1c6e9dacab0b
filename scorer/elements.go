/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer

import (
	"context"
	"strings"

	"chainguard.dev/evalkit/evaldef"
)

// ElementResult is the graded outcome for one expected response element.
type ElementResult struct {
	// ElementID names the element this result grades.
	ElementID string

	// Matched is the pass/fail view used for aggregate pass rates.
	Matched bool

	// Confidence is how strongly the response exhibits the element, in [0,1].
	Confidence float64

	// Explanation optionally says what the matcher saw.
	Explanation string
}

// ElementMatcher decides how strongly a response exhibits one expected
// element. Implementations may call out to similarity services; the returned
// confidence must be in [0,1].
type ElementMatcher interface {
	MatchElement(ctx context.Context, response string, element evaldef.Element) (ElementResult, error)
}

// KeywordMatcher is the deterministic default matcher. Confidence is the
// fraction of the element's keywords the response mentions,
// case-insensitively, and the element counts as matched at confidence 0.5 or
// above. With no keywords declared it falls back to the words of the element
// description.
type KeywordMatcher struct{}

// MatchElement implements ElementMatcher.
func (KeywordMatcher) MatchElement(_ context.Context, response string, element evaldef.Element) (ElementResult, error) {
	keywords := element.Keywords
	if len(keywords) == 0 {
		keywords = strings.Fields(element.Description)
	}
	var confidence float64
	if len(keywords) > 0 {
		confidence = keywordFraction(response, keywords)
	}
	return ElementResult{
		ElementID:  element.ID,
		Matched:    confidence >= 0.5,
		Confidence: confidence,
	}, nil
}

// CalculateElementScore combines per-element confidences into the weighted
// response-quality score: the sum of confidence times weight over the total
// weight, pairing results to elements by ID. Elements without a result count
// as zero confidence. An empty element list scores zero.
func CalculateElementScore(elements []evaldef.Element, results []ElementResult) float64 {
	if len(elements) == 0 {
		return 0
	}
	confidence := make(map[string]float64, len(results))
	for _, r := range results {
		confidence[r.ElementID] = r.Confidence
	}
	var weighted, total float64
	for _, el := range elements {
		w := el.EffectiveWeight()
		weighted += confidence[el.ID] * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return clamp01(weighted / total)
}
