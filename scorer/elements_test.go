/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer_test

import (
	"context"
	"testing"

	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/scorer"
)

func TestKeywordMatcher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	element := evaldef.Element{
		ID:       "mentions-refund-policy",
		Keywords: []string{"refund", "30 days", "receipt", "store credit"},
	}

	tests := []struct {
		name        string
		response    string
		wantConf    float64
		wantMatched bool
	}{{
		name:        "all keywords present",
		response:    "Refunds need a receipt within 30 days, otherwise store credit.",
		wantConf:    1,
		wantMatched: true,
	}, {
		name:        "half of the keywords present",
		response:    "We offer a refund within 30 days.",
		wantConf:    0.5,
		wantMatched: true,
	}, {
		name:        "one keyword present",
		response:    "Keep your receipt.",
		wantConf:    0.25,
		wantMatched: false,
	}, {
		name:        "matching ignores case",
		response:    "REFUND with RECEIPT, 30 DAYS, STORE CREDIT.",
		wantConf:    1,
		wantMatched: true,
	}, {
		name:        "nothing present",
		response:    "Please contact support.",
		wantConf:    0,
		wantMatched: false,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := scorer.KeywordMatcher{}.MatchElement(ctx, test.response, element)
			if err != nil {
				t.Fatalf("MatchElement() = %v, wanted nil", err)
			}
			if got.ElementID != element.ID {
				t.Errorf("ElementID = %q, wanted %q", got.ElementID, element.ID)
			}
			if !within(got.Confidence, test.wantConf) {
				t.Errorf("Confidence = %v, wanted %v", got.Confidence, test.wantConf)
			}
			if got.Matched != test.wantMatched {
				t.Errorf("Matched = %t, wanted %t", got.Matched, test.wantMatched)
			}
		})
	}

	t.Run("falls back to description words", func(t *testing.T) {
		t.Parallel()
		el := evaldef.Element{ID: "thanks", Description: "thanks the customer"}
		got, err := scorer.KeywordMatcher{}.MatchElement(ctx, "Thanks to the customer for their patience.", el)
		if err != nil {
			t.Fatalf("MatchElement() = %v, wanted nil", err)
		}
		if !got.Matched {
			t.Errorf("Matched = false, wanted true (confidence %v)", got.Confidence)
		}
	})
}

func TestCalculateElementScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		elements []evaldef.Element
		results  []scorer.ElementResult
		want     float64
	}{{
		name: "weighted combination",
		elements: []evaldef.Element{
			{ID: "e1", Weight: 3},
			{ID: "e2", Weight: 1},
		},
		results: []scorer.ElementResult{
			{ElementID: "e1", Confidence: 1.0},
			{ElementID: "e2", Confidence: 0.0},
		},
		want: 0.75,
	}, {
		name:     "empty element list scores zero",
		elements: nil,
		results:  nil,
		want:     0,
	}, {
		name: "zero weight defaults to one",
		elements: []evaldef.Element{
			{ID: "e1"},
			{ID: "e2"},
		},
		results: []scorer.ElementResult{
			{ElementID: "e1", Confidence: 1.0},
			{ElementID: "e2", Confidence: 0.0},
		},
		want: 0.5,
	}, {
		name: "element without a result counts as zero",
		elements: []evaldef.Element{
			{ID: "e1"},
			{ID: "e2"},
		},
		results: []scorer.ElementResult{
			{ElementID: "e1", Confidence: 1.0},
		},
		want: 0.5,
	}, {
		name: "partial confidences",
		elements: []evaldef.Element{
			{ID: "e1", Weight: 2},
			{ID: "e2", Weight: 2},
		},
		results: []scorer.ElementResult{
			{ElementID: "e1", Confidence: 0.5},
			{ElementID: "e2", Confidence: 0.25},
		},
		want: 0.375,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := scorer.CalculateElementScore(test.elements, test.results); !within(got, test.want) {
				t.Errorf("CalculateElementScore() = %v, wanted %v", got, test.want)
			}
		})
	}
}
