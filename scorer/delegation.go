/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer

import (
	"strings"

	"chainguard.dev/evalkit/delegatetool"
	"chainguard.dev/evalkit/evaldef"
)

const (
	alignedBase    = 0.85
	mismatchScore  = 0.3
	agentTypeBonus = 0.1
	rationaleBonus = 0.05
)

// ScoreDelegation grades the run's delegation decision against the declared
// expectation. An aligned decision scores above 0.8, a mismatched one below
// 0.5. Aligned decisions earn bonuses for naming the expected agent type and
// for a rationale mentioning the expected keywords; expectations left
// undeclared award their bonus in full, so a run meeting every declared
// expectation scores 1. With no delegation expectations at all the dimension
// is perfect.
func ScoreDelegation(expect *evaldef.DelegationExpectations, decision delegatetool.Decision) float64 {
	if expect == nil {
		return 1
	}
	if decision.Delegated != expect.ShouldDelegate {
		return mismatchScore
	}

	score := alignedBase
	if expect.ExpectedAgentType == "" || strings.EqualFold(decision.AgentType, expect.ExpectedAgentType) {
		score += agentTypeBonus
	}
	score += rationaleBonus * keywordFraction(decision.Rationale, expect.RationaleShouldMention)
	return clamp01(score)
}

// keywordFraction returns the fraction of keywords the text mentions,
// case-insensitively. An empty keyword list counts as fully mentioned.
func keywordFraction(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1
	}
	lower := strings.ToLower(text)
	found := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}
