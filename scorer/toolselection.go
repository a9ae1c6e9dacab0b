/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer

import (
	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/toolexec"
)

// forbiddenPenalty is deducted per distinct forbidden tool that was called.
const forbiddenPenalty = 0.25

// ScoreToolSelection grades which tools a run called against the declared
// expectations and returns the calls annotated with WasExpected and
// WasForbidden. The score is matched-required over total-required, reduced by
// forbiddenPenalty per distinct forbidden tool called. With no expectations
// declared the score is perfect: absence of expectation is not failure.
func ScoreToolSelection(expect *evaldef.ToolExpectations, calls []toolexec.RecordedToolCall) (float64, []toolexec.RecordedToolCall) {
	annotated := make([]toolexec.RecordedToolCall, len(calls))
	copy(annotated, calls)

	if expect == nil {
		return 1, annotated
	}

	required := make(map[string]bool, len(expect.Required))
	for _, req := range expect.Required {
		required[req.Name] = true
	}
	forbidden := make(map[string]bool, len(expect.Forbidden))
	for _, name := range expect.Forbidden {
		forbidden[name] = true
	}

	called := make(map[string]bool, len(calls))
	for i := range annotated {
		name := annotated[i].ToolName
		called[name] = true
		annotated[i].WasExpected = required[name]
		annotated[i].WasForbidden = forbidden[name]
	}

	score := 1.0
	if len(expect.Required) > 0 {
		matched := 0
		for name := range required {
			if called[name] {
				matched++
			}
		}
		score = float64(matched) / float64(len(required))
	}

	for name := range forbidden {
		if called[name] {
			score -= forbiddenPenalty
		}
	}

	return clamp01(score), annotated
}

// ScoreRequiredParameters grades the parameter expectations attached to
// required tools. Each expecting tool is checked against its first recorded
// call; a tool that was never called fails every expected field. The
// dimension is the mean across expecting tools, or perfect when none declare
// parameter expectations.
func ScoreRequiredParameters(expect *evaldef.ToolExpectations, calls []toolexec.RecordedToolCall) float64 {
	if expect == nil {
		return 1
	}

	firstCall := make(map[string]map[string]any, len(calls))
	for _, call := range calls {
		if _, ok := firstCall[call.ToolName]; !ok {
			firstCall[call.ToolName] = call.Parameters
		}
	}

	var sum float64
	var scored int
	for _, req := range expect.Required {
		if len(req.Parameters) == 0 {
			continue
		}
		sum += ScoreParameters(firstCall[req.Name], req.Parameters)
		scored++
	}
	if scored == 0 {
		return 1
	}
	return clamp01(sum / float64(scored))
}
