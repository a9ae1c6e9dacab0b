/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"time"

	"chainguard.dev/evalkit/delegatetool"
	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/scorer"
)

// TokenUsage accumulates model token counts across the iterations of one run.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// add accumulates another iteration's usage.
func (u TokenUsage) add(other TokenUsage) TokenUsage {
	return TokenUsage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// RunResult is the immutable output of one evaluation run. Batch helpers and
// the statistics engine consume it as plain data.
type RunResult struct {
	// ID uniquely identifies the run.
	ID string

	// DefinitionID and VariantID name what was run.
	DefinitionID string
	VariantID    string

	// Timestamp is when the run started.
	Timestamp time.Time

	// Response is the model's final text response. On tool-loop exhaustion it
	// is a placeholder rather than real model output.
	Response string

	// Scores is the full scoring breakdown, including annotated tool calls,
	// element results, and constraint violations.
	Scores scorer.Breakdown

	// Iterations is how many model round trips the tool loop used.
	Iterations int

	// Latency is the wall-clock duration of the run.
	Latency time.Duration

	// Usage is the token usage accumulated across all iterations.
	Usage TokenUsage

	// Delegation is the parsed delegation decision for supervisor-target
	// definitions, nil otherwise.
	Delegation *delegatetool.Decision

	// Snapshots holds capture-mode mock snapshots (last call wins per tool),
	// nil outside capture mode.
	Snapshots map[string]evaldef.MockedToolOutput
}
