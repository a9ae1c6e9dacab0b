/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/scorer"
	"github.com/chainguard-dev/clog"
)

// Matcher grades elements by prompting a model for a verdict. It implements
// scorer.ElementMatcher.
type Matcher struct {
	client llm.Client
}

var _ scorer.ElementMatcher = (*Matcher)(nil)

// New creates a Matcher backed by the given client.
func New(client llm.Client) (*Matcher, error) {
	if client == nil {
		return nil, errors.New("an llm client is required")
	}
	return &Matcher{client: client}, nil
}

// verdict is the JSON object the verdict prompt asks the model to return.
type verdict struct {
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// MatchElement implements scorer.ElementMatcher.
func (m *Matcher) MatchElement(ctx context.Context, response string, element evaldef.Element) (scorer.ElementResult, error) {
	prompt, err := bindVerdictPrompt(response, element)
	if err != nil {
		return scorer.ElementResult{}, fmt.Errorf("binding verdict prompt for element %q: %w", element.ID, err)
	}
	text, err := prompt.Build()
	if err != nil {
		return scorer.ElementResult{}, fmt.Errorf("building verdict prompt for element %q: %w", element.ID, err)
	}

	gen, err := m.client.GenerateWithTools(ctx, []llm.Message{llm.UserMessage(text)}, llm.GenerateOptions{})
	if err != nil {
		return scorer.ElementResult{}, fmt.Errorf("judging element %q: %w", element.ID, err)
	}

	v, err := llm.Extract[verdict](gen.Content)
	if err != nil {
		return scorer.ElementResult{}, fmt.Errorf("parsing verdict for element %q: %w", element.ID, err)
	}

	confidence := min(max(v.Confidence, 0), 1)
	clog.FromContext(ctx).With("element", element.ID, "model", m.client.Model()).
		Debug("Judged element", "matched", v.Matched, "confidence", confidence)

	return scorer.ElementResult{
		ElementID:   element.ID,
		Matched:     v.Matched,
		Confidence:  confidence,
		Explanation: v.Reasoning,
	}, nil
}
