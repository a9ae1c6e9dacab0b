/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaldef

import (
	"errors"
	"fmt"
)

// ToolMode selects how tool calls are satisfied during a run.
type ToolMode string

const (
	// ToolModeMocked satisfies tool calls from pre-declared MockedToolOutput
	// fixtures. Unknown tool names fail explicitly.
	ToolModeMocked ToolMode = "mocked"

	// ToolModeLive delegates tool calls to the platform's real executor.
	ToolModeLive ToolMode = "live"

	// ToolModeCapture behaves like live, but the run's recorded results are
	// condensed into mock snapshots for later deterministic replay.
	ToolModeCapture ToolMode = "capture"
)

// ErrNoMock is returned when a mocked executor receives a tool name it has no
// fixture for.
var ErrNoMock = errors.New("no mocked output declared for tool")

// TargetSupervisor is the TargetAgent value for definitions evaluating a
// supervisor agent. Their runs are offered the delegate tool and scanned for
// a delegation decision.
const TargetSupervisor = "supervisor"

// Definition is the immutable input to a single evaluation: one test case plus
// the declarative expectations it is scored against.
type Definition struct {
	// ID uniquely identifies the definition within a suite.
	ID string `yaml:"id"`

	// Name is a human-readable title.
	Name string `yaml:"name"`

	// Description explains what behavior the definition exercises.
	Description string `yaml:"description,omitempty"`

	// TargetAgent names the agent type under evaluation. Definitions
	// targeting "supervisor" additionally have their runs scanned for a
	// delegation decision.
	TargetAgent string `yaml:"targetAgent,omitempty"`

	// TestCase is the conversation seed for each run.
	TestCase TestCase `yaml:"testCase"`

	// Expectations declare what a good run looks like. Any group may be nil;
	// absent expectations never count against a run.
	Expectations Expectations `yaml:"expectations,omitempty"`

	// Constraints are hard checks applied to the raw response text.
	Constraints *Constraints `yaml:"constraints,omitempty"`

	// ToolMode selects mocked, live, or capture execution. Empty means mocked.
	ToolMode ToolMode `yaml:"toolMode,omitempty"`

	// MockedOutputs maps tool name to the fixture served in mocked mode.
	MockedOutputs map[string]MockedToolOutput `yaml:"mockedOutputs,omitempty"`
}

// TestCase seeds the conversation for a run.
type TestCase struct {
	// Prompt is the user message that starts (or continues) the conversation.
	Prompt string `yaml:"prompt"`

	// History holds prior conversation turns, oldest first.
	History []ConversationTurn `yaml:"history,omitempty"`
}

// ConversationTurn is a single prior message in a test case's history.
type ConversationTurn struct {
	Role    string `yaml:"role"` // "user" or "assistant"
	Content string `yaml:"content"`
}

// Variant names a prompt/configuration under evaluation.
type Variant struct {
	// ID distinguishes the variant in results and reports, e.g. "baseline".
	ID string `yaml:"id"`

	// PromptTarget is resolved to a system prompt through the prompt loader.
	PromptTarget string `yaml:"promptTarget"`

	// Model optionally overrides the engine's default model for this variant.
	Model string `yaml:"model,omitempty"`
}

// EffectiveToolMode returns the definition's tool mode with the mocked default
// applied.
func (d *Definition) EffectiveToolMode() ToolMode {
	if d.ToolMode == "" {
		return ToolModeMocked
	}
	return d.ToolMode
}

// Validate checks the definition for configuration errors. It returns an error
// naming the first offending field, or nil.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return errors.New("definition id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("definition %q: name must not be empty", d.ID)
	}
	if d.TestCase.Prompt == "" {
		return fmt.Errorf("definition %q: testCase.prompt must not be empty", d.ID)
	}
	for i, turn := range d.TestCase.History {
		if turn.Role != "user" && turn.Role != "assistant" {
			return fmt.Errorf("definition %q: history[%d].role must be \"user\" or \"assistant\", got %q", d.ID, i, turn.Role)
		}
	}
	switch d.EffectiveToolMode() {
	case ToolModeMocked, ToolModeLive, ToolModeCapture:
	default:
		return fmt.Errorf("definition %q: unknown tool mode %q", d.ID, d.ToolMode)
	}
	for name, mock := range d.MockedOutputs {
		if err := mock.validate(); err != nil {
			return fmt.Errorf("definition %q: mockedOutputs[%q]: %w", d.ID, name, err)
		}
	}
	if err := d.Expectations.validate(); err != nil {
		return fmt.Errorf("definition %q: %w", d.ID, err)
	}
	if d.Constraints != nil {
		if err := d.Constraints.validate(); err != nil {
			return fmt.Errorf("definition %q: %w", d.ID, err)
		}
	}
	return nil
}

// Validate checks the variant for configuration errors.
func (v *Variant) Validate() error {
	if v.ID == "" {
		return errors.New("variant id must not be empty")
	}
	if v.PromptTarget == "" {
		return fmt.Errorf("variant %q: promptTarget must not be empty", v.ID)
	}
	return nil
}
