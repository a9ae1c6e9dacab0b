/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaldef

import (
	"fmt"
	"regexp"
)

// Expectations groups the declarative expectations a run is scored against.
// Every group is optional; a nil group contributes a perfect score for its
// dimension (absence of expectation is not failure), except response elements
// where an empty list scores zero (nothing checked is not perfect).
type Expectations struct {
	Tools      *ToolExpectations       `yaml:"tools,omitempty"`
	Response   *ResponseExpectations   `yaml:"response,omitempty"`
	Delegation *DelegationExpectations `yaml:"delegation,omitempty"`
}

// ToolExpectations declare which tools a run must and must not call.
type ToolExpectations struct {
	// Required lists tools that must be called, each with optional
	// per-parameter expectations.
	Required []ExpectedToolCall `yaml:"required,omitempty"`

	// Forbidden lists tool names that must not be called. Calling one reduces
	// the tool-selection score and annotates the recorded call.
	Forbidden []string `yaml:"forbidden,omitempty"`
}

// ExpectedToolCall is one required tool, optionally with parameter
// expectations checked against the first recorded call of that tool.
type ExpectedToolCall struct {
	Name       string                          `yaml:"name"`
	Parameters map[string]ParameterExpectation `yaml:"parameters,omitempty"`
}

// MatchType selects the comparison semantics for one expected parameter.
type MatchType string

const (
	// MatchExact requires strict equality with the expected value.
	MatchExact MatchType = "exact"

	// MatchContains requires the stringified actual value to contain the
	// expected string, case-insensitively.
	MatchContains MatchType = "contains"

	// MatchRegex requires the stringified actual value to match Pattern.
	MatchRegex MatchType = "regex"

	// MatchSemantic degrades to MatchContains. There is no similarity
	// collaborator at this layer; the constant exists so definitions written
	// for a richer matcher remain loadable.
	MatchSemantic MatchType = "semantic"

	// MatchRange requires a numeric actual value within the optional Min/Max
	// bounds.
	MatchRange MatchType = "range"
)

// ParameterExpectation describes how one tool parameter must look. A zero
// MatchType means exact when Expected is set, or range when a bound is set.
type ParameterExpectation struct {
	MatchType MatchType `yaml:"matchType,omitempty"`
	Expected  any       `yaml:"expected,omitempty"`
	Pattern   string    `yaml:"pattern,omitempty"`
	Min       *float64  `yaml:"min,omitempty"`
	Max       *float64  `yaml:"max,omitempty"`
}

// EffectiveMatchType resolves the defaulting rule for an unset MatchType.
func (p ParameterExpectation) EffectiveMatchType() MatchType {
	if p.MatchType != "" {
		return p.MatchType
	}
	if p.Min != nil || p.Max != nil {
		return MatchRange
	}
	return MatchExact
}

// ResponseExpectations declare the weighted elements a response is graded on.
type ResponseExpectations struct {
	Elements []Element `yaml:"elements,omitempty"`
}

// Element is a discrete, weighted aspect of a good response.
type Element struct {
	// ID names the element in results and pass-rate aggregation.
	ID string `yaml:"id"`

	// Description states what the response should contain or accomplish.
	Description string `yaml:"description,omitempty"`

	// Weight scales the element's share of the response-quality score.
	// Zero means 1.
	Weight float64 `yaml:"weight,omitempty"`

	// Keywords drive the default deterministic matcher: the element's
	// confidence is the fraction of keywords the response mentions,
	// case-insensitively. Richer matchers may ignore this field.
	Keywords []string `yaml:"keywords,omitempty"`
}

// EffectiveWeight returns the element weight with the default of 1 applied.
func (e Element) EffectiveWeight() float64 {
	if e.Weight == 0 {
		return 1
	}
	return e.Weight
}

// Constraints are hard checks on the raw response text.
type Constraints struct {
	// MaxLength is the maximum allowed response length in characters.
	MaxLength *int `yaml:"maxLength,omitempty"`

	// MinLength is the minimum required response length in characters.
	MinLength *int `yaml:"minLength,omitempty"`

	// ForbiddenPatterns are case-sensitive substrings the response must not
	// contain. Each match reports one violation.
	ForbiddenPatterns []string `yaml:"forbiddenPatterns,omitempty"`
}

// DelegationExpectations describe the delegation decision a supervisor run
// should make.
type DelegationExpectations struct {
	// ShouldDelegate is whether the run ought to hand off to another agent.
	ShouldDelegate bool `yaml:"shouldDelegate"`

	// ExpectedAgentType, when set, is the agent type a delegation should name.
	ExpectedAgentType string `yaml:"expectedAgentType,omitempty"`

	// RationaleShouldMention lists keywords the delegation rationale should
	// mention (case-insensitive substring per keyword).
	RationaleShouldMention []string `yaml:"rationaleShouldMention,omitempty"`
}

func (e Expectations) validate() error {
	if e.Tools != nil {
		for i, req := range e.Tools.Required {
			if req.Name == "" {
				return fmt.Errorf("expectations.tools.required[%d]: name must not be empty", i)
			}
			for field, p := range req.Parameters {
				if err := p.validate(); err != nil {
					return fmt.Errorf("expectations.tools.required[%d].parameters[%q]: %w", i, field, err)
				}
			}
		}
		for i, name := range e.Tools.Forbidden {
			if name == "" {
				return fmt.Errorf("expectations.tools.forbidden[%d]: name must not be empty", i)
			}
		}
	}
	if e.Response != nil {
		for i, el := range e.Response.Elements {
			if el.ID == "" {
				return fmt.Errorf("expectations.response.elements[%d]: id must not be empty", i)
			}
			if el.Weight < 0 {
				return fmt.Errorf("expectations.response.elements[%d]: weight must not be negative", i)
			}
		}
	}
	return nil
}

func (p ParameterExpectation) validate() error {
	switch p.EffectiveMatchType() {
	case MatchExact, MatchContains, MatchSemantic:
		if p.Expected == nil {
			return fmt.Errorf("match type %q requires an expected value", p.EffectiveMatchType())
		}
	case MatchRegex:
		if p.Pattern == "" {
			return fmt.Errorf("match type %q requires a pattern", MatchRegex)
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	case MatchRange:
		if p.Min == nil && p.Max == nil {
			return fmt.Errorf("match type %q requires a min or max bound", MatchRange)
		}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return fmt.Errorf("min %v exceeds max %v", *p.Min, *p.Max)
		}
	default:
		return fmt.Errorf("unknown match type %q", p.MatchType)
	}
	return nil
}

func (c *Constraints) validate() error {
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return fmt.Errorf("constraints.maxLength must not be negative, got %d", *c.MaxLength)
	}
	if c.MinLength != nil && *c.MinLength < 0 {
		return fmt.Errorf("constraints.minLength must not be negative, got %d", *c.MinLength)
	}
	if c.MaxLength != nil && c.MinLength != nil && *c.MaxLength < *c.MinLength {
		return fmt.Errorf("constraints.maxLength %d is below minLength %d", *c.MaxLength, *c.MinLength)
	}
	for i, p := range c.ForbiddenPatterns {
		if p == "" {
			return fmt.Errorf("constraints.forbiddenPatterns[%d] must not be empty", i)
		}
	}
	return nil
}
