/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package delegatetool defines the fixed tool a supervisor agent calls to
// hand a task to another agent, and the parsing of recorded calls back into a
// delegation decision.
package delegatetool

import (
	"fmt"

	"chainguard.dev/evalkit/schema"
	"chainguard.dev/evalkit/toolexec"
)

// DefaultToolName is the tool name scanned for when extracting a decision.
const DefaultToolName = "delegate"

// Args is the input shape of the delegate tool.
type Args struct {
	AgentType string `json:"agent_type" jsonschema:"description=The type of agent to delegate this task to,required"`
	Rationale string `json:"rationale" jsonschema:"description=Why this task should be handled by that agent,required"`
}

// Options configures the delegate tool wiring.
type Options struct {
	// ToolName overrides DefaultToolName.
	ToolName string

	// Description overrides the default tool description offered to the model.
	Description string

	// Generator overrides the schema generator.
	Generator *schema.Generator
}

func (o *Options) setDefaults() {
	if o.ToolName == "" {
		o.ToolName = DefaultToolName
	}
	if o.Description == "" {
		o.Description = "Delegate the current task to a more suitable agent."
	}
	if o.Generator == nil {
		o.Generator = schema.NewGenerator()
	}
}

// Tool builds the provider-independent definition of the delegate tool.
func Tool(opts Options) (toolexec.Definition, error) {
	opts.setDefaults()

	raw, err := schema.ToMap(opts.Generator.Reflect(&Args{}))
	if err != nil {
		return toolexec.Definition{}, fmt.Errorf("reflecting delegate args: %w", err)
	}

	return toolexec.Definition{
		Name:        opts.ToolName,
		Description: opts.Description,
		RawSchema:   raw,
	}, nil
}

// Decision is the delegation outcome observed in a run.
type Decision struct {
	Delegated bool
	AgentType string
	Rationale string
}

// DecisionFromCalls scans recorded calls for the delegate tool and returns
// the decision from the first matching call. Runs that never call the tool
// yield {Delegated: false}.
func DecisionFromCalls(calls []toolexec.RecordedToolCall, toolName string) Decision {
	if toolName == "" {
		toolName = DefaultToolName
	}
	for _, call := range calls {
		if call.ToolName != toolName {
			continue
		}
		return Decision{
			Delegated: true,
			AgentType: stringParam(call.Parameters, "agent_type"),
			Rationale: stringParam(call.Parameters, "rationale"),
		}
	}
	return Decision{}
}

func stringParam(params map[string]any, name string) string {
	v, ok := params[name]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
