/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"context"
	"fmt"
	"maps"
	"sort"

	"chainguard.dev/evalkit/evaldef"
)

// Mocked is the fixture-backed Executor for hermetic runs. Every tool call is
// answered from the declared MockedToolOutput for its name; a name without a
// fixture is a configuration error, not a silent success.
type Mocked struct {
	outputs map[string]evaldef.MockedToolOutput
	tools   []Definition
}

// MockedOption customizes a Mocked executor.
type MockedOption func(*Mocked)

// WithTools declares explicit tool definitions to offer the model. Without
// it, a permissive definition is synthesized per fixture name.
func WithTools(defs ...Definition) MockedOption {
	return func(m *Mocked) {
		m.tools = append([]Definition(nil), defs...)
	}
}

// NewMocked builds a Mocked executor over the given fixtures.
func NewMocked(outputs map[string]evaldef.MockedToolOutput, opts ...MockedOption) *Mocked {
	m := &Mocked{outputs: maps.Clone(outputs)}
	for _, opt := range opts {
		opt(m)
	}
	if m.outputs == nil {
		m.outputs = map[string]evaldef.MockedToolOutput{}
	}
	if m.tools == nil {
		names := make([]string, 0, len(m.outputs))
		for name := range m.outputs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m.tools = append(m.tools, Definition{
				Name:        name,
				Description: fmt.Sprintf("Tool %q.", name),
			})
		}
	}
	return m
}

// ToolsForLLM implements Executor.
func (m *Mocked) ToolsForLLM() []Definition {
	return append([]Definition(nil), m.tools...)
}

// CreateRequest implements Executor.
func (m *Mocked) CreateRequest(callID, name string, params map[string]any) Request {
	return Request{CallID: callID, Name: name, Params: params}
}

// ExecuteTool implements Executor. A request for a tool with no fixture fails
// with evaldef.ErrNoMock.
func (m *Mocked) ExecuteTool(_ context.Context, req Request) (Result, error) {
	mock, ok := m.outputs[req.Name]
	if !ok {
		return Result{}, fmt.Errorf("tool %q: %w", req.Name, evaldef.ErrNoMock)
	}
	if !mock.Success() {
		return FailureResult(req, mock.Error()), nil
	}
	return SuccessResult(req, mock.Output()), nil
}

// ExecuteTools implements Executor.
func (m *Mocked) ExecuteTools(ctx context.Context, reqs []Request) ([]Result, error) {
	return executeSequentially(ctx, m, reqs)
}

// executeSequentially runs reqs one at a time through ex.ExecuteTool,
// preserving positional pairing for the executed prefix.
func executeSequentially(ctx context.Context, ex Executor, reqs []Request) ([]Result, error) {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := ex.ExecuteTool(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
