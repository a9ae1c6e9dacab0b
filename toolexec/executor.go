/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"context"
	"time"
)

// Definition describes a tool's schema (name, description, parameters) in a
// provider-independent form. Each LLM adapter converts definitions into its
// SDK's native tool type.
type Definition struct {
	Name        string
	Description string

	// Parameters describes simple flat inputs. Adapters convert these into
	// the provider's schema form.
	Parameters []Parameter

	// RawSchema optionally carries a complete JSON schema for the tool input
	// (plain map form). When set it wins over Parameters; tools with nested
	// or reflected inputs use this.
	RawSchema map[string]any
}

// Parameter describes a single tool parameter.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "boolean", "number"
	Description string
	Required    bool
}

// Request is one tool invocation to execute.
type Request struct {
	// CallID correlates the request with the model's tool-use block.
	CallID string
	Name   string
	Params map[string]any
}

// Result is the outcome of one tool invocation. Success=false carries a
// tool-level failure the model can observe; executor-level failures (unknown
// tool, missing fixture) surface as errors instead.
type Result struct {
	CallID  string
	Name    string
	Success bool
	Output  map[string]any
	Error   string
}

// SuccessResult builds a successful Result for the given request.
func SuccessResult(req Request, output map[string]any) Result {
	return Result{CallID: req.CallID, Name: req.Name, Success: true, Output: output}
}

// FailureResult builds a failed Result for the given request.
func FailureResult(req Request, message string) Result {
	return Result{CallID: req.CallID, Name: req.Name, Success: false, Error: message}
}

// Executor is the tool-execution capability.
type Executor interface {
	// ToolsForLLM returns the tool definitions to offer the model.
	ToolsForLLM() []Definition

	// CreateRequest builds a Request from a model tool-use block.
	CreateRequest(callID, name string, params map[string]any) Request

	// ExecuteTool runs a single tool call. Executor-level failures (unknown
	// tool, missing fixture) are errors; tool-level failures come back as a
	// Result with Success=false.
	ExecuteTool(ctx context.Context, req Request) (Result, error)

	// ExecuteTools runs the requests sequentially, in slice order. The
	// returned slice pairs positionally with the executed prefix of reqs; on
	// an executor-level error it stops and returns what ran.
	ExecuteTools(ctx context.Context, reqs []Request) ([]Result, error)
}

// RecordedToolCall is one entry in a RecordingExecutor's log.
type RecordedToolCall struct {
	ToolName   string
	Parameters map[string]any

	// Timestamp is when the call started. Ordering guarantees come from
	// Order, not from this value.
	Timestamp time.Time

	// Order is the instance-local sequence number, unique and increasing
	// within a run.
	Order int

	Result Result

	// WasExpected and WasForbidden are annotations applied during scoring;
	// the recording executor itself never sets them.
	WasExpected  bool
	WasForbidden bool
}
