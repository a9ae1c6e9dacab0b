/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"context"
	"maps"
	"sync"
	"time"
)

// RecordingExecutor decorates an Executor with an append-only call log. It
// forwards ToolsForLLM and CreateRequest untouched; only the execute paths add
// bookkeeping. The log and its counter belong to this instance alone: reuse
// across runs requires ClearRecordedCalls, and sharing across concurrent runs
// is not allowed.
type RecordingExecutor struct {
	inner Executor

	mu      sync.Mutex
	calls   []RecordedToolCall
	counter int
}

// NewRecording wraps inner with call recording.
func NewRecording(inner Executor) *RecordingExecutor {
	return &RecordingExecutor{inner: inner}
}

// ToolsForLLM implements Executor.
func (r *RecordingExecutor) ToolsForLLM() []Definition {
	return r.inner.ToolsForLLM()
}

// CreateRequest implements Executor.
func (r *RecordingExecutor) CreateRequest(callID, name string, params map[string]any) Request {
	return r.inner.CreateRequest(callID, name, params)
}

// ExecuteTool implements Executor: it captures the timestamp, delegates to
// the inner executor, and appends the call to the log. Attempts that fail at
// the executor level are logged with a synthesized failure result before the
// error is returned.
func (r *RecordingExecutor) ExecuteTool(ctx context.Context, req Request) (Result, error) {
	started := time.Now()

	res, err := r.inner.ExecuteTool(ctx, req)
	logged := res
	if err != nil {
		logged = FailureResult(req, err.Error())
	}

	r.mu.Lock()
	r.calls = append(r.calls, RecordedToolCall{
		ToolName:   req.Name,
		Parameters: maps.Clone(req.Params),
		Timestamp:  started,
		Order:      r.counter,
		Result:     cloneResult(logged),
	})
	r.counter++
	r.mu.Unlock()

	return res, err
}

// ExecuteTools implements Executor. Each request goes through the single-call
// path in slice order, never concurrently, so Order stays contiguous and
// results pair positionally with requests.
func (r *RecordingExecutor) ExecuteTools(ctx context.Context, reqs []Request) ([]Result, error) {
	return executeSequentially(ctx, r, reqs)
}

// RecordedCalls returns a copy of the call log in execution order. Mutating
// the returned slice does not affect the recorder.
func (r *RecordingExecutor) RecordedCalls() []RecordedToolCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RecordedToolCall, len(r.calls))
	for i, call := range r.calls {
		out[i] = cloneCall(call)
	}
	return out
}

// WasToolCalled reports whether any recorded call used the given tool name.
func (r *RecordingExecutor) WasToolCalled(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, call := range r.calls {
		if call.ToolName == name {
			return true
		}
	}
	return false
}

// CallsForTool returns copies of the recorded calls for one tool.
func (r *RecordingExecutor) CallsForTool(name string) []RecordedToolCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RecordedToolCall
	for _, call := range r.calls {
		if call.ToolName == name {
			out = append(out, cloneCall(call))
		}
	}
	return out
}

// ToolCallCount returns the number of recorded calls.
func (r *RecordingExecutor) ToolCallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// ClearRecordedCalls resets the log and the order counter together.
func (r *RecordingExecutor) ClearRecordedCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.counter = 0
}

func cloneCall(call RecordedToolCall) RecordedToolCall {
	out := call
	out.Parameters = maps.Clone(call.Parameters)
	out.Result = cloneResult(call.Result)
	return out
}

func cloneResult(res Result) Result {
	out := res
	out.Output = maps.Clone(res.Output)
	return out
}
