/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"

	"chainguard.dev/evalkit/toolexec"
)

// delegatingExecutor offers the delegate tool alongside the inner executor's
// tools and answers delegate calls itself. No inner executor implements the
// handoff during evaluation; the recorded call is the signal delegation
// scoring reads.
type delegatingExecutor struct {
	inner toolexec.Executor
	tool  toolexec.Definition
}

var _ toolexec.Executor = (*delegatingExecutor)(nil)

// ToolsForLLM implements toolexec.Executor.
func (d *delegatingExecutor) ToolsForLLM() []toolexec.Definition {
	return append(d.inner.ToolsForLLM(), d.tool)
}

// CreateRequest implements toolexec.Executor.
func (d *delegatingExecutor) CreateRequest(callID, name string, params map[string]any) toolexec.Request {
	if name == d.tool.Name {
		return toolexec.Request{CallID: callID, Name: name, Params: params}
	}
	return d.inner.CreateRequest(callID, name, params)
}

// ExecuteTool implements toolexec.Executor.
func (d *delegatingExecutor) ExecuteTool(ctx context.Context, req toolexec.Request) (toolexec.Result, error) {
	if req.Name != d.tool.Name {
		return d.inner.ExecuteTool(ctx, req)
	}
	output := map[string]any{"status": "delegated"}
	if agentType, ok := req.Params["agent_type"]; ok {
		output["agent_type"] = agentType
	}
	return toolexec.SuccessResult(req, output), nil
}

// ExecuteTools implements toolexec.Executor.
func (d *delegatingExecutor) ExecuteTools(ctx context.Context, reqs []toolexec.Request) ([]toolexec.Result, error) {
	results := make([]toolexec.Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := d.ExecuteTool(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
