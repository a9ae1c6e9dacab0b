/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"context"
	"maps"
	"sync"

	"chainguard.dev/evalkit/evaldef"
)

// Capture wraps a live Executor and remembers the most recent result per tool
// name. Snapshots condenses what it saw into mocked fixtures, so a live
// session can later be replayed deterministically in mocked mode.
type Capture struct {
	inner Executor

	mu     sync.Mutex
	latest map[string]Result
}

// NewCapture wraps the platform's live executor for capture-mode runs.
func NewCapture(inner Executor) *Capture {
	return &Capture{
		inner:  inner,
		latest: map[string]Result{},
	}
}

// ToolsForLLM implements Executor.
func (c *Capture) ToolsForLLM() []Definition {
	return c.inner.ToolsForLLM()
}

// CreateRequest implements Executor.
func (c *Capture) CreateRequest(callID, name string, params map[string]any) Request {
	return c.inner.CreateRequest(callID, name, params)
}

// ExecuteTool implements Executor, recording the result under the tool name.
// Later calls to the same tool overwrite earlier ones: last call wins.
func (c *Capture) ExecuteTool(ctx context.Context, req Request) (Result, error) {
	res, err := c.inner.ExecuteTool(ctx, req)
	if err != nil {
		return res, err
	}

	c.mu.Lock()
	c.latest[req.Name] = res
	c.mu.Unlock()
	return res, nil
}

// ExecuteTools implements Executor.
func (c *Capture) ExecuteTools(ctx context.Context, reqs []Request) ([]Result, error) {
	return executeSequentially(ctx, c, reqs)
}

// Snapshots returns the captured results as mocked fixtures keyed by tool
// name, ready to store on a Definition for replay.
func (c *Capture) Snapshots() map[string]evaldef.MockedToolOutput {
	c.mu.Lock()
	defer c.mu.Unlock()

	snaps := make(map[string]evaldef.MockedToolOutput, len(c.latest))
	for name, res := range c.latest {
		if res.Success {
			snaps[name] = evaldef.MockSuccess(maps.Clone(res.Output))
		} else {
			snaps[name] = evaldef.MockFailure(res.Error)
		}
	}
	return snaps
}
