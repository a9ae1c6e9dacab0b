/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/toolexec"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func fixtures() map[string]evaldef.MockedToolOutput {
	return map[string]evaldef.MockedToolOutput{
		"web_search": evaldef.MockSuccess(map[string]any{"results": "three hits"}),
		"calculator": evaldef.MockSuccess(map[string]any{"value": 42}),
		"flaky_api":  evaldef.MockFailure("upstream timed out"),
	}
}

func TestRecordingOrderAndLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := toolexec.NewRecording(toolexec.NewMocked(fixtures()))

	reqs := []toolexec.Request{
		rec.CreateRequest("call-1", "web_search", map[string]any{"query": "go release"}),
		rec.CreateRequest("call-2", "calculator", map[string]any{"expr": "6*7"}),
		rec.CreateRequest("call-3", "web_search", map[string]any{"query": "again"}),
	}
	results, err := rec.ExecuteTools(ctx, reqs)
	if err != nil {
		t.Fatalf("ExecuteTools() = %v, wanted nil", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("got %d results, wanted %d", len(results), len(reqs))
	}
	for i, res := range results {
		if res.CallID != reqs[i].CallID {
			t.Errorf("results[%d].CallID = %q, wanted %q", i, res.CallID, reqs[i].CallID)
		}
	}

	calls := rec.RecordedCalls()
	if len(calls) != 3 {
		t.Fatalf("got %d recorded calls, wanted 3", len(calls))
	}
	for i, call := range calls {
		if call.Order != i {
			t.Errorf("calls[%d].Order = %d, wanted %d", i, call.Order, i)
		}
	}

	if !rec.WasToolCalled("calculator") {
		t.Error("WasToolCalled(calculator) = false, wanted true")
	}
	if rec.WasToolCalled("browser_control") {
		t.Error("WasToolCalled(browser_control) = true, wanted false")
	}
	if got := rec.ToolCallCount(); got != 3 {
		t.Errorf("ToolCallCount() = %d, wanted 3", got)
	}
	if got := len(rec.CallsForTool("web_search")); got != 2 {
		t.Errorf("len(CallsForTool(web_search)) = %d, wanted 2", got)
	}
}

func TestRecordedCallsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := toolexec.NewRecording(toolexec.NewMocked(fixtures()))
	if _, err := rec.ExecuteTool(ctx, rec.CreateRequest("c1", "web_search", map[string]any{"query": "x"})); err != nil {
		t.Fatalf("ExecuteTool() = %v, wanted nil", err)
	}

	first := rec.RecordedCalls()
	second := rec.RecordedCalls()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("RecordedCalls() not idempotent (-first +second):\n%s", diff)
	}

	// Mutating a returned copy must not leak into the log.
	first[0].Parameters["query"] = "tampered"
	third := rec.RecordedCalls()
	if got := third[0].Parameters["query"]; got != "x" {
		t.Errorf("log parameter = %q after mutating a copy, wanted %q", got, "x")
	}
}

func TestClearRecordedCallsResetsCounter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := toolexec.NewRecording(toolexec.NewMocked(fixtures()))
	for i := 0; i < 2; i++ {
		if _, err := rec.ExecuteTool(ctx, rec.CreateRequest("c", "calculator", nil)); err != nil {
			t.Fatalf("ExecuteTool() = %v, wanted nil", err)
		}
	}

	rec.ClearRecordedCalls()
	if got := rec.ToolCallCount(); got != 0 {
		t.Fatalf("ToolCallCount() after clear = %d, wanted 0", got)
	}

	if _, err := rec.ExecuteTool(ctx, rec.CreateRequest("c", "calculator", nil)); err != nil {
		t.Fatalf("ExecuteTool() = %v, wanted nil", err)
	}
	calls := rec.RecordedCalls()
	if len(calls) != 1 {
		t.Fatalf("after clear got %d calls, wanted 1", len(calls))
	}
	if calls[0].Order != 0 {
		t.Errorf("first order after clear = %d, wanted 0", calls[0].Order)
	}
}

func TestRecordingLogsFailedAttempts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := toolexec.NewRecording(toolexec.NewMocked(fixtures()))
	_, err := rec.ExecuteTool(ctx, rec.CreateRequest("c1", "no_such_tool", nil))
	if !errors.Is(err, evaldef.ErrNoMock) {
		t.Fatalf("ExecuteTool() error = %v, wanted ErrNoMock", err)
	}

	calls := rec.RecordedCalls()
	if len(calls) != 1 {
		t.Fatalf("got %d recorded calls, wanted 1", len(calls))
	}
	if calls[0].Result.Success {
		t.Error("recorded failed attempt as success")
	}
}

func TestRecordingForwardsToolsUnchanged(t *testing.T) {
	t.Parallel()

	inner := toolexec.NewMocked(fixtures())
	rec := toolexec.NewRecording(inner)

	if diff := cmp.Diff(inner.ToolsForLLM(), rec.ToolsForLLM()); diff != "" {
		t.Errorf("ToolsForLLM() differs from inner (-inner +rec):\n%s", diff)
	}

	want := inner.CreateRequest("id", "web_search", map[string]any{"query": "x"})
	got := rec.CreateRequest("id", "web_search", map[string]any{"query": "x"})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateRequest() differs from inner (-inner +rec):\n%s", diff)
	}
}

func TestExecuteToolsStopsAtExecutorError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := toolexec.NewRecording(toolexec.NewMocked(fixtures()))
	reqs := []toolexec.Request{
		rec.CreateRequest("c1", "web_search", map[string]any{"query": "x"}),
		rec.CreateRequest("c2", "missing", nil),
		rec.CreateRequest("c3", "calculator", nil),
	}

	results, err := rec.ExecuteTools(ctx, reqs)
	if !errors.Is(err, evaldef.ErrNoMock) {
		t.Fatalf("ExecuteTools() error = %v, wanted ErrNoMock", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results before the failure, wanted 1", len(results))
	}
	if results[0].Name != "web_search" {
		t.Errorf("results[0].Name = %q, wanted web_search", results[0].Name)
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A stand-in for the platform's live executor.
	live := toolexec.NewMocked(fixtures())

	capture := toolexec.NewCapture(live)
	liveRec := toolexec.NewRecording(capture)

	reqs := []toolexec.Request{
		liveRec.CreateRequest("c1", "web_search", map[string]any{"query": "first"}),
		liveRec.CreateRequest("c2", "calculator", map[string]any{"expr": "6*7"}),
		liveRec.CreateRequest("c3", "web_search", map[string]any{"query": "second"}),
	}
	if _, err := liveRec.ExecuteTools(ctx, reqs); err != nil {
		t.Fatalf("capture ExecuteTools() = %v, wanted nil", err)
	}

	snaps := capture.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, wanted 2 (last call wins per tool)", len(snaps))
	}

	// Replaying the same requests against the snapshots must reproduce the
	// identical call sequence.
	replayRec := toolexec.NewRecording(toolexec.NewMocked(snaps))
	if _, err := replayRec.ExecuteTools(ctx, reqs); err != nil {
		t.Fatalf("replay ExecuteTools() = %v, wanted nil", err)
	}

	ignoreTimes := cmpopts.IgnoreFields(toolexec.RecordedToolCall{}, "Timestamp")
	if diff := cmp.Diff(liveRec.RecordedCalls(), replayRec.RecordedCalls(), ignoreTimes); diff != "" {
		t.Errorf("replayed call sequence differs (-live +replay):\n%s", diff)
	}
}

func TestMockedFailureFixture(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := toolexec.NewMocked(fixtures())
	res, err := m.ExecuteTool(ctx, m.CreateRequest("c1", "flaky_api", nil))
	if err != nil {
		t.Fatalf("ExecuteTool() = %v, wanted nil (fixture failures are results, not errors)", err)
	}
	if res.Success {
		t.Error("Success = true, wanted false")
	}
	if res.Error != "upstream timed out" {
		t.Errorf("Error = %q, wanted %q", res.Error, "upstream timed out")
	}
}

func TestMockedSynthesizesToolDefinitions(t *testing.T) {
	t.Parallel()

	m := toolexec.NewMocked(fixtures())
	defs := m.ToolsForLLM()
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, wanted 3", len(defs))
	}
	// Synthesized definitions come back sorted by name for determinism.
	for i := 1; i < len(defs); i++ {
		if defs[i-1].Name >= defs[i].Name {
			t.Errorf("definitions not sorted: %q before %q", defs[i-1].Name, defs[i].Name)
		}
	}
}
