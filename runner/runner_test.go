/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/promptbuilder"
	"chainguard.dev/evalkit/runner"
	"chainguard.dev/evalkit/toolexec"
)

// scriptedClient returns one pre-declared generation per call, in order, and
// records what it was asked.
type scriptedClient struct {
	model string

	mu          sync.Mutex
	turns       []scriptedTurn
	calls       int
	gotMessages [][]llm.Message
	gotOpts     []llm.GenerateOptions
}

type scriptedTurn struct {
	gen llm.Generation
	err error
}

func (c *scriptedClient) GenerateWithTools(_ context.Context, messages []llm.Message, opts llm.GenerateOptions) (llm.Generation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gotMessages = append(c.gotMessages, messages)
	c.gotOpts = append(c.gotOpts, opts)
	if c.calls >= len(c.turns) {
		return llm.Generation{}, fmt.Errorf("unexpected generation call %d", c.calls+1)
	}
	turn := c.turns[c.calls]
	c.calls++
	return turn.gen, turn.err
}

func (c *scriptedClient) Model() string {
	if c.model == "" {
		return "claude-test"
	}
	return c.model
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func endTurn(content string, in, out int) scriptedTurn {
	return scriptedTurn{gen: llm.Generation{
		Content:    content,
		StopReason: llm.StopEndTurn,
		Usage:      llm.Usage{InputTokens: in, OutputTokens: out},
	}}
}

func toolTurn(in, out int, calls ...llm.ToolCall) scriptedTurn {
	return scriptedTurn{gen: llm.Generation{
		ToolUse:    calls,
		StopReason: llm.StopToolUse,
		Usage:      llm.Usage{InputTokens: in, OutputTokens: out},
	}}
}

func supportLoader() promptbuilder.Loader {
	return promptbuilder.Static{
		"support-agent": promptbuilder.MustNewPrompt("You are a support agent."),
	}
}

func baselineVariant() evaldef.Variant {
	return evaldef.Variant{ID: "baseline", PromptTarget: "support-agent"}
}

func refundDefinition() *evaldef.Definition {
	return &evaldef.Definition{
		ID:   "refund-policy",
		Name: "Refund policy lookup",
		TestCase: evaldef.TestCase{
			Prompt: "What is the refund window?",
		},
		Expectations: evaldef.Expectations{
			Tools: &evaldef.ToolExpectations{
				Required: []evaldef.ExpectedToolCall{{Name: "search_kb"}},
			},
			Response: &evaldef.ResponseExpectations{
				Elements: []evaldef.Element{{
					ID:       "mentions-window",
					Keywords: []string{"30 days"},
				}},
			},
		},
		MockedOutputs: map[string]evaldef.MockedToolOutput{
			"search_kb": evaldef.MockSuccess(map[string]any{
				"content": "Refunds are accepted within 30 days of purchase.",
			}),
		},
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{}
	loader := supportLoader()

	tests := []struct {
		name    string
		client  llm.Client
		prompts promptbuilder.Loader
		opts    []runner.Option
	}{
		{name: "nil client", client: nil, prompts: loader},
		{name: "nil loader", client: client, prompts: nil},
		{name: "zero max iterations", client: client, prompts: loader, opts: []runner.Option{runner.WithMaxToolIterations(0)}},
		{name: "nil scorer", client: client, prompts: loader, opts: []runner.Option{runner.WithScorer(nil)}},
		{name: "nil live executor", client: client, prompts: loader, opts: []runner.Option{runner.WithLiveExecutor(nil)}},
		{name: "empty override model", client: client, prompts: loader, opts: []runner.Option{runner.WithModelClient("", client)}},
		{name: "nil override client", client: client, prompts: loader, opts: []runner.Option{runner.WithModelClient("gemini-2.0-flash", nil)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := runner.New(tc.client, tc.prompts, tc.opts...); err == nil {
				t.Error("New() = nil error, wanted an error")
			}
		})
	}

	if _, err := runner.New(client, loader); err != nil {
		t.Errorf("New() with valid inputs = %v, wanted nil", err)
	}
}

func TestExecuteRunMockedFlow(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []scriptedTurn{
		toolTurn(10, 5, llm.ToolCall{ID: "call-1", Name: "search_kb", Parameters: map[string]any{"query": "refund window"}}),
		endTurn("Refunds are accepted within 30 days.", 20, 7),
	}}

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	result, err := r.ExecuteRun(context.Background(), refundDefinition(), baselineVariant())
	if err != nil {
		t.Fatalf("ExecuteRun() = %v", err)
	}

	if result.ID == "" {
		t.Error("result.ID is empty, wanted a run ID")
	}
	if result.DefinitionID != "refund-policy" || result.VariantID != "baseline" {
		t.Errorf("result IDs = %q/%q, wanted refund-policy/baseline", result.DefinitionID, result.VariantID)
	}
	if result.Timestamp.IsZero() {
		t.Error("result.Timestamp is zero, wanted the run start time")
	}
	if result.Response != "Refunds are accepted within 30 days." {
		t.Errorf("result.Response = %q, wanted the final turn content", result.Response)
	}
	if result.Iterations != 2 {
		t.Errorf("result.Iterations = %d, wanted 2", result.Iterations)
	}
	if want := (runner.TokenUsage{InputTokens: 30, OutputTokens: 12}); result.Usage != want {
		t.Errorf("result.Usage = %+v, wanted %+v", result.Usage, want)
	}
	if result.Scores.ToolSelectionScore != 1.0 {
		t.Errorf("ToolSelectionScore = %v, wanted 1.0", result.Scores.ToolSelectionScore)
	}
	if result.Scores.OverallScore != 1.0 {
		t.Errorf("OverallScore = %v, wanted 1.0", result.Scores.OverallScore)
	}
	if result.Delegation != nil {
		t.Errorf("result.Delegation = %+v, wanted nil for a non-supervisor run", result.Delegation)
	}
	if result.Snapshots != nil {
		t.Errorf("result.Snapshots = %+v, wanted nil outside capture mode", result.Snapshots)
	}

	if got := client.gotOpts[0].SystemPrompt; got != "You are a support agent." {
		t.Errorf("system prompt = %q, wanted the loaded prompt", got)
	}
	if !offersTool(client.gotOpts[0].Tools, "search_kb") {
		t.Errorf("offered tools = %v, wanted search_kb", toolNames(client.gotOpts[0].Tools))
	}

	second := client.gotMessages[1]
	if len(second) != 3 {
		t.Fatalf("second call saw %d messages, wanted 3 (user, assistant, tool results)", len(second))
	}
	toolMsg := second[2]
	if len(toolMsg.ToolResults) != 1 || toolMsg.ToolResults[0].CallID != "call-1" {
		t.Errorf("tool results = %+v, wanted one result for call-1", toolMsg.ToolResults)
	}
	if got := toolMsg.ToolResults[0].Payload["content"]; got != "Refunds are accepted within 30 days of purchase." {
		t.Errorf("tool result payload = %v, wanted the mocked output", got)
	}
}

func TestExecuteRunSeedsHistory(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []scriptedTurn{endTurn("Sure.", 1, 1)}}
	def := refundDefinition()
	def.TestCase.History = []evaldef.ConversationTurn{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello! How can I help?"},
	}

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := r.ExecuteRun(context.Background(), def, baselineVariant()); err != nil {
		t.Fatalf("ExecuteRun() = %v", err)
	}

	seen := client.gotMessages[0]
	wantRoles := []llm.Role{llm.RoleUser, llm.RoleAssistant, llm.RoleUser}
	if len(seen) != len(wantRoles) {
		t.Fatalf("first call saw %d messages, wanted %d", len(seen), len(wantRoles))
	}
	for i, want := range wantRoles {
		if seen[i].Role != want {
			t.Errorf("message[%d].Role = %q, wanted %q", i, seen[i].Role, want)
		}
	}
	if seen[2].Content != "What is the refund window?" {
		t.Errorf("final seeded message = %q, wanted the test case prompt", seen[2].Content)
	}
}

func TestExecuteRunToolLoopExhaustion(t *testing.T) {
	t.Parallel()
	loop := toolTurn(3, 2, llm.ToolCall{ID: "call-1", Name: "search_kb", Parameters: map[string]any{"query": "again"}})
	client := &scriptedClient{turns: []scriptedTurn{loop, loop, loop}}

	r, err := runner.New(client, supportLoader(), runner.WithMaxToolIterations(3))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	result, err := r.ExecuteRun(context.Background(), refundDefinition(), baselineVariant())
	if err != nil {
		t.Fatalf("ExecuteRun() = %v, wanted exhaustion to stay scoreable", err)
	}
	if result.Response != runner.ExhaustedResponse {
		t.Errorf("result.Response = %q, wanted the exhaustion placeholder", result.Response)
	}
	if result.Iterations != 3 {
		t.Errorf("result.Iterations = %d, wanted 3", result.Iterations)
	}
	if got := client.callCount(); got != 3 {
		t.Errorf("client saw %d calls, wanted 3", got)
	}
	if want := (runner.TokenUsage{InputTokens: 9, OutputTokens: 6}); result.Usage != want {
		t.Errorf("result.Usage = %+v, wanted %+v", result.Usage, want)
	}
	// The placeholder mentions no keywords, so quality drags the score down.
	if result.Scores.OverallScore >= 1.0 {
		t.Errorf("OverallScore = %v, wanted a degraded score", result.Scores.OverallScore)
	}
}

func TestExecuteRunSupervisorDelegation(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []scriptedTurn{
		toolTurn(5, 3, llm.ToolCall{ID: "call-1", Name: "delegate", Parameters: map[string]any{
			"agent_type": "search-agent",
			"rationale":  "needs web search",
		}}),
		endTurn("Handing this to the search agent.", 6, 2),
	}}

	def := &evaldef.Definition{
		ID:          "route-search",
		Name:        "Routes search questions",
		TargetAgent: evaldef.TargetSupervisor,
		TestCase:    evaldef.TestCase{Prompt: "Find the latest release notes."},
		Expectations: evaldef.Expectations{
			Delegation: &evaldef.DelegationExpectations{
				ShouldDelegate:    true,
				ExpectedAgentType: "search-agent",
			},
		},
	}

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	result, err := r.ExecuteRun(context.Background(), def, baselineVariant())
	if err != nil {
		t.Fatalf("ExecuteRun() = %v", err)
	}

	if !offersTool(client.gotOpts[0].Tools, "delegate") {
		t.Errorf("offered tools = %v, wanted the delegate tool", toolNames(client.gotOpts[0].Tools))
	}
	if result.Delegation == nil {
		t.Fatal("result.Delegation = nil, wanted a decision for a supervisor run")
	}
	if !result.Delegation.Delegated {
		t.Error("Delegation.Delegated = false, wanted true")
	}
	if result.Delegation.AgentType != "search-agent" {
		t.Errorf("Delegation.AgentType = %q, wanted search-agent", result.Delegation.AgentType)
	}
	if result.Delegation.Rationale != "needs web search" {
		t.Errorf("Delegation.Rationale = %q, wanted the call rationale", result.Delegation.Rationale)
	}
	if result.Scores.DelegationScore <= 0.8 {
		t.Errorf("DelegationScore = %v, wanted > 0.8 for a correct delegation", result.Scores.DelegationScore)
	}

	// The delegate call succeeded from the model's point of view.
	toolMsg := client.gotMessages[1][2]
	if got := toolMsg.ToolResults[0].Payload["status"]; got != "delegated" {
		t.Errorf("delegate tool payload = %v, wanted status delegated", toolMsg.ToolResults[0].Payload)
	}
}

func TestExecuteRunNonSupervisorOmitsDelegateTool(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []scriptedTurn{endTurn("Done.", 1, 1)}}

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := r.ExecuteRun(context.Background(), refundDefinition(), baselineVariant()); err != nil {
		t.Fatalf("ExecuteRun() = %v", err)
	}
	if offersTool(client.gotOpts[0].Tools, "delegate") {
		t.Errorf("offered tools = %v, delegate must only be offered to supervisor runs", toolNames(client.gotOpts[0].Tools))
	}
}

func TestExecuteRunCaptureSnapshots(t *testing.T) {
	t.Parallel()
	live := &fakeLive{
		tools: []toolexec.Definition{{Name: "search_kb", Description: "Search the knowledge base."}},
		outputs: []map[string]any{
			{"content": "first answer"},
			{"content": "second answer"},
		},
	}
	client := &scriptedClient{turns: []scriptedTurn{
		toolTurn(4, 2,
			llm.ToolCall{ID: "call-1", Name: "search_kb", Parameters: map[string]any{"query": "a"}},
			llm.ToolCall{ID: "call-2", Name: "search_kb", Parameters: map[string]any{"query": "b"}},
		),
		endTurn("second answer", 5, 2),
	}}

	def := refundDefinition()
	def.ToolMode = evaldef.ToolModeCapture
	def.MockedOutputs = nil

	r, err := runner.New(client, supportLoader(), runner.WithLiveExecutor(live))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	result, err := r.ExecuteRun(context.Background(), def, baselineVariant())
	if err != nil {
		t.Fatalf("ExecuteRun() = %v", err)
	}

	snap, ok := result.Snapshots["search_kb"]
	if !ok {
		t.Fatalf("result.Snapshots = %v, wanted a search_kb snapshot", result.Snapshots)
	}
	if !snap.Success() {
		t.Errorf("snapshot = %v, wanted a success snapshot", snap)
	}
	if got := snap.Output()["content"]; got != "second answer" {
		t.Errorf("snapshot output = %v, wanted the last call's output", got)
	}
}

func TestExecuteRunLiveModeNeedsExecutor(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{}
	def := refundDefinition()
	def.ToolMode = evaldef.ToolModeLive

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := r.ExecuteRun(context.Background(), def, baselineVariant()); err == nil {
		t.Error("ExecuteRun() = nil error, wanted a missing live executor error")
	}
}

func TestExecuteRunMissingMockFails(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []scriptedTurn{
		toolTurn(2, 1, llm.ToolCall{ID: "call-1", Name: "lookup_order", Parameters: map[string]any{"id": "42"}}),
	}}

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	_, err = r.ExecuteRun(context.Background(), refundDefinition(), baselineVariant())
	if !errors.Is(err, evaldef.ErrNoMock) {
		t.Errorf("ExecuteRun() = %v, wanted evaldef.ErrNoMock", err)
	}
}

func TestExecuteRunUnknownPromptTarget(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{}
	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	variant := evaldef.Variant{ID: "alt", PromptTarget: "missing-prompt"}
	_, err = r.ExecuteRun(context.Background(), refundDefinition(), variant)
	if !errors.Is(err, promptbuilder.ErrUnknownPrompt) {
		t.Errorf("ExecuteRun() = %v, wanted promptbuilder.ErrUnknownPrompt", err)
	}
}

func TestExecuteRunModelOverride(t *testing.T) {
	t.Parallel()
	defaultClient := &scriptedClient{model: "claude-test"}
	altClient := &scriptedClient{model: "gemini-2.0-flash", turns: []scriptedTurn{endTurn("From Gemini.", 1, 1)}}

	r, err := runner.New(defaultClient, supportLoader(),
		runner.WithModelClient("gemini-2.0-flash", altClient))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	variant := baselineVariant()
	variant.Model = "gemini-2.0-flash"
	result, err := r.ExecuteRun(context.Background(), refundDefinition(), variant)
	if err != nil {
		t.Fatalf("ExecuteRun() = %v", err)
	}
	if result.Response != "From Gemini." {
		t.Errorf("result.Response = %q, wanted the override client's response", result.Response)
	}
	if got := defaultClient.callCount(); got != 0 {
		t.Errorf("default client saw %d calls, wanted 0", got)
	}

	variant.Model = "gpt-5"
	if _, err := r.ExecuteRun(context.Background(), refundDefinition(), variant); !errors.Is(err, llm.ErrUnsupportedModel) {
		t.Errorf("ExecuteRun() with unregistered model = %v, wanted llm.ErrUnsupportedModel", err)
	}
}

func TestExecuteRunValidatesDefinition(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{}
	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	def := refundDefinition()
	def.TestCase.Prompt = ""
	_, err = r.ExecuteRun(context.Background(), def, baselineVariant())
	if err == nil || !strings.Contains(err.Error(), "testCase.prompt") {
		t.Errorf("ExecuteRun() = %v, wanted an error naming testCase.prompt", err)
	}

	if _, err := r.ExecuteRun(context.Background(), nil, baselineVariant()); err == nil {
		t.Error("ExecuteRun(nil definition) = nil error, wanted an error")
	}
}

func TestExecuteRunToolFailureFeedsModel(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []scriptedTurn{
		toolTurn(2, 1, llm.ToolCall{ID: "call-1", Name: "search_kb", Parameters: map[string]any{"query": "x"}}),
		endTurn("The knowledge base is unavailable right now.", 3, 1),
	}}

	def := refundDefinition()
	def.MockedOutputs = map[string]evaldef.MockedToolOutput{
		"search_kb": evaldef.MockFailure("kb offline"),
	}

	r, err := runner.New(client, supportLoader())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := r.ExecuteRun(context.Background(), def, baselineVariant()); err != nil {
		t.Fatalf("ExecuteRun() = %v, tool-level failures must not fail the run", err)
	}

	toolMsg := client.gotMessages[1][2]
	if got := toolMsg.ToolResults[0].Payload["error"]; got != "kb offline" {
		t.Errorf("tool result payload = %v, wanted the failure message", toolMsg.ToolResults[0].Payload)
	}
}

func offersTool(tools []toolexec.Definition, name string) bool {
	for _, tool := range tools {
		if tool.Name == name {
			return true
		}
	}
	return false
}

func toolNames(tools []toolexec.Definition) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

// fakeLive is a stand-in for the platform's real executor.
type fakeLive struct {
	tools   []toolexec.Definition
	outputs []map[string]any

	mu    sync.Mutex
	calls int
}

func (f *fakeLive) ToolsForLLM() []toolexec.Definition {
	return append([]toolexec.Definition(nil), f.tools...)
}

func (f *fakeLive) CreateRequest(callID, name string, params map[string]any) toolexec.Request {
	return toolexec.Request{CallID: callID, Name: name, Params: params}
}

func (f *fakeLive) ExecuteTool(_ context.Context, req toolexec.Request) (toolexec.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	output := map[string]any{"call": f.calls}
	if f.calls < len(f.outputs) {
		output = f.outputs[f.calls]
	}
	f.calls++
	return toolexec.SuccessResult(req, output), nil
}

func (f *fakeLive) ExecuteTools(ctx context.Context, reqs []toolexec.Request) ([]toolexec.Result, error) {
	results := make([]toolexec.Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := f.ExecuteTool(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
