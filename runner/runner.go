/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/evalkit/delegatetool"
	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/metrics"
	"chainguard.dev/evalkit/promptbuilder"
	"chainguard.dev/evalkit/runtrace"
	"chainguard.dev/evalkit/scorer"
	"chainguard.dev/evalkit/toolexec"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultMaxToolIterations bounds the tool loop when no override is set.
const DefaultMaxToolIterations = 10

// ExhaustedResponse is the final response recorded when the tool loop hits
// its iteration bound before the model produces a final text turn. The run
// is scored against it, so a systematically looping prompt yields a low
// score rather than an error.
const ExhaustedResponse = "No final response was produced within the tool iteration limit."

// Runner executes evaluation definitions against a model.
type Runner struct {
	client            llm.Client
	overrides         map[string]llm.Client
	prompts           promptbuilder.Loader
	scorer            *scorer.Scorer
	live              toolexec.Executor
	genaiMetrics      *metrics.GenAI
	delegateTool      toolexec.Definition
	maxToolIterations int
}

// Option configures a Runner.
type Option func(*Runner) error

// WithScorer overrides the default scorer, e.g. to change dimension weights
// or plug in an LLM-backed element matcher.
func WithScorer(s *scorer.Scorer) Option {
	return func(r *Runner) error {
		if s == nil {
			return errors.New("scorer cannot be nil")
		}
		r.scorer = s
		return nil
	}
}

// WithLiveExecutor injects the platform's real tool executor, required for
// definitions in live or capture mode.
func WithLiveExecutor(ex toolexec.Executor) Option {
	return func(r *Runner) error {
		if ex == nil {
			return errors.New("live executor cannot be nil")
		}
		r.live = ex
		return nil
	}
}

// WithModelClient registers a client for variants that override the model.
// Clients are constructed at process start; a variant naming a model with no
// registered client fails its runs.
func WithModelClient(model string, client llm.Client) Option {
	return func(r *Runner) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		if client == nil {
			return fmt.Errorf("client for model %q cannot be nil", model)
		}
		if r.overrides == nil {
			r.overrides = map[string]llm.Client{}
		}
		r.overrides[model] = client
		return nil
	}
}

// WithMaxToolIterations overrides the tool-loop bound.
func WithMaxToolIterations(n int) Option {
	return func(r *Runner) error {
		if n <= 0 {
			return fmt.Errorf("max tool iterations must be positive, got %d", n)
		}
		r.maxToolIterations = n
		return nil
	}
}

// New creates a Runner with the default client and prompt loader.
func New(client llm.Client, prompts promptbuilder.Loader, opts ...Option) (*Runner, error) {
	if client == nil {
		return nil, errors.New("llm client cannot be nil")
	}
	if prompts == nil {
		return nil, errors.New("prompt loader cannot be nil")
	}

	delegateTool, err := delegatetool.Tool(delegatetool.Options{})
	if err != nil {
		return nil, fmt.Errorf("building delegate tool: %w", err)
	}

	genaiMetrics := metrics.NewGenAI(metrics.MeterName)
	genaiMetrics.SetAttributeEnricher(func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
		return runtrace.GetEvalContext(ctx).EnrichAttributes(baseAttrs)
	})

	r := &Runner{
		client:            client,
		prompts:           prompts,
		genaiMetrics:      genaiMetrics,
		delegateTool:      delegateTool,
		maxToolIterations: DefaultMaxToolIterations,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	if r.scorer == nil {
		r.scorer = scorer.New()
	}
	return r, nil
}

// ExecuteRun performs one evaluation run of def under variant and scores it.
// Configuration errors and external failures return an error; tool-loop
// exhaustion does not (see ExhaustedResponse).
func (r *Runner) ExecuteRun(ctx context.Context, def *evaldef.Definition, variant evaldef.Variant) (result RunResult, err error) {
	if def == nil {
		return RunResult{}, errors.New("definition cannot be nil")
	}
	if err := def.Validate(); err != nil {
		return RunResult{}, err
	}

	client, err := r.clientFor(variant)
	if err != nil {
		return RunResult{}, err
	}

	ec := runtrace.GetEvalContext(ctx)
	ec.DefinitionID = def.ID
	ec.VariantID = variant.ID
	ctx = runtrace.WithEvalContext(ctx, ec)

	log := clog.FromContext(ctx).With("definition", def.ID).With("variant", variant.ID)

	prompt, err := r.prompts.Load(ctx, variant.PromptTarget)
	if err != nil {
		return RunResult{}, fmt.Errorf("loading prompt %q: %w", variant.PromptTarget, err)
	}
	systemPrompt, err := prompt.Build()
	if err != nil {
		return RunResult{}, fmt.Errorf("building prompt %q: %w", variant.PromptTarget, err)
	}

	exec, capture, err := r.buildExecutor(def)
	if err != nil {
		return RunResult{}, err
	}
	supervisor := def.TargetAgent == evaldef.TargetSupervisor
	if supervisor {
		exec = &delegatingExecutor{inner: exec, tool: r.delegateTool}
	}
	recording := toolexec.NewRecording(exec)

	log.With("model", client.Model()).Info("Starting evaluation run")

	trace := runtrace.Start(ctx, def.ID, variant.ID)
	defer func() {
		trace.Complete(err)
	}()

	start := time.Now()
	response, iterations, usage, err := r.toolLoop(ctx, client, recording, systemPrompt, def.TestCase, trace)
	if err != nil {
		return RunResult{}, err
	}

	var decision delegatetool.Decision
	var delegation *delegatetool.Decision
	if supervisor {
		decision = delegatetool.DecisionFromCalls(recording.RecordedCalls(), r.delegateTool.Name)
		delegation = &decision
	}

	scores, err := r.scorer.ScoreRun(ctx, def, response, recording.RecordedCalls(), decision)
	if err != nil {
		return RunResult{}, fmt.Errorf("scoring run: %w", err)
	}

	result = RunResult{
		ID:           uuid.NewString(),
		DefinitionID: def.ID,
		VariantID:    variant.ID,
		Timestamp:    start,
		Response:     response,
		Scores:       scores,
		Iterations:   iterations,
		Latency:      time.Since(start),
		Usage:        usage,
		Delegation:   delegation,
	}
	if capture != nil {
		result.Snapshots = capture.Snapshots()
	}

	log.With("score", scores.OverallScore).
		With("iterations", iterations).
		With("tokens", usage.Total()).
		Info("Run completed")
	return result, nil
}

// toolLoop drives the conversation until the model produces a final text
// turn or the iteration bound is hit.
func (r *Runner) toolLoop(ctx context.Context, client llm.Client, exec *toolexec.RecordingExecutor, systemPrompt string, tc evaldef.TestCase, trace *runtrace.Trace) (string, int, TokenUsage, error) {
	log := clog.FromContext(ctx)
	messages := seedMessages(tc)
	opts := llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Tools:        exec.ToolsForLLM(),
	}

	var usage TokenUsage
	for iteration := 1; iteration <= r.maxToolIterations; iteration++ {
		step := trace.StartLLMTurn(client.Model())
		gen, err := client.GenerateWithTools(ctx, messages, opts)
		step.Complete(err)
		if err != nil {
			return "", iteration, usage, fmt.Errorf("generating model response: %w", err)
		}

		usage = usage.add(TokenUsage{
			InputTokens:  gen.Usage.InputTokens,
			OutputTokens: gen.Usage.OutputTokens,
		})
		if gen.Usage.InputTokens > 0 || gen.Usage.OutputTokens > 0 {
			trace.RecordTokenUsage(client.Model(), int64(gen.Usage.InputTokens), int64(gen.Usage.OutputTokens))
		}

		if len(gen.ToolUse) == 0 || gen.StopReason == llm.StopEndTurn {
			return gen.Content, iteration, usage, nil
		}

		results := make([]llm.ToolResult, 0, len(gen.ToolUse))
		for _, call := range gen.ToolUse {
			log.With("tool", call.Name).With("id", call.ID).Info("Executing tool call")

			step := trace.StartToolCall(call.ID, call.Name)
			res, err := exec.ExecuteTool(ctx, exec.CreateRequest(call.ID, call.Name, call.Parameters))
			step.Complete(err)
			if err != nil {
				return "", iteration, usage, fmt.Errorf("executing tool %q: %w", call.Name, err)
			}

			r.genaiMetrics.RecordToolCall(ctx, client.Model(), call.Name)
			results = append(results, toolResultForLLM(res))
		}
		messages = append(messages, llm.AssistantMessage(gen), llm.ToolResultsMessage(results))
	}

	log.With("max_iterations", r.maxToolIterations).Warn("Tool loop exhausted without a final response")
	return ExhaustedResponse, r.maxToolIterations, usage, nil
}

// clientFor resolves the variant's model override, defaulting to the
// runner's client.
func (r *Runner) clientFor(variant evaldef.Variant) (llm.Client, error) {
	if variant.Model == "" {
		return r.client, nil
	}
	if client, ok := r.overrides[variant.Model]; ok {
		return client, nil
	}
	if r.client.Model() == variant.Model {
		return r.client, nil
	}
	return nil, fmt.Errorf("%w: variant %q wants model %q and no client is registered for it", llm.ErrUnsupportedModel, variant.ID, variant.Model)
}

// buildExecutor constructs the mode-appropriate executor. In capture mode it
// also returns the Capture instance so the run can collect snapshots.
func (r *Runner) buildExecutor(def *evaldef.Definition) (toolexec.Executor, *toolexec.Capture, error) {
	switch mode := def.EffectiveToolMode(); mode {
	case evaldef.ToolModeMocked:
		return toolexec.NewMocked(def.MockedOutputs), nil, nil
	case evaldef.ToolModeLive:
		if r.live == nil {
			return nil, nil, fmt.Errorf("definition %q: tool mode %q needs a live executor and none is configured", def.ID, mode)
		}
		return r.live, nil, nil
	case evaldef.ToolModeCapture:
		if r.live == nil {
			return nil, nil, fmt.Errorf("definition %q: tool mode %q needs a live executor and none is configured", def.ID, mode)
		}
		capture := toolexec.NewCapture(r.live)
		return capture, capture, nil
	default:
		// Validate rejects unknown modes before this point.
		return nil, nil, fmt.Errorf("definition %q: unknown tool mode %q", def.ID, mode)
	}
}

// seedMessages builds the initial conversation: prior history turns oldest
// first, then the test case prompt as the closing user turn.
func seedMessages(tc evaldef.TestCase) []llm.Message {
	messages := make([]llm.Message, 0, len(tc.History)+1)
	for _, turn := range tc.History {
		role := llm.RoleUser
		if turn.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	return append(messages, llm.UserMessage(tc.Prompt))
}

// toolResultForLLM converts an executor result into the payload fed back to
// the model. Tool-level failures become an error payload the model can react
// to.
func toolResultForLLM(res toolexec.Result) llm.ToolResult {
	payload := res.Output
	if !res.Success {
		payload = map[string]any{"error": res.Error}
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return llm.ToolResult{CallID: res.CallID, Name: res.Name, Payload: payload}
}
