/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudegen

import (
	"context"
	"encoding/json"
	"fmt"

	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/llm/retry"
	"chainguard.dev/evalkit/metrics"
	"chainguard.dev/evalkit/toolexec"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

const (
	defaultModel       = "claude-sonnet-4@20250514"
	defaultMaxTokens   = 8192
	defaultTemperature = 0.1
)

// Client implements llm.Client for Claude models.
type Client struct {
	client       anthropic.Client
	model        string
	maxTokens    int64
	temperature  float64
	genaiMetrics *metrics.GenAI
	retryConfig  retry.Config
}

// New creates a Claude client on top of a constructed anthropic.Client.
func New(client anthropic.Client, opts ...Option) (*Client, error) {
	c := &Client{
		client:       client,
		model:        defaultModel,
		maxTokens:    defaultMaxTokens,
		temperature:  defaultTemperature,
		genaiMetrics: metrics.NewGenAI(metrics.MeterName),
		retryConfig:  retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return c, nil
}

// Model returns the model identifier this client targets.
func (c *Client) Model() string {
	return c.model
}

// GenerateWithTools performs one model turn: it streams the response for the
// given conversation, accumulates it, and returns the text, tool calls, stop
// reason, and token usage.
func (c *Client) GenerateWithTools(ctx context.Context, messages []llm.Message, opts llm.GenerateOptions) (llm.Generation, error) {
	log := clog.FromContext(ctx).With("model", c.model)

	converted, err := toMessageParams(messages)
	if err != nil {
		return llm.Generation{}, err
	}

	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  converted,
		Tools:     toToolParams(opts.Tools),
	}
	params.Temperature = anthropic.Float(c.temperature)
	if opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.SystemPrompt}}
	}

	message, err := retry.Do(ctx, c.retryConfig, "stream_message", isRetryableClaudeError, func() (anthropic.Message, error) {
		stream := c.client.Messages.NewStreaming(ctx, params)
		var msg anthropic.Message
		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				return msg, fmt.Errorf("accumulating stream event: %w", err)
			}
		}
		if err := stream.Err(); err != nil {
			return msg, err
		}
		return msg, nil
	})
	if err != nil {
		return llm.Generation{}, fmt.Errorf("streaming Claude response: %w", err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		c.genaiMetrics.RecordTokens(ctx, c.model, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	gen := llm.Generation{
		StopReason: stopReasonFrom(string(message.StopReason)),
		Usage: llm.Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
		},
	}
	for _, content := range message.Content {
		switch content.Type {
		case "text":
			gen.Content = content.Text
		case "tool_use":
			input := map[string]any{}
			if len(content.Input) > 0 {
				if err := json.Unmarshal(content.Input, &input); err != nil {
					return llm.Generation{}, fmt.Errorf("decoding input for tool %q: %w", content.Name, err)
				}
			}
			gen.ToolUse = append(gen.ToolUse, llm.ToolCall{
				ID:         content.ID,
				Name:       content.Name,
				Parameters: input,
			})
		}
	}
	if len(gen.ToolUse) > 0 {
		gen.StopReason = llm.StopToolUse
	}

	log.With("stop_reason", gen.StopReason).
		With("tool_calls", len(gen.ToolUse)).
		Debug("Claude generation complete")
	return gen, nil
}

// toMessageParams converts the provider-independent conversation into
// Anthropic message params. Tool results travel as tool_result blocks on a
// user turn, matching the Messages API shape.
func toMessageParams(messages []llm.Message) ([]anthropic.MessageParam, error) {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleUser:
			params = append(params, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(m.Content),
				},
			})

		case llm.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, call := range m.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.ID,
						Name:  call.Name,
						Input: call.Parameters,
					},
				})
			}
			params = append(params, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})

		case llm.RoleTool:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolResults))
			for _, res := range m.ToolResults {
				payload, err := json.Marshal(res.Payload)
				if err != nil {
					return nil, fmt.Errorf("marshaling result for tool %q: %w", res.Name, err)
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: res.CallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{
								Text: string(payload),
							},
						}},
					},
				})
			}
			params = append(params, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: blocks,
			})

		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return params, nil
}

// toToolParams converts tool definitions into Anthropic tool params. A
// definition's RawSchema wins over its flat Parameters when both are set.
func toToolParams(defs []toolexec.Definition) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}
	tools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		tool := anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: toInputSchema(def),
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return tools
}

func toInputSchema(def toolexec.Definition) anthropic.ToolInputSchemaParam {
	if def.RawSchema != nil {
		return anthropic.ToolInputSchemaParam{
			Properties: def.RawSchema["properties"],
			Required:   requiredNames(def.RawSchema["required"]),
		}
	}

	properties := map[string]any{}
	var required []string
	for _, p := range def.Parameters {
		properties[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return anthropic.ToolInputSchemaParam{
		Properties: properties,
		Required:   required,
	}
}

// requiredNames normalizes the required list of a plain-map schema, which is
// []any after a JSON round trip.
func requiredNames(v any) []string {
	switch names := v.(type) {
	case []string:
		return names
	case []any:
		out := make([]string, 0, len(names))
		for _, n := range names {
			if s, ok := n.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// stopReasonFrom maps Anthropic stop reasons onto the shared vocabulary.
func stopReasonFrom(reason string) llm.StopReason {
	switch reason {
	case "tool_use":
		return llm.StopToolUse
	case "max_tokens":
		return llm.StopMaxTokens
	default:
		return llm.StopEndTurn
	}
}
