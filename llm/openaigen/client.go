/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaigen

import (
	"context"
	"encoding/json"
	"fmt"

	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/llm/retry"
	"chainguard.dev/evalkit/metrics"
	"chainguard.dev/evalkit/toolexec"
	"github.com/chainguard-dev/clog"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxTokens   = 8192
	defaultTemperature = float32(0.1)
)

// Client implements llm.Client for OpenAI models.
type Client struct {
	client       *openai.Client
	model        string
	maxTokens    int
	temperature  float32
	genaiMetrics *metrics.GenAI
	retryConfig  retry.Config
}

// New creates an OpenAI client on top of a constructed openai.Client.
func New(client *openai.Client, opts ...Option) (*Client, error) {
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

// GenerateWithTools performs one chat completion. The system prompt rides the
// message list, matching the chat completions shape.
func (c *Client) GenerateWithTools(ctx context.Context, messages []llm.Message, opts llm.GenerateOptions) (llm.Generation, error) {
	log := clog.FromContext(ctx).With("model", c.model)

	converted, err := toChatMessages(messages, opts.SystemPrompt)
	if err != nil {
		return llm.Generation{}, err
	}

	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model:               c.model,
		Messages:            converted,
		MaxCompletionTokens: maxTokens,
		Temperature:         c.temperature,
		Tools:               toTools(opts.Tools),
	}

	resp, err := retry.Do(ctx, c.retryConfig, "chat_completion", isRetryableOpenAIError, func() (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return llm.Generation{}, fmt.Errorf("creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Generation{}, fmt.Errorf("no choices in OpenAI response")
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		c.genaiMetrics.RecordTokens(ctx, c.model, int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	}

	choice := resp.Choices[0]
	gen := llm.Generation{
		Content:    choice.Message.Content,
		StopReason: stopReasonFrom(choice.FinishReason),
		Usage: llm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	for _, call := range choice.Message.ToolCalls {
		params := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
				return llm.Generation{}, fmt.Errorf("decoding arguments for tool %q: %w", call.Function.Name, err)
			}
		}
		gen.ToolUse = append(gen.ToolUse, llm.ToolCall{
			ID:         call.ID,
			Name:       call.Function.Name,
			Parameters: params,
		})
	}
	if len(gen.ToolUse) > 0 {
		gen.StopReason = llm.StopToolUse
	}

	log.With("stop_reason", gen.StopReason).
		With("tool_calls", len(gen.ToolUse)).
		Debug("OpenAI generation complete")
	return gen, nil
}

// toChatMessages converts the provider-independent conversation into chat
// completion messages. Each tool result becomes its own tool-role message
// addressed by ToolCallID.
func toChatMessages(messages []llm.Message, systemPrompt string) ([]openai.ChatCompletionMessage, error) {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, m := range messages {
		switch m.Role {
		case llm.RoleUser:
			converted = append(converted, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})

		case llm.RoleAssistant:
			msg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Content,
			}
			for _, call := range m.ToolCalls {
				args, err := json.Marshal(call.Parameters)
				if err != nil {
					return nil, fmt.Errorf("marshaling arguments for tool %q: %w", call.Name, err)
				}
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			converted = append(converted, msg)

		case llm.RoleTool:
			for _, res := range m.ToolResults {
				payload, err := json.Marshal(res.Payload)
				if err != nil {
					return nil, fmt.Errorf("marshaling result for tool %q: %w", res.Name, err)
				}
				converted = append(converted, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    string(payload),
					ToolCallID: res.CallID,
				})
			}

		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return converted, nil
}

// toTools converts tool definitions into chat completion tools. Parameters is
// a JSON schema in plain map form either way, so RawSchema passes through and
// flat Parameters build the equivalent object schema.
func toTools(defs []toolexec.Definition) []openai.Tool {
	if len(defs) == 0 {
		return nil
	}
	tools := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  toParametersSchema(def),
			},
		})
	}
	return tools
}

func toParametersSchema(def toolexec.Definition) map[string]any {
	if def.RawSchema != nil {
		return def.RawSchema
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
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// stopReasonFrom maps chat completion finish reasons onto the shared
// vocabulary.
func stopReasonFrom(reason openai.FinishReason) llm.StopReason {
	switch reason {
	case openai.FinishReasonToolCalls:
		return llm.StopToolUse
	case openai.FinishReasonLength:
		return llm.StopMaxTokens
	default:
		return llm.StopEndTurn
	}
}
