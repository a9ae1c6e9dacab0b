/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"

	"chainguard.dev/evalkit/toolexec"
)

// ErrUnsupportedModel is returned when no adapter claims a requested model.
var ErrUnsupportedModel = errors.New("unsupported model")

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleTool carries tool results back to the model. Adapters render it in
	// their provider's form; Claude folds it into a user turn.
	RoleTool Role = "tool"
)

// StopReason is the provider-independent reason a generation ended.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
)

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID         string
	Name       string
	Parameters map[string]any
}

// ToolResult is the outcome of one tool call, addressed to the originating
// call by ID. Payload stays in plain map form; adapters serialize it the way
// their provider expects (JSON text for Claude and OpenAI, a structured
// function response for Gemini, which also needs Name).
type ToolResult struct {
	CallID  string
	Name    string
	Payload map[string]any
}

// Message is one turn of a provider-independent conversation.
type Message struct {
	Role    Role
	Content string

	// ToolCalls carries the tool invocations of an assistant turn.
	ToolCalls []ToolCall

	// ToolResults carries tool outcomes on a RoleTool turn.
	ToolResults []ToolResult
}

// UserMessage builds a plain user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage converts a completed generation into the assistant turn
// that continues the conversation.
func AssistantMessage(gen Generation) Message {
	return Message{Role: RoleAssistant, Content: gen.Content, ToolCalls: gen.ToolUse}
}

// ToolResultsMessage builds the turn that answers an assistant's tool calls.
func ToolResultsMessage(results []ToolResult) Message {
	return Message{Role: RoleTool, ToolResults: results}
}

// Usage reports token consumption for a single generation.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// GenerateOptions configures a single generation.
type GenerateOptions struct {
	// SystemPrompt is the system instruction for the conversation.
	SystemPrompt string

	// Tools are the definitions offered to the model for this call.
	Tools []toolexec.Definition

	// MaxTokens caps the generated output. Zero selects the adapter default.
	MaxTokens int
}

// Generation is the model's next turn.
type Generation struct {
	// Content is the assistant text, empty when the model only called tools.
	Content string

	// ToolUse lists the tool calls the model requested, in order.
	ToolUse []ToolCall

	StopReason StopReason
	Usage      Usage
}

// Client is the LLM capability the evaluation runner consumes. Adapters for
// Claude, Gemini, and OpenAI live in the subpackages claudegen, googlegen,
// and openaigen; llm/router constructs the right one from a model name.
type Client interface {
	// GenerateWithTools sends the conversation with the given options and
	// returns the model's next turn. One call is one model turn: the
	// tool-execution loop belongs to the caller.
	GenerateWithTools(ctx context.Context, messages []Message, opts GenerateOptions) (Generation, error)

	// Model returns the model identifier this client targets.
	Model() string
}
