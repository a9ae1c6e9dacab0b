/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlegen

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/llm/retry"
	"chainguard.dev/evalkit/metrics"
	"chainguard.dev/evalkit/toolexec"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

const (
	defaultModel           = "gemini-2.5-flash"
	defaultMaxOutputTokens = 8192
	defaultTemperature     = float32(0.1)

	// maxMalformedRetries bounds how often a single turn nudges the model
	// after a malformed function call before giving up.
	maxMalformedRetries = 2
)

// Client implements llm.Client for Gemini models.
type Client struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
	temperature     float32
	genaiMetrics    *metrics.GenAI
	retryConfig     retry.Config
}

// New creates a Gemini client on top of a constructed genai.Client.
func New(client *genai.Client, opts ...Option) (*Client, error) {
	c := &Client{
		client:          client,
		model:           defaultModel,
		maxOutputTokens: defaultMaxOutputTokens,
		temperature:     defaultTemperature,
		genaiMetrics:    metrics.NewGenAI(metrics.MeterName),
		retryConfig:     retry.DefaultConfig(),
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

// GenerateWithTools performs one model turn against the Gemini API. A
// malformed function call gets the model nudged to retry, a bounded number
// of times, before the turn fails.
func (c *Client) GenerateWithTools(ctx context.Context, messages []llm.Message, opts llm.GenerateOptions) (llm.Generation, error) {
	log := clog.FromContext(ctx).With("model", c.model)

	contents, err := toContents(messages)
	if err != nil {
		return llm.Generation{}, err
	}

	maxTokens := c.maxOutputTokens
	if opts.MaxTokens > 0 {
		maxTokens = int32(opts.MaxTokens)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(c.temperature),
		MaxOutputTokens: maxTokens,
	}
	if opts.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{
				Text: opts.SystemPrompt,
			}},
		}
	}

	declarations, err := toFunctionDeclarations(opts.Tools)
	if err != nil {
		return llm.Generation{}, err
	}
	if len(declarations) > 0 {
		config.Tools = []*genai.Tool{{
			FunctionDeclarations: declarations,
		}}
	}

	var usage llm.Usage
	for nudges := 0; ; {
		response, err := retry.Do(ctx, c.retryConfig, "generate_content", isRetryableVertexError, func() (*genai.GenerateContentResponse, error) {
			return c.client.Models.GenerateContent(ctx, c.model, contents, config)
		})
		if err != nil {
			return llm.Generation{}, fmt.Errorf("generating Gemini response: %w", err)
		}

		if response.UsageMetadata != nil {
			in := int64(response.UsageMetadata.PromptTokenCount)
			out := int64(response.UsageMetadata.CandidatesTokenCount)
			c.genaiMetrics.RecordTokens(ctx, c.model, in, out)
			usage.InputTokens += int(in)
			usage.OutputTokens += int(out)
		}

		if len(response.Candidates) == 0 {
			return llm.Generation{}, errors.New("no content generated: no candidates")
		}
		candidate := response.Candidates[0]

		if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
			if nudges >= maxMalformedRetries {
				return llm.Generation{}, fmt.Errorf("model kept producing malformed function calls: %s", candidate.FinishMessage)
			}
			nudges++
			log.With("finish_message", candidate.FinishMessage).
				Warn("Model attempted a malformed function call, asking it to retry")

			var names []string
			for _, decl := range declarations {
				names = append(names, decl.Name)
			}
			if candidate.Content != nil {
				contents = append(contents, candidate.Content)
			}
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					Text: fmt.Sprintf("The function call was malformed. Please try again using the available functions: %v", names),
				}},
			})
			continue
		}

		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			return llm.Generation{}, errors.New("no content generated: candidate has no parts")
		}

		gen := llm.Generation{Usage: usage}
		for _, part := range candidate.Content.Parts {
			switch {
			case part.Thought:
				// Reasoning parts are not part of the scored response.
			case part.Text != "":
				gen.Content = part.Text
			case part.FunctionCall != nil:
				gen.ToolUse = append(gen.ToolUse, llm.ToolCall{
					ID:         part.FunctionCall.ID,
					Name:       part.FunctionCall.Name,
					Parameters: part.FunctionCall.Args,
				})
			}
		}

		switch {
		case len(gen.ToolUse) > 0:
			gen.StopReason = llm.StopToolUse
		case candidate.FinishReason == genai.FinishReasonMaxTokens:
			gen.StopReason = llm.StopMaxTokens
		default:
			gen.StopReason = llm.StopEndTurn
		}

		log.With("stop_reason", gen.StopReason).
			With("tool_calls", len(gen.ToolUse)).
			Debug("Gemini generation complete")
		return gen, nil
	}
}

// toContents converts the provider-independent conversation into genai
// contents. Assistant turns become "model" contents carrying function calls;
// tool results ride a "user" content as function responses.
func toContents(messages []llm.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleUser:
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					Text: m.Content,
				}},
			})

		case llm.RoleAssistant:
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, call := range m.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   call.ID,
						Name: call.Name,
						Args: call.Parameters,
					},
				})
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})

		case llm.RoleTool:
			parts := make([]*genai.Part, 0, len(m.ToolResults))
			for _, res := range m.ToolResults {
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       res.CallID,
						Name:     res.Name,
						Response: res.Payload,
					},
				})
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: parts})

		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return contents, nil
}

// toFunctionDeclarations converts tool definitions into genai declarations.
// RawSchema wins over flat Parameters when both are set.
func toFunctionDeclarations(defs []toolexec.Definition) ([]*genai.FunctionDeclaration, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	declarations := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		schema, err := toSchema(def)
		if err != nil {
			return nil, fmt.Errorf("converting schema for tool %q: %w", def.Name, err)
		}
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  schema,
		})
	}
	return declarations, nil
}

func toSchema(def toolexec.Definition) (*genai.Schema, error) {
	if def.RawSchema != nil {
		return schemaFromMap(def.RawSchema)
	}

	properties := map[string]*genai.Schema{}
	var required []string
	for _, p := range def.Parameters {
		properties[p.Name] = &genai.Schema{
			Type:        mapSchemaType(p.Type),
			Description: p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}, nil
}

// schemaFromMap converts a plain-map JSON schema into genai form. Only the
// fields tool schemas carry are mapped; vocabulary keys like $schema are
// dropped.
func schemaFromMap(m map[string]any) (*genai.Schema, error) {
	out := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		out.Type = mapSchemaType(t)
	}
	if d, ok := m["description"].(string); ok {
		out.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			sub, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q is %T, not an object", name, raw)
			}
			converted, err := schemaFromMap(sub)
			if err != nil {
				return nil, err
			}
			out.Properties[name] = converted
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		converted, err := schemaFromMap(items)
		if err != nil {
			return nil, err
		}
		out.Items = converted
	}
	switch req := m["required"].(type) {
	case []string:
		out.Required = append(out.Required, req...)
	case []any:
		for _, r := range req {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("required entry is %T, not a string", r)
			}
			out.Required = append(out.Required, s)
		}
	}
	if enum, ok := m["enum"].([]any); ok {
		for _, v := range enum {
			out.Enum = append(out.Enum, fmt.Sprint(v))
		}
	}
	return out, nil
}

// mapSchemaType maps JSON schema type names onto the genai enum.
func mapSchemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	case "null":
		return genai.TypeNULL
	default:
		return ""
	}
}

// ptr is a helper function to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
