/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package router constructs the right llm.Client for a model name. Routing
// is by prefix: claude-* models go to claudegen, gemini-* to googlegen, and
// gpt-* or o-series to openaigen.
package router

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chainguard.dev/evalkit/llm"
	"chainguard.dev/evalkit/llm/claudegen"
	"chainguard.dev/evalkit/llm/googlegen"
	"chainguard.dev/evalkit/llm/openaigen"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// oSeries matches OpenAI's reasoning model family (o1, o3-mini, o4, ...).
var oSeries = regexp.MustCompile(`^o\d`)

// Config selects a model and how to reach its provider.
type Config struct {
	// Model determines the provider: claude-*, gemini-*, gpt-*, or o-series.
	Model string

	// ProjectID and Region select Vertex AI hosting for Claude and Gemini
	// models.
	ProjectID string
	Region    string

	// APIKey authenticates direct provider APIs: Anthropic or Gemini when
	// Vertex is not configured, and OpenAI always.
	APIKey string
}

// New constructs the llm.Client for the configured model.
func New(ctx context.Context, cfg Config) (llm.Client, error) {
	model := strings.ToLower(cfg.Model)
	switch {
	case strings.HasPrefix(model, "claude-"):
		return newClaudeClient(ctx, cfg)
	case strings.HasPrefix(model, "gemini-"):
		return newGeminiClient(ctx, cfg)
	case strings.HasPrefix(model, "gpt-") || oSeries.MatchString(model):
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %s (expected claude-*, gemini-*, gpt-*, or o-series)", llm.ErrUnsupportedModel, cfg.Model)
	}
}

func newClaudeClient(ctx context.Context, cfg Config) (llm.Client, error) {
	var client anthropic.Client
	switch {
	case cfg.ProjectID != "" && cfg.Region != "":
		client = anthropic.NewClient(
			vertex.WithGoogleAuth(ctx, cfg.Region, cfg.ProjectID),
		)
	case cfg.APIKey != "":
		client = anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	default:
		return nil, errors.New("claude models need ProjectID and Region for Vertex AI, or APIKey for the Anthropic API")
	}
	return claudegen.New(client, claudegen.WithModel(cfg.Model))
}

func newGeminiClient(ctx context.Context, cfg Config) (llm.Client, error) {
	clientConfig := &genai.ClientConfig{}
	switch {
	case cfg.ProjectID != "" && cfg.Region != "":
		clientConfig.Project = cfg.ProjectID
		clientConfig.Location = cfg.Region
		clientConfig.Backend = genai.BackendVertexAI
	case cfg.APIKey != "":
		clientConfig.APIKey = cfg.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	default:
		return nil, errors.New("gemini models need ProjectID and Region for Vertex AI, or APIKey for the Gemini API")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}
	return googlegen.New(client, googlegen.WithModel(cfg.Model))
}

func newOpenAIClient(cfg Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai models need APIKey")
	}
	return openaigen.New(openai.NewClient(cfg.APIKey), openaigen.WithModel(cfg.Model))
}
