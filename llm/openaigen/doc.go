/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaigen implements llm.Client for OpenAI models on the
// sashabaranov/go-openai SDK, using the chat completions API with native
// tool calling.
package openaigen
