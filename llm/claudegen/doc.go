/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudegen implements llm.Client on the Anthropic SDK.
//
// Responses are streamed and accumulated into a complete message, with
// transient API errors (rate limits, overload) retried under llm/retry.
// Each GenerateWithTools call performs exactly one model turn; tool calls
// come back in the Generation for the caller to execute.
//
// The client works against both the Anthropic API and Claude on Vertex AI;
// the hosting choice is made when constructing the anthropic.Client passed
// to New (llm/router does this from its Config).
package claudegen
