/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package llm defines the provider-independent LLM boundary the evaluation
// engine runs against: a conversation of Messages, tool definitions offered
// per call, and a Generation carrying the model's text, tool calls, stop
// reason, and token usage.
//
// The engine itself never talks to a provider. Adapters in claudegen,
// googlegen, and openaigen implement Client on top of their vendor SDKs, and
// llm/router picks an adapter from a model name prefix. Each adapter performs
// exactly one model turn per call; the tool-execution loop, and any decision
// to continue the conversation, stays with the caller.
package llm
