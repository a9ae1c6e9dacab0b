/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googlegen implements llm.Client for Gemini models on the
// google.golang.org/genai SDK, covering both Vertex AI and the Gemini API
// backends.
package googlegen
