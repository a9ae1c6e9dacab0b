/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the JSON payload of a model response. Models asked for
// bare JSON still wrap it in a markdown code fence often enough that callers
// should never unmarshal raw response text. The first ```json block wins;
// without one, the trimmed text is returned with stray fence markers removed.
func ExtractJSON(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "```json" {
			continue
		}
		body := lines[i+1:]
		for j, inner := range body {
			if strings.TrimSpace(inner) == "```" {
				body = body[:j]
				break
			}
		}
		return strings.TrimSpace(strings.Join(body, "\n"))
	}

	// No fenced block on its own line. Trim whole-response fences, which
	// some models emit without a trailing newline before the closing marker.
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// Extract unmarshals the JSON payload of a model response into T, tolerating
// markdown fences around the payload.
func Extract[T any](text string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &out); err != nil {
		return out, fmt.Errorf("unmarshaling model response: %w", err)
	}
	return out, nil
}
