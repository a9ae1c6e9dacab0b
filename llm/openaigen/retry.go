/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaigen

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

// isRetryableOpenAIError reports whether an OpenAI API error is worth
// retrying: rate limits and transient server or gateway failures.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 500, 502, 503:
			return true
		}
	}
	return false
}
