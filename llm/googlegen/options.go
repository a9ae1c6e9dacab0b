/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlegen

import (
	"fmt"
	"strings"

	"chainguard.dev/evalkit/llm/retry"
)

// Option configures a Client during construction.
type Option func(*Client) error

// WithModel selects the Gemini model to target.
func WithModel(model string) Option {
	return func(c *Client) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		c.model = model
		return nil
	}
}

// WithMaxOutputTokens sets the default output token cap. A per-call
// GenerateOptions.MaxTokens overrides it.
func WithMaxOutputTokens(tokens int32) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		c.maxOutputTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature. Evaluations default low to
// keep repeated runs comparable.
func WithTemperature(temp float32) Option {
	return func(c *Client) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		c.temperature = temp
		return nil
	}
}

// WithRetryConfig overrides the backoff behavior for transient API errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retryConfig = cfg
		return nil
	}
}
