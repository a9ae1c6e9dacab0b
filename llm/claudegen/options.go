/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudegen

import (
	"fmt"
	"strings"

	"chainguard.dev/evalkit/llm/retry"
)

// Option configures a Client during construction.
type Option func(*Client) error

// WithModel selects the Claude model to target.
func WithModel(model string) Option {
	return func(c *Client) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		c.model = model
		return nil
	}
}

// WithMaxTokens sets the default output token cap. A per-call
// GenerateOptions.MaxTokens overrides it.
func WithMaxTokens(tokens int64) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		c.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature. Evaluations default low to
// keep repeated runs comparable.
func WithTemperature(temp float64) Option {
	return func(c *Client) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
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
