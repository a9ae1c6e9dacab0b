/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides bounded exponential backoff for the LLM adapters.
// Retries live here, inside the adapters, and nowhere else: the evaluation
// engine treats a failed model call as a terminal, scoreable outcome.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config bounds the retry loop around a provider API call. The defaults lean
// long because the errors worth retrying are quota and overload responses,
// which need time to clear.
type Config struct {
	// MaxRetries is the number of retry attempts after the initial call.
	// Zero disables retrying.
	MaxRetries int

	// BaseBackoff is the wait before the first retry.
	BaseBackoff time.Duration

	// MaxBackoff caps the exponential growth of the wait.
	MaxBackoff time.Duration

	// MaxJitter is the upper bound of the random delay added to each wait.
	MaxJitter time.Duration
}

// Validate checks the configuration for negative values.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig returns the retry configuration the adapters start from.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Do executes fn with exponential backoff, retrying only errors the
// isRetryable classifier accepts. The operation name labels log lines and the
// terminal error. Cancelling the context interrupts the backoff wait.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if !isRetryable(lastErr) {
			return result, lastErr
		}

		if attempt >= cfg.MaxRetries {
			break
		}

		wait := backoffFor(cfg, attempt)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Transient provider error, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(wait):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}

// backoffFor computes BaseBackoff * 2^attempt capped at MaxBackoff, plus
// random jitter to spread retry storms.
func backoffFor(cfg Config, attempt int) time.Duration {
	backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)
	if cfg.MaxJitter > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter))); err == nil {
			backoff += time.Duration(n.Int64())
		}
	}
	return backoff
}
