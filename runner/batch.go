/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"fmt"
	"time"

	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/runtrace"
	"chainguard.dev/evalkit/scorer"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchOption configures ExecuteMultipleRuns.
type BatchOption func(*batchConfig)

type batchConfig struct {
	concurrency int
	observers   []Observer
	progress    func(completed, total int)
}

// WithConcurrency runs up to n runs in parallel. Each run owns its own
// executor and recording instance, so parallel runs share no mutable state.
// Values below 2 keep the default sequential behavior.
func WithConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		c.concurrency = n
	}
}

// WithObservers registers observers for run lifecycle events.
func WithObservers(observers ...Observer) BatchOption {
	return func(c *batchConfig) {
		c.observers = append(c.observers, observers...)
	}
}

// WithProgress registers a callback fired after each run finishes, with the
// number of runs finished so far and the batch total.
func WithProgress(fn func(completed, total int)) BatchOption {
	return func(c *batchConfig) {
		c.progress = fn
	}
}

// ExecuteMultipleRuns performs count independent runs of def under variant.
// Runs are isolated: a failing run becomes a zero-scored result carrying the
// error text as a violation and the batch continues. Canceling ctx stops new
// runs from starting; slots that never ran are filled with zero-scored
// canceled results. The returned slice always has count entries, ordered by
// run number.
func (r *Runner) ExecuteMultipleRuns(ctx context.Context, def *evaldef.Definition, variant evaldef.Variant, count int, opts ...BatchOption) []RunResult {
	cfg := batchConfig{concurrency: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if count <= 0 {
		return nil
	}

	observers := cfg.observers
	if cfg.progress != nil {
		observers = append(observers, newProgressObserver(count, cfg.progress))
	}
	notify := multiObserver(observers)

	start := time.Now()
	batchID := uuid.NewString()
	log := clog.FromContext(ctx).With("batch", batchID).With("variant", variant.ID)

	runOne := func(runNumber int) RunResult {
		ec := runtrace.GetEvalContext(ctx)
		ec.BatchID = batchID
		ec.RunNumber = runNumber
		runCtx := runtrace.WithEvalContext(ctx, ec)

		result, err := r.ExecuteRun(runCtx, def, variant)
		if err != nil {
			log.With("run", runNumber).With("error", err).Warn("Run failed, recording zero-scored result")
			result = failedResult(def, variant, err)
			notify.RunFailed(result, err)
			return result
		}
		notify.RunCompleted(result)
		return result
	}

	results := make([]RunResult, count)
	if cfg.concurrency <= 1 {
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				canceled := fmt.Errorf("batch canceled: %w", err)
				results[i] = failedResult(def, variant, canceled)
				notify.RunFailed(results[i], canceled)
				continue
			}
			results[i] = runOne(i + 1)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(cfg.concurrency)
		for i := 0; i < count; i++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					canceled := fmt.Errorf("batch canceled: %w", err)
					results[i] = failedResult(def, variant, canceled)
					notify.RunFailed(results[i], canceled)
					return nil
				}
				results[i] = runOne(i + 1)
				return nil
			})
		}
		// Runs never return errors; Wait only synchronizes.
		_ = g.Wait()
	}

	notify.BatchCompleted(results)
	log.With("runs", count).With("duration", time.Since(start)).Info("Batch completed")
	return results
}

// failedResult converts a run error into a zero-scored result so the batch
// and its statistics stay complete.
func failedResult(def *evaldef.Definition, variant evaldef.Variant, runErr error) RunResult {
	result := RunResult{
		ID:        uuid.NewString(),
		VariantID: variant.ID,
		Timestamp: time.Now(),
		Scores: scorer.Breakdown{
			Violations: []string{fmt.Sprintf("run failed: %v", runErr)},
		},
	}
	if def != nil {
		result.DefinitionID = def.ID
	}
	return result
}
