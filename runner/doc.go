/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package runner executes evaluation definitions against a model and scores
// the outcome.
//
// A Runner drives one conversation per run: it resolves the variant's system
// prompt through a promptbuilder.Loader, offers the definition's tools, loops
// on tool calls until the model produces a final text turn or the iteration
// bound is hit, and hands the response plus the recorded calls to the scorer.
// ExecuteMultipleRuns repeats that N times with per-run isolation, so one
// failing run becomes a zero-scored result instead of aborting the batch; the
// statistics package consumes the resulting RunResult slices.
//
//	r, err := runner.New(client, promptbuilder.Static{
//		"support-agent": promptbuilder.MustNewPrompt("You are a support agent."),
//	})
//	if err != nil {
//		return err
//	}
//	results := r.ExecuteMultipleRuns(ctx, def, variant, 10,
//		runner.WithObservers(runner.MetricsObserver{}))
package runner
