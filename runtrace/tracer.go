/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runtrace

import (
	"context"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Tracer creates traces and receives them back when they complete.
type Tracer interface {
	// NewTrace opens a trace for one run of a definition variant.
	NewTrace(ctx context.Context, definitionID, variantID string) *Trace

	// RecordTrace is called with every completed trace.
	RecordTrace(trace *Trace)
}

// tracerKey is the context key for the configured Tracer.
type tracerKey struct{}

// WithTracer returns a context carrying the given tracer.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// FromContext returns the configured tracer, or a clog-logging default.
func FromContext(ctx context.Context) Tracer {
	if tracer, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return tracer
	}
	return NewDefaultTracer(ctx)
}

// Start opens a trace using the tracer from the context.
func Start(ctx context.Context, definitionID, variantID string) *Trace {
	return FromContext(ctx).NewTrace(ctx, definitionID, variantID)
}

// Callback receives completed traces.
type Callback func(*Trace)

// byCodeTracer fans completed traces out to callbacks.
type byCodeTracer struct {
	callbacks []Callback
}

// ByCode creates a Tracer invoking the given callbacks on every completed
// trace.
func ByCode(callbacks ...Callback) Tracer {
	return &byCodeTracer{callbacks: callbacks}
}

// NewTrace implements Tracer.
func (t *byCodeTracer) NewTrace(ctx context.Context, definitionID, variantID string) *Trace {
	return newTrace(ctx, t, definitionID, variantID)
}

// RecordTrace invokes all callbacks in parallel and waits for them.
func (t *byCodeTracer) RecordTrace(trace *Trace) {
	g := new(errgroup.Group)
	for _, callback := range t.callbacks {
		if callback != nil {
			g.Go(func() error {
				callback(trace)
				return nil
			})
		}
	}
	// Callbacks have no error path; Wait only synchronizes.
	_ = g.Wait()
}

// NewDefaultTracer returns a tracer that logs completed traces through clog.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)

	return ByCode(func(trace *Trace) {
		logger.With(
			"trace_id", trace.ID,
			"definition", trace.DefinitionID,
			"variant", trace.VariantID,
			"duration_ms", trace.Duration().Milliseconds(),
			"turns", trace.Turns,
			"tool_calls", trace.ToolCalls,
		).Info("Run trace completed", "error", trace.Err)
	})
}
