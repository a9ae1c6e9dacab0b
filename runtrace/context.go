/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runtrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// EvalContext identifies which evaluation an execution belongs to. It is
// carried on the Go context so metrics and traces anywhere below the runner
// can label themselves without threading identifiers through every call.
type EvalContext struct {
	// DefinitionID is the evaluation definition being run.
	DefinitionID string `json:"definition_id,omitempty"`

	// VariantID is the prompt/configuration variant under test.
	VariantID string `json:"variant_id,omitempty"`

	// BatchID groups the runs of one ExecuteMultipleRuns invocation.
	BatchID string `json:"batch_id,omitempty"`

	// RunNumber is the 1-based position of the run within its batch.
	RunNumber int `json:"run_number,omitempty"`
}

// EnrichAttributes appends the bounded labels of the eval context to
// baseAttrs for use on metrics.
//
// BatchID and RunNumber are trace-only: every batch mints a fresh ID and
// batches can be arbitrarily long, so either one would explode metric
// cardinality. Definitions and variants come from a finite catalog.
func (e EvalContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+2)
	copy(attrs, baseAttrs)

	if e.DefinitionID != "" {
		attrs = append(attrs, attribute.String("definition", e.DefinitionID))
	}
	if e.VariantID != "" {
		attrs = append(attrs, attribute.String("variant", e.VariantID))
	}
	return attrs
}

// contextKey is used for storing the eval context in a context.Context.
type contextKey string

const evalContextKey contextKey = "eval_context"

// WithEvalContext adds the eval context to the Go context.
func WithEvalContext(ctx context.Context, ec EvalContext) context.Context {
	return context.WithValue(ctx, evalContextKey, ec)
}

// GetEvalContext retrieves the eval context, zero when unset.
func GetEvalContext(ctx context.Context) EvalContext {
	if ec, ok := ctx.Value(evalContextKey).(EvalContext); ok {
		return ec
	}
	return EvalContext{}
}
