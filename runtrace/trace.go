/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runtrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "chainguard.ai.evalkit.runtrace"

// Trace is the observability record of one evaluation run. It owns the run
// span; model turns and tool calls hang off it as Steps.
type Trace struct {
	// ID correlates log lines with the run. It is not the OTel trace ID.
	ID string

	// DefinitionID and VariantID name what was run.
	DefinitionID string
	VariantID    string

	// StartTime and EndTime bound the run. EndTime is zero until Complete.
	StartTime time.Time
	EndTime   time.Time

	// Turns and ToolCalls count the steps opened on this trace.
	Turns     int
	ToolCalls int

	// Err is the run error recorded at completion, nil for a clean run.
	Err error

	tracer Tracer
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
}

// Step is one traced operation within a run, either a model turn or a tool
// call.
type Step struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time

	mu   sync.Mutex
	span oteltrace.Span
}

// newTrace opens the run span and stamps it with the eval context.
func newTrace(ctx context.Context, tracer Tracer, definitionID, variantID string) *Trace {
	ec := GetEvalContext(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("eval.definition", definitionID),
		attribute.String("eval.variant", variantID),
	}
	if ec.BatchID != "" {
		attrs = append(attrs, attribute.String("eval.batch", ec.BatchID))
	}
	if ec.RunNumber > 0 {
		attrs = append(attrs, attribute.Int("eval.run_number", ec.RunNumber))
	}

	tr := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "eval.run", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:           generateTraceID(),
		DefinitionID: definitionID,
		VariantID:    variantID,
		StartTime:    time.Now(),
		tracer:       tracer,
		ctx:          ctx,
		span:         span,
	}
}

// StartLLMTurn opens a step span for one model turn.
func (t *Trace) StartLLMTurn(model string) *Step {
	t.mu.Lock()
	t.Turns++
	t.mu.Unlock()

	return t.startStep("eval.llm_turn", attribute.String("model", model))
}

// StartToolCall opens a step span for one tool invocation.
func (t *Trace) StartToolCall(callID, toolName string) *Step {
	t.mu.Lock()
	t.ToolCalls++
	t.mu.Unlock()

	return t.startStep("eval.tool_call",
		attribute.String("tool.name", toolName),
		attribute.String("tool.id", callID),
	)
}

func (t *Trace) startStep(name string, attrs ...attribute.KeyValue) *Step {
	tr := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0"))
	_, span := tr.Start(t.ctx, name, oteltrace.WithAttributes(attrs...))

	return &Step{
		Name:      name,
		StartTime: time.Now(),
		span:      span,
	}
}

// Complete ends the step span, recording err when the operation failed.
func (s *Step) Complete(err error) {
	s.mu.Lock()
	s.EndTime = time.Now()
	span := s.span
	s.mu.Unlock()

	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Duration returns how long the step took, or how long it has been running.
func (s *Step) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RecordTokenUsage annotates the run span with cumulative token counts so
// consumption is visible in the trace without cross-referencing metrics.
func (t *Trace) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.span != nil {
		t.span.SetAttributes(
			attribute.String("model", model),
			attribute.Int64("tokens.input", inputTokens),
			attribute.Int64("tokens.output", outputTokens),
			attribute.Int64("tokens.total", inputTokens+outputTokens),
		)
	}
}

// Complete ends the run span and hands the trace to its tracer.
func (t *Trace) Complete(err error) {
	t.mu.Lock()
	t.Err = err
	t.EndTime = time.Now()
	tracer := t.tracer
	span := t.span
	t.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	tracer.RecordTrace(t)
}

// Duration returns how long the run took, or how long it has been running.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// generateTraceID returns a log-greppable run identifier,
// YYYYMMDD-HHMMSS-RRRR with a random hex suffix.
func generateTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
