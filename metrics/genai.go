/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope shared by every LLM adapter and the
// evaluation runner. The model (and tool) names are recorded as attributes,
// so a single meter covers all providers.
const MeterName = "chainguard.ai.evalkit"

// GenAI provides OpenTelemetry counters for generative AI traffic: prompt and
// completion tokens per model call, and tool invocations made during runs.
// Counter creation degrades gracefully: a failed instrument becomes a no-op
// rather than disabling the caller.
type GenAI struct {
	meter            metric.Meter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI creates a GenAI metrics instance on the named meter. Pass
// MeterName unless the instruments must live in a separate scope.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	return &GenAI{
		meter: meter,
		promptTokens: newCounter(meter, meterName, "genai.token.prompt",
			"The number of prompt tokens used", "{tokens}"),
		completionTokens: newCounter(meter, meterName, "genai.token.completion",
			"The number of completion tokens used", "{tokens}"),
		toolCalls: newCounter(meter, meterName, "genai.tool.calls",
			"The number of tool calls made during evaluation runs", "{calls}"),
	}
}

// newCounter creates an Int64Counter, falling back to a no-op instrument when
// creation fails so metric trouble never fails an evaluation.
func newCounter(meter metric.Meter, meterName, name, description, unit string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit))
	if err != nil {
		slog.Warn("Failed to create counter, recording disabled", "counter", name, "error", err, "meter", meterName)
		return noop.Int64Counter{}
	}
	return counter
}

// SetAttributeEnricher sets the attribute enricher for this instance. The
// enricher runs before every recording to attach contextual attributes such
// as the evaluation definition and variant under test.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

// RecordTokens records prompt and completion token usage for one model call.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	base := []attribute.KeyValue{
		attribute.String("model", model),
	}
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	base = append(base, attrs...)

	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(base...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(base...))
}

// RecordToolCall records a single tool invocation.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, attrs ...attribute.KeyValue) {
	base := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	}
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	base = append(base, attrs...)

	m.toolCalls.Add(ctx, 1, metric.WithAttributes(base...))
}
