/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package runtrace provides tracing for evaluation runs.

A Trace covers one run from prompt to scored result: an OpenTelemetry span
for the run, a child span per model turn and per tool call, and a compact
trace ID for correlating logs. Traces carry observability data only; the
scored outcome of a run lives in runner.RunResult.

Tracers are injected through the context. When none is configured, completed
traces are logged through clog:

	ctx = runtrace.WithTracer(ctx, runtrace.ByCode(func(t *runtrace.Trace) {
		fmt.Println(t.ID, t.Duration())
	}))
	trace := runtrace.Start(ctx, "refund-policy", "baseline")
	step := trace.StartLLMTurn("claude-sonnet-4")
	step.Complete(nil)
	trace.Complete(nil)

EvalContext identifies the definition, variant, batch, and run number an
execution belongs to. It enriches metric attributes with the bounded subset
of those labels and annotates run spans with all of them.
*/
package runtrace
