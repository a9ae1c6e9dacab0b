/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolexec defines the tool-execution capability the evaluation
// runner drives, and its three concrete forms.
//
// Executor is the contract: list tool definitions for the model, build
// requests, and execute one or many tool calls. The mocked form serves
// pre-declared fixtures keyed by tool name and fails explicitly on unknown
// names. Live execution uses the platform's real executor, injected by the
// caller. The capture form wraps a live executor and condenses what it saw
// into mock snapshots (last call wins per tool name) so a live session can be
// replayed deterministically.
//
// RecordingExecutor decorates any Executor with an append-only, ordinal call
// log. Ordering comes from an instance-local counter rather than wall-clock
// timestamps, so two calls in the same nanosecond still have a deterministic
// order. A recording instance must not be shared across concurrently
// executing runs.
package toolexec
