/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package scorer turns a raw run (response text, recorded tool calls, and the
// observed delegation decision) plus a definition's declarative expectations
// into multi-dimensional scores and constraint violations.
//
// Four independent dimensions, each in [0, 1], combine into a weighted
// overall score: tool selection, parameter matching, response quality
// (weighted elements), and delegation. Constraint checks produce violations
// rather than a score. Every scoring method is exported; they are the
// package's contract and are tested directly.
//
// Response-quality element confidence comes from an ElementMatcher. The
// default KeywordMatcher is deterministic (case-insensitive keyword
// mentions), which keeps mocked-mode evaluations hermetic; a semantic
// collaborator can be plugged in where richer matching is wanted.
package scorer
