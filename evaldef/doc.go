/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package evaldef defines the declarative inputs to the evaluation engine.
//
// A Definition bundles a test case (the user prompt plus optional prior
// conversation turns) with declarative expectations about tool usage, response
// quality, delegation behavior, and hard constraints on the response text. A
// Variant names the prompt/configuration under evaluation; comparisons always
// run a baseline Variant against an alternative Variant over the same
// Definition.
//
// This package contains pure data types with no heavy dependencies, allowing
// every other package in the module to depend on these shapes without pulling
// in provider SDKs. Definitions are typically constructed in code, but Load
// and LoadFile accept YAML catalogs for fixture-driven evaluation suites:
//
//	defs, err := evaldef.LoadFile("testdata/search-agent.yaml")
//	if err != nil { ... }
//	for _, def := range defs { ... }
package evaldef
