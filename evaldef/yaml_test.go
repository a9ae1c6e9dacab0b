/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaldef_test

import (
	"strings"
	"testing"

	"chainguard.dev/evalkit/evaldef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
id: search-basic
name: basic web search
targetAgent: researcher
testCase:
  prompt: What is the latest Go release?
expectations:
  tools:
    required:
      - name: web_search
        parameters:
          query:
            matchType: contains
            expected: go release
    forbidden:
      - browser_control
  response:
    elements:
      - id: version
        description: states the latest version
        weight: 3
        keywords: ["1.25"]
toolMode: mocked
mockedOutputs:
  web_search:
    success: true
    output:
      results: Go 1.25 is the latest release.
---
id: delegate-research
name: supervisor delegates research
targetAgent: supervisor
testCase:
  prompt: Find recent papers on fuzzing.
expectations:
  delegation:
    shouldDelegate: true
    expectedAgentType: researcher
    rationaleShouldMention: ["papers"]
mockedOutputs:
  delegate:
    output:
      acknowledged: true
`

func TestLoad(t *testing.T) {
	t.Parallel()

	defs, err := evaldef.Load(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	first := defs[0]
	assert.Equal(t, "search-basic", first.ID)
	assert.Equal(t, evaldef.ToolModeMocked, first.EffectiveToolMode())
	require.NotNil(t, first.Expectations.Tools)
	require.Len(t, first.Expectations.Tools.Required, 1)
	assert.Equal(t, "web_search", first.Expectations.Tools.Required[0].Name)
	assert.Equal(t, evaldef.MatchContains,
		first.Expectations.Tools.Required[0].Parameters["query"].EffectiveMatchType())

	mock, ok := first.MockedOutputs["web_search"]
	require.True(t, ok)
	assert.True(t, mock.Success())
	assert.Equal(t, "Go 1.25 is the latest release.", mock.Output()["results"])

	second := defs[1]
	assert.Equal(t, "supervisor", second.TargetAgent)
	require.NotNil(t, second.Expectations.Delegation)
	assert.True(t, second.Expectations.Delegation.ShouldDelegate)

	// An output with no explicit success flag decodes as a success fixture.
	assert.True(t, second.MockedOutputs["delegate"].Success())
}

func TestLoadRejectsMalformedUnions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{{
		name: "success with error",
		yaml: `
id: x
name: x
testCase: {prompt: hi}
mockedOutputs:
  web_search:
    success: true
    error: boom
`,
		wantErr: "declares success but carries an error",
	}, {
		name: "failure with output",
		yaml: `
id: x
name: x
testCase: {prompt: hi}
mockedOutputs:
  web_search:
    success: false
    error: boom
    output: {a: 1}
`,
		wantErr: "declares failure but carries an output",
	}, {
		name: "failure without message",
		yaml: `
id: x
name: x
testCase: {prompt: hi}
mockedOutputs:
  web_search:
    success: false
`,
		wantErr: "failure without an error message",
	}, {
		name: "unknown field",
		yaml: `
id: x
name: x
testCase: {prompt: hi}
toolModes: mocked
`,
		wantErr: "field toolModes not found",
	}, {
		name:    "empty stream",
		yaml:    "",
		wantErr: "no definition documents",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := evaldef.Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMockedToolOutputAccessors(t *testing.T) {
	t.Parallel()

	defs, err := evaldef.Load(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	failure := evaldef.MockFailure("rate limited")
	assert.False(t, failure.Success())
	assert.Equal(t, "rate limited", failure.Error())
	assert.Nil(t, failure.Output())

	success := defs[0].MockedOutputs["web_search"]
	assert.Empty(t, success.Error())
}
