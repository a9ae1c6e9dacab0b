/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package judge grades expected response elements with a model instead of the
deterministic keyword matcher.

Matcher implements scorer.ElementMatcher: for each element it prompts an
llm.Client for a JSON verdict (matched, confidence, reasoning) and maps the
verdict onto a scorer.ElementResult. Wire it in with
scorer.WithElementMatcher when keyword fractions are too blunt for the
elements under test; the default matcher remains the right choice for
hermetic mocked-mode runs.

The response and element description are bound into the verdict prompt
through XML encoding, so response text cannot inject instructions into the
judging prompt.
*/
package judge
