/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"chainguard.dev/evalkit/evaldef"
)

// ScoreParameters grades one tool call's parameters against the expected
// fields. The score is matched fields over total expected fields; a field
// absent from actual never matches. With nothing expected the score is
// perfect.
func ScoreParameters(actual map[string]any, expected map[string]evaldef.ParameterExpectation) float64 {
	if len(expected) == 0 {
		return 1
	}
	matched := 0
	for field, exp := range expected {
		value, ok := actual[field]
		if !ok {
			continue
		}
		if MatchParameterValue(value, exp) {
			matched++
		}
	}
	return float64(matched) / float64(len(expected))
}

// MatchParameterValue reports whether one actual parameter value satisfies the
// expectation under its effective match type. Semantic matching degrades to
// contains; there is no similarity collaborator at this layer.
func MatchParameterValue(actual any, exp evaldef.ParameterExpectation) bool {
	switch exp.EffectiveMatchType() {
	case evaldef.MatchExact:
		return exactMatch(actual, exp.Expected)

	case evaldef.MatchContains, evaldef.MatchSemantic:
		return strings.Contains(
			strings.ToLower(stringify(actual)),
			strings.ToLower(stringify(exp.Expected)),
		)

	case evaldef.MatchRegex:
		if exp.Pattern == "" {
			return false
		}
		re, err := regexp.Compile(exp.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(stringify(actual))

	case evaldef.MatchRange:
		v, ok := toFloat(actual)
		if !ok {
			return false
		}
		if exp.Min != nil && v < *exp.Min {
			return false
		}
		if exp.Max != nil && v > *exp.Max {
			return false
		}
		return true
	}
	return false
}

// exactMatch compares numerically when both sides are numeric, so a YAML
// integer expectation matches the float64 a JSON tool call decodes to.
func exactMatch(actual, expected any) bool {
	av, aok := toFloat(actual)
	ev, eok := toFloat(expected)
	if aok && eok {
		return av == ev
	}
	return reflect.DeepEqual(actual, expected)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
