/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"chainguard.dev/evalkit/evaldef"
)

// CheckConstraints applies the definition's hard constraints to the raw
// response text and returns one violation message per crossed bound or
// forbidden pattern found. Lengths are measured in characters. A nil
// constraint set yields no violations.
func CheckConstraints(response string, c *evaldef.Constraints) []string {
	if c == nil {
		return nil
	}

	var violations []string
	length := utf8.RuneCountInString(response)
	if c.MaxLength != nil && length > *c.MaxLength {
		violations = append(violations,
			fmt.Sprintf("response length %d exceeds maximum %d", length, *c.MaxLength))
	}
	if c.MinLength != nil && length < *c.MinLength {
		violations = append(violations,
			fmt.Sprintf("response length %d is below minimum %d", length, *c.MinLength))
	}
	for _, pattern := range c.ForbiddenPatterns {
		if strings.Contains(response, pattern) {
			violations = append(violations,
				fmt.Sprintf("response contains forbidden pattern %q", pattern))
		}
	}
	return violations
}
