/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scorer_test

import (
	"strings"
	"testing"

	"chainguard.dev/evalkit/evaldef"
	"chainguard.dev/evalkit/scorer"
)

func intPtr(v int) *int { return &v }

func TestCheckConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		response    string
		constraints *evaldef.Constraints
		want        int
		wantSubstr  string
	}{{
		name:        "nil constraints never violate",
		response:    strings.Repeat("x", 10000),
		constraints: nil,
		want:        0,
	}, {
		name:        "within bounds",
		response:    "a concise answer",
		constraints: &evaldef.Constraints{MinLength: intPtr(5), MaxLength: intPtr(100)},
		want:        0,
	}, {
		name:        "over max length",
		response:    strings.Repeat("a", 21),
		constraints: &evaldef.Constraints{MaxLength: intPtr(20)},
		want:        1,
		wantSubstr:  "exceeds maximum 20",
	}, {
		name:        "under min length",
		response:    "hi",
		constraints: &evaldef.Constraints{MinLength: intPtr(10)},
		want:        1,
		wantSubstr:  "below minimum 10",
	}, {
		name:        "length counts characters not bytes",
		response:    "héllo",
		constraints: &evaldef.Constraints{MaxLength: intPtr(5)},
		want:        0,
	}, {
		name:        "forbidden pattern found",
		response:    "I'm sorry, I cannot help with that.",
		constraints: &evaldef.Constraints{ForbiddenPatterns: []string{"I'm sorry"}},
		want:        1,
		wantSubstr:  `"I'm sorry"`,
	}, {
		name:        "forbidden patterns are case sensitive",
		response:    "Sorry about that.",
		constraints: &evaldef.Constraints{ForbiddenPatterns: []string{"sorry"}},
		want:        0,
	}, {
		name:     "violations accumulate",
		response: "TODO: fill this in later",
		constraints: &evaldef.Constraints{
			MinLength:         intPtr(100),
			ForbiddenPatterns: []string{"TODO", "later"},
		},
		want: 3,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := scorer.CheckConstraints(test.response, test.constraints)
			if len(got) != test.want {
				t.Fatalf("got %d violations %v, wanted %d", len(got), got, test.want)
			}
			if test.wantSubstr != "" && !strings.Contains(got[0], test.wantSubstr) {
				t.Errorf("violation = %q, wanted it to mention %q", got[0], test.wantSubstr)
			}
		})
	}
}
