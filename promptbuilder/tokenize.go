/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// expand walks template in a single pass, replacing each {{name}} with the
// value lookup returns. Single-pass means replacements are never themselves
// re-expanded.
func expand(template string, lookup func(name string) (string, error)) (string, error) {
	var out strings.Builder
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:open])

		end := strings.Index(rest[open:], "}}")
		if end < 0 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += open

		name := strings.TrimSpace(rest[open+2 : end])
		if !validName(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		value, err := lookup(name)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// validName reports whether s is a legal placeholder name: a letter followed
// by letters, digits, or underscores.
func validName(s string) bool {
	for i, r := range s {
		switch {
		case i == 0 && !unicode.IsLetter(r):
			return false
		case i > 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_':
			return false
		}
	}
	return s != ""
}
