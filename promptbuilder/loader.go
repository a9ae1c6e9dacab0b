/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownPrompt reports a prompt target with no template behind it.
var ErrUnknownPrompt = errors.New("unknown prompt target")

// Loader resolves prompt templates by target identifier. Implementations
// back the identifier with whatever store they like; callers only see a
// Prompt.
type Loader interface {
	Load(ctx context.Context, target string) (*Prompt, error)
}

// Static is a Loader over a fixed in-memory catalog. Prompts are immutable,
// so handing the same *Prompt to every caller is safe.
type Static map[string]*Prompt

// Load implements Loader.
func (s Static) Load(_ context.Context, target string) (*Prompt, error) {
	p, ok := s[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, target)
	}
	return p, nil
}
