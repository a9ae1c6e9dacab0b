/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/evalkit/promptbuilder"
)

func TestStaticLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	catalog := promptbuilder.Static{
		"support-agent": promptbuilder.MustNewPrompt("You are a support agent."),
	}

	p, err := catalog.Load(ctx, "support-agent")
	if err != nil {
		t.Fatalf("Load() = %v, wanted nil", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() = %v, wanted nil", err)
	}
	if want := "You are a support agent."; got != want {
		t.Errorf("Build() = %q, wanted %q", got, want)
	}
}

func TestStaticLoadUnknownTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := promptbuilder.Static{}.Load(ctx, "nope")
	if !errors.Is(err, promptbuilder.ErrUnknownPrompt) {
		t.Errorf("Load() = %v, wanted ErrUnknownPrompt", err)
	}
}
