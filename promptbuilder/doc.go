/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder constructs prompts from templates with bindable
placeholders, resisting prompt injection the way prepared statements resist
SQL injection: templates come from developers, and everything else goes
through an encoder.

A template is a literal string with {{name}} placeholders:

	p, err := promptbuilder.NewPrompt(`
		Evaluate the following response:
		{{response}}

		Criterion: {{criterion}}
	`)

Placeholder names must start with a letter and contain only letters, digits,
and underscores. Each bind returns a new Prompt, so a template can be bound
differently on every use:

	p, err = p.BindXML("response", wrappedResponse)
	p, err = p.BindStringLiteral("criterion", "mentions the refund window")
	text, err := p.Build()

Build fails if any placeholder is still unbound, so a template cannot
silently ship with a hole in it.

Untrusted text (model output, user input) must be bound through BindJSON,
BindXML, or BindYAML so the encoder escapes it. BindStringLiteral accepts
only untyped string constants, which keeps runtime values out of the literal
path at compile time. Substitution is a single pass: a bound value that
itself contains {{...}} is emitted verbatim, never re-expanded.

Prompts are immutable; binding methods return copies, so catalog prompts are
safe to share across goroutines. The Loader interface resolves templates by
target identifier, and Static implements it over an in-memory catalog for
tests and examples.
*/
package promptbuilder
