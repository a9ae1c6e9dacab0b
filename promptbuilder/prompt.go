/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
)

// stringLiteral only accepts untyped string constants, so templates and
// literal bindings are forced to come from source code rather than runtime
// values.
type stringLiteral string

// Prompt is a template whose placeholders are progressively bound. Binding
// methods return a new Prompt and leave the receiver untouched.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses a template literal and registers one unbound binding per
// distinct {{name}} placeholder.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)
	parsed, err := expand(string(template), func(name string) (string, error) {
		if _, ok := bindings[name]; !ok {
			bindings[name] = &unboundBinding{name: name}
		}
		// Parsing only collects names; the placeholder stays in place.
		return fmt.Sprintf("{{%s}}", name), nil
	})
	if err != nil {
		return nil, err
	}
	return &Prompt{template: parsed, bindings: bindings}, nil
}

// Must panics if err is non-nil, for package-level prompt variables:
//
//	var verdictPrompt = promptbuilder.MustNewPrompt(`Grade {{response}}.`)
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(template)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// Placeholders returns the sorted placeholder names of the template, bound
// or not.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// BindStringLiteral binds a developer-controlled string constant. Runtime
// values do not compile here; bind those with an encoding method instead.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.withBinding(name, &literalBinding{text: string(value)})
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.withBinding(name, jsonBinding(data))
}

// BindXML binds data marshaled as indented XML. Wrapping untrusted text in a
// chardata struct both escapes it and marks its boundaries for the model.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.withBinding(name, xmlBinding(data))
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.withBinding(name, yamlBinding(data))
}

// withBinding clones the prompt with name rebound. The placeholder must
// exist and must not have been bound already.
func (p *Prompt) withBinding(name string, b binding) (*Prompt, error) {
	current, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if _, unbound := current.(*unboundBinding); !unbound {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// Build renders the template, failing if any placeholder is unbound or a
// bound value fails to marshal.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		v, err := b.render()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return expand(p.template, func(name string) (string, error) {
		v, ok := values[name]
		if !ok {
			// NewPrompt and Build tokenize identically, so every name
			// expand yields was registered at parse time.
			return "", fmt.Errorf("internal error: no binding collected for %q", name)
		}
		return v, nil
	})
}
