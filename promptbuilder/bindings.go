/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"gopkg.in/yaml.v3"
)

// binding renders the text substituted for one placeholder.
type binding interface {
	render() (string, error)
}

// unboundBinding is the parse-time default; rendering it fails the Build.
type unboundBinding struct {
	name string
}

func (u *unboundBinding) render() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

// literalBinding carries a developer-provided string constant verbatim.
type literalBinding struct {
	text string
}

func (l *literalBinding) render() (string, error) {
	return l.text, nil
}

// encodedBinding marshals data through one of the standard encoders, which
// is what makes bound runtime values injection-safe.
type encodedBinding struct {
	format  string
	data    any
	marshal func(any) ([]byte, error)
}

func (e *encodedBinding) render() (string, error) {
	b, err := e.marshal(e.data)
	if err != nil {
		return "", fmt.Errorf("marshaling %s binding: %w", e.format, err)
	}
	return string(b), nil
}

func jsonBinding(data any) *encodedBinding {
	return &encodedBinding{format: "JSON", data: data, marshal: func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}}
}

func xmlBinding(data any) *encodedBinding {
	return &encodedBinding{format: "XML", data: data, marshal: func(v any) ([]byte, error) {
		return xml.MarshalIndent(v, "", "  ")
	}}
}

func yamlBinding(data any) *encodedBinding {
	return &encodedBinding{format: "YAML", data: data, marshal: yaml.Marshal}
}
