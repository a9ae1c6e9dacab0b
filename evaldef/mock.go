/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaldef

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MockedToolOutput is the fixture served for one tool name in mocked mode. It
// is a tagged union: a successful fixture carries an output payload, a failed
// fixture carries an error message. Construct values with MockSuccess or
// MockFailure so malformed fixtures cannot be represented.
type MockedToolOutput struct {
	success bool
	output  map[string]any
	errMsg  string
}

// MockSuccess declares a fixture that succeeds with the given output payload.
func MockSuccess(output map[string]any) MockedToolOutput {
	return MockedToolOutput{success: true, output: output}
}

// MockFailure declares a fixture that fails with the given error message.
func MockFailure(message string) MockedToolOutput {
	return MockedToolOutput{success: false, errMsg: message}
}

// Success reports whether the fixture represents a successful tool result.
func (m MockedToolOutput) Success() bool { return m.success }

// Output returns the success payload. It returns nil for failure fixtures.
func (m MockedToolOutput) Output() map[string]any {
	if !m.success {
		return nil
	}
	return m.output
}

// Error returns the failure message, or "" for success fixtures.
func (m MockedToolOutput) Error() string {
	if m.success {
		return ""
	}
	return m.errMsg
}

func (m MockedToolOutput) validate() error {
	if !m.success && m.errMsg == "" {
		return errors.New("failure fixture must carry an error message")
	}
	return nil
}

// mockedToolOutputDoc is the YAML wire form of a fixture.
type mockedToolOutputDoc struct {
	Success *bool          `yaml:"success"`
	Output  map[string]any `yaml:"output,omitempty"`
	Error   string         `yaml:"error,omitempty"`
}

// UnmarshalYAML decodes a fixture, rejecting documents that mix the success
// and failure arms of the union.
func (m *MockedToolOutput) UnmarshalYAML(value *yaml.Node) error {
	var doc mockedToolOutputDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}

	// success defaults to true when an output is present and no error is set.
	success := doc.Error == ""
	if doc.Success != nil {
		success = *doc.Success
	}

	switch {
	case success && doc.Error != "":
		return errors.New("mocked output declares success but carries an error")
	case !success && doc.Output != nil:
		return errors.New("mocked output declares failure but carries an output")
	case !success && doc.Error == "":
		return errors.New("mocked output declares failure without an error message")
	}

	if success {
		*m = MockSuccess(doc.Output)
	} else {
		*m = MockFailure(doc.Error)
	}
	return nil
}

// MarshalYAML encodes the fixture in its wire form.
func (m MockedToolOutput) MarshalYAML() (any, error) {
	success := m.success
	doc := mockedToolOutputDoc{Success: &success}
	if m.success {
		doc.Output = m.output
	} else {
		doc.Error = m.errMsg
	}
	return doc, nil
}

// String renders the fixture for logs.
func (m MockedToolOutput) String() string {
	if m.success {
		return fmt.Sprintf("success(%d fields)", len(m.output))
	}
	return fmt.Sprintf("failure(%s)", m.errMsg)
}
