/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaldef

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load decodes one or more Definition documents from r. Multi-document YAML
// streams yield one Definition per document. Every definition is validated;
// the first invalid one fails the load.
func Load(r io.Reader) ([]Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var defs []Definition
	for {
		var def Definition
		if err := dec.Decode(&def); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding definition document %d: %w", len(defs), err)
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, errors.New("no definition documents found")
	}
	return defs, nil
}

// LoadFile reads Definition documents from the YAML file at path.
func LoadFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening definitions file: %w", err)
	}
	defer f.Close()

	defs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return defs, nil
}
