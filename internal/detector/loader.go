// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// packFile is the on-disk layout of a detector pack.
type packFile struct {
	Detectors []Definition `yaml:"detectors"`
}

// ParsePack decodes a YAML detector pack.
func ParsePack(data []byte) ([]Definition, error) {
	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse detector pack: %w", err)
	}
	return pf.Detectors, nil
}

// LoadPack reads a YAML detector pack from path and queues its definitions on b.
func (b *Builder) LoadPack(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read detector pack: %w", err)
	}
	defs, err := ParsePack(data)
	if err != nil {
		return err
	}
	for _, def := range defs {
		b.Add(def)
	}
	return nil
}
