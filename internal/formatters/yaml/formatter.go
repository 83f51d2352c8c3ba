// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"docredact/internal/formatters"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output with the same structure as JSON"
}

func (f *Formatter) Format(reports []*formatters.Report, options formatters.FormatterOptions) (string, error) {
	if len(reports) == 0 {
		return "reports: []\n", nil
	}
	data, err := yaml.Marshal(struct {
		Reports []*formatters.Report `yaml:"reports"`
	}{reports})
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
