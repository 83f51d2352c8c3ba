// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"fmt"

	"github.com/goccy/go-json"

	"docredact/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

// Format writes one JSON object per report as a single array. An empty input
// renders as "[]".
func (f *Formatter) Format(reports []*formatters.Report, options formatters.FormatterOptions) (string, error) {
	if reports == nil {
		reports = []*formatters.Report{}
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
