// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"docredact/internal/summary"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose bool // Whether to display previews with context
	NoColor bool // Whether to disable colored output
}

// ArtifactInfo describes a written artifact
type ArtifactInfo struct {
	Name      string   `json:"name" yaml:"name"`
	Path      string   `json:"path,omitempty" yaml:"path,omitempty"`
	Kind      string   `json:"kind" yaml:"kind"`
	MediaType string   `json:"media_type" yaml:"media_type"`
	Strategy  string   `json:"strategy" yaml:"strategy"`
	SHA256    string   `json:"sha256" yaml:"sha256"`
	PageCount int      `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Fallbacks []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
}

// Report is everything a formatter renders for one document
type Report struct {
	File      string                    `json:"file" yaml:"file"`
	Kind      string                    `json:"kind" yaml:"kind"`
	Detectors []string                  `json:"detectors" yaml:"detectors"`
	Warnings  []string                  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary   *summary.RedactionSummary `json:"summary" yaml:"summary"`
	Chunks    []int                     `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Artifact  *ArtifactInfo             `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the reports in the formatter's specific output format
	Format(reports []*Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "yaml")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export formats reports with the named formatter from the default registry
func Export(format string, reports []*Report, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(reports, options)
}
