// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"docredact/internal/formatters"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) Format(reports []*formatters.Report, options formatters.FormatterOptions) (string, error) {
	if len(reports) == 0 {
		return "No documents processed.", nil
	}

	var builder strings.Builder
	for i, report := range reports {
		if i > 0 {
			builder.WriteString("\n")
		}
		f.appendReport(&builder, report, options)
	}
	return strings.TrimRight(builder.String(), "\n"), nil
}

// paint renders format in the named color unless colors are disabled
func (f *Formatter) paint(options formatters.FormatterOptions, name, format string, args ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return f.colors[name].Sprintf(format, args...)
}

func (f *Formatter) appendReport(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	builder.WriteString(f.paint(options, "white", "=== %s (%s) ===", report.File, report.Kind))
	builder.WriteString("\n")

	for _, w := range report.Warnings {
		builder.WriteString(f.paint(options, "yellow", "warning: %s", w))
		builder.WriteString("\n")
	}

	s := report.Summary
	if s == nil || s.TotalMatches == 0 {
		builder.WriteString(f.paint(options, "green", "No matches found."))
		builder.WriteString("\n")
	} else {
		fmt.Fprintf(builder, "Matches: %s  Unique texts: %d  Types: %d\n",
			f.paint(options, "red", "%d", s.TotalMatches), s.UniqueTexts, s.UniqueTypes)

		types := make([]string, 0, len(s.TypeCounts))
		for t := range s.TypeCounts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(builder, "  %s %d\n", f.paint(options, "cyan", "%-16s", t), s.TypeCounts[t])
		}

		if options.Verbose {
			f.appendPreviews(builder, report, options)
		}
	}

	if len(report.Chunks) > 0 {
		chunks := make([]string, len(report.Chunks))
		for i, c := range report.Chunks {
			chunks[i] = fmt.Sprintf("%d", c)
		}
		fmt.Fprintf(builder, "Chunks: %s\n", strings.Join(chunks, ","))
	}

	if a := report.Artifact; a != nil {
		target := a.Path
		if target == "" {
			target = a.Name
		}
		fmt.Fprintf(builder, "Artifact: %s (%s via %s)\n", f.paint(options, "green", "%s", target), a.Kind, a.Strategy)
		if a.PageCount > 0 {
			fmt.Fprintf(builder, "Pages: %d\n", a.PageCount)
		}
		fmt.Fprintf(builder, "SHA-256: %s\n", a.SHA256)
		for _, fb := range a.Fallbacks {
			builder.WriteString(f.paint(options, "yellow", "fallback: %s", fb))
			builder.WriteString("\n")
		}
	}
}

func (f *Formatter) appendPreviews(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	s := report.Summary
	for _, p := range s.Previews {
		fmt.Fprintf(builder, "  %s %s %q\n",
			f.paint(options, "magenta", "[%d:%d]", p.Start, p.End),
			f.paint(options, "cyan", "%-16s", p.Type),
			p.Context)
	}
	if hidden := s.TotalMatches - len(s.Previews); hidden > 0 {
		fmt.Fprintf(builder, "  ... %d more\n", hidden)
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
