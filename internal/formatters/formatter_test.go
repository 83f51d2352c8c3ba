// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"docredact/internal/detector"
	"docredact/internal/formatters"
	_ "docredact/internal/formatters/json"
	_ "docredact/internal/formatters/text"
	_ "docredact/internal/formatters/yaml"
	"docredact/internal/summary"
)

func sampleReport() *formatters.Report {
	text := "Contact me at a@b.com or 9876543210"
	matches := []detector.Match{
		{Text: "a@b.com", Start: 14, End: 21, Type: "EMAIL", Replacement: "[EMAIL REDACTED]"},
		{Text: "9876543210", Start: 25, End: 35, Type: "PHONE", Replacement: "[PHONE REDACTED]"},
	}
	return &formatters.Report{
		File:      "notes.txt",
		Kind:      "text",
		Detectors: []string{"EMAIL", "PHONE"},
		Summary:   summary.Summarize(text, matches),
		Chunks:    []int{0},
		Artifact: &formatters.ArtifactInfo{
			Name:     "Redacted_notes.txt",
			Kind:     "text",
			Strategy: "plain_text",
			SHA256:   "abc123",
		},
	}
}

func TestRegistry_List(t *testing.T) {
	assert.Equal(t, []string{"json", "text", "yaml"}, formatters.List())
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := formatters.Export("sarif", nil, formatters.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, text, yaml")
}

func TestTextFormatter(t *testing.T) {
	out, err := formatters.Export("text", []*formatters.Report{sampleReport()}, formatters.FormatterOptions{NoColor: true, Verbose: true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "=== notes.txt (text) ==="))
	assert.Contains(t, out, "Matches: 2  Unique texts: 2  Types: 2")
	assert.Contains(t, out, "[14:21]")
	assert.Contains(t, out, "Chunks: 0")
	assert.Contains(t, out, "Artifact: Redacted_notes.txt (text via plain_text)")
}

func TestTextFormatter_NoMatches(t *testing.T) {
	report := &formatters.Report{File: "empty.txt", Kind: "text", Summary: summary.Summarize("", nil)}
	out, err := formatters.Export("text", []*formatters.Report{report}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "No matches found.")
}

func TestJSONFormatter(t *testing.T) {
	out, err := formatters.Export("json", []*formatters.Report{sampleReport()}, formatters.FormatterOptions{})
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "notes.txt", decoded[0]["file"])
	sum := decoded[0]["summary"].(map[string]interface{})
	assert.EqualValues(t, 2, sum["total_matches"])

	empty, err := formatters.Export("json", nil, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestYAMLFormatter(t *testing.T) {
	out, err := formatters.Export("yaml", []*formatters.Report{sampleReport()}, formatters.FormatterOptions{})
	require.NoError(t, err)

	var decoded struct {
		Reports []formatters.Report `yaml:"reports"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Reports, 1)
	assert.Equal(t, 2, decoded.Reports[0].Summary.TotalMatches)
	assert.Equal(t, "plain_text", decoded.Reports[0].Artifact.Strategy)
}
