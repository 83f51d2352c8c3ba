// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package summary derives review data from a canonical match set.
package summary

import (
	"strings"
	"unicode/utf8"

	"docredact/internal/detector"
)

const (
	// MaxPreviews caps the number of preview snippets in a summary.
	MaxPreviews = 50

	// ContextChars is the amount of surrounding text shown on each side of a match.
	ContextChars = 40
)

// Preview is one reviewable snippet.
type Preview struct {
	Text    string `json:"text" yaml:"text"`
	Type    string `json:"type" yaml:"type"`
	Start   int    `json:"start" yaml:"start"`
	End     int    `json:"end" yaml:"end"`
	Context string `json:"context" yaml:"context"`
}

// RedactionSummary is shown to the user before a redaction is submitted.
type RedactionSummary struct {
	TotalMatches int            `json:"total_matches" yaml:"total_matches"`
	UniqueTexts  int            `json:"unique_texts" yaml:"unique_texts"`
	UniqueTypes  int            `json:"unique_types" yaml:"unique_types"`
	TypeCounts   map[string]int `json:"type_counts" yaml:"type_counts"`
	Previews     []Preview      `json:"previews" yaml:"previews"`
	MatchedTexts []string       `json:"matched_texts" yaml:"matched_texts"`
}

// Summarize builds a RedactionSummary. Totals and MatchedTexts always cover
// the whole set; only Previews is truncated.
func Summarize(text string, matches []detector.Match) *RedactionSummary {
	s := &RedactionSummary{
		TotalMatches: len(matches),
		TypeCounts:   make(map[string]int),
		Previews:     make([]Preview, 0, min(len(matches), MaxPreviews)),
		MatchedTexts: make([]string, 0),
	}

	seenText := make(map[string]bool)
	for _, m := range matches {
		s.TypeCounts[m.Type]++
		if !seenText[m.Text] {
			seenText[m.Text] = true
			s.MatchedTexts = append(s.MatchedTexts, m.Text)
		}
		if len(s.Previews) < MaxPreviews {
			s.Previews = append(s.Previews, Preview{
				Text:    m.Text,
				Type:    m.Type,
				Start:   m.Start,
				End:     m.End,
				Context: Context(text, m.Start, m.End, ContextChars),
			})
		}
	}

	s.UniqueTexts = len(s.MatchedTexts)
	s.UniqueTypes = len(s.TypeCounts)
	return s
}

// Context returns text[start-radius : end+radius] with indices clamped to the
// text and widened to rune boundaries, and runs of whitespace collapsed to a
// single space.
func Context(text string, start, end, radius int) string {
	from := clamp(start-radius, 0, len(text))
	to := clamp(end+radius, 0, len(text))
	if from > to {
		from = to
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	return strings.Join(strings.Fields(text[from:to]), " ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
