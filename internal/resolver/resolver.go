// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resolver turns raw matches into the canonical redaction set.
package resolver

import (
	"fmt"
	"sort"

	"docredact/internal/detector"
)

// Resolve sorts matches by start offset and drops every match that overlaps
// one already accepted. On equal starts detector matches sort ahead of
// custom-term matches; otherwise the sort is stable, so the match detected
// first wins. The input slice is not modified.
func Resolve(matches []detector.Match) []detector.Match {
	sorted := make([]detector.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Type != detector.CustomType && b.Type == detector.CustomType
	})

	canonical := make([]detector.Match, 0, len(sorted))
	lastEnd := -1
	for _, m := range sorted {
		if m.Start >= lastEnd {
			canonical = append(canonical, m)
			lastEnd = m.End
		}
	}
	return canonical
}

// Validate checks that matches form a canonical set for text: each span is
// non-empty, in range, agrees with its recorded text, and the spans are
// ordered and pairwise disjoint.
func Validate(text string, matches []detector.Match) error {
	for i, m := range matches {
		if !m.Valid(text) {
			return fmt.Errorf("match %d [%d,%d) of type %s does not agree with source text", i, m.Start, m.End, m.Type)
		}
		if i > 0 && matches[i-1].End > m.Start {
			return fmt.Errorf("match %d [%d,%d) overlaps or precedes match %d [%d,%d)",
				i, m.Start, m.End, i-1, matches[i-1].Start, matches[i-1].End)
		}
	}
	return nil
}
