// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matcher scans text for detector rules and literal search terms.
package matcher

import (
	"regexp"
	"strings"

	"docredact/internal/detector"
	"docredact/internal/observability"
)

// Result is the raw output of a scan. Warnings holds non-fatal problems such
// as unknown detector keys; the scan continues past them.
type Result struct {
	Matches  []detector.Match
	Warnings []error
}

// Matcher produces raw match spans from a detector catalog.
type Matcher struct {
	catalog  *detector.Catalog
	observer *observability.StandardObserver
}

// New creates a Matcher over catalog.
func New(catalog *detector.Catalog, observer *observability.StandardObserver) *Matcher {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &Matcher{catalog: catalog, observer: observer}
}

// Scan emits every occurrence of each enabled detector followed by every
// occurrence of each search term. Detector matches always precede term
// matches in the output so that a stable sort keeps detectors first on ties.
func (m *Matcher) Scan(text string, enabledKeys []string, terms []detector.SearchTerm) *Result {
	finish := m.observer.StartTiming("matcher", "scan", "")
	res := &Result{}

	seen := make(map[string]bool, len(enabledKeys))
	for _, key := range enabledKeys {
		d, err := m.catalog.Lookup(key)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
			continue
		}
		if seen[d.Key] {
			continue
		}
		seen[d.Key] = true

		for _, loc := range d.FindAll(text) {
			res.Matches = append(res.Matches, detector.Match{
				Text:        text[loc[0]:loc[1]],
				Start:       loc[0],
				End:         loc[1],
				Type:        d.Key,
				Replacement: d.Replacement,
			})
		}
	}

	for _, term := range terms {
		for _, loc := range FindTerm(text, term) {
			res.Matches = append(res.Matches, detector.Match{
				Text:        text[loc[0]:loc[1]],
				Start:       loc[0],
				End:         loc[1],
				Type:        detector.CustomType,
				Replacement: detector.CustomReplacement,
			})
		}
	}

	finish(true, map[string]interface{}{
		"detectors":   len(seen),
		"terms":       len(terms),
		"raw_matches": len(res.Matches),
		"warnings":    len(res.Warnings),
	})
	return res
}

// FindTerm returns the non-overlapping ranges of term in text. The term is
// always treated as literal text; case folding follows Unicode simple folding
// so offsets stay valid for multi-byte characters.
func FindTerm(text string, term detector.SearchTerm) [][2]int {
	if term.Term == "" {
		return nil
	}

	if term.CaseSensitive {
		var out [][2]int
		offset := 0
		for {
			i := strings.Index(text[offset:], term.Term)
			if i < 0 {
				return out
			}
			start := offset + i
			end := start + len(term.Term)
			out = append(out, [2]int{start, end})
			offset = end
		}
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term.Term))
	var out [][2]int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] < loc[1] {
			out = append(out, [2]int{loc[0], loc[1]})
		}
	}
	return out
}
