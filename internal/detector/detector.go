// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
	"regexp"
)

// CustomType is the type tag carried by matches produced from user search terms.
const CustomType = "custom"

// CustomReplacement is the label substituted for user search term matches.
const CustomReplacement = "[REDACTED]"

// Detector is a named rule that finds one class of sensitive data.
// Detectors are immutable once built; the compiled rule is shared by every scan.
type Detector struct {
	Key         string
	Label       string
	Replacement string
	Description string

	rule *regexp.Regexp
}

// Pattern returns the source expression of the detector's rule.
func (d *Detector) Pattern() string {
	return d.rule.String()
}

// FindAll returns the [start, end) byte ranges of every non-overlapping
// occurrence of the rule in text. Empty occurrences are dropped.
func (d *Detector) FindAll(text string) [][2]int {
	locs := d.rule.FindAllStringIndex(text, -1)
	out := make([][2]int, 0, len(locs))
	for _, loc := range locs {
		if loc[0] >= loc[1] {
			continue
		}
		out = append(out, [2]int{loc[0], loc[1]})
	}
	return out
}

// SearchTerm is a literal string supplied by the user for one redaction session.
type SearchTerm struct {
	Term          string `json:"term" yaml:"term" mapstructure:"term"`
	CaseSensitive bool   `json:"case_sensitive" yaml:"case_sensitive" mapstructure:"case_sensitive"`
}

// Match is a detected span of sensitive text.
// Start and End are byte offsets into the scanned text, End exclusive.
type Match struct {
	Text        string `json:"text"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Type        string `json:"type"`
	Replacement string `json:"replacement"`
}

// Valid reports whether the match is a non-empty span of text whose content
// equals the recorded matched substring.
func (m Match) Valid(text string) bool {
	if m.Start < 0 || m.Start >= m.End || m.End > len(text) {
		return false
	}
	return text[m.Start:m.End] == m.Text
}

// UnknownDetectorError reports a detector key that is not in the catalog.
// Scanning skips such keys and carries on with the rest.
type UnknownDetectorError struct {
	Key string
}

func (e *UnknownDetectorError) Error() string {
	return fmt.Sprintf("unknown detector key %q", e.Key)
}
