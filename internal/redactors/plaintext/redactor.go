// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plaintext

import (
	"strings"

	"docredact/internal/detector"
	"docredact/internal/observability"
	"docredact/internal/redactors"
)

// StrategyName is the name the plain text strategy reports to a chain
const StrategyName = "plain_text"

// Substitute rewrites text left to right, copying untouched spans and writing
// each match's replacement label in place of its span. matches must be a
// canonical set; an entry whose span is invalid for text, or which overlaps
// an entry already written, is skipped and counted.
func Substitute(text string, matches []detector.Match) (string, int) {
	var b strings.Builder
	b.Grow(len(text))

	skipped := 0
	cursor := 0
	for _, m := range matches {
		if !m.Valid(text) || m.Start < cursor {
			skipped++
			continue
		}
		b.WriteString(text[cursor:m.Start])
		b.WriteString(m.Replacement)
		cursor = m.End
	}
	b.WriteString(text[cursor:])

	return b.String(), skipped
}

// PlainTextRedactor produces a text artifact by substitution. It is the last
// strategy of every chain and only fails when the request has no content.
type PlainTextRedactor struct {
	observer *observability.StandardObserver
}

// NewPlainTextRedactor creates a new PlainTextRedactor
func NewPlainTextRedactor(observer *observability.StandardObserver) *PlainTextRedactor {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &PlainTextRedactor{observer: observer}
}

// GetName returns the name of the strategy
func (ptr *PlainTextRedactor) GetName() string {
	return StrategyName
}

// Redact implements redactors.Strategy
func (ptr *PlainTextRedactor) Redact(req *redactors.Request) (*redactors.Artifact, error) {
	redacted, skipped := Substitute(req.Content, req.Matches)
	if skipped > 0 {
		ptr.logEvent("substitute", false, map[string]interface{}{
			"skipped_matches": skipped,
			"total_matches":   len(req.Matches),
		})
	}

	return &redactors.Artifact{
		Kind: redactors.ArtifactText,
		Name: redactors.ArtifactName(req.FileName, redactors.ArtifactText),
		Data: []byte(redacted),
	}, nil
}

// GetComponentName returns the component name for observability
func (ptr *PlainTextRedactor) GetComponentName() string {
	return "plaintext_redactor"
}

// logEvent logs an event if observer is available
func (ptr *PlainTextRedactor) logEvent(operation string, success bool, metadata map[string]interface{}) {
	if ptr.observer != nil {
		ptr.observer.StartTiming(ptr.GetComponentName(), operation, "")(success, metadata)
	}
}
