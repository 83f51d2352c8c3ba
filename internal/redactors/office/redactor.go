// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package office

import (
	"errors"

	"docredact/internal/observability"
	"docredact/internal/redactors"
	"docredact/internal/redactors/plaintext"
)

// StrategyName is the name the DOCX strategy reports to a chain
const StrategyName = "docx_render"

// OfficeRedactor turns a word processing document into a new PDF holding the
// substituted text. The original package is not repacked.
type OfficeRedactor struct {
	setup    PageSetup
	renderer Renderer
	observer *observability.StandardObserver
}

// NewOfficeRedactor creates a new OfficeRedactor. A nil renderer uses fpdf.
func NewOfficeRedactor(setup PageSetup, renderer Renderer, observer *observability.StandardObserver) *OfficeRedactor {
	if renderer == nil {
		renderer = NewFPDFRenderer(setup)
	}
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &OfficeRedactor{setup: setup, renderer: renderer, observer: observer}
}

// GetName returns the name of the strategy
func (or *OfficeRedactor) GetName() string {
	return StrategyName
}

// Redact implements redactors.Strategy
func (or *OfficeRedactor) Redact(req *redactors.Request) (*redactors.Artifact, error) {
	finishTiming := or.observer.StartTiming(or.GetComponentName(), "redact", req.FileName)

	if or.setup.TextWidth() <= 0 || or.setup.LineHeight <= 0 {
		err := redactors.NewArtifactGenerationError(StrategyName, "layout", errors.New("page setup leaves no room for text"))
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	substituted, skipped := plaintext.Substitute(req.Content, req.Matches)
	lines := Wrap(substituted, or.setup.TextWidth(), or.renderer.Measure)
	pages := Paginate(lines, or.setup)

	data, pageCount, err := or.renderer.Render(pages)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, redactors.NewArtifactGenerationError(StrategyName, "render", err)
	}

	finishTiming(true, map[string]interface{}{
		"lines":           len(lines),
		"pages":           pageCount,
		"skipped_matches": skipped,
	})

	return &redactors.Artifact{
		Kind:      redactors.ArtifactPDF,
		Name:      redactors.ArtifactName(req.FileName, redactors.ArtifactPDF),
		Data:      data,
		PageCount: pageCount,
	}, nil
}

// GetComponentName returns the component name for observability
func (or *OfficeRedactor) GetComponentName() string {
	return "office_redactor"
}
