// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdf

import (
	"errors"
	"fmt"

	"docredact/internal/observability"
	"docredact/internal/redactors"
	"docredact/internal/redactors/plaintext"
)

// StrategyName is the name the overlay strategy reports to a chain
const StrategyName = "pdf_overlay"

// PageLabel is stamped on every page of an overlaid document
const PageLabel = "REDACTED"

// PDFRedactor draws opaque boxes over the estimated position of every match.
// It does not remove glyphs from the content streams.
type PDFRedactor struct {
	backend  Backend
	layout   Layout
	observer *observability.StandardObserver
}

// NewPDFRedactor creates a new PDFRedactor. A nil backend uses pdfcpu.
func NewPDFRedactor(backend Backend, layout Layout, observer *observability.StandardObserver) *PDFRedactor {
	if backend == nil {
		backend = NewPDFCPUBackend()
	}
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &PDFRedactor{backend: backend, layout: layout, observer: observer}
}

// GetName returns the name of the strategy
func (pr *PDFRedactor) GetName() string {
	return StrategyName
}

// Redact implements redactors.Strategy
func (pr *PDFRedactor) Redact(req *redactors.Request) (*redactors.Artifact, error) {
	finishTiming := pr.observer.StartTiming(pr.GetComponentName(), "redact", req.FileName)

	if len(req.Source) == 0 {
		err := redactors.NewArtifactGenerationError(StrategyName, "read", errors.New("no source document"))
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	// The substituted text is not embedded; it is computed so the overlay and
	// the text fallback agree on which spans are redacted.
	substituted, skipped := plaintext.Substitute(req.Content, req.Matches)

	sizes, err := pr.backend.PageDims(req.Source)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, redactors.NewArtifactGenerationError(StrategyName, "read", err)
	}
	if len(sizes) == 0 {
		err := redactors.NewArtifactGenerationError(StrategyName, "read", errors.New("document has no pages"))
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	plan := pr.layout.Plan(req.Content, req.Matches, sizes, req.Regions)
	stamps, boxCount := buildStamps(plan, sizes, len(req.Matches)-skipped)

	out, err := pr.backend.Stamp(req.Source, stamps)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, redactors.NewArtifactGenerationError(StrategyName, "stamp", err)
	}

	finishTiming(true, map[string]interface{}{
		"pages":             len(sizes),
		"boxes":             boxCount,
		"skipped_matches":   skipped,
		"substituted_bytes": len(substituted),
	})

	return &redactors.Artifact{
		Kind:      redactors.ArtifactPDF,
		Name:      redactors.ArtifactName(req.FileName, redactors.ArtifactPDF),
		Data:      out,
		PageCount: len(sizes),
	}, nil
}

func buildStamps(plan [][]Box, sizes []PageSize, redactions int) ([]PageStamp, int) {
	stamps := make([]PageStamp, len(sizes))
	boxes := 0
	for i := range sizes {
		stamps[i] = PageStamp{
			Page:  i,
			Size:  sizes[i],
			Boxes: plan[i],
			Label: PageLabel,
		}
		boxes += len(plan[i])
	}
	stamps[len(stamps)-1].Footer = FooterText(redactions)
	return stamps, boxes
}

// FooterText is the count line stamped on the final page
func FooterText(n int) string {
	if n == 1 {
		return "1 redaction applied"
	}
	return fmt.Sprintf("%d redactions applied", n)
}

// GetComponentName returns the component name for observability
func (pr *PDFRedactor) GetComponentName() string {
	return "pdf_redactor"
}
