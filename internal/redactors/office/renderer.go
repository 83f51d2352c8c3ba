// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package office

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Renderer lays already paginated lines out as a PDF
type Renderer interface {
	// Measure returns the width of s in points at the configured font
	Measure(s string) float64

	// Render returns the PDF bytes and its page count
	Render(pages [][]string) ([]byte, int, error)
}

// FPDFRenderer renders with the core PDF fonts. Text is translated to
// cp1252, so runes outside it are drawn as substitutes.
type FPDFRenderer struct {
	setup   PageSetup
	measure *fpdf.Fpdf
	tr      func(string) string
	conf    *model.Configuration
}

// NewFPDFRenderer creates a renderer for setup
func NewFPDFRenderer(setup PageSetup) *FPDFRenderer {
	m := newDocument(setup)
	return &FPDFRenderer{
		setup:   setup,
		measure: m,
		tr:      m.UnicodeTranslatorFromDescriptor(""),
		conf:    model.NewDefaultConfiguration(),
	}
}

func newDocument(setup PageSetup) *fpdf.Fpdf {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: setup.Width, Ht: setup.Height},
	})
	doc.SetMargins(setup.Margin, setup.Margin, setup.Margin)
	doc.SetAutoPageBreak(false, setup.Margin)
	doc.SetFont(setup.FontFamily, "", setup.FontSize)
	return doc
}

// Measure implements Renderer
func (r *FPDFRenderer) Measure(s string) float64 {
	return r.measure.GetStringWidth(r.tr(s))
}

// Render implements Renderer. The result is checked by reading it back.
func (r *FPDFRenderer) Render(pages [][]string) ([]byte, int, error) {
	doc := newDocument(r.setup)
	doc.SetTitle("Redacted document", true)
	doc.SetCreator("docredact", true)

	for _, lines := range pages {
		doc.AddPage()
		for i, line := range lines {
			if line == "" {
				continue
			}
			doc.Text(r.setup.Margin, r.setup.Margin+float64(i+1)*r.setup.LineHeight, r.tr(line))
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to write document: %w", err)
	}

	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), r.conf)
	if err != nil {
		return nil, 0, fmt.Errorf("generated document is unreadable: %w", err)
	}
	if n != len(pages) {
		return nil, 0, fmt.Errorf("generated document has %d pages, expected %d", n, len(pages))
	}
	return buf.Bytes(), n, nil
}
