// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PageStamp is everything drawn on one page
type PageStamp struct {
	// Page is 0-based
	Page  int
	Size  PageSize
	Boxes []Box

	// Label is the small marker stamped in the top right corner
	Label string

	// Footer is stamped at the bottom of the page when non-empty
	Footer string
}

// Backend reads page geometry and draws stamps onto a PDF. The source bytes
// are never modified; Stamp returns a new document.
type Backend interface {
	PageDims(src []byte) ([]PageSize, error)
	Stamp(src []byte, stamps []PageStamp) ([]byte, error)
}

// PDFCPUBackend implements Backend with pdfcpu watermarks. Boxes are black
// images stamped on top of the page content.
type PDFCPUBackend struct {
	conf *model.Configuration
}

// NewPDFCPUBackend creates a backend with pdfcpu's default configuration
func NewPDFCPUBackend() *PDFCPUBackend {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUBackend{conf: conf}
}

// PageDims returns the media box size of every page
func (b *PDFCPUBackend) PageDims(src []byte) ([]PageSize, error) {
	dims, err := api.PageDims(bytes.NewReader(src), b.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	sizes := make([]PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// Stamp draws every page stamp and validates the result
func (b *PDFCPUBackend) Stamp(src []byte, stamps []PageStamp) ([]byte, error) {
	wms := make(map[int][]*model.Watermark, len(stamps))

	for _, ps := range stamps {
		pageNr := ps.Page + 1

		for _, box := range ps.Boxes {
			wm, err := boxWatermark(box, ps.Size)
			if err != nil {
				return nil, err
			}
			wms[pageNr] = append(wms[pageNr], wm)
		}

		if ps.Label != "" {
			wm, err := api.TextWatermark(ps.Label,
				"font:Helvetica, points:8, pos:tr, off:-12 -12, fillc:#B00000, rot:0, scale:1 abs, op:0.9",
				true, false, types.POINTS)
			if err != nil {
				return nil, fmt.Errorf("failed to build label stamp: %w", err)
			}
			wms[pageNr] = append(wms[pageNr], wm)
		}

		if ps.Footer != "" {
			wm, err := api.TextWatermark(ps.Footer,
				"font:Helvetica, points:9, pos:bc, off:0 18, fillc:#000000, rot:0, scale:1 abs, op:1",
				true, false, types.POINTS)
			if err != nil {
				return nil, fmt.Errorf("failed to build footer stamp: %w", err)
			}
			wms[pageNr] = append(wms[pageNr], wm)
		}
	}

	var out bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(src), &out, wms, b.conf); err != nil {
		return nil, fmt.Errorf("failed to stamp pages: %w", err)
	}
	if err := api.Validate(bytes.NewReader(out.Bytes()), b.conf); err != nil {
		return nil, fmt.Errorf("stamped document failed validation: %w", err)
	}
	return out.Bytes(), nil
}

// boxWatermark builds a black image the size of the box, anchored at its
// bottom left corner in PDF user space.
func boxWatermark(box Box, page PageSize) (*model.Watermark, error) {
	w := int(math.Ceil(box.W))
	h := int(math.Ceil(box.H))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	// The zero Gray value is black
	img := image.NewGray(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode box image: %w", err)
	}

	y := page.Height - box.Y - box.H
	desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:1 abs, rot:0, op:1", box.X, y)

	wm, err := api.ImageWatermarkForReader(&buf, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build box stamp on page %d: %w", box.Page+1, err)
	}
	return wm, nil
}
