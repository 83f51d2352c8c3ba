// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdf

import (
	"strings"
	"unicode/utf8"

	"docredact/internal/detector"
	"docredact/internal/redactors"
)

// Layout holds the fixed metrics, in PDF points, used to estimate where a
// match sits on its page. Placement is approximate by construction: the
// guarantee is that every match assigned to a page gets a box on that page.
type Layout struct {
	LeftMargin   float64 `mapstructure:"left_margin" yaml:"left_margin"`
	TopOffset    float64 `mapstructure:"top_offset" yaml:"top_offset"`
	LineHeight   float64 `mapstructure:"line_height" yaml:"line_height"`
	BoxHeight    float64 `mapstructure:"box_height" yaml:"box_height"`
	CharWidth    float64 `mapstructure:"char_width" yaml:"char_width"`
	Gap          float64 `mapstructure:"gap" yaml:"gap"`
	MinWidth     float64 `mapstructure:"min_width" yaml:"min_width"`
	BottomMargin float64 `mapstructure:"bottom_margin" yaml:"bottom_margin"`
}

// DefaultLayout returns the metrics of a 10-11pt body font on a letter or A4 page
func DefaultLayout() Layout {
	return Layout{
		LeftMargin:   50,
		TopOffset:    60,
		LineHeight:   14,
		BoxHeight:    12,
		CharWidth:    6.5,
		Gap:          4,
		MinWidth:     30,
		BottomMargin: 40,
	}
}

// PageSize is the media box of one page in points
type PageSize struct {
	Width  float64
	Height float64
}

// Box is an opaque rectangle to draw. Y is measured from the top of the page.
type Box struct {
	Page int
	X    float64
	Y    float64
	W    float64
	H    float64

	// Type is the match type, or "region" for explicit rectangles
	Type string
}

// RegionType tags boxes that come from explicit regions
const RegionType = "region"

// PageOf buckets a text offset into a page by dividing the text evenly
// across the page count. Offsets past the last full range land on the last page.
func PageOf(offset, textLen, pages int) int {
	if pages <= 1 {
		return 0
	}
	perPage := charsPerPage(textLen, pages)
	page := offset / perPage
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

func charsPerPage(textLen, pages int) int {
	if textLen <= 0 || pages <= 0 {
		return 1
	}
	n := (textLen + pages - 1) / pages
	if n < 1 {
		n = 1
	}
	return n
}

// Plan returns the boxes to draw for each page, indexed by 0-based page.
// Matches are placed in canonical order; regions on pages outside the
// document are skipped.
func (l Layout) Plan(text string, matches []detector.Match, pages []PageSize, regions []redactors.Region) [][]Box {
	plan := make([][]Box, len(pages))
	if len(pages) == 0 {
		return plan
	}

	perPage := charsPerPage(len(text), len(pages))
	cursors := make([]map[int]float64, len(pages))

	for _, m := range matches {
		page := PageOf(m.Start, len(text), len(pages))
		if cursors[page] == nil {
			cursors[page] = map[int]float64{}
		}

		pageStart := page * perPage
		row := 0
		if pageStart < m.Start && m.Start <= len(text) {
			row = strings.Count(text[pageStart:m.Start], "\n")
		}

		plan[page] = append(plan[page], l.place(pages[page], cursors[page], page, row, l.widthFor(m.Text, pages[page]), m.Type))
	}

	for _, r := range regions {
		if r.Page < 0 || r.Page >= len(pages) || r.W <= 0 || r.H <= 0 {
			continue
		}
		plan[r.Page] = append(plan[r.Page], Box{Page: r.Page, X: r.X, Y: r.Y, W: r.W, H: r.H, Type: RegionType})
	}

	return plan
}

func (l Layout) widthFor(text string, page PageSize) float64 {
	w := float64(utf8.RuneCountInString(text)) * l.CharWidth
	if w < l.MinWidth {
		w = l.MinWidth
	}
	maxW := page.Width - 2*l.LeftMargin
	if maxW <= 0 {
		maxW = page.Width
	}
	if w > maxW {
		w = maxW
	}
	return w
}

// place packs a box left to right on its row, wrapping to the following row
// when it would cross the right margin. Rows below the bottom margin are
// folded onto the last usable row.
func (l Layout) place(page PageSize, next map[int]float64, pageIdx, row int, w float64, typ string) Box {
	lastRow := 0
	if l.LineHeight > 0 {
		usable := page.Height - l.BottomMargin - l.BoxHeight - l.TopOffset
		if usable > 0 {
			lastRow = int(usable / l.LineHeight)
		}
	}
	if row > lastRow {
		row = lastRow
	}

	right := page.Width - l.LeftMargin
	for {
		x, ok := next[row]
		if !ok {
			x = l.LeftMargin
		}
		if x+w > right && x > l.LeftMargin && row < lastRow {
			row++
			continue
		}
		if x+w > right {
			x = l.LeftMargin
		}
		next[row] = x + w + l.Gap

		y := l.TopOffset + float64(row)*l.LineHeight
		if y+l.BoxHeight > page.Height {
			y = page.Height - l.BoxHeight
		}
		if y < 0 {
			y = 0
		}
		return Box{Page: pageIdx, X: x, Y: y, W: w, H: l.BoxHeight, Type: typ}
	}
}
