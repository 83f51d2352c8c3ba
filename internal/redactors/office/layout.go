// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package office

import (
	"strings"
	"unicode/utf8"
)

// PageSetup is the fixed geometry of generated pages, in points
type PageSetup struct {
	Width      float64 `mapstructure:"page_width" yaml:"page_width"`
	Height     float64 `mapstructure:"page_height" yaml:"page_height"`
	Margin     float64 `mapstructure:"margin" yaml:"margin"`
	LineHeight float64 `mapstructure:"line_height" yaml:"line_height"`
	FontSize   float64 `mapstructure:"font_size" yaml:"font_size"`
	FontFamily string  `mapstructure:"font_family" yaml:"font_family"`
}

// DefaultPageSetup returns an A4 page with a 56pt margin and 11pt Helvetica
func DefaultPageSetup() PageSetup {
	return PageSetup{
		Width:      595.28,
		Height:     841.89,
		Margin:     56,
		LineHeight: 14,
		FontSize:   11,
		FontFamily: "Helvetica",
	}
}

// TextWidth returns the usable line width
func (ps PageSetup) TextWidth() float64 {
	return ps.Width - 2*ps.Margin
}

// Wrap breaks text into lines no wider than maxWidth. Paragraph breaks are
// kept as empty lines; words wider than a whole line are split by rune.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	var lines []string

	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, w := range words {
			for measure(w) > maxWidth {
				cut := fitPrefix(w, maxWidth, measure)
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, w[:cut])
				w = w[cut:]
			}

			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}

	return lines
}

// fitPrefix returns the byte length of the longest rune prefix of w that
// fits, never less than one rune
func fitPrefix(w string, maxWidth float64, measure func(string) float64) int {
	_, first := utf8.DecodeRuneInString(w)
	cut := first
	for i := first; i < len(w); {
		_, size := utf8.DecodeRuneInString(w[i:])
		if measure(w[:i+size]) > maxWidth {
			break
		}
		i += size
		cut = i
	}
	return cut
}

// Paginate splits lines into pages. A new page starts whenever the next
// line would cross the bottom margin. There is always at least one page.
func Paginate(lines []string, setup PageSetup) [][]string {
	pages := [][]string{{}}
	y := setup.Margin
	bottom := setup.Height - setup.Margin

	for _, line := range lines {
		cur := len(pages) - 1
		if y+setup.LineHeight > bottom && len(pages[cur]) > 0 {
			pages = append(pages, []string{})
			cur++
			y = setup.Margin
		}
		pages[cur] = append(pages[cur], line)
		y += setup.LineHeight
	}

	return pages
}
