// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText extracts page text in reading order, one page after another.
// Pages that cannot be read contribute nothing.
func pdfText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("error reading PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("error opening PDF: %w", err)
	}

	pages = r.NumPage()
	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := pageTextByRow(p)
		if err != nil {
			continue
		}
		if buf.Len() > 0 && pageText != "" {
			buf.WriteString("\n")
		}
		buf.WriteString(pageText)
	}

	return strings.TrimRight(buf.String(), "\n"), pages, nil
}

// pageTextByRow rebuilds lines from positioned text, top to bottom
func pageTextByRow(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}

	// PDF user space grows upwards
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	var buf strings.Builder
	for _, row := range sorted {
		line := rowText(row.Content)
		if strings.TrimSpace(line) != "" {
			buf.WriteString(strings.TrimSpace(line))
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(texts []pdf.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// rowText joins the glyph runs of one row, inserting a space wherever the
// gap to the next run is wider than a fifth of the font size. Runs without a
// known width are joined as they are.
func rowText(texts []pdf.Text) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var buf strings.Builder
	for i, t := range sorted {
		buf.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if t.W > 0 && sorted[i+1].X-(t.X+t.W) > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}
