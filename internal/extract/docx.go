// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// docxText extracts the body text of a word processing document, followed by
// its headers and footers. Paragraphs become lines and table cells are tab
// separated.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("error opening DOCX archive: %w", err)
	}

	var body *zip.File
	var extras []*zip.File
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			body = f
		case strings.HasPrefix(f.Name, "word/header") && strings.HasSuffix(f.Name, ".xml"),
			strings.HasPrefix(f.Name, "word/footer") && strings.HasSuffix(f.Name, ".xml"):
			extras = append(extras, f)
		}
	}
	if body == nil {
		return "", fmt.Errorf("document.xml not found in the archive")
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Name < extras[j].Name })

	var parts []string
	for _, f := range append([]*zip.File{body}, extras...) {
		text, err := wordXMLText(f)
		if err != nil {
			if f == body {
				return "", err
			}
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func wordXMLText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var buf strings.Builder
	var inText bool
	var cellCount int
	// cellPara is set when a paragraph ended inside a table cell
	var cellPara bool

	decoder := xml.NewDecoder(rc)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("XML parsing error in %s: %w", f.Name, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t", "delText":
				inText = true
				if cellPara {
					buf.WriteString(" ")
					cellPara = false
				}
			case "tab":
				buf.WriteString("\t")
			case "br", "cr":
				buf.WriteString("\n")
			case "tr":
				cellCount = 0
			case "tc":
				cellPara = false
				if cellCount > 0 {
					buf.WriteString("\t")
				}
				cellCount++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t", "delText":
				inText = false
			case "p":
				// Paragraphs inside a cell stay on the row's line
				if cellCount == 0 {
					buf.WriteString("\n")
				} else {
					cellPara = true
				}
			case "tr":
				buf.WriteString("\n")
				cellCount = 0
				cellPara = false
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
