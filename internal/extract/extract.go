// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract reads documents from disk and produces the text the
// redaction engine scans, together with the original bytes.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docredact/internal/observability"
	"docredact/internal/redactors"
)

// MaxFileSize is the largest document accepted
const MaxFileSize = 100 * 1024 * 1024

// Document is an extracted document
type Document struct {
	Path      string
	Kind      redactors.DocumentKind
	Source    []byte
	Text      string
	PageCount int
}

// UnsupportedFormatError reports a file that is neither text, PDF nor DOCX
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document %s: %s", e.Path, e.Reason)
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// DetectKind decides the document kind from the extension, then from the
// leading bytes when the extension says nothing.
func DetectKind(name string, head []byte) redactors.DocumentKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return redactors.DocumentPDF
	case ".docx":
		return redactors.DocumentDOCX
	case ".txt", ".md", ".csv", ".log", ".json", ".yaml", ".yml", ".xml", ".html":
		return redactors.DocumentText
	}

	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return redactors.DocumentPDF
	case bytes.HasPrefix(head, zipMagic) && bytes.Contains(head, []byte("word/")):
		return redactors.DocumentDOCX
	default:
		return redactors.DocumentText
	}
}

// Extractor turns files into Documents
type Extractor struct {
	observer *observability.StandardObserver
}

// NewExtractor creates a new Extractor
func NewExtractor(observer *observability.StandardObserver) *Extractor {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &Extractor{observer: observer}
}

// ExtractFile reads path and extracts its text
func (e *Extractor) ExtractFile(path string) (*Document, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.IsDir() {
		return nil, &UnsupportedFormatError{Path: path, Reason: "is a directory"}
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return e.Extract(path, data)
}

// Extract extracts text from data; name is used for kind detection only
func (e *Extractor) Extract(name string, data []byte) (*Document, error) {
	kind := DetectKind(name, data[:min(len(data), 512)])
	finishTiming := e.observer.StartTiming("extractor", "extract_"+kind.String(), name)

	doc := &Document{Path: name, Kind: kind, Source: data}
	var err error
	switch kind {
	case redactors.DocumentPDF:
		doc.Text, doc.PageCount, err = pdfText(data)
	case redactors.DocumentDOCX:
		doc.Text, err = docxText(data)
	default:
		doc.Text, err = plainText(name, data)
	}
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	finishTiming(true, map[string]interface{}{
		"bytes":      len(data),
		"text_bytes": len(doc.Text),
		"pages":      doc.PageCount,
	})
	return doc, nil
}

func plainText(name string, data []byte) (string, error) {
	head := data[:min(len(data), 512)]
	if bytes.IndexByte(head, 0) >= 0 {
		return "", &UnsupportedFormatError{Path: name, Reason: "binary content"}
	}

	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}
	return content, nil
}
