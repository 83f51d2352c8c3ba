// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"path/filepath"
	"strings"

	"docredact/internal/detector"
)

// DocumentKind identifies the format of the source document
type DocumentKind int

const (
	// DocumentText is plain text or anything without a richer path
	DocumentText DocumentKind = iota
	// DocumentPDF is a paginated PDF document
	DocumentPDF
	// DocumentDOCX is an Office Open XML word processing document
	DocumentDOCX
)

// String returns the string representation of the document kind
func (dk DocumentKind) String() string {
	switch dk {
	case DocumentText:
		return "text"
	case DocumentPDF:
		return "pdf"
	case DocumentDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// ArtifactKind tags the format of a produced artifact
type ArtifactKind string

const (
	ArtifactText ArtifactKind = "text"
	ArtifactPDF  ArtifactKind = "pdf"
)

// Extension returns the file extension, without dot, for the artifact kind
func (ak ArtifactKind) Extension() string {
	if ak == ArtifactPDF {
		return "pdf"
	}
	return "txt"
}

// MIMEType returns the media type for the artifact kind
func (ak ArtifactKind) MIMEType() string {
	if ak == ArtifactPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// Region is an explicit rectangle to black out, in PDF points.
// Page is 0-based and Y is measured from the top edge of the page.
type Region struct {
	Page int     `json:"page" yaml:"page"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	W    float64 `json:"w" yaml:"w"`
	H    float64 `json:"h" yaml:"h"`
}

// Request carries everything a strategy needs to produce an artifact.
// Source is never modified.
type Request struct {
	// FileName is the original file name, used for the artifact name
	FileName string

	// Kind is the detected document kind
	Kind DocumentKind

	// Source holds the original bytes for PDF and DOCX documents
	Source []byte

	// Content is the extracted text the matches refer to
	Content string

	// Matches is the canonical match set over Content
	Matches []detector.Match

	// Regions are additional explicit rectangles for paginated output
	Regions []Region
}

// Artifact is a redacted output document. Ownership passes to the caller.
type Artifact struct {
	Kind         ArtifactKind
	Name         string
	Data         []byte
	PageCount    int
	SHA256       string
	RemovedTerms []string

	// Strategy names the strategy that produced the artifact
	Strategy string
}

// Strategy produces an artifact from a request. Strategies are tried in order
// by a Chain until one succeeds.
type Strategy interface {
	// GetName returns the name of the strategy
	GetName() string

	// Redact produces a new artifact; it must not modify the request
	Redact(req *Request) (*Artifact, error)
}

// ArtifactName returns Redacted_<basename>.<ext> where ext follows the produced kind
func ArtifactName(fileName string, kind ArtifactKind) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return "Redacted_" + base + "." + kind.Extension()
}
