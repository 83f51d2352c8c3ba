// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"

	"docredact/internal/config"
	"docredact/internal/detector"
	"docredact/internal/observability"
	"docredact/internal/redactors"
	"docredact/internal/redactors/office"
	"docredact/internal/redactors/pdf"
	"docredact/internal/redactors/plaintext"
)

// BuildCatalog compiles the built-in detectors plus any detector pack named
// in the configuration. Pass nil for cfg to get the built-in catalog only.
func BuildCatalog(cfg *config.Config) (*detector.Catalog, error) {
	builder := detector.NewDefaultBuilder()
	if cfg != nil && cfg.Detectors.PackFile != "" {
		if err := builder.LoadPack(cfg.Detectors.PackFile); err != nil {
			return nil, err
		}
	}
	catalog, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build detector catalog: %w", err)
	}
	return catalog, nil
}

// Backends lets callers replace the PDF stamping and DOCX rendering back ends.
// Nil fields select the pdfcpu and fpdf implementations.
type Backends struct {
	PDF  pdf.Backend
	DOCX office.Renderer
}

// BuildChains constructs the artifact strategy chain for every document kind.
// Each chain ends with the plain-text strategy so a redaction is never lost.
func BuildChains(cfg *config.Config, backends Backends, observer *observability.StandardObserver) map[redactors.DocumentKind]redactors.Chain {
	if cfg == nil {
		cfg = config.Default()
	}
	text := plaintext.NewPlainTextRedactor(observer)

	return map[redactors.DocumentKind]redactors.Chain{
		redactors.DocumentText: {text},
		redactors.DocumentPDF: {
			pdf.NewPDFRedactor(backends.PDF, cfg.PDF, observer),
			text,
		},
		redactors.DocumentDOCX: {
			office.NewOfficeRedactor(cfg.DOCX, backends.DOCX, observer),
			text,
		},
	}
}

// ParseDetectorKeys splits comma separated detector lists, trimming blanks.
// "all" expands to every key in catalog.
func ParseDetectorKeys(values []string, catalog *detector.Catalog) []string {
	var keys []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.EqualFold(part, "all") && catalog != nil {
				return catalog.Keys()
			}
			keys = append(keys, part)
		}
	}
	return keys
}

// SelectDetectors decides which detectors a session runs. Explicit keys win,
// then the profile, then the configured default list, then the whole catalog.
func SelectDetectors(explicit []string, profile *config.ProfileConfig, cfg *config.Config, catalog *detector.Catalog) []string {
	if keys := ParseDetectorKeys(explicit, catalog); len(keys) > 0 {
		return keys
	}
	if profile != nil {
		if keys := ParseDetectorKeys(profile.Detectors, catalog); len(keys) > 0 {
			return keys
		}
	}
	if cfg != nil {
		if keys := ParseDetectorKeys(cfg.Detectors.Enabled, catalog); len(keys) > 0 {
			return keys
		}
	}
	return catalog.Keys()
}
