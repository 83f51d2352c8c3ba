// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core wires extraction, matching, resolution, summary and artifact
// production into one redaction session. Engine state is read-only after
// construction, so sessions for different documents may run in parallel.
package core

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"docredact/internal/chunks"
	"docredact/internal/config"
	"docredact/internal/detector"
	"docredact/internal/extract"
	"docredact/internal/matcher"
	"docredact/internal/observability"
	"docredact/internal/payload"
	"docredact/internal/redactors"
	"docredact/internal/resolver"
	"docredact/internal/security"
	"docredact/internal/summary"
	"docredact/internal/version"
)

// Engine is the redaction façade shared by the CLI subcommands.
type Engine struct {
	config     *config.Config
	catalog    *detector.Catalog
	matcher    *matcher.Matcher
	extractor  *extract.Extractor
	applicator *redactors.Applicator
	observer   *observability.StandardObserver
}

// NewEngine builds an engine from cfg. Pass nil for cfg to use the defaults.
func NewEngine(cfg *config.Config, backends Backends, observer *observability.StandardObserver) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if observer == nil {
		observer = observability.NewNopObserver()
	}

	catalog, err := BuildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	chains := BuildChains(cfg, backends, observer)
	for kind, chain := range chains {
		observer.Logger().Debug("artifact chain",
			zap.Stringer("kind", kind),
			zap.Strings("strategies", chain.Names()))
	}

	return &Engine{
		config:     cfg,
		catalog:    catalog,
		matcher:    matcher.New(catalog, observer),
		extractor:  extract.NewExtractor(observer),
		applicator: redactors.NewApplicator(chains, observer),
		observer:   observer,
	}, nil
}

// Catalog returns the engine's detector catalog.
func (e *Engine) Catalog() *detector.Catalog {
	return e.catalog
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config {
	return e.config
}

// Session is one document's pass through the engine. Matches is the
// canonical match set: sorted by Start and pairwise disjoint.
type Session struct {
	Document     *extract.Document
	DetectorKeys []string
	Terms        []detector.SearchTerm
	RawMatches   int
	Matches      []detector.Match
	Warnings     []error
	Summary      *summary.RedactionSummary
}

// ScanFile extracts path and scans its text.
func (e *Engine) ScanFile(path string, keys []string, terms []detector.SearchTerm) (*Session, error) {
	doc, err := e.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return e.Scan(doc, keys, terms)
}

// Scan runs the matcher and conflict resolver over doc.Text and summarizes
// the canonical set. Unknown detector keys become warnings.
func (e *Engine) Scan(doc *extract.Document, keys []string, terms []detector.SearchTerm) (*Session, error) {
	finish := e.observer.StartTiming("engine", "scan", doc.Path)

	raw := e.matcher.Scan(doc.Text, keys, terms)
	canonical := resolver.Resolve(raw.Matches)
	if label := e.config.Redaction.CustomReplacement; label != "" && label != detector.CustomReplacement {
		for i := range canonical {
			if canonical[i].Type == detector.CustomType {
				canonical[i].Replacement = label
			}
		}
	}
	if err := resolver.Validate(doc.Text, canonical); err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return nil, redactors.NewRedactionError(redactors.ErrorValidation, "resolve",
			"canonical match set failed validation", doc.Path, "engine", err)
	}

	for _, w := range raw.Warnings {
		e.observer.Logger().Warn("detector skipped", zap.String("file", doc.Path), zap.Error(w))
	}

	s := &Session{
		Document:     doc,
		DetectorKeys: keys,
		Terms:        terms,
		RawMatches:   len(raw.Matches),
		Matches:      canonical,
		Warnings:     raw.Warnings,
		Summary:      summary.Summarize(doc.Text, canonical),
	}
	if dbg := e.observer.DebugObserver; dbg != nil {
		dbg.LogMetric("engine", "raw_matches", s.RawMatches)
		dbg.LogMetric("engine", "canonical_matches", len(s.Matches))
		dbg.LogMetric("engine", "overlaps_dropped", s.RawMatches-len(s.Matches))
	}
	finish(true, map[string]interface{}{
		"raw_matches":       s.RawMatches,
		"canonical_matches": len(s.Matches),
	})
	return s, nil
}

// Result is the output of Redact.
type Result struct {
	Outcome  *redactors.Outcome
	AuditLog *redactors.RedactionAuditLog
}

// Artifact is a shortcut for r.Outcome.Artifact.
func (r *Result) Artifact() *redactors.Artifact {
	return r.Outcome.Artifact
}

// Redact applies the session's canonical matches and explicit regions. It
// returns a NoMatchesError when the session found nothing to redact.
func (e *Engine) Redact(s *Session, regions []redactors.Region) (*Result, error) {
	start := time.Now()
	doc := s.Document

	outcome, err := e.applicator.Apply(&redactors.Request{
		FileName: doc.Path,
		Kind:     doc.Kind,
		Source:   doc.Source,
		Content:  doc.Text,
		Matches:  s.Matches,
		Regions:  regions,
	})
	if err != nil {
		return nil, err
	}

	for _, f := range outcome.Fallbacks {
		e.observer.Logger().Warn("artifact strategy failed, falling back",
			zap.String("file", doc.Path),
			zap.String("strategy", f.Strategy),
			zap.String("stage", f.Stage),
			zap.Error(f))
		if dbg := e.observer.DebugObserver; dbg != nil {
			dbg.LogDetail("engine", fmt.Sprintf("fallback from %s at %s", f.Strategy, f.Stage))
		}
	}

	audit := redactors.NewRedactionAuditLog(doc.Path, version.Short(), doc.Source)
	audit.RecordMatches(s.Matches)
	audit.SetRegionCount(len(regions))
	audit.RecordOutcome(outcome, time.Since(start))

	return &Result{Outcome: outcome, AuditLog: audit}, nil
}

// Chunks maps the session's canonical matches to chunk indices.
func (s *Session) Chunks(chunkSize int) ([]int, error) {
	return chunks.Map(s.Matches, chunkSize)
}

// Payload assembles the submission payload for a session. fileID and
// passphrase are always supplied by the caller.
func (s *Session) Payload(fileID string, passphrase *security.SecureString, regions []redactors.Region) (*payload.RedactionPayload, error) {
	if s.Summary == nil {
		return nil, fmt.Errorf("session has no summary")
	}
	return payload.Build(payload.Input{
		FileID:       fileID,
		Passphrase:   passphrase,
		DetectorKeys: s.DetectorKeys,
		Terms:        s.Terms,
		Regions:      regions,
		MatchedTexts: s.Summary.MatchedTexts,
	})
}
