// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"docredact/internal/observability"
)

// Chain is an ordered fallback policy: each strategy is tried in turn and the
// first artifact produced wins.
type Chain []Strategy

// Names returns the strategy names in order
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.GetName()
	}
	return names
}

// Outcome is the result of running a chain
type Outcome struct {
	Artifact *Artifact

	// Fallbacks lists the strategies that failed before the winning one
	Fallbacks []*ArtifactGenerationError
}

// Run tries each strategy until one succeeds. A panic inside a strategy is
// treated as a failure of that strategy. When every strategy fails the last
// failure is returned inside a RedactionError.
func (c Chain) Run(req *Request, observer *observability.StandardObserver) (*Outcome, error) {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	if len(c) == 0 {
		return nil, NewRedactionError(ErrorConfiguration, "apply", "no artifact strategies configured",
			req.FileName, "redaction_chain", nil)
	}

	out := &Outcome{}
	for _, strategy := range c {
		component := observability.ComponentName(strategy, "redaction_chain")
		finish := observer.StartTiming(component, strategy.GetName(), req.FileName)
		endStep := func(bool, string) {}
		if dbg := observer.DebugObserver; dbg != nil {
			endStep = dbg.StartStep(component, strategy.GetName(), req.FileName)
		}

		artifact, err := runStrategy(strategy, req)
		if err != nil {
			var genErr *ArtifactGenerationError
			if !errors.As(err, &genErr) {
				genErr = NewArtifactGenerationError(strategy.GetName(), "generate", err)
			}
			out.Fallbacks = append(out.Fallbacks, genErr)
			finish(false, map[string]interface{}{"error": genErr.Error()})
			endStep(false, genErr.Stage)
			continue
		}
		endStep(true, string(artifact.Kind))

		finalize(artifact, req, strategy.GetName())
		out.Artifact = artifact
		finish(true, map[string]interface{}{
			"artifact_kind": string(artifact.Kind),
			"bytes":         len(artifact.Data),
			"pages":         artifact.PageCount,
			"fallbacks":     len(out.Fallbacks),
		})
		return out, nil
	}

	last := out.Fallbacks[len(out.Fallbacks)-1]
	return out, NewRedactionError(ErrorDocumentProcessing, last.Stage,
		fmt.Sprintf("all %d artifact strategies failed", len(c)), req.FileName, last.Strategy, last)
}

func runStrategy(strategy Strategy, req *Request) (artifact *Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = NewArtifactGenerationError(strategy.GetName(), "generate", fmt.Errorf("panic: %v", r))
		}
	}()

	artifact, err = strategy.Redact(req)
	if err == nil && artifact == nil {
		err = NewArtifactGenerationError(strategy.GetName(), "generate", errors.New("strategy returned no artifact"))
	}
	return artifact, err
}

func finalize(artifact *Artifact, req *Request, strategy string) {
	artifact.Strategy = strategy
	if artifact.Name == "" {
		artifact.Name = ArtifactName(req.FileName, artifact.Kind)
	}
	artifact.SHA256 = GenerateDocumentHash(artifact.Data)

	seen := make(map[string]bool, len(req.Matches))
	terms := make([]string, 0, len(req.Matches))
	for _, m := range req.Matches {
		if m.Text != "" && !seen[m.Text] {
			seen[m.Text] = true
			terms = append(terms, m.Text)
		}
	}
	sort.Strings(terms)
	artifact.RemovedTerms = terms
}

// GenerateDocumentHash creates a hex SHA-256 digest of content
func GenerateDocumentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
