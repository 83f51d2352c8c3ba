// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"docredact/internal/observability"
)

// Applicator selects the fallback chain for a document kind and runs it
type Applicator struct {
	chains   map[DocumentKind]Chain
	observer *observability.StandardObserver
}

// NewApplicator creates an Applicator. Kinds without a chain use the
// DocumentText chain.
func NewApplicator(chains map[DocumentKind]Chain, observer *observability.StandardObserver) *Applicator {
	if observer == nil {
		observer = observability.NewNopObserver()
	}
	return &Applicator{chains: chains, observer: observer}
}

// ChainFor returns the chain used for kind
func (a *Applicator) ChainFor(kind DocumentKind) Chain {
	if c, ok := a.chains[kind]; ok {
		return c
	}
	return a.chains[DocumentText]
}

// Apply produces a redacted artifact. An empty match set is an error, never
// a silent copy of the original.
func (a *Applicator) Apply(req *Request) (*Outcome, error) {
	if len(req.Matches) == 0 {
		return nil, &NoMatchesError{FileName: req.FileName}
	}
	return a.ChainFor(req.Kind).Run(req, a.observer)
}

// GetComponentName returns the component name for observability
func (a *Applicator) GetComponentName() string {
	return "redaction_applicator"
}
