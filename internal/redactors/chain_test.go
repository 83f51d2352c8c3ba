// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/detector"
	"docredact/internal/observability"
)

type stubStrategy struct {
	name  string
	kind  ArtifactKind
	err   error
	panic bool
	calls int
}

func (s *stubStrategy) GetName() string { return s.name }

func (s *stubStrategy) Redact(req *Request) (*Artifact, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Artifact{Kind: s.kind, Data: []byte(s.name)}, nil
}

func sampleRequest() *Request {
	return &Request{
		FileName: "/tmp/in/report.pdf",
		Kind:     DocumentPDF,
		Content:  "alice@x.io and bob@y.io and alice@x.io",
		Matches: []detector.Match{
			{Text: "alice@x.io", Start: 0, End: 10, Type: "EMAIL", Replacement: "[EMAIL REDACTED]"},
			{Text: "bob@y.io", Start: 15, End: 23, Type: "EMAIL", Replacement: "[EMAIL REDACTED]"},
			{Text: "alice@x.io", Start: 28, End: 38, Type: "EMAIL", Replacement: "[EMAIL REDACTED]"},
		},
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &stubStrategy{name: "pdf_overlay", kind: ArtifactPDF}
	second := &stubStrategy{name: "plain_text", kind: ArtifactText}

	out, err := Chain{first, second}.Run(sampleRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, "pdf_overlay", out.Artifact.Strategy)
	assert.Equal(t, "Redacted_report.pdf", out.Artifact.Name)
	assert.Empty(t, out.Fallbacks)
	assert.Equal(t, 0, second.calls)
}

func TestChain_FallsBackOnErrorAndPanic(t *testing.T) {
	failing := &stubStrategy{name: "pdf_overlay", err: errors.New("corrupt xref")}
	panicking := &stubStrategy{name: "docx_render", panic: true}
	text := &stubStrategy{name: "plain_text", kind: ArtifactText}

	out, err := Chain{failing, panicking, text}.Run(sampleRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, ArtifactText, out.Artifact.Kind)
	assert.Equal(t, "Redacted_report.txt", out.Artifact.Name)
	require.Len(t, out.Fallbacks, 2)
	assert.Equal(t, "pdf_overlay", out.Fallbacks[0].Strategy)
	assert.Equal(t, "docx_render", out.Fallbacks[1].Strategy)
	assert.Contains(t, out.Fallbacks[1].Error(), "panic")
}

func TestChain_DebugTraceNamesEachStrategy(t *testing.T) {
	var buf bytes.Buffer
	obs := observability.NewDebugObserver(&buf, nil).StandardObserver

	chain := Chain{
		&stubStrategy{name: "pdf_overlay", err: errors.New("corrupt xref")},
		&stubStrategy{name: "plain_text", kind: ArtifactText},
	}
	_, err := chain.Run(sampleRequest(), obs)
	require.NoError(t, err)

	trace := buf.String()
	assert.Contains(t, trace, "+ redaction_chain/pdf_overlay /tmp/in/report.pdf")
	assert.Contains(t, trace, "- redaction_chain/pdf_overlay FAILED")
	assert.Contains(t, trace, "- redaction_chain/plain_text ok")
}

func TestChain_AllFail(t *testing.T) {
	cause := NewArtifactGenerationError("plain_text", "encode", errors.New("disk full"))
	_, err := Chain{&stubStrategy{name: "plain_text", err: cause}}.Run(sampleRequest(), nil)
	require.Error(t, err)

	var re *RedactionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "encode", re.Stage)

	var gen *ArtifactGenerationError
	require.ErrorAs(t, err, &gen)
	assert.Equal(t, "plain_text", gen.Strategy)
}

func TestChain_DigestAndRemovedTerms(t *testing.T) {
	out, err := Chain{&stubStrategy{name: "plain_text", kind: ArtifactText}}.Run(sampleRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, GenerateDocumentHash([]byte("plain_text")), out.Artifact.SHA256)
	assert.Len(t, out.Artifact.SHA256, 64)
	assert.Equal(t, []string{"alice@x.io", "bob@y.io"}, out.Artifact.RemovedTerms)
}

func TestApplicator_NoMatches(t *testing.T) {
	a := NewApplicator(map[DocumentKind]Chain{DocumentText: {&stubStrategy{name: "plain_text"}}}, nil)
	req := sampleRequest()
	req.Matches = nil

	_, err := a.Apply(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestApplicator_UsesTextChainForUnconfiguredKinds(t *testing.T) {
	text := &stubStrategy{name: "plain_text", kind: ArtifactText}
	a := NewApplicator(map[DocumentKind]Chain{DocumentText: {text}}, nil)

	out, err := a.Apply(sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, text.calls)
	assert.Equal(t, "plain_text", out.Artifact.Strategy)
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		in   string
		kind ArtifactKind
		want string
	}{
		{"contract.docx", ArtifactPDF, "Redacted_contract.pdf"},
		{"/a/b/notes.txt", ArtifactText, "Redacted_notes.txt"},
		{"scan.pdf", ArtifactText, "Redacted_scan.txt"},
		{"", ArtifactText, "Redacted_document.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtifactName(tt.in, tt.kind))
		})
	}
}
