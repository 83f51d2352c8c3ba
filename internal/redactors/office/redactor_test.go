// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package office

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/detector"
	"docredact/internal/redactors"
	"docredact/internal/redactors/plaintext"
)

type fakeRenderer struct {
	err   error
	pages [][]string
}

func (f *fakeRenderer) Measure(s string) float64 { return runeWidth(s) * 6 }

func (f *fakeRenderer) Render(pages [][]string) ([]byte, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.pages = pages
	return []byte("%PDF-fake"), len(pages), nil
}

func docxRequest(content string) *redactors.Request {
	idx := strings.Index(content, "555-123-4567")
	return &redactors.Request{
		FileName: "letter.docx",
		Kind:     redactors.DocumentDOCX,
		Source:   []byte("PK\x03\x04"),
		Content:  content,
		Matches: []detector.Match{
			{Text: "555-123-4567", Start: idx, End: idx + 12, Type: "PHONE", Replacement: "[PHONE REDACTED]"},
		},
	}
}

func TestOfficeRedactor_RendersSubstitutedText(t *testing.T) {
	r := &fakeRenderer{}
	art, err := NewOfficeRedactor(DefaultPageSetup(), r, nil).Redact(docxRequest("Dear Bob,\ncall 555-123-4567 today."))
	require.NoError(t, err)

	assert.Equal(t, redactors.ArtifactPDF, art.Kind)
	assert.Equal(t, "Redacted_letter.pdf", art.Name)
	assert.Equal(t, 1, art.PageCount)
	assert.Equal(t, [][]string{{"Dear Bob,", "call [PHONE REDACTED] today."}}, r.pages)
}

func TestOfficeRedactor_BadSetup(t *testing.T) {
	setup := DefaultPageSetup()
	setup.Margin = setup.Width

	_, err := NewOfficeRedactor(setup, &fakeRenderer{}, nil).Redact(docxRequest("x 555-123-4567"))
	var gen *redactors.ArtifactGenerationError
	require.ErrorAs(t, err, &gen)
	assert.Equal(t, "layout", gen.Stage)
}

func TestChain_RenderFailureFallsBackToText(t *testing.T) {
	chain := redactors.Chain{
		NewOfficeRedactor(DefaultPageSetup(), &fakeRenderer{err: errors.New("font missing")}, nil),
		plaintext.NewPlainTextRedactor(nil),
	}
	out, err := chain.Run(docxRequest("call 555-123-4567"), nil)
	require.NoError(t, err)

	assert.Equal(t, redactors.ArtifactText, out.Artifact.Kind)
	assert.Equal(t, "Redacted_letter.txt", out.Artifact.Name)
	assert.Equal(t, "call [PHONE REDACTED]", string(out.Artifact.Data))
	require.Len(t, out.Fallbacks, 1)
	assert.Equal(t, "render", out.Fallbacks[0].Stage)
}

func TestFPDFRenderer_PaginatesLongText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		b.WriteString("Line of ordinary text with a number 555-123-4567 in it.\n")
	}

	art, err := NewOfficeRedactor(DefaultPageSetup(), nil, nil).Redact(docxRequest(b.String()))
	require.NoError(t, err)

	assert.Greater(t, art.PageCount, 1)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF-")))
}
