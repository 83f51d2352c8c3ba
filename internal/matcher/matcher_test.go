// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"docredact/internal/detector"
)

func newMatcher() *Matcher {
	return New(detector.DefaultCatalog(), nil)
}

func TestScan_EmailAndPhone(t *testing.T) {
	text := "Contact me at a@b.com or 9876543210"
	res := newMatcher().Scan(text, []string{"email", "phone"}, nil)

	require.Len(t, res.Matches, 2)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "a@b.com", res.Matches[0].Text)
	assert.Equal(t, "EMAIL", res.Matches[0].Type)
	assert.Equal(t, "9876543210", res.Matches[1].Text)
	assert.Equal(t, "[PHONE REDACTED]", res.Matches[1].Replacement)
}

func TestScan_UnknownKeySkipped(t *testing.T) {
	res := newMatcher().Scan("mail a@b.com", []string{"bogus", "EMAIL"}, nil)

	require.Len(t, res.Matches, 1)
	require.Len(t, res.Warnings, 1)
	var unknown *detector.UnknownDetectorError
	assert.True(t, errors.As(res.Warnings[0], &unknown))
}

func TestScan_DuplicateKeysScannedOnce(t *testing.T) {
	res := newMatcher().Scan("a@b.com", []string{"email", "EMAIL"}, nil)
	assert.Len(t, res.Matches, 1)
}

func TestScan_DetectorsBeforeTerms(t *testing.T) {
	terms := []detector.SearchTerm{{Term: "9876543210", CaseSensitive: true}}
	res := newMatcher().Scan("x 9876543210", []string{"PHONE"}, terms)

	require.Len(t, res.Matches, 2)
	assert.Equal(t, "PHONE", res.Matches[0].Type)
	assert.Equal(t, detector.CustomType, res.Matches[1].Type)
	assert.Equal(t, detector.CustomReplacement, res.Matches[1].Replacement)
}

func TestFindTerm(t *testing.T) {
	cases := []struct {
		name string
		text string
		term detector.SearchTerm
		want []string
	}{
		{"case sensitive", "Acme acme ACME", detector.SearchTerm{Term: "acme", CaseSensitive: true}, []string{"acme"}},
		{"case insensitive", "Acme acme ACME", detector.SearchTerm{Term: "acme"}, []string{"Acme", "acme", "ACME"}},
		{"special characters are literal", "cost $5.00 (net) or 5x00", detector.SearchTerm{Term: "$5.00 (net)"}, []string{"$5.00 (net)"}},
		{"dot is not a wildcard", "a.c abc", detector.SearchTerm{Term: "a.c", CaseSensitive: true}, []string{"a.c"}},
		{"non-overlapping", "aaaa", detector.SearchTerm{Term: "aa", CaseSensitive: true}, []string{"aa", "aa"}},
		{"empty term", "abc", detector.SearchTerm{Term: ""}, nil},
		{"unicode fold", "ÉCOLE école", detector.SearchTerm{Term: "école"}, []string{"ÉCOLE", "école"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, loc := range FindTerm(tc.text, tc.term) {
				got = append(got, tc.text[loc[0]:loc[1]])
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScan_MatchesAreValidSpans(t *testing.T) {
	m := newMatcher()
	keys := detector.DefaultCatalog().Keys()

	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z0-9@. \-/:]{0,120}`).Draw(t, "text")
		term := rapid.StringMatching(`[a-z0-9.]{0,4}`).Draw(t, "term")
		cs := rapid.Bool().Draw(t, "cs")

		res := m.Scan(text, keys, []detector.SearchTerm{{Term: term, CaseSensitive: cs}})
		for _, match := range res.Matches {
			if match.Start >= match.End {
				t.Fatalf("empty match %+v", match)
			}
			if !match.Valid(text) {
				t.Fatalf("match %+v does not agree with text %q", match, text)
			}
		}
	})
}
