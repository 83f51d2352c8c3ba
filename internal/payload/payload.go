// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package payload builds the record submitted to the persistence service
// after a redaction is confirmed, and delivers it to a sink.
package payload

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"docredact/internal/detector"
	"docredact/internal/redactors"
	"docredact/internal/security"
)

// ValidationError reports a missing or malformed payload field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %s %s", e.Field, e.Reason)
}

// RedactionPayload is constructed once per submission and discarded after.
// The passphrase is held in a SecureString and only revealed when encoded.
type RedactionPayload struct {
	FileID          string
	Passphrase      *security.SecureString
	PatternsApplied []string
	CustomTerms     []string
	Regions         []redactors.Region
	MatchedTexts    []string
}

type wirePayload struct {
	FileID          string             `json:"file_id"`
	Passphrase      string             `json:"passphrase"`
	PatternsApplied []string           `json:"patterns_applied"`
	CustomTerms     []string           `json:"custom_terms"`
	Regions         []redactors.Region `json:"redaction_regions"`
	MatchedTexts    []string           `json:"matched_texts"`
}

// Input is what the caller supplies for one submission. The file identity and
// passphrase are always passed in explicitly.
type Input struct {
	FileID       string
	Passphrase   *security.SecureString
	DetectorKeys []string
	Terms        []detector.SearchTerm
	Regions      []redactors.Region
	MatchedTexts []string
}

// Build validates in and assembles a payload. Detector keys and terms are
// de-duplicated in first-seen order; matched texts are de-duplicated and
// empty strings dropped.
func Build(in Input) (*RedactionPayload, error) {
	if strings.TrimSpace(in.FileID) == "" {
		return nil, &ValidationError{Field: "file_id", Reason: "required"}
	}
	if in.Passphrase.IsEmpty() {
		return nil, &ValidationError{Field: "passphrase", Reason: "required for redaction"}
	}

	terms := make([]string, 0, len(in.Terms))
	for _, t := range in.Terms {
		terms = append(terms, t.Term)
	}

	p := &RedactionPayload{
		FileID:          in.FileID,
		Passphrase:      in.Passphrase,
		PatternsApplied: distinct(in.DetectorKeys),
		CustomTerms:     distinct(terms),
		Regions:         append([]redactors.Region{}, in.Regions...),
		MatchedTexts:    distinct(in.MatchedTexts),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the required fields and every region
func (p *RedactionPayload) Validate() error {
	if p.FileID == "" {
		return &ValidationError{Field: "file_id", Reason: "required"}
	}
	if p.Passphrase.IsEmpty() {
		return &ValidationError{Field: "passphrase", Reason: "required for redaction"}
	}
	for i, r := range p.Regions {
		if r.Page < 0 || r.W <= 0 || r.H <= 0 {
			return &ValidationError{Field: fmt.Sprintf("redaction_regions[%d]", i), Reason: "invalid redaction region data"}
		}
	}
	return nil
}

// MarshalJSON encodes the wire form, revealing the passphrase
func (p *RedactionPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(wirePayload{
		FileID:          p.FileID,
		Passphrase:      p.Passphrase.Reveal(),
		PatternsApplied: nonNil(p.PatternsApplied),
		CustomTerms:     nonNil(p.CustomTerms),
		Regions:         nonNilRegions(p.Regions),
		MatchedTexts:    nonNil(p.MatchedTexts),
	})
}

// Discard wipes the passphrase. The payload cannot be submitted again.
func (p *RedactionPayload) Discard() {
	p.Passphrase.Clear()
}

func distinct(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilRegions(r []redactors.Region) []redactors.Region {
	if r == nil {
		return []redactors.Region{}
	}
	return r
}

// ParseRegions converts loosely typed region objects, as decoded from JSON,
// into regions. Numbers may arrive as JSON numbers or numeric strings; any
// missing or unparseable field rejects the whole list.
func ParseRegions(raw []map[string]any) ([]redactors.Region, error) {
	regions := make([]redactors.Region, 0, len(raw))
	for i, r := range raw {
		region, err := parseRegion(r)
		if err != nil {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("redaction_regions[%d]", i),
				Reason: "invalid redaction region data: " + err.Error(),
			}
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// ParseRegionsJSON decodes a JSON array of regions
func ParseRegionsJSON(data []byte) ([]redactors.Region, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "redaction_regions", Reason: "invalid redaction region data: " + err.Error()}
	}
	return ParseRegions(raw)
}

func parseRegion(r map[string]any) (redactors.Region, error) {
	var region redactors.Region
	page, err := number(r, "page")
	if err != nil {
		return region, err
	}
	if page != math.Trunc(page) || math.Abs(page) > math.MaxInt32 {
		return region, fmt.Errorf("page %v is not a page number", page)
	}
	region.Page = int(page)

	for key, dst := range map[string]*float64{"x": &region.X, "y": &region.Y, "w": &region.W, "h": &region.H} {
		v, err := number(r, key)
		if err != nil {
			return region, err
		}
		*dst = v
	}
	return region, nil
}

func number(r map[string]any, key string) (float64, error) {
	f, err := rawNumber(r, key)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not finite", key)
	}
	return f, nil
}

func rawNumber(r map[string]any, key string) (float64, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%q has type %T", key, v)
	}
}
