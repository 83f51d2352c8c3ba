// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"docredact/internal/detector"
)

// RedactionAuditLog contains audit information about one redaction session.
// It never records matched text, only types, offsets and counts.
type RedactionAuditLog struct {
	// DocumentID is a unique identifier for this document
	DocumentID string `json:"document_id"`

	// RedactionTimestamp is when the redaction was performed
	RedactionTimestamp time.Time `json:"redaction_timestamp"`

	// ToolVersion is the version of docredact that performed the redaction
	ToolVersion string `json:"tool_version"`

	OriginalPath string `json:"original_path"`
	RedactedPath string `json:"redacted_path,omitempty"`

	// OriginalFileHash is a hash of the original document for integrity verification
	OriginalFileHash string `json:"original_file_hash"`

	// RedactedFileHash is a hash of the redacted artifact for integrity verification
	RedactedFileHash string `json:"redacted_file_hash,omitempty"`

	RedactionSummary AuditSummary `json:"redaction_summary"`

	ContentRedactions []ContentRedaction `json:"content_redactions"`
}

// AuditSummary contains summary statistics about redactions performed
type AuditSummary struct {
	TotalRedactions int            `json:"total_redactions"`
	DataTypes       []string       `json:"data_types"`
	TypeCounts      map[string]int `json:"type_counts"`
	RegionCount     int            `json:"region_count"`

	// Strategy is the artifact strategy that succeeded
	Strategy string `json:"strategy"`

	// Fallbacks lists "strategy: cause" for every strategy that failed first
	Fallbacks []string `json:"fallbacks,omitempty"`

	ArtifactKind   string        `json:"artifact_kind"`
	PageCount      int           `json:"page_count,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// ContentRedaction represents audit information for a single redacted span
type ContentRedaction struct {
	// ID is a unique identifier for this redaction
	ID string `json:"id"`

	DataType     string `json:"data_type"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	RedactedText string `json:"redacted_text"`
}

// NewRedactionAuditLog creates a new RedactionAuditLog with a fresh document id
func NewRedactionAuditLog(originalPath, toolVersion string, original []byte) *RedactionAuditLog {
	return &RedactionAuditLog{
		DocumentID:         uuid.NewString(),
		RedactionTimestamp: time.Now().UTC(),
		ToolVersion:        toolVersion,
		OriginalPath:       originalPath,
		OriginalFileHash:   GenerateDocumentHash(original),
		RedactionSummary: AuditSummary{
			DataTypes:  []string{},
			TypeCounts: map[string]int{},
		},
		ContentRedactions: make([]ContentRedaction, 0),
	}
}

// RecordMatches adds one content redaction per match and updates the counts
func (ri *RedactionAuditLog) RecordMatches(matches []detector.Match) {
	for _, m := range matches {
		ri.ContentRedactions = append(ri.ContentRedactions, ContentRedaction{
			ID:           fmt.Sprintf("%s-%d", shortID(ri.DocumentID), len(ri.ContentRedactions)+1),
			DataType:     m.Type,
			Start:        m.Start,
			End:          m.End,
			RedactedText: m.Replacement,
		})
		ri.RedactionSummary.TotalRedactions++
		if ri.RedactionSummary.TypeCounts[m.Type] == 0 {
			ri.RedactionSummary.DataTypes = append(ri.RedactionSummary.DataTypes, m.Type)
		}
		ri.RedactionSummary.TypeCounts[m.Type]++
	}
	sort.Strings(ri.RedactionSummary.DataTypes)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RecordOutcome stores the artifact digest, strategy and fallbacks of a chain run
func (ri *RedactionAuditLog) RecordOutcome(outcome *Outcome, elapsed time.Duration) {
	ri.RedactionSummary.ProcessingTime = elapsed
	if outcome == nil {
		return
	}
	for _, f := range outcome.Fallbacks {
		ri.RedactionSummary.Fallbacks = append(ri.RedactionSummary.Fallbacks, f.Error())
	}
	if a := outcome.Artifact; a != nil {
		ri.RedactedFileHash = a.SHA256
		ri.RedactionSummary.Strategy = a.Strategy
		ri.RedactionSummary.ArtifactKind = string(a.Kind)
		ri.RedactionSummary.PageCount = a.PageCount
	}
}

// SetRegionCount records how many explicit regions accompanied the request
func (ri *RedactionAuditLog) SetRegionCount(n int) {
	ri.RedactionSummary.RegionCount = n
}

// SetRedactedPath records where the artifact was written
func (ri *RedactionAuditLog) SetRedactedPath(path string) {
	ri.RedactedPath = path
}

// GetContentRedactionsByDataType returns all content redactions for a specific data type
func (ri *RedactionAuditLog) GetContentRedactionsByDataType(dataType string) []ContentRedaction {
	var result []ContentRedaction
	for _, redaction := range ri.ContentRedactions {
		if redaction.DataType == dataType {
			result = append(result, redaction)
		}
	}
	return result
}

// ToJSON converts the audit log to indented JSON
func (ri *RedactionAuditLog) ToJSON() ([]byte, error) {
	return json.MarshalIndent(ri, "", "  ")
}

// FromJSON parses an audit log
func FromJSON(data []byte) (*RedactionAuditLog, error) {
	var log RedactionAuditLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to unmarshal redaction audit log: %w", err)
	}
	return &log, nil
}

// Validate validates the audit log for completeness and consistency
func (ri *RedactionAuditLog) Validate() error {
	if ri.DocumentID == "" {
		return fmt.Errorf("document_id cannot be empty")
	}
	if ri.OriginalPath == "" {
		return fmt.Errorf("original_path cannot be empty")
	}
	if ri.RedactionTimestamp.IsZero() {
		return fmt.Errorf("redaction_timestamp cannot be zero")
	}
	for i, redaction := range ri.ContentRedactions {
		if redaction.DataType == "" {
			return fmt.Errorf("content_redactions[%d].data_type cannot be empty", i)
		}
		if redaction.Start < 0 || redaction.End <= redaction.Start {
			return fmt.Errorf("content_redactions[%d] has an invalid span [%d, %d)", i, redaction.Start, redaction.End)
		}
	}
	return nil
}
