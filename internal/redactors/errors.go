// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoMatches is matched by errors.Is for every NoMatchesError
var ErrNoMatches = errors.New("no matches to redact")

// NoMatchesError reports a redaction request with an empty canonical set
type NoMatchesError struct {
	FileName string
}

func (e *NoMatchesError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("apply: no matches to redact in %s", e.FileName)
	}
	return "apply: no matches to redact"
}

// Is makes errors.Is(err, ErrNoMatches) succeed
func (e *NoMatchesError) Is(target error) bool {
	return target == ErrNoMatches
}

// ArtifactGenerationError reports one strategy failing to produce an artifact.
// A chain recovers from it by moving on to the next strategy.
type ArtifactGenerationError struct {
	Strategy string
	Stage    string
	Cause    error
}

func (e *ArtifactGenerationError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Strategy, e.Stage, e.Cause)
}

func (e *ArtifactGenerationError) Unwrap() error {
	return e.Cause
}

// NewArtifactGenerationError wraps cause with the strategy and stage it came from
func NewArtifactGenerationError(strategy, stage string, cause error) *ArtifactGenerationError {
	return &ArtifactGenerationError{Strategy: strategy, Stage: stage, Cause: cause}
}

// RedactionErrorType defines the type of redaction error
type RedactionErrorType int

const (
	// ErrorDocumentProcessing indicates a document processing failure
	ErrorDocumentProcessing RedactionErrorType = iota

	// ErrorFileSystem indicates a file system operation failure
	ErrorFileSystem

	// ErrorConfiguration indicates a configuration error
	ErrorConfiguration

	// ErrorValidation indicates a validation error
	ErrorValidation
)

// String returns the string representation of the error type
func (ret RedactionErrorType) String() string {
	switch ret {
	case ErrorDocumentProcessing:
		return "document_processing"
	case ErrorFileSystem:
		return "file_system"
	case ErrorConfiguration:
		return "configuration"
	case ErrorValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// RedactionError is the envelope for errors surfaced to callers. It names
// the stage and component so a user-facing message can be rendered from it.
type RedactionError struct {
	Type      RedactionErrorType
	Stage     string
	Message   string
	FilePath  string
	Component string
	Timestamp time.Time
	Cause     error
}

// Error implements the error interface
func (re *RedactionError) Error() string {
	if re.FilePath != "" {
		return fmt.Sprintf("[%s] %s: %s (file: %s, component: %s): %s",
			re.Type.String(), re.Stage, re.Message, re.FilePath, re.Component, re.getCauseMessage())
	}
	return fmt.Sprintf("[%s] %s: %s (component: %s): %s",
		re.Type.String(), re.Stage, re.Message, re.Component, re.getCauseMessage())
}

func (re *RedactionError) getCauseMessage() string {
	if re.Cause != nil {
		return re.Cause.Error()
	}
	return ""
}

// Unwrap returns the underlying error for error unwrapping
func (re *RedactionError) Unwrap() error {
	return re.Cause
}

// NewRedactionError creates a new RedactionError
func NewRedactionError(errorType RedactionErrorType, stage, message, filePath, component string, cause error) *RedactionError {
	return &RedactionError{
		Type:      errorType,
		Stage:     stage,
		Message:   message,
		FilePath:  filePath,
		Component: component,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}
