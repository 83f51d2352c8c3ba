// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level         ObservabilityLevel
	logger        *zap.Logger
	requestID     string
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component. A nil logger disables output.
func NewStandardObserver(level ObservabilityLevel, logger *zap.Logger) *StandardObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardObserver{
		level:     level,
		logger:    logger,
		requestID: "req-" + uuid.NewString(),
	}
}

// NewNopObserver returns an observer that discards everything
func NewNopObserver() *StandardObserver {
	return NewStandardObserver(ObservabilityOff, nil)
}

// Logger returns the underlying zap logger
func (o *StandardObserver) Logger() *zap.Logger {
	return o.logger
}

// RequestID returns the identifier attached to every entry from this observer
func (o *StandardObserver) RequestID() string {
	return o.requestID
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}

	data.RequestID = o.requestID
	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.String("request_id", data.RequestID),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Bool("success", data.Success),
	}
	if data.FilePath != "" {
		fields = append(fields, zap.String("file_path", data.FilePath))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if data.MatchCount > 0 {
		fields = append(fields, zap.Int("match_count", data.MatchCount))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}

	switch {
	case !data.Success:
		o.logger.Warn("operation failed", fields...)
	case o.level == ObservabilityDebug:
		o.logger.Debug("operation", fields...)
	default:
		o.logger.Info("operation", fields...)
	}
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	FilePath   string                 `json:"file_path,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	MatchCount int                    `json:"match_count,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
