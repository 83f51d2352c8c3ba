// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartTiming_EmitsStructuredEntry(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := NewStandardObserver(ObservabilityMetrics, zap.New(core))

	obs.StartTiming("matcher", "scan", "a.txt")(true, map[string]interface{}{"raw_matches": 3})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "matcher", fields["component"])
	assert.Equal(t, "scan", fields["operation"])
	assert.Equal(t, "a.txt", fields["file_path"])
	assert.Equal(t, obs.RequestID(), fields["request_id"])
}

func TestLogOperation_FailureIsWarning(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := NewStandardObserver(ObservabilityMetrics, zap.New(core))

	obs.StartTiming("pdf_redactor", "stamp", "")(false, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestLogOperation_OffIsSilent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := NewStandardObserver(ObservabilityOff, zap.New(core))

	obs.StartTiming("x", "y", "")(true, nil)
	assert.Equal(t, 0, logs.Len())
}

func TestNewLogger_RejectsBadLevel(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("hello", zap.String("k", "v"))
	assert.True(t, strings.Contains(buf.String(), `"k":"v"`))
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf, nil)

	done := d.StartStep("engine", "scan", "doc.pdf")
	d.LogDetail("engine", "2 detectors")
	done(true, "")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "+ engine/scan doc.pdf", lines[0])
	assert.Equal(t, "    engine: 2 detectors", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "- engine/scan ok in "), lines[2])
	assert.Same(t, d, d.StandardObserver.DebugObserver)
}

func TestDebugObserver_NestedStepsIndent(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf, nil)

	outer := d.StartStep("engine", "redact", "a.pdf")
	inner := d.StartStep("pdf_redactor", "pdf_overlay", "a.pdf")
	d.LogMetric("pdf_redactor", "boxes", 4)
	inner(false, "stamp")
	outer(true, "")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "  + pdf_redactor/pdf_overlay a.pdf", lines[1])
	assert.Equal(t, "      pdf_redactor.boxes = 4", lines[2])
	assert.Contains(t, lines[3], "  - pdf_redactor/pdf_overlay FAILED")
	assert.True(t, strings.HasPrefix(lines[4], "- engine/redact ok"))
}

type namedComponent struct{ name string }

func (n namedComponent) GetComponentName() string { return n.name }

func TestComponentName(t *testing.T) {
	assert.Equal(t, "pdf_redactor", ComponentName(namedComponent{"pdf_redactor"}, "fallback"))
	assert.Equal(t, "fallback", ComponentName(namedComponent{}, "fallback"))
	assert.Equal(t, "fallback", ComponentName(42, "fallback"))
}
