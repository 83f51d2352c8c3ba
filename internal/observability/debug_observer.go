// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DebugObserver writes a human-readable trace of processing steps for --debug.
// Steps nest; each open step indents the lines written inside it.
type DebugObserver struct {
	*StandardObserver

	mu     sync.Mutex
	writer io.Writer
	depth  int
}

// NewDebugObserver creates a debug observer writing its trace to writer
func NewDebugObserver(writer io.Writer, logger *zap.Logger) *DebugObserver {
	d := &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, logger),
		writer:           writer,
	}
	d.StandardObserver.DebugObserver = d
	return d
}

func (d *DebugObserver) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.writer, strings.Repeat("  ", d.depth)+format+"\n", args...)
}

// StartStep opens a step and returns the function that closes it
func (d *DebugObserver) StartStep(component, step, filePath string) func(success bool, details string) {
	start := time.Now()

	d.mu.Lock()
	d.printf("+ %s/%s %s", component, step, filePath)
	d.depth++
	d.mu.Unlock()

	return func(success bool, details string) {
		status := "ok"
		if !success {
			status = "FAILED"
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.depth > 0 {
			d.depth--
		}
		d.printf("- %s/%s %s in %dms %s", component, step, status, time.Since(start).Milliseconds(), details)
	}
}

// LogDetail writes a free-form line inside the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.printf("  %s: %s", component, detail)
}

// LogMetric writes a named value inside the current step
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.printf("  %s.%s = %v", component, metric, value)
}
