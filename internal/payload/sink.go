// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"docredact/internal/observability"
	"docredact/internal/resilience"
)

// Sink receives confirmed payloads
type Sink interface {
	Submit(ctx context.Context, p *RedactionPayload) (*Receipt, error)
}

// Receipt describes a completed submission
type Receipt struct {
	Destination string
	Attempts    int
	StatusCode  int
	Duration    time.Duration
}

// Send submits p and wipes its passphrase whatever the outcome
func Send(ctx context.Context, sink Sink, p *RedactionPayload) (*Receipt, error) {
	defer p.Discard()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return sink.Submit(ctx, p)
}

// HTTPSinkConfig configures an HTTPSink
type HTTPSinkConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int

	// Headers are added to every request, e.g. an authorization token
	Headers map[string]string
}

// HTTPSink POSTs payloads as JSON with retry and a circuit breaker
type HTTPSink struct {
	config   HTTPSinkConfig
	client   *http.Client
	breaker  *resilience.CircuitBreaker
	retry    resilience.RetryConfig
	observer *observability.StandardObserver
}

// NewHTTPSink creates a new HTTPSink
func NewHTTPSink(config HTTPSinkConfig, observer *observability.StandardObserver) (*HTTPSink, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("sink url cannot be empty")
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if observer == nil {
		observer = observability.NewNopObserver()
	}

	retry := resilience.SinkRetryConfig(config.MaxRetries)
	retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		observer.StartTiming("http_sink", "retry", config.URL)(false, map[string]interface{}{
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
	}

	return &HTTPSink{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		breaker:  resilience.NewCircuitBreaker(breakerConfig(config.URL, observer)),
		retry:    retry,
		observer: observer,
	}, nil
}

// Submit implements Sink
func (s *HTTPSink) Submit(ctx context.Context, p *RedactionPayload) (*Receipt, error) {
	finishTiming := s.observer.StartTiming("http_sink", "submit", s.config.URL)

	body, err := json.Marshal(p)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	// The encoded body holds the passphrase
	defer clear(body)

	receipt := &Receipt{Destination: s.config.URL}
	stats, err := resilience.RetryWithCircuitBreaker(ctx, s.retry, s.breaker, func(ctx context.Context) error {
		status, err := s.post(ctx, body)
		receipt.StatusCode = status
		return err
	})
	receipt.Attempts = stats.TotalAttempts
	receipt.Duration = stats.TotalDuration

	if err != nil {
		finishTiming(false, map[string]interface{}{
			"attempts": stats.TotalAttempts,
			"circuit":  s.breaker.State().String(),
			"error":    err.Error(),
		})
		return receipt, fmt.Errorf("failed to submit payload to %s: %w", s.config.URL, err)
	}

	finishTiming(true, map[string]interface{}{
		"attempts":      stats.TotalAttempts,
		"status":        receipt.StatusCode,
		"matched_texts": len(p.MatchedTexts),
	})
	return receipt, nil
}

func (s *HTTPSink) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, resilience.NewPermanentError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return 0, resilience.NewTransientError("failed to reach sink: "+err.Error(), err)
		}
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &resilience.HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.StatusCode, nil
}

func breakerConfig(url string, observer *observability.StandardObserver) resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig("payload sink " + url)
	cfg.OnStateChange = func(name string, from, to resilience.CircuitBreakerState) {
		observer.Logger().Warn("payload sink circuit changed state",
			zap.String("sink", url),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}
	return cfg
}

// FileSink writes the payload JSON to a file readable only by its owner
type FileSink struct {
	Path string
}

// Submit implements Sink
func (s *FileSink) Submit(ctx context.Context, p *RedactionPayload) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	defer clear(data)

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", s.Path, err)
	}
	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write payload: %w", err)
	}
	return &Receipt{Destination: s.Path, Attempts: 1, Duration: time.Since(start)}, nil
}
