// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resilience provides retry and circuit breaking for payload delivery.
package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries      int           // retries after the first attempt
	InitialInterval time.Duration // delay before the first retry
	MaxInterval     time.Duration // cap on any single delay, 0 for none
	Multiplier      float64       // growth factor between delays
	MaxElapsedTime  time.Duration // stop retrying after this long, 0 for no limit
	Jitter          bool          // add up to 25% random noise to each delay

	// OnRetry is called before waiting for retry number attempt
	OnRetry func(attempt int, err error, delay time.Duration)
}

// SinkRetryConfig returns retry configuration for payload submission. The
// window is short because a user is waiting on the result.
func SinkRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:      maxRetries,
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     4 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  30 * time.Second,
		Jitter:          true,
	}
}

// delay returns the wait before retry number attempt (1-based):
// InitialInterval * Multiplier^(attempt-1), capped at MaxInterval.
func (c RetryConfig) delay(attempt int) time.Duration {
	d := float64(c.InitialInterval)
	for i := 1; i < attempt; i++ {
		d *= c.Multiplier
	}
	if c.Jitter {
		d += d * 0.25 * rand.Float64()
	}
	if c.MaxInterval > 0 && time.Duration(d) > c.MaxInterval {
		return c.MaxInterval
	}
	return time.Duration(d)
}

// RetryableOperation represents an operation that can be retried.
type RetryableOperation func(ctx context.Context) error

// RetryStats describes how a retried operation went.
type RetryStats struct {
	TotalAttempts   int           `json:"total_attempts"`
	SuccessfulAfter int           `json:"successful_after"` // 0 if failed
	TotalDuration   time.Duration `json:"total_duration"`
	LastError       string        `json:"last_error,omitempty"`
	ErrorTypes      []string      `json:"error_types,omitempty"`
}

// RetryWithStats runs operation until it succeeds, returns an error that is
// not retryable, or the retry budget runs out. The last error is returned.
func RetryWithStats(ctx context.Context, config RetryConfig, operation RetryableOperation) (*RetryStats, error) {
	stats := &RetryStats{}
	start := time.Now()
	defer func() { stats.TotalDuration = time.Since(start) }()

	for attempt := 0; ; attempt++ {
		stats.TotalAttempts++
		err := operation(ctx)
		if err == nil {
			stats.SuccessfulAfter = stats.TotalAttempts
			return stats, nil
		}

		ce := ClassifyError(err)
		stats.LastError = err.Error()
		stats.ErrorTypes = append(stats.ErrorTypes, ce.Type.String())

		if !ce.IsRetryable() || attempt >= config.MaxRetries {
			return stats, err
		}
		if config.MaxElapsedTime > 0 && time.Since(start) >= config.MaxElapsedTime {
			return stats, err
		}

		wait := config.delay(attempt + 1)
		if config.OnRetry != nil {
			config.OnRetry(attempt+1, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return stats, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryWithCircuitBreaker runs each attempt through cb. Once the breaker
// rejects a call there is nothing left to retry.
func RetryWithCircuitBreaker(ctx context.Context, retryConfig RetryConfig, cb *CircuitBreaker, operation RetryableOperation) (*RetryStats, error) {
	return RetryWithStats(ctx, retryConfig, func(ctx context.Context) error {
		err := cb.Execute(ctx, operation)
		if IsCircuitBreakerError(err) {
			return NewPermanentError(err.Error(), err)
		}
		return err
	})
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
