// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// CircuitBreakerState is the state of a CircuitBreaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	}
	return "UNKNOWN"
}

// CircuitBreakerConfig configures a CircuitBreaker.
//
// After FailureThreshold consecutive failures the breaker opens and rejects
// calls for Cooldown. It then lets up to Probes calls through; that many
// successes close it again and any failure reopens it.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	Cooldown         time.Duration
	Probes           int

	// IsFailure decides which errors count against the breaker
	IsFailure func(error) bool
	// OnStateChange is called with the breaker lock held
	OnStateChange func(name string, from, to CircuitBreakerState)
}

// DefaultCircuitBreakerConfig counts only retryable failures. A sink that
// rejects the payload is answering, so it does not trip the breaker.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		Probes:           3,
		IsFailure:        IsRetryable,
	}
}

// CircuitBreaker stops calls to a destination that keeps failing
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu        sync.Mutex
	state     CircuitBreakerState
	failures  int
	probes    int // calls admitted since half-open
	successes int // successful probes
	openedAt  time.Time
	now       func() time.Time
}

// NewCircuitBreaker creates a closed breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 1
	}
	if config.Probes <= 0 {
		config.Probes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	return &CircuitBreaker{config: config, now: time.Now}
}

// Execute runs fn unless the breaker is open
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		waited := cb.now().Sub(cb.openedAt)
		if waited < cb.config.Cooldown {
			return &CircuitBreakerError{
				Name:  cb.config.Name,
				State: cb.state,
				Message: fmt.Sprintf("%s is unavailable after %d failures, retry in %v",
					cb.config.Name, cb.failures, (cb.config.Cooldown - waited).Round(time.Second)),
			}
		}
		cb.transition(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.probes >= cb.config.Probes {
			return &CircuitBreakerError{
				Name:    cb.config.Name,
				State:   cb.state,
				Message: fmt.Sprintf("%s is being probed, %d calls already in flight", cb.config.Name, cb.probes),
			}
		}
		cb.probes++
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.config.IsFailure(err) {
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
			cb.openedAt = cb.now()
			cb.transition(StateOpen)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.Probes {
			cb.failures = 0
			cb.transition(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) transition(to CircuitBreakerState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.probes, cb.successes = 0, 0
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// CircuitBreakerError is returned when the breaker rejects a call
type CircuitBreakerError struct {
	Name    string
	State   CircuitBreakerState
	Message string
}

func (e *CircuitBreakerError) Error() string {
	return e.Message
}

// IsCircuitBreakerError reports whether err was caused by a rejecting breaker
func IsCircuitBreakerError(err error) bool {
	var cbErr *CircuitBreakerError
	return errors.As(err, &cbErr)
}
