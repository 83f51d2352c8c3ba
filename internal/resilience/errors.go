// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType groups delivery failures by how a caller should react to them
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypePermanent
	ErrorTypeTimeout
	ErrorTypeRateLimit
	ErrorTypeServiceUnavailable
	ErrorTypeInvalidInput
	ErrorTypeResourceNotFound
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:            "Unknown",
	ErrorTypeTransient:          "Transient",
	ErrorTypePermanent:          "Permanent",
	ErrorTypeTimeout:            "Timeout",
	ErrorTypeRateLimit:          "RateLimit",
	ErrorTypeServiceUnavailable: "ServiceUnavailable",
	ErrorTypeInvalidInput:       "InvalidInput",
	ErrorTypeResourceNotFound:   "ResourceNotFound",
}

func (et ErrorType) String() string {
	if name, ok := errorTypeNames[et]; ok {
		return name
	}
	return fmt.Sprintf("ErrorType(%d)", int(et))
}

// retryable reports whether failures of this type may succeed on a later attempt
func (et ErrorType) retryable() bool {
	switch et {
	case ErrorTypeTransient, ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeServiceUnavailable:
		return true
	}
	return false
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" || e.Original == nil {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

func classified(err error, typ ErrorType, prefix string) *ClassifiedError {
	return &ClassifiedError{
		Original:  err,
		Type:      typ,
		Message:   fmt.Sprintf("%s: %v", prefix, err),
		Retryable: typ.retryable(),
	}
}

// messageRules match failures that sinks report only in an error string.
// Earlier rules win.
var messageRules = []struct {
	needles []string
	typ     ErrorType
	prefix  string
}{
	{[]string{"throttling", "rate limit"}, ErrorTypeRateLimit, "Rate limit exceeded"},
	{[]string{"service unavailable", "internal server error"}, ErrorTypeServiceUnavailable, "Service unavailable"},
	{[]string{"access denied", "unauthorized", "invalid credentials", "forbidden"}, ErrorTypePermanent, "Sink rejected credentials"},
	{[]string{"not found", "does not exist"}, ErrorTypeResourceNotFound, "Sink endpoint not found"},
	{[]string{"invalid", "malformed", "bad request"}, ErrorTypeInvalidInput, "Sink rejected payload"},
}

// ClassifyError categorizes a delivery error. Already classified errors are
// returned as is.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr)
	}
	if isNetworkError(err) {
		return classified(err, ErrorTypeTransient, "Network error")
	}
	if isTimeoutError(err) {
		return classified(err, ErrorTypeTimeout, "Timeout error")
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range messageRules {
		for _, needle := range rule.needles {
			if strings.Contains(msg, needle) {
				return classified(err, rule.typ, rule.prefix)
			}
		}
	}
	return classified(err, ErrorTypeUnknown, "Unknown error")
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EHOSTUNREACH, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func isTimeoutError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}

// HTTPStatusError reports a non-2xx response from a remote sink
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected response status %s", e.Status)
}

func classifyStatus(e *HTTPStatusError) *ClassifiedError {
	switch code := e.StatusCode; {
	case code == http.StatusTooManyRequests:
		return classified(e, ErrorTypeRateLimit, "Rate limit exceeded")
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return classified(e, ErrorTypeTimeout, "Timeout error")
	case code >= 500:
		return classified(e, ErrorTypeServiceUnavailable, "Service unavailable")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return classified(e, ErrorTypePermanent, "Sink rejected credentials")
	case code == http.StatusNotFound:
		return classified(e, ErrorTypeResourceNotFound, "Sink endpoint not found")
	default:
		return classified(e, ErrorTypeInvalidInput, "Sink rejected payload")
	}
}

// NewTransientError creates an error that is retried
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{Original: cause, Type: ErrorTypeTransient, Message: message, Retryable: true}
}

// NewPermanentError creates an error that stops retries immediately
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{Original: cause, Type: ErrorTypePermanent, Message: message}
}
