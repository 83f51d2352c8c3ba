// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/resilience"
)

func TestHTTPSink_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer t0ken", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(HTTPSinkConfig{
		URL:        srv.URL,
		Timeout:    time.Second,
		MaxRetries: 2,
		Headers:    map[string]string{"Authorization": "Bearer t0ken"},
	}, nil)
	require.NoError(t, err)

	p, err := Build(validInput())
	require.NoError(t, err)

	receipt, err := Send(context.Background(), sink, p)
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.Attempts)
	assert.Equal(t, http.StatusCreated, receipt.StatusCode)
	assert.Equal(t, "file-123", received["file_id"])
	assert.Equal(t, "correct horse", received["passphrase"])

	assert.True(t, p.Passphrase.IsEmpty(), "passphrase must be wiped after submission")
}

func TestHTTPSink_PermanentFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(HTTPSinkConfig{URL: srv.URL, MaxRetries: 3}, nil)
	require.NoError(t, err)

	p, err := Build(validInput())
	require.NoError(t, err)

	receipt, err := Send(context.Background(), sink, p)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusForbidden, receipt.StatusCode)
	assert.True(t, p.Passphrase.IsEmpty())
}

func TestHTTPSink_UnreachableSinkIsRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	sink, err := NewHTTPSink(HTTPSinkConfig{URL: url, Timeout: time.Second, MaxRetries: 1}, nil)
	require.NoError(t, err)

	p, err := Build(validInput())
	require.NoError(t, err)

	receipt, err := Send(context.Background(), sink, p)
	require.Error(t, err)
	assert.Equal(t, 2, receipt.Attempts)
	assert.Equal(t, 0, receipt.StatusCode)

	var ce *resilience.ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, resilience.ErrorTypeTransient, ce.Type)
	assert.Contains(t, err.Error(), "failed to reach sink")
	assert.True(t, p.Passphrase.IsEmpty())
}

func TestHTTPSink_CancelledContextIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	sink, err := NewHTTPSink(HTTPSinkConfig{URL: srv.URL, MaxRetries: 3}, nil)
	require.NoError(t, err)

	p, err := Build(validInput())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	receipt, err := Send(ctx, sink, p)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, receipt.Attempts)
}

func TestSend_RejectsDiscardedPayload(t *testing.T) {
	p, err := Build(validInput())
	require.NoError(t, err)
	p.Discard()

	_, err = Send(context.Background(), &FileSink{Path: filepath.Join(t.TempDir(), "p.json")}, p)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "payload.json")
	p, err := Build(validInput())
	require.NoError(t, err)

	receipt, err := Send(context.Background(), &FileSink{Path: path}, p)
	require.NoError(t, err)
	assert.Equal(t, path, receipt.Destination)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "file-123", wire["file_id"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewHTTPSink_RequiresURL(t *testing.T) {
	_, err := NewHTTPSink(HTTPSinkConfig{}, nil)
	assert.Error(t, err)
}
