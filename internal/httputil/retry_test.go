// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investore/disclosure-engine/pkg/types"
)

// fastPolicy keeps test retries down to milliseconds.
var fastPolicy = RetryPolicy{
	MaxAttempts:     3,
	InitialInterval: 1 * time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func TestNewRetryPolicyDefaults(t *testing.T) {
	p := NewRetryPolicy(types.RetryConfig{})
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.InitialInterval)
	assert.Equal(t, 20*time.Second, p.MaxInterval)

	p = NewRetryPolicy(types.RetryConfig{MaxAttempts: 5, InitialInterval: time.Second, MaxInterval: time.Minute})
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Second, p.InitialInterval)
	assert.Equal(t, time.Minute, p.MaxInterval)
}

func TestDoWithRetryRecoversFromServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), srv.Client(), req, fastPolicy)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestDoWithRetryRetriesTooManyRequests(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), srv.Client(), req, fastPolicy)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 2, attempts)
}

func TestDoWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(context.Background(), srv.Client(), req, fastPolicy)
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoWithRetryNotFoundIsPermanent(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(context.Background(), srv.Client(), req, fastPolicy)
	assert.Error(t, err)
	assert.Equal(t, 1, attempts, "404 must not be retried")
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"name":"BHP Group"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := GetJSON(context.Background(), srv.Client(), srv.URL, "test-agent", fastPolicy, &out)
	require.NoError(t, err)
	assert.Equal(t, "BHP Group", out.Name)
}

func TestGetJSONRetriesMalformedBody(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Write([]byte(`{"name":`))
			return
		}
		w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := GetJSON(context.Background(), srv.Client(), srv.URL, "", fastPolicy, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
	assert.Equal(t, 2, attempts)
}

func TestGetJSONCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := GetJSON(ctx, srv.Client(), srv.URL, "", fastPolicy, &out)
	assert.Error(t, err)
}
