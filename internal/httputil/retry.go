// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/investore/disclosure-engine/pkg/types"
)

// Defaults for RetryPolicy when the config leaves fields zero.
const (
	defaultMaxAttempts     = 3
	defaultInitialInterval = 2 * time.Second
	defaultMaxInterval     = 20 * time.Second
)

// RetryPolicy is an explicit, injectable retry policy for upstream
// calls: a fixed attempt cap over an exponential backoff curve with
// jitter. Tests shrink the intervals instead of stubbing time.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewRetryPolicy builds a policy from config, applying defaults for
// zero fields.
func NewRetryPolicy(cfg types.RetryConfig) RetryPolicy {
	p := RetryPolicy{
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.InitialInterval,
		MaxInterval:     cfg.MaxInterval,
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaultInitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = defaultMaxInterval
	}
	return p
}

// backOff translates the policy into a context-aware backoff schedule.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1)), ctx)
}

// DoWithRetry executes an HTTP request, retrying network errors, HTTP
// 429 and 5xx responses per the policy. Other non-2xx statuses are
// permanent and fail immediately. The caller owns the returned body.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	var resp *http.Response

	op := func() error {
		r, err := client.Do(req.Clone(ctx))
		if err != nil {
			return err
		}
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			// Drain and close before the next attempt.
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			return fmt.Errorf("HTTP %d from %s", r.StatusCode, req.URL)
		}
		if r.StatusCode < 200 || r.StatusCode > 299 {
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			return backoff.Permanent(fmt.Errorf("HTTP %d from %s", r.StatusCode, req.URL))
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(op, policy.backOff(ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetJSON fetches url and decodes the JSON response into out, retrying
// per the policy. Malformed JSON counts as a transient upstream
// failure and is retried like a 5xx.
func GetJSON(ctx context.Context, client *http.Client, url, userAgent string, policy RetryPolicy, out any) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("HTTP %d from %s", resp.StatusCode, url))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response from %s: %w", url, err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing response from %s: %w", url, err)
		}
		return nil
	}

	return backoff.Retry(op, policy.backOff(ctx))
}
