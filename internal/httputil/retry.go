// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP transport shared by the LLM clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// rate-limited responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const (
	defaultMaxRetries = 5

	// statusOverloaded is returned by the Anthropic API when it sheds load.
	statusOverloaded = 529
)

// RetryTransport retries requests that come back with HTTP 429 (Too Many
// Requests) or 529 (Overloaded). The delay starts at RetryBaseDelay and
// doubles each attempt unless the server sends a Retry-After header in
// seconds, which takes precedence.
//
// Timeout bounds each attempt separately, from sending the request until the
// response body is closed; backoff waits are not counted. The request
// context bounds the whole exchange.
//
// When MaxRetries is 0 the default (5) is used. Requests with a body are only
// retried when the body can be replayed through req.GetBody. If the request
// context is cancelled during a wait the context error is returned. After
// exhausting retries the last response is returned so the caller can inspect
// it.
type RetryTransport struct {
	// Base performs the actual requests. nil means http.DefaultTransport.
	Base http.RoundTripper

	MaxRetries int

	// Timeout limits a single attempt. Zero means no per-attempt limit.
	Timeout time.Duration

	// Log receives one entry per retry. nil discards them.
	Log logrus.FieldLogger
}

// NewClient returns an *http.Client whose transport retries rate-limited
// requests. timeout applies to each attempt, not to the retries as a whole.
func NewClient(timeout time.Duration, maxRetries int, log logrus.FieldLogger) *http.Client {
	return &http.Client{
		Transport: &RetryTransport{MaxRetries: maxRetries, Timeout: timeout, Log: log},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxRetries := t.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		ctx, cancel := req.Context(), context.CancelFunc(func() {})
		if t.Timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		}
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.Body != nil {
			body, err := req.GetBody()
			if err != nil {
				cancel()
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := base.RoundTrip(attemptReq)
		if err != nil {
			cancel()
			return nil, err
		}

		// Final response: not rate limited, retries exhausted, or a body that
		// cannot be replayed.
		if !retryable(resp.StatusCode) || attempt >= maxRetries || (req.Body != nil && req.GetBody == nil) {
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}

		backoff := retryAfter(resp)
		if backoff <= 0 {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		cancel()

		if t.Log != nil {
			t.Log.WithFields(logrus.Fields{
				"status":  resp.StatusCode,
				"attempt": attempt + 1,
				"max":     maxRetries,
				"backoff": backoff,
			}).Warn("rate limited, retrying")
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
	}
}

// cancelOnClose releases an attempt's timeout once the caller is done with
// the response body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == statusOverloaded
}

// retryAfter parses a Retry-After header given in whole seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
