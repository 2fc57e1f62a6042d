// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff on throttled
// responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps how long a server-provided Retry-After can make us wait.
var MaxRetryAfter = 60 * time.Second

// DefaultMaxRetries is used when DoWithRetry is given a negative count.
const DefaultMaxRetries = 3

// Retryable reports whether a status code signals a transient server-side
// condition worth retrying: 429 Too Many Requests or 503 Service Unavailable.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries on 429 and 503 with
// exponential backoff: RetryBaseDelay, then double each attempt. A valid
// Retry-After header (in seconds) replaces the computed delay, capped at
// MaxRetryAfter.
//
// maxRetries 0 sends the request once; a negative value selects
// DefaultMaxRetries. Request bodies must be
// replayable (set req.GetBody, as http.NewRequest does for bytes readers).
// If the context is cancelled during a wait the function returns ctx.Err().
// After exhausting retries the last throttled response is returned so the
// caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > MaxRetryAfter {
			d = MaxRetryAfter
		}
		return d
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
