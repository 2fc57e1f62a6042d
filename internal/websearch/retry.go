// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pdiddy/credible-research/internal/httputil"
	"github.com/pdiddy/credible-research/pkg/types"
)

// Retrying wraps a Provider and retries failed calls with exponential
// backoff. Empty result sets are answers, not failures, and are returned
// as-is. Permanent errors (missing key, 4xx, cancelled context) are
// returned immediately, as are 429 and 503: the provider client has
// already backed off on those through httputil.DoWithRetry.
type Retrying struct {
	Next       Provider
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

// NewRetrying wraps next. maxRetries <= 0 disables retries.
func NewRetrying(next Provider, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Retrying {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrying{Next: next, MaxRetries: maxRetries, BaseDelay: baseDelay, Logger: logger}
}

// Search implements Searcher.
func (r *Retrying) Search(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	var out []types.SearchResult
	err := r.do(ctx, "search", query, func() error {
		var err error
		out, err = r.Next.Search(ctx, query, n)
		return err
	})
	return out, err
}

// News implements NewsSearcher.
func (r *Retrying) News(ctx context.Context, query string, n int) ([]types.NewsResult, error) {
	var out []types.NewsResult
	err := r.do(ctx, "news", query, func() error {
		var err error
		out, err = r.Next.News(ctx, query, n)
		return err
	})
	return out, err
}

func (r *Retrying) do(ctx context.Context, op, query string, call func() error) error {
	delay := r.BaseDelay
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil {
			return nil
		}
		if permanent(err) || attempt >= r.MaxRetries {
			if attempt > 0 {
				r.Logger.Error("search provider failed after retries",
					"op", op, "query", query, "attempts", attempt+1, "err", err)
			}
			return err
		}

		r.Logger.Warn("search provider call failed, retrying",
			"op", op, "query", query, "attempt", attempt+1, "max_retries", r.MaxRetries, "delay", delay, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func permanent(err error) bool {
	if errors.Is(err, ErrMissingAPIKey) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.Temporary() || httputil.Retryable(se.Code)
	}
	return false
}
