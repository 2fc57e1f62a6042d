// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch is the generic web search collaborator: a query goes in,
// a ranked list of organic hits comes out. Providers implement Searcher;
// wrappers add retries and caching without the caller noticing.
package websearch

import (
	"context"
	"errors"

	"github.com/pdiddy/credible-research/pkg/types"
)

// ErrMissingAPIKey is returned when a provider needs credentials it was not given.
var ErrMissingAPIKey = errors.New("search provider API key not configured")

// Searcher runs one organic web search. Implementations may return fewer
// than n results; an error means the provider could not be reached or
// answered with something unusable.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]types.SearchResult, error)
}

// NewsSearcher runs one news search.
type NewsSearcher interface {
	News(ctx context.Context, query string, n int) ([]types.NewsResult, error)
}

// Provider is a Searcher that also serves news.
type Provider interface {
	Searcher
	NewsSearcher
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string, n int) ([]types.SearchResult, error)

// Search implements Searcher.
func (f SearcherFunc) Search(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	return f(ctx, query, n)
}
