// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs credible-source searches: it biases a generic web
// search toward the registry's trusted domains, scores each hit by the
// credibility of its source category, and balances results across
// categories.
//
// Provider failures never surface as errors here. A search that cannot
// reach its provider returns an empty result, logs a warning and counts
// the failure, so callers treat "down" the same as "nothing credible".
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/credible-research/internal/metrics"
	"github.com/pdiddy/credible-research/internal/registry"
	"github.com/pdiddy/credible-research/internal/websearch"
	"github.com/pdiddy/credible-research/pkg/types"
)

const (
	// MaxSiteDomains bounds the number of site: clauses in one query.
	MaxSiteDomains = 15

	// DefaultNumResults is used when DomainSearch is asked for n <= 0.
	DefaultNumResults = 10

	// overfetchFactor is how many raw hits are requested per wanted result.
	overfetchFactor = 2
)

// DefaultCategories is used when DomainSearch is given no categories.
var DefaultCategories = []types.SourceCategory{types.CategoryAcademic, types.CategoryCompanyResearch}

// ErrNoDomains is returned by Plan when the requested categories resolve to
// no registered domains.
var ErrNoDomains = errors.New("no domains registered for the requested categories")

// Engine runs domain-filtered searches and multi-source research against a
// fixed registry. It is safe for concurrent use.
type Engine struct {
	registry    *registry.Registry
	web         websearch.Searcher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for degraded-search warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records search counts and failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithParallelism bounds concurrent per-category searches in
// MultiSourceResearch. Values below 1 mean sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// New creates an Engine over reg that delegates raw searches to web.
func New(reg *registry.Registry, web websearch.Searcher, opts ...Option) *Engine {
	e := &Engine{
		registry:    reg,
		web:         web,
		logger:      slog.Default(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parallelism < 1 {
		e.parallelism = 1
	}
	return e
}

// Registry returns the registry the engine scores against.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Plan resolves categories to the site domains one query will target,
// capped at MaxSiteDomains in registry order. Empty categories select
// DefaultCategories.
func (e *Engine) Plan(categories []types.SourceCategory) ([]string, error) {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	domains := e.registry.DomainsFor(categories)
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}
	if len(domains) > MaxSiteDomains {
		domains = domains[:MaxSiteDomains]
	}
	return domains, nil
}

// BuildQuery restricts query to domains: "query (site:a OR site:b)".
func BuildQuery(query string, domains []string) string {
	if len(domains) == 0 {
		return query
	}
	sites := make([]string, len(domains))
	for i, d := range domains {
		sites[i] = "site:" + d
	}
	return fmt.Sprintf("%s (%s)", query, strings.Join(sites, " OR "))
}

// ExtractDomain returns the lowercased host of rawURL with any leading
// "www." removed. Malformed or scheme-less input yields "".
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// DomainSearch runs one credible-source search. Every returned result
// belongs to one of categories, the list is sorted by credibility score
// (stable, so provider rank breaks ties) and holds at most n entries.
// Empty categories select DefaultCategories; n <= 0 means DefaultNumResults.
func (e *Engine) DomainSearch(ctx context.Context, query string, categories []types.SourceCategory, n int) []types.ScoredResult {
	start := time.Now()
	defer e.metrics.ObserveSearch("domain_search", start)

	if n <= 0 {
		n = DefaultNumResults
	}
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	domains, err := e.Plan(categories)
	if err != nil {
		e.logger.Warn("no domains resolved, returning empty result",
			"query", query, "categories", categories)
		e.metrics.ProviderFailure(metrics.ReasonNoDomains)
		return nil
	}

	raw, err := e.web.Search(ctx, BuildQuery(query, domains), overfetchFactor*n)
	if err != nil {
		e.logger.Warn("search provider failed, returning empty result",
			"query", query, "categories", categories, "err", err)
		e.metrics.ProviderFailure(metrics.ReasonProviderError)
		return nil
	}

	scored := e.score(raw, categories)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CredibilityScore > scored[j].CredibilityScore
	})
	if len(scored) > n {
		scored = scored[:n]
	}

	e.logger.Debug("domain search complete",
		"query", query, "raw", len(raw), "kept", len(scored))
	return scored
}

// score classifies raw hits, drops those outside categories, and attaches
// credibility scores.
func (e *Engine) score(raw []types.SearchResult, categories []types.SourceCategory) []types.ScoredResult {
	var uncategorized, offCategory int
	out := make([]types.ScoredResult, 0, len(raw))
	for _, r := range raw {
		cat, ok := e.registry.CategoryOf(ExtractDomain(r.URL))
		if !ok {
			uncategorized++
			continue
		}
		if !slices.Contains(categories, cat) {
			offCategory++
			continue
		}
		out = append(out, types.ScoredResult{
			SearchResult:     r,
			CredibilityScore: e.registry.Priority(cat),
			SourceCategory:   cat,
		})
	}
	e.metrics.Dropped(metrics.DropUncategorized, uncategorized)
	e.metrics.Dropped(metrics.DropOffCategory, offCategory)
	return out
}
