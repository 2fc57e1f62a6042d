// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/credible-research/internal/registry"
	"github.com/pdiddy/credible-research/pkg/types"
)

const (
	// DefaultResearchResults is used when MultiSourceResearch is asked for n <= 0.
	DefaultResearchResults = 20

	// quotaBuffer is added to each category quota to absorb dedup losses.
	quotaBuffer = 5

	// quotaEpsilon keeps products such as 0.29*100 from flooring one short.
	quotaEpsilon = 1e-9
)

// Quota is the number of results one category is expected to contribute.
type Quota struct {
	Category types.SourceCategory `json:"category" yaml:"category"`
	N        int                  `json:"n" yaml:"n"`
}

// Quotas splits n across the registry's target distribution in declared
// category order. Categories whose share floors to zero are omitted.
func Quotas(reg *registry.Registry, n int) []Quota {
	var out []Quota
	for _, c := range types.Categories {
		q := int(math.Floor(float64(n)*reg.TargetShare(c) + quotaEpsilon))
		if q > 0 {
			out = append(out, Quota{Category: c, N: q})
		}
	}
	return out
}

// MultiSourceResearch builds a diversified result set for query: each
// category with a non-zero quota is searched on its own, results are merged
// in declared category order keeping the first occurrence of each URL, then
// stably sorted by score and truncated to n. Proportions are best effort.
func (e *Engine) MultiSourceResearch(ctx context.Context, query string, n int) []types.ScoredResult {
	start := time.Now()
	defer e.metrics.ObserveSearch("multi_source_research", start)

	if n <= 0 {
		n = DefaultResearchResults
	}
	quotas := Quotas(e.registry, n)

	// One slot per quota so the merge order is independent of completion order.
	slots := make([][]types.ScoredResult, len(quotas))
	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i, q := range quotas {
		i, q := i, q
		g.Go(func() error {
			slots[i] = e.DomainSearch(ctx, query, []types.SourceCategory{q.Category}, q.N+quotaBuffer)
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool)
	var merged []types.ScoredResult
	for _, results := range slots {
		for _, r := range results {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CredibilityScore > merged[j].CredibilityScore
	})
	if len(merged) > n {
		merged = merged[:n]
	}

	e.logger.Info("multi-source research complete",
		"query", query, "results", len(merged), "distribution", Distribution(merged))
	return merged
}

// Distribution counts results per category.
func Distribution(results []types.ScoredResult) map[types.SourceCategory]int {
	d := make(map[types.SourceCategory]int)
	for _, r := range results {
		d[r.SourceCategory]++
	}
	return d
}
