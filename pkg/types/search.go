// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the credible-research engine:
// search hits as returned by the web search provider, credibility-scored results,
// claim verification verdicts, scraped pages, and configuration.
package types

import (
	"fmt"
	"strings"
)

// SourceCategory is a trust tier for a credible domain.
type SourceCategory string

const (
	CategoryAcademic        SourceCategory = "academic"
	CategoryGovernment      SourceCategory = "government"
	CategoryCompanyResearch SourceCategory = "company_research"
	CategoryIndustry        SourceCategory = "industry"
	CategoryAIBlogs         SourceCategory = "ai_blogs"
)

// Categories lists every source category in declared order, highest trust first.
// Declared order drives domain resolution, merge order, and tie-breaks.
var Categories = []SourceCategory{
	CategoryAcademic,
	CategoryGovernment,
	CategoryCompanyResearch,
	CategoryIndustry,
	CategoryAIBlogs,
}

// Valid reports whether c is one of the declared categories.
func (c SourceCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a user-supplied name into a SourceCategory.
// Matching ignores case and surrounding whitespace; hyphens are accepted
// in place of underscores ("company-research").
func ParseCategory(s string) (SourceCategory, error) {
	c := SourceCategory(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !c.Valid() {
		return "", fmt.Errorf("unknown source category %q: use one of %s", s, CategoryNames())
	}
	return c, nil
}

// ParseCategories parses a list of category names, dropping duplicates.
func ParseCategories(names []string) ([]SourceCategory, error) {
	var out []SourceCategory
	seen := make(map[SourceCategory]bool)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// CategoryNames returns the declared category names joined by commas.
func CategoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// SearchResult is one organic hit from the generic web search provider.
type SearchResult struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the link to the result page.
	URL string `json:"url" yaml:"url"`

	// Snippet is the provider's text excerpt for the hit.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Position is the provider-reported rank, zero when unknown.
	Position int `json:"position" yaml:"position"`
}

// NewsResult is a news hit; it carries the publishing outlet and a
// provider-formatted date string ("2 days ago", "Jan 3, 2026").
type NewsResult struct {
	SearchResult `yaml:",inline"`

	Source string `json:"source" yaml:"source"`
	Date   string `json:"date" yaml:"date"`
}

// ScoredResult is a SearchResult whose domain matched the registry.
// SourceCategory is never empty for a ScoredResult produced by the engine.
type ScoredResult struct {
	SearchResult `yaml:",inline"`

	// CredibilityScore is the priority weight of SourceCategory, in [0,1].
	CredibilityScore float64 `json:"credibility_score" yaml:"credibility_score"`

	// SourceCategory is the trust tier the result's domain belongs to.
	SourceCategory SourceCategory `json:"source_category" yaml:"source_category"`
}
