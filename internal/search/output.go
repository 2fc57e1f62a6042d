// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/credible-research/internal/textutil"
	"github.com/pdiddy/credible-research/pkg/types"
)

// FormatTable writes scored results as a human-readable table to w,
// followed by the per-category distribution.
func FormatTable(results []types.ScoredResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No credible results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-16s  %-5s  %s\n", "Rank", "Title", "Category", "Score", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-56s  %-16s  %-5.2f  %s\n",
			i+1, textutil.Truncate(textutil.StripTags(r.Title), 56), r.SourceCategory, r.CredibilityScore, r.URL)
	}

	fmt.Fprintf(w, "\n%d results (%s)\n", len(results), FormatDistribution(Distribution(results)))
}

// FormatDistribution renders counts in declared category order, skipping
// empty categories: "academic=3, company_research=2".
func FormatDistribution(d map[types.SourceCategory]int) string {
	var parts []string
	for _, c := range types.Categories {
		if d[c] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, d[c]))
		}
	}
	return strings.Join(parts, ", ")
}

// FormatPlainTable writes unscored web results.
func FormatPlainTable(results []types.SearchResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	fmt.Fprintf(w, "%-4s  %-60s  %s\n", "Rank", "Title", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-60s  %s\n", i+1, textutil.Truncate(textutil.StripTags(r.Title), 60), r.URL)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatNewsTable writes news results with outlet and date.
func FormatNewsTable(results []types.NewsResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No news found.")
		return
	}
	fmt.Fprintf(w, "%-4s  %-52s  %-18s  %-14s  %s\n", "Rank", "Title", "Source", "Date", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-52s  %-18s  %-14s  %s\n",
			i+1, textutil.Truncate(textutil.StripTags(r.Title), 52),
			textutil.Truncate(r.Source, 18), textutil.Truncate(r.Date, 14), r.URL)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatYAML writes v as YAML to w.
func FormatYAML(v any, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
