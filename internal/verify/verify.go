// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify turns a credible-source search for a claim into a
// verdict. The verdict is a pure function of the search results; no
// contradiction detection is attempted.
package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/credible-research/internal/metrics"
	"github.com/pdiddy/credible-research/internal/textutil"
	"github.com/pdiddy/credible-research/pkg/types"
)

const (
	// DefaultMinSources is used when Verify is asked for min_sources <= 0.
	DefaultMinSources = 3

	// HighCredibility is the score a source needs to count toward Verified.
	HighCredibility = 0.8

	// verifiedQuorum is how many high-credibility sources make a claim Verified.
	verifiedQuorum = 2
)

// Categories are the trust tiers searched for evidence.
var Categories = []types.SourceCategory{
	types.CategoryAcademic,
	types.CategoryCompanyResearch,
	types.CategoryGovernment,
}

// FilteredSearcher is the slice of search.Engine the verifier needs.
type FilteredSearcher interface {
	DomainSearch(ctx context.Context, query string, categories []types.SourceCategory, n int) []types.ScoredResult
}

// Verifier checks claims against credible sources.
type Verifier struct {
	search  FilteredSearcher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a Verifier. logger and m may be nil.
func New(search FilteredSearcher, logger *slog.Logger, m *metrics.Metrics) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{search: search, logger: logger, metrics: m}
}

// Verify searches for claim and classifies the outcome:
//
//   - fewer than minSources results: Unverified, Low
//   - at least two of the first minSources scoring >= HighCredibility: Verified, High
//   - otherwise: Partially Verified, Medium
//
// Evidence is the first minSources results. An empty claim is Unverified
// without a search.
func (v *Verifier) Verify(ctx context.Context, claim string, minSources int) types.VerificationVerdict {
	start := time.Now()
	defer v.metrics.ObserveSearch("verify", start)

	if minSources <= 0 {
		minSources = DefaultMinSources
	}
	claim = strings.TrimSpace(claim)

	var results []types.ScoredResult
	if claim != "" {
		results = v.search.DomainSearch(ctx, claim, Categories, 2*minSources)
	}

	verdict := Decide(claim, results, minSources)
	v.metrics.Verdict(string(verdict.Status))
	v.logger.Info("claim verified",
		"claim", textutil.Truncate(claim, 80), "status", verdict.Status,
		"confidence", verdict.Confidence, "sources_checked", verdict.SourcesChecked)
	return verdict
}

// VerifyAll verifies each claim in order.
func (v *Verifier) VerifyAll(ctx context.Context, claims []string, minSources int) []types.VerificationVerdict {
	out := make([]types.VerificationVerdict, 0, len(claims))
	for _, c := range claims {
		if ctx.Err() != nil {
			break
		}
		out = append(out, v.Verify(ctx, c, minSources))
	}
	return out
}

// Decide applies the verdict rules to an already-ranked result list.
func Decide(claim string, results []types.ScoredResult, minSources int) types.VerificationVerdict {
	verdict := types.VerificationVerdict{
		Claim:          claim,
		SourcesChecked: len(results),
		Evidence:       []types.Evidence{},
	}

	top := results[:min(minSources, len(results))]
	for _, r := range top {
		verdict.Evidence = append(verdict.Evidence, types.EvidenceFrom(r))
	}

	if len(results) < minSources {
		verdict.Status, verdict.Confidence = types.StatusUnverified, types.ConfidenceLow
		return verdict
	}

	high := 0
	for _, r := range top {
		if r.CredibilityScore >= HighCredibility {
			high++
		}
	}
	if high >= verifiedQuorum {
		verdict.Status, verdict.Confidence = types.StatusVerified, types.ConfidenceHigh
	} else {
		verdict.Status, verdict.Confidence = types.StatusPartiallyVerified, types.ConfidenceMedium
	}
	return verdict
}

// FormatText writes a verdict for terminal output.
func FormatText(v types.VerificationVerdict, w io.Writer) {
	fmt.Fprintf(w, "Claim:      %s\n", v.Claim)
	fmt.Fprintf(w, "Status:     %s\n", v.Status)
	fmt.Fprintf(w, "Confidence: %s\n", v.Confidence)
	fmt.Fprintf(w, "Sources:    %d checked\n", v.SourcesChecked)
	if len(v.Evidence) == 0 {
		return
	}
	fmt.Fprintln(w, "\nEvidence:")
	for i, e := range v.Evidence {
		fmt.Fprintf(w, "  %d. [%s %.2f] %s\n     %s\n",
			i+1, e.SourceCategory, e.CredibilityScore, textutil.Truncate(textutil.StripTags(e.Title), 80), e.URL)
	}
}
