// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// VerificationStatus is the outcome of checking a claim against credible sources.
type VerificationStatus string

const (
	StatusVerified          VerificationStatus = "Verified"
	StatusPartiallyVerified VerificationStatus = "Partially Verified"
	StatusUnverified        VerificationStatus = "Unverified"

	// StatusContradicted is reserved for contradiction detection. The
	// verifier never assigns it.
	StatusContradicted VerificationStatus = "Contradicted"
)

// Confidence qualifies a VerificationStatus.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Evidence is a scored result reduced to the fields a verdict reports.
type Evidence struct {
	Title            string         `json:"title" yaml:"title"`
	URL              string         `json:"url" yaml:"url"`
	Snippet          string         `json:"snippet" yaml:"snippet"`
	SourceCategory   SourceCategory `json:"source_category" yaml:"source_category"`
	CredibilityScore float64        `json:"credibility_score" yaml:"credibility_score"`
}

// EvidenceFrom reduces a ScoredResult to Evidence.
func EvidenceFrom(r ScoredResult) Evidence {
	return Evidence{
		Title:            r.Title,
		URL:              r.URL,
		Snippet:          r.Snippet,
		SourceCategory:   r.SourceCategory,
		CredibilityScore: r.CredibilityScore,
	}
}

// VerificationVerdict is the result of verifying one claim.
type VerificationVerdict struct {
	// Claim is the natural-language statement that was checked.
	Claim string `json:"claim" yaml:"claim"`

	// Status is the verification outcome.
	Status VerificationStatus `json:"status" yaml:"status"`

	// Confidence qualifies Status.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// SourcesChecked is the number of credible results the search returned.
	SourcesChecked int `json:"sources_checked" yaml:"sources_checked"`

	// Evidence holds at most min_sources of the top-ranked results.
	Evidence []Evidence `json:"evidence" yaml:"evidence"`
}
