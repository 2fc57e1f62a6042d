// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brief

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/credible-research/pkg/types"
)

func result(title, url string, score float64, cat types.SourceCategory) types.ScoredResult {
	return types.ScoredResult{
		SearchResult:     types.SearchResult{Title: title, URL: url, Snippet: "<b>snippet</b> for " + title},
		CredibilityScore: score,
		SourceCategory:   cat,
	}
}

func TestRender(t *testing.T) {
	b := Brief{
		Topic:       "AI in Healthcare",
		GeneratedAt: time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC),
		Results: []types.ScoredResult{
			result("Paper A", "https://arxiv.org/a", 1.0, types.CategoryAcademic),
			result("Paper B", "https://nature.com/b", 1.0, types.CategoryAcademic),
			result("Lab post", "https://openai.com/research/c", 0.8, types.CategoryCompanyResearch),
			result("News", "https://technologyreview.com/d", 0.6, types.CategoryIndustry),
		},
		Verdicts: []types.VerificationVerdict{{
			Claim:          "AI reads X-rays",
			Status:         types.StatusVerified,
			Confidence:     types.ConfidenceHigh,
			SourcesChecked: 5,
			Evidence: []types.Evidence{{
				Title: "Paper A", URL: "https://arxiv.org/a",
				SourceCategory: types.CategoryAcademic, CredibilityScore: 1,
			}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Research Brief: AI in Healthcare\n"))
	assert.Contains(t, out, "2026-05-04 10:30 UTC")
	assert.Contains(t, out, "`ai-in-healthcare`")
	assert.Contains(t, out, "1. [Paper A](https://arxiv.org/a) (credibility 1.00)")
	assert.Contains(t, out, "2. [Paper B](https://nature.com/b)")
	assert.Contains(t, out, "> snippet for Paper A")
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "## Government Sources")
	assert.NotContains(t, out, "## AI Blogs")

	// Sections follow declared category order.
	acad := strings.Index(out, "## Academic Research")
	comp := strings.Index(out, "## Company Research")
	ind := strings.Index(out, "## Industry Coverage")
	assert.True(t, acad < comp && comp < ind)

	assert.Contains(t, out, "- **AI reads X-rays**: Verified (High confidence, 5 sources checked)")
	assert.Contains(t, out, "  - [Paper A](https://arxiv.org/a) · academic 1.00")
	assert.Contains(t, out, "| academic | 2 | 50% |")
	assert.Contains(t, out, "| company_research | 1 | 25% |")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Brief{Topic: "nothing"}))

	out := buf.String()
	assert.Contains(t, out, "0 credible sources")
	assert.NotContains(t, out, "## Claim Verification")
	assert.Contains(t, out, "## Source Distribution")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "the-future-of-ai-brief.md", FileName("The Future of AI"))
	assert.Equal(t, "research-brief.md", FileName("???"))
}
