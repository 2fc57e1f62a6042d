// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/credible-research/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func scored(title, url, snippet string, score float64, cat types.SourceCategory) types.ScoredResult {
	return types.ScoredResult{
		SearchResult:     types.SearchResult{Title: title, URL: url, Snippet: snippet, Position: 1},
		CredibilityScore: score,
		SourceCategory:   cat,
	}
}

func searchRun(query string, at time.Time) *Run {
	return &Run{
		Kind:       KindSearch,
		Query:      query,
		Categories: []types.SourceCategory{types.CategoryAcademic, types.CategoryCompanyResearch},
		NumResults: 10,
		CreatedAt:  at,
		Results: []types.ScoredResult{
			scored("Scaling laws for neural language models", "https://arxiv.org/abs/2001.08361", "power law in compute", 1.0, types.CategoryAcademic),
			scored("GPT-4 technical report", "https://openai.com/research/gpt-4", "multimodal model", 0.8, types.CategoryCompanyResearch),
		},
	}
}

func verifyRun(claim string, at time.Time) *Run {
	return &Run{
		Kind:       KindVerify,
		Query:      claim,
		NumResults: 3,
		CreatedAt:  at,
		Verdict: &types.VerificationVerdict{
			Claim:          claim,
			Status:         types.StatusPartiallyVerified,
			Confidence:     types.ConfidenceMedium,
			SourcesChecked: 4,
			Evidence: []types.Evidence{{
				Title: "e", URL: "https://nsf.gov/e", Snippet: "s",
				SourceCategory: types.CategoryGovernment, CredibilityScore: 0.9,
			}},
		},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	s, err := Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := searchRun("scaling laws", time.Time{})
	id, err := s.Save(ctx, run)
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, KindSearch, got.Kind)
	assert.Equal(t, "scaling laws", got.Query)
	assert.Equal(t, run.Categories, got.Categories)
	assert.Equal(t, 10, got.NumResults)
	assert.Equal(t, run.Results, got.Results)
	assert.Nil(t, got.Verdict)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSaveVerdict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := verifyRun("GPT-4 was released in 2023", time.Now())
	id, err := s.Save(ctx, run)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Verdict)
	assert.Equal(t, *run.Verdict, *got.Verdict)
	assert.Empty(t, got.Results)
}

func TestGetByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, searchRun("q", time.Now()))
	require.NoError(t, err)

	got, err := s.Get(ctx, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = s.Get(ctx, id[:4])
	assert.ErrorIs(t, err, ErrRunNotFound, "short prefixes are not expanded")
}

func TestGetAmbiguousPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abcdef12-0000-0000-0000-000000000001", "abcdef12-0000-0000-0000-000000000002"} {
		run := searchRun("q", time.Now())
		run.ID = id
		_, err := s.Save(ctx, run)
		require.NoError(t, err)
	}

	_, err := s.Get(ctx, "abcdef12")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestGetPrefixWildcardsAreLiteral(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, searchRun("q", time.Now()))
	require.NoError(t, err)

	for _, prefix := range []string{"%%%%%%%%", "________", "%_%_%_%_"} {
		_, err := s.Get(ctx, prefix)
		assert.ErrorIs(t, err, ErrRunNotFound, prefix)
	}
}

func TestGetCorruptCategories(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, searchRun("q", time.Now()))
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `UPDATE runs SET categories = ? WHERE id = ?`, "{not json", id)
	require.NoError(t, err)

	_, err = s.Get(ctx, id)
	assert.ErrorContains(t, err, "decoding categories")
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Save(ctx, searchRun("first", base))
	require.NoError(t, err)
	_, err = s.Save(ctx, verifyRun("claim", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = s.Save(ctx, searchRun("third", base.Add(2*time.Minute)))
	require.NoError(t, err)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Query)
	assert.Equal(t, "claim", all[1].Query)
	assert.Equal(t, types.StatusPartiallyVerified, all[1].Status)
	assert.Equal(t, 4, all[1].ResultCount)
	assert.Equal(t, "first", all[2].Query)
	assert.Equal(t, 2, all[2].ResultCount)

	searches, err := s.List(ctx, ListOptions{Kind: KindSearch, Limit: 1})
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, "third", searches[0].Query)
}

func TestFind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, searchRun("scaling", time.Now()))
	require.NoError(t, err)

	hits, err := s.Find(ctx, "power", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "https://arxiv.org/abs/2001.08361", hits[0].URL)
	assert.Equal(t, "scaling", hits[0].Query)
	assert.Equal(t, types.CategoryAcademic, hits[0].SourceCategory)

	hits, err = s.Find(ctx, "technical", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0.8, hits[0].CredibilityScore)

	hits, err = s.Find(ctx, "nonexistentterm", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = s.Find(ctx, "  ", 10)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, searchRun("scaling", time.Now()))
	require.NoError(t, err)
	_, err = s.Save(ctx, verifyRun("claim", time.Now().Add(time.Second)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Export(ctx, &buf, FormatJSON, ListOptions{}))
	var runs []Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, KindVerify, runs[0].Kind)
	assert.NotNil(t, runs[0].Verdict)
	assert.Len(t, runs[1].Results, 2)

	path, err := s.ExportFile(ctx, FormatYAML, ListOptions{Kind: KindSearch})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var yamlRuns []Run
	require.NoError(t, yaml.Unmarshal(data, &yamlRuns))
	require.Len(t, yamlRuns, 1)
	assert.Equal(t, "scaling", yamlRuns[0].Query)

	assert.ErrorContains(t, s.Export(ctx, &buf, "xml", ListOptions{}), "unknown export format")
}
