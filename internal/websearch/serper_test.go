// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/credible-research/pkg/types"
)

const fakeSerperSearch = `{
  "organic": [
    {"title": " Attention Is All You Need ", "link": "https://arxiv.org/abs/1706.03762", "snippet": "The dominant sequence transduction models...", "position": 1},
    {"title": "Scaling Laws", "link": "https://openai.com/research/scaling-laws", "snippet": "We study empirical scaling laws.", "position": 2},
    {"title": "Third", "link": "https://example.com/3", "snippet": "c", "position": 3}
  ]
}`

const fakeSerperNews = `{
  "news": [
    {"title": "Lab ships model", "link": "https://techcrunch.com/a", "snippet": "s1", "source": "TechCrunch", "date": "2 hours ago"},
    {"title": "Regulators respond", "link": "https://www.reuters.com/b", "snippet": "s2", "source": "Reuters", "date": "1 day ago"}
  ]
}`

func newTestClient() *SerperClient {
	return &SerperClient{Client: http.DefaultClient, APIKey: "test-key", Country: "us", Language: "en"}
}

func TestSerperSearch(t *testing.T) {
	var got serperRequest
	var header http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fakeSerperSearch))
	}))
	defer ts.Close()

	old := serperSearchURL
	serperSearchURL = ts.URL
	defer func() { serperSearchURL = old }()

	c := newTestClient()
	results, err := c.Search(context.Background(), "transformers", 2)
	require.NoError(t, err)

	assert.Equal(t, serperRequest{Q: "transformers", Num: 2, GL: "us", HL: "en"}, got)
	assert.Equal(t, "test-key", header.Get("X-API-KEY"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))

	require.Len(t, results, 2)
	assert.Equal(t, types.SearchResult{
		Title:    "Attention Is All You Need",
		URL:      "https://arxiv.org/abs/1706.03762",
		Snippet:  "The dominant sequence transduction models...",
		Position: 1,
	}, results[0])
	assert.Equal(t, "https://openai.com/research/scaling-laws", results[1].URL)
}

func TestSerperSearch_CapsNum(t *testing.T) {
	var got serperRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"organic": []}`))
	}))
	defer ts.Close()

	old := serperSearchURL
	serperSearchURL = ts.URL
	defer func() { serperSearchURL = old }()

	results, err := newTestClient().Search(context.Background(), "q", 500)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, serperMaxSearch, got.Num)
}

func TestSerperSearch_ZeroResultsRequested(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer ts.Close()

	old := serperSearchURL
	serperSearchURL = ts.URL
	defer func() { serperSearchURL = old }()

	results, err := newTestClient().Search(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.False(t, called)
}

func TestSerperSearch_MissingAPIKey(t *testing.T) {
	c := &SerperClient{}
	_, err := c.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSerperSearch_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := serperSearchURL
	serperSearchURL = ts.URL
	defer func() { serperSearchURL = old }()

	_, err := newTestClient().Search(context.Background(), "q", 5)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.False(t, se.Temporary())
}

func TestSerperSearch_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	old := serperSearchURL
	serperSearchURL = ts.URL
	defer func() { serperSearchURL = old }()

	_, err := newTestClient().Search(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "parsing Serper response")
}

func TestSerperNews(t *testing.T) {
	var got serperRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(fakeSerperNews))
	}))
	defer ts.Close()

	old := serperNewsURL
	serperNewsURL = ts.URL
	defer func() { serperNewsURL = old }()

	results, err := newTestClient().News(context.Background(), "ai regulation", 80)
	require.NoError(t, err)

	assert.Equal(t, serperMaxNews, got.Num)
	require.Len(t, results, 2)
	assert.Equal(t, "Lab ships model", results[0].Title)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, "TechCrunch", results[0].Source)
	assert.Equal(t, "2 hours ago", results[0].Date)
	assert.Equal(t, 2, results[1].Position)
}

func TestStatusErrorTemporary(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, (&StatusError{Code: tt.code}).Temporary())
		})
	}
}

func TestNewSerperClient(t *testing.T) {
	c := NewSerperClient(types.SearchConfig{APIKey: "k", Country: "gb", RateLimit: 2})
	assert.Equal(t, "k", c.APIKey)
	assert.Equal(t, "gb", c.Country)
	require.NotNil(t, c.Limiter)

	c = NewSerperClient(types.SearchConfig{})
	assert.Nil(t, c.Limiter)
}
