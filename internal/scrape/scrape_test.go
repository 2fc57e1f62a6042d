// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/credible-research/pkg/types"
)

const articleHTML = `<!doctype html>
<html>
<head>
  <title>Page Title | Example Lab</title>
  <meta name="description" content="How scaling laws hold up">
  <meta name="keywords" content="scaling, llm">
  <meta name="author" content="A. Researcher">
  <meta property="og:title" content="Scaling Laws Revisited">
  <meta property="og:description" content="OG description">
  <meta property="og:image" content="https://example.org/cover.png">
  <style>body { color: red }</style>
</head>
<body>
  <nav><p>Home | Blog | About</p></nav>
  <article>
    <h1>Scaling Laws Revisited</h1>
    <p>Loss falls as a power law in compute.</p>
    <h2>Method</h2>
    <ul><li>Train many models</li><li>Fit the curve</li></ul>
    <script>trackPageview()</script>
  </article>
  <footer><p>Copyright notice</p></footer>
</body>
</html>`

func newTestScraper() *Scraper {
	return &Scraper{
		Client:           http.DefaultClient,
		UserAgent:        "test-agent",
		MaxContentLength: DefaultMaxContentLength,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestScrape_ExtractsArticle(t *testing.T) {
	ts := serve(t, http.StatusOK, articleHTML)

	page := newTestScraper().Scrape(context.Background(), ts.URL)

	require.True(t, page.Success(), page.Error)
	assert.Equal(t, ts.URL, page.URL)
	assert.Equal(t, "Scaling Laws Revisited", page.Title)
	assert.Equal(t, "Loss falls as a power law in compute. Method Train many models Fit the curve", page.Content)
	assert.Equal(t, 15, page.WordCount)
	assert.NotContains(t, page.Content, "Home")
	assert.NotContains(t, page.Content, "Copyright")
	assert.NotContains(t, page.Content, "trackPageview")
}

func TestScrape_TitleFallsBackToTitleTag(t *testing.T) {
	ts := serve(t, http.StatusOK, `<html><head><title> Only Title </title></head><body><p>text</p></body></html>`)

	page := newTestScraper().Scrape(context.Background(), ts.URL)
	assert.Equal(t, "Only Title", page.Title)
	assert.Equal(t, "text", page.Content)
}

func TestScrape_NoTitle(t *testing.T) {
	ts := serve(t, http.StatusOK, `<html><body><p>text</p></body></html>`)

	page := newTestScraper().Scrape(context.Background(), ts.URL)
	assert.Equal(t, noTitle, page.Title)
}

func TestScrape_TruncatesContent(t *testing.T) {
	ts := serve(t, http.StatusOK, "<html><body><p>"+strings.Repeat("word ", 100)+"</p></body></html>")

	s := newTestScraper()
	s.MaxContentLength = 20
	page := s.Scrape(context.Background(), ts.URL)

	assert.Len(t, []rune(page.Content), 20)
	assert.Equal(t, 4, page.WordCount)
}

func TestScrape_HTTPError(t *testing.T) {
	ts := serve(t, http.StatusNotFound, "gone")

	page := newTestScraper().Scrape(context.Background(), ts.URL)
	assert.False(t, page.Success())
	assert.Contains(t, page.Error, "HTTP 404")
	assert.Empty(t, page.Content)
	assert.Zero(t, page.WordCount)
}

func TestScrape_BadURL(t *testing.T) {
	page := newTestScraper().Scrape(context.Background(), "http://[::1]:namedport")
	assert.False(t, page.Success())
	assert.Contains(t, page.Error, "request failed")
}

func TestScrapeAll(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`<html><body><p>ok</p></body></html>`))
	}))
	defer ts.Close()

	s := newTestScraper()
	s.UserAgent = ""
	s.Delay = time.Millisecond
	pages := s.ScrapeAll(context.Background(), []string{ts.URL + "/a", ts.URL + "/missing", ts.URL + "/b"})

	require.Len(t, pages, 3)
	assert.True(t, pages[0].Success())
	assert.False(t, pages[1].Success())
	assert.True(t, pages[2].Success())
	assert.Equal(t, ts.URL+"/b", pages[2].URL)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestScrapeAll_StopsOnCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<p>ok</p>`))
	}))
	defer ts.Close()

	s := newTestScraper()
	s.UserAgent = ""
	s.Delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	pages := s.ScrapeAll(ctx, []string{ts.URL, ts.URL, ts.URL})
	assert.Len(t, pages, 1)
}

func TestMetadata(t *testing.T) {
	ts := serve(t, http.StatusOK, articleHTML)

	meta, err := newTestScraper().Metadata(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, types.PageMetadata{
		Title:         "Page Title | Example Lab",
		Description:   "How scaling laws hold up",
		Keywords:      "scaling, llm",
		Author:        "A. Researcher",
		OGTitle:       "Scaling Laws Revisited",
		OGDescription: "OG description",
		OGImage:       "https://example.org/cover.png",
	}, meta)
}

func TestMetadata_HTTPError(t *testing.T) {
	ts := serve(t, http.StatusInternalServerError, "")

	_, err := newTestScraper().Metadata(context.Background(), ts.URL)
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestNew(t *testing.T) {
	s := New(types.ScrapeConfig{HTTPConfig: types.HTTPConfig{Timeout: time.Second, UserAgent: "ua"}}, nil)
	assert.Equal(t, DefaultMaxContentLength, s.MaxContentLength)
	assert.Equal(t, time.Second, s.Client.Timeout)
	assert.Equal(t, "ua", s.UserAgent)
}
