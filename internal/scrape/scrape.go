// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches web pages and extracts their title, main text
// and meta tags, for reading the sources a search turned up.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/pdiddy/credible-research/internal/textutil"
	"github.com/pdiddy/credible-research/pkg/types"
)

const (
	// DefaultMaxContentLength caps extracted text, in characters.
	DefaultMaxContentLength = 5000

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 5 << 20

	noTitle = "No title found"
)

// Scraper fetches and extracts pages.
type Scraper struct {
	Client           *http.Client
	UserAgent        string
	MaxContentLength int
	Delay            time.Duration
	Logger           *slog.Logger
}

// New builds a Scraper from configuration.
func New(cfg types.ScrapeConfig, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	maxLen := cfg.MaxContentLength
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLength
	}
	return &Scraper{
		Client:           &http.Client{Timeout: cfg.Timeout},
		UserAgent:        cfg.UserAgent,
		MaxContentLength: maxLen,
		Delay:            cfg.Delay,
		Logger:           logger,
	}
}

// Scrape fetches rawURL and extracts its content. Failures are reported in
// Page.Error rather than returned, so a batch can carry partial results.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) types.Page {
	page := types.Page{URL: rawURL}

	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		page.Error = err.Error()
		s.Logger.Warn("scrape failed", "url", rawURL, "err", err)
		return page
	}

	title, content, err := s.extract(body, rawURL)
	if err != nil {
		page.Error = fmt.Sprintf("scraping error for %s: %v", rawURL, err)
		s.Logger.Warn("scrape failed", "url", rawURL, "err", err)
		return page
	}

	if r := []rune(content); len(r) > s.maxLen() {
		content = string(r[:s.maxLen()])
		s.Logger.Debug("content truncated", "url", rawURL, "max", s.maxLen())
	}

	page.Title = title
	page.Content = content
	page.WordCount = textutil.WordCount(content)
	s.Logger.Info("scraped page", "url", rawURL, "words", page.WordCount)
	return page
}

// ScrapeAll scrapes urls in order, pausing Delay between requests. It stops
// early, returning what it has, when ctx is cancelled.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []types.Page {
	pages := make([]types.Page, 0, len(urls))
	for i, u := range urls {
		if i > 0 && s.Delay > 0 {
			select {
			case <-ctx.Done():
				return pages
			case <-time.After(s.Delay):
			}
		}
		if ctx.Err() != nil {
			return pages
		}
		pages = append(pages, s.Scrape(ctx, u))
	}

	ok := 0
	for _, p := range pages {
		if p.Success() {
			ok++
		}
	}
	s.Logger.Info("batch scrape complete", "successful", ok, "total", len(urls))
	return pages
}

// Metadata fetches rawURL and returns its meta and Open Graph tags.
func (s *Scraper) Metadata(ctx context.Context, rawURL string) (types.PageMetadata, error) {
	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		return types.PageMetadata{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return types.PageMetadata{}, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return ExtractMetadata(doc), nil
}

// ExtractMetadata reads meta and Open Graph tags from a parsed document.
func ExtractMetadata(doc *goquery.Document) types.PageMetadata {
	meta := func(attr, name string) string {
		v, _ := doc.Find(fmt.Sprintf(`meta[%s="%s"]`, attr, name)).First().Attr("content")
		return strings.TrimSpace(v)
	}
	return types.PageMetadata{
		Title:         strings.TrimSpace(doc.Find("title").First().Text()),
		Description:   meta("name", "description"),
		Keywords:      meta("name", "keywords"),
		Author:        meta("name", "author"),
		OGTitle:       meta("property", "og:title"),
		OGDescription: meta("property", "og:description"),
		OGImage:       meta("property", "og:image"),
	}
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %w", rawURL, err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request failed for %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, nil
}

// extract pulls the title and main text from an HTML page. Structural
// extraction runs first: chrome elements are removed and the text of
// paragraphs, subheadings and list items inside article, main or body is
// joined. Pages with no such text fall back to readability.
func (s *Scraper) extract(body []byte, rawURL string) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	doc.Find("script, style, nav, footer, aside, header, form, noscript").Remove()

	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		title = h1
	} else if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		title = t
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}

	var parts []string
	container.Find("p, h2, h3, h4, li").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})
	content = strings.Join(parts, " ")

	if content == "" {
		pageURL, _ := url.Parse(rawURL)
		if article, rerr := readability.FromReader(bytes.NewReader(body), pageURL); rerr == nil {
			content = strings.Join(strings.Fields(article.TextContent), " ")
			if title == "" {
				title = strings.TrimSpace(article.Title)
			}
		}
	}
	if content == "" {
		content = textutil.StripTags(string(body))
	}

	if title == "" {
		title = noTitle
	}
	return title, content, nil
}

func (s *Scraper) maxLen() int {
	if s.MaxContentLength <= 0 {
		return DefaultMaxContentLength
	}
	return s.MaxContentLength
}
