// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/credible-research/internal/httputil"
	"github.com/pdiddy/credible-research/pkg/types"
)

// Serper endpoints. Declared as vars so tests can substitute an httptest server.
var (
	serperSearchURL = "https://google.serper.dev/search"
	serperNewsURL   = "https://google.serper.dev/news"
)

const (
	// serperMaxSearch and serperMaxNews are the provider's per-request caps.
	serperMaxSearch = 100
	serperMaxNews   = 50
)

// SerperClient queries the Serper.dev Google search API.
type SerperClient struct {
	Client *http.Client
	APIKey string

	// Country and Language map to the "gl" and "hl" request fields.
	Country  string
	Language string

	UserAgent string

	// MaxRetries bounds retries on HTTP 429/503. Zero disables them; a
	// negative value uses httputil.DefaultMaxRetries.
	MaxRetries int

	// Limiter, when set, paces outgoing requests.
	Limiter *rate.Limiter
}

// NewSerperClient builds a client from the search configuration.
func NewSerperClient(cfg types.SearchConfig) *SerperClient {
	c := &SerperClient{
		Client:     &http.Client{Timeout: cfg.Timeout},
		APIKey:     cfg.APIKey,
		Country:    cfg.Country,
		Language:   cfg.Language,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.RateLimit > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	GL  string `json:"gl,omitempty"`
	HL  string `json:"hl,omitempty"`
}

type serperOrganic struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

type serperSearchResponse struct {
	Organic []serperOrganic `json:"organic"`
}

type serperNewsItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

type serperNewsResponse struct {
	News []serperNewsItem `json:"news"`
}

// Search returns up to n organic results for query.
func (c *SerperClient) Search(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	if n <= 0 {
		return nil, nil
	}
	body := serperRequest{Q: query, Num: min(n, serperMaxSearch), GL: c.Country, HL: c.Language}

	var sr serperSearchResponse
	if err := c.post(ctx, serperSearchURL, body, &sr); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, min(len(sr.Organic), n))
	for _, item := range sr.Organic {
		if len(results) == n {
			break
		}
		results = append(results, types.SearchResult{
			Title:    strings.TrimSpace(item.Title),
			URL:      strings.TrimSpace(item.Link),
			Snippet:  strings.TrimSpace(item.Snippet),
			Position: max(item.Position, 0),
		})
	}
	return results, nil
}

// News returns up to n news results for query.
func (c *SerperClient) News(ctx context.Context, query string, n int) ([]types.NewsResult, error) {
	if n <= 0 {
		return nil, nil
	}
	body := serperRequest{Q: query, Num: min(n, serperMaxNews)}

	var nr serperNewsResponse
	if err := c.post(ctx, serperNewsURL, body, &nr); err != nil {
		return nil, err
	}

	results := make([]types.NewsResult, 0, min(len(nr.News), n))
	for i, item := range nr.News {
		if len(results) == n {
			break
		}
		results = append(results, types.NewsResult{
			SearchResult: types.SearchResult{
				Title:    strings.TrimSpace(item.Title),
				URL:      strings.TrimSpace(item.Link),
				Snippet:  strings.TrimSpace(item.Snippet),
				Position: i + 1,
			},
			Source: item.Source,
			Date:   item.Date,
		})
	}
	return results, nil
}

func (c *SerperClient) post(ctx context.Context, endpoint string, body serperRequest, out any) error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding Serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Serper response: %w", err)
	}
	return nil
}

// StatusError reports a non-200 provider response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Serper API returned HTTP %d", e.Code)
}

// Temporary reports whether the status is worth retrying at a higher level.
// Client errors (bad key, bad request) are permanent.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}
