// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/internal/verify"
	"github.com/pdiddy/credible-research/pkg/types"
)

// maxScrapeURLs bounds one /scrape request.
const maxScrapeURLs = 10

// maxVerifyClaims bounds one /verify request.
const maxVerifyClaims = 10

type searchRequest struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories"`
	NumResults int      `json:"num_results"`
	Plain      bool     `json:"plain"`
}

type researchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

type verifyRequest struct {
	Claim      string   `json:"claim"`
	Claims     []string `json:"claims"`
	MinSources int      `json:"min_sources"`
}

type newsRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

type scrapeRequest struct {
	URL      string   `json:"url"`
	URLs     []string `json:"urls"`
	Metadata bool     `json:"metadata"`
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": Service,
		"version": Version,
		"endpoints": gin.H{
			"health":   "/health",
			"metrics":  "/metrics",
			"search":   "/api/v1/search",
			"research": "/api/v1/research",
			"verify":   "/api/v1/verify",
			"news":     "/api/v1/news",
			"scrape":   "/api/v1/scrape",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": Service, "version": Version})
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if !bind(c, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		badRequest(c, "query is required")
		return
	}

	if req.Plain {
		n := req.NumResults
		if n <= 0 {
			n = search.DefaultNumResults
		}
		results, err := s.deps.Web.Search(c.Request.Context(), query, n)
		if err != nil {
			providerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "query": query, "total": len(results), "results": nonNil(results)})
		return
	}

	cats, err := types.ParseCategories(req.Categories)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	results := s.deps.Engine.DomainSearch(c.Request.Context(), query, cats, req.NumResults)
	id := s.save(c, &archive.Run{Kind: archive.KindSearch, Query: query, Categories: cats, NumResults: req.NumResults, Results: results})
	c.JSON(http.StatusOK, scoredResponse(query, results, id))
}

func (s *Server) research(c *gin.Context) {
	var req researchRequest
	if !bind(c, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		badRequest(c, "query is required")
		return
	}
	results := s.deps.Engine.MultiSourceResearch(c.Request.Context(), query, req.NumResults)
	id := s.save(c, &archive.Run{Kind: archive.KindResearch, Query: query, NumResults: req.NumResults, Results: results})
	c.JSON(http.StatusOK, scoredResponse(query, results, id))
}

func (s *Server) verify(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}
	claims := req.Claims
	if strings.TrimSpace(req.Claim) != "" {
		claims = append([]string{req.Claim}, claims...)
	}
	if len(claims) == 0 {
		badRequest(c, "claim or claims is required")
		return
	}
	if len(claims) > maxVerifyClaims {
		badRequest(c, "at most 10 claims per request")
		return
	}
	minSources := req.MinSources
	if minSources <= 0 {
		minSources = verify.DefaultMinSources
	}

	verdicts := s.deps.Verifier.VerifyAll(c.Request.Context(), claims, minSources)
	for i := range verdicts {
		s.save(c, &archive.Run{Kind: archive.KindVerify, Query: verdicts[i].Claim, NumResults: minSources, Verdict: &verdicts[i]})
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "total": len(verdicts), "verdicts": verdicts})
}

func (s *Server) news(c *gin.Context) {
	var req newsRequest
	if !bind(c, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		badRequest(c, "query is required")
		return
	}
	n := req.NumResults
	if n <= 0 {
		n = search.DefaultNumResults
	}
	results, err := s.deps.Web.News(c.Request.Context(), query, n)
	if err != nil {
		providerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "query": query, "total": len(results), "results": nonNil(results)})
}

func (s *Server) scrape(c *gin.Context) {
	var req scrapeRequest
	if !bind(c, &req) {
		return
	}
	urls := req.URLs
	if strings.TrimSpace(req.URL) != "" {
		urls = append([]string{req.URL}, urls...)
	}
	if len(urls) == 0 {
		badRequest(c, "url or urls is required")
		return
	}
	if len(urls) > maxScrapeURLs {
		badRequest(c, "at most 10 urls per request")
		return
	}

	ctx := c.Request.Context()
	if req.Metadata {
		meta, err := s.deps.Scraper.Metadata(ctx, urls[0])
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Metadata fetch failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "url": urls[0], "metadata": meta})
		return
	}

	pages := s.deps.Scraper.ScrapeAll(ctx, urls)
	c.JSON(http.StatusOK, gin.H{"status": "success", "total": len(pages), "pages": pages})
}

// save archives run when archiving is enabled and returns its ID.
func (s *Server) save(c *gin.Context, run *archive.Run) string {
	if s.deps.Archive == nil {
		return ""
	}
	run.CreatedAt = time.Now().UTC()
	id, err := s.deps.Archive.Save(c.Request.Context(), run)
	if err != nil {
		s.deps.Logger.Warn("archiving run failed", "kind", run.Kind, "query", run.Query, "err", err)
		return ""
	}
	return id
}

func scoredResponse(query string, results []types.ScoredResult, runID string) gin.H {
	h := gin.H{
		"status":       "success",
		"query":        query,
		"total":        len(results),
		"distribution": search.Distribution(results),
		"results":      nonNil(results),
	}
	if runID != "" {
		h["run_id"] = runID
	}
	return h
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request parameters",
		"error":   msg,
	})
}

func providerError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, gin.H{
		"status":  "error",
		"message": "Search provider unavailable",
		"error":   err.Error(),
	})
}

// nonNil keeps empty result lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
