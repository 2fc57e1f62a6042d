// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search engine, verifier, news search and
// scraper over a JSON HTTP API built on gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/metrics"
	"github.com/pdiddy/credible-research/internal/scrape"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/internal/verify"
	"github.com/pdiddy/credible-research/internal/websearch"
	"github.com/pdiddy/credible-research/pkg/types"
)

const (
	// Service names the API in / and /health responses.
	Service = "credible-research"

	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// Version is reported by / and /health. The CLI overrides it at startup.
var Version = "dev"

// Deps are the collaborators the handlers call. Archive and Metrics may be nil.
type Deps struct {
	Engine   *search.Engine
	Verifier *verify.Verifier
	Web      websearch.Provider
	Scraper  *scrape.Scraper
	Archive  *archive.Store
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	cfg    types.ServerConfig
	router *gin.Engine
}

// New builds the router. Runs are archived only when cfg.Archive is set
// and deps.Archive is non-nil.
func New(deps Deps, cfg types.ServerConfig) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if !cfg.Archive {
		deps.Archive = nil
	}
	s := &Server{deps: deps, cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/", s.root)
	r.GET("/health", s.health)
	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/search", s.search)
		v1.POST("/research", s.research)
		v1.POST("/verify", s.verify)
		v1.POST("/news", s.news)
		v1.POST("/scrape", s.scrape)
	}
	return r
}

// corsConfig allows the configured origins. With none configured any origin
// may call the API, without credentials.
func (s *Server) corsConfig() cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = s.cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("API server listening", "addr", s.cfg.Addr, "allowed_origins", s.cfg.AllowedOrigins)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}

	s.deps.Logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}

// requestID tags every request with an ID, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.deps.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"))
	}
}
