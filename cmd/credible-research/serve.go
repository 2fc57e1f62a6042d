// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/metrics"
	"github.com/pdiddy/credible-research/internal/scrape"
	"github.com/pdiddy/credible-research/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Serve exposes search, research, verify, news and scrape under /api/v1,
health on /health and Prometheus metrics on /metrics. CORS origins come
from server.allowed_origins. With server.archive (or --archive) every
search, research and verify request is saved to the archive.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().Bool("archive", false, "archive every run (overrides server.archive)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	sc := cfg.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		sc.Addr = addr
	}
	if b, _ := cmd.Flags().GetBool("archive"); b {
		sc.Archive = true
	}
	if err := requireAPIKey(); err != nil {
		logger.Warn("starting without a search API key; search endpoints will return empty results", "err", err)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.NewDefault()
	a, err := newApp(cmd.Context(), m)
	if err != nil {
		return err
	}
	defer a.Close()

	deps := server.Deps{
		Engine:   a.engine,
		Verifier: a.verifier,
		Web:      a.web,
		Scraper:  scrape.New(cfg.Scrape, logger),
		Metrics:  m,
		Logger:   logger,
	}
	if sc.Archive {
		store, err := archive.Open(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		deps.Archive = store
	}

	server.Version = version
	return server.New(deps, sc).Run(cmd.Context())
}
