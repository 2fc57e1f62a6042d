// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/metrics"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/internal/verify"
	"github.com/pdiddy/credible-research/internal/websearch"
	"github.com/pdiddy/credible-research/pkg/types"
)

// app holds the collaborators one command run needs.
type app struct {
	web      websearch.Provider
	engine   *search.Engine
	verifier *verify.Verifier
	metrics  *metrics.Metrics

	closers []func() error
}

// newApp wires Serper behind retries and, when cache.redis_url is set, a
// Redis cache. Every search path, credible or plain, goes through web.
func newApp(ctx context.Context, m *metrics.Metrics) (*app, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}

	a := &app{metrics: m}
	var web websearch.Provider = websearch.NewRetrying(
		websearch.NewSerperClient(cfg.Search), cfg.Search.MaxRetries, cfg.Search.RetryDelay, logger)

	if cfg.Cache.RedisURL != "" {
		rc, err := websearch.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without cache", "err", err)
		} else {
			a.closers = append(a.closers, rc.Close)
			web = websearch.NewCached(web, rc, cfg.Cache.TTL, logger)
		}
	}
	a.web = web

	a.engine = search.New(reg, web,
		search.WithLogger(logger),
		search.WithMetrics(m),
		search.WithParallelism(cfg.Aggregate.Parallelism))
	a.verifier = verify.New(a.engine, logger, m)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.Debug("closing resource", "err", err)
		}
	}
}

// requireAPIKey fails commands that search before they reach the provider.
func requireAPIKey() error {
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("%w: put it in .secrets/serper-api-key or set CREDIBLE_RESEARCH_SEARCH_API_KEY", websearch.ErrMissingAPIKey)
	}
	return nil
}

// addOutputFlags registers --json and --yaml.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Bool("yaml", false, "output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// writeOutput encodes v as JSON or YAML when requested, or calls table.
// Commands that do not register a flag read it as false.
func writeOutput(cmd *cobra.Command, w io.Writer, v any, table func(io.Writer)) error {
	if b, _ := cmd.Flags().GetBool("json"); b {
		return search.FormatJSON(v, w)
	}
	if b, _ := cmd.Flags().GetBool("yaml"); b {
		return search.FormatYAML(v, w)
	}
	table(w)
	return nil
}

// addArchiveFlag registers --archive.
func addArchiveFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("archive", false, "save this run to the archive")
}

// archiveRun saves run when --archive is set and reports the run ID on stderr.
func archiveRun(cmd *cobra.Command, run *archive.Run) error {
	if b, _ := cmd.Flags().GetBool("archive"); !b {
		return nil
	}
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	run.CreatedAt = time.Now().UTC()
	id, err := store.Save(cmd.Context(), run)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Archived run %s\n", id)
	return nil
}

// parseCategoryFlag reads --categories and rejects unknown names.
func parseCategoryFlag(cmd *cobra.Command) ([]types.SourceCategory, error) {
	names, _ := cmd.Flags().GetStringSlice("categories")
	return types.ParseCategories(names)
}
