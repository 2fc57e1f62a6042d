// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the credible-research CLI.
// Subcommands cover credible-source search, multi-source research, claim
// verification, news, scraping, registry inspection, run history and the
// HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/config"
	"github.com/pdiddy/credible-research/internal/secrets"
	"github.com/pdiddy/credible-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Populated by the root command before any subcommand runs.
var (
	cfg    types.Config
	logger *slog.Logger
)

// rootCmd is the base command for the credible-research CLI.
var rootCmd = &cobra.Command{
	Use:   "credible-research",
	Short: "Search and verify claims against credible sources",
	Long: `credible-research biases web search toward a registry of trusted domains
(academic, government, company research, industry and AI blogs), scores each
hit by the credibility of its source, and verifies claims against the
results.

API keys are read from .secrets/ (one file per key, e.g. serper-api-key);
settings from credible-research.yaml in . or ~/.config/credible-research/,
overridden by CREDIBLE_RESEARCH_* environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: "+strings.Join(config.DefaultPaths(), " or ")+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of API key files")
}

func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		v.Set("log.level", f.Value.String())
	}

	dir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(dir)
	if err != nil {
		return err
	}
	v.Set("search.api_key", s.Default(secrets.SerperAPIKey, v.GetString("search.api_key")))
	v.Set("cache.redis_url", s.Default(secrets.RedisURL, v.GetString("cache.redis_url")))

	cfg, err = config.Build(v)
	if err != nil {
		return err
	}
	logger, err = config.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	if keys := s.Keys(); len(keys) > 0 {
		logger.Debug("loaded secrets", "keys", keys)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
