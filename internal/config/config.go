// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the runtime configuration from viper: built-in
// defaults, then the config file, then CREDIBLE_RESEARCH_* environment
// variables, then command-line flags bound by the caller.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/credible-research/internal/registry"
	"github.com/pdiddy/credible-research/pkg/types"
)

const (
	// Name is the config file base name and the ~/.config subdirectory.
	Name = "credible-research"

	// EnvPrefix prefixes environment overrides: CREDIBLE_RESEARCH_SEARCH_COUNTRY.
	EnvPrefix = "CREDIBLE_RESEARCH"

	defaultUserAgent = "credible-research/0.1"
)

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("search.api_key", "")
	v.SetDefault("search.country", "us")
	v.SetDefault("search.language", "en")
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.user_agent", defaultUserAgent)
	v.SetDefault("search.max_retries", 3)
	v.SetDefault("search.retry_delay", time.Second)
	v.SetDefault("search.rate_limit", 0.0)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", time.Hour)

	v.SetDefault("registry.file", "")
	v.SetDefault("registry.matcher", "substring")

	v.SetDefault("aggregate.parallelism", 1)

	v.SetDefault("scrape.timeout", 10*time.Second)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; "+defaultUserAgent+")")
	v.SetDefault("scrape.max_content_length", 5000)
	v.SetDefault("scrape.delay", time.Second)

	v.SetDefault("archive.dir", "archive")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.archive", false)
}

// New returns a viper instance with defaults, env binding and, when one
// is found, the config file loaded. cfgFile overrides the search path.
// A missing default config file is not an error; a missing explicit one is.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

func searchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", Name))
	}
	return dirs
}

// DefaultPaths lists the config files New looks for, in order, when no
// explicit file is given.
func DefaultPaths() []string {
	dirs := searchDirs()
	paths := make([]string, len(dirs))
	for i, dir := range dirs {
		paths[i] = filepath.Join(dir, Name+".yaml")
	}
	return paths
}

// Build reads every key into a types.Config and validates it.
func Build(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		LogLevel: v.GetString("log.level"),
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("search.timeout"),
				UserAgent: v.GetString("search.user_agent"),
			},
			APIKey:     v.GetString("search.api_key"),
			Country:    v.GetString("search.country"),
			Language:   v.GetString("search.language"),
			MaxRetries: v.GetInt("search.max_retries"),
			RetryDelay: v.GetDuration("search.retry_delay"),
			RateLimit:  v.GetFloat64("search.rate_limit"),
		},
		Cache: types.CacheConfig{
			RedisURL: v.GetString("cache.redis_url"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Registry: types.RegistryConfig{
			File:    v.GetString("registry.file"),
			Matcher: v.GetString("registry.matcher"),
		},
		Aggregate: types.AggregateConfig{
			Parallelism: v.GetInt("aggregate.parallelism"),
		},
		Scrape: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("scrape.timeout"),
				UserAgent: v.GetString("scrape.user_agent"),
			},
			MaxContentLength: v.GetInt("scrape.max_content_length"),
			Delay:            v.GetDuration("scrape.delay"),
		},
		Archive: types.ArchiveConfig{
			Dir: v.GetString("archive.dir"),
		},
		Server: types.ServerConfig{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
			Archive:        v.GetBool("server.archive"),
		},
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func Validate(cfg types.Config) error {
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive, got %s", cfg.Search.Timeout)
	}
	if cfg.Search.MaxRetries < 0 {
		return fmt.Errorf("search.max_retries must not be negative, got %d", cfg.Search.MaxRetries)
	}
	if cfg.Search.RateLimit < 0 {
		return fmt.Errorf("search.rate_limit must not be negative, got %v", cfg.Search.RateLimit)
	}
	if _, err := registry.MatcherByName(cfg.Registry.Matcher); err != nil {
		return err
	}
	if cfg.Aggregate.Parallelism < 1 {
		return fmt.Errorf("aggregate.parallelism must be at least 1, got %d", cfg.Aggregate.Parallelism)
	}
	if cfg.Scrape.MaxContentLength <= 0 {
		return fmt.Errorf("scrape.max_content_length must be positive, got %d", cfg.Scrape.MaxContentLength)
	}
	return nil
}

// LoadRegistry builds the registry the config selects: the file when set,
// the built-in lists otherwise, matched with the configured strategy.
func LoadRegistry(cfg types.RegistryConfig) (*registry.Registry, error) {
	m, err := registry.MatcherByName(cfg.Matcher)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		return registry.Load(cfg.File, registry.WithMatcher(m))
	}
	return registry.New(registry.DefaultSpec(), registry.WithMatcher(m))
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: use debug, info, warn or error", s)
	}
	return l, nil
}

// NewLogger returns a text logger on w at the given level.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
