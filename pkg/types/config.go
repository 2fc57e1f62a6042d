// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "credible-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the web search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the Serper.dev API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Country is the Serper "gl" parameter (default "us").
	Country string `json:"country" yaml:"country"`

	// Language is the Serper "hl" parameter (default "en").
	Language string `json:"language" yaml:"language"`

	// MaxRetries is the number of retries for failed provider calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the base backoff between retries (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// RateLimit caps provider requests per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// CacheConfig holds settings for the optional provider response cache.
type CacheConfig struct {
	// RedisURL enables caching when set (e.g. "redis://localhost:6379/0").
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	// TTL is how long cached provider responses stay valid (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// RegistryConfig selects the credible-domain registry.
type RegistryConfig struct {
	// File is an optional YAML registry file. Empty uses the built-in registry.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Matcher selects the domain matching strategy: "substring" or "suffix".
	Matcher string `json:"matcher" yaml:"matcher"`
}

// AggregateConfig holds settings for multi-source research.
type AggregateConfig struct {
	// Parallelism bounds concurrent per-category searches. 1 runs them sequentially.
	Parallelism int `json:"parallelism" yaml:"parallelism"`
}

// ScrapeConfig holds settings for page scraping.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxContentLength caps extracted text in characters (default 5000).
	MaxContentLength int `json:"max_content_length" yaml:"max_content_length"`

	// Delay is the pause between consecutive pages in a batch (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// ArchiveConfig locates the SQLite run archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins lists CORS origins (default "http://localhost:3000").
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// Archive saves every API run to the archive when true.
	Archive bool `json:"archive" yaml:"archive"`
}

// Config groups all component configurations.
type Config struct {
	LogLevel  string          `json:"log_level" yaml:"log_level"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Registry  RegistryConfig  `json:"registry" yaml:"registry"`
	Aggregate AggregateConfig `json:"aggregate" yaml:"aggregate"`
	Scrape    ScrapeConfig    `json:"scrape" yaml:"scrape"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
