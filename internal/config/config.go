// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package config provides layered configuration loading for LikeMinds.
//
// Configuration is loaded with koanf in three layers, later layers
// overriding earlier ones:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or a default search path)
//  3. Environment variables
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Bluesky   BlueskyConfig   `koanf:"bluesky"`
	Store     StoreConfig     `koanf:"store"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Recommend RecommendConfig `koanf:"recommend"`
	Filter    FilterConfig    `koanf:"filter"`
	API       APIConfig       `koanf:"api"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 8080
	Port int `koanf:"port"`

	// Timeout bounds request read and write time. Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 15s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level. Default: info
	Level string `koanf:"level"`

	// Format is json or console. Default: json
	Format string `koanf:"format"`

	// Caller includes caller file:line in logs. Default: false
	Caller bool `koanf:"caller"`
}

// BlueskyConfig configures the Bluesky AT Protocol client.
type BlueskyConfig struct {
	// APIBase is the public XRPC endpoint. Default: https://public.api.bsky.app
	APIBase string `koanf:"api_base"`

	// PLCDirectory resolves DIDs to PDS endpoints. Default: https://plc.directory
	PLCDirectory string `koanf:"plc_directory"`

	// Timeout is the per-request HTTP timeout. Default: 15s
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the request budget per second. Default: 10
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the rate limiter burst. Default: 20
	RateBurst int `koanf:"rate_burst"`

	// PageSize is the records-per-page for paged endpoints. Default: 100
	PageSize int `koanf:"page_size"`

	// MaxLikePages caps pagination when fetching a user's likes. Default: 10
	MaxLikePages int `koanf:"max_like_pages"`

	// BreakerFailureThreshold trips the circuit breaker after this many
	// consecutive upstream failures. Default: 5
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold"`

	// BreakerCooldown is how long the breaker stays open. Default: 30s
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// StoreConfig configures the persistent like-set snapshot store.
type StoreConfig struct {
	// Path is the Badger database directory. Empty means in-memory.
	Path string `koanf:"path"`

	// TTL is how long cached like sets stay fresh. Default: 1h
	TTL time.Duration `koanf:"ttl"`

	// GCInterval is how often value-log garbage collection runs. Default: 10m
	GCInterval time.Duration `koanf:"gc_interval"`
}

// IngestConfig configures like-graph ingestion.
type IngestConfig struct {
	// Workers is the number of concurrent fetch workers. Default: 4
	Workers int `koanf:"workers"`

	// MaxCoLikers caps how many likers are fetched per seed post. Default: 100
	MaxCoLikers int `koanf:"max_co_likers"`

	// MaxSeedPosts caps how many of the target's liked posts seed the
	// candidate crawl. Default: 50
	MaxSeedPosts int `koanf:"max_seed_posts"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// Metric selects the similarity scorer: jaccard, overlap or recency.
	// Default: jaccard
	Metric string `koanf:"metric"`

	// RecencyHalfLife is the decay half-life for the recency metric.
	// Default: 0 (no decay)
	RecencyHalfLife time.Duration `koanf:"recency_half_life"`

	// DefaultTopN is the recommendation count when unspecified. Default: 3
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps per-request top-N. Default: 25
	MaxTopN int `koanf:"max_top_n"`

	// IncludeOverlapPosts lists shared posts in responses. Default: true
	IncludeOverlapPosts bool `koanf:"include_overlap_posts"`

	// CacheTTL is the response cache TTL. Zero disables caching. Default: 5m
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CacheMaxEntries bounds the response cache. Default: 1024
	CacheMaxEntries int `koanf:"cache_max_entries"`
}

// FilterConfig configures the science-content post filter.
type FilterConfig struct {
	// Enabled restricts like sets to science-flavored posts. Default: false
	Enabled bool `koanf:"enabled"`

	// ExtraDomains adds domains to the built-in science domain list.
	ExtraDomains []string `koanf:"extra_domains"`

	// ExtraKeywords adds keywords to the built-in science keyword list.
	ExtraKeywords []string `koanf:"extra_keywords"`
}

// APIConfig configures API surface behavior.
type APIConfig struct {
	// RateLimitReqs is the per-IP request budget per window. Default: 60
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate-limit window. Default: 1m
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins. Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`
}

// defaultConfig returns a Config with all default values. Defaults load
// first; the config file and environment override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Bluesky: BlueskyConfig{
			APIBase:                 "https://public.api.bsky.app",
			PLCDirectory:            "https://plc.directory",
			Timeout:                 15 * time.Second,
			RateLimit:               10,
			RateBurst:               20,
			PageSize:                100,
			MaxLikePages:            10,
			BreakerFailureThreshold: 5,
			BreakerCooldown:         30 * time.Second,
		},
		Store: StoreConfig{
			Path:       "/data/likeminds/store",
			TTL:        time.Hour,
			GCInterval: 10 * time.Minute,
		},
		Ingest: IngestConfig{
			Workers:      4,
			MaxCoLikers:  100,
			MaxSeedPosts: 50,
		},
		Recommend: RecommendConfig{
			Metric:              "jaccard",
			RecencyHalfLife:     0,
			DefaultTopN:         3,
			MaxTopN:             25,
			IncludeOverlapPosts: true,
			CacheTTL:            5 * time.Minute,
			CacheMaxEntries:     1024,
		},
		Filter: FilterConfig{
			Enabled: false,
		},
		API: APIConfig{
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}
