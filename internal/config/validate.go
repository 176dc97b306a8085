// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors. It is called automatically
// by Load but exported so tests and tools can validate hand-built configs.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if err := validateURL("bluesky.api_base", c.Bluesky.APIBase); err != nil {
		return err
	}
	if err := validateURL("bluesky.plc_directory", c.Bluesky.PLCDirectory); err != nil {
		return err
	}
	if c.Bluesky.Timeout <= 0 {
		return fmt.Errorf("bluesky.timeout must be positive, got %v", c.Bluesky.Timeout)
	}
	if c.Bluesky.RateLimit <= 0 {
		return fmt.Errorf("bluesky.rate_limit must be positive, got %v", c.Bluesky.RateLimit)
	}
	if c.Bluesky.RateBurst < 1 {
		return fmt.Errorf("bluesky.rate_burst must be positive, got %d", c.Bluesky.RateBurst)
	}
	if c.Bluesky.PageSize < 1 || c.Bluesky.PageSize > 100 {
		return fmt.Errorf("bluesky.page_size must be in [1, 100], got %d", c.Bluesky.PageSize)
	}
	if c.Bluesky.MaxLikePages < 1 {
		return fmt.Errorf("bluesky.max_like_pages must be positive, got %d", c.Bluesky.MaxLikePages)
	}
	if c.Bluesky.BreakerFailureThreshold < 1 {
		return fmt.Errorf("bluesky.breaker_failure_threshold must be positive, got %d", c.Bluesky.BreakerFailureThreshold)
	}

	if c.Store.TTL <= 0 {
		return fmt.Errorf("store.ttl must be positive, got %v", c.Store.TTL)
	}
	if c.Store.GCInterval <= 0 {
		return fmt.Errorf("store.gc_interval must be positive, got %v", c.Store.GCInterval)
	}

	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be positive, got %d", c.Ingest.Workers)
	}
	if c.Ingest.MaxCoLikers < 1 {
		return fmt.Errorf("ingest.max_co_likers must be positive, got %d", c.Ingest.MaxCoLikers)
	}
	if c.Ingest.MaxSeedPosts < 1 {
		return fmt.Errorf("ingest.max_seed_posts must be positive, got %d", c.Ingest.MaxSeedPosts)
	}

	switch c.Recommend.Metric {
	case "jaccard", "overlap", "recency":
	default:
		return fmt.Errorf("recommend.metric must be jaccard, overlap or recency, got %q", c.Recommend.Metric)
	}
	if c.Recommend.RecencyHalfLife < 0 {
		return fmt.Errorf("recommend.recency_half_life must be non-negative, got %v", c.Recommend.RecencyHalfLife)
	}
	if c.Recommend.DefaultTopN < 1 {
		return fmt.Errorf("recommend.default_top_n must be positive, got %d", c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("recommend.max_top_n must be >= default_top_n, got %d < %d",
			c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("recommend.cache_ttl must be non-negative, got %v", c.Recommend.CacheTTL)
	}
	if c.Recommend.CacheTTL > 0 && c.Recommend.CacheMaxEntries < 1 {
		return fmt.Errorf("recommend.cache_max_entries must be positive, got %d", c.Recommend.CacheMaxEntries)
	}

	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be positive, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive, got %v", c.API.RateLimitWindow)
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", field, raw)
	}
	return nil
}
