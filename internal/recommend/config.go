// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Metric selects the similarity scorer: "jaccard", "overlap" or
	// "recency". The metric is fixed per engine because it changes ranking.
	// Default: "jaccard".
	Metric string `json:"metric"`

	// RecencyHalfLife is the decay half-life for the "recency" metric.
	// Zero disables decay (weight 1 for all shared posts), which is the
	// default and the behavior the other metrics always have.
	RecencyHalfLife time.Duration `json:"recency_half_life"`

	// DefaultTopN is the number of recommendations returned when a request
	// does not ask for a specific count. Default: 3.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps the per-request top-N. Default: 25.
	MaxTopN int `json:"max_top_n"`

	// IncludeOverlapPosts controls whether responses list the shared posts
	// behind each score. Default: true.
	IncludeOverlapPosts bool `json:"include_overlap_posts"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether responses are cached. Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live. Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses. Default: 1024.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Metric:              MetricJaccard,
		RecencyHalfLife:     0,
		DefaultTopN:         3,
		MaxTopN:             25,
		IncludeOverlapPosts: true,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Metric {
	case MetricJaccard, MetricOverlap, MetricRecency:
	default:
		return fmt.Errorf("metric must be one of jaccard, overlap, recency, got %q", c.Metric)
	}
	if c.RecencyHalfLife < 0 {
		return fmt.Errorf("recency_half_life must be non-negative, got %v", c.RecencyHalfLife)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("max_top_n must be >= default_top_n, got %d < %d", c.MaxTopN, c.DefaultTopN)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
