// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/likeminds/config.yaml",
	"/etc/likeminds/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration with layered precedence: env > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are config paths parsed as comma-separated slices when
// they arrive through the environment.
var sliceConfigPaths = []string{
	"api.cors_origins",
	"filter.extra_domains",
	"filter.extra_keywords",
}

// processSliceFields splits comma-separated env values for known slice paths.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config paths.
// Unmapped variables are skipped so arbitrary environment noise cannot
// pollute the configuration.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"http_host":                "server.host",
		"http_port":                "server.port",
		"http_timeout":             "server.timeout",
		"http_shutdown_timeout":    "server.shutdown_timeout",
		"log_level":                "logging.level",
		"log_format":               "logging.format",
		"log_caller":               "logging.caller",
		"bluesky_api_base":         "bluesky.api_base",
		"bluesky_plc_directory":    "bluesky.plc_directory",
		"bluesky_timeout":          "bluesky.timeout",
		"bluesky_rate_limit":       "bluesky.rate_limit",
		"bluesky_rate_burst":       "bluesky.rate_burst",
		"bluesky_page_size":        "bluesky.page_size",
		"bluesky_max_like_pages":   "bluesky.max_like_pages",
		"bluesky_breaker_failures": "bluesky.breaker_failure_threshold",
		"bluesky_breaker_cooldown": "bluesky.breaker_cooldown",
		"store_path":               "store.path",
		"store_ttl":                "store.ttl",
		"store_gc_interval":        "store.gc_interval",
		"ingest_workers":           "ingest.workers",
		"ingest_max_co_likers":     "ingest.max_co_likers",
		"ingest_max_seed_posts":    "ingest.max_seed_posts",
		"recommend_metric":         "recommend.metric",
		"recommend_half_life":      "recommend.recency_half_life",
		"recommend_default_top_n":  "recommend.default_top_n",
		"recommend_max_top_n":      "recommend.max_top_n",
		"recommend_overlap_posts":  "recommend.include_overlap_posts",
		"recommend_cache_ttl":      "recommend.cache_ttl",
		"recommend_cache_entries":  "recommend.cache_max_entries",
		"filter_enabled":           "filter.enabled",
		"filter_extra_domains":     "filter.extra_domains",
		"filter_extra_keywords":    "filter.extra_keywords",
		"rate_limit_requests":      "api.rate_limit_reqs",
		"rate_limit_window":        "api.rate_limit_window",
		"cors_origins":             "api.cors_origins",
	}

	if mapped, ok := mappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
