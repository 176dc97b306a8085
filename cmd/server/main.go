// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package main is the entry point for the LikeMinds server.
//
// LikeMinds recommends Bluesky accounts to follow based on like overlap: it
// crawls the like graph around a target account and ranks the accounts that
// liked the same posts by set-similarity of their like histories.
//
// # Startup order
//
//  1. Configuration: layered load via Koanf v2 (defaults, config file,
//     environment variables)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Snapshot store: BadgerDB cache of fetched like and follow sets
//  4. Bluesky client: rate-limited XRPC client with a circuit breaker
//  5. Supervision tree: store maintenance and the HTTP server under suture
//
// # Configuration
//
// Environment variables override the config file, which overrides defaults.
// Commonly used variables:
//
//	HTTP_PORT=8080
//	LOG_LEVEL=info
//	STORE_PATH=/data/likeminds/store
//	BLUESKY_API_BASE=https://public.api.bsky.app
//	RECOMMEND_METRIC=jaccard
//	FILTER_ENABLED=false
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the supervision tree stops its services, and the
// snapshot store closes cleanly.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/compmotifs/likeminds/internal/api"
	"github.com/compmotifs/likeminds/internal/bluesky"
	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/filter"
	"github.com/compmotifs/likeminds/internal/ingest"
	"github.com/compmotifs/likeminds/internal/likestore"
	"github.com/compmotifs/likeminds/internal/logging"
	"github.com/compmotifs/likeminds/internal/recommend"
	"github.com/compmotifs/likeminds/internal/supervisor"
	"github.com/compmotifs/likeminds/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("api_base", cfg.Bluesky.APIBase).
		Str("metric", cfg.Recommend.Metric).
		Bool("filter_enabled", cfg.Filter.Enabled).
		Msg("starting likeminds")

	store, err := likestore.Open(&cfg.Store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("failed to open snapshot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing snapshot store")
		}
	}()

	client := bluesky.NewClient(&cfg.Bluesky, logging.Logger())

	var classifier *filter.Classifier
	if cfg.Filter.Enabled {
		classifier = filter.New(cfg.Filter.ExtraDomains, cfg.Filter.ExtraKeywords)
		logging.Info().
			Int("extra_domains", len(cfg.Filter.ExtraDomains)).
			Int("extra_keywords", len(cfg.Filter.ExtraKeywords)).
			Msg("science content filter enabled")
	}

	ingestor := ingest.New(client, store, classifier, cfg.Ingest, logging.Logger())

	engine, err := recommend.NewEngine(&recommend.Config{
		Metric:              cfg.Recommend.Metric,
		RecencyHalfLife:     cfg.Recommend.RecencyHalfLife,
		DefaultTopN:         cfg.Recommend.DefaultTopN,
		MaxTopN:             cfg.Recommend.MaxTopN,
		IncludeOverlapPosts: cfg.Recommend.IncludeOverlapPosts,
		Cache: recommend.CacheConfig{
			Enabled:    cfg.Recommend.CacheTTL > 0,
			TTL:        cfg.Recommend.CacheTTL,
			MaxEntries: cfg.Recommend.CacheMaxEntries,
		},
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create recommendation engine")
	}

	handler := api.NewHandler(ingestor, engine, logging.Logger())
	router := api.NewRouter(handler, &cfg.API)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewStoreGCService(store))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("serving")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited with error")
	}
	logging.Info().Msg("shutdown complete")
}
