// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/compmotifs/likeminds/internal/metrics"
)

// Engine runs the recommendation pipeline. It is safe for concurrent use:
// each Recommend call reads its request snapshot and allocates local
// outputs, with the response cache as the only shared state.
type Engine struct {
	config *Config
	logger zerolog.Logger
	scorer Scorer

	// Response cache
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex

	// Metrics
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
}

// cacheEntry holds a cached recommendation.
type cacheEntry struct {
	rec       *Recommendation
	expiresAt time.Time
}

// NewEngine creates a recommendation engine with the configured scorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	scorer, err := NewScorer(cfg.Metric, cfg.RecencyHalfLife)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		scorer: scorer,
		cache:  make(map[string]cacheEntry),
	}, nil
}

// Scorer returns the engine's similarity scorer.
func (e *Engine) Scorer() Scorer {
	return e.scorer
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend computes the top-N most like-minded users for the request
// target. The target user and every member of the exclude set are never
// returned. A target with no like history yields an empty recommendation
// with StatusNoLikeHistory, not an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)

	topN := req.TopN
	if topN == 0 {
		topN = e.config.DefaultTopN
	}
	if topN > e.config.MaxTopN {
		topN = e.config.MaxTopN
	}
	if topN <= 0 {
		return nil, &InvalidTopNError{TopN: topN}
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("target", string(req.Target)).
		Int("top_n", topN).
		Logger()

	targetLikes := req.Likes[req.Target]
	if len(targetLikes) == 0 {
		logger.Debug().Msg("target has no like history")
		return e.emptyRecommendation(req, StatusNoLikeHistory, start), nil
	}

	if rec := e.checkCache(e.cacheKey(req, topN), req.RequestID, start); rec != nil {
		e.cacheHits.Add(1)
		metrics.RecommendCacheHits.Inc()
		logger.Debug().Msg("cache hit")
		return rec, nil
	}
	e.cacheMisses.Add(1)

	candidates := AssembleCandidates(req.Target, targetLikes, req.Likes, req.Exclude)
	if len(candidates) == 0 {
		logger.Debug().Msg("no candidates share a liked post")
		return e.emptyRecommendation(req, StatusOK, start), nil
	}

	scores, err := e.scoreCandidates(ctx, targetLikes, req.Likes, candidates)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	entries, err := Rank(scores, topN)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		Target:          req.Target,
		Status:          StatusOK,
		Entries:         entries,
		TotalCandidates: len(candidates),
		Metadata:        e.buildMetadata(req, start, false),
	}
	e.storeCache(e.cacheKey(req, topN), rec)

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(entries)).
		Int64("latency_ms", rec.Metadata.LatencyMS).
		Msg("recommendation complete")

	return rec, nil
}

// Metrics returns the engine's request and cache counters.
func (e *Engine) Metrics() (requests, cacheHits, cacheMisses int64) {
	return e.requestCount.Load(), e.cacheHits.Load(), e.cacheMisses.Load()
}

// ClearCache removes all cached recommendations.
func (e *Engine) ClearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache = make(map[string]cacheEntry)
}

// prepareRequest fills in a request ID if the caller did not supply one.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("rec-%d", time.Now().UnixNano())
	}
	return req
}

// scoreCandidates scores every candidate against the target's like set.
// Candidates arrive sorted, so output order is deterministic.
func (e *Engine) scoreCandidates(ctx context.Context, targetLikes LikeSet, all map[User]LikeSet, candidates []User) ([]SimilarityScore, error) {
	scores := make([]SimilarityScore, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score, overlap := e.scorer.Score(targetLikes, all[candidate])
		entry := SimilarityScore{
			Candidate:    candidate,
			Score:        score,
			OverlapCount: len(overlap),
		}
		if e.config.IncludeOverlapPosts {
			entry.OverlapPosts = overlap
		}
		scores = append(scores, entry)
	}
	return scores, nil
}

// emptyRecommendation builds a response with no entries.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyRecommendation(req Request, status Status, start time.Time) *Recommendation {
	return &Recommendation{
		Target:          req.Target,
		Status:          status,
		Entries:         []SimilarityScore{},
		TotalCandidates: 0,
		Metadata:        e.buildMetadata(req, start, false),
	}
}

// buildMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildMetadata(req Request, start time.Time, cacheHit bool) Metadata {
	return Metadata{
		RequestID: req.RequestID,
		Scorer:    e.scorer.Name(),
		LatencyMS: time.Since(start).Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now(),
	}
}

// cacheKey identifies a cached response. Like data snapshots are not part of
// the key; the TTL bounds staleness instead.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request, topN int) string {
	return fmt.Sprintf("%s:%d:%s", req.Target, topN, e.scorer.Name())
}

// checkCache returns a copy of a valid cached recommendation, or nil.
func (e *Engine) checkCache(key, requestID string, start time.Time) *Recommendation {
	if !e.config.Cache.Enabled {
		return nil
	}

	e.cacheMu.RLock()
	entry, ok := e.cache[key]
	e.cacheMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}

	entries := make([]SimilarityScore, len(entry.rec.Entries))
	copy(entries, entry.rec.Entries)

	rec := &Recommendation{
		Target:          entry.rec.Target,
		Status:          entry.rec.Status,
		Entries:         entries,
		TotalCandidates: entry.rec.TotalCandidates,
		Metadata:        entry.rec.Metadata,
	}
	rec.Metadata.RequestID = requestID
	rec.Metadata.CacheHit = true
	rec.Metadata.LatencyMS = time.Since(start).Milliseconds()
	return rec
}

// storeCache stores a response. When the cache is full it first purges
// expired entries, and resets the whole map if every entry is still fresh,
// so MaxEntries is a hard bound.
func (e *Engine) storeCache(key string, rec *Recommendation) {
	if !e.config.Cache.Enabled {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		now := time.Now()
		for k, entry := range e.cache {
			if now.After(entry.expiresAt) {
				delete(e.cache, k)
			}
		}
		if len(e.cache) >= e.config.Cache.MaxEntries {
			e.cache = make(map[string]cacheEntry)
		}
	}

	e.cache[key] = cacheEntry{
		rec:       rec,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}
