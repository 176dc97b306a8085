// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package likestore persists per-user like-set and follow-set snapshots in
// BadgerDB with a freshness TTL. Snapshots let repeated recommendation
// requests reuse recently fetched upstream data instead of re-crawling the
// like graph. Expired entries vanish via Badger's native TTL; value-log
// garbage collection runs in the background.
package likestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/metrics"
	"github.com/compmotifs/likeminds/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	likesKeyPrefix   = "likes:"
	followsKeyPrefix = "follows:"
)

// ErrNotFound indicates no fresh snapshot exists for the user.
var ErrNotFound = errors.New("snapshot not found")

// Store is a TTL snapshot store backed by BadgerDB. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	gcIvl  time.Duration
	logger zerolog.Logger
}

// Open opens or creates the store. An empty path opens an in-memory
// database, used by tests and throwaway deployments.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg *config.StoreConfig, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger is noisy; all store logging goes through zerolog.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &Store{
		db:     db,
		ttl:    cfg.TTL,
		gcIvl:  cfg.GCInterval,
		logger: logger.With().Str("component", "likestore").Logger(),
	}, nil
}

// GetLikes returns the cached like set for a user, or ErrNotFound when no
// fresh snapshot exists.
func (s *Store) GetLikes(_ context.Context, user recommend.User) (recommend.LikeSet, error) {
	var set recommend.LikeSet
	err := s.get(likesKeyPrefix+string(user), &set)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// PutLikes stores a like-set snapshot with the configured TTL.
func (s *Store) PutLikes(_ context.Context, user recommend.User, set recommend.LikeSet) error {
	return s.put(likesKeyPrefix+string(user), set)
}

// GetFollows returns the cached follow set for a user, or ErrNotFound.
func (s *Store) GetFollows(_ context.Context, user recommend.User) (recommend.FollowSet, error) {
	var set recommend.FollowSet
	err := s.get(followsKeyPrefix+string(user), &set)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// PutFollows stores a follow-set snapshot with the configured TTL.
func (s *Store) PutFollows(_ context.Context, user recommend.User, set recommend.FollowSet) error {
	return s.put(followsKeyPrefix+string(user), set)
}

func (s *Store) get(key string, result interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, result)
		})
	})

	if errors.Is(err, ErrNotFound) {
		metrics.StoreMisses.Inc()
		return err
	}
	if err != nil {
		return err
	}
	metrics.StoreHits.Inc()
	return nil
}

func (s *Store) put(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
}

// RunGC runs Badger value-log garbage collection on the configured interval
// until the context is cancelled. Intended to run under the supervision tree.
func (s *Store) RunGC(ctx context.Context) error {
	ticker := time.NewTicker(s.gcIvl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.gcPass()
		}
	}
}

// gcPass runs value-log GC until Badger reports nothing left to rewrite.
func (s *Store) gcPass() {
	for {
		err := s.db.RunValueLogGC(0.5)
		if err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn().Err(err).Msg("value log GC failed")
			}
			return
		}
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
