// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package ingest crawls the Bluesky like graph around a target account and
// assembles the read-only snapshot the recommendation engine consumes. The
// crawl is two hops wide: the target's own likes seed a set of posts, and the
// accounts that also liked those posts become the candidate universe.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/compmotifs/likeminds/internal/bluesky"
	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/filter"
	"github.com/compmotifs/likeminds/internal/likestore"
	"github.com/compmotifs/likeminds/internal/metrics"
	"github.com/compmotifs/likeminds/internal/recommend"
)

// Fetcher is the slice of the Bluesky client the ingestor depends on.
type Fetcher interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
	ServiceEndpoint(ctx context.Context, did string) (string, error)
	Likes(ctx context.Context, pdsEndpoint, did string) ([]bluesky.Like, error)
	PostLikers(ctx context.Context, postURI string, maxLikers int) ([]bluesky.Actor, error)
	Follows(ctx context.Context, actor string) ([]bluesky.Actor, error)
	PostTexts(ctx context.Context, uris []string) (map[string]string, error)
}

// Snapshots is the slice of the snapshot store the ingestor depends on.
type Snapshots interface {
	GetLikes(ctx context.Context, user recommend.User) (recommend.LikeSet, error)
	PutLikes(ctx context.Context, user recommend.User, set recommend.LikeSet) error
	GetFollows(ctx context.Context, user recommend.User) (recommend.FollowSet, error)
	PutFollows(ctx context.Context, user recommend.User, set recommend.FollowSet) error
}

// Snapshot is the assembled like-graph neighborhood of one target account.
type Snapshot struct {
	// Target is the target account's DID.
	Target recommend.User

	// Handle is the handle the snapshot was requested for.
	Handle string

	// Likes maps every crawled user, the target included, to their like set.
	Likes map[recommend.User]recommend.LikeSet

	// Follows is the set of accounts the target already follows.
	Follows recommend.FollowSet

	// CoLikers is the number of candidate accounts crawled.
	CoLikers int

	// Dropped is the number of co-likers whose like sets could not be
	// fetched. The crawl continues past individual failures.
	Dropped int
}

// Ingestor assembles like-graph snapshots, reading through the TTL store so
// repeated requests for the same neighborhood reuse recent upstream fetches.
type Ingestor struct {
	fetcher    Fetcher
	store      Snapshots
	classifier *filter.Classifier
	cfg        config.IngestConfig
	logger     zerolog.Logger
}

// New creates an Ingestor. classifier may be nil to disable content filtering.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(fetcher Fetcher, store Snapshots, classifier *filter.Classifier, cfg config.IngestConfig, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		fetcher:    fetcher,
		store:      store,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger.With().Str("component", "ingest").Logger(),
	}
}

// Ingest crawls the like graph around the given handle and returns the
// snapshot. A target without any like history yields a snapshot whose Likes
// map contains only the target's empty set.
func (ing *Ingestor) Ingest(ctx context.Context, handle string) (*Snapshot, error) {
	start := time.Now()
	defer func() { metrics.IngestDuration.Observe(time.Since(start).Seconds()) }()

	did, err := ing.fetcher.ResolveHandle(ctx, handle)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("resolve").Inc()
		return nil, err
	}
	target := recommend.User(did)

	targetLikes, err := ing.userLikes(ctx, target)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("likes").Inc()
		return nil, fmt.Errorf("fetch target likes: %w", err)
	}
	if ing.classifier != nil {
		targetLikes = ing.filterScientific(ctx, targetLikes)
	}

	snap := &Snapshot{
		Target:  target,
		Handle:  handle,
		Likes:   map[recommend.User]recommend.LikeSet{target: targetLikes},
		Follows: recommend.FollowSet{},
	}

	if len(targetLikes) == 0 {
		ing.logger.Info().Str("handle", handle).Msg("target has no like history")
		return snap, nil
	}

	follows, err := ing.targetFollows(ctx, target)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("follows").Inc()
		return nil, fmt.Errorf("fetch follows: %w", err)
	}
	snap.Follows = follows

	coLikers, err := ing.coLikers(ctx, target, targetLikes)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("likers").Inc()
		return nil, fmt.Errorf("fetch co-likers: %w", err)
	}
	snap.CoLikers = len(coLikers)

	fetched, dropped := ing.fetchLikeSets(ctx, coLikers)
	for user, set := range fetched {
		snap.Likes[user] = set
	}
	snap.Dropped = dropped

	ing.logger.Info().
		Str("handle", handle).
		Str("did", did).
		Int("target_likes", len(targetLikes)).
		Int("co_likers", snap.CoLikers).
		Int("dropped", dropped).
		Dur("elapsed", time.Since(start)).
		Msg("ingestion complete")
	return snap, nil
}

// userLikes returns a user's like set, reading through the snapshot store.
func (ing *Ingestor) userLikes(ctx context.Context, user recommend.User) (recommend.LikeSet, error) {
	cached, err := ing.store.GetLikes(ctx, user)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, likestore.ErrNotFound) {
		return nil, err
	}

	pds, err := ing.fetcher.ServiceEndpoint(ctx, string(user))
	if err != nil {
		return nil, err
	}
	likes, err := ing.fetcher.Likes(ctx, pds, string(user))
	if err != nil {
		return nil, err
	}

	records := make([]recommend.LikeRecord, 0, len(likes))
	for _, like := range likes {
		rec := recommend.LikeRecord{User: user, LikedAt: like.CreatedAt}
		// Records with unparsable post URIs keep an empty Post and are
		// dropped and counted by BuildLikeSets.
		if ref, err := bluesky.ParsePostURI(like.PostURI); err == nil {
			rec.Post = recommend.Post(ref.WebURL())
		}
		records = append(records, rec)
	}

	sets, report := recommend.BuildLikeSets(records)
	if report.Dropped > 0 {
		metrics.IngestRecordsDropped.Add(float64(report.Dropped))
	}
	set := sets[user]
	if set == nil {
		set = recommend.LikeSet{}
	}

	if err := ing.store.PutLikes(ctx, user, set); err != nil {
		metrics.IngestErrors.WithLabelValues("store").Inc()
		ing.logger.Warn().Err(err).Str("user", string(user)).Msg("failed to cache like set")
	}
	metrics.IngestUsersFetched.Inc()
	return set, nil
}

// targetFollows returns the accounts the target follows, reading through the
// snapshot store.
func (ing *Ingestor) targetFollows(ctx context.Context, target recommend.User) (recommend.FollowSet, error) {
	cached, err := ing.store.GetFollows(ctx, target)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, likestore.ErrNotFound) {
		return nil, err
	}

	actors, err := ing.fetcher.Follows(ctx, string(target))
	if err != nil {
		return nil, err
	}
	set := make(recommend.FollowSet, len(actors))
	for _, actor := range actors {
		set[recommend.User(actor.DID)] = struct{}{}
	}

	if err := ing.store.PutFollows(ctx, target, set); err != nil {
		metrics.IngestErrors.WithLabelValues("store").Inc()
		ing.logger.Warn().Err(err).Str("user", string(target)).Msg("failed to cache follow set")
	}
	return set, nil
}

// coLikers returns the unique accounts, target excluded, that liked any of
// the target's most recent seed posts.
func (ing *Ingestor) coLikers(ctx context.Context, target recommend.User, targetLikes recommend.LikeSet) ([]recommend.User, error) {
	seeds := seedPosts(targetLikes, ing.cfg.MaxSeedPosts)

	seen := make(map[recommend.User]struct{})
	var coLikers []recommend.User

	for _, post := range seeds {
		if len(coLikers) >= ing.cfg.MaxCoLikers {
			break
		}
		ref, err := bluesky.ParsePostURL(string(post))
		if err != nil {
			continue
		}
		likers, err := ing.fetcher.PostLikers(ctx, ref.ATURI(), ing.cfg.MaxCoLikers)
		if err != nil {
			return nil, err
		}
		for _, actor := range likers {
			user := recommend.User(actor.DID)
			if user == target {
				continue
			}
			if _, ok := seen[user]; ok {
				continue
			}
			seen[user] = struct{}{}
			coLikers = append(coLikers, user)
			if len(coLikers) >= ing.cfg.MaxCoLikers {
				break
			}
		}
	}
	return coLikers, nil
}

// fetchLikeSets fetches like sets for all co-likers with a bounded worker
// pool. Individual failures drop the co-liker instead of failing the crawl.
func (ing *Ingestor) fetchLikeSets(ctx context.Context, coLikers []recommend.User) (map[recommend.User]recommend.LikeSet, int) {
	type result struct {
		user recommend.User
		set  recommend.LikeSet
		err  error
	}

	jobs := make(chan recommend.User)
	results := make(chan result)

	workers := ing.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for user := range jobs {
				set, err := ing.userLikes(ctx, user)
				results <- result{user: user, set: set, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, user := range coLikers {
			select {
			case jobs <- user:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	fetched := make(map[recommend.User]recommend.LikeSet, len(coLikers))
	dropped := 0
	for res := range results {
		if res.err != nil {
			dropped++
			metrics.IngestErrors.WithLabelValues("likes").Inc()
			ing.logger.Debug().Err(res.err).Str("user", string(res.user)).Msg("skipping co-liker")
			continue
		}
		fetched[res.user] = res.set
	}
	return fetched, dropped
}

// filterScientific restricts a like set to science-flavored posts, hydrating
// post text in batches. Posts whose text cannot be hydrated are kept when
// their URL alone matches a known science domain.
func (ing *Ingestor) filterScientific(ctx context.Context, set recommend.LikeSet) recommend.LikeSet {
	uris := make([]string, 0, len(set))
	uriToPost := make(map[string]recommend.Post, len(set))
	for post := range set {
		ref, err := bluesky.ParsePostURL(string(post))
		if err != nil {
			continue
		}
		uri := ref.ATURI()
		uris = append(uris, uri)
		uriToPost[uri] = post
	}
	sort.Strings(uris)

	texts, err := ing.fetcher.PostTexts(ctx, uris)
	if err != nil {
		ing.logger.Warn().Err(err).Msg("post text hydration failed, skipping content filter")
		return set
	}

	filtered := make(recommend.LikeSet)
	for uri, post := range uriToPost {
		if ing.classifier.IsScientific(texts[uri]) || ing.classifier.IsScientificURL(string(post)) {
			filtered[post] = set[post]
		}
	}
	return filtered
}

// seedPosts returns up to maxSeeds of the most recently liked posts, newest
// first, with the post identifier as a deterministic tie-break.
func seedPosts(set recommend.LikeSet, maxSeeds int) []recommend.Post {
	posts := set.Posts()
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := set[posts[i]], set[posts[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return posts[i] < posts[j]
	})
	if maxSeeds > 0 && len(posts) > maxSeeds {
		posts = posts[:maxSeeds]
	}
	return posts
}
