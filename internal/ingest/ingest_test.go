// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/compmotifs/likeminds/internal/bluesky"
	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/filter"
	"github.com/compmotifs/likeminds/internal/likestore"
	"github.com/compmotifs/likeminds/internal/metrics"
	"github.com/compmotifs/likeminds/internal/recommend"
)

// fakeFetcher serves canned like-graph data from memory.
type fakeFetcher struct {
	mu sync.Mutex

	dids    map[string]string          // handle -> DID
	likes   map[string][]bluesky.Like  // DID -> likes
	likers  map[string][]bluesky.Actor // post at-URI -> likers
	follows map[string][]bluesky.Actor // DID -> follows
	texts   map[string]string          // post at-URI -> text

	likesCalls map[string]int
	resolveErr error
	likesErr   map[string]error
	textsErr   error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		dids:       make(map[string]string),
		likes:      make(map[string][]bluesky.Like),
		likers:     make(map[string][]bluesky.Actor),
		follows:    make(map[string][]bluesky.Actor),
		texts:      make(map[string]string),
		likesCalls: make(map[string]int),
		likesErr:   make(map[string]error),
	}
}

func (f *fakeFetcher) ResolveHandle(_ context.Context, handle string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	if did, ok := f.dids[handle]; ok {
		return did, nil
	}
	return "", bluesky.ErrHandleNotFound
}

func (f *fakeFetcher) ServiceEndpoint(_ context.Context, _ string) (string, error) {
	return "https://pds.example", nil
}

func (f *fakeFetcher) Likes(_ context.Context, _, did string) ([]bluesky.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likesCalls[did]++
	if err := f.likesErr[did]; err != nil {
		return nil, err
	}
	return f.likes[did], nil
}

func (f *fakeFetcher) PostLikers(_ context.Context, postURI string, maxLikers int) ([]bluesky.Actor, error) {
	likers := f.likers[postURI]
	if len(likers) > maxLikers {
		likers = likers[:maxLikers]
	}
	return likers, nil
}

func (f *fakeFetcher) Follows(_ context.Context, actor string) ([]bluesky.Actor, error) {
	return f.follows[actor], nil
}

func (f *fakeFetcher) PostTexts(_ context.Context, uris []string) (map[string]string, error) {
	if f.textsErr != nil {
		return nil, f.textsErr
	}
	out := make(map[string]string, len(uris))
	for _, uri := range uris {
		if text, ok := f.texts[uri]; ok {
			out[uri] = text
		}
	}
	return out, nil
}

func newTestStore(t *testing.T) *likestore.Store {
	t.Helper()
	s, err := likestore.Open(&config.StoreConfig{TTL: time.Hour, GCInterval: time.Minute}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testConfig() config.IngestConfig {
	return config.IngestConfig{Workers: 2, MaxCoLikers: 10, MaxSeedPosts: 10}
}

func like(did, rkey string, at time.Time) bluesky.Like {
	return bluesky.Like{
		PostURI:   "at://" + did + "/app.bsky.feed.post/" + rkey,
		CreatedAt: at,
	}
}

func webPost(did, rkey string) recommend.Post {
	return recommend.Post("https://bsky.app/profile/" + did + "/post/" + rkey)
}

// seedGraph wires a small neighborhood: alice liked two posts by the author
// account, bob and carol also liked the first one, and alice follows carol.
func seedGraph(f *fakeFetcher) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.dids["alice.example"] = "did:plc:alice"
	f.likes["did:plc:alice"] = []bluesky.Like{
		like("did:plc:author", "p1", now),
		like("did:plc:author", "p2", now.Add(-time.Hour)),
	}
	f.likers["at://did:plc:author/app.bsky.feed.post/p1"] = []bluesky.Actor{
		{DID: "did:plc:bob", Handle: "bob.example"},
		{DID: "did:plc:carol", Handle: "carol.example"},
	}
	f.likes["did:plc:bob"] = []bluesky.Like{like("did:plc:author", "p1", now)}
	f.likes["did:plc:carol"] = []bluesky.Like{
		like("did:plc:author", "p1", now),
		like("did:plc:author", "p2", now),
	}
	f.follows["did:plc:alice"] = []bluesky.Actor{{DID: "did:plc:carol", Handle: "carol.example"}}
}

func TestIngest_AssemblesSnapshot(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if snap.Target != "did:plc:alice" {
		t.Errorf("target = %s, want did:plc:alice", snap.Target)
	}
	if snap.Handle != "alice.example" {
		t.Errorf("handle = %s", snap.Handle)
	}
	if len(snap.Likes) != 3 {
		t.Fatalf("got %d like sets, want 3 (target + 2 co-likers)", len(snap.Likes))
	}

	targetSet := snap.Likes["did:plc:alice"]
	if len(targetSet) != 2 {
		t.Errorf("target like set has %d posts, want 2", len(targetSet))
	}
	if !targetSet.Contains(webPost("did:plc:author", "p1")) {
		t.Error("target like set missing p1 as web URL")
	}

	if len(snap.Likes["did:plc:carol"]) != 2 {
		t.Errorf("carol like set has %d posts, want 2", len(snap.Likes["did:plc:carol"]))
	}
	if snap.CoLikers != 2 {
		t.Errorf("co-likers = %d, want 2", snap.CoLikers)
	}
	if snap.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", snap.Dropped)
	}
	if !snap.Follows.Contains("did:plc:carol") {
		t.Error("follow set missing carol")
	}
}

func TestIngest_NormalizesFetchedLikes(t *testing.T) {
	f := newFakeFetcher()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.dids["alice.example"] = "did:plc:alice"
	f.likes["did:plc:alice"] = []bluesky.Like{
		like("did:plc:author", "p1", now.Add(-time.Hour)),
		like("did:plc:author", "p1", now),
		{PostURI: "not-a-post-uri", CreatedAt: now},
	}
	droppedBefore := testutil.ToFloat64(metrics.IngestRecordsDropped)
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	targetSet := snap.Likes["did:plc:alice"]
	if len(targetSet) != 1 {
		t.Fatalf("target like set has %d posts, want 1 (re-like deduplicated, bad URI dropped)", len(targetSet))
	}
	if ts := targetSet[webPost("did:plc:author", "p1")]; !ts.Equal(now) {
		t.Errorf("deduplicated timestamp = %v, want latest %v", ts, now)
	}
	if got := testutil.ToFloat64(metrics.IngestRecordsDropped) - droppedBefore; got != 1 {
		t.Errorf("ingest_records_dropped_total increased by %v, want 1", got)
	}
}

func TestIngest_UnknownHandle(t *testing.T) {
	f := newFakeFetcher()
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	_, err := ing.Ingest(context.Background(), "ghost.example")
	if !errors.Is(err, bluesky.ErrHandleNotFound) {
		t.Errorf("expected ErrHandleNotFound, got %v", err)
	}
}

func TestIngest_NoLikeHistory(t *testing.T) {
	f := newFakeFetcher()
	f.dids["quiet.example"] = "did:plc:quiet"
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "quiet.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(snap.Likes) != 1 {
		t.Fatalf("got %d like sets, want only the target's", len(snap.Likes))
	}
	if len(snap.Likes["did:plc:quiet"]) != 0 {
		t.Error("target like set should be empty")
	}
	if snap.CoLikers != 0 {
		t.Errorf("co-likers = %d, want 0", snap.CoLikers)
	}
}

func TestIngest_CoLikerFailureDropsNotFails(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	f.likesErr["did:plc:bob"] = errors.New("pds unreachable")
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if snap.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", snap.Dropped)
	}
	if _, ok := snap.Likes["did:plc:bob"]; ok {
		t.Error("failed co-liker should be absent from snapshot")
	}
	if _, ok := snap.Likes["did:plc:carol"]; !ok {
		t.Error("healthy co-liker missing from snapshot")
	}
}

func TestIngest_SecondRunServedFromStore(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	if _, err := ing.Ingest(context.Background(), "alice.example"); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	if _, err := ing.Ingest(context.Background(), "alice.example"); err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for did, calls := range f.likesCalls {
		if calls != 1 {
			t.Errorf("likes fetched %d times for %s, want 1 (store should serve repeat)", calls, did)
		}
	}
}

func TestIngest_MaxCoLikersCap(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	post := "at://did:plc:author/app.bsky.feed.post/p1"
	f.likers[post] = []bluesky.Actor{
		{DID: "did:plc:u1"}, {DID: "did:plc:u2"}, {DID: "did:plc:u3"},
	}

	cfg := testConfig()
	cfg.MaxCoLikers = 2
	ing := New(f, newTestStore(t), nil, cfg, zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if snap.CoLikers != 2 {
		t.Errorf("co-likers = %d, want 2 (capped)", snap.CoLikers)
	}
}

func TestIngest_TargetExcludedFromCoLikers(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	post := "at://did:plc:author/app.bsky.feed.post/p1"
	f.likers[post] = append([]bluesky.Actor{{DID: "did:plc:alice"}}, f.likers[post]...)
	ing := New(f, newTestStore(t), nil, testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if snap.CoLikers != 2 {
		t.Errorf("co-likers = %d, want 2 (target must not count itself)", snap.CoLikers)
	}
}

func TestIngest_ScienceFilter(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	f.texts["at://did:plc:author/app.bsky.feed.post/p1"] = "New preprint on arxiv about protein folding"
	f.texts["at://did:plc:author/app.bsky.feed.post/p2"] = "what a lovely sunset"

	ing := New(f, newTestStore(t), filter.New(nil, nil), testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	targetSet := snap.Likes["did:plc:alice"]
	if len(targetSet) != 1 {
		t.Fatalf("filtered like set has %d posts, want 1", len(targetSet))
	}
	if !targetSet.Contains(webPost("did:plc:author", "p1")) {
		t.Error("science post filtered out")
	}
}

func TestIngest_ScienceFilterSkippedOnHydrationFailure(t *testing.T) {
	f := newFakeFetcher()
	seedGraph(f)
	f.textsErr = errors.New("getPosts unavailable")

	ing := New(f, newTestStore(t), filter.New(nil, nil), testConfig(), zerolog.Nop())

	snap, err := ing.Ingest(context.Background(), "alice.example")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(snap.Likes["did:plc:alice"]) != 2 {
		t.Error("filter should be skipped when hydration fails")
	}
}

func TestSeedPosts_NewestFirstAndCapped(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	set := recommend.LikeSet{
		"https://bsky.app/profile/a/post/old":    base,
		"https://bsky.app/profile/a/post/newer":  base.Add(time.Hour),
		"https://bsky.app/profile/a/post/newest": base.Add(2 * time.Hour),
	}

	seeds := seedPosts(set, 2)
	if len(seeds) != 2 {
		t.Fatalf("got %d seeds, want 2", len(seeds))
	}
	if seeds[0] != "https://bsky.app/profile/a/post/newest" {
		t.Errorf("first seed = %s, want newest", seeds[0])
	}
	if seeds[1] != "https://bsky.app/profile/a/post/newer" {
		t.Errorf("second seed = %s, want newer", seeds[1])
	}
}

func TestSeedPosts_TieBreakDeterministic(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	set := recommend.LikeSet{
		"https://bsky.app/profile/a/post/b": ts,
		"https://bsky.app/profile/a/post/a": ts,
	}
	for i := 0; i < 10; i++ {
		seeds := seedPosts(set, 0)
		if seeds[0] != "https://bsky.app/profile/a/post/a" {
			t.Fatalf("run %d: tie-break not deterministic, got %s first", i, seeds[0])
		}
	}
}
