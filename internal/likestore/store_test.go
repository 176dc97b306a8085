// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package likestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/recommend"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	cfg := &config.StoreConfig{
		Path:       "", // in-memory
		TTL:        ttl,
		GCInterval: time.Minute,
	}
	s, err := Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestStore_LikesRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := recommend.LikeSet{
		"https://bsky.app/profile/did:plc:a/post/1": ts,
		"https://bsky.app/profile/did:plc:a/post/2": ts.Add(time.Hour),
	}

	if err := s.PutLikes(ctx, "did:plc:alice", want); err != nil {
		t.Fatalf("PutLikes: %v", err)
	}

	got, err := s.GetLikes(ctx, "did:plc:alice")
	if err != nil {
		t.Fatalf("GetLikes: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d likes, want %d", len(got), len(want))
	}
	for post, wantTime := range want {
		gotTime, ok := got[post]
		if !ok {
			t.Errorf("missing post %s", post)
			continue
		}
		if !gotTime.Equal(wantTime) {
			t.Errorf("post %s: timestamp %v, want %v", post, gotTime, wantTime)
		}
	}
}

func TestStore_GetLikesMissing(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_, err := s.GetLikes(context.Background(), "did:plc:nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_FollowsRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	want := recommend.FollowSet{
		"did:plc:bob":  {},
		"did:plc:carl": {},
	}
	if err := s.PutFollows(ctx, "did:plc:alice", want); err != nil {
		t.Fatalf("PutFollows: %v", err)
	}

	got, err := s.GetFollows(ctx, "did:plc:alice")
	if err != nil {
		t.Fatalf("GetFollows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d follows, want 2", len(got))
	}
	for user := range want {
		if _, ok := got[user]; !ok {
			t.Errorf("missing follow %s", user)
		}
	}
}

func TestStore_FollowsMissing(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_, err := s.GetFollows(context.Background(), "did:plc:nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UsersIsolated(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.PutLikes(ctx, "did:plc:alice", recommend.LikeSet{"p1": time.Now()}); err != nil {
		t.Fatalf("PutLikes: %v", err)
	}

	if _, err := s.GetLikes(ctx, "did:plc:bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestStore_LikesAndFollowsSeparateKeyspaces(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.PutFollows(ctx, "did:plc:alice", recommend.FollowSet{"did:plc:bob": {}}); err != nil {
		t.Fatalf("PutFollows: %v", err)
	}

	// A follow snapshot must not satisfy a like lookup for the same user.
	if _, err := s.GetLikes(ctx, "did:plc:alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	first := recommend.LikeSet{"p1": time.Now()}
	second := recommend.LikeSet{"p2": time.Now(), "p3": time.Now()}

	if err := s.PutLikes(ctx, "did:plc:alice", first); err != nil {
		t.Fatalf("PutLikes: %v", err)
	}
	if err := s.PutLikes(ctx, "did:plc:alice", second); err != nil {
		t.Fatalf("PutLikes: %v", err)
	}

	got, err := s.GetLikes(ctx, "did:plc:alice")
	if err != nil {
		t.Fatalf("GetLikes: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d likes after overwrite, want 2", len(got))
	}
	if _, ok := got["p1"]; ok {
		t.Error("stale entry survived overwrite")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := newTestStore(t, 50*time.Millisecond)
	ctx := context.Background()

	if err := s.PutLikes(ctx, "did:plc:alice", recommend.LikeSet{"p1": time.Now()}); err != nil {
		t.Fatalf("PutLikes: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := s.GetLikes(ctx, "did:plc:alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after TTL expiry, got %v", err)
	}
}

func TestStore_RunGCStopsOnCancel(t *testing.T) {
	s := newTestStore(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunGC(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunGC did not stop after cancel")
	}
}
