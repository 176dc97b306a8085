// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"reflect"
	"testing"
	"time"
)

// likes builds a LikeSet with a fixed timestamp for each post.
func likes(posts ...Post) LikeSet {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	set := make(LikeSet, len(posts))
	for _, p := range posts {
		set[p] = at
	}
	return set
}

func TestAssembleCandidates(t *testing.T) {
	all := map[User]LikeSet{
		"target": likes("p1", "p2", "p3"),
		"u1":     likes("p1", "p2"),
		"u2":     likes("p1"),
		"u3":     likes("p9"),
	}

	tests := []struct {
		name    string
		target  User
		exclude FollowSet
		want    []User
	}{
		{
			name:   "users sharing a post are candidates",
			target: "target",
			want:   []User{"u1", "u2"},
		},
		{
			name:    "excluded users are removed from the pool",
			target:  "target",
			exclude: NewFollowSet("u2"),
			want:    []User{"u1"},
		},
		{
			name:    "excluding everyone yields an empty pool",
			target:  "target",
			exclude: NewFollowSet("u1", "u2"),
			want:    []User{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssembleCandidates(tt.target, all[tt.target], all, tt.exclude)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssembleCandidates_ExcludesTarget(t *testing.T) {
	all := map[User]LikeSet{
		"target": likes("p1"),
		"u1":     likes("p1"),
	}

	got := AssembleCandidates("target", all["target"], all, nil)
	for _, u := range got {
		if u == "target" {
			t.Fatal("candidate pool contains the target user")
		}
	}
	if len(got) != 1 || got[0] != "u1" {
		t.Errorf("got %v, want [u1]", got)
	}
}

func TestAssembleCandidates_NoSharedPosts(t *testing.T) {
	all := map[User]LikeSet{
		"target": likes("p1"),
		"u1":     likes("p2"),
		"u2":     likes("p3"),
	}

	if got := AssembleCandidates("target", all["target"], all, nil); len(got) != 0 {
		t.Errorf("got %v, want empty pool", got)
	}
}

func TestAssembleCandidates_EmptyTargetLikes(t *testing.T) {
	all := map[User]LikeSet{
		"target": {},
		"u1":     likes("p1"),
	}

	if got := AssembleCandidates("target", all["target"], all, nil); len(got) != 0 {
		t.Errorf("got %v, want empty pool", got)
	}
}

func TestAssembleCandidates_Deterministic(t *testing.T) {
	all := map[User]LikeSet{
		"target": likes("p1"),
		"u3":     likes("p1"),
		"u1":     likes("p1"),
		"u2":     likes("p1"),
	}

	first := AssembleCandidates("target", all["target"], all, nil)
	want := []User{"u1", "u2", "u3"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("got %v, want %v", first, want)
	}
	for i := 0; i < 10; i++ {
		if got := AssembleCandidates("target", all["target"], all, nil); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}
