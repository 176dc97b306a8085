// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewScorer(t *testing.T) {
	tests := []struct {
		metric   string
		wantName string
		wantErr  bool
	}{
		{metric: MetricJaccard, wantName: "jaccard"},
		{metric: MetricOverlap, wantName: "overlap"},
		{metric: MetricRecency, wantName: "recency"},
		{metric: "cosine", wantErr: true},
		{metric: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			scorer, err := NewScorer(tt.metric, 0)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if scorer.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", scorer.Name(), tt.wantName)
			}
		})
	}
}

func TestJaccardScorer(t *testing.T) {
	tests := []struct {
		name      string
		target    LikeSet
		candidate LikeSet
		wantScore float64
		wantPosts []Post
	}{
		{
			name:      "partial overlap",
			target:    likes("p1", "p2", "p3"),
			candidate: likes("p1", "p2"),
			wantScore: 2.0 / 3.0,
			wantPosts: []Post{"p1", "p2"},
		},
		{
			name:      "identical sets score one",
			target:    likes("p1", "p2"),
			candidate: likes("p1", "p2"),
			wantScore: 1.0,
			wantPosts: []Post{"p1", "p2"},
		},
		{
			name:      "disjoint sets score zero",
			target:    likes("p1"),
			candidate: likes("p2"),
			wantScore: 0.0,
			wantPosts: []Post{},
		},
		{
			name:      "both empty scores zero",
			target:    LikeSet{},
			candidate: LikeSet{},
			wantScore: 0.0,
		},
		{
			name:      "single shared post among many",
			target:    likes("p1", "p2", "p3", "p4"),
			candidate: likes("p4", "p5"),
			wantScore: 1.0 / 5.0,
			wantPosts: []Post{"p4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, posts := JaccardScorer{}.Score(tt.target, tt.candidate)
			if !almostEqual(score, tt.wantScore) {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if len(tt.wantPosts) > 0 && !reflect.DeepEqual(posts, tt.wantPosts) {
				t.Errorf("posts = %v, want %v", posts, tt.wantPosts)
			}
			if score < 0 || score > 1 {
				t.Errorf("score %v outside [0, 1]", score)
			}
		})
	}
}

func TestJaccardScorer_Symmetric(t *testing.T) {
	a := likes("p1", "p2", "p3")
	b := likes("p2", "p3", "p4", "p5")

	ab, _ := JaccardScorer{}.Score(a, b)
	ba, _ := JaccardScorer{}.Score(b, a)
	if !almostEqual(ab, ba) {
		t.Errorf("score(a,b) = %v, score(b,a) = %v, want equal", ab, ba)
	}
}

func TestOverlapCoefficientScorer(t *testing.T) {
	tests := []struct {
		name      string
		target    LikeSet
		candidate LikeSet
		wantScore float64
	}{
		{
			name:      "small candidate fully contained scores one",
			target:    likes("p1", "p2", "p3", "p4"),
			candidate: likes("p1", "p2"),
			wantScore: 1.0,
		},
		{
			name:      "partial overlap divides by smaller set",
			target:    likes("p1", "p2", "p3"),
			candidate: likes("p1", "p9"),
			wantScore: 1.0 / 2.0,
		},
		{
			name:      "empty candidate scores zero",
			target:    likes("p1"),
			candidate: LikeSet{},
			wantScore: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := OverlapCoefficientScorer{}.Score(tt.target, tt.candidate)
			if !almostEqual(score, tt.wantScore) {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
		})
	}
}

func TestRecencyJaccardScorer(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("zero half-life reduces to jaccard", func(t *testing.T) {
		target := likes("p1", "p2", "p3")
		candidate := likes("p1", "p2")

		recency, _ := RecencyJaccardScorer{Now: clock}.Score(target, candidate)
		jaccard, _ := JaccardScorer{}.Score(target, candidate)
		if !almostEqual(recency, jaccard) {
			t.Errorf("recency = %v, jaccard = %v, want equal", recency, jaccard)
		}
	})

	t.Run("one half-life halves the weight", func(t *testing.T) {
		target := LikeSet{"p1": now.Add(-24 * time.Hour), "p2": now}
		candidate := LikeSet{"p1": now.Add(-24 * time.Hour)}

		scorer := RecencyJaccardScorer{HalfLife: 24 * time.Hour, Now: clock}
		score, _ := scorer.Score(target, candidate)
		// Shared post is one half-life old: weight 0.5, union size 2.
		if !almostEqual(score, 0.25) {
			t.Errorf("score = %v, want 0.25", score)
		}
	})

	t.Run("fresh likes carry full weight", func(t *testing.T) {
		target := LikeSet{"p1": now}
		candidate := LikeSet{"p1": now}

		scorer := RecencyJaccardScorer{HalfLife: time.Hour, Now: clock}
		score, _ := scorer.Score(target, candidate)
		if !almostEqual(score, 1.0) {
			t.Errorf("score = %v, want 1.0", score)
		}
	})

	t.Run("later of the two timestamps wins", func(t *testing.T) {
		target := LikeSet{"p1": now.Add(-48 * time.Hour)}
		candidate := LikeSet{"p1": now}

		scorer := RecencyJaccardScorer{HalfLife: 24 * time.Hour, Now: clock}
		score, _ := scorer.Score(target, candidate)
		// Candidate liked it just now, so no decay applies.
		if !almostEqual(score, 1.0) {
			t.Errorf("score = %v, want 1.0", score)
		}
	})
}

func TestScorers_MonotonicInOverlap(t *testing.T) {
	// With the candidate set fixed, a larger overlap never lowers the score.
	candidate := likes("p1", "p2", "p3", "p4")
	targets := []LikeSet{
		likes("x1", "x2", "x3", "x4"),
		likes("p1", "x2", "x3", "x4"),
		likes("p1", "p2", "x3", "x4"),
		likes("p1", "p2", "p3", "x4"),
		likes("p1", "p2", "p3", "p4"),
	}

	clock := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	scorers := []Scorer{
		JaccardScorer{},
		OverlapCoefficientScorer{},
		RecencyJaccardScorer{HalfLife: 24 * time.Hour, Now: clock},
	}

	for _, scorer := range scorers {
		prev := -1.0
		for i, target := range targets {
			score, _ := scorer.Score(target, candidate)
			if score < prev {
				t.Errorf("%s: overlap %d scored %v, below overlap %d score %v", scorer.Name(), i, score, i-1, prev)
			}
			prev = score
		}
	}
}

func TestIntersect_Sorted(t *testing.T) {
	a := likes("p3", "p1", "p2", "p9")
	b := likes("p2", "p3", "p1")

	got := intersect(a, b)
	want := []Post{"p1", "p2", "p3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
