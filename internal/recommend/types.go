// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"sort"
	"time"
)

// User is an opaque stable user identifier (a Bluesky handle or DID).
type User string

// Post is an opaque stable post identifier (the canonical post URL).
// The engine never inspects post content.
type Post string

// LikeRecord is a single raw "liked post" record fetched from the social
// API. The engine treats it as immutable input.
type LikeRecord struct {
	// User is the account that liked the post.
	User User `json:"user"`

	// Post is the liked post.
	Post Post `json:"post"`

	// Text is the post text, if it was hydrated at fetch time.
	// Only used by content filters; the engine itself ignores it.
	Text string `json:"text,omitempty"`

	// LikedAt is when the like was created.
	LikedAt time.Time `json:"liked_at"`
}

// LikeSet is the set of posts one user liked, keyed by post identifier.
// The value is the like timestamp, retained for optional recency weighting.
type LikeSet map[Post]time.Time

// Contains reports whether the set contains the given post.
func (s LikeSet) Contains(p Post) bool {
	_, ok := s[p]
	return ok
}

// Posts returns the posts in the set, sorted ascending.
func (s LikeSet) Posts() []Post {
	posts := make([]Post, 0, len(s))
	for p := range s {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i] < posts[j] })
	return posts
}

// FollowSet is the set of users already followed by the target user.
// It is supplied externally and read-only to the engine.
type FollowSet map[User]struct{}

// NewFollowSet builds a FollowSet from a list of users.
func NewFollowSet(users ...User) FollowSet {
	set := make(FollowSet, len(users))
	for _, u := range users {
		set[u] = struct{}{}
	}
	return set
}

// Contains reports whether the set contains the given user.
func (f FollowSet) Contains(u User) bool {
	_, ok := f[u]
	return ok
}

// SimilarityScore is the scored overlap between the target and one candidate.
type SimilarityScore struct {
	// Candidate is the scored user.
	Candidate User `json:"candidate"`

	// Score is the similarity score, >= 0. For Jaccard it is in [0, 1].
	Score float64 `json:"score"`

	// OverlapCount is the number of posts liked by both users.
	OverlapCount int `json:"overlap_count"`

	// OverlapPosts lists the shared posts, sorted ascending.
	OverlapPosts []Post `json:"overlap_posts,omitempty"`
}

// Status classifies the outcome of a recommendation request.
type Status string

const (
	// StatusOK indicates a normally computed recommendation.
	StatusOK Status = "ok"

	// StatusNoLikeHistory indicates the target user has no liked posts, so
	// no candidates could be scored. Not an error: callers should surface
	// a friendly message instead of a failure.
	StatusNoLikeHistory Status = "no_like_history"
)

// Request is a single recommendation request.
type Request struct {
	// Target is the user to generate recommendations for.
	Target User `json:"target"`

	// Exclude is the set of users never returned as candidates, typically
	// the accounts the target already follows.
	Exclude FollowSet `json:"-"`

	// Likes maps every known user (including the target) to their like set.
	// The engine treats this as a read-only snapshot for the duration of
	// the request.
	Likes map[User]LikeSet `json:"-"`

	// TopN is the number of entries to return. Zero means the configured
	// default; negative values are rejected with InvalidTopNError.
	TopN int `json:"top_n,omitempty"`

	// RequestID is a unique identifier for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// Recommendation is the ordered result of one request.
type Recommendation struct {
	// Target is the user the recommendation is for.
	Target User `json:"target"`

	// Status is StatusOK or StatusNoLikeHistory.
	Status Status `json:"status"`

	// Entries is sorted descending by score with deterministic tie-breaks,
	// truncated to the requested top-N. Never padded.
	Entries []SimilarityScore `json:"entries"`

	// TotalCandidates is the size of the candidate pool before ranking.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata Metadata `json:"metadata"`
}

// Metadata contains timing and diagnostic information for one response.
type Metadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Scorer is the similarity metric used, e.g. "jaccard".
	Scorer string `json:"scorer"`

	// LatencyMS is the total computation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}
