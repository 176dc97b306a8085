// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Scorer computes a pairwise similarity score between two like sets.
//
// Implementations must be pure functions of their inputs: same sets, same
// score. The engine fixes one Scorer per instance so rankings stay
// consistent across requests. Scoring variants (weighted, model-based) plug
// in behind this interface without touching candidate assembly or ranking.
type Scorer interface {
	// Name returns the metric identifier, e.g. "jaccard".
	Name() string

	// Score returns the similarity between the target's and the candidate's
	// like sets, plus the shared posts sorted ascending. Score is >= 0 and
	// monotonic non-decreasing in the overlap size for fixed set sizes.
	Score(targetLikes, candidateLikes LikeSet) (float64, []Post)
}

// Scorer names accepted by NewScorer.
const (
	MetricJaccard = "jaccard"
	MetricOverlap = "overlap"
	MetricRecency = "recency"
)

// NewScorer builds a Scorer from a metric name. halfLife only applies to the
// recency metric; zero disables decay, making it identical to Jaccard.
func NewScorer(metric string, halfLife time.Duration) (Scorer, error) {
	switch metric {
	case MetricJaccard:
		return JaccardScorer{}, nil
	case MetricOverlap:
		return OverlapCoefficientScorer{}, nil
	case MetricRecency:
		return RecencyJaccardScorer{HalfLife: halfLife}, nil
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", metric)
	}
}

// JaccardScorer scores |A∩B| / |A∪B|, bounded to [0, 1]. Symmetric: small
// focused accounts and prolific ones are treated alike. This is the default
// metric.
type JaccardScorer struct{}

// Name returns "jaccard".
func (JaccardScorer) Name() string { return MetricJaccard }

// Score computes the Jaccard similarity. Both sets empty scores 0, not a
// division by zero.
func (JaccardScorer) Score(targetLikes, candidateLikes LikeSet) (float64, []Post) {
	overlap := intersect(targetLikes, candidateLikes)
	union := len(targetLikes) + len(candidateLikes) - len(overlap)
	if union == 0 {
		return 0, nil
	}
	return float64(len(overlap)) / float64(union), overlap
}

// OverlapCoefficientScorer scores |A∩B| / min(|A|,|B|). Asymmetric in
// spirit: a small candidate whose likes are all shared with the target
// scores 1.0 regardless of how prolific the target is.
type OverlapCoefficientScorer struct{}

// Name returns "overlap".
func (OverlapCoefficientScorer) Name() string { return MetricOverlap }

// Score computes the overlap coefficient. Either set empty scores 0.
func (OverlapCoefficientScorer) Score(targetLikes, candidateLikes LikeSet) (float64, []Post) {
	smaller := len(targetLikes)
	if len(candidateLikes) < smaller {
		smaller = len(candidateLikes)
	}
	if smaller == 0 {
		return 0, nil
	}
	overlap := intersect(targetLikes, candidateLikes)
	return float64(len(overlap)) / float64(smaller), overlap
}

// RecencyJaccardScorer is Jaccard with each shared post weighted by an
// exponential recency decay: weight = 0.5^(age/HalfLife), where age is
// measured from the later of the two like timestamps. The denominator stays
// the unweighted union size, so with HalfLife <= 0 every weight is 1 and the
// score reduces exactly to plain Jaccard.
type RecencyJaccardScorer struct {
	// HalfLife is the age at which a shared post's weight halves.
	// Zero or negative disables decay.
	HalfLife time.Duration

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Name returns "recency".
func (RecencyJaccardScorer) Name() string { return MetricRecency }

// Score computes the recency-weighted Jaccard similarity.
func (s RecencyJaccardScorer) Score(targetLikes, candidateLikes LikeSet) (float64, []Post) {
	overlap := intersect(targetLikes, candidateLikes)
	union := len(targetLikes) + len(candidateLikes) - len(overlap)
	if union == 0 {
		return 0, nil
	}

	if s.HalfLife <= 0 {
		return float64(len(overlap)) / float64(union), overlap
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	var weighted float64
	for _, p := range overlap {
		likedAt := targetLikes[p]
		if candidateLikes[p].After(likedAt) {
			likedAt = candidateLikes[p]
		}
		age := now.Sub(likedAt)
		if age < 0 {
			age = 0
		}
		weighted += math.Exp2(-age.Seconds() / s.HalfLife.Seconds())
	}
	return weighted / float64(union), overlap
}

// intersect returns the posts present in both sets, sorted ascending.
// Iterates the smaller set.
func intersect(a, b LikeSet) []Post {
	if len(b) < len(a) {
		a, b = b, a
	}
	shared := make([]Post, 0, len(a))
	for p := range a {
		if b.Contains(p) {
			shared = append(shared, p)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
	return shared
}
