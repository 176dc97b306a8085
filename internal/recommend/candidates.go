// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import "sort"

// AssembleCandidates determines the universe of users worth scoring for the
// target: every user that is not the target, is not in the exclude set, and
// shares at least one liked post with the target.
//
// The non-empty-intersection restriction bounds scoring cost to the co-likers
// of the target's posts instead of the whole user population. An empty target
// like set therefore yields an empty pool, not an error.
//
// The result is sorted ascending so that downstream iteration is
// deterministic regardless of map order.
func AssembleCandidates(target User, targetLikes LikeSet, all map[User]LikeSet, exclude FollowSet) []User {
	if len(targetLikes) == 0 {
		return nil
	}

	candidates := make([]User, 0, len(all))
	for user, likes := range all {
		if user == target || exclude.Contains(user) {
			continue
		}
		if sharesAny(targetLikes, likes) {
			candidates = append(candidates, user)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates
}

// sharesAny reports whether the two sets have a non-empty intersection.
// Iterates the smaller set.
func sharesAny(a, b LikeSet) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for p := range a {
		if b.Contains(p) {
			return true
		}
	}
	return false
}
