// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import "sort"

// Rank orders scored candidates and truncates to topN.
//
// Primary order is score descending; ties break by overlap count descending,
// then by candidate identifier ascending. The comparator is a total order,
// so repeated runs on identical input produce identical output.
//
// Fewer than topN candidates returns all of them, never padded. topN <= 0
// returns InvalidTopNError. The input slice is not modified.
func Rank(scores []SimilarityScore, topN int) ([]SimilarityScore, error) {
	if topN <= 0 {
		return nil, &InvalidTopNError{TopN: topN}
	}

	ranked := make([]SimilarityScore, len(scores))
	copy(ranked, scores)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].OverlapCount != ranked[j].OverlapCount {
			return ranked[i].OverlapCount > ranked[j].OverlapCount
		}
		return ranked[i].Candidate < ranked[j].Candidate
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}
