// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

// BuildReport summarizes one BuildLikeSets run.
type BuildReport struct {
	// Records is the number of input records, malformed ones included.
	Records int

	// Dropped is the number of malformed records that were skipped.
	Dropped int

	// Users is the number of distinct users in the output mapping.
	Users int

	// Errors holds one entry per dropped record.
	Errors []*MalformedRecordError
}

// BuildLikeSets normalizes raw fetched like records into canonical per-user
// like sets. Records are grouped by user and deduplicated per (user, post)
// pair; on duplicates the latest like timestamp wins. Records missing a user
// or post identifier are dropped and reported, never fatal to the batch.
//
// Input order is irrelevant; the output has one entry per distinct user seen.
func BuildLikeSets(records []LikeRecord) (map[User]LikeSet, BuildReport) {
	sets := make(map[User]LikeSet)
	report := BuildReport{Records: len(records)}

	for i, rec := range records {
		if rec.User == "" {
			report.Dropped++
			report.Errors = append(report.Errors, &MalformedRecordError{Index: i, Reason: "missing user identifier"})
			continue
		}
		if rec.Post == "" {
			report.Dropped++
			report.Errors = append(report.Errors, &MalformedRecordError{Index: i, Reason: "missing post identifier"})
			continue
		}

		set, ok := sets[rec.User]
		if !ok {
			set = make(LikeSet)
			sets[rec.User] = set
		}

		if prev, seen := set[rec.Post]; !seen || rec.LikedAt.After(prev) {
			set[rec.Post] = rec.LikedAt
		}
	}

	report.Users = len(sets)
	return sets, report
}
