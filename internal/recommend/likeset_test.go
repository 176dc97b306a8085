// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import (
	"testing"
	"time"
)

func TestBuildLikeSets(t *testing.T) {
	baseTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		records     []LikeRecord
		wantUsers   int
		wantDropped int
		verify      func(t *testing.T, sets map[User]LikeSet)
	}{
		{
			name:      "empty input yields empty mapping",
			records:   nil,
			wantUsers: 0,
		},
		{
			name: "groups records by user",
			records: []LikeRecord{
				{User: "alice", Post: "p1", LikedAt: baseTime},
				{User: "alice", Post: "p2", LikedAt: baseTime},
				{User: "bob", Post: "p1", LikedAt: baseTime},
			},
			wantUsers: 2,
			verify: func(t *testing.T, sets map[User]LikeSet) {
				if len(sets["alice"]) != 2 {
					t.Errorf("alice has %d posts, want 2", len(sets["alice"]))
				}
				if len(sets["bob"]) != 1 {
					t.Errorf("bob has %d posts, want 1", len(sets["bob"]))
				}
			},
		},
		{
			name: "deduplicates identical user-post pairs",
			records: []LikeRecord{
				{User: "alice", Post: "p1", LikedAt: baseTime},
				{User: "alice", Post: "p1", LikedAt: baseTime.Add(time.Hour)},
				{User: "alice", Post: "p1", LikedAt: baseTime.Add(-time.Hour)},
			},
			wantUsers: 1,
			verify: func(t *testing.T, sets map[User]LikeSet) {
				if len(sets["alice"]) != 1 {
					t.Fatalf("alice has %d posts, want 1", len(sets["alice"]))
				}
				// Latest timestamp wins
				if got := sets["alice"]["p1"]; !got.Equal(baseTime.Add(time.Hour)) {
					t.Errorf("timestamp = %v, want %v", got, baseTime.Add(time.Hour))
				}
			},
		},
		{
			name: "drops records missing a user",
			records: []LikeRecord{
				{User: "", Post: "p1", LikedAt: baseTime},
				{User: "alice", Post: "p1", LikedAt: baseTime},
			},
			wantUsers:   1,
			wantDropped: 1,
		},
		{
			name: "drops records missing a post",
			records: []LikeRecord{
				{User: "alice", Post: "", LikedAt: baseTime},
				{User: "alice", Post: "p1", LikedAt: baseTime},
			},
			wantUsers:   1,
			wantDropped: 1,
		},
		{
			name: "malformed records never abort the batch",
			records: []LikeRecord{
				{User: "", Post: "", LikedAt: baseTime},
				{User: "alice", Post: "p1", LikedAt: baseTime},
				{User: "", Post: "p2", LikedAt: baseTime},
				{User: "bob", Post: "p2", LikedAt: baseTime},
			},
			wantUsers:   2,
			wantDropped: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets, report := BuildLikeSets(tt.records)

			if len(sets) != tt.wantUsers {
				t.Errorf("got %d users, want %d", len(sets), tt.wantUsers)
			}
			if report.Users != tt.wantUsers {
				t.Errorf("report.Users = %d, want %d", report.Users, tt.wantUsers)
			}
			if report.Dropped != tt.wantDropped {
				t.Errorf("report.Dropped = %d, want %d", report.Dropped, tt.wantDropped)
			}
			if len(report.Errors) != tt.wantDropped {
				t.Errorf("got %d errors, want %d", len(report.Errors), tt.wantDropped)
			}
			if report.Records != len(tt.records) {
				t.Errorf("report.Records = %d, want %d", report.Records, len(tt.records))
			}
			if tt.verify != nil {
				tt.verify(t, sets)
			}
		})
	}
}

func TestBuildLikeSets_ErrorDetail(t *testing.T) {
	_, report := BuildLikeSets([]LikeRecord{
		{User: "alice", Post: "p1"},
		{User: "", Post: "p2"},
	})

	if len(report.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(report.Errors))
	}
	if report.Errors[0].Index != 1 {
		t.Errorf("error index = %d, want 1", report.Errors[0].Index)
	}
	if report.Errors[0].Error() == "" {
		t.Error("error message is empty")
	}
}
