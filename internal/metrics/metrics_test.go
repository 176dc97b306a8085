// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.CollectAndCount(APIRequestsTotal)
	RecordAPIRequest("POST", "/api/v1/recommendations", 200, 50*time.Millisecond)
	after := testutil.CollectAndCount(APIRequestsTotal)

	if after <= before-1 {
		t.Errorf("counter series count did not grow: before=%d after=%d", before, after)
	}

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))
	if got < 1 {
		t.Errorf("counter = %v, want >= 1", got)
	}
}

func TestRecordBlueskyRequest(t *testing.T) {
	RecordBlueskyRequest("listRecords", "ok", 10*time.Millisecond)

	got := testutil.ToFloat64(BlueskyRequestsTotal.WithLabelValues("listRecords", "ok"))
	if got < 1 {
		t.Errorf("counter = %v, want >= 1", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	RecordRecommendation("ok", 42, 5*time.Millisecond)

	got := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues("ok"))
	if got < 1 {
		t.Errorf("counter = %v, want >= 1", got)
	}
}

func TestStoreCounters(t *testing.T) {
	before := testutil.ToFloat64(StoreHits)
	StoreHits.Inc()
	if got := testutil.ToFloat64(StoreHits); got != before+1 {
		t.Errorf("StoreHits = %v, want %v", got, before+1)
	}
}
