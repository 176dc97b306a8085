// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package recommend implements the like-overlap recommendation engine.
//
// Given a target user's set of liked posts and the like sets of candidate
// users, the engine finds the users whose interests overlap most strongly
// with the target, excluding the target itself and accounts the target
// already follows.
//
// # Pipeline
//
// The pipeline is a single synchronous computation per request:
//
//	raw like records -> BuildLikeSets -> AssembleCandidates -> Scorer -> Rank
//
// Each stage is a pure function of its inputs; the Engine only adds request
// defaulting, a TTL response cache, and structured logging around them.
//
// # Similarity metrics
//
// Three scorers are provided behind the Scorer interface: Jaccard similarity
// (the default), the overlap coefficient, and a recency-weighted Jaccard
// variant. The metric is fixed per Engine so that rankings stay consistent
// across requests.
//
// # Concurrency
//
// The Engine is safe for concurrent use. Each Recommend call only reads its
// inputs and allocates local outputs; the like data snapshot passed in a
// Request must not be mutated while the call is in flight.
package recommend
