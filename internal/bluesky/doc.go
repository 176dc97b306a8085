// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package bluesky implements a read-only AT Protocol client for the public
// Bluesky APIs used by LikeMinds:
//
//   - com.atproto.identity.resolveHandle: handle -> DID
//   - plc.directory / did:web well-known: DID -> PDS service endpoint
//   - com.atproto.repo.listRecords: a user's app.bsky.feed.like records
//   - app.bsky.feed.getLikes: who liked a post
//   - app.bsky.graph.getFollows: who a user follows
//   - app.bsky.feed.getPosts: post text hydration, 25 URIs per request
//
// All calls share a token-bucket rate limiter and a circuit breaker so a
// degraded upstream cannot be hammered. Requests honor HTTP 429 Retry-After
// with bounded exponential backoff.
package bluesky
