// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package bluesky

import "time"

// Actor is a Bluesky account reference.
type Actor struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

// Like is one like record pulled from a user's repository.
type Like struct {
	// PostURI is the at:// URI of the liked post.
	PostURI string

	// CreatedAt is when the like was created.
	CreatedAt time.Time
}

// resolveHandleResponse is the com.atproto.identity.resolveHandle payload.
type resolveHandleResponse struct {
	DID string `json:"did"`
}

// didDocument is the subset of a DID document needed to find the PDS.
type didDocument struct {
	Service []didService `json:"service"`
}

type didService struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// listRecordsResponse is the com.atproto.repo.listRecords payload.
type listRecordsResponse struct {
	Cursor  string       `json:"cursor"`
	Records []likeRecord `json:"records"`
}

type likeRecord struct {
	URI   string        `json:"uri"`
	Value likeRecordVal `json:"value"`
}

type likeRecordVal struct {
	Subject   recordSubject `json:"subject"`
	CreatedAt string        `json:"createdAt"`
}

type recordSubject struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// getLikesResponse is the app.bsky.feed.getLikes payload.
type getLikesResponse struct {
	Cursor string      `json:"cursor"`
	Likes  []likeEntry `json:"likes"`
}

type likeEntry struct {
	Actor     Actor  `json:"actor"`
	CreatedAt string `json:"createdAt"`
}

// getFollowsResponse is the app.bsky.graph.getFollows payload.
type getFollowsResponse struct {
	Cursor  string  `json:"cursor"`
	Follows []Actor `json:"follows"`
}

// getPostsResponse is the app.bsky.feed.getPosts payload.
type getPostsResponse struct {
	Posts []postView `json:"posts"`
}

type postView struct {
	URI    string     `json:"uri"`
	Record postRecord `json:"record"`
}

type postRecord struct {
	Text string `json:"text"`
}
