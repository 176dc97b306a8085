// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package bluesky

import (
	"fmt"
	"strings"
)

// PostRef identifies a post by its repository, collection and record key.
type PostRef struct {
	Repo       string
	Collection string
	RKey       string
}

// ParsePostURI splits an at:// post URI into its components.
//
//	at://did:plc:abc/app.bsky.feed.post/3kl5q7qhny22l
func ParsePostURI(uri string) (PostRef, error) {
	trimmed, ok := strings.CutPrefix(uri, "at://")
	if !ok {
		return PostRef{}, fmt.Errorf("not an at:// URI: %q", uri)
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return PostRef{}, fmt.Errorf("malformed at:// URI: %q", uri)
	}
	return PostRef{Repo: parts[0], Collection: parts[1], RKey: parts[2]}, nil
}

// WebURL returns the canonical bsky.app URL for the post. This is the stable
// post identifier used throughout LikeMinds.
func (r PostRef) WebURL() string {
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", r.Repo, r.RKey)
}

// ATURI returns the at:// form of the reference.
func (r PostRef) ATURI() string {
	return fmt.Sprintf("at://%s/%s/%s", r.Repo, r.Collection, r.RKey)
}

// IsFeedPost reports whether the reference points at an app.bsky.feed.post.
// Like records can reference other collections (feed generators, lists);
// those are ignored for similarity purposes.
func (r PostRef) IsFeedPost() bool {
	return r.Collection == "app.bsky.feed.post"
}

// ParsePostURL converts a bsky.app post URL back into a PostRef. The profile
// segment may be a handle or a DID; resolution to a DID is the caller's job
// when needed.
//
//	https://bsky.app/profile/bsky.app/post/3kl5q7qhny22l
func ParsePostURL(rawURL string) (PostRef, error) {
	trimmed, ok := strings.CutPrefix(rawURL, "https://bsky.app/profile/")
	if !ok {
		return PostRef{}, fmt.Errorf("not a bsky.app post URL: %q", rawURL)
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 || parts[1] != "post" || parts[0] == "" || parts[2] == "" {
		return PostRef{}, fmt.Errorf("malformed post URL: %q", rawURL)
	}
	return PostRef{Repo: parts[0], Collection: "app.bsky.feed.post", RKey: parts[2]}, nil
}
