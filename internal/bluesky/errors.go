// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package bluesky

import (
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"
)

var (
	// ErrHandleNotFound indicates a handle that could not be resolved to a DID.
	ErrHandleNotFound = errors.New("handle not found")

	// ErrNoServiceEndpoint indicates a DID document without a usable PDS entry.
	ErrNoServiceEndpoint = errors.New("no service endpoint in DID document")

	// ErrRateLimited indicates the upstream kept returning HTTP 429 after all
	// backoff retries were exhausted.
	ErrRateLimited = errors.New("upstream rate limit exceeded")
)

// StatusError is returned for unexpected upstream HTTP status codes.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsUnavailable reports whether the error means the upstream is currently
// unreachable rather than the request being wrong. Callers can map this to a
// 502 instead of a 500.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) ||
		errors.Is(err, ErrRateLimited)
}
