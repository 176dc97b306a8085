// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package middleware provides HTTP middleware shared across the API surface.
package middleware

import (
	"net/http"

	"github.com/compmotifs/likeminds/internal/logging"
)

// RequestID attaches a request ID to each request: reused from the
// X-Request-ID header when an upstream proxy set one, generated otherwise.
// The ID is echoed back in the response header and stored in the request
// context for structured logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
