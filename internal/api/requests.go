// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/compmotifs/likeminds/internal/validation"
)

// maxRequestBodySize caps request bodies to prevent memory exhaustion.
const maxRequestBodySize = 64 * 1024

// recommendationRequest is the body of POST /api/v1/recommendations.
type recommendationRequest struct {
	// Handle is the Bluesky handle or DID to recommend follows for.
	Handle string `json:"handle" validate:"required,min=3,max=253"`

	// TopN is the number of recommendations to return. Zero uses the
	// configured default; the server caps the value at its maximum.
	TopN int `json:"top_n" validate:"gte=0"`
}

// decodeAndValidate decodes a JSON request body into dst and runs struct
// validation. Returns a client-facing error message on failure.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodySize)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}
