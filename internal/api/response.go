// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package api provides the HTTP surface: routing, request validation, and a
// consistent response envelope across all endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/compmotifs/likeminds/internal/logging"
)

// Response is the envelope every endpoint returns.
type Response struct {
	// Success indicates whether the request was handled normally.
	Success bool `json:"success"`

	// Data contains the response payload (null on error).
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success).
	Error *ErrorBody `json:"error,omitempty"`

	// Meta contains response metadata.
	Meta *Meta `json:"meta,omitempty"`
}

// ErrorBody carries machine- and human-readable error details.
type ErrorBody struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details contains additional error details, such as field-level
	// validation failures.
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Meta contains response metadata.
type Meta struct {
	// RequestID is the unique request identifier for tracing.
	RequestID string `json:"request_id,omitempty"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"duration_ms,omitempty"`
}

// Error codes returned in ErrorBody.Code.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeUpstreamFailed     = "UPSTREAM_FAILED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// responder writes envelope responses for one request.
type responder struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

func respond(w http.ResponseWriter, r *http.Request) *responder {
	return &responder{w: w, r: r, startTime: time.Now()}
}

func (rw *responder) meta() *Meta {
	return &Meta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
	}
}

// Success writes a 200 response with data.
func (rw *responder) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, Response{Success: true, Data: data, Meta: rw.meta()})
}

// Error writes an error response with the given status and code.
func (rw *responder) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *responder) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	rw.writeJSON(statusCode, Response{
		Success: false,
		Error: &ErrorBody{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: logging.RequestIDFromContext(rw.r.Context()),
		},
		Meta: rw.meta(),
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *responder) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// ValidationError writes a 400 error with field-level details.
func (rw *responder) ValidationError(message string, details interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// NotFound writes a 404 Not Found error.
func (rw *responder) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// BadGateway writes a 502 for upstream failures.
func (rw *responder) BadGateway(message string) {
	rw.Error(http.StatusBadGateway, ErrCodeUpstreamFailed, message)
}

// InternalError writes a 500 Internal Server Error.
func (rw *responder) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

func (rw *responder) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}
