// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/compmotifs/likeminds/internal/bluesky"
	"github.com/compmotifs/likeminds/internal/ingest"
	"github.com/compmotifs/likeminds/internal/logging"
	"github.com/compmotifs/likeminds/internal/metrics"
	"github.com/compmotifs/likeminds/internal/recommend"
	"github.com/compmotifs/likeminds/internal/validation"
)

// Ingestor assembles the like-graph snapshot for a handle.
type Ingestor interface {
	Ingest(ctx context.Context, handle string) (*ingest.Snapshot, error)
}

// Recommender computes recommendations from a snapshot.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Recommendation, error)
}

// Handler serves the recommendation API.
type Handler struct {
	ingestor Ingestor
	engine   Recommender
	logger   zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(ingestor Ingestor, engine Recommender, logger zerolog.Logger) *Handler {
	return &Handler{
		ingestor: ingestor,
		engine:   engine,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// recommendationResponse is the data payload of a successful recommendation.
type recommendationResponse struct {
	*recommend.Recommendation

	// Handle echoes the requested handle.
	Handle string `json:"handle"`

	// Message carries a friendly explanation for non-standard outcomes,
	// such as a target with no like history.
	Message string `json:"message,omitempty"`

	// DroppedCoLikers is the number of candidate accounts skipped because
	// their like sets could not be fetched.
	DroppedCoLikers int `json:"dropped_co_likers"`
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	start := time.Now()

	var req recommendationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		var verr *validation.RequestError
		if errors.As(err, &verr) {
			rw.ValidationError("request validation failed", verr.Fields)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	logger := logging.Ctx(r.Context())

	snap, err := h.ingestor.Ingest(r.Context(), req.Handle)
	if err != nil {
		h.writeIngestError(rw, logger, req.Handle, err)
		return
	}

	rec, err := h.engine.Recommend(r.Context(), recommend.Request{
		Target:    snap.Target,
		Exclude:   snap.Follows,
		Likes:     snap.Likes,
		TopN:      req.TopN,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		var topNErr *recommend.InvalidTopNError
		if errors.As(err, &topNErr) {
			rw.BadRequest(topNErr.Error())
			return
		}
		logger.Error().Err(err).Str("handle", req.Handle).Msg("recommendation failed")
		rw.InternalError("failed to compute recommendations")
		return
	}

	resp := recommendationResponse{
		Recommendation:  rec,
		Handle:          req.Handle,
		DroppedCoLikers: snap.Dropped,
	}
	if rec.Status == recommend.StatusNoLikeHistory {
		resp.Message = "this account has no liked posts yet, so there is nothing to match on"
	}

	metrics.RecordRecommendation(string(rec.Status), rec.TotalCandidates, time.Since(start))
	rw.Success(resp)
}

// writeIngestError maps ingestion failures to client-facing responses.
func (h *Handler) writeIngestError(rw *responder, logger *zerolog.Logger, handle string, err error) {
	switch {
	case errors.Is(err, bluesky.ErrHandleNotFound):
		rw.NotFound("handle not found: " + handle)
	case bluesky.IsUnavailable(err):
		logger.Warn().Err(err).Str("handle", handle).Msg("upstream unavailable")
		rw.BadGateway("Bluesky API is currently unavailable, try again shortly")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeUpstreamFailed, "request timed out while crawling the like graph")
	default:
		logger.Error().Err(err).Str("handle", handle).Msg("ingestion failed")
		rw.InternalError("failed to fetch like history")
	}
}

// HealthLive handles GET /api/v1/health/live. It reports process liveness
// only; readiness covers dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success(map[string]string{"status": "ready"})
}
