// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package bluesky

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/metrics"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// max429Retries bounds exponential backoff attempts on HTTP 429.
const max429Retries = 3

// likeCollection is the repo collection holding like records.
const likeCollection = "app.bsky.feed.like"

// postsPerBatch is the app.bsky.feed.getPosts URI limit per request.
const postsPerBatch = 25

// Client talks to the public Bluesky XRPC APIs. All methods are safe for
// concurrent use; the shared rate limiter serializes the request budget
// across goroutines.
type Client struct {
	apiBase      string
	plcDirectory string
	httpClient   *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[[]byte]
	logger       zerolog.Logger
	pageSize     int
	maxLikePages int
}

// NewClient creates a Bluesky client from configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg *config.BlueskyConfig, logger zerolog.Logger) *Client {
	componentLogger := logger.With().Str("component", "bluesky").Logger()

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "bluesky-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailureThreshold)
		},
		// Client-side errors (4xx other than 429) do not indicate an
		// unhealthy upstream and must not trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
					statusErr.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			componentLogger.Info().
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("circuit breaker state transition")
			if to == gobreaker.StateOpen {
				metrics.BlueskyBreakerState.Set(1)
			} else {
				metrics.BlueskyBreakerState.Set(0)
			}
		},
	})

	return &Client{
		apiBase:      strings.TrimSuffix(cfg.APIBase, "/"),
		plcDirectory: strings.TrimSuffix(cfg.PLCDirectory, "/"),
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		breaker:      breaker,
		logger:       componentLogger,
		pageSize:     cfg.PageSize,
		maxLikePages: cfg.MaxLikePages,
	}
}

// ResolveHandle converts a handle to a DID. A string that already is a DID
// passes through unchanged.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	if strings.HasPrefix(handle, "did:") {
		return handle, nil
	}

	params := url.Values{"handle": {handle}}
	reqURL := fmt.Sprintf("%s/xrpc/com.atproto.identity.resolveHandle?%s", c.apiBase, params.Encode())

	var resp resolveHandleResponse
	if err := c.doRequest(ctx, "resolveHandle", reqURL, &resp); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusBadRequest || statusErr.StatusCode == http.StatusNotFound) {
			return "", fmt.Errorf("%w: %q", ErrHandleNotFound, handle)
		}
		return "", fmt.Errorf("resolve handle %q: %w", handle, err)
	}
	if resp.DID == "" {
		return "", fmt.Errorf("%w: %q", ErrHandleNotFound, handle)
	}
	return resp.DID, nil
}

// ServiceEndpoint resolves a DID to its PDS base URL. did:plc DIDs go through
// the PLC directory; did:web DIDs read the well-known DID document.
func (c *Client) ServiceEndpoint(ctx context.Context, did string) (string, error) {
	var reqURL string
	if rest, ok := strings.CutPrefix(did, "did:web:"); ok {
		reqURL = fmt.Sprintf("https://%s/.well-known/did.json", rest)
	} else {
		reqURL = fmt.Sprintf("%s/%s", c.plcDirectory, did)
	}

	var doc didDocument
	if err := c.doRequest(ctx, "didDocument", reqURL, &doc); err != nil {
		return "", fmt.Errorf("fetch DID document for %s: %w", did, err)
	}

	for _, svc := range doc.Service {
		if svc.Type == "AtprotoPersonalDataServer" || strings.HasSuffix(svc.ID, "#atproto_pds") {
			return svc.ServiceEndpoint, nil
		}
	}
	if len(doc.Service) > 0 && doc.Service[0].ServiceEndpoint != "" {
		return doc.Service[0].ServiceEndpoint, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoServiceEndpoint, did)
}

// Likes fetches a user's like records from their PDS via listRecords,
// paginating up to the configured page cap. Likes referencing non-post
// collections (feeds, lists) are skipped.
func (c *Client) Likes(ctx context.Context, pdsEndpoint, did string) ([]Like, error) {
	likes := make([]Like, 0, c.pageSize)
	cursor := ""

	for page := 0; page < c.maxLikePages; page++ {
		params := url.Values{
			"repo":       {did},
			"collection": {likeCollection},
			"limit":      {fmt.Sprintf("%d", c.pageSize)},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		reqURL := fmt.Sprintf("%s/xrpc/com.atproto.repo.listRecords?%s",
			strings.TrimSuffix(pdsEndpoint, "/"), params.Encode())

		var resp listRecordsResponse
		if err := c.doRequest(ctx, "listRecords", reqURL, &resp); err != nil {
			return nil, fmt.Errorf("list likes for %s: %w", did, err)
		}

		for _, rec := range resp.Records {
			ref, err := ParsePostURI(rec.Value.Subject.URI)
			if err != nil || !ref.IsFeedPost() {
				continue
			}
			likes = append(likes, Like{
				PostURI:   rec.Value.Subject.URI,
				CreatedAt: parseTimestamp(rec.Value.CreatedAt),
			})
		}

		cursor = resp.Cursor
		if cursor == "" || len(resp.Records) == 0 {
			break
		}
	}
	return likes, nil
}

// PostLikers fetches up to maxLikers accounts that liked the given post.
func (c *Client) PostLikers(ctx context.Context, postURI string, maxLikers int) ([]Actor, error) {
	likers := make([]Actor, 0, maxLikers)
	cursor := ""

	for len(likers) < maxLikers {
		limit := maxLikers - len(likers)
		if limit > 100 {
			limit = 100
		}
		params := url.Values{
			"uri":   {postURI},
			"limit": {fmt.Sprintf("%d", limit)},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		reqURL := fmt.Sprintf("%s/xrpc/app.bsky.feed.getLikes?%s", c.apiBase, params.Encode())

		var resp getLikesResponse
		if err := c.doRequest(ctx, "getLikes", reqURL, &resp); err != nil {
			return nil, fmt.Errorf("get likers of %s: %w", postURI, err)
		}

		for _, entry := range resp.Likes {
			likers = append(likers, entry.Actor)
		}

		cursor = resp.Cursor
		if cursor == "" || len(resp.Likes) == 0 {
			break
		}
	}

	if len(likers) > maxLikers {
		likers = likers[:maxLikers]
	}
	return likers, nil
}

// Follows fetches the full set of accounts the given actor follows.
func (c *Client) Follows(ctx context.Context, actor string) ([]Actor, error) {
	var follows []Actor
	cursor := ""

	for {
		params := url.Values{
			"actor": {actor},
			"limit": {"100"},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		reqURL := fmt.Sprintf("%s/xrpc/app.bsky.graph.getFollows?%s", c.apiBase, params.Encode())

		var resp getFollowsResponse
		if err := c.doRequest(ctx, "getFollows", reqURL, &resp); err != nil {
			return nil, fmt.Errorf("get follows of %s: %w", actor, err)
		}

		follows = append(follows, resp.Follows...)

		cursor = resp.Cursor
		if cursor == "" || len(resp.Follows) == 0 {
			break
		}
	}
	return follows, nil
}

// PostTexts hydrates post text for the given at:// URIs, batching requests at
// the getPosts limit of 25 URIs. Unknown or deleted posts are absent from
// the result.
func (c *Client) PostTexts(ctx context.Context, uris []string) (map[string]string, error) {
	texts := make(map[string]string, len(uris))

	for start := 0; start < len(uris); start += postsPerBatch {
		end := start + postsPerBatch
		if end > len(uris) {
			end = len(uris)
		}

		params := url.Values{}
		for _, uri := range uris[start:end] {
			params.Add("uris", uri)
		}
		reqURL := fmt.Sprintf("%s/xrpc/app.bsky.feed.getPosts?%s", c.apiBase, params.Encode())

		var resp getPostsResponse
		if err := c.doRequest(ctx, "getPosts", reqURL, &resp); err != nil {
			return nil, fmt.Errorf("get posts: %w", err)
		}
		for _, post := range resp.Posts {
			texts[post.URI] = post.Record.Text
		}
	}
	return texts, nil
}

// doRequest performs a rate-limited, breaker-protected GET and decodes the
// JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, endpoint, reqURL)
	})
	duration := time.Since(start)

	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			outcome = "breaker_open"
		case errors.Is(err, ErrRateLimited):
			outcome = "rate_limited"
		}
		metrics.RecordBlueskyRequest(endpoint, outcome, duration)
		return err
	}
	metrics.RecordBlueskyRequest(endpoint, "ok", duration)

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// fetch performs the GET with bounded backoff on HTTP 429.
func (c *Client) fetch(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	backoff := time.Second

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
		}

		if resp.StatusCode == http.StatusOK {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, fmt.Errorf("read %s response: %w", endpoint, readErr)
			}
			return body, nil
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
		}

		// HTTP 429: honor Retry-After if given, otherwise back off
		// exponentially.
		delay := backoff
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if parsed, perr := time.ParseDuration(retryAfter + "s"); perr == nil {
				delay = parsed
			}
		}
		_ = resp.Body.Close()

		if attempt == max429Retries {
			return nil, fmt.Errorf("%w: %s after %d retries", ErrRateLimited, endpoint, max429Retries)
		}

		c.logger.Debug().
			Str("endpoint", endpoint).
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Msg("upstream rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// parseTimestamp parses an AT Protocol timestamp, returning the zero time on
// malformed input rather than failing the whole record.
func parseTimestamp(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
