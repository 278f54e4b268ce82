// SPDX-License-Identifier: MIT

// Package tmdb wraps the TMDB trending-content API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamvibe/trendsd/internal/config"
	"github.com/streamvibe/trendsd/internal/log"
)

const (
	// DefaultBaseURL is the production TMDB API endpoint.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// Config holds client construction parameters. At least one of Token
// (bearer read access token) or APIKey (api_key query parameter) must be set.
type Config struct {
	BaseURL string
	Token   string
	APIKey  string
	Timeout time.Duration
}

// Client calls the TMDB API. It performs exactly one attempt per logical
// fetch; retry policy belongs to the caller.
type Client struct {
	base   string
	token  string
	apiKey string
	http   *http.Client
	logger zerolog.Logger
}

// New constructs a Client. It fails fast with config.ErrMissingCredentials
// when neither credential form is present, so a misconfigured process never
// reaches the serving path.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" && cfg.APIKey == "" {
		return nil, fmt.Errorf("tmdb: %w", config.ErrMissingCredentials)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		base:   strings.TrimRight(base, "/"),
		token:  cfg.Token,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: timeout},
		logger: log.WithComponent("tmdb"),
	}, nil
}

// TrendingMovies fetches the trending movies for the given window.
func (c *Client) TrendingMovies(ctx context.Context, window Window) ([]Movie, error) {
	var p page[Movie]
	if err := c.get(ctx, "/trending/movie/"+string(window), "trending_movies", &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

// TrendingTV fetches the trending TV shows for the given window.
func (c *Client) TrendingTV(ctx context.Context, window Window) ([]Show, error) {
	var p page[Show]
	if err := c.get(ctx, "/trending/tv/"+string(window), "trending_tv", &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

// TrendingAll fetches the interleaved movie/show feed for the given window.
// Records of other media types (people, collections) are logged and dropped
// rather than propagated.
func (c *Client) TrendingAll(ctx context.Context, window Window) ([]Record, error) {
	var p page[Record]
	if err := c.get(ctx, "/trending/all/"+string(window), "trending_all", &p); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(p.Results))
	for _, rec := range p.Results {
		if rec.Movie == nil && rec.Show == nil {
			c.logger.Debug().
				Str("event", "tmdb.record_skipped").
				Str("media_type", string(rec.Type)).
				Msg("skipping non-movie, non-tv trending record")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Configuration probes the lightweight /configuration endpoint. It is the
// cheapest authenticated call TMDB offers and backs the health check.
func (c *Client) Configuration(ctx context.Context) error {
	var ignored json.RawMessage
	return c.get(ctx, "/configuration", "configuration", &ignored)
}

func (c *Client) get(ctx context.Context, path, operation string, out any) error {
	start := time.Now()

	u := c.base + path
	if c.token == "" && c.apiKey != "" {
		u += "?api_key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Sentinel: ErrBadResponse, Operation: operation, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		observeRequest(operation, "transport_error", time.Since(start))
		sentinel := ErrUnavailable
		if isTimeout(err) {
			sentinel = ErrTimeout
		}
		return &Error{Sentinel: sentinel, Operation: operation, Err: err}
	}
	defer res.Body.Close() //nolint:errcheck

	observeRequest(operation, fmt.Sprintf("%d", res.StatusCode), time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &Error{
			Sentinel:  statusSentinel(res.StatusCode),
			Operation: operation,
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Sentinel: ErrBadResponse, Operation: operation, Err: err}
	}
	return nil
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrForbidden
	case status >= 500:
		return ErrUpstream
	default:
		return ErrBadResponse
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
