// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/streamvibe/trendsd/internal/log"
	"github.com/streamvibe/trendsd/internal/tmdb"
	"github.com/streamvibe/trendsd/internal/trends"
)

// windowEnvelope is the response shape for the per-kind trend routes.
type windowEnvelope struct {
	Trends     []trends.TrendingItem `json:"trends"`
	Timestamp  time.Time             `json:"timestamp"`
	TimeWindow string                `json:"timeWindow"`
	Type       string                `json:"type"`
	Cached     bool                  `json:"cached"`
}

// legacyEnvelope is the minimal shape served by the backward-compatibility
// aliases. Not part of the canonical contract.
type legacyEnvelope struct {
	Trends    []trends.TrendingItem `json:"trends"`
	Timestamp time.Time             `json:"timestamp"`
}

type healthEnvelope struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func windowParam(r *http.Request) tmdb.Window {
	return tmdb.NormalizeWindow(r.URL.Query().Get("timeWindow"))
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	window := windowParam(r)
	items, cached, err := s.svc.TrendingMovies(r.Context(), window)
	if err != nil {
		s.serveError(w, r, err, "Failed to fetch trending movies")
		return
	}
	writeJSON(w, http.StatusOK, windowEnvelope{
		Trends:     items,
		Timestamp:  time.Now(),
		TimeWindow: string(window),
		Type:       "movies",
		Cached:     cached,
	})
}

func (s *Server) handleTV(w http.ResponseWriter, r *http.Request) {
	window := windowParam(r)
	items, cached, err := s.svc.TrendingTVShows(r.Context(), window)
	if err != nil {
		s.serveError(w, r, err, "Failed to fetch trending TV shows")
		return
	}
	writeJSON(w, http.StatusOK, windowEnvelope{
		Trends:     items,
		Timestamp:  time.Now(),
		TimeWindow: string(window),
		Type:       "tv",
		Cached:     cached,
	})
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	window := windowParam(r)
	items, cached, err := s.svc.AllTrendingContent(r.Context(), window)
	if err != nil {
		s.serveError(w, r, err, "Failed to fetch trending content")
		return
	}
	writeJSON(w, http.StatusOK, windowEnvelope{
		Trends:     items,
		Timestamp:  time.Now(),
		TimeWindow: string(window),
		Type:       "all",
		Cached:     cached,
	})
}

func (s *Server) handleEntertainment(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("geo")
	if region == "" {
		region = s.cfg.DefaultRegion
	}

	items, cached, err := s.svc.EntertainmentTrends(r.Context(), region)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).
			Str("event", "trends.entertainment_failed").
			Str("region", region).
			Msg("entertainment trends request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to fetch entertainment trends",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, trends.Response{
		Trends:     items,
		Cached:     cached,
		Region:     region,
		Timestamp:  time.Now(),
		TotalCount: len(items),
	})
}

// handleLegacy serves the deprecated realtime/daily aliases, both of which
// map onto the daily all-content feed.
func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	items, _, err := s.svc.AllTrendingContent(r.Context(), tmdb.WindowDay)
	if err != nil {
		s.serveError(w, r, err, "Failed to fetch daily trends")
		return
	}
	writeJSON(w, http.StatusOK, legacyEnvelope{
		Trends:    items,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleTrendsHealth(w http.ResponseWriter, r *http.Request) {
	h := s.svc.CheckHealth(r.Context())
	if h.Status == trends.StatusOK {
		writeJSON(w, http.StatusOK, healthEnvelope{
			Status:    trends.StatusOK,
			Timestamp: time.Now(),
			Service:   "TMDB API",
		})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, healthEnvelope{
		Status:    trends.StatusError,
		Timestamp: time.Now(),
		Error:     "TMDB service unavailable",
	})
}

func (s *Server) serveError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Error().Err(err).
		Str("event", "trends.request_failed").
		Str("path", r.URL.Path).
		Msg("trends request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: message})
}
