// SPDX-License-Identifier: MIT

// Package api exposes the trends service over a small REST surface.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamvibe/trendsd/internal/api/middleware"
	"github.com/streamvibe/trendsd/internal/health"
	"github.com/streamvibe/trendsd/internal/tmdb"
	"github.com/streamvibe/trendsd/internal/trends"
)

// TrendsService is the slice of the trends service the HTTP layer consumes.
type TrendsService interface {
	TrendingMovies(ctx context.Context, window tmdb.Window) ([]trends.TrendingItem, bool, error)
	TrendingTVShows(ctx context.Context, window tmdb.Window) ([]trends.TrendingItem, bool, error)
	AllTrendingContent(ctx context.Context, window tmdb.Window) ([]trends.TrendingItem, bool, error)
	EntertainmentTrends(ctx context.Context, region string) ([]trends.TrendingItem, bool, error)
	CheckHealth(ctx context.Context) trends.Health
}

// Config holds HTTP layer settings.
type Config struct {
	DefaultRegion  string
	AllowedOrigins []string
	RateLimitRPM   int
	MetricsHandler http.Handler
}

// Server translates inbound HTTP requests into trends service calls.
type Server struct {
	svc           TrendsService
	healthManager *health.Manager
	cfg           Config
}

// NewServer wires the HTTP layer to the trends service.
func NewServer(svc TrendsService, healthManager *health.Manager, cfg Config) *Server {
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = "US"
	}
	return &Server{
		svc:           svc,
		healthManager: healthManager,
		cfg:           cfg,
	}
}

// Routes builds the router with the canonical middleware stack.
func (s *Server) Routes() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		RateLimitRPM:   s.cfg.RateLimitRPM,
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})

	r.Route("/trends", func(r chi.Router) {
		r.Get("/movies", s.handleMovies)
		r.Get("/tv", s.handleTV)
		r.Get("/all", s.handleAll)
		r.Get("/entertainment", s.handleEntertainment)
		r.Get("/health", s.handleTrendsHealth)

		// Legacy aliases kept for backward compatibility.
		r.Get("/realtime", s.handleLegacy)
		r.Get("/daily", s.handleLegacy)
	})

	if s.healthManager != nil {
		r.Get("/healthz", s.healthManager.ServeHealth)
		r.Get("/readyz", s.healthManager.ServeReady)
	}
	if s.cfg.MetricsHandler != nil {
		r.Handle("/metrics", s.cfg.MetricsHandler)
	}

	return r
}
