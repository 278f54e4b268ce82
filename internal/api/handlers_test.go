// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvibe/trendsd/internal/health"
	"github.com/streamvibe/trendsd/internal/tmdb"
	"github.com/streamvibe/trendsd/internal/trends"
)

type stubService struct {
	items      []trends.TrendingItem
	cached     bool
	err        error
	healthy    bool
	lastWindow tmdb.Window
	lastRegion string
}

func (s *stubService) TrendingMovies(_ context.Context, window tmdb.Window) ([]trends.TrendingItem, bool, error) {
	s.lastWindow = window
	return s.items, s.cached, s.err
}

func (s *stubService) TrendingTVShows(_ context.Context, window tmdb.Window) ([]trends.TrendingItem, bool, error) {
	s.lastWindow = window
	return s.items, s.cached, s.err
}

func (s *stubService) AllTrendingContent(_ context.Context, window tmdb.Window) ([]trends.TrendingItem, bool, error) {
	s.lastWindow = window
	return s.items, s.cached, s.err
}

func (s *stubService) EntertainmentTrends(_ context.Context, region string) ([]trends.TrendingItem, bool, error) {
	s.lastRegion = region
	return s.items, s.cached, s.err
}

func (s *stubService) CheckHealth(context.Context) trends.Health {
	if s.healthy {
		return trends.Health{Status: trends.StatusOK}
	}
	return trends.Health{Status: trends.StatusError}
}

func sampleItems() []trends.TrendingItem {
	return []trends.TrendingItem{
		{
			ID:             "movie_550",
			Title:          "Fight Club",
			Kind:           trends.KindMovie,
			TrendingScore:  61,
			SearchVolume:   26280,
			Timeframe:      "Today",
			Category:       "Movies",
			RelatedQueries: []string{},
			Timestamp:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Region:         "Global",
		},
	}
}

func newTestServer(svc TrendsService) http.Handler {
	srv := NewServer(svc, nil, Config{})
	return srv.Routes()
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestTrendsMovies(t *testing.T) {
	svc := &stubService{items: sampleItems(), cached: true, healthy: true}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/movies")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tmdb.WindowDay, svc.lastWindow, "timeWindow defaults to day")

	var body struct {
		Trends     []trends.TrendingItem `json:"trends"`
		TimeWindow string                `json:"timeWindow"`
		Type       string                `json:"type"`
		Cached     bool                  `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "movies", body.Type)
	assert.Equal(t, "day", body.TimeWindow)
	assert.True(t, body.Cached)
	require.Len(t, body.Trends, 1)
	assert.Equal(t, "movie_550", body.Trends[0].ID)
}

func TestTrendsMoviesWeekWindow(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/movies?timeWindow=week")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tmdb.WindowWeek, svc.lastWindow)
}

func TestTrendsMoviesInvalidWindowFallsBack(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/movies?timeWindow=year")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tmdb.WindowDay, svc.lastWindow)
}

func TestTrendsTVAndAllTypes(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	handler := newTestServer(svc)

	for target, wantType := range map[string]string{
		"/trends/tv":  "tv",
		"/trends/all": "all",
	} {
		rec := doRequest(t, handler, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, wantType, body["type"], target)
	}
}

func TestTrendsMoviesUpstreamFailure(t *testing.T) {
	svc := &stubService{err: errors.New("upstream exploded")}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/movies")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch trending movies", body["error"])
	assert.NotContains(t, body, "message", "internal detail stays out of the per-kind routes")
}

func TestTrendsEntertainment(t *testing.T) {
	svc := &stubService{items: sampleItems(), cached: true}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/entertainment")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "US", svc.lastRegion, "geo defaults to US")

	var body trends.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Cached)
	assert.Equal(t, "US", body.Region)
	assert.Equal(t, 1, body.TotalCount)
	assert.Len(t, body.Trends, body.TotalCount)
}

func TestTrendsEntertainmentGeoParam(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/entertainment?geo=DE")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DE", svc.lastRegion)
}

func TestTrendsEntertainmentFailureIncludesDetail(t *testing.T) {
	svc := &stubService{err: errors.New("both branches down")}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/entertainment")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch entertainment trends", body["error"])
	assert.Equal(t, "both branches down", body["message"])
}

func TestLegacyAliases(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	handler := newTestServer(svc)

	for _, target := range []string{"/trends/realtime", "/trends/daily"} {
		rec := doRequest(t, handler, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, tmdb.WindowDay, svc.lastWindow)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "trends")
		assert.Contains(t, body, "timestamp")
		assert.NotContains(t, body, "type", "legacy envelope stays minimal")
	}
}

func TestTrendsHealthOK(t *testing.T) {
	svc := &stubService{healthy: true}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/health")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "TMDB API", body["service"])
}

func TestTrendsHealthUnavailable(t *testing.T) {
	svc := &stubService{healthy: false}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/health")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "TMDB service unavailable", body["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	rec := doRequest(t, newTestServer(svc), http.MethodPost, "/trends/movies")

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestUnknownRoute(t *testing.T) {
	svc := &stubService{}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/unknown")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeaderIssued(t *testing.T) {
	svc := &stubService{items: sampleItems()}
	rec := doRequest(t, newTestServer(svc), http.MethodGet, "/trends/movies")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels are not JSON-serializable; the failure is logged, not fatal.
	writeJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProcessHealthEndpoints(t *testing.T) {
	manager := health.NewManager("test")
	srv := NewServer(&stubService{healthy: true}, manager, Config{})
	handler := srv.Routes()

	rec := doRequest(t, handler, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
