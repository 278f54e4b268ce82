// SPDX-License-Identifier: MIT

package trends

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/streamvibe/trendsd/internal/cache"
	"github.com/streamvibe/trendsd/internal/log"
	"github.com/streamvibe/trendsd/internal/tmdb"
)

// Cache TTLs. Weekly data churns less often than daily data, and the
// entertainment composite is more request-dependent than either.
const (
	dayTTL           = time.Hour
	weekTTL          = 12 * time.Hour
	entertainmentTTL = 30 * time.Minute

	// topPerKind caps each half of the entertainment composite.
	topPerKind = 15

	defaultHealthTimeout = 5 * time.Second
)

// Upstream is the slice of the TMDB client the service depends on.
type Upstream interface {
	TrendingMovies(ctx context.Context, window tmdb.Window) ([]tmdb.Movie, error)
	TrendingTV(ctx context.Context, window tmdb.Window) ([]tmdb.Show, error)
	TrendingAll(ctx context.Context, window tmdb.Window) ([]tmdb.Record, error)
	Configuration(ctx context.Context) error
}

// Health is the always-successful health probe result. Callers branch on
// Status, never on an error value.
type Health struct {
	Status string `json:"status"`
}

// Health status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Service fetches trending content, normalizes it and memoizes the results.
// The cache is an injected dependency so tests can substitute a fake clock
// and deterministic store.
type Service struct {
	client        Upstream
	store         cache.Store
	logger        zerolog.Logger
	now           func() time.Time
	healthTimeout time.Duration
	group         singleflight.Group
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger replaces the default component logger.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithClock substitutes the batch-timestamp time source for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithHealthTimeout overrides the health probe deadline.
func WithHealthTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.healthTimeout = d }
}

// NewService wires the trends service to its upstream client and cache store.
func NewService(client Upstream, store cache.Store, opts ...ServiceOption) *Service {
	s := &Service{
		client:        client,
		store:         store,
		logger:        log.WithComponent("trends"),
		now:           time.Now,
		healthTimeout: defaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ttlFor(window tmdb.Window) time.Duration {
	if window == tmdb.WindowWeek {
		return weekTTL
	}
	return dayTTL
}

// TrendingMovies returns the trending movies for the given window. The
// second return reports whether an unexpired cache entry served the request.
func (s *Service) TrendingMovies(ctx context.Context, window tmdb.Window) ([]TrendingItem, bool, error) {
	return s.cachedFetch(ctx, "tmdb_trending_movies_"+string(window), ttlFor(window), func(ctx context.Context) ([]TrendingItem, error) {
		movies, err := s.client.TrendingMovies(ctx, window)
		if err != nil {
			return nil, err
		}
		batch := s.now()
		items := make([]TrendingItem, 0, len(movies))
		for _, m := range movies {
			items = append(items, convertMovie(m, window, batch))
		}
		s.logger.Info().
			Str("event", "trends.movies_fetched").
			Str("window", string(window)).
			Int("count", len(items)).
			Msg("fetched trending movies")
		return items, nil
	})
}

// TrendingTVShows returns the trending TV shows for the given window.
func (s *Service) TrendingTVShows(ctx context.Context, window tmdb.Window) ([]TrendingItem, bool, error) {
	return s.cachedFetch(ctx, "tmdb_trending_tv_"+string(window), ttlFor(window), func(ctx context.Context) ([]TrendingItem, error) {
		shows, err := s.client.TrendingTV(ctx, window)
		if err != nil {
			return nil, err
		}
		batch := s.now()
		items := make([]TrendingItem, 0, len(shows))
		for _, sh := range shows {
			items = append(items, convertShow(sh, window, batch))
		}
		s.logger.Info().
			Str("event", "trends.tv_fetched").
			Str("window", string(window)).
			Int("count", len(items)).
			Msg("fetched trending TV shows")
		return items, nil
	})
}

// AllTrendingContent returns the interleaved movie/show feed for the given
// window, each record normalized according to its tagged kind.
func (s *Service) AllTrendingContent(ctx context.Context, window tmdb.Window) ([]TrendingItem, bool, error) {
	return s.cachedFetch(ctx, "tmdb_trending_all_"+string(window), ttlFor(window), func(ctx context.Context) ([]TrendingItem, error) {
		records, err := s.client.TrendingAll(ctx, window)
		if err != nil {
			return nil, err
		}
		batch := s.now()
		items := make([]TrendingItem, 0, len(records))
		for _, rec := range records {
			switch {
			case rec.Movie != nil:
				items = append(items, convertMovie(*rec.Movie, window, batch))
			case rec.Show != nil:
				items = append(items, convertShow(*rec.Show, window, batch))
			}
		}
		s.logger.Info().
			Str("event", "trends.all_fetched").
			Str("window", string(window)).
			Int("count", len(items)).
			Msg("fetched all trending content")
		return items, nil
	})
}

// EntertainmentTrends returns the ranked entertainment composite for a
// region: the top movies by trending score followed by the top shows. The
// two sub-fetches run concurrently and settle independently; one branch
// failing is tolerated, both failing fails the operation.
func (s *Service) EntertainmentTrends(ctx context.Context, region string) ([]TrendingItem, bool, error) {
	key := "tmdb_entertainment_" + region
	if v, ok := s.store.Get(key); ok {
		if items, ok := coerceItems(v); ok {
			observeCache("hit")
			return items, true, nil
		}
	}
	observeCache("miss")

	var (
		wg          sync.WaitGroup
		movies      []TrendingItem
		shows       []TrendingItem
		mErr, tvErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		movies, _, mErr = s.TrendingMovies(ctx, tmdb.WindowDay)
	}()
	go func() {
		defer wg.Done()
		shows, _, tvErr = s.TrendingTVShows(ctx, tmdb.WindowDay)
	}()
	wg.Wait()

	if mErr != nil && tvErr != nil {
		return nil, false, mErr
	}
	if mErr != nil {
		s.logger.Warn().Err(mErr).
			Str("event", "trends.partial_failure").
			Str("branch", "movies").
			Msg("movies fetch failed, serving shows only")
	}
	if tvErr != nil {
		s.logger.Warn().Err(tvErr).
			Str("event", "trends.partial_failure").
			Str("branch", "tv").
			Msg("tv fetch failed, serving movies only")
	}

	combined := append(topByScore(movies, topPerKind), topByScore(shows, topPerKind)...)
	s.store.Set(key, combined, entertainmentTTL)

	s.logger.Info().
		Str("event", "trends.entertainment_built").
		Str("region", region).
		Int("count", len(combined)).
		Msg("built entertainment trends")
	return combined, false, nil
}

// CheckHealth probes upstream reachability with a short deadline. It never
// returns an error; failures surface as Status "error".
func (s *Service) CheckHealth(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	if err := s.client.Configuration(ctx); err != nil {
		s.logger.Warn().Err(err).
			Str("event", "trends.health_failed").
			Msg("TMDB health check failed")
		return Health{Status: StatusError}
	}
	return Health{Status: StatusOK}
}

// cachedFetch memoizes fetch under key. Concurrent misses for the same key
// collapse into one upstream call via singleflight.
func (s *Service) cachedFetch(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) ([]TrendingItem, error)) ([]TrendingItem, bool, error) {
	if v, ok := s.store.Get(key); ok {
		if items, ok := coerceItems(v); ok {
			observeCache("hit")
			return items, true, nil
		}
	}
	observeCache("miss")

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent flight may have populated the cache while this
		// goroutine waited on the flight lock.
		if v, ok := s.store.Get(key); ok {
			if items, ok := coerceItems(v); ok {
				return items, nil
			}
		}
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.store.Set(key, items, ttl)
		return items, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]TrendingItem), false, nil
}

// coerceItems recovers []TrendingItem from a cache value. Stores that
// serialize (Redis) hand back generic JSON values, which are re-decoded.
func coerceItems(v any) ([]TrendingItem, bool) {
	if items, ok := v.([]TrendingItem); ok {
		return items, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var items []TrendingItem
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// topByScore sorts a copy of items by trending score descending and caps the
// result at n. Ties may appear in either order.
func topByScore(items []TrendingItem, n int) []TrendingItem {
	sorted := make([]TrendingItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TrendingScore > sorted[j].TrendingScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
