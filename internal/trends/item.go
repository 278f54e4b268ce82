// SPDX-License-Identifier: MIT

// Package trends aggregates, normalizes and caches trending content.
package trends

import (
	"fmt"
	"math"
	"time"

	"github.com/streamvibe/trendsd/internal/tmdb"
)

// Kind classifies a trending item.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindShow    Kind = "show"
	KindGeneral Kind = "general" // fallback when no specific kind applies
)

// DefaultRegion is attached to items materialized from TMDB, whose trending
// feeds are not region-scoped.
const DefaultRegion = "Global"

// scoreCap keeps trending scores comparable across kinds and time windows.
const scoreCap = 100

// TrendingItem is the normalized representation of one piece of trending
// content, independent of the upstream record shape it came from.
type TrendingItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Kind           Kind      `json:"type"`
	TrendingScore  float64   `json:"trendingScore"`
	SearchVolume   int       `json:"searchVolume,omitempty"`
	Timeframe      string    `json:"timeframe"`
	Category       string    `json:"category"`
	RelatedQueries []string  `json:"relatedQueries"`
	Timestamp      time.Time `json:"timestamp"`
	Region         string    `json:"region"`

	// Enrichment carried through only when the upstream provides it.
	Overview     string  `json:"overview,omitempty"`
	ReleaseDate  string  `json:"releaseDate,omitempty"`
	VoteAverage  float64 `json:"voteAverage,omitempty"`
	PosterPath   *string `json:"posterPath,omitempty"`
	BackdropPath *string `json:"backdropPath,omitempty"`
	GenreIDs     []int   `json:"genreIds,omitempty"`
}

// Response is the envelope returned for aggregated trend queries. TotalCount
// always equals len(Trends) at construction time, and Cached reports whether
// an unexpired cache entry satisfied the request.
type Response struct {
	Trends     []TrendingItem `json:"trends"`
	Cached     bool           `json:"cached"`
	Region     string         `json:"region"`
	Timestamp  time.Time      `json:"timestamp"`
	TotalCount int            `json:"totalCount"`
}

// timeframeLabel maps an upstream window onto the display label carried by
// normalized items.
func timeframeLabel(window tmdb.Window) string {
	if window == tmdb.WindowWeek {
		return "This Week"
	}
	return "Today"
}

// clampScore rounds the raw popularity float and caps it. SearchVolume is
// never capped; the cap applies to the popularity signal only.
func clampScore(popularity float64) float64 {
	return math.Min(math.Round(popularity), scoreCap)
}

// convertMovie normalizes a movie record. The batch timestamp is shared by
// every item of one upstream response.
func convertMovie(m tmdb.Movie, window tmdb.Window, batchTime time.Time) TrendingItem {
	return TrendingItem{
		ID:             fmt.Sprintf("movie_%d", m.ID),
		Title:          m.Title,
		Kind:           KindMovie,
		TrendingScore:  clampScore(m.Popularity),
		SearchVolume:   m.VoteCount,
		Timeframe:      timeframeLabel(window),
		Category:       "Movies",
		RelatedQueries: []string{},
		Timestamp:      batchTime,
		Region:         DefaultRegion,
		Overview:       m.Overview,
		ReleaseDate:    m.ReleaseDate,
		VoteAverage:    m.VoteAverage,
		PosterPath:     m.PosterPath,
		BackdropPath:   m.BackdropPath,
		GenreIDs:       m.GenreIDs,
	}
}

// convertShow normalizes a TV record. The upstream uses name and
// first_air_date where movies use title and release_date.
func convertShow(s tmdb.Show, window tmdb.Window, batchTime time.Time) TrendingItem {
	return TrendingItem{
		ID:             fmt.Sprintf("tv_%d", s.ID),
		Title:          s.Name,
		Kind:           KindShow,
		TrendingScore:  clampScore(s.Popularity),
		SearchVolume:   s.VoteCount,
		Timeframe:      timeframeLabel(window),
		Category:       "TV Shows",
		RelatedQueries: []string{},
		Timestamp:      batchTime,
		Region:         DefaultRegion,
		Overview:       s.Overview,
		ReleaseDate:    s.FirstAirDate,
		VoteAverage:    s.VoteAverage,
		PosterPath:     s.PosterPath,
		BackdropPath:   s.BackdropPath,
		GenreIDs:       s.GenreIDs,
	}
}
