// SPDX-License-Identifier: MIT

package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/streamvibe/trendsd/internal/tmdb"
)

var batchTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestConvertMovie(t *testing.T) {
	poster := "/fight-club.jpg"
	item := convertMovie(tmdb.Movie{
		ID:          550,
		Title:       "Fight Club",
		Popularity:  61.416,
		VoteCount:   26280,
		VoteAverage: 8.4,
		ReleaseDate: "1999-10-15",
		Overview:    "An insomniac office worker...",
		GenreIDs:    []int{18},
		PosterPath:  &poster,
	}, tmdb.WindowDay, batchTime)

	assert.Equal(t, "movie_550", item.ID)
	assert.Equal(t, "Fight Club", item.Title)
	assert.Equal(t, KindMovie, item.Kind)
	assert.Equal(t, float64(61), item.TrendingScore, "popularity is rounded")
	assert.Equal(t, 26280, item.SearchVolume)
	assert.Equal(t, "Today", item.Timeframe)
	assert.Equal(t, "Movies", item.Category)
	assert.Equal(t, []string{}, item.RelatedQueries)
	assert.Equal(t, batchTime, item.Timestamp)
	assert.Equal(t, "Global", item.Region)
	assert.Equal(t, "1999-10-15", item.ReleaseDate)
	assert.Equal(t, 8.4, item.VoteAverage)
	assert.Equal(t, &poster, item.PosterPath)
}

func TestConvertShow(t *testing.T) {
	item := convertShow(tmdb.Show{
		ID:           1399,
		Name:         "Game of Thrones",
		Popularity:   369.594,
		VoteCount:    21857,
		FirstAirDate: "2011-04-17",
	}, tmdb.WindowWeek, batchTime)

	assert.Equal(t, "tv_1399", item.ID)
	assert.Equal(t, "Game of Thrones", item.Title, "shows use the name field")
	assert.Equal(t, KindShow, item.Kind)
	assert.Equal(t, float64(100), item.TrendingScore, "score is capped at 100")
	assert.Equal(t, 21857, item.SearchVolume, "search volume is never capped")
	assert.Equal(t, "This Week", item.Timeframe)
	assert.Equal(t, "TV Shows", item.Category)
	assert.Equal(t, "2011-04-17", item.ReleaseDate, "shows use first_air_date")
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, float64(61), clampScore(61.416))
	assert.Equal(t, float64(62), clampScore(61.5))
	assert.Equal(t, float64(100), clampScore(369.594))
	assert.Equal(t, float64(0), clampScore(0))
}

func TestIDNamespacing(t *testing.T) {
	// A movie and a show sharing a numeric upstream ID must not collide.
	movie := convertMovie(tmdb.Movie{ID: 42, Title: "m"}, tmdb.WindowDay, batchTime)
	show := convertShow(tmdb.Show{ID: 42, Name: "s"}, tmdb.WindowDay, batchTime)
	assert.NotEqual(t, movie.ID, show.ID)
}
